package testutils

// NavigationDomainYAML is NavigationDomain in document form.
const NavigationDomainYAML = `kind: domain
name: navigation
types:
  - name: location
  - name: robot
predicates:
  - name: at
    params:
      - {name: "?r", type: robot}
      - {name: "?l", type: location}
  - name: connected
    params:
      - {name: "?a", type: location}
      - {name: "?b", type: location}
actions:
  - name: navigate
    params:
      - {name: "?r", type: robot}
      - {name: "?from", type: location}
      - {name: "?to", type: location}
    pre:
      - (at ?r ?from)
      - (connected ?from ?to)
    add:
      - (at ?r ?to)
    del:
      - (at ?r ?from)
`

// WardRouteYAML is a chain base, reception, pharmacy, ward_a with both
// directions declared; the shortest plan from base to ward_a has 3 steps.
const WardRouteYAML = `kind: problem
name: ward-route
domain: navigation
objects:
  - {name: r1, type: robot}
  - {name: base, type: location}
  - {name: reception, type: location}
  - {name: pharmacy, type: location}
  - {name: ward_a, type: location}
init:
  - (at r1 base)
  - (connected base reception)
  - (connected reception base)
  - (connected reception pharmacy)
  - (connected pharmacy reception)
  - (connected pharmacy ward_a)
  - (connected ward_a pharmacy)
goal:
  - (at r1 ward_a)
`

// WardRouteJSON is WardRouteYAML encoded as JSON.
const WardRouteJSON = `{
  "kind": "problem",
  "name": "ward-route",
  "domain": "navigation",
  "objects": [
    {"name": "r1", "type": "robot"},
    {"name": "base", "type": "location"},
    {"name": "reception", "type": "location"},
    {"name": "pharmacy", "type": "location"},
    {"name": "ward_a", "type": "location"}
  ],
  "init": [
    "(at r1 base)",
    "(connected base reception)", "(connected reception base)",
    "(connected reception pharmacy)", "(connected pharmacy reception)",
    "(connected pharmacy ward_a)", "(connected ward_a pharmacy)"
  ],
  "goal": ["(at r1 ward_a)"]
}`
