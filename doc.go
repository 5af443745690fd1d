/*
Package wayfinder is a typed STRIPS planning engine designed for robot navigation, task sequencing, and checking plans produced by other systems.

It separates the planning model (Domain and Problem) from the search (strategies and heuristics) and from the outside world (definition loaders, report stores, HTTP and MCP adapters).

# Concept

A domain declares types, predicates and action schemas. A problem binds typed objects to a domain and states an initial situation and a goal. The planner validates both, runs the invariant checks, grounds every action against the objects and searches the state space for a sequence of actions reaching the goal. Every request ends in a Report whose Outcome tells solved, unreachable and budget_exceeded apart from malformed input.

# Key Features

  - Deterministic Search: Given the same problem and strategy, the plan is always the same.
  - Typed Models: Type hierarchies, constants and negative preconditions, with every schema violation reported at once.
  - Plan Validation: Plans from LLMs or other planners are replayed step by step and the first failing precondition is named.
  - Hexagonal Architecture: Definitions and reports live behind ports (file, loam, memory, redis, sqlite).

# Usage

Load definitions from a directory and solve a problem by ID.

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/wayfinder"
		"github.com/aretw0/wayfinder/pkg/adapters/file"
		"github.com/aretw0/wayfinder/pkg/format"
	)

	func main() {
		ctx := context.Background()

		// A* over the (connected ?a ?b) relation, moving (at ?robot ?location)
		planner := wayfinder.New(
			wayfinder.WithStrategy("astar"),
			wayfinder.WithNavigation("connected", "at"),
		)

		// Resolve the problem and the domain it names from ./library
		prob, err := planner.Load(ctx, file.NewLoader("./library"), "problems/er-to-ward")
		if err != nil {
			log.Fatal(err)
		}

		report, err := planner.Solve(ctx, prob)
		if err != nil {
			log.Fatalf("%s: %v", report.Outcome, err)
		}

		// (navigate r1 er reception) ... ; Plan length: 4
		if err := format.Write(os.Stdout, format.Raw, report, format.Options{}); err != nil {
			log.Fatal(err)
		}
	}
*/
package wayfinder
