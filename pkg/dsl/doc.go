/*
Package dsl provides a fluent Go builder for planning domains and problems.

It is an alternative to YAML or JSON definition files that keeps models
type-checked by the compiler, which is handy for tests and for generating
problems programmatically.

Example usage:

	d, err := dsl.NewDomain("navigation").
		Type("location").
		Type("robot").
		Predicate("at", "robot", "location").
		Predicate("connected", "location", "location").
		Action("navigate").
		Param("?r", "robot").Param("?from", "location").Param("?to", "location").
		Pre("at", "?r", "?from").Pre("connected", "?from", "?to").
		Add("at", "?r", "?to").
		Del("at", "?r", "?from").
		Build()

	p, err := dsl.NewProblem("to-pharmacy", "navigation").
		Objects("location", "base", "pharmacy").
		Objects("robot", "r1").
		Init("at", "r1", "base").
		Link("connected", "base", "pharmacy").
		Goal("at", "r1", "pharmacy").
		Build(d)
*/
package dsl
