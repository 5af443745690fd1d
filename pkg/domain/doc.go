/*
Package domain contains the planning model of wayfinder: typed STRIPS domains
and the problem instances bound to them.

Raw descriptions (DomainSpec, ProblemSpec) are validated once by NewDomain and
NewProblem. Every type, predicate, object and action name is resolved to an
integer handle at that point, so nothing downstream compares strings. The
resulting Domain and Problem are immutable and safe to share between
goroutines. This package has no I/O and no dependencies outside the standard
library.

# Key Entities

  - Domain: types (a DAG rooted at "object"), predicates and action schemas.
  - Problem: typed objects, the initial atoms and the goal literals.
  - Step: one ground action of a plan, by name, with its text form "(navigate r1 a b)".
  - Report: the outcome of a solve or validate request.
  - SchemaError, ProblemError, ValidationError, GoalNotReachedError: typed failures.
*/
package domain
