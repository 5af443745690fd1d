/*
Package observability turns search lifecycle events into structured logs and
Prometheus metrics.

Both are delivered as domain.SearchHooks so they can be passed to the planner
with wayfinder.WithHooks, and combined with Chain.
*/
package observability
