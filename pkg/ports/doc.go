/*
Package ports defines the driven ports (interfaces) of wayfinder.

These interfaces decouple the planner from where definitions come from and
where results go, so the same core runs behind the CLI, the HTTP API and
the MCP server.

# Key Interfaces

  - DefinitionLoader: loads domain and problem specifications (files, Loam, memory).
  - ReportStore: persists planning reports (memory, Redis, SQLite).
*/
package ports
