/*
Package ports defines the driven ports (interfaces) of the patrol engine.

These interfaces decouple the simulation core from external implementations, allowing
reports to be kept in memory, on disk or in Redis, and analyses to be coordinated
across processes.

# Key Interfaces

  - Simulator: parse, trace and search, as consumed by the HTTP and MCP adapters.
  - ReportStore: persists analysis reports.
  - DistributedLocker: provides distributed locking so concurrent requests for the same grid compute once.
*/
package ports
