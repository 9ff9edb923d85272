/*
Package domain contains the core models of the patrol simulator.

It defines the grid, the agent's heading state machine and the results produced by
the tracer and the obstruction search. This package is kept pure and free of external
dependencies like I/O or persistence.

# Key Entities

  - Grid: immutable rectangular bounds plus obstacle set, with copy-on-write derivation.
  - Agent: position, heading and start cell; Advance applies one transition.
  - Trace: the visited-state record and verdict of a single run (exit, loop or blocked).
  - SearchResult: loop-inducing obstruction cells found for a scenario.
  - Report: the persisted summary of a full analysis.
*/
package domain
