// Package memsim simulates a DRAM memory controller at one of three
// fidelity levels: BEHAVIORAL, TRANSACTIONAL, and CYCLE_ACCURATE. The
// cycle-accurate level models per-bank JEDEC protocol state machines,
// a pluggable request scheduler, and a refresh manager, all bound by
// the timing constraints of the configured memory technology.
//
// A controller is built with Builder and driven by calling Submit,
// Tick (or TickN), and Drain. There is no background goroutine: all
// three fidelities are single-threaded and cooperative.
package memsim
