// Package fsm implements table-driven Mealy and Moore machines.
//
// Both machine kinds step over static, caller-owned tables. The engine
// performs no validation and no allocation: a machine holds a single byte
// of mutable state plus borrowed references to its tables, and every Step
// is a deterministic linear scan.
//
// Lookup discipline:
//   - Transition and Mealy output tables are scanned in declaration order.
//   - The FIRST entry matching (state, input) wins; later duplicates are
//     ignored. There is no most-specific or most-recent tie-break.
//   - Moore outputs are a flat array indexed directly by state value.
//
// Commit discipline:
//   - Mealy Step is all-or-nothing: the transition commits only after both
//     the next-state and the output lookup succeed. Any failure leaves the
//     current state untouched.
//   - Moore Step commits the resolved state BEFORE indexing the output
//     array. An out-of-range output index fails the step with the state
//     already advanced. This asymmetry is part of the contract; see
//     Moore.Step.
//
// Errors are the two sentinels ErrNoTransition and ErrNoOutput, always
// returned as values. The engine never logs and never panics on undefined
// transitions or outputs. Malformed tables (duplicate keys, short Moore
// output arrays) are the caller's responsibility; their only observable
// consequence is a failed lookup at runtime.
//
// Machines are not safe for concurrent mutation. A single instance must be
// driven by one goroutine, or guarded externally. Tables are read-only for
// the life of every machine referencing them, so any number of machines
// may share the same tables.
package fsm
