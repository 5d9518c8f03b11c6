// Package store persists recorded step traces in SQLite.
//
// The store is an append-only log of runs and their events, used by the
// CLI for later inspection (trace) and determinism checking (replay). It
// never holds machine state: a machine always starts from its definition's
// initial state, and a recorded run is only ever re-driven through a fresh
// machine.
//
// Layout: a runs row per recorded run, and one steps row per event, keyed
// by (run_token, seq). Reads order by seq so a run always comes back in
// the exact order it was recorded.
package store
