// Package harness runs declarative scenarios against compiled machines.
//
// A scenario names a machine definition, a list of steps (inputs or
// resets) with optional expectations, and assertions on the finished run.
// Every scenario executes against a FRESH machine with a fixed run token
// and a logical clock, so the same scenario always produces a
// byte-identical trace; golden files under testdata/golden are compared
// with goldie.
//
// Expectations check three things per step: the emitted output symbol, the
// post-step state name, and the error kind (no_transition, no_output).
// The post-step state checks are how the engines' commit contracts are
// pinned down in scenario form: a Mealy no_output step expects the state
// it started in, a Moore no_output step expects the state it moved to.
package harness
