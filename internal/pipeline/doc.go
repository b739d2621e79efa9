// Package pipeline wires image loading, remote detection and overlay rendering
// into a per-user Session.
//
// # Generations
//
// Each Submit takes a monotonically increasing generation number. Detection is
// the only step that waits on the network, and it runs without holding the
// session lock. When it returns, the result is committed only if its
// generation is still the latest; otherwise it is dropped and the caller gets
// ErrSuperseded. A slow earlier request can therefore never overwrite the
// overlay of a later one. In-flight requests are not interrupted; their
// results are ignored.
//
// # Failure Handling
//
// Failures never touch the surface. The last successful overlay stays in place
// and the error is both returned and recorded in State.LastError. Nothing is
// retried.
package pipeline
