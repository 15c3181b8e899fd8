// Package coordination implements the distributed primitives that keep an
// expensive analysis run exactly-once-in-flight across server instances: a
// TTL-based lock manager keyed by contended resource, and a per-user task
// registry allowing at most one active task per user.
//
// Both are built on the Store abstraction, whose create-if-absent and
// compare-and-delete operations must be atomic on the backing store. The
// guarantees hold across independent processes sharing the same store; no
// in-process locking is involved.
package coordination
