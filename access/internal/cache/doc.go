// Package cache implements per-call-site inline caches for compiled accessors.
//
// A CallSite owns a singly linked guard chain. Each Node binds one shape, the
// identity of a path string plus the call arity, to the offset formula compiled
// for it. Lookup walks the chain from the head in insertion order; a miss
// resolves the path and appends a new node at the tail.
//
// Shapes are compared by the string's data pointer and length, never by
// content: two equal strings backed by different memory are different shapes.
//
// # Concurrency
//
// The chain is lock-free. Nodes are fully built before publication and never
// change afterwards; publication is a single compare-and-swap on the tail link.
// Goroutines racing on the same new shape may each publish a node for it; the
// duplicates are correct and only cost memory.
//
// # Policy
//
// By default chains grow without bound, one node per distinct shape ever seen.
// Policy.MaxNodes caps the chain: once full the site is megamorphic, and shapes
// beyond the cached ones are resolved on every call without being published.
//
// This package is internal to access.
package cache
