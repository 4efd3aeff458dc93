// Package access provides the Accessor, which reads and writes int32 values in a
// block through string paths over a layout.
//
// Six entry points exist, one per operation and arity:
//
//	GetInt(b, path)           SetInt(b, path, v)
//	GetInt1(b, path, i0)      SetInt1(b, path, i0, v)
//	GetInt2(b, path, i0, i1)  SetInt2(b, path, i0, i1, v)
//
// Each entry point is a call site with its own inline cache. The cache is a chain
// of guards keyed by the identity of the path string (data pointer and length) and
// the arity. A hit jumps straight to a compiled offset formula; a miss parses and
// resolves the path once and appends a new guard at the tail. Nodes are never
// reordered or evicted unless Options.MaxChainLength is set, in which case a full
// site stops growing and resolves unseen paths on every call.
//
// Paths must be identity-stable. A string constant always is. A path built at
// runtime is rejected with a constant_path_required error unless it was passed
// through Accessor.Intern, which returns the canonical string for its content.
//
// Errors are *errors.Error values from the fastaccess errors package and can be
// matched with errors.Is against its sentinels.
package access
