// Package fastaccess reads and writes fixed-width integers inside a raw memory
// block, addressed by a string path through a structural layout.
//
// A layout describes the block: values of a given bit width, structs with named
// members at fixed offsets, and sequences of repeated elements with a fixed stride.
// A path navigates it: ".name" selects a struct member and "[]" selects a sequence
// element, consuming one runtime index per occurrence, left to right.
//
// # Architecture Overview
//
//	fastaccess/          Root package with the Block interface
//	├── layout/          Layout descriptors (value, struct, sequence) and WIT conversion
//	├── access/          Accessor facade with per-call-site inline caches
//	├── memory/          Block implementations (byte slice, wazero linear memory)
//	├── errors/          Structured error types
//	└── cmd/probe/       Command-line and interactive probe
//
// # Quick Start
//
//	kv := layout.NewSequence(layout.MustStruct(
//	    layout.Field("key", layout.Int32()),
//	    layout.Field("value", layout.Int32()),
//	), 0)
//
//	acc, err := access.Build(kv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	block := memory.NewBytes(400)
//	_ = acc.SetInt1(block, "[].value", 3, 42)
//	v, _ := acc.GetInt1(block, "[].value", 3) // 42
//
// # Specialization
//
// Every accessor method owns one call site. The first call with a given path
// parses it, walks the layout and compiles an offset formula
//
//	offset = static + i0*stride0 + i1*stride1
//
// which is appended to the call site's guard chain, keyed by the identity of the
// path string and the call arity. Later calls with the same string skip parsing
// entirely and go straight to the compiled formula.
//
// Paths must be identity-stable: string constants work as-is, and paths built at
// runtime must go through Accessor.Intern first.
//
// # Thread Safety
//
// Accessor is safe for concurrent use. Cache nodes are immutable once published
// and publication is a single atomic operation. The block's contents are not
// synchronized; callers coordinate concurrent writes to the same region.
package fastaccess
