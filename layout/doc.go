// Package layout describes the structure of a raw memory block.
//
// A layout is a tree of three node kinds:
//
//   - Value: a fixed-width integer leaf (8, 16, 32 or 64 bits) with a byte order
//   - Struct: ordered named members, each at a fixed byte offset
//   - Sequence: repeated elements at a fixed stride, optionally bounded
//
// Offsets and strides are computed once at construction and never change.
// Struct members without an explicit offset are placed by natural alignment,
// the same rule the Canonical ABI uses for records:
//
//	Layout                          Size  Align  Offsets
//	─────────────────────────────────────────────────────
//	s8                              1     1
//	s32                             4     4
//	struct{a: s8, b: s32}           8     4      a=0 b=4
//	[10]struct{a: s8, b: s32}       80    4      stride 8
//
// FromWIT converts WIT records, tuples and scalar types into layouts so that
// component-model data in linear memory can be addressed by path.
package layout
