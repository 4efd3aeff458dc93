// Package resolve walks a layout along a parsed path and compiles the result
// into an offset formula.
//
// The compiled form is
//
//	offset = Static + i0*Strides[0] + i1*Strides[1]
//
// where Static sums the member offsets crossed and each stride belongs to the
// sequence crossed by the matching "[]", left to right. Unused strides are zero,
// so the formula needs no branch on arity.
//
// This package is internal to access.
package resolve
