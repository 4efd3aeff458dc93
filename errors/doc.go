// Package errors provides structured error types for the fastaccess library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the path being accessed, the layout node involved,
// a human-readable detail and an optional cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindPathResolution).
//		Path("[].key.x").
//		Layout("s32").
//		Detail("field %q on non-struct layout", "x").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ArityMismatch("[].key", 1, 0)
//	err := errors.OutOfBounds(errors.PhaseAccess, "[]", -4)
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match any error of the same Kind regardless of phase:
//
//	if errors.Is(err, errors.ErrArityMismatch) { ... }
package errors
