package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBuild   Phase = "build"   // accessor construction
	PhaseParse   Phase = "parse"   // path lexing/parsing
	PhaseResolve Phase = "resolve" // walking the layout
	PhaseAccess  Phase = "access"  // reading/writing the block
	PhaseLayout  Phase = "layout"  // layout construction and conversion
)

// Kind categorizes the error
type Kind string

const (
	KindAbsentArgument       Kind = "absent_argument"
	KindConstantPathRequired Kind = "constant_path_required"
	KindPathSyntax           Kind = "path_syntax"
	KindPathResolution       Kind = "path_resolution"
	KindArityMismatch        Kind = "arity_mismatch"
	KindTypeMismatch         Kind = "type_mismatch"
	KindOutOfBounds          Kind = "out_of_bounds"
	KindUnsupported          Kind = "unsupported"
	KindInvalidInput         Kind = "invalid_input"
)

// Sentinels for errors.Is. They carry no phase and match on Kind alone.
var (
	ErrAbsentArgument       = &Error{Kind: KindAbsentArgument}
	ErrConstantPathRequired = &Error{Kind: KindConstantPathRequired}
	ErrPathSyntax           = &Error{Kind: KindPathSyntax}
	ErrPathResolution       = &Error{Kind: KindPathResolution}
	ErrArityMismatch        = &Error{Kind: KindArityMismatch}
	ErrTypeMismatch         = &Error{Kind: KindTypeMismatch}
	ErrOutOfBounds          = &Error{Kind: KindOutOfBounds}
	ErrUnsupported          = &Error{Kind: KindUnsupported}
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Path   string
	Layout string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	if e.Layout != "" {
		b.WriteString(": layout ")
		b.WriteString(e.Layout)
	}

	if e.Detail != "" {
		if e.Layout != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a phase matches on kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the access path
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// Layout sets the layout description
func (b *Builder) Layout(l string) *Builder {
	b.err.Layout = l
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// AbsentArgument creates an error for a missing block, path or layout
func AbsentArgument(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAbsentArgument,
		Detail: fmt.Sprintf("%s is nil", what),
	}
}

// ConstantPathRequired creates an error for a path whose identity is not stable
func ConstantPathRequired(path string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindConstantPathRequired,
		Path:   path,
		Detail: "path is not a constant string",
	}
}

// PathSyntax creates a parsing error at byte position pos
func PathSyntax(path string, pos int, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindPathSyntax,
		Path:   path,
		Detail: fmt.Sprintf("%s at offset %d", detail, pos),
		Value:  pos,
	}
}

// PathResolution creates an error for a path step that does not match the layout
func PathResolution(path, layout, detail string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindPathResolution,
		Path:   path,
		Layout: layout,
		Detail: detail,
	}
}

// ArityMismatch creates an error for a call whose index count differs from the path's
func ArityMismatch(path string, pathArity, callArity int) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindArityMismatch,
		Path:   path,
		Detail: fmt.Sprintf("path arity %d does not match method arity %d", pathArity, callArity),
		Value:  pathArity,
	}
}

// TypeMismatch creates an error for a terminal layout that is not a value of the requested width
func TypeMismatch(path, layout string, bits int) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindTypeMismatch,
		Path:   path,
		Layout: layout,
		Detail: fmt.Sprintf("expected %d-bit value", bits),
	}
}

// OutOfBounds creates an out of bounds error for a computed offset
func OutOfBounds(phase Phase, path string, offset int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("offset %d outside addressable range", offset),
		Value:  offset,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
