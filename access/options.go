package access

import "go.uber.org/zap"

// Options configures an Accessor.
type Options struct {
	// Logger overrides the package logger.
	Logger *zap.Logger
	// Interner decides which path strings count as constant. Accessors may share one.
	Interner *Interner
	// Paths are registered with the interner at construction so these strings,
	// typically the literals used at call sites, are always accepted.
	Paths []string
	// MaxChainLength caps the nodes per call site. Zero means unbounded.
	MaxChainLength int
}
