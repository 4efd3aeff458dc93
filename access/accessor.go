package access

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/fastaccess"
	"github.com/wippyai/fastaccess/access/internal/cache"
	"github.com/wippyai/fastaccess/access/internal/resolve"
	"github.com/wippyai/fastaccess/errors"
	"github.com/wippyai/fastaccess/layout"
)

// SiteStats is a snapshot of one call site's inline cache.
type SiteStats = cache.Stats

// State of a call site's chain.
type State = cache.State

const (
	StateEmpty       = cache.StateEmpty
	StateMonomorphic = cache.StateMonomorphic
	StatePolymorphic = cache.StatePolymorphic
	StateMegamorphic = cache.StateMegamorphic
)

const valueBits = 32

type site struct {
	*cache.CallSite
	warned atomic.Bool
}

// Accessor reads and writes int32 values inside blocks laid out as root.
// It is safe for concurrent use.
type Accessor struct {
	root     layout.Layout
	interner *Interner
	logger   *zap.Logger
	get      [resolve.MaxArity + 1]*site
	set      [resolve.MaxArity + 1]*site
}

// Build creates an accessor for l with default options.
func Build(l layout.Layout) (*Accessor, error) {
	return New(l, Options{})
}

// New creates an accessor for l.
func New(l layout.Layout, opts Options) (*Accessor, error) {
	if l == nil {
		return nil, errors.AbsentArgument(errors.PhaseBuild, "layout")
	}
	if opts.MaxChainLength < 0 {
		return nil, errors.InvalidInput(errors.PhaseBuild, "negative max chain length")
	}

	a := &Accessor{
		root:     l,
		interner: opts.Interner,
		logger:   opts.Logger,
	}
	if a.interner == nil {
		a.interner = NewInterner()
	}
	a.interner.Register(opts.Paths...)
	if a.logger == nil {
		a.logger = Logger()
	}

	policy := cache.Policy{MaxNodes: opts.MaxChainLength}
	for arity := range a.get {
		a.get[arity] = &site{CallSite: cache.NewCallSite("get", arity, policy)}
		a.set[arity] = &site{CallSite: cache.NewCallSite("set", arity, policy)}
	}

	a.logger.Debug("accessor built",
		zap.String("layout", l.String()),
		zap.Int("max_chain", opts.MaxChainLength),
		zap.Int("paths", len(opts.Paths)))
	return a, nil
}

// Layout returns the root layout.
func (a *Accessor) Layout() layout.Layout { return a.root }

// Intern returns the canonical string for a path built at runtime.
func (a *Accessor) Intern(path string) string { return a.interner.Intern(path) }

// GetInt reads the int32 at path, which must contain no "[]". Arity 0.
func (a *Accessor) GetInt(b fastaccess.Block, path string) (int32, error) {
	return a.load(a.get[0], b, path, 0, 0)
}

// GetInt1 reads the int32 at path with one "[]" bound to i0. Arity 1.
func (a *Accessor) GetInt1(b fastaccess.Block, path string, i0 int) (int32, error) {
	return a.load(a.get[1], b, path, int64(i0), 0)
}

// GetInt2 reads the int32 at path with two "[]" bound to i0 and i1. Arity 2.
func (a *Accessor) GetInt2(b fastaccess.Block, path string, i0, i1 int) (int32, error) {
	return a.load(a.get[2], b, path, int64(i0), int64(i1))
}

// SetInt writes v at path, which must contain no "[]". Arity 0.
func (a *Accessor) SetInt(b fastaccess.Block, path string, v int32) error {
	return a.store(a.set[0], b, path, 0, 0, v)
}

// SetInt1 writes v at path with one "[]" bound to i0. Arity 1.
func (a *Accessor) SetInt1(b fastaccess.Block, path string, i0 int, v int32) error {
	return a.store(a.set[1], b, path, int64(i0), 0, v)
}

// SetInt2 writes v at path with two "[]" bound to i0 and i1. Arity 2.
func (a *Accessor) SetInt2(b fastaccess.Block, path string, i0, i1 int, v int32) error {
	return a.store(a.set[2], b, path, int64(i0), int64(i1), v)
}

// Stats returns a snapshot of every call site, getters first, by arity.
func (a *Accessor) Stats() []SiteStats {
	stats := make([]SiteStats, 0, 2*len(a.get))
	for _, s := range a.get {
		stats = append(stats, s.Stats())
	}
	for _, s := range a.set {
		stats = append(stats, s.Stats())
	}
	return stats
}

func (a *Accessor) load(s *site, b fastaccess.Block, path string, i0, i1 int64) (int32, error) {
	if b == nil {
		return 0, errors.AbsentArgument(errors.PhaseAccess, "block")
	}
	c, err := a.specialize(s, path)
	if err != nil {
		return 0, err
	}
	return c.LoadInt32(b, i0, i1)
}

func (a *Accessor) store(s *site, b fastaccess.Block, path string, i0, i1 int64, v int32) error {
	if b == nil {
		return errors.AbsentArgument(errors.PhaseAccess, "block")
	}
	c, err := a.specialize(s, path)
	if err != nil {
		return err
	}
	return c.StoreInt32(b, i0, i1, v)
}

func (a *Accessor) specialize(s *site, path string) (*resolve.Compiled, error) {
	arity := s.Arity()
	c, published, err := s.Specialize(cache.KeyOf(path, arity), func() (*resolve.Compiled, error) {
		if !a.interner.IsCanonical(path) {
			return nil, errors.ConstantPathRequired(path)
		}
		return resolve.Compile(a.root, path, valueBits, arity)
	})
	if err != nil {
		a.logger.Debug("specialization failed",
			zap.String("op", s.Name()),
			zap.Int("arity", arity),
			zap.String("path", path),
			zap.Error(err))
		return nil, err
	}

	switch {
	case published:
		a.logger.Debug("call site specialized",
			zap.String("op", s.Name()),
			zap.Int("arity", arity),
			zap.String("path", path),
			zap.Int64("offset", c.Static),
			zap.Int("nodes", s.Len()))
	case s.State() == cache.StateMegamorphic && !s.warned.Load():
		if s.warned.CompareAndSwap(false, true) {
			a.logger.Warn("call site megamorphic",
				zap.String("op", s.Name()),
				zap.Int("arity", arity),
				zap.String("path", path),
				zap.Int("nodes", s.Len()))
		}
	}
	return c, nil
}
