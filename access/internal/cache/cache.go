package cache

import (
	"sync/atomic"
	"unsafe"

	"github.com/wippyai/fastaccess/access/internal/resolve"
)

// Key identifies a shape: path identity and call arity.
type Key struct {
	data  *byte
	len   int
	arity int
}

// KeyOf derives the shape key of path at arity. All empty paths share one identity.
func KeyOf(path string, arity int) Key {
	if len(path) == 0 {
		return Key{arity: arity}
	}
	return Key{data: unsafe.StringData(path), len: len(path), arity: arity}
}

// Arity returns the call arity of the shape.
func (k Key) Arity() int { return k.arity }

// Node is one guard in the chain. Immutable once published except for its next link.
type Node struct {
	Compiled *resolve.Compiled
	next     atomic.Pointer[Node]
	key      Key
}

// NewNode binds compiled to key. The node is unlinked until published.
func NewNode(key Key, compiled *resolve.Compiled) *Node {
	return &Node{key: key, Compiled: compiled}
}

func (n *Node) Key() Key    { return n.key }
func (n *Node) Next() *Node { return n.next.Load() }

// State summarizes the chain of a call site.
type State uint8

const (
	StateEmpty State = iota
	StateMonomorphic
	StatePolymorphic
	StateMegamorphic
)

var stateNames = [...]string{
	StateEmpty:       "empty",
	StateMonomorphic: "monomorphic",
	StatePolymorphic: "polymorphic",
	StateMegamorphic: "megamorphic",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Policy bounds chain growth. MaxNodes 0 means unbounded.
type Policy struct {
	MaxNodes int
}

// Stats is a snapshot of a call site's counters.
type Stats struct {
	Name        string
	Arity       int
	State       State
	Nodes       int
	Hits        uint64
	Misses      uint64
	Resolutions uint64
}

// HitRate returns the hit rate as a percentage (0-100).
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) * 100 / float64(total)
}

// CallSite is the inline cache of one (operation, arity) entry point.
type CallSite struct {
	head        atomic.Pointer[Node]
	name        string
	arity       int
	policy      Policy
	nodes       atomic.Int64
	hits        atomic.Uint64
	misses      atomic.Uint64
	resolutions atomic.Uint64
	mega        atomic.Bool
}

// NewCallSite creates an empty call site for one operation and arity.
func NewCallSite(name string, arity int, policy Policy) *CallSite {
	return &CallSite{name: name, arity: arity, policy: policy}
}

func (s *CallSite) Name() string { return s.name }
func (s *CallSite) Arity() int   { return s.arity }
func (s *CallSite) Len() int     { return int(s.nodes.Load()) }
func (s *CallSite) Head() *Node  { return s.head.Load() }

// Lookup returns the first node whose guard matches key, or nil.
func (s *CallSite) Lookup(key Key) *Node {
	for n := s.head.Load(); n != nil; n = n.next.Load() {
		if n.key == key {
			s.hits.Add(1)
			return n
		}
	}
	s.misses.Add(1)
	return nil
}

// Publish appends n at the tail of the chain. It reports false when the
// policy refuses the node, which turns the site megamorphic.
func (s *CallSite) Publish(n *Node) bool {
	for {
		count := s.nodes.Load()
		if s.policy.MaxNodes > 0 && count >= int64(s.policy.MaxNodes) {
			s.mega.Store(true)
			return false
		}
		if s.nodes.CompareAndSwap(count, count+1) {
			break
		}
	}

	link := &s.head
	for {
		next := link.Load()
		if next == nil {
			if link.CompareAndSwap(nil, n) {
				return true
			}
			continue
		}
		link = &next.next
	}
}

// Specialize returns the compiled accessor for key, building and publishing it on a miss.
// build runs only on the miss path; its errors are returned and nothing is cached.
func (s *CallSite) Specialize(key Key, build func() (*resolve.Compiled, error)) (c *resolve.Compiled, published bool, err error) {
	if n := s.Lookup(key); n != nil {
		return n.Compiled, false, nil
	}

	s.resolutions.Add(1)
	c, err = build()
	if err != nil {
		return nil, false, err
	}
	return c, s.Publish(NewNode(key, c)), nil
}

// State reports the chain state.
func (s *CallSite) State() State {
	if s.mega.Load() {
		return StateMegamorphic
	}
	switch s.nodes.Load() {
	case 0:
		return StateEmpty
	case 1:
		return StateMonomorphic
	default:
		return StatePolymorphic
	}
}

// Keys returns the guard keys in chain order.
func (s *CallSite) Keys() []Key {
	var keys []Key
	for n := s.head.Load(); n != nil; n = n.next.Load() {
		keys = append(keys, n.key)
	}
	return keys
}

// Stats returns a snapshot of the site's counters.
func (s *CallSite) Stats() Stats {
	return Stats{
		Name:        s.name,
		Arity:       s.arity,
		State:       s.State(),
		Nodes:       s.Len(),
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		Resolutions: s.resolutions.Load(),
	}
}
