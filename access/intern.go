package access

import (
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Interner maps path content to its canonical string.
// A path is constant when its identity is the canonical one for its content.
//
// Without registration the first string seen for a content becomes canonical.
// If a runtime-built string reaches an accessor before the literal with the same
// content, the literal is then rejected. Register pins literals ahead of time and
// Options.Paths does so when an accessor is built.
type Interner struct {
	paths sync.Map // string -> string
	n     atomic.Int64
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	return &Interner{}
}

// Register makes each path the canonical string for its content, replacing any
// string recorded earlier. Nodes already cached for a replaced string keep serving it.
func (in *Interner) Register(paths ...string) {
	for _, p := range paths {
		if len(p) == 0 {
			continue
		}
		if _, loaded := in.paths.Swap(p, p); !loaded {
			in.n.Add(1)
		}
	}
}

// Intern returns the canonical string for s.
func (in *Interner) Intern(s string) string {
	if v, ok := in.paths.Load(s); ok {
		return v.(string)
	}
	v, loaded := in.paths.LoadOrStore(s, strings.Clone(s))
	if !loaded {
		in.n.Add(1)
	}
	return v.(string)
}

// IsCanonical reports whether s is the canonical string for its content.
// An unregistered content adopts s.
func (in *Interner) IsCanonical(s string) bool {
	if len(s) == 0 {
		return true
	}
	v, loaded := in.paths.LoadOrStore(s, s)
	if !loaded {
		in.n.Add(1)
		return true
	}
	return sameString(v.(string), s)
}

// Len returns the number of distinct contents seen.
func (in *Interner) Len() int {
	return int(in.n.Load())
}

func sameString(a, b string) bool {
	return len(a) == len(b) && unsafe.StringData(a) == unsafe.StringData(b)
}
