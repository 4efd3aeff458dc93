package resolve

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/wippyai/fastaccess"
	"github.com/wippyai/fastaccess/access/internal/path"
	"github.com/wippyai/fastaccess/errors"
	"github.com/wippyai/fastaccess/layout"
)

// MaxArity is the largest number of runtime indices a compiled accessor takes.
const MaxArity = 2

// Compiled is an immutable offset formula for one (path, arity) shape.
type Compiled struct {
	Path    string
	Static  int64
	Strides [MaxArity]int64
	Arity   int
	Bits    int
	Order   layout.ByteOrder
}

// Offset computes the absolute byte offset for the given indices.
// It does not guard against overflow; LoadInt32 and StoreInt32 check indices first.
func (c *Compiled) Offset(i0, i1 int64) int64 {
	return c.Static + i0*c.Strides[0] + i1*c.Strides[1]
}

// Compile parses text and resolves it against root.
func Compile(root layout.Layout, text string, width, arity int) (*Compiled, error) {
	elems, err := path.Parse(text)
	if err != nil {
		return nil, err
	}
	return Resolve(root, text, elems, width, arity)
}

// Resolve walks root along elems. The terminal node must be a value of width bits
// and the number of index steps must equal arity.
func Resolve(root layout.Layout, text string, elems []path.Element, width, arity int) (*Compiled, error) {
	c := &Compiled{Path: text, Arity: arity, Bits: width}

	current := root
	indices := 0
	for i, e := range elems {
		switch e.Kind {
		case path.Field:
			s, ok := current.(*layout.Struct)
			if !ok {
				return nil, errors.PathResolution(text, current.String(),
					fmt.Sprintf("field %q at %s requires a struct", e.Name, path.Format(elems[:i+1])))
			}
			m, ok := s.Member(e.Name)
			if !ok {
				return nil, errors.PathResolution(text, current.String(),
					fmt.Sprintf("no member %q at %s", e.Name, path.Format(elems[:i+1])))
			}
			c.Static += int64(m.Offset)
			current = m.Layout

		case path.Index:
			q, ok := current.(*layout.Sequence)
			if !ok {
				return nil, errors.PathResolution(text, current.String(),
					fmt.Sprintf("index at %s requires a sequence", path.Format(elems[:i+1])))
			}
			if indices < MaxArity {
				c.Strides[indices] = int64(q.Stride())
			}
			indices++
			current = q.Elem()
		}
	}

	v, ok := current.(*layout.Value)
	if !ok || v.Bits != width {
		return nil, errors.TypeMismatch(text, current.String(), width)
	}
	c.Order = v.Order

	if indices != arity {
		return nil, errors.ArityMismatch(text, indices, arity)
	}
	return c, nil
}

// LoadInt32 reads the value addressed by the indices.
func (c *Compiled) LoadInt32(b fastaccess.Block, i0, i1 int64) (int32, error) {
	off, err := c.checkedOffset(i0, i1)
	if err != nil {
		return 0, err
	}
	raw, err := b.ReadU32(off)
	if err != nil {
		return 0, errors.New(errors.PhaseAccess, errors.KindOutOfBounds).
			Path(c.Path).
			Value(off).
			Cause(err).
			Detail("read at offset %d", off).
			Build()
	}
	if c.Order == layout.BigEndian {
		raw = bits.ReverseBytes32(raw)
	}
	return int32(raw), nil
}

// StoreInt32 writes v at the value addressed by the indices.
func (c *Compiled) StoreInt32(b fastaccess.Block, i0, i1 int64, v int32) error {
	off, err := c.checkedOffset(i0, i1)
	if err != nil {
		return err
	}
	raw := uint32(v)
	if c.Order == layout.BigEndian {
		raw = bits.ReverseBytes32(raw)
	}
	if err := b.WriteU32(off, raw); err != nil {
		return errors.New(errors.PhaseAccess, errors.KindOutOfBounds).
			Path(c.Path).
			Value(off).
			Cause(err).
			Detail("write at offset %d", off).
			Build()
	}
	return nil
}

// checkedOffset narrows the offset to the block's uint32 address space.
// Each index is bounded before multiplying so the sum cannot wrap.
func (c *Compiled) checkedOffset(i0, i1 int64) (uint32, error) {
	indices := [MaxArity]int64{i0, i1}
	off := c.Static
	for k := 0; k < c.Arity && k < MaxArity; k++ {
		i, stride := indices[k], c.Strides[k]
		if i < 0 || (stride > 0 && i > math.MaxUint32/stride) {
			return 0, errors.New(errors.PhaseAccess, errors.KindOutOfBounds).
				Path(c.Path).
				Value(i).
				Detail("index %d out of range for stride %d", i, stride).
				Build()
		}
		off += i * stride
	}
	if off < 0 || off > math.MaxUint32 {
		return 0, errors.OutOfBounds(errors.PhaseAccess, c.Path, off)
	}
	return uint32(off), nil
}
