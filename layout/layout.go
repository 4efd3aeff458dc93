package layout

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/fastaccess/errors"
)

type Kind uint8

const (
	KindValue Kind = iota
	KindStruct
	KindSequence
)

var kindNames = [...]string{
	KindValue:    "value",
	KindStruct:   "struct",
	KindSequence: "sequence",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Layout is a node of a layout tree.
type Layout interface {
	Kind() Kind
	// Size is the number of bytes the node occupies. Unbounded sequences report 0.
	Size() uint32
	Align() uint32
	Name() string
	String() string
}

// ByteOrder of a value relative to the block.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

// NativeOrder reports the byte order of the host.
func NativeOrder() ByteOrder {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return LittleEndian
	}
	return BigEndian
}

// Value is a fixed-width integer leaf.
type Value struct {
	name  string
	Bits  int
	Order ByteOrder
}

// NewValue creates a value leaf. Bits must be 8, 16, 32 or 64.
func NewValue(bits int, order ByteOrder) (*Value, error) {
	switch bits {
	case 8, 16, 32, 64:
	default:
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Value(bits).
			Detail("unsupported value width %d", bits).
			Build()
	}
	return &Value{Bits: bits, Order: order}, nil
}

func Int8() *Value    { return &Value{Bits: 8} }
func Int16() *Value   { return &Value{Bits: 16} }
func Int32() *Value   { return &Value{Bits: 32} }
func Int64() *Value   { return &Value{Bits: 64} }
func Int32BE() *Value { return &Value{Bits: 32, Order: BigEndian} }

func (v *Value) Kind() Kind    { return KindValue }
func (v *Value) Size() uint32  { return uint32(v.Bits / 8) }
func (v *Value) Align() uint32 { return uint32(v.Bits / 8) }
func (v *Value) Name() string  { return v.name }

func (v *Value) String() string {
	s := "s" + strconv.Itoa(v.Bits)
	if v.Order == BigEndian && v.Bits > 8 {
		s += "be"
	}
	return s
}

// WithName returns a copy of v labelled name.
func (v *Value) WithName(name string) *Value {
	c := *v
	c.name = name
	return &c
}

// Member is a named struct member at a fixed offset.
type Member struct {
	Layout Layout
	Name   string
	Offset uint32
}

// FieldSpec describes a struct member before offsets are assigned.
type FieldSpec struct {
	layout Layout
	name   string
	offset uint32
	pinned bool
}

// Field places a member at the next naturally aligned offset.
func Field(name string, l Layout) FieldSpec {
	return FieldSpec{name: name, layout: l}
}

// FieldAt places a member at an explicit offset.
func FieldAt(name string, offset uint32, l Layout) FieldSpec {
	return FieldSpec{name: name, layout: l, offset: offset, pinned: true}
}

// Struct is an ordered set of named members.
type Struct struct {
	index   map[string]int
	name    string
	members []Member
	size    uint32
	align   uint32
}

// NewStruct lays out fields in order. Names must be unique, non-empty and
// free of '.' and '[' so that every member is reachable by path.
func NewStruct(fields ...FieldSpec) (*Struct, error) {
	s := &Struct{
		index:   make(map[string]int, len(fields)),
		members: make([]Member, 0, len(fields)),
		align:   1,
	}

	offset := uint64(0)
	end := uint64(0)
	for _, f := range fields {
		if f.layout == nil {
			return nil, errors.New(errors.PhaseLayout, errors.KindAbsentArgument).
				Path(f.name).
				Detail("member layout is nil").
				Build()
		}
		if f.name == "" || strings.ContainsAny(f.name, ".[") {
			return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
				Path(f.name).
				Detail("member name %q is not addressable", f.name).
				Build()
		}
		if _, dup := s.index[f.name]; dup {
			return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
				Path(f.name).
				Detail("duplicate member %q", f.name).
				Build()
		}

		if f.pinned {
			offset = uint64(f.offset)
		} else {
			offset = alignTo(offset, uint64(f.layout.Align()))
		}
		if offset > maxSize {
			return nil, tooLarge("struct", offset)
		}

		s.index[f.name] = len(s.members)
		s.members = append(s.members, Member{Name: f.name, Offset: uint32(offset), Layout: f.layout})

		if a := f.layout.Align(); a > s.align {
			s.align = a
		}
		offset += uint64(f.layout.Size())
		if offset > end {
			end = offset
		}
	}

	size := alignTo(end, uint64(s.align))
	if size > maxSize {
		return nil, tooLarge("struct", size)
	}
	s.size = uint32(size)
	return s, nil
}

// MustStruct is like NewStruct but panics on error.
func MustStruct(fields ...FieldSpec) *Struct {
	s, err := NewStruct(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Struct) Kind() Kind    { return KindStruct }
func (s *Struct) Size() uint32  { return s.size }
func (s *Struct) Align() uint32 { return s.align }
func (s *Struct) Name() string  { return s.name }
func (s *Struct) Len() int      { return len(s.members) }

// Member looks up a member by name.
func (s *Struct) Member(name string) (Member, bool) {
	i, ok := s.index[name]
	if !ok {
		return Member{}, false
	}
	return s.members[i], true
}

// Members returns the members in declaration order.
func (s *Struct) Members() []Member {
	out := make([]Member, len(s.members))
	copy(out, s.members)
	return out
}

func (s *Struct) String() string {
	var b strings.Builder
	b.WriteString("struct{")
	for i, m := range s.members {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(m.Name)
		b.WriteString(": ")
		b.WriteString(m.Layout.String())
	}
	b.WriteByte('}')
	return b.String()
}

// WithName returns a copy of s labelled name.
func (s *Struct) WithName(name string) *Struct {
	c := *s
	c.name = name
	return &c
}

// Sequence is a run of elements at a fixed stride.
type Sequence struct {
	elem   Layout
	name   string
	count  uint32
	stride uint32
}

// SequenceOf creates a sequence of count elements; count 0 means unbounded.
// The stride is the element size rounded up to its alignment. The stride and
// the total size must fit in 32 bits.
func SequenceOf(elem Layout, count uint32) (*Sequence, error) {
	if elem == nil {
		return nil, errors.AbsentArgument(errors.PhaseLayout, "sequence element")
	}
	stride := alignTo(uint64(elem.Size()), uint64(elem.Align()))
	if stride > maxSize {
		return nil, tooLarge("element", stride)
	}
	if total := uint64(count) * stride; total > maxSize {
		return nil, tooLarge("sequence", total)
	}
	return &Sequence{
		elem:   elem,
		count:  count,
		stride: uint32(stride),
	}, nil
}

// NewSequence is like SequenceOf but panics on error.
func NewSequence(elem Layout, count uint32) *Sequence {
	q, err := SequenceOf(elem, count)
	if err != nil {
		panic(err)
	}
	return q
}

func (q *Sequence) Kind() Kind     { return KindSequence }
func (q *Sequence) Size() uint32   { return q.count * q.stride }
func (q *Sequence) Align() uint32  { return q.elem.Align() }
func (q *Sequence) Name() string   { return q.name }
func (q *Sequence) Elem() Layout   { return q.elem }
func (q *Sequence) Count() uint32  { return q.count }
func (q *Sequence) Stride() uint32 { return q.stride }

func (q *Sequence) String() string {
	if q.count == 0 {
		return "[]" + q.elem.String()
	}
	return fmt.Sprintf("[%d]%s", q.count, q.elem.String())
}

// WithName returns a copy of q labelled name.
func (q *Sequence) WithName(name string) *Sequence {
	c := *q
	c.name = name
	return &c
}
