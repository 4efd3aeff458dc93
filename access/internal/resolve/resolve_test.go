package resolve

import (
	"errors"
	"testing"

	fxerrors "github.com/wippyai/fastaccess/errors"
	"github.com/wippyai/fastaccess/layout"
	"github.com/wippyai/fastaccess/memory"
)

func keyValues() *layout.Sequence {
	return layout.NewSequence(layout.MustStruct(
		layout.Field("key", layout.Int32()),
		layout.Field("value", layout.Int32()),
	), 0)
}

func grid() *layout.Struct {
	cell := layout.MustStruct(
		layout.Field("flags", layout.Int16()),
		layout.Field("weight", layout.Int32()),
	)
	return layout.MustStruct(
		layout.Field("count", layout.Int32()),
		layout.Field("rows", layout.NewSequence(layout.NewSequence(cell, 4), 3)),
		layout.Field("wide", layout.Int64()),
	)
}

func TestCompileOffsets(t *testing.T) {
	tests := []struct {
		root    layout.Layout
		name    string
		path    string
		static  int64
		strides [MaxArity]int64
		arity   int
	}{
		{layout.Int32(), "root value", "", 0, [MaxArity]int64{}, 0},
		{keyValues(), "key", "[].key", 0, [MaxArity]int64{8, 0}, 1},
		{keyValues(), "value", "[].value", 4, [MaxArity]int64{8, 0}, 1},
		{layout.NewSequence(layout.Int32(), 0), "array", "[]", 0, [MaxArity]int64{4, 0}, 1},
		{grid(), "count", ".count", 0, [MaxArity]int64{}, 0},
		{grid(), "cell weight", ".rows[][].weight", 8, [MaxArity]int64{32, 8}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Compile(tc.root, tc.path, 32, tc.arity)
			if err != nil {
				t.Fatalf("Compile(%q): %v", tc.path, err)
			}
			if c.Static != tc.static {
				t.Errorf("static: got %d, want %d", c.Static, tc.static)
			}
			if c.Strides != tc.strides {
				t.Errorf("strides: got %v, want %v", c.Strides, tc.strides)
			}
			if c.Arity != tc.arity || c.Bits != 32 || c.Path != tc.path {
				t.Errorf("compiled = %+v", c)
			}
		})
	}
}

func TestOffsetFormula(t *testing.T) {
	c, err := Compile(grid(), ".rows[][].weight", 32, 2)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// rows at 4, row stride 32, cell stride 8, weight at 4 within cell
	if got := c.Offset(2, 3); got != 4+2*32+3*8+4 {
		t.Errorf("Offset(2,3) = %d", got)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		root  layout.Layout
		want  error
		name  string
		path  string
		width int
		arity int
	}{
		{keyValues(), fxerrors.ErrPathSyntax, "syntax", "[]!key", 32, 1},
		{keyValues(), fxerrors.ErrPathSyntax, "no leading dot", "key", 32, 0},
		{keyValues(), fxerrors.ErrPathResolution, "field on sequence", ".key", 32, 0},
		{keyValues(), fxerrors.ErrPathResolution, "unknown field", "[].missing", 32, 1},
		{keyValues(), fxerrors.ErrPathResolution, "field on value", "[].key.x", 32, 1},
		{grid(), fxerrors.ErrPathResolution, "index on struct", "[]", 32, 1},
		{grid(), fxerrors.ErrPathResolution, "index on value", ".count[]", 32, 1},
		{keyValues(), fxerrors.ErrTypeMismatch, "terminal struct", "[]", 32, 1},
		{keyValues(), fxerrors.ErrTypeMismatch, "terminal sequence", "", 32, 0},
		{grid(), fxerrors.ErrTypeMismatch, "width", ".wide", 32, 0},
		{grid(), fxerrors.ErrTypeMismatch, "short width", ".rows[][].flags", 32, 2},
		{keyValues(), fxerrors.ErrArityMismatch, "arity 0 for 1", "[].key", 32, 0},
		{keyValues(), fxerrors.ErrArityMismatch, "arity 2 for 1", "[].key", 32, 2},
		{grid(), fxerrors.ErrArityMismatch, "arity 1 for 2", ".rows[][].weight", 32, 1},
		{grid(), fxerrors.ErrArityMismatch, "arity 1 for 0", ".count", 32, 1},
		{
			layout.NewSequence(layout.NewSequence(layout.NewSequence(layout.Int32(), 2), 2), 2),
			fxerrors.ErrArityMismatch, "three indices", "[][][]", 32, 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.root, tc.path, tc.width, tc.arity)
			if !errors.Is(err, tc.want) {
				t.Errorf("Compile(%q, arity %d): got %v, want %v", tc.path, tc.arity, err, tc.want)
			}
		})
	}
}

func TestUnknownFieldReportsPrefix(t *testing.T) {
	_, err := Compile(keyValues(), "[].missing", 32, 1)
	var fe *fxerrors.Error
	if !errors.As(err, &fe) {
		t.Fatalf("got %v", err)
	}
	if fe.Path != "[].missing" {
		t.Errorf("path: got %q", fe.Path)
	}
	if fe.Layout != "struct{key: s32, value: s32}" {
		t.Errorf("layout: got %q", fe.Layout)
	}
}

func TestLoadStore(t *testing.T) {
	block := memory.NewBytes(64)

	c, err := Compile(keyValues(), "[].value", 32, 1)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := c.StoreInt32(block, 3, 0, -7); err != nil {
		t.Fatalf("StoreInt32: %v", err)
	}
	raw, _ := block.ReadU32(28)
	if int32(raw) != -7 {
		t.Errorf("raw at 28: got %d, want -7", int32(raw))
	}
	v, err := c.LoadInt32(block, 3, 0)
	if err != nil || v != -7 {
		t.Errorf("LoadInt32 = %d, %v", v, err)
	}
}

func TestTwoIndexOverflow(t *testing.T) {
	c, err := Compile(grid(), ".rows[][].weight", 32, 2)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	block := memory.NewBytes(int(grid().Size()))

	tests := []struct {
		name   string
		i0, i1 int64
	}{
		{"first wraps", 1 << 59, 0},
		{"second wraps", 0, 1 << 61},
		{"both large", 1 << 30, 1 << 30},
		{"second negative", 0, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := c.StoreInt32(block, tc.i0, tc.i1, 5); !errors.Is(err, fxerrors.ErrOutOfBounds) {
				t.Errorf("got %v, want out_of_bounds", err)
			}
		})
	}
	for _, b := range block.Bytes() {
		if b != 0 {
			t.Fatal("rejected store modified the block")
		}
	}
}

func TestLoadStoreBigEndian(t *testing.T) {
	root := layout.MustStruct(layout.Field("be", layout.Int32BE()))
	block := memory.NewBytes(4)

	c, err := Compile(root, ".be", 32, 0)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := c.StoreInt32(block, 0, 0, 0x01020304); err != nil {
		t.Fatalf("StoreInt32: %v", err)
	}
	if got := block.Bytes(); got[0] != 1 || got[3] != 4 {
		t.Errorf("bytes: got %v, want big-endian", got)
	}
	v, _ := c.LoadInt32(block, 0, 0)
	if v != 0x01020304 {
		t.Errorf("LoadInt32 = %#x", v)
	}
}

func TestLoadStoreBounds(t *testing.T) {
	block := memory.NewBytes(16)
	c, err := Compile(layout.NewSequence(layout.Int32(), 0), "[]", 32, 1)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if _, err := c.LoadInt32(block, -1, 0); !errors.Is(err, fxerrors.ErrOutOfBounds) {
		t.Errorf("negative index: got %v", err)
	}
	if _, err := c.LoadInt32(block, 1<<40, 0); !errors.Is(err, fxerrors.ErrOutOfBounds) {
		t.Errorf("huge index: got %v", err)
	}

	// i*stride wraps to a small offset in int64 arithmetic
	if err := c.StoreInt32(block, 0, 0, 77); err != nil {
		t.Fatalf("StoreInt32: %v", err)
	}
	for _, idx := range []int64{1 << 62, 1<<62 + 1, 1 << 63 / 4 * 3} {
		if _, err := c.LoadInt32(block, idx, 0); !errors.Is(err, fxerrors.ErrOutOfBounds) {
			t.Errorf("LoadInt32(%d): got %v, want out_of_bounds", idx, err)
		}
		if err := c.StoreInt32(block, idx, 0, 99); !errors.Is(err, fxerrors.ErrOutOfBounds) {
			t.Errorf("StoreInt32(%d): got %v, want out_of_bounds", idx, err)
		}
	}
	for i := int64(0); i < 4; i++ {
		want := int32(0)
		if i == 0 {
			want = 77
		}
		if v, _ := c.LoadInt32(block, i, 0); v != want {
			t.Errorf("element %d: got %d, want %d", i, v, want)
		}
	}

	err = c.StoreInt32(block, 4, 0, 1)
	if !errors.Is(err, fxerrors.ErrOutOfBounds) {
		t.Fatalf("past end: got %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Error("block error should be kept as cause")
	}
}
