package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/fastaccess"
	"github.com/wippyai/fastaccess/access"
	"github.com/wippyai/fastaccess/layout"
	"github.com/wippyai/fastaccess/memory"
)

// session binds an accessor to one block.
type session struct {
	acc    *access.Accessor
	block  fastaccess.Block
	closer api.Closer
	size   uint32
}

func buildLayout(name string, count int) (layout.Layout, error) {
	if count <= 0 || uint64(count) > math.MaxUint32 {
		return nil, fmt.Errorf("count must be in 1..%d, got %d", uint32(math.MaxUint32), count)
	}
	n := uint32(count)
	switch name {
	case "kv":
		return sequence(layout.MustStruct(
			layout.Field("key", layout.Int32()),
			layout.Field("value", layout.Int32()),
		).WithName("entry"), n)
	case "array":
		return sequence(layout.Int32(), n)
	case "matrix":
		row, err := sequence(layout.Int32(), n)
		if err != nil {
			return nil, err
		}
		return sequence(row, n)
	case "wit-point":
		point, err := layout.FromWIT(witPoint())
		if err != nil {
			return nil, err
		}
		return sequence(point, n)
	default:
		return nil, fmt.Errorf("unknown layout %q (kv, array, matrix, wit-point)", name)
	}
}

func sequence(elem layout.Layout, n uint32) (layout.Layout, error) {
	q, err := layout.SequenceOf(elem, n)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// witPoint is record point { x: s32, y: s32, z: s32, tag: u8 }.
func witPoint() *wit.TypeDef {
	name := "point"
	return &wit.TypeDef{
		Name: &name,
		Kind: &wit.Record{
			Fields: []wit.Field{
				{Name: "x", Type: wit.S32{}},
				{Name: "y", Type: wit.S32{}},
				{Name: "z", Type: wit.S32{}},
				{Name: "tag", Type: wit.U8{}},
			},
		},
	}
}

func newSession(ctx context.Context, root layout.Layout, backend string, opts access.Options) (*session, error) {
	acc, err := access.New(root, opts)
	if err != nil {
		return nil, err
	}

	s := &session{acc: acc, size: root.Size()}
	switch backend {
	case "bytes":
		s.block = memory.NewBytes(int(s.size))
	case "wasm":
		pages := (s.size + memory.PageSize - 1) / memory.PageSize
		if pages == 0 {
			pages = 1
		}
		block, closer, err := memory.NewWasm(ctx, pages)
		if err != nil {
			return nil, fmt.Errorf("wasm memory: %w", err)
		}
		s.block = block
		s.closer = closer
		s.size = block.Size()
	default:
		return nil, fmt.Errorf("unknown backend %q (bytes, wasm)", backend)
	}
	return s, nil
}

func (s *session) Close(ctx context.Context) error {
	if s.closer != nil {
		return s.closer.Close(ctx)
	}
	return nil
}

// exec runs one command line and returns its output.
func (s *session) exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "get":
		return s.get(args)
	case "set":
		return s.set(args)
	case "fill":
		return s.fill()
	case "stats":
		return s.stats(), nil
	case "layout":
		return s.acc.Layout().String(), nil
	case "help":
		return usage, nil
	default:
		return "", fmt.Errorf("unknown command %q", cmd)
	}
}

const usage = `get <path> [i0 [i1]]         read an int32
set <path> [i0 [i1]] <value> write an int32
fill                         write 0, 1, 2, ... into every word
stats                        show call-site caches
layout                       show the root layout`

func (s *session) get(args []string) (string, error) {
	if len(args) < 1 || len(args) > 3 {
		return "", fmt.Errorf("usage: get <path> [i0 [i1]]")
	}
	idx, err := parseInts(args[1:])
	if err != nil {
		return "", err
	}

	path := s.acc.Intern(args[0])
	var v int32
	switch len(idx) {
	case 0:
		v, err = s.acc.GetInt(s.block, path)
	case 1:
		v, err = s.acc.GetInt1(s.block, path, idx[0])
	case 2:
		v, err = s.acc.GetInt2(s.block, path, idx[0], idx[1])
	}
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(v), 10), nil
}

func (s *session) set(args []string) (string, error) {
	if len(args) < 2 || len(args) > 4 {
		return "", fmt.Errorf("usage: set <path> [i0 [i1]] <value>")
	}
	idx, err := parseInts(args[1 : len(args)-1])
	if err != nil {
		return "", err
	}
	v, err := strconv.ParseInt(args[len(args)-1], 10, 32)
	if err != nil {
		return "", fmt.Errorf("value: %w", err)
	}

	path := s.acc.Intern(args[0])
	switch len(idx) {
	case 0:
		err = s.acc.SetInt(s.block, path, int32(v))
	case 1:
		err = s.acc.SetInt1(s.block, path, idx[0], int32(v))
	case 2:
		err = s.acc.SetInt2(s.block, path, idx[0], idx[1], int32(v))
	}
	if err != nil {
		return "", err
	}
	return "ok", nil
}

func (s *session) fill() (string, error) {
	words := s.size / 4
	for i := uint32(0); i < words; i++ {
		if err := s.block.WriteU32(i*4, i); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("wrote %d words", words), nil
}

func (s *session) stats() string {
	var b strings.Builder
	for _, st := range s.acc.Stats() {
		fmt.Fprintf(&b, "%s/%d  %-12s nodes=%d hits=%d misses=%d resolutions=%d hit-rate=%.1f%%\n",
			st.Name, st.Arity, st.State, st.Nodes, st.Hits, st.Misses, st.Resolutions, st.HitRate())
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}
