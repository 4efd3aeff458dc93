package memory

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/wippyai/fastaccess/errors"
)

// MaxPages is the largest memory a 32-bit wasm module can declare.
const MaxPages = 65536

// PageSize is the size of one wasm memory page.
const PageSize = 65536

// Wasm adapts wazero api.Memory to the Block interface.
type Wasm struct {
	Mem api.Memory
}

// WrapWasm wraps a wazero memory. It returns nil for a nil memory.
func WrapWasm(mem api.Memory) *Wasm {
	if mem == nil {
		return nil
	}
	return &Wasm{Mem: mem}
}

// Size returns the current memory size in bytes.
func (m *Wasm) Size() uint32 {
	return m.Mem.Size()
}

// Read reads bytes from memory.
func (m *Wasm) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, outOfBounds("read", offset, length)
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *Wasm) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return outOfBounds("write", offset, uint32(len(data)))
	}
	return nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Wasm) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.Mem.ReadUint32Le(offset)
	if !ok {
		return 0, outOfBounds("read", offset, 4)
	}
	return v, nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Wasm) WriteU32(offset uint32, value uint32) error {
	if !m.Mem.WriteUint32Le(offset, value) {
		return outOfBounds("write", offset, 4)
	}
	return nil
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (m *Wasm) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.Mem.ReadUint64Le(offset)
	if !ok {
		return 0, outOfBounds("read", offset, 8)
	}
	return v, nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (m *Wasm) WriteU64(offset uint32, value uint64) error {
	if !m.Mem.WriteUint64Le(offset, value) {
		return outOfBounds("write", offset, 8)
	}
	return nil
}

// NewWasm instantiates a memory-only module with the given number of pages and
// returns its memory as a block. Closing the returned closer releases the runtime.
func NewWasm(ctx context.Context, pages uint32) (*Wasm, api.Closer, error) {
	if pages > MaxPages {
		return nil, nil, errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			Value(pages).
			Detail("%d pages exceeds maximum %d", pages, MaxPages).
			Build()
	}

	rt := wazero.NewRuntime(ctx)

	compiled, err := rt.CompileModule(ctx, memoryModule(pages))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, nil, errors.Wrap(errors.PhaseBuild, errors.KindInvalidInput, err, "compile memory module")
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		_ = rt.Close(ctx)
		return nil, nil, errors.Wrap(errors.PhaseBuild, errors.KindInvalidInput, err, "instantiate memory module")
	}

	return WrapWasm(mod.ExportedMemory("memory")), rt, nil
}

// memoryModule encodes a module with one memory of min pages exported as "memory".
func memoryModule(pages uint32) []byte {
	limits := append([]byte{0x00}, uleb128(pages)...)
	memSection := append([]byte{0x01}, limits...)

	name := "memory"
	export := []byte{0x01, byte(len(name))}
	export = append(export, name...)
	export = append(export, 0x02, 0x00) // kind: memory, index 0

	bin := []byte{
		0x00, 0x61, 0x73, 0x6d, // magic
		0x01, 0x00, 0x00, 0x00, // version
	}
	bin = append(bin, 0x05, byte(len(memSection)))
	bin = append(bin, memSection...)
	bin = append(bin, 0x07, byte(len(export)))
	bin = append(bin, export...)
	return bin
}

func uleb128(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}
