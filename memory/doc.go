// Package memory provides Block implementations.
//
// # Byte Slice
//
// Bytes backs a block with a Go byte slice:
//
//	b := memory.NewBytes(400)
//	// b implements fastaccess.Block
//
// # Linear Memory
//
// Wasm adapts a wazero api.Memory, so layouts can address WebAssembly linear
// memory directly:
//
//	block := memory.WrapWasm(instance.ExportedMemory("memory"))
//
// NewWasm instantiates a module that does nothing but export a memory of the
// requested number of pages, for hosts that want a wazero-managed region
// without a guest:
//
//	block, closer, err := memory.NewWasm(ctx, 1)
//	defer closer.Close(ctx)
//
// Both report out-of-range access as out_of_bounds errors and store values
// little-endian.
package memory
