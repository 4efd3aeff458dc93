package fastaccess

// Block is a raw memory region addressed by byte offset.
// Values are little-endian. Implementations report out-of-range access as errors.
type Block interface {
	ReadU32(offset uint32) (uint32, error)
	WriteU32(offset uint32, value uint32) error
}

// Sizer provides the current size of a Block in bytes.
type Sizer interface {
	Size() uint32
}
