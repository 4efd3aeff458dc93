package memory

import (
	"encoding/binary"

	"github.com/wippyai/fastaccess/errors"
)

// Bytes is a Block backed by a byte slice.
type Bytes struct {
	buf []byte
}

// NewBytes allocates a zeroed block of size bytes.
func NewBytes(size int) *Bytes {
	return &Bytes{buf: make([]byte, size)}
}

// WrapBytes uses buf as the block without copying.
func WrapBytes(buf []byte) *Bytes {
	return &Bytes{buf: buf}
}

// Bytes returns the backing slice.
func (m *Bytes) Bytes() []byte {
	return m.buf
}

// Size returns the block length in bytes.
func (m *Bytes) Size() uint32 {
	return uint32(len(m.buf))
}

func (m *Bytes) span(offset, length uint32, op string) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(m.buf)) {
		return nil, outOfBounds(op, offset, length)
	}
	return m.buf[offset:end], nil
}

// Read returns a view of length bytes at offset.
func (m *Bytes) Read(offset, length uint32) ([]byte, error) {
	return m.span(offset, length, "read")
}

// Write copies data to offset.
func (m *Bytes) Write(offset uint32, data []byte) error {
	dst, err := m.span(offset, uint32(len(data)), "write")
	if err != nil {
		return err
	}
	copy(dst, data)
	return nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Bytes) ReadU32(offset uint32) (uint32, error) {
	b, err := m.span(offset, 4, "read")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Bytes) WriteU32(offset uint32, value uint32) error {
	b, err := m.span(offset, 4, "write")
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, value)
	return nil
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (m *Bytes) ReadU64(offset uint32) (uint64, error) {
	b, err := m.span(offset, 8, "read")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (m *Bytes) WriteU64(offset uint32, value uint64) error {
	b, err := m.span(offset, 8, "write")
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, value)
	return nil
}

func outOfBounds(op string, offset, length uint32) *errors.Error {
	return errors.New(errors.PhaseAccess, errors.KindOutOfBounds).
		Value(offset).
		Detail("memory %s out of bounds: offset=%d, length=%d", op, offset, length).
		Build()
}
