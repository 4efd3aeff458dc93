package layout

import (
	"math"

	"github.com/wippyai/fastaccess/errors"
)

// maxSize is the largest layout a 32-bit block can address.
const maxSize = math.MaxUint32

func alignTo(offset, align uint64) uint64 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

func tooLarge(what string, size uint64) *errors.Error {
	return errors.New(errors.PhaseLayout, errors.KindInvalidInput).
		Value(size).
		Detail("%s size %d exceeds %d bytes", what, size, uint64(maxSize)).
		Build()
}

func discriminantSize(numCases int) uint32 {
	if numCases <= 256 {
		return 1
	} else if numCases <= 65536 {
		return 2
	}
	return 4
}

func flagsSize(numFlags int) uint32 {
	switch {
	case numFlags == 0:
		return 0
	case numFlags <= 8:
		return 1
	case numFlags <= 16:
		return 2
	case numFlags <= 32:
		return 4
	case numFlags <= 64:
		return 8
	}
	return 0
}
