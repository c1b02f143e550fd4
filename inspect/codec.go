// Package inspect provides ad hoc, random-access read and write of single
// field values within a message buffer, for diagnostic tooling (the
// "fields" and "poke" CLI subcommands). It replaces the
// reference implementation's one-off printf-based field dumper
// (example.c's explain_print_all_fields) with a reusable decode/encode
// pair built on the same MSB-first bit convention as bitcopy.
//
// Unlike bitcopy, which moves a run of bits between two buffers, this
// package moves a run of bits between a buffer and a uint64 scalar, so a
// field's value can be printed, compared, or overwritten in isolation.
// Fields wider than 64 bits are not representable as a scalar and are
// rejected.
package inspect

import (
	"encoding/binary"
	"fmt"

	"github.com/WindhoverLabs/explain/bitcopy"
)

// maxScalarBits is the widest field DumpFields and PokeField can
// represent as a uint64.
const maxScalarBits = 64

// readValue extracts numBits (1-64) starting at bitOffset in buf as a
// right-justified uint64, MSB-first. It borrows bitcopy.Copy to land the
// bits left-justified into a scratch buffer, then the same
// shift-into-a-64-bit-window trick the original bit codec used for its
// byte-aligned fast path to turn that scratch buffer into a scalar.
func readValue(buf []byte, bitOffset, numBits uint) (uint64, error) {
	if numBits == 0 || numBits > maxScalarBits {
		return 0, fmt.Errorf("inspect: bit length %d out of range [1,%d]", numBits, maxScalarBits)
	}
	if err := checkBounds(len(buf), bitOffset, numBits); err != nil {
		return 0, err
	}

	scratchBytes := (numBits + 7) / 8
	scratch := make([]byte, scratchBytes)
	bitcopy.Copy(scratch, 0, buf, bitOffset, numBits)

	var tmp [8]byte
	copy(tmp[:scratchBytes], scratch)
	full := binary.BigEndian.Uint64(tmp[:])
	return full >> (64 - numBits), nil
}

// writeValue writes the low numBits (1-64) bits of value into buf
// starting at bitOffset, MSB-first, leaving every other bit in buf
// untouched. Bits of value above position numBits-1 are ignored.
func writeValue(buf []byte, bitOffset, numBits uint, value uint64) error {
	if numBits == 0 || numBits > maxScalarBits {
		return fmt.Errorf("inspect: bit length %d out of range [1,%d]", numBits, maxScalarBits)
	}
	if err := checkBounds(len(buf), bitOffset, numBits); err != nil {
		return err
	}

	mask := (uint64(1) << numBits) - 1
	value &= mask

	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], value<<(64-numBits))

	scratchBytes := (numBits + 7) / 8
	bitcopy.Copy(buf, bitOffset, tmp[:scratchBytes], 0, numBits)
	return nil
}

func checkBounds(bufLen int, bitOffset, numBits uint) error {
	needed := (bitOffset + numBits + 7) / 8
	if int(needed) > bufLen {
		return fmt.Errorf("inspect: bit range [%d,%d) exceeds buffer of %d bytes", bitOffset, bitOffset+numBits, bufLen)
	}
	return nil
}
