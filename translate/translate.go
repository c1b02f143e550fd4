// Package translate implements the field-by-field translation driver: it
// walks a message's ordered field list and invokes bitcopy.Copy for each
// one, tracking cumulative bit position so that compiler padding between
// fields is reproduced in the output rather than collapsed.
//
// # Overview
//
// Translate(dst, src, msg, maxBytes, direction) zeroes dst, then for each
// field in msg.Fields computes the gap between the previous field's end
// and this field's start, bounds-checks against maxBytes, copies the
// field's bits, and folds the gap into the running total. The gap is
// signed: memory maps that describe reordered or overlapping bit-fields
// (common when two compilers pack bit-fields in different orders) produce
// a negative gap. Where destination ranges overlap, a later field's bits
// replace the overlapping bits an earlier field already wrote.
//
// Direction controls which offset is the read side and which is the write
// side; the field's SrcBitOffset/DstBitOffset names are retained from the
// memory map regardless of direction, only their role swaps.
package translate

import (
	"errors"
	"fmt"

	"github.com/WindhoverLabs/explain/bitcopy"
	"github.com/WindhoverLabs/explain/message"
)

// Direction selects which side of a Field is read from and which is
// written to during a translation.
type Direction int

const (
	// Forward reads each field at SrcBitOffset and writes it at
	// DstBitOffset.
	Forward Direction = iota
	// Reverse reads each field at DstBitOffset and writes it at
	// SrcBitOffset.
	Reverse
)

// ErrBufferTooSmall is returned (wrapped with field/offset detail) when a
// field's translated position would exceed maxBytes. It is the typed
// equivalent of the reference implementation's process-wide
// errno=ENOMEM/-1 return convention.
var ErrBufferTooSmall = errors.New("translate: destination buffer too small")

// Translate copies msg's fields from src into dst according to direction,
// and returns the number of bytes written to dst (always <= maxBytes).
//
// dst is zeroed for its full maxBytes length before any field is copied,
// so bit-ranges the map never mentions are deterministically zero. Fields
// are visited in msg.Fields order; that order determines both which field's
// bits win when destination ranges overlap and the padding accounted for
// between fields.
//
// A nil src, nil dst, or nil msg returns (0, nil) with no side effects. A
// field whose translated end would exceed maxBytes*8 bits aborts the
// whole call and returns (0, error wrapping ErrBufferTooSmall); no later
// fields are processed, and dst is left zeroed plus whatever fields were
// already copied before the abort.
func Translate(dst []byte, src []byte, msg *message.Message, maxBytes int, direction Direction) (int, error) {
	if src == nil || dst == nil || msg == nil {
		return 0, nil
	}

	for i := range dst[:maxBytes] {
		dst[i] = 0
	}

	maxBits := maxBytes * 8
	bitsWritten := 0

	for idx, field := range msg.Fields {
		var readOffset, writeOffset uint
		var targetOffset int
		switch direction {
		case Forward:
			readOffset = field.SrcBitOffset
			writeOffset = field.DstBitOffset
			targetOffset = int(field.DstBitOffset)
		case Reverse:
			readOffset = field.DstBitOffset
			writeOffset = field.SrcBitOffset
			targetOffset = int(field.SrcBitOffset)
		}

		gap := targetOffset - bitsWritten
		tentative := bitsWritten + gap + int(field.BitLength)

		if tentative > maxBits {
			return 0, fmt.Errorf("%w: field %d (%q) needs %d bits, only %d available",
				ErrBufferTooSmall, idx, field.OpName, tentative, maxBits)
		}

		bitcopy.Copy(dst, writeOffset, src, readOffset, field.BitLength)
		bitsWritten += int(field.BitLength) + gap
	}

	if bitsWritten%8 == 0 {
		return bitsWritten / 8, nil
	}
	rounded := bitsWritten/8 + 1
	if rounded > maxBytes {
		return 0, fmt.Errorf("%w: rounded size %d exceeds %d", ErrBufferTooSmall, rounded, maxBytes)
	}
	return rounded, nil
}
