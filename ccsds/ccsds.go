// Package ccsds reads the handful of primary-header fields needed to
// locate a message within a raw buffer, without interpreting anything
// the memory map itself is responsible for. It is a real collaborator of
// the translation core but not part of it: the core never calls into
// this package, and this package never calls into translate, memmap, or
// message.
//
// The CCSDS 133.0-B primary header is a fixed 6-byte structure. Its
// first 16 bits, the stream id, carry (MSB-first): a 3-bit version
// number, a 1-bit packet type, a 1-bit secondary-header-present flag,
// and an 11-bit application process id (APID). This package mirrors the
// reference implementation's CFE_SB_GetMsgId/CFE_SB_MsgHdrSize, which
// treat the whole 16-bit stream id as the message id rather than masking
// out the version bits.
package ccsds

import (
	"encoding/binary"
	"fmt"
)

// primaryHeaderSize is the fixed size, in bytes, of a CCSDS primary
// header: stream id (2 bytes), sequence control (2 bytes), and packet
// length (2 bytes).
const primaryHeaderSize = 6

// secondaryHeaderFlagMask isolates bit 4 of the stream id's first byte
// (MSB-first: bits 0-2 version, bit 3 type, bit 4 secondary-header flag).
const secondaryHeaderFlagMask = 0x08

// PrimaryHeaderSize reports the fixed size, in bytes, of a CCSDS primary
// header. It never varies by packet content.
func PrimaryHeaderSize() int {
	return primaryHeaderSize
}

// HasSecondaryHeader reports whether buf's stream id has the
// secondary-header-present flag set. A buf shorter than 2 bytes is
// reported as having no secondary header.
func HasSecondaryHeader(buf []byte) bool {
	if len(buf) < 2 {
		return false
	}
	return buf[0]&secondaryHeaderFlagMask != 0
}

// MessageID extracts the 16-bit stream id from buf's primary header:
// version, type, secondary-header flag, and APID, packed exactly as they
// appear on the wire. Returns an error if buf is shorter than 2 bytes.
func MessageID(buf []byte) (uint16, error) {
	if len(buf) < 2 {
		return 0, fmt.Errorf("ccsds: buffer of %d bytes too short for a stream id", len(buf))
	}
	return binary.BigEndian.Uint16(buf[:2]), nil
}
