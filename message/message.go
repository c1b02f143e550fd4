// Package message holds the in-memory representation of a parsed memory
// map: fields, messages, and a catalog supporting four independent lookup
// axes over an insertion-ordered list of messages.
//
// # Overview
//
// A Field is an immutable record of one bit-range mapping. A Message owns
// an ordered slice of Fields (insertion order from the source JSON, which
// is load-bearing for translate.Translate's cumulative-size accounting). A
// Catalog owns an ordered slice of Messages and answers id/ops-name/
// src-symbol/dst-symbol lookups by linear scan, returning the first match.
//
// This replaces the reference implementation's intrusive singly-linked
// lists (a "next" pointer embedded as the first struct member) with plain
// owned slices, per the redesign notes: the intrusive layout carried no
// semantic load of its own.
package message

const (
	// MaxOpsNameLength is the documented maximum length, in bytes, of an
	// ops name or field op name in a memory map. memmap.Load does not
	// check it: longer names are stored as given.
	MaxOpsNameLength = 256
	// MaxSymbolLength is the documented maximum length, in bytes, of a
	// source or destination symbol name in a memory map. memmap.Load does
	// not check it: longer symbols are stored as given.
	MaxSymbolLength = 256
)

// Endian identifies the byte order a message's source or destination side
// was compiled with. The core records this tag but never acts on it: field
// copies in this system move bits, not typed multi-byte values, so no
// byte-swap is ever performed automatically.
type Endian int

const (
	// Little indicates a little-endian source or destination ABI.
	Little Endian = iota
	// Big indicates a big-endian source or destination ABI.
	Big
)

// String renders the single-character memory-map spelling of e ("L" or
// "B"), the same spelling memmap.Load reads from src_endian/dst_endian.
func (e Endian) String() string {
	if e == Big {
		return "B"
	}
	return "L"
}

// Field is one bit-range mapping within a Message. Fields never mutate
// after being appended to a Message's Fields slice.
type Field struct {
	// OpName is the field's identifying name, e.g. "synch".
	OpName string
	// BitLength is the number of bits to copy; any positive value is
	// valid, not just multiples of 8.
	BitLength uint
	// SrcBitOffset is the bit offset into the source-side buffer.
	SrcBitOffset uint
	// DstBitOffset is the bit offset into the destination-side buffer.
	DstBitOffset uint
}

// Message describes one translatable message type: a numeric id, three
// identifying strings, the endianness of each side, and its ordered field
// list.
type Message struct {
	// ID is the message's 32-bit numeric identifier, parsed from a
	// hexadecimal string in the memory map.
	ID uint32
	// OpsName is the message's human-readable operations name.
	OpsName string
	// SrcSymbol is the source-side structure symbol name.
	SrcSymbol string
	// DstSymbol is the destination-side structure symbol name.
	DstSymbol string
	// SrcEndian is the endianness tag of the source ABI.
	SrcEndian Endian
	// DstEndian is the endianness tag of the destination ABI.
	DstEndian Endian
	// Fields is the ordered list of field mappings, in memory-map
	// insertion order. Order is load-bearing: translate.Translate visits
	// fields in this order to compute cumulative padding.
	Fields []Field
}

// Catalog is an insertion-ordered collection of Messages supporting
// lookup by id, ops name, source symbol, and destination symbol. No
// uniqueness is enforced: each lookup returns the first match in
// insertion order.
//
// Catalog's mutation methods (AddMessage, AddField) are intended for use
// by memmap.Load only, during the single population pass at startup; they
// are not safe for concurrent use. Once a Catalog has been handed to
// translate.Translate, no further mutation should occur for the lifetime
// of that Catalog.
type Catalog struct {
	messages []*Message
}

// NewCatalog returns an empty Catalog ready for population.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Messages returns the catalog's messages in insertion order. The
// returned slice is borrowed: callers must not mutate it or retain it
// past the catalog's lifetime.
func (c *Catalog) Messages() []*Message {
	return c.messages
}

// Len reports the number of messages currently in the catalog.
func (c *Catalog) Len() int {
	return len(c.messages)
}

// AddMessage allocates a new, empty Message, appends it to the catalog,
// and returns it so the caller (typically the memory-map loader) can
// populate it field by field.
func (c *Catalog) AddMessage() *Message {
	msg := &Message{}
	c.messages = append(c.messages, msg)
	return msg
}

// AddField appends a copy of field to msg's field list, preserving
// insertion order.
func (c *Catalog) AddField(msg *Message, field Field) {
	msg.Fields = append(msg.Fields, field)
}

// FindByID returns the first message with the given id, and whether one
// was found.
func (c *Catalog) FindByID(id uint32) (*Message, bool) {
	for _, msg := range c.messages {
		if msg.ID == id {
			return msg, true
		}
	}
	return nil, false
}

// FindByOpsName returns the first message with the given ops name, and
// whether one was found. An empty opsName matches any message whose
// OpsName is also empty.
func (c *Catalog) FindByOpsName(opsName string) (*Message, bool) {
	for _, msg := range c.messages {
		if msg.OpsName == opsName {
			return msg, true
		}
	}
	return nil, false
}

// FindBySrcSymbol returns the first message with the given source symbol,
// and whether one was found.
func (c *Catalog) FindBySrcSymbol(srcSymbol string) (*Message, bool) {
	for _, msg := range c.messages {
		if msg.SrcSymbol == srcSymbol {
			return msg, true
		}
	}
	return nil, false
}

// FindByDstSymbol returns the first message with the given destination
// symbol, and whether one was found.
func (c *Catalog) FindByDstSymbol(dstSymbol string) (*Message, bool) {
	for _, msg := range c.messages {
		if msg.DstSymbol == dstSymbol {
			return msg, true
		}
	}
	return nil, false
}
