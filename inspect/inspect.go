package inspect

import (
	"errors"
	"fmt"

	"github.com/WindhoverLabs/explain/message"
)

// ErrFieldNotFound is returned by PokeField when msg has no field with
// the requested op name.
var ErrFieldNotFound = errors.New("inspect: field not found")

// Side selects which of a message's two recorded offsets (source or
// destination) a dump or poke operates against.
type Side int

const (
	// Src selects each field's SrcBitOffset.
	Src Side = iota
	// Dst selects each field's DstBitOffset.
	Dst
)

// FieldValue is one field's decoded scalar value, as produced by
// DumpFields.
type FieldValue struct {
	OpName    string
	BitLength uint
	Value     uint64
}

func offsetFor(f message.Field, side Side) uint {
	if side == Src {
		return f.SrcBitOffset
	}
	return f.DstBitOffset
}

// DumpFields decodes every field of msg out of buf, reading each at its
// Src or Dst offset according to side, and returns them in msg's field
// order. A field wider than 64 bits, or one whose bit range would run
// past the end of buf, aborts the whole call with an error naming the
// offending field.
func DumpFields(buf []byte, msg *message.Message, side Side) ([]FieldValue, error) {
	if msg == nil {
		return nil, nil
	}

	values := make([]FieldValue, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		v, err := readValue(buf, offsetFor(f, side), f.BitLength)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.OpName, err)
		}
		values = append(values, FieldValue{OpName: f.OpName, BitLength: f.BitLength, Value: v})
	}
	return values, nil
}

// PokeField overwrites the single field of msg named opName, at its Src
// or Dst offset according to side, with the low BitLength bits of value.
// Bits of buf outside that field's range are left untouched. Returns
// ErrFieldNotFound if msg has no field with that name.
func PokeField(buf []byte, msg *message.Message, side Side, opName string, value uint64) error {
	if msg == nil {
		return ErrFieldNotFound
	}
	for _, f := range msg.Fields {
		if f.OpName != opName {
			continue
		}
		if err := writeValue(buf, offsetFor(f, side), f.BitLength, value); err != nil {
			return fmt.Errorf("field %q: %w", opName, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrFieldNotFound, opName)
}
