// Package memmap parses a JSON memory map into a message.Catalog.
//
// # Overview
//
// A memory map is a JSON array of message objects, each carrying an id,
// three identifying strings, two endianness tags, and a "fields" array
// of field objects. This package walks the JSON token stream directly
// with github.com/json-iterator/go's callback iterator rather than
// unmarshaling into an intermediate struct, because the reference
// implementation's behavior is keyed to the *order* keys are observed: a
// field is considered complete the moment its "dst_offset" key is seen,
// and a message is considered complete the moment its "dst_endian" key
// is seen. A struct-shaped Unmarshal would lose that ordering dependency
// entirely; walking the token stream preserves it exactly.
//
// Depth is bounded at MaxRecursionDepth nested arrays/objects, mirroring
// the reference parser's call-count guard against malicious or malformed
// input.
package memmap

import (
	"context"
	"fmt"
	"os"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/WindhoverLabs/explain/message"
)

// MaxRecursionDepth bounds how many nested arrays/objects Load will
// descend into before aborting with an error, matching the reference
// parser's MAX_RECURSIVE_CALL_COUNT.
const MaxRecursionDepth = 100

const (
	keyID        = "id"
	keyOpsName   = "ops_name"
	keySrcSymbol = "src_symbol"
	keyDstSymbol = "dst_symbol"
	keySrcEndian = "src_endian"
	keyDstEndian = "dst_endian"
	keyFields    = "fields"

	keyOpName    = "op_name"
	keyLength    = "length"
	keySrcOffset = "src_offset"
	keyDstOffset = "dst_offset"

	endianLittle = "L"
	endianBig    = "B"
)

// loader carries the state threaded through the recursive-descent walk:
// the catalog being populated, the logger unknown keys are reported to,
// and the current recursion depth.
type loader struct {
	cat    *message.Catalog
	logger gokitlog.Logger
	depth  int
}

func (l *loader) enter() error {
	l.depth++
	if l.depth > MaxRecursionDepth {
		return fmt.Errorf("memmap: recursion depth exceeded %d", MaxRecursionDepth)
	}
	return nil
}

func (l *loader) leave() {
	l.depth--
}

// Load parses the memory map in data, logging unrecognized keys to
// logger (a nil logger discards them), and returns a populated catalog.
// A malformed document, an id that is not a valid hex string, or
// recursion past MaxRecursionDepth returns an error and no catalog.
func Load(ctx context.Context, data []byte, logger gokitlog.Logger) (*message.Catalog, error) {
	if logger == nil {
		logger = gokitlog.NewNopLogger()
	}

	cat := message.NewCatalog()
	l := &loader{cat: cat, logger: logger}

	iter := jsoniter.ParseBytes(jsoniter.ConfigDefault, data)

	if err := l.enter(); err != nil {
		return nil, err
	}
	defer l.leave()

	iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
		if err := ctx.Err(); err != nil {
			iter.ReportError("memmap.Load", err.Error())
			return false
		}
		if err := l.parseMessage(iter); err != nil {
			iter.ReportError("memmap.Load", err.Error())
			return false
		}
		return true
	})

	if iter.Error != nil {
		return nil, fmt.Errorf("memmap: %w", iter.Error)
	}
	return cat, nil
}

// LoadFile reads path and parses it as a memory map. See Load.
func LoadFile(ctx context.Context, path string, logger gokitlog.Logger) (*message.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("memmap: %w", err)
	}
	return Load(ctx, data, logger)
}

// parseMessage consumes one message object from iter, appending a new
// message to l.cat and populating it field by field.
func (l *loader) parseMessage(iter *jsoniter.Iterator) error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.leave()

	msg := l.cat.AddMessage()

	var parseErr error
	iter.ReadObjectCB(func(iter *jsoniter.Iterator, key string) bool {
		switch key {
		case keyID:
			raw := iter.ReadString()
			id, err := strconv.ParseUint(raw, 16, 32)
			if err != nil {
				parseErr = fmt.Errorf("memmap: invalid id %q: %w", raw, err)
				return false
			}
			msg.ID = uint32(id)
		case keyOpsName:
			msg.OpsName = iter.ReadString()
		case keySrcSymbol:
			msg.SrcSymbol = iter.ReadString()
		case keyDstSymbol:
			msg.DstSymbol = iter.ReadString()
		case keySrcEndian:
			msg.SrcEndian = l.parseEndian(iter.ReadString())
		case keyDstEndian:
			// Observing dst_endian marks the message complete in the
			// reference parser's state machine; nothing further needs
			// doing here since msg is already live in the catalog, but
			// the field is still consumed in source-key order.
			msg.DstEndian = l.parseEndian(iter.ReadString())
		case keyFields:
			iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
				if err := l.parseField(iter, msg); err != nil {
					parseErr = err
					return false
				}
				return true
			})
		default:
			level.Warn(l.logger).Log("msg", "unknown key in memory map message", "key", key)
			iter.Skip()
		}
		return parseErr == nil
	})

	if parseErr != nil {
		return parseErr
	}
	return iter.Error
}

// parseField consumes one field object from iter and, upon observing
// dst_offset (the reference parser's field-complete signal), appends it
// to msg.
func (l *loader) parseField(iter *jsoniter.Iterator, msg *message.Message) error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.leave()

	var field message.Field

	iter.ReadObjectCB(func(iter *jsoniter.Iterator, key string) bool {
		switch key {
		case keyOpName:
			field.OpName = iter.ReadString()
		case keyLength:
			field.BitLength = uint(iter.ReadUint())
		case keySrcOffset:
			field.SrcBitOffset = uint(iter.ReadUint())
		case keyDstOffset:
			field.DstBitOffset = uint(iter.ReadUint())
			l.cat.AddField(msg, field)
		default:
			level.Warn(l.logger).Log("msg", "unknown key in memory map field", "key", key)
			iter.Skip()
		}
		return true
	})

	return iter.Error
}

func (l *loader) parseEndian(value string) message.Endian {
	switch value {
	case endianLittle:
		return message.Little
	case endianBig:
		return message.Big
	default:
		level.Warn(l.logger).Log("msg", "unknown endianness value in memory map", "value", value)
		return message.Little
	}
}
