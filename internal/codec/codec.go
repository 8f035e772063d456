// Package codec serializes engine state for transport between execution
// contexts, typically a parallel worker handing its partial aggregate to a
// coordinator.
//
// Byte layout (binary, little-endian, matching the rest of the project's
// wire formats):
//   - TypeID (4 bytes)
//   - Count (8 bytes)
//   - Capacity (8 bytes)
//   - Count records, each:
//     [nullFlag: 1 byte]
//     fixed-width type:    [raw value: layout width bytes]
//     variable-width type: [length: 4 bytes][payload: length bytes]
//
// The comparator is never written; decode re-resolves it from the TypeID
// against the receiving side's registry.
package codec

import (
	"encoding/binary"

	"github.com/davinderatgithub/median-aggregate/internal/engine"
	apperrors "github.com/davinderatgithub/median-aggregate/internal/errors"
	"github.com/davinderatgithub/median-aggregate/internal/typereg"
	"github.com/davinderatgithub/median-aggregate/internal/value"
)

const (
	headerSize = 20 // 4 bytes TypeID + 8 bytes count + 8 bytes capacity

	// maxCapacity bounds the allocation a decoded header can demand.
	maxCapacity = 1 << 31
)

// Encode serializes an engine's accumulated state.
func Encode(e *engine.Engine) ([]byte, error) {
	if e == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidState, "encode with no accumulated state")
	}

	layout := e.Layout()
	vals := e.Values()

	// Estimate: header plus flag byte and one word per value.
	buf := make([]byte, 0, headerSize+len(vals)*9)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(e.TypeID()))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(e.Count()))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(e.Capacity()))

	for _, d := range vals {
		// The engine never accumulates nulls; the flag byte exists for
		// format compatibility and is always zero on encode.
		buf = append(buf, 0)

		if layout.FixedWidth {
			buf = appendWord(buf, d.Word(), layout.Width)
		} else {
			p := d.Payload()
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p)))
			buf = append(buf, p...)
		}
	}

	return buf, nil
}

// Decode reconstructs an engine from serialized state, re-resolving
// comparison support for the transported TypeID from reg. Truncated or
// malformed input fails before any out-of-bounds read.
func Decode(reg *typereg.Registry, data []byte) (*engine.Engine, error) {
	if len(data) < headerSize {
		return nil, apperrors.Wrapf(apperrors.ErrShortBuffer, "state header needs %d bytes, have %d", headerSize, len(data))
	}

	t := value.TypeID(binary.LittleEndian.Uint32(data[0:4]))
	count := binary.LittleEndian.Uint64(data[4:12])
	capacity := binary.LittleEndian.Uint64(data[12:20])

	if capacity == 0 || capacity > maxCapacity {
		// Every encoded state carries the buffer's real allocation, which
		// is never below the initial 8 slots; zero means a forged header.
		return nil, apperrors.NewCorrupt("capacity out of range")
	}
	if count > capacity {
		return nil, apperrors.NewCorrupt("count exceeds capacity")
	}

	layout, err := reg.LayoutOf(t)
	if err != nil {
		return nil, err
	}

	values := make([]value.Datum, 0, count)
	offset := headerSize

	for i := 0; i < int(count); i++ {
		if offset >= len(data) {
			return nil, apperrors.Wrapf(apperrors.ErrShortBuffer, "record %d: missing null flag", i)
		}
		flag := data[offset]
		offset++

		switch flag {
		case 1:
			// Null record: no payload follows.
			values = append(values, value.Datum{})
			continue
		case 0:
		default:
			return nil, apperrors.NewCorrupt("invalid null flag")
		}

		if layout.FixedWidth {
			if offset+layout.Width > len(data) {
				return nil, apperrors.Wrapf(apperrors.ErrShortBuffer, "record %d: missing value bytes", i)
			}
			values = append(values, value.FromWord(readWord(data[offset:], layout.Width)))
			offset += layout.Width
		} else {
			if offset+4 > len(data) {
				return nil, apperrors.Wrapf(apperrors.ErrShortBuffer, "record %d: missing length", i)
			}
			length := int(binary.LittleEndian.Uint32(data[offset:]))
			offset += 4

			if offset+length > len(data) {
				return nil, apperrors.Wrapf(apperrors.ErrShortBuffer, "record %d: missing payload", i)
			}
			payload := make([]byte, length)
			copy(payload, data[offset:offset+length])
			values = append(values, value.FromPayload(payload))
			offset += length
		}
	}

	if offset != len(data) {
		return nil, apperrors.Wrapf(apperrors.ErrTrailingBytes, "%d bytes after last record", len(data)-offset)
	}

	return engine.Restore(reg, t, int(capacity), values)
}

// appendWord writes the low width bytes of w, little-endian.
func appendWord(buf []byte, w uint64, width int) []byte {
	for i := 0; i < width; i++ {
		buf = append(buf, byte(w>>(8*i)))
	}
	return buf
}

// readWord reads a little-endian word of the given width.
func readWord(data []byte, width int) uint64 {
	var w uint64
	for i := 0; i < width; i++ {
		w |= uint64(data[i]) << (8 * i)
	}
	return w
}
