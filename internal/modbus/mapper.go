package modbus

import (
	"sprsun-modbus-bridge/internal/decode"
	"sprsun-modbus-bridge/internal/errors"
	"sprsun-modbus-bridge/internal/logger"
	"sprsun-modbus-bridge/internal/registry"
)

// Reason classifies why a quantity is unavailable in a mapping result
type Reason string

const (
	ReasonOutOfRange      Reason = "out_of_range"
	ReasonInvalidEncoding Reason = "invalid_encoding"
)

// Value is the decoded result for one quantity. Either Value carries a
// number, or Unavailable is set with a Reason; never neither.
type Value struct {
	Name        string
	Value       float64
	Unit        string
	Suspect     bool // decoded fine but failed the plausibility hint
	Unavailable bool
	Reason      Reason
	Err         error
}

// MapBlock decodes a raw word block into named values using the catalog.
// Every wanted name is present in the result: a per-quantity failure
// yields an unavailable marker and never aborts the rest of the block.
// An unknown name is a programming error and fails the whole call.
func MapBlock(rawWords []uint16, blockStart uint16, wanted []string, catalog *registry.Catalog) (map[string]Value, error) {
	result := make(map[string]Value, len(wanted))

	for _, name := range wanted {
		entry, err := catalog.Lookup(name)
		if err != nil {
			return nil, err
		}
		result[name] = mapEntry(rawWords, blockStart, entry)
	}

	return result, nil
}

func mapEntry(rawWords []uint16, blockStart uint16, entry registry.Entry) Value {
	v := Value{Name: entry.Name, Unit: entry.Unit}

	// Bound by whichever is wider, the declared width or the width the
	// encoding will actually index. A width mismatch the validator never
	// saw must surface as unavailable, not as a slice panic.
	span := entry.Words
	if w := entry.Encoding.Words(); w > span {
		span = w
	}
	offset := int(entry.Address) - int(blockStart)
	if offset < 0 || offset+span > len(rawWords) {
		v.Unavailable = true
		v.Reason = ReasonOutOfRange
		v.Err = errors.NewOutOfRangeError(entry.Name, entry.Address, uint8(span), blockStart, len(rawWords))
		logger.LogDebug("%s needs words [%d..%d) but block at %d has %d", entry.Name, offset, offset+span, blockStart, len(rawWords))
		return v
	}

	switch entry.Encoding {
	case registry.ScaledInt16:
		v.Value = decode.ScaledInt16(rawWords[offset], entry.Scale)
	case registry.Float32BE:
		f, err := decode.Float32(entry.Name, rawWords[offset], rawWords[offset+1])
		if err != nil {
			v.Unavailable = true
			v.Reason = ReasonInvalidEncoding
			v.Err = err
			logger.LogWarn("%s: invalid float32 pattern, raw words 0x%04X 0x%04X", entry.Name, rawWords[offset], rawWords[offset+1])
			return v
		}
		v.Value = f
	case registry.UInt32BE:
		v.Value = float64(decode.UInt32(rawWords[offset], rawWords[offset+1]))
	default:
		v.Unavailable = true
		v.Reason = ReasonInvalidEncoding
		v.Err = errors.NewInvalidEncodingError(entry.Name, rawWords[offset], 0)
		return v
	}

	if !decode.PlausibilityHint(entry, v.Value) {
		v.Suspect = true
		logger.LogDebug("%s: suspect value %g outside plausible range", entry.Name, v.Value)
	}

	return v
}

// MapGroup decodes a raw block for every quantity of one register group
func MapGroup(rawWords []uint16, blockStart uint16, group string, catalog *registry.Catalog) (map[string]Value, error) {
	var wanted []string
	for _, e := range catalog.GroupEntries(group) {
		wanted = append(wanted, e.Name)
	}
	if len(wanted) == 0 {
		return nil, errors.NewUnknownQuantityError(group)
	}
	return MapBlock(rawWords, blockStart, wanted, catalog)
}
