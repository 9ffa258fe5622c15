package decode

import (
	"math"

	"sprsun-modbus-bridge/internal/registry"
)

// Values with a nonzero magnitude below this threshold can only come
// from misdecoding, e.g. a 16-bit integer field read as float32 yields
// a denormal around 1e-43. No physical quantity on this controller is
// legitimately that small.
const tinyMagnitude = 1e-6

// PlausibilityHint reports whether a decoded value looks believable for
// its quantity. It is advisory: the mapper marks implausible values as
// suspect instead of dropping them, so diagnostic runs can inspect the
// raw words behind them.
func PlausibilityHint(entry registry.Entry, value float64) bool {
	if value != 0 && math.Abs(value) < tinyMagnitude {
		return false
	}
	if !entry.HasRange() {
		return true
	}
	return value >= entry.Min && value <= entry.Max
}
