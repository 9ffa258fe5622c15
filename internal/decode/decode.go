// Package decode converts raw 16-bit register words into typed values.
// All functions are pure; word order for 32-bit quantities is fixed to
// high word first, matching the PC1000 controller family.
package decode

import (
	"math"

	"sprsun-modbus-bridge/internal/errors"
)

// ScaledInt16 interprets a word as two's-complement signed 16-bit and
// divides by scale. Raw values at or above 0x8000 decode negative.
func ScaledInt16(word uint16, scale float64) float64 {
	if scale == 0 {
		scale = 1
	}
	return float64(int16(word)) / scale
}

// Float32 reinterprets two words as an IEEE-754 float32, high word
// first. NaN and infinite patterns are rejected because the controller
// never produces them; they indicate a wrong encoding or word order.
func Float32(name string, hi, lo uint16) (float64, error) {
	bits := uint32(hi)<<16 | uint32(lo)
	f := math.Float32frombits(bits)
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return 0, errors.NewInvalidEncodingError(name, hi, lo)
	}
	return float64(f), nil
}

// UInt32 concatenates two words into an unsigned 32-bit integer, high
// word first
func UInt32(hi, lo uint16) uint32 {
	return uint32(hi)<<16 | uint32(lo)
}

// PutFloat32 splits a float32 into two register words, high word first
func PutFloat32(v float32) (hi, lo uint16) {
	bits := math.Float32bits(v)
	return uint16(bits >> 16), uint16(bits)
}

// PutUInt32 splits an unsigned 32-bit integer into two register words,
// high word first
func PutUInt32(v uint32) (hi, lo uint16) {
	return uint16(v >> 16), uint16(v)
}
