package utils

import "math"

// Saturating integer arithmetic. Aggregate counters and running averages use
// these throughout, so overflow is never an observable failure mode.

// AddUint32Sat adds two uint32 values, saturating at the maximum.
func AddUint32Sat(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}

// SubUint32Sat subtracts b from a, saturating at zero.
func SubUint32Sat(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}

// MulUint32Sat multiplies two uint32 values, saturating at the maximum.
func MulUint32Sat(a, b uint32) uint32 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxUint32/b {
		return math.MaxUint32
	}
	return a * b
}

// AddUint64Sat adds two uint64 values, saturating at the maximum.
func AddUint64Sat(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

// SubUint64Sat subtracts b from a, saturating at zero.
func SubUint64Sat(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// MulUint64Sat multiplies two uint64 values, saturating at the maximum.
func MulUint64Sat(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxUint64/b {
		return math.MaxUint64
	}
	return a * b
}

// ClampUint16 clamps a uint64 into the uint16 range.
func ClampUint16(v uint64) uint16 {
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}
