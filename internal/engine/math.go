package engine

import "math/bits"

// Checked u64 arithmetic. Overflow and division by zero surface as
// ErrArithmetic; there is no silent wraparound anywhere in settlement.

func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrArithmetic
	}
	return sum, nil
}

func checkedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrArithmetic
	}
	return a - b, nil
}

func checkedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrArithmetic
	}
	return lo, nil
}

// mulDiv computes a*b/c through a 128-bit intermediate so the product may
// exceed 64 bits as long as the quotient fits. The division truncates.
func mulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrArithmetic
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 0, ErrArithmetic
	}
	quo, _ := bits.Div64(hi, lo, c)
	return quo, nil
}
