package hw

// Fixed-point helpers shared by the affine pipelines. Matrices are
// signed 8.8; reference points are signed 20.8 stored on 28 bits.

// Fix8 is a signed fixed-point value with 8 fractional bits.
type Fix8 int32

func Fix8FromInt(v int) Fix8 {
	return Fix8(v) << 8
}

// Int truncates towards negative infinity, matching an arithmetic shift.
func (f Fix8) Int() int {
	return int(f >> 8)
}

// Mul multiplies two 8.8 values, keeping 8 fractional bits.
func (f Fix8) Mul(g Fix8) Fix8 {
	return Fix8(int64(f) * int64(g) >> 8)
}

// MulInt scales an 8.8 value by an integer.
func (f Fix8) MulInt(n int) Fix8 {
	return f * Fix8(n)
}

// Fix8FromU16 reinterprets a register halfword as a signed 8.8 value.
func Fix8FromU16(v uint16) Fix8 {
	return Fix8(int16(v))
}

// SignExtend28 interprets the low 28 bits of v as a signed 20.8 value.
func SignExtend28(v uint32) Fix8 {
	return Fix8(int32(v<<4) >> 4)
}

// FloorMod returns a mod m with the result in [0, m). m must be positive.
func FloorMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
