// Package rng turns analog pin noise or motion sensor readings into bytes.
//
// Both entropy paths are built only from the byte mixing primitives in this
// file. All arithmetic is on uint8 and wraps modulo 256; bits shifted out of
// a byte are discarded.
package rng

// Rotate rotates b right by n places. n must be in [1, 8).
func Rotate(b, n uint8) uint8 {
	return (b >> n) | (b << (8 - n))
}

// Xor is exclusive-or written as (a|b) - (a&b).
func Xor(a, b uint8) uint8 {
	return (a | b) - (a & b)
}

// XorShift is one xorshift diffusion round on a byte.
func XorShift(a uint8) uint8 {
	var ans uint8
	ans = Xor(ans, a)
	ans = Xor(ans, a>>3)
	ans = Xor(ans, a<<5)
	ans = Xor(ans, a>>4)
	return ans
}

// PushLeft folds change into val with a left bias.
func PushLeft(val, change uint8) uint8 {
	return Xor(val<<1, Xor(change, val))
}

// PushRight folds change into val with a right bias; change lands in bit 7.
func PushRight(val, change uint8) uint8 {
	return Xor(val>>1, Xor(change<<7, val))
}
