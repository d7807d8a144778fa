package core

// String helpers that avoid pulling fmt into AVR builds.

const hexDigits = "0123456789ABCDEF"

// Itoa converts an integer to its decimal form.
func Itoa(n int) string {
	if n < 0 {
		return "-" + Utoa(uint32(-n))
	}
	return Utoa(uint32(n))
}

// Utoa converts an unsigned integer to its decimal form.
func Utoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// hex16 renders v as four upper-case hex digits.
func hex16(v uint16) string {
	var buf [4]byte
	for i := 3; i >= 0; i-- {
		buf[i] = hexDigits[v&0xF]
		v >>= 4
	}
	return string(buf[:])
}

// Hex8 renders v as two upper-case hex digits.
func Hex8(v uint8) string {
	return string([]byte{hexDigits[v>>4], hexDigits[v&0xF]})
}
