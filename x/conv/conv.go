// Package conv formats integers into caller-provided buffers so MCU code
// paths can print register values without fmt or heap allocation.
package conv

const hexDigits = "0123456789ABCDEF"

// Utoa writes n in base 10 right-aligned into buf and returns the used tail.
// 20 bytes hold any uint64. A short buffer keeps the low digits.
func Utoa(buf []byte, n uint64) []byte {
	i := len(buf)
	if i == 0 {
		return buf
	}
	for {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
		if n == 0 || i == 0 {
			return buf[i:]
		}
	}
}

// U32Hex writes n as eight zero-padded uppercase hex digits, without a 0x
// prefix, into the tail of buf. It returns an empty slice when buf is
// shorter than eight bytes.
func U32Hex(buf []byte, n uint32) []byte {
	if len(buf) < 8 {
		return buf[:0]
	}
	out := buf[len(buf)-8:]
	for i := 7; i >= 0; i-- {
		out[i] = hexDigits[n&0xF]
		n >>= 4
	}
	return out
}
