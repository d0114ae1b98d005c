// Package encoding implements the pack32 text encoding: input bytes are
// read as one MSB-first bitstream and emitted in 5-bit groups over a
// 32-symbol alphabet. Unlike standard base32 the final short group is
// zero-filled and marked with exactly one '=' regardless of the shortfall.
package encoding

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdef"

// Pad is the single padding character appended when the input bit count
// is not a multiple of five.
const Pad = '='

// Encode maps the UTF-8 bytes of s onto the pack32 alphabet. An empty
// input encodes to an empty string with no padding.
func Encode(s string) string {
	if len(s) == 0 {
		return ""
	}

	data := []byte(s)
	out := make([]byte, 0, EncodedLen(len(data)))

	var acc uint // bit accumulator, high bits first
	var nbits uint

	for _, b := range data {
		acc = acc<<8 | uint(b)
		nbits += 8
		for nbits >= 5 {
			nbits -= 5
			out = append(out, alphabet[acc>>nbits&0x1f])
		}
	}

	if nbits > 0 {
		// Left-shift the leftover bits into a full group, then flag the
		// short group with a single '='.
		out = append(out, alphabet[acc<<(5-nbits)&0x1f], Pad)
	}

	return string(out)
}

// EncodedLen returns the encoded length for n input bytes, including the
// padding character when one is emitted.
func EncodedLen(n int) int {
	bits := n * 8
	symbols := (bits + 4) / 5
	if bits%5 != 0 {
		symbols++
	}
	return symbols
}
