package encoding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeEmpty(t *testing.T) {
	assert.Equal(t, "", Encode(""))
}

func TestEncodeKnownValues(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		// 0x66 = 01100|110 -> 12 ('M'), then 110 zero-filled to 11000 = 24 ('Y')
		{"f", "MY="},
		// 5 bytes = 40 bits, a multiple of 5: no padding
		{"fffff", "MZTGMZTG"},
		{"A", "IE="},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Encode(tt.in), "Encode(%q)", tt.in)
	}
}

func TestEncodeLengthProperty(t *testing.T) {
	inputs := []string{"a", "ab", "abc", "abcd", "abcde", "hello world", "⚽ goal", strings.Repeat("x", 100)}
	for _, in := range inputs {
		got := Encode(in)
		bits := len([]byte(in)) * 8
		want := (bits + 4) / 5
		if bits%5 != 0 {
			want++
		}
		assert.Len(t, got, want, "Encode(%q)", in)
		assert.Equal(t, EncodedLen(len(in)), len(got))
	}
}

func TestEncodePaddingRule(t *testing.T) {
	// Exactly one '=' whenever the bit count is not a multiple of 5,
	// always at the end.
	for _, in := range []string{"f", "fo", "foo", "foob", "fooba", "foobar"} {
		got := Encode(in)
		pad := strings.Count(got, "=")
		if len(in)*8%5 == 0 {
			assert.Zero(t, pad, "Encode(%q)", in)
		} else {
			assert.Equal(t, 1, pad, "Encode(%q)", in)
			assert.True(t, strings.HasSuffix(got, "="))
		}
	}
}

func TestEncodeAlphabetOnly(t *testing.T) {
	got := Encode("the quick brown fox jumps over the lazy dog")
	for _, c := range got {
		if c == Pad {
			continue
		}
		assert.Contains(t, alphabet, string(c))
	}
}
