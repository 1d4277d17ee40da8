// Package word holds the 16-bit word helpers shared by the register file,
// the flag calculator and the value-entry parsers.
package word

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	SIZE_BYTE = uint(8)  // Byte field width.
	SIZE_WORD = uint(16) // Word field width.

	MAX = 0xffff // Largest value a register can hold.
)

// Mask returns the all-ones pattern for a field of size bits.
func Mask(size uint) int {
	return (1 << size) - 1
}

// SignBit returns the most significant bit of a field of size bits.
func SignBit(size uint) int {
	return 1 << (size - 1)
}

// Clamp saturates v into [0, MAX].
func Clamp(v int) int {
	return max(0, min(MAX, v))
}

// FormatHex renders the clamped value as upper case hex, zero padded to at
// least three digits, with an 'H' suffix.
func FormatHex(v int) string {
	return fmt.Sprintf("%03XH", Clamp(v))
}

// ParseHex parses 'H' suffixed hex text, as produced by FormatHex.
func ParseHex(text string) (v int, err error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	digits, ok := strings.CutSuffix(text, "H")
	if !ok || len(digits) == 0 {
		err = strconv.ErrSyntax
		return
	}

	u, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return
	}

	v = Clamp(int(u))
	return
}

// digit returns the value of a digit character, or 36 for a non-digit.
func digit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return 36
}

// ParseInt parses the longest leading run of base digits, after an
// optional sign, ignoring any trailing text. ok is clear when there are no
// digits. The result is clamped.
func ParseInt(text string, base int) (v int, ok bool) {
	text = strings.TrimSpace(text)

	negative := false
	if len(text) > 0 && (text[0] == '-' || text[0] == '+') {
		negative = text[0] == '-'
		text = text[1:]
	}

	end := 0
	for end < len(text) && digit(text[end]) < base {
		end++
	}
	if end == 0 {
		return
	}

	ok = true
	if negative {
		return
	}

	u, err := strconv.ParseUint(text[:end], base, 64)
	if err != nil {
		// Only a range error is possible on a digit run.
		v = MAX
		return
	}

	v = Clamp(int(min(u, MAX)))
	return
}

var reBareHex = regexp.MustCompile(`^[A-Fa-f][0-9A-Fa-f]*$`)

// ParseValue parses register entry text. 'H' suffixed text is hex, text
// starting with a hex letter is hex, anything else is decimal. Only the
// leading digits are used, and text with none yields 0. The result is
// always clamped.
func ParseValue(text string) (v int) {
	text = strings.TrimSpace(text)

	switch {
	case strings.HasSuffix(strings.ToUpper(text), "H"):
		v, _ = ParseInt(text[:len(text)-1], 16)
	case reBareHex.MatchString(text):
		v, _ = ParseInt(text, 16)
	default:
		v, _ = ParseInt(text, 10)
	}

	return
}
