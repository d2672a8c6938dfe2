package siren

import (
	"errors"
	"strings"
)

// Length is the number of digits in a SIREN registration code.
const Length = 9

// ErrBadPrefix is returned by CheckDigit when the prefix is not 8 digits.
var ErrBadPrefix = errors.New("siren: prefix must be 8 digits")

// Normalize keeps only the ASCII decimal digits of s, in their original order.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Validate reports whether candidate normalizes to a 9-digit code that passes
// the SIREN checksum. Digits at odd positions (0-indexed) are doubled, minus 9
// when the result exceeds 9; the code is valid when the sum is a multiple of 10.
// Malformed input yields false.
func Validate(candidate string) bool {
	code := Normalize(candidate)
	if len(code) != Length || !allDigits(code) {
		return false
	}
	return checksum(code)%10 == 0
}

// CheckDigit returns the ninth digit that makes prefix a valid code.
func CheckDigit(prefix string) (byte, error) {
	if len(prefix) != Length-1 || !allDigits(prefix) {
		return 0, ErrBadPrefix
	}
	// Position 8 is even and therefore never doubled.
	sum := checksum(prefix)
	return byte('0' + (10-sum%10)%10), nil
}

// Format renders a 9-digit code as three space-separated groups, the way it
// is printed in legal notices. Other inputs are returned unchanged.
func Format(code string) string {
	if len(code) != Length || !allDigits(code) {
		return code
	}
	return code[0:3] + " " + code[3:6] + " " + code[6:9]
}

func checksum(digits string) int {
	total := 0
	for i := 0; i < len(digits); i++ {
		n := int(digits[i] - '0')
		if i%2 == 1 {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		total += n
	}
	return total
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
