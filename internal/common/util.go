package common

import (
	"crypto/rand"
	"strings"
)

// WipeByteArray zeroes b in place. Passwords and credentials read from the
// terminal are wiped as soon as they have been sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GenerateRandByteArray returns n bytes from crypto/rand.
// It panics if the system random source fails.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// GenerateDigits returns a string of n random decimal digits.
func GenerateDigits(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for _, v := range GenerateRandByteArray(n) {
		sb.WriteByte('0' + v%10)
	}
	return sb.String()
}

// OnlyDigits drops every rune that is not an ASCII digit and truncates the
// result to at most limit characters.
func OnlyDigits(s string, limit int) string {
	var sb strings.Builder
	for _, r := range s {
		if sb.Len() >= limit {
			break
		}
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
