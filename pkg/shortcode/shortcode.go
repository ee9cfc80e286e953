// Package shortcode generates random codes for short links.
package shortcode

import (
	"crypto/rand"
	"fmt"
)

// Alphabet is the set of symbols a code is drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of symbols in a generated code.
const Length = 4

// largest multiple of len(Alphabet) that fits in a byte
const maxByte = 256 - 256%len(Alphabet)

// New returns a code of Length symbols drawn uniformly from Alphabet.
func New() (string, error) {
	return NewN(Length)
}

// NewN returns a code of n symbols drawn uniformly from Alphabet.
func NewN(n int) (string, error) {
	code := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(code) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}
			code = append(code, Alphabet[int(b)%len(Alphabet)])
			if len(code) == n {
				break
			}
		}
	}
	return string(code), nil
}
