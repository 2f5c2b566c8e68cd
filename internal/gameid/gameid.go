// Package gameid generates short room codes that players read aloud and type.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Crockford's base32: no I, L, O or U, so codes survive being read aloud
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Length of a room code
const Length = 6

// RandSource interface for dependency injection of randomness
type RandSource interface {
	Intn(n int) int
}

// Generator handles room code generation with configurable randomness
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a new generator with optional RandSource
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a new room code using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new room code using the generator's RandSource
func (g *Generator) Generate() string {
	var buf [Length]byte
	if g.randSource != nil {
		for i := range buf {
			buf[i] = byte(g.randSource.Intn(len(alphabet)))
		}
	} else {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("failed to generate random bytes: " + err.Error())
		}
	}

	// 256 is a multiple of 32 so masking stays uniform
	for i, b := range buf {
		buf[i] = alphabet[b&0x1f]
	}
	return string(buf[:])
}

// Normalize upper-cases a code typed by a player and maps the characters
// Crockford treats as aliases (I and L to 1, O to 0).
func Normalize(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.NewReplacer("I", "1", "L", "1", "O", "0").Replace(code)
}

// Validate checks that a normalized code has the right length and alphabet
func Validate(code string) error {
	if len(code) != Length {
		return fmt.Errorf("room code must be exactly %d characters, got %d", Length, len(code))
	}
	for i, char := range code {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
