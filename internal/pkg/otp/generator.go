package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Digits is the number of decimal digits in a generated code.
const Digits = 6

var codeSpace = big.NewInt(1_000_000)

// Generator produces one-time passcodes.
type Generator interface {
	Generate() (string, error)
}

// RandomGenerator draws codes uniformly from [0, 1_000_000) using a
// cryptographically secure source.
type RandomGenerator struct {
	reader io.Reader
}

// NewGenerator returns a generator backed by crypto/rand.
func NewGenerator() *RandomGenerator {
	return &RandomGenerator{reader: rand.Reader}
}

// Generate returns a zero-padded 6-digit code.
//
// An error from the random source is returned as is; callers must fail the
// request rather than retry with a weaker source.
func (g *RandomGenerator) Generate() (string, error) {
	n, err := rand.Int(g.reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("otp: read random source: %w", err)
	}

	return fmt.Sprintf("%0*d", Digits, n.Int64()), nil
}
