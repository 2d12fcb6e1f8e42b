package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
)

// MinKeySize is the smallest accepted HMAC key length in bytes.
const MinKeySize = sha256.Size

// ErrKeyTooShort is returned when the signing key is shorter than MinKeySize.
var ErrKeyTooShort = errors.New("hash: hmac key must be at least 32 bytes")

// Signer produces and checks authentication tags over raw bytes.
type Signer interface {
	// Sign returns the tag of data.
	Sign(data []byte) []byte
	// Equal reports whether tag is the tag of data, in constant time.
	Equal(data, tag []byte) bool
	// Size is the length of the tags returned by Sign.
	Size() int
}

// HMACSHA256 implements Signer using HMAC-SHA256.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 creates a signer keyed by a copy of secret.
func NewHMACSHA256(secret []byte) (*HMACSHA256, error) {
	if len(secret) < MinKeySize {
		return nil, ErrKeyTooShort
	}

	return &HMACSHA256{secret: append([]byte(nil), secret...)}, nil
}

// Sign returns the raw 32-byte HMAC-SHA256 digest of data.
func (s *HMACSHA256) Sign(data []byte) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write(data)
	return h.Sum(nil)
}

// Equal recomputes the digest of data and compares it with tag in constant time.
func (s *HMACSHA256) Equal(data, tag []byte) bool {
	return subtle.ConstantTimeCompare(s.Sign(data), tag) == 1
}

// Size returns sha256.Size.
func (*HMACSHA256) Size() int {
	return sha256.Size
}
