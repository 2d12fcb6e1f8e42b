package otp

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"

	"github.com/lhaden/authgate/internal/pkg/hash"
)

const (
	fieldDelimiter = "|"
	tagSeparator   = '.'
)

// tokenEncoding rejects non-zero trailing bits so that every altered character
// changes the decoded bytes.
var tokenEncoding = base64.URLEncoding.Strict()

var (
	// ErrTokenMalformed is returned for any token that cannot be split into a
	// payload and a tag. The cause is deliberately not reported.
	ErrTokenMalformed = errors.New("otp: token malformed")

	// ErrInvalidPayload is returned when a payload field contains the field
	// delimiter and would therefore not parse back unambiguously.
	ErrInvalidPayload = errors.New("otp: payload field contains delimiter")
)

// Payload is the signed content of a token.
type Payload struct {
	Email    string
	Code     string
	IssuedAt int64
}

// Bytes serializes the payload as "email|code|issued_at".
func (p Payload) Bytes() []byte {
	var b bytes.Buffer
	b.WriteString(p.Email)
	b.WriteString(fieldDelimiter)
	b.WriteString(p.Code)
	b.WriteString(fieldDelimiter)
	b.WriteString(strconv.FormatInt(p.IssuedAt, 10))
	return b.Bytes()
}

// Codec packs payloads into signed tokens and splits tokens apart again.
type Codec struct {
	signer hash.Signer
}

// NewCodec returns a codec that signs with signer.
func NewCodec(signer hash.Signer) *Codec {
	return &Codec{signer: signer}
}

// Encode signs p and returns the URL-safe base64 token.
func (c *Codec) Encode(p Payload) (string, error) {
	if strings.Contains(p.Email, fieldDelimiter) || strings.Contains(p.Code, fieldDelimiter) {
		return "", ErrInvalidPayload
	}

	payload := p.Bytes()
	tag := c.signer.Sign(payload)

	raw := make([]byte, 0, len(payload)+1+len(tag))
	raw = append(raw, payload...)
	raw = append(raw, tagSeparator)
	raw = append(raw, tag...)

	return tokenEncoding.EncodeToString(raw), nil
}

// Decode base64url-decodes token and returns its payload and tag.
//
// The tag has a fixed size, so the separator is expected right before the
// last Size() bytes. The tag itself is binary and may contain '.' bytes.
func (c *Codec) Decode(token string) (payload, tag []byte, err error) {
	raw, err := tokenEncoding.DecodeString(token)
	if err != nil {
		return nil, nil, ErrTokenMalformed
	}

	size := c.signer.Size()
	sep := len(raw) - size - 1
	if sep < 0 || raw[sep] != tagSeparator {
		return nil, nil, ErrTokenMalformed
	}

	return raw[:sep], raw[sep+1:], nil
}

// equal reports whether tag authenticates payload.
func (c *Codec) equal(payload, tag []byte) bool {
	return c.signer.Equal(payload, tag)
}
