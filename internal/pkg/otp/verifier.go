package otp

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultTTL is how long a token stays valid after issue.
	DefaultTTL = 120 * time.Second

	// DefaultSkew is how far in the future an issue time may lie before the
	// token is treated as expired.
	DefaultSkew = 5 * time.Second
)

// Reason tells why a token was rejected.
type Reason int

const (
	// ReasonNone marks a valid token.
	ReasonNone Reason = iota
	// ReasonTokenMalformed is an undecodable token or a signed payload that
	// does not hold three well-formed fields.
	ReasonTokenMalformed
	// ReasonBadSignature is a tag that does not match the payload.
	ReasonBadSignature
	// ReasonMismatch is an email or code differing from the signed ones.
	ReasonMismatch
	// ReasonExpired is an issue time outside the ttl and skew window.
	ReasonExpired
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "valid"
	case ReasonTokenMalformed:
		return "token_malformed"
	case ReasonBadSignature:
		return "bad_signature"
	case ReasonMismatch:
		return "mismatch"
	case ReasonExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Result is the outcome of a verification. Email, IssuedAt and TokenID are
// only set when Valid is true. Email is lower-cased.
type Result struct {
	Valid    bool
	Reason   Reason
	Email    string
	IssuedAt int64
	TokenID  string
}

func invalid(r Reason) Result {
	return Result{Reason: r}
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) VerifierOption {
	return func(v *Verifier) {
		if ttl > 0 {
			v.ttl = int64(ttl / time.Second)
		}
	}
}

// WithSkew overrides DefaultSkew. A zero skew rejects any future issue time.
func WithSkew(skew time.Duration) VerifierOption {
	return func(v *Verifier) {
		if skew >= 0 {
			v.skew = int64(skew / time.Second)
		}
	}
}

// Verifier checks tokens produced by a Codec sharing the same key.
type Verifier struct {
	codec *Codec
	ttl   int64
	skew  int64
}

// NewVerifier returns a Verifier using DefaultTTL and DefaultSkew unless
// overridden by opts.
func NewVerifier(codec *Codec, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		codec: codec,
		ttl:   int64(DefaultTTL / time.Second),
		skew:  int64(DefaultSkew / time.Second),
	}
	for _, opt := range opts {
		opt(v)
	}

	return v
}

// TTL returns the configured time-to-live.
func (v *Verifier) TTL() time.Duration {
	return time.Duration(v.ttl) * time.Second
}

// Skew returns the configured clock-skew tolerance.
func (v *Verifier) Skew() time.Duration {
	return time.Duration(v.skew) * time.Second
}

// Verify checks token against the email and code the user submitted at now.
//
// The signature is checked before any payload field is parsed, so a forged
// token is always reported as ReasonBadSignature regardless of its content.
func (v *Verifier) Verify(token, email, code string, now time.Time) Result {
	payload, tag, err := v.codec.Decode(token)
	if err != nil {
		return invalid(ReasonTokenMalformed)
	}

	if !v.codec.equal(payload, tag) {
		return invalid(ReasonBadSignature)
	}

	if !utf8.Valid(payload) {
		return invalid(ReasonTokenMalformed)
	}

	fields := strings.Split(string(payload), fieldDelimiter)
	if len(fields) != 3 {
		return invalid(ReasonTokenMalformed)
	}

	issuedAt, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return invalid(ReasonTokenMalformed)
	}

	signedEmail := strings.ToLower(fields[0])
	if signedEmail != strings.ToLower(strings.TrimSpace(email)) ||
		fields[1] != strings.TrimSpace(code) {
		return invalid(ReasonMismatch)
	}

	elapsed := now.Unix() - issuedAt
	if elapsed > v.ttl || elapsed < -v.skew {
		return invalid(ReasonExpired)
	}

	return Result{
		Valid:    true,
		Reason:   ReasonNone,
		Email:    signedEmail,
		IssuedAt: issuedAt,
		TokenID:  hex.EncodeToString(tag),
	}
}
