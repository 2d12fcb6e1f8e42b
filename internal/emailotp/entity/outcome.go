package entity

import "github.com/lhaden/authgate/internal/pkg/otp"

// Outcome is the result of a verification as seen by the application. It
// extends otp.Reason with states only the service layer knows about.
type Outcome string

const (
	OutcomeValid          Outcome = "valid"
	OutcomeTokenMalformed Outcome = "token_malformed"
	OutcomeBadSignature   Outcome = "bad_signature"
	OutcomeMismatch       Outcome = "mismatch"
	OutcomeExpired        Outcome = "expired"
	OutcomeReplayed       Outcome = "replayed"
	OutcomeUnknown        Outcome = "unknown"
)

// OutcomeFromReason maps a core verifier reason to an outcome.
func OutcomeFromReason(r otp.Reason) Outcome {
	switch r {
	case otp.ReasonNone:
		return OutcomeValid
	case otp.ReasonTokenMalformed:
		return OutcomeTokenMalformed
	case otp.ReasonBadSignature:
		return OutcomeBadSignature
	case otp.ReasonMismatch:
		return OutcomeMismatch
	case otp.ReasonExpired:
		return OutcomeExpired
	default:
		return OutcomeUnknown
	}
}

func (o Outcome) String() string {
	return string(o)
}

// Detail is the client-facing explanation. Malformed and forged tokens share
// one message so callers cannot tell which check rejected them.
func (o Outcome) Detail() string {
	switch o {
	case OutcomeValid:
		return ""
	case OutcomeMismatch:
		return "OTP / e-mail mismatch"
	case OutcomeExpired:
		return "OTP expired"
	case OutcomeReplayed:
		return "Token already used"
	default:
		return "Token invalid"
	}
}
