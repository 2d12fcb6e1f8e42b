package event

const EmailVerifiedDestination string = "emailotp_email_verified"

// EmailVerifiedMessage is published once an address proves ownership of an
// issued code.
type EmailVerifiedMessage struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	NewUser       bool   `json:"new_user"`
	VerifiedAt    int64  `json:"verified_at"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
