package inbound

import "net/http"

type SendRequest struct {
	Email string `json:"email"`
}

type SendResponse struct {
	Token string `json:"token"`
	// TTL is the token lifetime in seconds.
	TTL int64 `json:"ttl"`
}

func (SendResponse) Message() string {
	return "OTP sent"
}

type VerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Token string `json:"token"`
}

type VerifyResponse struct {
	Valid   bool   `json:"valid"`
	NewUser *bool  `json:"new_user,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func (r VerifyResponse) StatusCode() int {
	if !r.Valid {
		return http.StatusUnauthorized
	}
	return http.StatusOK
}

func (r VerifyResponse) Message() string {
	if !r.Valid {
		return "OTP verification failed"
	}
	return "OTP verified"
}
