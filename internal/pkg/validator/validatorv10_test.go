package validator

import (
	"errors"
	"testing"
)

type sendRequest struct {
	Email string `json:"email" validate:"required,email,otpemail"`
}

type verifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"otp" validate:"required"`
	Token string `json:"token" validate:"required"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	tests := []struct {
		name       string
		data       any
		wantFields []string
	}{
		{name: "valid send", data: sendRequest{Email: "alice@example.com"}},
		{name: "missing email", data: sendRequest{}, wantFields: []string{"email"}},
		{name: "not an email", data: sendRequest{Email: "alice"}, wantFields: []string{"email"}},
		{name: "pipe in email", data: sendRequest{Email: "a|b@example.com"}, wantFields: []string{"email"}},
		{name: "valid verify", data: verifyRequest{Email: "alice@example.com", Code: "482913", Token: "abc="}},
		{name: "empty verify", data: verifyRequest{}, wantFields: []string{"email", "otp", "token"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			err := v.Validate(tt.data)

			// Assert
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verr V10ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want V10ValidationError", err)
			}
			for _, f := range tt.wantFields {
				if verr.Values()[f] == "" {
					t.Fatalf("missing message for field %q in %v", f, verr)
				}
			}
			if len(verr) != len(tt.wantFields) {
				t.Fatalf("got %d field errors, want %d: %v", len(verr), len(tt.wantFields), verr)
			}
		})
	}
}
