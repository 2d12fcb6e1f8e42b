package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lhaden/authgate/internal/emailotp/entity"
	"github.com/lhaden/authgate/internal/emailotp/usecase"
	"github.com/lhaden/authgate/internal/pkg/goerror"
	"github.com/lhaden/authgate/internal/pkg/router"
	"github.com/lhaden/authgate/internal/pkg/uid"
	"github.com/lhaden/authgate/internal/pkg/validator"
)

type fakeUsecase struct {
	issueOut  *usecase.IssueOutput
	issueErr  error
	verifyOut *usecase.VerifyOutput
	verifyErr error

	gotIssue  usecase.IssueInput
	gotVerify usecase.VerifyInput
}

func (f *fakeUsecase) Issue(_ context.Context, in usecase.IssueInput) (*usecase.IssueOutput, error) {
	f.gotIssue = in
	return f.issueOut, f.issueErr
}

func (f *fakeUsecase) Verify(_ context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error) {
	f.gotVerify = in
	return f.verifyOut, f.verifyErr
}

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func serve(t *testing.T, uc *fakeUsecase, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	r := router.NewRouter(router.Config{UUID: uid.NewUUID()})
	RegisterHTTPEndpoint(r, uc)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not json: %v (%s)", err, rec.Body.String())
	}
	return rec, env
}

func TestHTTPEndpoint_Send(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		uc         *fakeUsecase
		wantStatus int
		wantMsg    string
		wantData   string
		wantField  string
	}{
		{
			name:       "issued",
			body:       `{"email":"alice@example.com"}`,
			uc:         &fakeUsecase{issueOut: &usecase.IssueOutput{Token: "tok", TTL: 120 * time.Second}},
			wantStatus: http.StatusOK,
			wantMsg:    "OTP sent",
			wantData:   `{"token":"tok","ttl":120}`,
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			uc:         &fakeUsecase{},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request body",
		},
		{
			name:       "unknown field",
			body:       `{"email":"alice@example.com","admin":true}`,
			uc:         &fakeUsecase{},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request body",
		},
		{
			name:       "validation error",
			body:       `{"email":"nope"}`,
			uc:         &fakeUsecase{issueErr: goerror.NewInvalidInput(validator.V10ValidationError{"email": "email must be a valid email address"})},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Validation error",
			wantField:  "email",
		},
		{
			name:       "delivery failure",
			body:       `{"email":"alice@example.com"}`,
			uc:         &fakeUsecase{issueErr: goerror.NewUpstream(errors.New("relay down"), "Email send failed")},
			wantStatus: http.StatusBadGateway,
			wantMsg:    "Email send failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rec, env := serve(t, tt.uc, "/api/v1/emailotp/send", tt.body)

			// Assert
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if env.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", env.Message, tt.wantMsg)
			}
			if tt.wantData != "" && string(env.Data) != tt.wantData {
				t.Errorf("data = %s, want %s", env.Data, tt.wantData)
			}
			if tt.wantField != "" {
				if _, ok := env.Error[tt.wantField]; !ok {
					t.Errorf("error fields = %v, want key %q", env.Error, tt.wantField)
				}
			}
		})
	}
}

func TestHTTPEndpoint_Verify(t *testing.T) {
	tests := []struct {
		name       string
		out        *usecase.VerifyOutput
		wantStatus int
		wantData   string
	}{
		{
			name:       "valid new user",
			out:        &usecase.VerifyOutput{Valid: true, NewUser: true, Outcome: entity.OutcomeValid},
			wantStatus: http.StatusOK,
			wantData:   `{"valid":true,"new_user":true}`,
		},
		{
			name:       "valid known user",
			out:        &usecase.VerifyOutput{Valid: true, Outcome: entity.OutcomeValid},
			wantStatus: http.StatusOK,
			wantData:   `{"valid":true,"new_user":false}`,
		},
		{
			name:       "forged token",
			out:        &usecase.VerifyOutput{Outcome: entity.OutcomeBadSignature, Detail: entity.OutcomeBadSignature.Detail()},
			wantStatus: http.StatusUnauthorized,
			wantData:   `{"valid":false,"detail":"Token invalid"}`,
		},
		{
			name:       "expired",
			out:        &usecase.VerifyOutput{Outcome: entity.OutcomeExpired, Detail: entity.OutcomeExpired.Detail()},
			wantStatus: http.StatusUnauthorized,
			wantData:   `{"valid":false,"detail":"OTP expired"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			uc := &fakeUsecase{verifyOut: tt.out}

			// Act
			rec, env := serve(t, uc, "/api/v1/emailotp/verify", `{"email":"alice@example.com","otp":"482913","token":"tok"}`)

			// Assert
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if string(env.Data) != tt.wantData {
				t.Errorf("data = %s, want %s", env.Data, tt.wantData)
			}
			want := usecase.VerifyInput{Email: "alice@example.com", Code: "482913", Token: "tok"}
			if uc.gotVerify != want {
				t.Errorf("usecase input = %+v, want %+v", uc.gotVerify, want)
			}
		})
	}
}

func TestHTTPEndpoint_Verify_ServerError(t *testing.T) {
	// Arrange
	uc := &fakeUsecase{verifyErr: goerror.NewServer(errors.New("db down"))}

	// Act
	rec, env := serve(t, uc, "/api/v1/emailotp/verify", `{"email":"alice@example.com","otp":"482913","token":"tok"}`)

	// Assert
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if env.Message != "Internal server error" {
		t.Errorf("message = %q", env.Message)
	}
}
