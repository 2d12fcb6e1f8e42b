package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/lhaden/authgate/internal/pkg/goerror"
	"github.com/lhaden/authgate/internal/pkg/otp"
	"go.opentelemetry.io/otel/codes"
)

type IssueInput struct {
	Email string `json:"email" validate:"required,email,otpemail"`
}

type IssueOutput struct {
	Token string
	TTL   time.Duration
}

// Issue generates a code, seals it into a token and mails the code to the
// address. The token is only returned once the email was handed to the relay.
func (s *Usecase) Issue(ctx context.Context, in IssueInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "Issue")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	code, err := s.generator.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "error", err)
		span.SetStatus(codes.Error, err.Error())
		return nil, goerror.NewServer(err)
	}

	token, err := s.codec.Encode(otp.Payload{
		Email:    in.Email,
		Code:     code,
		IssuedAt: s.clock.Now().Unix(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode otp token", "email", in.Email, "error", err)
		span.SetStatus(codes.Error, err.Error())
		return nil, goerror.NewServer(err)
	}

	ttl := s.verifier.TTL()
	if err := s.repoMail.SendOTP(ctx, in.Email, code, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "email", in.Email, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.deliveryFailures.Add(ctx, 1)
		return nil, goerror.NewUpstream(err, "Email send failed")
	}

	s.issued.Add(ctx, 1)
	slog.InfoContext(ctx, "OTP sent", "email", in.Email)

	return &IssueOutput{Token: token, TTL: ttl}, nil
}
