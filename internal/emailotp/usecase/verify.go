package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lhaden/authgate/internal/emailotp/entity"
	"github.com/lhaden/authgate/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

type VerifyInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"otp" validate:"required"`
	Token string `json:"token" validate:"required"`
}

type VerifyOutput struct {
	Valid   bool
	NewUser bool
	Outcome entity.Outcome
	// Detail is empty for a valid token.
	Detail string
}

func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Code = strings.TrimSpace(in.Code)
	in.Token = strings.TrimSpace(in.Token)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	now := s.clock.Now()
	res := s.verifier.Verify(in.Token, in.Email, in.Code, now)
	if !res.Valid {
		return s.reject(ctx, in.Email, entity.OutcomeFromReason(res.Reason)), nil
	}

	registered, err := s.repoDB.IsEmailRegistered(ctx, in.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check email registration", "email", in.Email, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, goerror.NewServer(err)
	}

	// The claim is the last fallible step so a failed lookup leaves the token
	// redeemable.
	if s.singleUse {
		first, err := s.guard.Claim(ctx, res.TokenID, s.verifier.TTL()+s.verifier.Skew())
		if err != nil {
			slog.ErrorContext(ctx, "failed to claim otp token", "email", in.Email, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, goerror.NewServer(err)
		}
		if !first {
			return s.reject(ctx, in.Email, entity.OutcomeReplayed), nil
		}
	}

	s.countVerification(ctx, entity.OutcomeValid)
	slog.InfoContext(ctx, "OTP verified", "email", in.Email, "new_user", !registered)

	ev := EmailVerifiedEvent{
		ID:         s.uid.Generate(),
		Email:      in.Email,
		NewUser:    !registered,
		VerifiedAt: now,
	}
	if err := s.goroutine.Go(ctx, "emailotp.publish_email_verified", func(ctx context.Context) error {
		return s.repoMessaging.PublishEmailVerified(ctx, ev)
	}); err != nil {
		slog.WarnContext(ctx, "email verified event not published", "email", in.Email, "error", err)
	}

	return &VerifyOutput{Valid: true, NewUser: !registered, Outcome: entity.OutcomeValid}, nil
}

func (s *Usecase) reject(ctx context.Context, email string, o entity.Outcome) *VerifyOutput {
	s.countVerification(ctx, o)
	slog.WarnContext(ctx, "OTP rejected", "email", email, "reason", o.String())

	return &VerifyOutput{Outcome: o, Detail: o.Detail()}
}

func (s *Usecase) countVerification(ctx context.Context, o entity.Outcome) {
	s.verifications.Add(ctx, 1, metric.WithAttributes(attribute.String("result", o.String())))
}
