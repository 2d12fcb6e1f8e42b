package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/lhaden/authgate/internal/pkg/clock"
	"github.com/lhaden/authgate/internal/pkg/goroutine"
	"github.com/lhaden/authgate/internal/pkg/instrument"
	"github.com/lhaden/authgate/internal/pkg/otp"
	"github.com/lhaden/authgate/internal/pkg/replay"
	"github.com/lhaden/authgate/internal/pkg/uid"
	"github.com/lhaden/authgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

type EmailVerifiedEvent struct {
	ID         int64
	Email      string
	NewUser    bool
	VerifiedAt time.Time
}

type repoDB interface {
	IsEmailRegistered(ctx context.Context, email string) (bool, error)
}

type repoMail interface {
	SendOTP(ctx context.Context, email, code string, ttl time.Duration) error
}

type repoMessaging interface {
	PublishEmailVerified(ctx context.Context, msg EmailVerifiedEvent) error
}

type Usecase struct {
	repoDB        repoDB
	repoMail      repoMail
	repoMessaging repoMessaging
	guard         replay.Guard
	generator     otp.Generator
	codec         *otp.Codec
	verifier      *otp.Verifier
	validator     validator.Validator
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
	singleUse     bool

	issued           metric.Int64Counter
	deliveryFailures metric.Int64Counter
	verifications    metric.Int64Counter
}

type Dependency struct {
	RepoDB        repoDB
	RepoMail      repoMail
	RepoMessaging repoMessaging
	Guard         replay.Guard
	Generator     otp.Generator
	Codec         *otp.Codec
	Verifier      *otp.Verifier
	Validator     validator.Validator
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
	// SingleUse rejects a token once it has been redeemed.
	SingleUse bool
}

func New(dep Dependency) *Usecase {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	guard := dep.Guard
	if guard == nil {
		guard = replay.NewNoop()
	}

	meter := ins.Meter("emailotp.usecase")

	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMail:      dep.RepoMail,
		repoMessaging: dep.RepoMessaging,
		guard:         guard,
		generator:     dep.Generator,
		codec:         dep.Codec,
		verifier:      dep.Verifier,
		validator:     dep.Validator,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           ins,
		goroutine:     dep.Goroutine,
		singleUse:     dep.SingleUse,

		issued:           newCounter(meter, "emailotp.issued", "Number of OTP codes delivered"),
		deliveryFailures: newCounter(meter, "emailotp.delivery_failures", "Number of OTP emails that could not be sent"),
		verifications:    newCounter(meter, "emailotp.verifications", "Number of verification attempts by result"),
	}
}

func newCounter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Warn("failed to create counter, falling back to noop", "name", name, "error", err)
		return metricnoop.Int64Counter{}
	}

	return c
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("emailotp.usecase").Start(ctx, name)
}
