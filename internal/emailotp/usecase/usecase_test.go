package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lhaden/authgate/internal/pkg/clock"
	"github.com/lhaden/authgate/internal/pkg/goerror"
	"github.com/lhaden/authgate/internal/pkg/goroutine"
	"github.com/lhaden/authgate/internal/pkg/hash"
	"github.com/lhaden/authgate/internal/pkg/otp"
	"github.com/lhaden/authgate/internal/pkg/validator"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeDB struct {
	registered bool
	err        error
	calls      int
}

func (f *fakeDB) IsEmailRegistered(context.Context, string) (bool, error) {
	f.calls++
	return f.registered, f.err
}

type sentOTP struct {
	email string
	code  string
	ttl   time.Duration
}

type fakeMail struct {
	err  error
	sent []sentOTP
}

func (f *fakeMail) SendOTP(_ context.Context, email, code string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentOTP{email: email, code: code, ttl: ttl})
	return nil
}

type fakeMessaging struct {
	mu     sync.Mutex
	err    error
	events []EmailVerifiedEvent
}

func (f *fakeMessaging) PublishEmailVerified(_ context.Context, ev EmailVerifiedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

type fixedGenerator struct {
	code string
	err  error
}

func (g fixedGenerator) Generate() (string, error) {
	return g.code, g.err
}

type memoryGuard struct {
	mu   sync.Mutex
	seen map[string]time.Duration
	err  error
}

func (g *memoryGuard) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen == nil {
		g.seen = map[string]time.Duration{}
	}
	if _, ok := g.seen[key]; ok {
		return false, nil
	}
	g.seen[key] = ttl
	return true, nil
}

type fixedID int64

func (f fixedID) Generate() int64 { return int64(f) }

type harness struct {
	uc    *Usecase
	db    *fakeDB
	mail  *fakeMail
	mq    *fakeMessaging
	guard *memoryGuard
	clock *clock.Fixed
	gm    *goroutine.Manager
	codec *otp.Codec
}

func newHarness(t *testing.T, singleUse bool) *harness {
	t.Helper()

	signer, err := hash.NewHMACSHA256(testSecret)
	if err != nil {
		t.Fatalf("NewHMACSHA256() error = %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	h := &harness{
		db:    &fakeDB{},
		mail:  &fakeMail{},
		mq:    &fakeMessaging{},
		guard: &memoryGuard{},
		clock: clock.NewFixedUnix(1000),
		gm:    goroutine.NewManager(4),
		codec: otp.NewCodec(signer),
	}
	h.uc = New(Dependency{
		RepoDB:        h.db,
		RepoMail:      h.mail,
		RepoMessaging: h.mq,
		Guard:         h.guard,
		Generator:     fixedGenerator{code: "042817"},
		Codec:         h.codec,
		Verifier:      otp.NewVerifier(h.codec),
		Validator:     v,
		UID:           fixedID(42),
		Clock:         h.clock,
		Goroutine:     h.gm,
		SingleUse:     singleUse,
	})

	return h
}

func (h *harness) issue(t *testing.T, email string) string {
	t.Helper()

	out, err := h.uc.Issue(context.Background(), IssueInput{Email: email})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return out.Token
}

func errCode(t *testing.T, err error) goerror.Code {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error %v is not a *goerror.Error", err)
	}
	return gerr.Code()
}
