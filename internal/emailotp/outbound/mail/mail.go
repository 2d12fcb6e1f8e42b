package mail

import (
	"bytes"
	"context"
	"errors"
	"net/textproto"
	"strconv"
	"text/template"
	"time"

	"github.com/lhaden/authgate/internal/pkg/instrument"
	"github.com/lhaden/authgate/internal/pkg/mail"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const subject = "Verify your email for Lhaden"

var bodyTemplate = template.Must(template.New("otp").Parse(`Hello,

To start your journey with Lhaden, we just need to make sure this email address is yours.

Your security code (valid for {{.Validity}}): {{.Code}}

If you didn't request this code, you can safely ignore this email. Someone else might have typed your email address by mistake.

Thanks & Regards,
The Lhaden Account Team
`))

// RetryConfig bounds delivery attempts. Delays follow a Fibonacci sequence
// starting at Base and never exceed Cap.
type RetryConfig struct {
	Base       time.Duration
	Cap        time.Duration
	MaxRetries uint64
}

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
	retry  RetryConfig
}

func New(client mail.Mail, ins instrument.Instrumentation, rc RetryConfig) *Mail {
	if rc.Base <= 0 {
		rc.Base = 200 * time.Millisecond
	}
	if rc.Cap <= 0 {
		rc.Cap = 2 * time.Second
	}

	return &Mail{client: client, ins: ins, retry: rc}
}

// SendOTP renders the verification email and hands it to the relay, retrying
// transient failures.
func (m *Mail) SendOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	ctx, span := m.ins.Tracer("emailotp.outbound.mail").Start(ctx, "SendOTP")
	defer span.End()

	body, err := renderBody(code, ttl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	msg := mail.Message{
		To:       []string{email},
		Subject:  subject,
		TextBody: body,
	}

	b := retry.NewFibonacci(m.retry.Base)
	b = retry.WithCappedDuration(m.retry.Cap, b)
	b = retry.WithMaxRetries(m.retry.MaxRetries, b)

	attempts := 0
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		attempts++
		if err := m.client.Send(ctx, msg); err != nil {
			if permanent(err) {
				return err
			}
			return retry.RetryableError(err)
		}
		return nil
	})
	span.SetAttributes(attribute.Int("mail.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func renderBody(code string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, map[string]string{
		"Code":     code,
		"Validity": validity(ttl),
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

func validity(ttl time.Duration) string {
	if ttl >= time.Minute && ttl%time.Minute == 0 {
		n := int(ttl / time.Minute)
		if n == 1 {
			return "1 minute"
		}
		return strconv.Itoa(n) + " minutes"
	}

	return strconv.Itoa(int(ttl/time.Second)) + " seconds"
}

// permanent reports failures that a retry cannot fix: a rejected message or a
// 5xx reply from the relay.
func permanent(err error) bool {
	if errors.Is(err, mail.ErrSMTPHeaderInjection) ||
		errors.Is(err, mail.ErrSMTPNoRecipients) ||
		errors.Is(err, mail.ErrSMTPNoSender) {
		return true
	}

	var perr *textproto.Error
	return errors.As(err, &perr) && perr.Code >= 500
}
