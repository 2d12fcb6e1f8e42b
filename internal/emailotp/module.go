package emailotp

import (
	"github.com/lhaden/authgate/internal/emailotp/inbound"
	"github.com/lhaden/authgate/internal/emailotp/outbound/db"
	"github.com/lhaden/authgate/internal/emailotp/outbound/mail"
	"github.com/lhaden/authgate/internal/emailotp/outbound/mq"
	"github.com/lhaden/authgate/internal/emailotp/usecase"
	"github.com/lhaden/authgate/internal/pkg/clock"
	"github.com/lhaden/authgate/internal/pkg/config"
	"github.com/lhaden/authgate/internal/pkg/goroutine"
	"github.com/lhaden/authgate/internal/pkg/instrument"
	pkgmail "github.com/lhaden/authgate/internal/pkg/mail"
	"github.com/lhaden/authgate/internal/pkg/messaging"
	"github.com/lhaden/authgate/internal/pkg/otp"
	"github.com/lhaden/authgate/internal/pkg/replay"
	"github.com/lhaden/authgate/internal/pkg/router"
	"github.com/lhaden/authgate/internal/pkg/uid"
	"github.com/lhaden/authgate/internal/pkg/validator"
)

type Dependency struct {
	DBConn     db.Querier                 `validate:"required"`
	Guard      replay.Guard               `validate:"required"`
	Mail       pkgmail.Mail               `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Generator  otp.Generator              `validate:"required"`
	Codec      *otp.Codec                 `validate:"required"`
	Verifier   *otp.Verifier              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	cfg := dep.Config

	repoDB := db.NewDB(dep.DBConn, dep.Instrument,
		cfg.GetString("database.user_table"),
		cfg.GetString("database.email_column"),
	)
	repoMail := mail.New(dep.Mail, dep.Instrument, mail.RetryConfig{
		Base:       cfg.GetMillisecond("mail.retry.base_ms"),
		Cap:        cfg.GetMillisecond("mail.retry.cap_ms"),
		MaxRetries: uint64(max(cfg.GetInt("mail.retry.max_retries"), 0)),
	})
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument, cfg.GetString("modules.emailotp.topic"))

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMail:      repoMail,
		RepoMessaging: repoMsg,
		Guard:         dep.Guard,
		Generator:     dep.Generator,
		Codec:         dep.Codec,
		Verifier:      dep.Verifier,
		Validator:     dep.Validator,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
		SingleUse:     cfg.GetBool("modules.emailotp.single_use"),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}

