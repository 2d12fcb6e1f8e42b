package app

import (
	"log/slog"
	"os"

	"github.com/lhaden/authgate/internal/emailotp"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.emailotp.enabled") {
		if err := emailotp.New(emailotp.Dependency{
			DBConn:     a.dbConn,
			Guard:      a.guard,
			Mail:       a.mail,
			Messaging:  a.messaging,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			Clock:      a.clock,
			Generator:  a.generator,
			Codec:      a.codec,
			Verifier:   a.verifier,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module emailotp", "error", err)
			os.Exit(1)
		}
	}
}
