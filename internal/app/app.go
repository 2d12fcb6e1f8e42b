package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lhaden/authgate/internal/pkg/clock"
	"github.com/lhaden/authgate/internal/pkg/config"
	"github.com/lhaden/authgate/internal/pkg/goroutine"
	"github.com/lhaden/authgate/internal/pkg/instrument"
	"github.com/lhaden/authgate/internal/pkg/mail"
	"github.com/lhaden/authgate/internal/pkg/messaging"
	"github.com/lhaden/authgate/internal/pkg/otp"
	"github.com/lhaden/authgate/internal/pkg/replay"
	"github.com/lhaden/authgate/internal/pkg/router"
	"github.com/lhaden/authgate/internal/pkg/uid"
	"github.com/lhaden/authgate/internal/pkg/validator"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uid       uid.NumberID
	uuid      uid.StringID
	generator otp.Generator
	codec     *otp.Codec
	verifier  *otp.Verifier

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	guard     replay.Guard
	mail      mail.Mail
	messaging messaging.Publisher

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initOTP()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
