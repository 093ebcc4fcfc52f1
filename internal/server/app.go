// Package server initializes and runs the parking service: it opens the
// store, wires services and the HTTP API, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/logging"
	"github.com/dmitrijs2005/parking/internal/server/auth"
	"github.com/dmitrijs2005/parking/internal/server/config"
	"github.com/dmitrijs2005/parking/internal/server/httpapi"
	"github.com/dmitrijs2005/parking/internal/server/mail"
	"github.com/dmitrijs2005/parking/internal/server/models"
	"github.com/dmitrijs2005/parking/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/parking/internal/server/services"
)

// ephemeralSecretBytes sizes the signing secret generated when none is
// configured.
const ephemeralSecretBytes = 32

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	repos    repomanager.RepositoryManager
	identity *services.IdentityService
	users    *services.UserService
	guards   *services.GuardService
	admins   *services.AdminService
	spaces   *services.SpaceService
	codec    *auth.TokenCodec
}

// NewApp connects to the database and wires every service.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(c, logger, db, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, repos repomanager.RepositoryManager) (*App, error) {
	secret := c.SecretKey
	if secret == "" {
		s, err := common.MakeRandHexString(ephemeralSecretBytes)
		if err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
		secret = s
	}

	var dispatcher mail.Dispatcher
	if c.SMTPHost != "" {
		dispatcher = mail.NewSMTPDispatcher(mail.SMTPConfig{
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
			Username: c.SMTPUser,
			Password: c.SMTPPassword,
			From:     c.MailFrom,
		})
	} else {
		dispatcher = mail.NewLogDispatcher(logger)
	}

	codec := auth.NewTokenCodec([]byte(secret), c.SessionTokenValidity)
	deps := services.Deps{
		DB:       db,
		Repos:    repos,
		Hasher:   auth.NewBcryptHasher(auth.DefaultBcryptCost),
		Sessions: codec,
		Tokens:   auth.NewSingleUseTokens(c.SingleUseTokenValidity),
		Mailer:   dispatcher,
		Composer: mail.NewComposer(c.PublicBaseURL),
		Logger:   logger.With("module", "services"),
	}

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		repos:    repos,
		identity: services.NewIdentityService(deps),
		users:    services.NewUserService(deps),
		guards:   services.NewGuardService(deps),
		admins:   services.NewAdminService(deps),
		spaces:   services.NewSpaceService(deps),
		codec:    codec,
	}, nil
}

// Migrate applies pending schema migrations.
func (app *App) Migrate(ctx context.Context) error {
	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	app.logger.Info(ctx, "migrations applied")
	return nil
}

// Prepare applies migrations when migrate-on-start is set.
func (app *App) Prepare(ctx context.Context) error {
	if !app.config.MigrateOnStart {
		return nil
	}
	return app.Migrate(ctx)
}

// CreateAdministrator registers an administrator outside the HTTP API. It
// is how the first administrator is created.
func (app *App) CreateAdministrator(ctx context.Context, in services.RegisterAdminInput) (*models.AdministratorProfile, error) {
	return app.admins.Register(ctx, in)
}

// Handler builds the HTTP API.
func (app *App) Handler() (http.Handler, error) {
	metrics := httpapi.NewMetrics()
	return httpapi.NewRouter(httpapi.Options{
		Users:          app.users,
		Guards:         app.guards,
		Admins:         app.admins,
		Spaces:         app.spaces,
		Gate:           httpapi.NewGate(app.codec, app.identity, metrics, app.logger),
		Metrics:        metrics,
		DB:             app.db,
		AllowedOrigins: app.config.CORSAllowedOrigins,
		Logger:         app.logger,
	})
}

// Close releases the database pool.
func (app *App) Close() error {
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the HTTP API until ctx is cancelled or a termination signal
// arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if app.config.SecretKey == "" {
		app.logger.Warn(ctx, "no secret-key configured, using an ephemeral one; sessions will not survive a restart")
	}
	if app.config.SMTPHost == "" {
		app.logger.Warn(ctx, "no smtp-host configured, outgoing mail is only logged")
	}

	if err := app.Prepare(ctx); err != nil {
		return err
	}

	n, err := app.admins.CountAdministrators(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		app.logger.Warn(ctx, "no administrator exists yet; create one with `parking admin create`")
	}

	h, err := app.Handler()
	if err != nil {
		return err
	}

	return httpapi.NewServer(app.config.HTTPAddr, h, app.logger).Run(ctx)
}
