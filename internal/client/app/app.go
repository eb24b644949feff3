// Package app wires the vid2blog client together from its configuration
// and starts the chosen front end.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/client/cli"
	"github.com/dmitrijs2005/vid2blog/internal/client/config"
	"github.com/dmitrijs2005/vid2blog/internal/client/router"
	"github.com/dmitrijs2005/vid2blog/internal/client/services"
	"github.com/dmitrijs2005/vid2blog/internal/client/session"
	"github.com/dmitrijs2005/vid2blog/internal/client/storage"
	"github.com/dmitrijs2005/vid2blog/internal/client/tui"
	"github.com/dmitrijs2005/vid2blog/internal/filex"
	"github.com/dmitrijs2005/vid2blog/internal/logging"
)

// UserAgent is sent with every backend request.
var UserAgent = "vid2blog-cli/dev"

type App struct {
	config    *config.Config
	db        *sql.DB
	logger    logging.Logger
	logCloser io.Closer
	router    *router.Router
	services  *services.Set
}

// NewApp opens the session database, restores any stored session and
// builds the backend client and services. Close releases what it opened.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if c.UIMode != config.UIModeTUI && c.UIMode != config.UIModeREPL {
		return nil, fmt.Errorf("unknown ui mode %q", c.UIMode)
	}

	logger, logCloser, err := newLogger(c)
	if err != nil {
		return nil, err
	}

	dbPath, err := filex.EnsureParentDir(c.DatabasePath)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	db, err := storage.InitDatabase(ctx, dbPath)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := session.NewStore(db)
	if err := store.Load(ctx); err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, fmt.Errorf("load session: %w", err)
	}
	r := router.New(store)

	client, err := api.New(api.Options{
		BaseURL:       c.APIURL,
		Timeout:       c.RequestTimeout,
		UploadTimeout: c.UploadTimeout,
		Insecure:      c.Insecure,
		UserAgent:     UserAgent,
		Logger:        logger.With("component", "api"),
		Token:         store.Token,
	})
	if err != nil {
		_ = db.Close()
		_ = logCloser.Close()
		return nil, err
	}

	logger.Info(ctx, "client started", "api", c.APIURL, "ui", c.UIMode, "signed_in", store.Token() != "")

	return &App{
		config:    c,
		db:        db,
		logger:    logger,
		logCloser: logCloser,
		router:    r,
		services:  services.New(client, r, c.ProgressInterval, logger),
	}, nil
}

// newLogger keeps log output off the terminal in full-screen mode unless a
// log file is configured.
func newLogger(c *config.Config) (logging.Logger, io.Closer, error) {
	var fallback io.Writer = os.Stderr
	if c.UIMode == config.UIModeTUI {
		fallback = io.Discard
	}

	file := c.LogFile
	if file != "" {
		abs, err := filex.EnsureParentDir(file)
		if err != nil {
			return nil, nil, err
		}
		file = abs
	}
	return logging.New(logging.Options{Level: c.LogLevel, Format: c.LogFormat, File: file}, fallback)
}

func (a *App) Router() *router.Router { return a.router }

// Run starts the configured front end and blocks until it exits.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	now := time.Now
	if a.config.UIMode == config.UIModeREPL {
		return cli.NewApp(cli.Deps{
			Router:   a.router,
			Services: a.services,
			Options: cli.Options{
				OTPCooldown:         a.config.OTPCooldown,
				SignupRedirectDelay: a.config.SignupRedirectDelay,
				NoticeTTL:           a.config.NoticeTTL,
			},
			Logger: a.logger.With("ui", "repl"),
			Now:    now,
		}, in, out).Run(ctx)
	}

	return tui.Run(ctx, tui.Deps{
		Router:   a.router,
		Services: a.services,
		Options: tui.Options{
			OTPCooldown:         a.config.OTPCooldown,
			SignupRedirectDelay: a.config.SignupRedirectDelay,
			NoticeTTL:           a.config.NoticeTTL,
		},
		Logger: a.logger.With("ui", "tui"),
		Now:    now,
	}, in, out)
}

func (a *App) Close() error {
	err := a.db.Close()
	if cerr := a.logCloser.Close(); err == nil {
		err = cerr
	}
	return err
}
