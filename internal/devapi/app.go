package devapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/common"
	"github.com/dmitrijs2005/vid2blog/internal/cryptox"
	"github.com/dmitrijs2005/vid2blog/internal/devapi/config"
	"github.com/dmitrijs2005/vid2blog/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// App wires the store and the HTTP server and owns their lifecycle.
type App struct {
	config *config.Config
	logger logging.Logger
	server *Server
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	if c.SecretKey == "" {
		return nil, fmt.Errorf("secret key is required")
	}

	// The salt is per process: sealed credentials do not outlive the store.
	salt := common.GenerateRandByteArray(16)
	key := cryptox.DeriveKey([]byte(c.VaultPassphrase), salt)

	store := NewStore(StoreOptions{
		VaultKey:           key,
		OTPValidity:        c.OTPValidity,
		OTPMaxAttempts:     c.OTPMaxAttempts,
		MonthlyLimit:       c.MonthlyLimitMinutes,
		ConversionsPerHour: c.ConversionsPerHour,
	})

	srv := NewServer(store, Options{
		SecretKey:       []byte(c.SecretKey),
		TokenValidity:   c.TokenValidity,
		DevMode:         c.DevMode,
		ProcessingDelay: c.ProcessingDelay,
		Logger:          logger,
	})

	return &App{config: c, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	hs := &http.Server{
		Addr:              app.config.Addr,
		Handler:           app.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := hs.Shutdown(sctx); err != nil {
			app.logger.Error(sctx, "shutdown failed", "error", err)
		}
	}()

	app.logger.Info(ctx, "listening", "addr", app.config.Addr, "dev_mode", app.config.DevMode)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until the parent context is cancelled or a termination
// signal arrives.
func (app *App) Run(parent context.Context) {
	ctx, cancelFunc := context.WithCancel(parent)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting dev backend...")
	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	wg.Wait()
}
