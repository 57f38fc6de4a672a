// Package server assembles the application: configuration, storage,
// cryptography, services and the HTTP server, with signal-driven graceful
// shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sbuga/passvault/internal/cryptox"
	"github.com/sbuga/passvault/internal/logging"
	"github.com/sbuga/passvault/internal/server/accounts"
	"github.com/sbuga/passvault/internal/server/backup"
	"github.com/sbuga/passvault/internal/server/config"
	"github.com/sbuga/passvault/internal/server/credentials"
	"github.com/sbuga/passvault/internal/server/httpapi"
	"github.com/sbuga/passvault/internal/server/masterlock"
	"github.com/sbuga/passvault/internal/server/shared/db"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	repos             db.RepositoryManager
	accountService    *accounts.Service
	credentialService *credentials.Service
	backupService     *backup.Service
	lock              *masterlock.Gate
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON()

	repos, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	cipher, err := cryptox.NewCipher(cfg.EncryptionKey)
	if err != nil {
		repos.Close()
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	as := accounts.NewService(repos.Accounts(), cfg, logger)
	cs := credentials.NewService(repos.Credentials(), credentials.NewCodec(cipher), logger)
	bs := backup.NewService(cs, cfg, logger)

	var override *masterlock.State
	if cfg.MasterPasswordHash != "" && cfg.MasterPasswordSalt != "" {
		override = &masterlock.State{
			Digest: cfg.MasterPasswordHash,
			Salt:   cfg.MasterPasswordSalt,
		}
	}
	lock := masterlock.NewGate(override, cfg.InsecureMasterFallback, logger)

	return &App{
		config:            cfg,
		logger:            logger,
		repos:             repos,
		accountService:    as,
		credentialService: cs,
		backupService:     bs,
		lock:              lock,
	}, nil
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
	s := httpapi.NewServer(app.config.Address, app.logger,
		app.accountService, app.credentialService, app.lock,
		app.backupService, []byte(app.config.TokenSecret))

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
}
