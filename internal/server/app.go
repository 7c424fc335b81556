// Package server wires the secure-vault service together: configuration,
// field cipher, token gate, storage backend, HTTP router and the process
// lifecycle with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/RamaSai2519/secure-vault/internal/common"
	"github.com/RamaSai2519/secure-vault/internal/cryptox"
	"github.com/RamaSai2519/secure-vault/internal/logging"
	"github.com/RamaSai2519/secure-vault/internal/server/auth"
	"github.com/RamaSai2519/secure-vault/internal/server/config"
	"github.com/RamaSai2519/secure-vault/internal/server/repositories/repomanager"
	"github.com/RamaSai2519/secure-vault/internal/server/rest"
	"github.com/RamaSai2519/secure-vault/internal/server/services"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	server      *rest.HTTPServer
}

// NewApp builds every component from cfg. Logs go to stdout.
func NewApp(cfg *config.Config) (*App, error) {
	return newApp(cfg, os.Stdout)
}

func newApp(cfg *config.Config, logOut io.Writer) (*App, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	key, err := cryptox.KeyFromSecret(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key error: %w", err)
	}
	fingerprint := cryptox.KeyFingerprint(key)
	cipher, err := cryptox.NewFieldCipher(key)
	common.WipeByteArray(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	rm, err := repomanager.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	vault := services.NewVaultService(rm, cipher, clockwork.NewRealClock(), logger.With("module", "vault"))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := rest.NewRouter(rest.RouterDeps{
		Vault:    vault,
		Verifier: auth.NewGate([]byte(cfg.SecretKey)),
		Pinger:   rm,
		Logger:   logger,
		Registry: registry,
	})

	srv := rest.NewHTTPServer(cfg.EndpointAddrHTTP, router, rest.Timeouts{
		Read:     cfg.ReadTimeout,
		Write:    cfg.WriteTimeout,
		Idle:     cfg.IdleTimeout,
		Shutdown: cfg.ShutdownTimeout,
	}, logger)

	logger.Info(context.Background(), "app configured",
		"storage", cfg.Storage,
		"key_fingerprint", fingerprint)

	return &App{config: cfg, logger: logger, repomanager: rm, server: srv}, nil
}

// initSignalHandler cancels the app context on SIGINT, SIGTERM or SIGQUIT.
// The returned func stops listening.
func (app *App) initSignalHandler(cancelFunc context.CancelFunc) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server error", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

// Run migrates storage, serves HTTP until ctx is cancelled or a signal
// arrives, then closes the storage backend.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	stop := app.initSignalHandler(cancelFunc)
	defer stop()

	defer func() {
		if err := app.repomanager.Close(); err != nil {
			app.logger.Error(ctx, "storage close error", "error", err)
		}
	}()

	if err := app.repomanager.RunMigrations(ctx); err != nil {
		return err
	}

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return runErr
}
