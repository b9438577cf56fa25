package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/admin"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/config"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/router"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/session"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/vault"
	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/database"
	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/utilities"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "region-directory: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	lg, err := utilities.Init(cfg.Logger())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer lg.Sync()
	sugar := lg.Sugar()
	sugar.Infow("starting region directory", "addr", cfg.Addr(), "driver", cfg.DBDriver)

	if err := utilities.SetSnowflakeNode(cfg.SnowflakeNode); err != nil {
		return fmt.Errorf("snowflake node: %w", err)
	}

	if cfg.NeedsVault() {
		vc, err := vault.New()
		if err != nil {
			return err
		}
		if err := cfg.ResolveSecrets(ctx, vc); err != nil {
			return fmt.Errorf("resolve secrets: %w", err)
		}
		sugar.Info("secrets resolved from vault")
	}

	if err := cfg.RequireSessionSecret(); err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database())
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		sugar.Info("schema migrated")
	}

	issuer, err := session.NewIssuer([]byte(cfg.JWTSecret), session.WithTTL(cfg.SessionTTL))
	if err != nil {
		return err
	}

	handler := router.RegisterRoutes(sugar, db, issuer, router.Options{
		BasePath:       cfg.BasePath,
		AllowedOrigins: cfg.Origins(),
		Hasher:         admin.BcryptHasher{Cost: cfg.BcryptCost},
	})
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorLog:     zap.NewStdLog(lg),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sugar.Infow("http server listening", "addr", srv.Addr, "base_path", cfg.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sugar.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Warnw("http server shutdown failed", "err", err)
		}
		return nil
	})

	err = g.Wait()
	sugar.Info("goodbye")
	return err
}
