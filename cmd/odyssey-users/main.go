package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/odyssey-users/internal/app"
	"github.com/odyssey-erp/odyssey-users/internal/auth"
	"github.com/odyssey-erp/odyssey-users/internal/authz"
	"github.com/odyssey-erp/odyssey-users/internal/observability"
	"github.com/odyssey-erp/odyssey-users/internal/platform/cache"
	"github.com/odyssey-erp/odyssey-users/internal/platform/db"
	"github.com/odyssey-erp/odyssey-users/internal/roles"
	"github.com/odyssey-erp/odyssey-users/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	pool, err := db.New(ctx, db.Options{DSN: cfg.PGDSN, MaxConns: cfg.PGMaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	tokens := auth.NewTokenStore(redisClient, cfg.TokenPrefix, cfg.TokenTTL)

	roleRepo := roles.NewRepository(pool)
	userRepo := users.NewRepository(pool)

	policy := authz.ParseMultiRolePolicy(cfg.MultiRolePolicy)
	names := roles.NewNameLookup(roleRepo, logger)
	authorizer := authz.NewAuthorizer(logger, metrics,
		authz.NewUserValidator(tokens, names, policy, logger),
		authz.NewRoleValidator(tokens, names, policy, logger),
	)

	creds := auth.ServiceCredentials{ClientID: cfg.ServiceClientID, SecretHash: cfg.ServiceSecretHash}
	if !creds.Enabled() {
		logger.Info("service credential disabled")
	}
	authService := auth.NewService(creds, tokens, userRepo, logger)
	roleService := roles.NewService(roleRepo, userRepo, authorizer, logger)
	userService := users.NewService(userRepo, authorizer, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		AuthHandler:  auth.NewHandler(logger, authService),
		RolesHandler: roles.NewHandler(logger, roleService),
		UsersHandler: users.NewHandler(logger, userService),
		Metrics:      metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("multi_role_policy", string(policy)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
