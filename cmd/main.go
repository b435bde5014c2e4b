package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"

	"github.com/angelofallars/hyperdash/app"
	"github.com/angelofallars/hyperdash/app/workspace"
	"github.com/angelofallars/hyperdash/internal/config"
	"github.com/angelofallars/hyperdash/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	log := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, closeTokens, err := openTokenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeTokens()

	workspaces := workspace.NewRegistry(workspace.Config{
		APIBaseURL:      cfg.APIBaseURL,
		APITimeout:      cfg.APITimeout,
		SearchDebounce:  cfg.SearchDebounce,
		InvoicesPerPage: cfg.InvoicesPerPage,
		LoginRate:       rate.Limit(cfg.LoginRate),
		LoginBurst:      cfg.LoginBurst,
		IdleTTL:         cfg.SessionTTL,
	}, tokens, log)

	app := app.New(log, workspaces, cfg.SessionCookie, cfg.SessionTTL).
		WithHost(cfg.Host).
		WithPort(cfg.Port)

	// Run the server
	err = app.Serve(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func openTokenStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.TokenStore {
	case config.TokenStoreRedis:
		store, err := session.ConnectRedis(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return session.NewMemoryStore(), func() {}, nil
	}
}
