package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/moneybox/internal/app"
	"github.com/MrJamesThe3rd/moneybox/internal/config"
	moneyboxHttp "github.com/MrJamesThe3rd/moneybox/internal/http"
	accountHandler "github.com/MrJamesThe3rd/moneybox/internal/http/account"
	backupHandler "github.com/MrJamesThe3rd/moneybox/internal/http/backup"
	categoryHandler "github.com/MrJamesThe3rd/moneybox/internal/http/category"
	importHandler "github.com/MrJamesThe3rd/moneybox/internal/http/importcsv"
	paymentHandler "github.com/MrJamesThe3rd/moneybox/internal/http/payment"
	recurringHandler "github.com/MrJamesThe3rd/moneybox/internal/http/recurring"
	"github.com/MrJamesThe3rd/moneybox/internal/logging"
)

func main() {
	issue := flag.String("issue-token", "", "print a bearer token for this subject and exit")
	ttl := flag.Duration("token-ttl", 30*24*time.Hour, "lifetime of an issued token")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	if err := logging.Setup(os.Stderr, cfg.App.LogLevel, cfg.App.LogFormat); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	if *issue != "" {
		if err := printToken(cfg, *issue, *ttl); err != nil {
			slog.Error("failed to issue token", "error", err)
			os.Exit(1)
		}

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var (
		accountsH   = accountHandler.NewHandler(a.Accounts)
		paymentsH   = paymentHandler.NewHandler(a.Payments)
		recurringH  = recurringHandler.NewHandler(a.Payments, a.Processor)
		categoriesH = categoryHandler.NewHandler(a.Categories)
		importH     = importHandler.NewHandler(a.Importer)
		backupH     = backupHandler.NewHandler(a.Backup)
	)

	router := moneyboxHttp.New(moneyboxHttp.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		JWTSecret:   cfg.Server.JWTSecret,
		Timeout:     cfg.Server.Timeout,
		Settings:    a.Settings,
	}, accountsH, paymentsH, recurringH, categoriesH, importH, backupH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	if cfg.Server.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set, the API is unauthenticated")
	}

	slog.Info("starting server", "port", cfg.App.Port, "driver", cfg.DB.Driver)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func printToken(cfg *config.Config, subject string, ttl time.Duration) error {
	if cfg.Server.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	token, err := moneyboxHttp.IssueToken([]byte(cfg.Server.JWTSecret), subject, time.Now(), ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)

	return nil
}
