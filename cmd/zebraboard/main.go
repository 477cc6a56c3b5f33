package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zebraboard/zebra-board-api/internal/config"
	httpserver "github.com/zebraboard/zebra-board-api/internal/http"
	"github.com/zebraboard/zebra-board-api/internal/notification"
	"github.com/zebraboard/zebra-board-api/pkg/auth"
	"github.com/zebraboard/zebra-board-api/pkg/store"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := store.NewDB(store.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	usersRepo := store.NewUsersRepository(db)
	resultsRepo := store.NewResultsRepository(db)
	suggestionsRepo := store.NewSuggestionsRepository(db)

	var mailer auth.Mailer
	if cfg.HasSMTP() {
		mailer = notification.NewEmailService(notification.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		})
		logger.Info("email service enabled")
	}

	signer := auth.NewTokenSigner([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.TokenTTL)
	accountService := auth.NewAccountService(auth.ServiceConfig{
		VerificationTTL:  cfg.VerificationTTL,
		EmailSendTimeout: cfg.EmailSendTimeout,
		AppBaseURL:       cfg.AppBaseURL,
	}, usersRepo, auth.NewHasher(), signer, mailer, logger)
	linker := auth.NewLinker(usersRepo, logger)

	providers := make(map[string]auth.Provider)
	if cfg.HasGitHubOAuth() {
		providers[auth.ProviderGitHub] = auth.NewGitHubProvider(auth.ProviderCredentials{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubRedirectURI,
		})
		logger.Info("GitHub OAuth enabled")
	}
	if cfg.HasGoogleOAuth() {
		providers[auth.ProviderGoogle] = auth.NewGoogleProvider(auth.ProviderCredentials{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
		})
		logger.Info("Google OAuth enabled")
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          logger,
		AccountService:  accountService,
		Signer:          signer,
		Linker:          linker,
		Providers:       providers,
		UsersRepo:       usersRepo,
		ResultsRepo:     resultsRepo,
		SuggestionsRepo: suggestionsRepo,
		AppBaseURL:      cfg.AppBaseURL,
		RateLimitConfig: cfg.RateLimit,
	})

	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
