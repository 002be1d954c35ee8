package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kaaswinkel/internal/auth"
	"kaaswinkel/internal/checkout"
	"kaaswinkel/internal/config"
	"kaaswinkel/internal/db"
	"kaaswinkel/internal/httpserver"
	"kaaswinkel/internal/mail"
	"kaaswinkel/internal/payment"
	productrepo "kaaswinkel/internal/repository/product"
	tokenrepo "kaaswinkel/internal/repository/resettoken"
	userrepo "kaaswinkel/internal/repository/user"
	"kaaswinkel/internal/service/account"
	"kaaswinkel/internal/service/catalog"
	"kaaswinkel/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	var sender mail.Sender
	if cfg.SMTPHost != "" {
		smtpSender, err := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		if err != nil {
			logger.Fatal("init smtp sender", zap.Error(err))
		}
		sender = smtpSender
	} else {
		logger.Warn("SMTP_HOST not set, transactional mail is disabled")
	}

	var logo *mail.Attachment
	if cfg.LogoPath != "" {
		data, err := os.ReadFile(cfg.LogoPath)
		if err != nil {
			logger.Fatal("read mail logo", zap.String("path", cfg.LogoPath), zap.Error(err))
		}
		logo = &mail.Attachment{
			Filename: "logo.png",
			MimeType: "image/png",
			Content:  data,
			CID:      checkout.LogoCID(),
		}
	}

	markers, err := storage.NewFile("order_markers.json")
	if err != nil {
		logger.Fatal("open marker store", zap.Error(err))
	}

	sessions := auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL)
	users := userrepo.NewPostgres(dbpool, logger)
	tokens := tokenrepo.NewPostgres(dbpool)
	products := productrepo.NewPostgres(dbpool, logger)

	accounts := account.New(users, tokens, sessions, sender, cfg.SiteURL, logger)
	catalogSvc := catalog.New(products)
	provider := payment.NewStripeProvider(cfg.StripeSecretKey)
	orchestrator := checkout.New(provider, sender, markers, checkout.Config{
		SiteURL:     cfg.SiteURL,
		NotifyEmail: cfg.OrderNotifyEmail,
		Logo:        logo,
	}, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Accounts:    accounts,
		Catalog:     catalogSvc,
		Checkout:    orchestrator,
		Sessions:    sessions,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
