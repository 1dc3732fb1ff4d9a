package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/avelov/ticketlot/internal/api/http/router"
	"github.com/avelov/ticketlot/internal/config"
	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
	"github.com/avelov/ticketlot/internal/notify"
	"github.com/avelov/ticketlot/internal/repository/postgres"
	"github.com/avelov/ticketlot/internal/security"
	"github.com/avelov/ticketlot/internal/server"
	"github.com/avelov/ticketlot/internal/service"
	"github.com/avelov/ticketlot/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)
	logger.Info("starting ticketlot", "version", buildVersion, "build_date", buildDate)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	credentialTokenRepo := postgres.NewCredentialTokenRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	submissionRepo := postgres.NewSubmissionRepository(db)

	tokenManager := token.NewJWT(cfg.Auth.JWTSecret)
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	var notifier model.Notifier
	if cfg.Mail.Enabled {
		notifier, err = notify.NewSESMailer(ctx, notify.Config{
			Region:          cfg.Mail.Region,
			AccessKeyID:     cfg.Mail.AccessKeyID,
			SecretAccessKey: cfg.Mail.SecretAccessKey,
			Sender:          cfg.Mail.Sender,
			AppName:         cfg.AppName,
		}, logger)
		if err != nil {
			logger.Fatal("failed to create mailer", "error", err)
		}
	} else {
		notifier = notify.NewLogMailer(cfg.AppName, logger)
	}

	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, logger)
	authService := service.NewAuth(userRepo, credentialTokenRepo, hasher, notifier, tokenService, cfg.BaseURL, logger)
	directoryService := service.NewDirectory(userRepo, hasher, notifier, authService, logger)
	eventService := service.NewEvent(eventRepo, logger)
	submissionService := service.NewSubmission(submissionRepo, eventRepo, userRepo, logger)
	allocationService := service.NewAllocation(submissionRepo, eventRepo, userRepo, notifier, logger)

	r := router.New(
		authService,
		directoryService,
		eventService,
		submissionService,
		allocationService,
		tokenService,
		userRepo,
		logger,
	)
	httpServer := server.NewHTTPServer(r.Register(), cfg.HTTP.Address)

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}
