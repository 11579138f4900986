package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/elioraretreat/registration-server/internal/api/http/handler"
	"github.com/elioraretreat/registration-server/internal/api/http/middleware"
	"github.com/elioraretreat/registration-server/internal/api/http/router"
	httpServer "github.com/elioraretreat/registration-server/internal/api/http/server"
	"github.com/elioraretreat/registration-server/internal/config"
	"github.com/elioraretreat/registration-server/internal/logger"
	"github.com/elioraretreat/registration-server/internal/model"
	"github.com/elioraretreat/registration-server/internal/repository/postgres"
	"github.com/elioraretreat/registration-server/internal/server"
	"github.com/elioraretreat/registration-server/internal/service"
	storage "github.com/elioraretreat/registration-server/internal/storage/minio"
	"github.com/elioraretreat/registration-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	blobStore, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize blob store", "error", err)
	}

	registrationRepo := postgres.NewRegistrationRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	registrationService := service.NewRegistration(registrationRepo, blobStore, logger)
	exportService := service.NewExport(blobStore, logger)
	authService := service.NewAuth(cfg.Admin.Password, tokenManager, logger)

	registrationHandler := handler.NewRegistration(registrationService, logger)
	adminHandler := handler.NewAdmin(registrationService, exportService, registrationService, logger)
	authHandler := handler.NewAuth(authService, logger)
	authenticate := middleware.NewAuthenticate(tokenManager, logger)

	r := router.New(registrationHandler, adminHandler, authHandler, authenticate, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

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
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
