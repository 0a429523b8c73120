package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipdesk/internal/config"
	"shipdesk/internal/email/noop"
	"shipdesk/internal/email/ses"
	"shipdesk/internal/extraction"
	"shipdesk/internal/handler"
	"shipdesk/internal/port"
	"shipdesk/internal/repository/postgres"
	"shipdesk/internal/router"
	"shipdesk/internal/service"
	s3storage "shipdesk/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	uploadLogRepo := postgres.NewUploadLogRepo(db)

	// Initialize storage; the archive bucket is optional
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize email sender
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize the extraction service client and services
	extractor := extraction.NewClient(&cfg.Extractor)

	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	regSvc := service.NewRegistrationService(userRepo, emailSender, authSvc, cfg.OTP)
	recordSvc := service.NewRecordService(extractor, cfg.Poll)
	tracker := service.NewTaskTracker(extractor, recordSvc, cfg.Poll)
	defer tracker.Stop()
	uploadSvc := service.NewUploadService(extractor, uploadLogRepo, storage, tracker, cfg.Upload)
	searchSvc := service.NewSearchService(extractor)
	chatSvc := service.NewChatService(extractor)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc, regSvc)
	docH := handler.NewDocumentHandler(uploadSvc, tracker)
	recordH := handler.NewRecordHandler(recordSvc)
	searchH := handler.NewSearchHandler(searchSvc)
	chatH := handler.NewChatHandler(chatSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, docH, recordH, searchH, chatH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
