package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/config"
	"github.com/headstoneworld/orders-api/internal/handler"
	"github.com/headstoneworld/orders-api/internal/middleware"
	"github.com/headstoneworld/orders-api/internal/repository"
	"github.com/headstoneworld/orders-api/internal/router"
	"github.com/headstoneworld/orders-api/internal/service"
	"github.com/headstoneworld/orders-api/pkg/mailer"
	"github.com/headstoneworld/orders-api/pkg/spreadsheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := os.MkdirAll(cfg.OrdersRoot, 0o755); err != nil {
		log.Fatalf("failed to create orders root: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	orderRepo := repository.NewOrderRepository(cfg.OrdersRoot, logger)
	attachmentStore := repository.NewAttachmentStore(logger)
	activityLogRepo := repository.NewActivityLogRepository(cfg.ReportPath, logger)
	userRepo := repository.NewUserRepository(cfg.UserStorePath, logger)
	modelDetailsRepo := repository.NewModelDetailsRepository(cfg.ModelDetailsCSV, cfg.ModelDetailsJSON, logger)

	dailyReport := spreadsheet.New(cfg.DailyReportPath, logger)
	notifier := mailer.New(mailer.Config{
		APIKeyPublic:  cfg.MailjetAPIKeyPublic,
		APIKeyPrivate: cfg.MailjetAPIKeyPrivate,
		FromEmail:     cfg.MailFromEmail,
	}, logger)
	recipients := service.Recipients{
		CemeteryApproval: cfg.RecipientsCemetery,
		Engraving:        cfg.RecipientsEngraving,
		MonumentSetting:  cfg.RecipientsSetting,
	}

	invoiceService := service.NewInvoiceService(orderRepo, attachmentStore, activityLogRepo, dailyReport, notifier, recipients, validate, logger)
	stageService := service.NewStageService(orderRepo, attachmentStore, notifier, recipients, validate, logger)
	workOrderService := service.NewWorkOrderService(orderRepo, attachmentStore, modelDetailsRepo, activityLogRepo, dailyReport, validate, logger)
	reportService := service.NewReportService(activityLogRepo, validate, logger)
	authService := service.NewAuthService(userRepo, cfg.SharedPasswords, cfg.JWTSecret, validate, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, logger)
	stageHandler := handler.NewStageHandler(stageService, logger)
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    64 * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:      authHandler,
		InvoiceHandler:   invoiceHandler,
		StageHandler:     stageHandler,
		WorkOrderHandler: workOrderHandler,
		ReportHandler:    reportHandler,
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
