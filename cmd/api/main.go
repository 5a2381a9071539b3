package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/straye-as/elevator-api/docs"
	"github.com/straye-as/elevator-api/internal/auth"
	"github.com/straye-as/elevator-api/internal/config"
	"github.com/straye-as/elevator-api/internal/database"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/http/handler"
	"github.com/straye-as/elevator-api/internal/http/middleware"
	"github.com/straye-as/elevator-api/internal/http/router"
	"github.com/straye-as/elevator-api/internal/jobs"
	"github.com/straye-as/elevator-api/internal/logger"
	"github.com/straye-as/elevator-api/internal/repository"
	"github.com/straye-as/elevator-api/internal/service"
	"github.com/straye-as/elevator-api/internal/storage"
	"go.uber.org/zap"
)

// @title Straye Elevator API
// @version 1.0
// @description Elevator installation backend: clients, proformas, sales, projects, assignments, inventory and maintenance
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@straye.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token issued by /auth/login

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if host := os.Getenv("SWAGGER_HOST"); host != "" {
		docs.SwaggerInfo.Host = host
	} else {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database with retry logic
	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate: %w", err)
		}
		log.Warn("Schema auto-migrated; use cmd/migrate outside development")
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(ctx, &cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	areaRepo := repository.NewCatalogRepository[domain.AreaType](db, "name")
	areaStatusRepo := repository.NewCatalogRepository[domain.AreaStatus](db, "description")
	projectStatusRepo := repository.NewCatalogRepository[domain.ProjectStatus](db, "description")
	projectTypeRepo := repository.NewCatalogRepository[domain.ProjectType](db, "type_name")
	modelRepo := repository.NewCatalogRepository[domain.ElevatorModel](db, "model_name")
	personnelRepo := repository.NewPersonnelRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	proformaRepo := repository.NewProformaRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	reportRepo := repository.NewReportRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	tokens := auth.NewTokenIssuer(&cfg.Auth)
	userService := service.NewUserService(userRepo, tokens, log)
	if err := userService.EnsureBootstrapAdmin(ctx, &cfg.Auth); err != nil {
		return fmt.Errorf("failed to bootstrap admin user: %w", err)
	}

	clientService := service.NewClientService(clientRepo, log)
	areaService := service.NewAreaTypeService(areaRepo, log)
	areaStatusService := service.NewAreaStatusService(areaStatusRepo, log)
	projectStatusService := service.NewProjectStatusService(projectStatusRepo, log)
	projectTypeService := service.NewProjectTypeService(projectTypeRepo, log)
	modelService := service.NewElevatorModelService(modelRepo, log)
	personnelService := service.NewPersonnelService(personnelRepo, areaRepo, log)
	projectService := service.NewProjectService(projectRepo, saleRepo, projectStatusRepo, projectTypeRepo, log)
	proformaService := service.NewProformaService(db, proformaRepo, saleRepo, clientRepo, fileStorage, log)
	saleService := service.NewSaleService(db, saleRepo, proformaRepo, modelRepo, log)
	assignmentService := service.NewAssignmentService(assignmentRepo, projectRepo, personnelRepo, areaRepo, areaStatusRepo, log)
	inventoryService := service.NewInventoryService(db, inventoryRepo, modelRepo, projectRepo, log)
	maintenanceService := service.NewMaintenanceService(maintenanceRepo, projectRepo, personnelRepo, log)
	reportService := service.NewReportService(reportRepo, maintenanceRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokens, userRepo, cfg.Auth.APIKey, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(userService, log),
		Client:        handler.NewClientHandler(clientService, log),
		Area:          handler.NewCatalogHandler[domain.AreaTypeDTO, domain.AreaTypeRequest](areaService, "area", log),
		AreaStatus:    handler.NewCatalogHandler[domain.StatusDTO, domain.StatusRequest](areaStatusService, "area status", log),
		ProjectStatus: handler.NewCatalogHandler[domain.StatusDTO, domain.StatusRequest](projectStatusService, "project status", log),
		ProjectType:   handler.NewCatalogHandler[domain.ProjectTypeDTO, domain.ProjectTypeRequest](projectTypeService, "project type", log),
		ElevatorModel: handler.NewCatalogHandler[domain.ElevatorModelDTO, domain.ElevatorModelRequest](modelService, "model", log),
		Personnel:     handler.NewPersonnelHandler(personnelService, log),
		Project:       handler.NewProjectHandler(projectService, log),
		Proforma:      handler.NewProformaHandler(proformaService, cfg.Storage.MaxUploadSizeMB, log),
		Sale:          handler.NewSaleHandler(saleService, log),
		Assignment:    handler.NewAssignmentHandler(assignmentService, log),
		Inventory:     handler.NewInventoryHandler(inventoryService, log),
		Maintenance:   handler.NewMaintenanceHandler(maintenanceService, log),
		Report:        handler.NewReportHandler(reportService, log),
	}

	// Setup router
	rt := router.NewRouter(cfg, log, db, authMiddleware, rateLimiter, handlers)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		if cfg.Jobs.InventoryScanEnabled {
			if err := jobs.RegisterInventoryReorderJob(scheduler, inventoryService, log, cfg.Jobs.InventoryScanCron); err != nil {
				log.Error("Failed to register inventory reorder job", zap.Error(err))
			}
		}

		scheduler.Start()
		log.Info("Scheduler started", zap.Strings("jobs", scheduler.JobNames()))
	} else {
		log.Info("Scheduled jobs disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
