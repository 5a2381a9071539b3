package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/straye-as/elevator-api/internal/auth"
	"github.com/straye-as/elevator-api/internal/config"
	"github.com/straye-as/elevator-api/internal/database"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/http/handler"
	"github.com/straye-as/elevator-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/straye-as/elevator-api/docs" // Import generated swagger docs
)

// Handlers groups the HTTP handlers mounted under /api/v1
type Handlers struct {
	Auth          *handler.AuthHandler
	Client        *handler.ClientHandler
	Area          *handler.CatalogHandler[domain.AreaTypeDTO, domain.AreaTypeRequest]
	AreaStatus    *handler.CatalogHandler[domain.StatusDTO, domain.StatusRequest]
	ProjectStatus *handler.CatalogHandler[domain.StatusDTO, domain.StatusRequest]
	ProjectType   *handler.CatalogHandler[domain.ProjectTypeDTO, domain.ProjectTypeRequest]
	ElevatorModel *handler.CatalogHandler[domain.ElevatorModelDTO, domain.ElevatorModelRequest]
	Personnel     *handler.PersonnelHandler
	Project       *handler.ProjectHandler
	Proforma      *handler.ProformaHandler
	Sale          *handler.SaleHandler
	Assignment    *handler.AssignmentHandler
	Inventory     *handler.InventoryHandler
	Maintenance   *handler.MaintenanceHandler
	Report        *handler.ReportHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	handlers       *Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers *Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		handlers:       handlers,
	}
}

// crud is the handler surface mounted by mountCRUD
type crud interface {
	List(http.ResponseWriter, *http.Request)
	GetByID(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func mountCRUD(r chi.Router, h crud) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()
	h := rt.handlers

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/health/db", rt.databaseHealth)
	r.Get("/health/ready", rt.readiness)

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", h.Auth.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(middleware.CaptureUser)
			r.Use(rt.rateLimiter.LimitByUser)

			// Auth
			r.Get("/auth/me", h.Auth.Me)
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)
				r.Post("/auth/register", h.Auth.Register)
				r.Get("/auth/users", h.Auth.ListUsers)
				r.Patch("/auth/users/{id}", h.Auth.UpdateUser)
				r.Delete("/auth/users/{id}", h.Auth.DeleteUser)
			})

			// Master data
			r.Route("/clients", func(r chi.Router) { mountCRUD(r, h.Client) })
			r.Route("/areas", func(r chi.Router) { mountCRUD(r, h.Area) })
			r.Route("/area-statuses", func(r chi.Router) { mountCRUD(r, h.AreaStatus) })
			r.Route("/project-statuses", func(r chi.Router) { mountCRUD(r, h.ProjectStatus) })
			r.Route("/project-types", func(r chi.Router) { mountCRUD(r, h.ProjectType) })
			r.Route("/models", func(r chi.Router) { mountCRUD(r, h.ElevatorModel) })
			r.Route("/personnel", func(r chi.Router) { mountCRUD(r, h.Personnel) })
			r.Route("/projects", func(r chi.Router) { mountCRUD(r, h.Project) })

			// Proformas and sales
			r.Route("/proformas", func(r chi.Router) {
				mountCRUD(r, h.Proforma)
				r.Post("/{id}/attachment", h.Proforma.UploadAttachment)
				r.Get("/{id}/attachment", h.Proforma.DownloadAttachment)
				r.Get("/{id}/pdf", h.Proforma.RenderPDF)
			})
			r.Route("/sales", func(r chi.Router) { mountCRUD(r, h.Sale) })

			// Project assignments, addressed by composite key
			r.Route("/project-assignments", func(r chi.Router) {
				r.Get("/", h.Assignment.List)
				r.Post("/", h.Assignment.Create)
				r.Get("/{key}", h.Assignment.Get)
				r.Patch("/{key}", h.Assignment.Update)
				r.Delete("/{key}", h.Assignment.Delete)
			})

			// Inventory
			r.Route("/inventory", func(r chi.Router) {
				r.Get("/low-stock", h.Inventory.LowStock)
				mountCRUD(r, h.Inventory)
				r.Get("/{id}/transactions", h.Inventory.ListTransactions)
				r.Post("/{id}/transactions", h.Inventory.RecordTransaction)
			})

			// Maintenance
			r.Route("/maintenance", func(r chi.Router) {
				r.Get("/", h.Maintenance.List)
				r.Post("/", h.Maintenance.Create)
				r.Get("/{id}", h.Maintenance.GetByID)
				r.Patch("/{id}", h.Maintenance.Update)
				r.Delete("/{id}", h.Maintenance.Delete)
				r.Get("/{id}/logs", h.Maintenance.ListLogs)
				r.Post("/{id}/logs", h.Maintenance.AddLog)
			})

			// Reports
			r.Route("/reports", func(r chi.Router) {
				r.Get("/projects", h.Report.Projects)
				r.Get("/units", h.Report.Units)
				r.Get("/proformas", h.Report.Proformas)
				r.Get("/sales", h.Report.Sales)
			})
		})
	})

	return r
}

// databaseHealth is the readiness probe with pool statistics
func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats":   stats,
	})
}

// readiness checks all dependencies
func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{})
	allHealthy := true

	if err := database.HealthCheck(r.Context(), rt.db); err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		checks["database"] = map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
		allHealthy = false
	} else {
		checks["database"] = map[string]interface{}{
			"status": "healthy",
		}
	}

	status, code := "healthy", http.StatusOK
	if !allHealthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}
