// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plakatpro/plakatpro/app/dto"
	"github.com/plakatpro/plakatpro/app/handlers"
	"github.com/plakatpro/plakatpro/app/middleware"
	"github.com/plakatpro/plakatpro/config"
	"github.com/plakatpro/plakatpro/utils"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app     *fiber.App
	cfg     *config.ProductionConfig
	clients handlers.ClientHandlerInterface
	cities  handlers.CityHandlerInterface
	lists   handlers.DistributionListHandlerInterface
	boards  handlers.CampaignHandlerInterface
	assets  handlers.AssetHandlerInterface
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	cfg *config.ProductionConfig,
	clients handlers.ClientHandlerInterface,
	cities handlers.CityHandlerInterface,
	lists handlers.DistributionListHandlerInterface,
	boards handlers.CampaignHandlerInterface,
	assets handlers.AssetHandlerInterface,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "PlakatPro API",
		ServerHeader: "PlakatPro",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  decodeStrictJSON,
	})

	return &FiberRouter{
		app:     app,
		cfg:     cfg,
		clients: clients,
		cities:  cities,
		lists:   lists,
		boards:  boards,
		assets:  assets,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	if r.cfg.Server.EnableMetrics {
		r.app.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	clients := api.Group("/clients")
	clients.Post("/", r.clients.Create)
	clients.Get("/", r.clients.List)
	clients.Get("/:uuid", r.clients.Get)
	clients.Put("/:uuid", r.clients.Update)
	clients.Delete("/:uuid", r.clients.Delete)

	cities := api.Group("/cities")
	cities.Post("/", r.cities.Create)
	cities.Get("/", r.cities.List)
	cities.Get("/:uuid", r.cities.Get)
	cities.Put("/:uuid", r.cities.Update)
	cities.Delete("/:uuid", r.cities.Delete)

	lists := api.Group("/distribution-lists")
	lists.Post("/", r.lists.Create)
	lists.Get("/", r.lists.List)
	lists.Get("/:uuid", r.lists.Get)
	lists.Put("/:uuid", r.lists.Update)
	lists.Delete("/:uuid", r.lists.Archive)
	lists.Post("/:uuid/send", r.lists.Send)
	lists.Post("/:uuid/response", r.lists.RecordResponse)
	lists.Post("/:uuid/convert", r.lists.Convert)
	lists.Post("/:uuid/send-applications", r.lists.SendApplications)
	lists.Get("/:uuid/export.pdf", r.lists.ExportPDF)
	lists.Get("/:uuid/export.xlsx", r.lists.ExportXLSX)
	lists.Get("/:uuid/preview", r.lists.Preview)

	campaigns := api.Group("/campaigns")
	campaigns.Get("/", r.boards.List)
	campaigns.Get("/:uuid", r.boards.Get)
	campaigns.Put("/:uuid/status", r.boards.UpdateStatus)
	campaigns.Delete("/:uuid", r.boards.Archive)
	campaigns.Put("/:uuid/permits/:permit_uuid", r.boards.UpdatePermitStatus)

	assets := api.Group("/assets")
	assets.Post("/", r.assets.Upload)
	assets.Get("/:uuid", r.assets.Download)
	assets.Get("/:uuid/preview", r.assets.Preview)
	assets.Delete("/:uuid", r.assets.Delete)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// SetupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    r.cfg.Security.XContentTypeOptions,
		XFrameOptions:         r.cfg.Security.XFrameOptions,
		HSTSMaxAge:            r.cfg.Security.HSTSMaxAge,
		HSTSExcludeSubdomains: !r.cfg.Security.HSTSIncludeSubDoms,
		ContentSecurityPolicy: r.cfg.Security.CSPPolicy,
		ReferrerPolicy:        r.cfg.Security.ReferrerPolicy,
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.cfg.Security.AllowedOrigins,
		AllowMethods: r.cfg.Security.AllowedMethods,
		AllowHeaders: r.cfg.Security.AllowedHeaders,
		ExposeHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: r.cfg.Security.AllowCredentials,
		MaxAge:           r.cfg.Security.CORSMaxAge,
	}))

	// Compression middleware for performance
	if r.cfg.Server.EnableCompression {
		r.app.Use(compress.New(compress.Config{
			Level: compress.LevelBestSpeed,
			Next: func(c fiber.Ctx) bool {
				// Skip compression for binary downloads
				contentType := string(c.Response().Header.ContentType())
				return strings.HasPrefix(contentType, "image/") ||
					strings.HasPrefix(contentType, "application/pdf") ||
					strings.HasPrefix(contentType, "application/vnd.openxmlformats")
			},
		}))
	}

	// Structured request logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Prometheus request metrics
	if r.cfg.Server.EnableMetrics {
		r.app.Use(middleware.Metrics())
	}

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   r.cfg.Deployment.Version,
			"service":   "plakatpro-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// decodeStrictJSON rejects request bodies carrying fields the target
// struct does not declare.
func decodeStrictJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
