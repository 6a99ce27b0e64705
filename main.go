// Package main provides the main entry point for the PlakatPro campaign management system
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/plakatpro/plakatpro/app/handlers"
	"github.com/plakatpro/plakatpro/app/router"
	"github.com/plakatpro/plakatpro/app/services"
	businessflow "github.com/plakatpro/plakatpro/business_flow"
	"github.com/plakatpro/plakatpro/config"
	"github.com/plakatpro/plakatpro/migrations"
	"github.com/plakatpro/plakatpro/repository"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting PlakatPro application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initializeLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeLogging routes the standard logger to stdout, a rotating file,
// or both, per configuration.
func initializeLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	switch cfg.Output {
	case "file":
		log.SetOutput(rotating)
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, rotating))
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelMigrate()
	if err := migrations.Run(migrateCtx, db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		stopFuncs = append(stopFuncs, func() { _ = rc.Close() })
	}

	// Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	cityRepo := repository.NewCityRepository(db)
	listRepo := repository.NewDistributionListRepository(db)
	itemRepo := repository.NewDistributionListItemRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	permitRepo := repository.NewPermitRepository(db)
	permitEmailRepo := repository.NewPermitEmailRepository(db)
	assetRepo := repository.NewFileAssetRepository(db)

	// Initialize services
	store, err := services.NewDiskStorage(cfg.Storage.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	exporter := services.NewExporter(cfg.Mail.SenderName)
	thumbnailer := services.NewThumbnailer(services.DefaultJPEGQuality)

	smtpSender := services.NewSMTPSender(
		cfg.Mail.Host,
		cfg.Mail.Port,
		cfg.Mail.Username,
		cfg.Mail.Password,
		cfg.Mail.UseSTARTTLS,
		cfg.Mail.Timeout,
	)
	dispatcher := services.NewMailDispatcher(smtpSender, cfg.Mail.SenderAddress, cfg.Mail.SenderName)

	var exportCache businessflow.DocumentCache
	if rc != nil {
		exportCache = services.NewRedisExportCache(rc, cfg.Cache.RedisPrefix, cfg.Cache.DefaultTTL)
	} else {
		exportCache = services.NoopExportCache{}
	}

	vatRate, err := decimal.NewFromString(cfg.Pricing.VATRate)
	if err != nil {
		return nil, fmt.Errorf("invalid VAT rate %q: %w", cfg.Pricing.VATRate, err)
	}

	// Initialize flows
	clientFlow := businessflow.NewClientFlow(clientRepo, listRepo, db)

	cityFlow := businessflow.NewCityFlow(cityRepo, itemRepo, assetRepo, db)

	listFlow := businessflow.NewDistributionListFlow(
		listRepo,
		itemRepo,
		clientRepo,
		cityRepo,
		campaignRepo,
		permitRepo,
		permitEmailRepo,
		assetRepo,
		dispatcher,
		exporter,
		store,
		exportCache,
		vatRate,
		db,
	)

	campaignFlow := businessflow.NewCampaignFlow(campaignRepo, permitRepo, clientRepo, db)

	assetFlow := businessflow.NewAssetFlow(
		assetRepo,
		store,
		thumbnailer,
		cfg.Storage.MaxUploadBytes,
		cfg.Storage.ThumbnailWidth,
	)

	// Initialize handlers
	clientHandler := handlers.NewClientHandler(clientFlow)
	cityHandler := handlers.NewCityHandler(cityFlow)
	listHandler := handlers.NewDistributionListHandler(listFlow)
	campaignHandler := handlers.NewCampaignHandler(campaignFlow)
	assetHandler := handlers.NewAssetHandler(assetFlow)

	// Initialize router
	appRouter := router.NewFiberRouter(
		cfg,
		clientHandler,
		cityHandler,
		listHandler,
		campaignHandler,
		assetHandler,
	)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
