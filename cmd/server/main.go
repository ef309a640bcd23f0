package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accountsapp "github.com/cupcake/backend/internal/application/accounts"
	instrumentsapp "github.com/cupcake/backend/internal/application/instruments"
	metadataapp "github.com/cupcake/backend/internal/application/metadata"
	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/infrastructure/auth"
	"github.com/cupcake/backend/internal/infrastructure/cache"
	"github.com/cupcake/backend/internal/infrastructure/config"
	"github.com/cupcake/backend/internal/infrastructure/logger"
	"github.com/cupcake/backend/internal/infrastructure/persistence"
	"github.com/cupcake/backend/internal/infrastructure/storage"
	"github.com/cupcake/backend/internal/infrastructure/telemetry"
	"github.com/cupcake/backend/internal/interfaces/http/handler"
	"github.com/cupcake/backend/internal/interfaces/http/middleware"
	"github.com/cupcake/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting CUPCAKE Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with a zap-backed GORM logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize OpenTelemetry tracing and metrics
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Register database query tracing
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Register database query and pool metrics
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log)
	if err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	} else if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	// Token blacklist backed by Redis. The server keeps running without it,
	// but logout and force-logout lose their revocation guarantees.
	var tokenBlacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Token blacklist unavailable, token revocation disabled", zap.Error(err))
	} else {
		tokenBlacklist = redisBlacklist
	}

	// Site config cache, Redis with in-memory fallback
	var siteConfigCache accounts.SiteConfigCache
	redisCache, err := cache.NewRedisSiteConfigCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cache.WithCacheLogger(log))
	if err != nil {
		log.Warn("Redis site config cache unavailable, using in-memory cache", zap.Error(err))
		siteConfigCache = cache.NewInMemorySiteConfigCache()
	} else {
		siteConfigCache = redisCache
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing site config cache", zap.Error(err))
			}
		}()
	}

	// Object storage for schema definitions
	var objectStorage metadataapp.ObjectStorageService
	s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Warn("S3 object storage unavailable, schema definitions held in memory", zap.Error(err))
		objectStorage = storage.NewInMemoryObjectStorage()
	} else {
		objectStorage = s3Storage
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	labGroupRepo := persistence.NewGormLabGroupRepository(db.DB)
	invitationRepo := persistence.NewGormInvitationRepository(db.DB)
	mergeRequestRepo := persistence.NewGormMergeRequestRepository(db.DB)
	orcidProfileRepo := persistence.NewGormOrcidProfileRepository(db.DB)
	resourcePermRepo := persistence.NewGormResourcePermissionRepository(db.DB)
	siteConfigRepo := persistence.NewGormSiteConfigRepository(db.DB)
	schemaRepo := persistence.NewGormSchemaRepository(db.DB)
	tableRepo := persistence.NewGormTableRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	instrumentRepo := persistence.NewGormInstrumentRepository(db.DB)
	jobRepo := persistence.NewGormJobRepository(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := accountsapp.NewAuthService(userRepo, jwtService, tokenBlacklist, accountsapp.DefaultAuthServiceConfig(), log)
	userService := accountsapp.NewUserService(userRepo, siteConfigRepo, orcidProfileRepo, log)
	labGroupService := accountsapp.NewLabGroupService(labGroupRepo, userRepo, log)
	invitationService := accountsapp.NewInvitationService(invitationRepo, labGroupRepo, userRepo, log)
	mergeService := accountsapp.NewMergeService(mergeRequestRepo, userRepo, labGroupRepo, resourcePermRepo, orcidProfileRepo, log)
	siteConfigService := accountsapp.NewSiteConfigService(siteConfigRepo, userRepo, siteConfigCache, log)
	tableService := metadataapp.NewTableService(tableRepo, schemaRepo, jobRepo, userRepo, labGroupRepo, resourcePermRepo, log)
	schemaService := metadataapp.NewSchemaService(schemaRepo, userRepo, objectStorage, log)
	templateService := metadataapp.NewTemplateService(templateRepo, schemaRepo, userRepo, log)
	instrumentService := instrumentsapp.NewInstrumentService(instrumentRepo, userRepo, log)
	jobService := instrumentsapp.NewJobService(jobRepo, instrumentRepo, tableRepo, userRepo, log)

	// Platform domain metrics: login outcomes, job submissions, and a
	// periodically collected job backlog gauge
	if cfg.Telemetry.Enabled {
		platformMetrics, err := telemetry.NewPlatformMetrics(telemetry.PlatformMetricsConfig{
			Meter:       meterProvider.Meter("cupcake/platform"),
			Logger:      log,
			JobProvider: telemetry.NewGormJobMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Platform metrics unavailable", zap.Error(err))
		} else {
			authService.SetPlatformMetrics(platformMetrics)
			tableService.SetPlatformMetrics(platformMetrics)
			jobService.SetPlatformMetrics(platformMetrics)
			platformMetrics.StartPeriodicCollection(context.Background(), 5*time.Minute)
			defer platformMetrics.Stop()
		}
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	authHandler.EnableRefreshCookie(handler.RefreshCookieConfig{
		Domain:   cfg.Cookie.Domain,
		Path:     cfg.Cookie.Path,
		Secure:   cfg.Cookie.Secure,
		SameSite: sameSiteMode(cfg.Cookie.SameSite),
		MaxAge:   cfg.JWT.RefreshTokenExpiration,
	})
	userHandler := handler.NewUserHandler(userService)
	labGroupHandler := handler.NewLabGroupHandler(labGroupService)
	invitationHandler := handler.NewInvitationHandler(invitationService)
	mergeHandler := handler.NewMergeHandler(mergeService)
	siteConfigHandler := handler.NewSiteConfigHandler(siteConfigService)
	tableHandler := handler.NewMetadataTableHandler(tableService)
	schemaHandler := handler.NewSchemaHandler(schemaService)
	templateHandler := handler.NewTemplateHandler(templateService)
	instrumentHandler := handler.NewInstrumentHandler(instrumentService)
	jobHandler := handler.NewJobHandler(jobService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing/Metrics - OpenTelemetry instrumentation
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("cupcake/http"), true))
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Site configuration reads are public so login pages can brand themselves
	engine.GET("/api/v1/site-config/", siteConfigHandler.Get)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/token/",
			"/api/v1/auth/token/refresh/",
			"/api/v1/auth/token/verify/",
			"/api/v1/users/register/",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Tighter rate limit for credential endpoints (if enabled)
	obtainToken := []gin.HandlerFunc{authHandler.ObtainTokenPair}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRateLimit := middleware.RateLimitByKey(authLimiter, func(c *gin.Context) string {
			return c.ClientIP()
		})
		obtainToken = []gin.HandlerFunc{authRateLimit, authHandler.ObtainTokenPair}
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}

	// Authentication (Django-style token pair endpoints)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/token/", obtainToken...)
	authRoutes.POST("/token/refresh/", authHandler.RefreshTokenPair)
	authRoutes.POST("/token/verify/", authHandler.VerifyToken)
	authRoutes.POST("/logout/", authHandler.Logout)
	authRoutes.GET("/me/", authHandler.GetCurrentUser)
	authRoutes.PUT("/password/", authHandler.ChangePassword)

	// User administration
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.POST("/register/", userHandler.Register)
	userRoutes.GET("/", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.PUT("/:id/flags", userHandler.SetFlags)
	userRoutes.PUT("/:id/status", userHandler.SetStatus)
	userRoutes.POST("/:id/reset-password", userHandler.ResetPassword)
	userRoutes.POST("/:id/unlock", userHandler.Unlock)
	userRoutes.GET("/:id/orcid", userHandler.GetOrcid)
	userRoutes.POST("/:id/orcid", userHandler.LinkOrcid)
	userRoutes.DELETE("/:id/orcid", userHandler.UnlinkOrcid)
	userRoutes.POST("/:id/orcid/verify", userHandler.VerifyOrcid)
	userRoutes.POST("/:id/force-logout", authHandler.ForceLogout)

	// Lab groups and memberships
	labGroupRoutes := router.NewDomainGroup("lab-groups", "/lab-groups")
	labGroupRoutes.POST("/", labGroupHandler.Create)
	labGroupRoutes.GET("/", labGroupHandler.List)
	labGroupRoutes.GET("/:id", labGroupHandler.GetByID)
	labGroupRoutes.PUT("/:id", labGroupHandler.Update)
	labGroupRoutes.POST("/:id/move", labGroupHandler.Move)
	labGroupRoutes.DELETE("/:id", labGroupHandler.Delete)
	labGroupRoutes.GET("/:id/members", labGroupHandler.ListMembers)
	labGroupRoutes.POST("/:id/members", labGroupHandler.AddMember)
	labGroupRoutes.DELETE("/:id/members/:userID", labGroupHandler.RemoveMember)
	labGroupRoutes.PUT("/:id/permissions", labGroupHandler.SetPermission)
	labGroupRoutes.DELETE("/:id/permissions/:userID", labGroupHandler.RemovePermission)
	labGroupRoutes.GET("/:id/invitations", invitationHandler.ListForGroup)

	// Lab group invitations
	invitationRoutes := router.NewDomainGroup("lab-group-invitations", "/lab-group-invitations")
	invitationRoutes.POST("/", invitationHandler.Create)
	invitationRoutes.GET("/mine", invitationHandler.ListMine)
	invitationRoutes.DELETE("/:id", invitationHandler.Cancel)
	invitationRoutes.POST("/token/:token/accept", invitationHandler.Accept)
	invitationRoutes.POST("/token/:token/reject", invitationHandler.Reject)

	// Account merge requests
	mergeRoutes := router.NewDomainGroup("account-merge-requests", "/account-merge-requests")
	mergeRoutes.POST("/", mergeHandler.Request)
	mergeRoutes.GET("/pending", mergeHandler.ListPending)
	mergeRoutes.POST("/:id/review", mergeHandler.Review)
	mergeRoutes.POST("/:id/execute", mergeHandler.Execute)

	// Site configuration (writes only, reads are public above)
	siteConfigRoutes := router.NewDomainGroup("site-config", "/site-config")
	siteConfigRoutes.PUT("/", siteConfigHandler.Update)

	// SDRF metadata tables and columns
	tableRoutes := router.NewDomainGroup("metadata-tables", "/metadata-tables")
	tableRoutes.POST("/", tableHandler.Create)
	tableRoutes.GET("/", tableHandler.List)
	tableRoutes.GET("/:id", tableHandler.GetByID)
	tableRoutes.PUT("/:id", tableHandler.Update)
	tableRoutes.DELETE("/:id", tableHandler.Delete)
	tableRoutes.POST("/:id/publish", tableHandler.Publish)
	tableRoutes.POST("/:id/share", tableHandler.Share)
	tableRoutes.DELETE("/:id/share/:userID", tableHandler.Unshare)
	tableRoutes.POST("/:id/columns", tableHandler.AddColumn)
	tableRoutes.PUT("/:id/columns/:colID", tableHandler.UpdateColumn)
	tableRoutes.POST("/:id/columns/:colID/move", tableHandler.MoveColumn)
	tableRoutes.DELETE("/:id/columns/:colID", tableHandler.RemoveColumn)
	tableRoutes.POST("/:id/normalize", tableHandler.Normalize)
	tableRoutes.POST("/:id/reorder", tableHandler.Reorder)

	// Column schema registry
	schemaRoutes := router.NewDomainGroup("schemas", "/schemas")
	schemaRoutes.POST("/", schemaHandler.Create)
	schemaRoutes.GET("/", schemaHandler.List)
	schemaRoutes.GET("/:id", schemaHandler.GetByID)
	schemaRoutes.PUT("/:id/definition", schemaHandler.UpdateDefinition)
	schemaRoutes.POST("/:id/deactivate", schemaHandler.Deactivate)
	schemaRoutes.DELETE("/:id", schemaHandler.Delete)
	schemaRoutes.POST("/:id/increment-usage", schemaHandler.IncrementUsage)
	schemaRoutes.GET("/:id/download-url", schemaHandler.GetDownloadURL)
	schemaRoutes.POST("/rename-legacy", schemaHandler.RenameLegacySchemas)

	// Metadata table templates
	templateRoutes := router.NewDomainGroup("metadata-table-templates", "/metadata-table-templates")
	templateRoutes.POST("/", templateHandler.Create)
	templateRoutes.GET("/", templateHandler.ListMine)
	templateRoutes.GET("/default", templateHandler.GetDefault)
	templateRoutes.GET("/:id", templateHandler.GetByID)
	templateRoutes.PUT("/:id", templateHandler.Update)
	templateRoutes.DELETE("/:id", templateHandler.Delete)

	// Instrument registry
	instrumentRoutes := router.NewDomainGroup("instruments", "/instruments")
	instrumentRoutes.POST("/", instrumentHandler.Create)
	instrumentRoutes.GET("/", instrumentHandler.List)
	instrumentRoutes.GET("/:id", instrumentHandler.GetByID)
	instrumentRoutes.PUT("/:id", instrumentHandler.Update)
	instrumentRoutes.PUT("/:id/enabled", instrumentHandler.SetEnabled)
	instrumentRoutes.DELETE("/:id", instrumentHandler.Delete)

	// Instrument jobs and their state machine
	jobRoutes := router.NewDomainGroup("instrument-jobs", "/instrument-jobs")
	jobRoutes.POST("/", jobHandler.Create)
	jobRoutes.GET("/", jobHandler.List)
	jobRoutes.GET("/:id", jobHandler.GetByID)
	jobRoutes.PUT("/:id", jobHandler.Update)
	jobRoutes.DELETE("/:id", jobHandler.Delete)
	jobRoutes.POST("/:id/submit", jobHandler.Submit)
	jobRoutes.POST("/:id/accept", jobHandler.Accept)
	jobRoutes.POST("/:id/start", jobHandler.Start)
	jobRoutes.POST("/:id/complete", jobHandler.Complete)
	jobRoutes.POST("/:id/cancel", jobHandler.Cancel)
	jobRoutes.POST("/:id/assign", jobHandler.AssignStaff)
	jobRoutes.POST("/:id/unassign", jobHandler.UnassignStaff)
	jobRoutes.PUT("/:id/hours", jobHandler.SetBillableHours)
	jobRoutes.POST("/:id/metadata-table", jobHandler.AttachMetadataTable)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(authRoutes).
		Register(userRoutes).
		Register(labGroupRoutes).
		Register(invitationRoutes).
		Register(mergeRoutes).
		Register(siteConfigRoutes).
		Register(tableRoutes).
		Register(schemaRoutes).
		Register(templateRoutes).
		Register(instrumentRoutes).
		Register(jobRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// sameSiteMode maps the configured SameSite policy to its http constant
func sameSiteMode(policy string) http.SameSite {
	switch policy {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
