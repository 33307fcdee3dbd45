package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"campaign-platform/bootstrap"
	"campaign-platform/common"
	"campaign-platform/config"
	"campaign-platform/database"
	"campaign-platform/middleware"
	applicationAPI "campaign-platform/modules/application/delivery/api"
	applicationRepo "campaign-platform/modules/application/repository"
	applicationUC "campaign-platform/modules/application/usecase"
	authAPI "campaign-platform/modules/auth/delivery/api"
	authRepo "campaign-platform/modules/auth/repository"
	authUC "campaign-platform/modules/auth/usecase"
	campaignAPI "campaign-platform/modules/campaign/delivery/api"
	campaignRepo "campaign-platform/modules/campaign/repository"
	campaignUC "campaign-platform/modules/campaign/usecase"
	categoryAPI "campaign-platform/modules/category/delivery/api"
	categoryRepo "campaign-platform/modules/category/repository"
	categoryUC "campaign-platform/modules/category/usecase"
	dashboardAPI "campaign-platform/modules/dashboard/delivery/api"
	dashboardUC "campaign-platform/modules/dashboard/usecase"
	draftAPI "campaign-platform/modules/draft/delivery/api"
	draftRepo "campaign-platform/modules/draft/repository"
	draftUC "campaign-platform/modules/draft/usecase"
	emailRepo "campaign-platform/modules/email/repository"
	emailUC "campaign-platform/modules/email/usecase"
	profileAPI "campaign-platform/modules/profile/delivery/api"
	profileRepo "campaign-platform/modules/profile/repository"
	profileUC "campaign-platform/modules/profile/usecase"
	uploadAPI "campaign-platform/modules/upload/delivery/api"
	uploadUC "campaign-platform/modules/upload/usecase"
	"campaign-platform/pkg/cache"
	"campaign-platform/pkg/email"
	"campaign-platform/pkg/log"
	"campaign-platform/pkg/upload"
	"campaign-platform/validator"

	"github.com/gin-gonic/gin"
)

func newLogger(cfg config.Config) (log.Logger, error) {
	lc := cfg.Logger()
	var logCfg log.Config
	switch {
	case lc.Output() == "file":
		logCfg = log.FileConfig(
			cfg.App().Name(),
			cfg.App().Version(),
			lc.LogLevel(),
			lc.LogFilePath(),
			lc.LogFileName(),
			lc.MaxFileSizeMB(),
			lc.MaxFileAgeDays(),
			lc.MaxBackupFiles(),
		)
		logCfg.CompressRotated = lc.IsCompressEnabled()
	case cfg.App().IsProduction():
		logCfg = log.ProductionConfig(cfg.App().Name(), cfg.App().Version())
		logCfg.OutputPath = lc.Output()
	default:
		logCfg = log.DevelopmentConfig()
		logCfg.ServiceName = cfg.App().Name()
		logCfg.Version = cfg.App().Version()
		logCfg.OutputPath = lc.Output()
	}
	if lc.LogLevel() != "" {
		logCfg.Level = lc.LogLevel()
	}
	if lc.Format() != "" {
		logCfg.Format = lc.Format()
	}
	logCfg.Environment = cfg.App().Environment()
	return log.NewZapLogger(logCfg)
}

func main() {
	envPath := flag.String("env-file", "", "ENV config file path")
	yamlPath := flag.String("config", "./config/config.yml", "YAML config file path")
	flag.Usage = config.Usage(flag.CommandLine.Output(), flag.Usage)
	flag.Parse()

	sources := config.Sources{Files: []string{*yamlPath}, EnvFile: *envPath}
	fmt.Printf("App is starting with %s\n", sources)

	cfg, err := config.Load(sources)
	if err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}
	if err = config.Validate(cfg); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(fmt.Errorf("failed to create logger: %w", err))
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Printf("Failed to sync logger: %v\n", err)
		}
	}()

	loggerAdapter := common.NewLoggerAdapter(logger)
	common.SetLogger(loggerAdapter)
	log.SetDefaultLogger(logger)
	validator.RegisterValidatorWithGin()

	logger.Info("Application starting",
		log.String("name", cfg.App().Name()),
		log.String("version", cfg.App().Version()),
		log.String("environment", cfg.App().Environment()),
		log.String("config_path", *yamlPath),
	)

	db, err := database.Connect(cfg.Database(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", log.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database", log.Error(err))
		}
	}()

	if err = database.MigrateDB(db); err != nil {
		logger.Fatal("Failed to migrate database", log.Error(err))
	}
	logger.Info("Database connected and migrated", log.String("driver", cfg.Database().Driver()))

	cacheClient, err := cache.NewCacheFactory(loggerAdapter).CreateCache(cache.Provider(cfg.Cache().Provider()), &cache.Config{
		Host:       cfg.Redis().Host(),
		Port:       cfg.Redis().Port(),
		Password:   cfg.Redis().Password(),
		DB:         cfg.Redis().DB(),
		Prefix:     cfg.Redis().Prefix(),
		DefaultTTL: cfg.Cache().DefaultTTL(),
	})
	if err != nil {
		logger.Fatal("Failed to create cache", log.String("provider", cfg.Cache().Provider()), log.Error(err))
	}
	defer cacheClient.Close()
	logger.Info("Cache ready", log.String("provider", cfg.Cache().Provider()))

	emailClient, err := email.NewEmailFactory(loggerAdapter).CreateClient(email.Provider(cfg.Email().Provider()), &email.Config{
		DefaultFrom:    cfg.Email().DefaultFrom(),
		FromName:       cfg.Email().FromName(),
		SESRegion:      cfg.Email().SESRegion(),
		SESAccessKey:   cfg.Email().SESAccessKey(),
		SESSecretKey:   cfg.Email().SESSecretKey(),
		SendGridAPIKey: cfg.Email().SendGridAPIKey(),
		MaxRetries:     cfg.Email().MaxRetries(),
		RetryDelay:     cfg.Email().RetryDelay(),
	})
	if err != nil {
		logger.Fatal("Failed to create email client", log.String("provider", cfg.Email().Provider()), log.Error(err))
	}

	emailTemplates, err := bootstrap.EmailTemplates()
	if err != nil {
		logger.Fatal("Failed to load email templates", log.Error(err))
	}

	uploader, err := upload.New(upload.Provider(cfg.Upload().Provider()), &upload.Config{
		MaxParallel:   cfg.Upload().MaxParallel(),
		LocalDir:      cfg.Upload().LocalDir(),
		PublicBaseURL: cfg.Upload().PublicBaseURL(),
		S3AccessKey:   cfg.Upload().S3AccessKey(),
		S3SecretKey:   cfg.Upload().S3SecretKey(),
		S3EndpointURL: cfg.Upload().S3EndpointURL(),
		S3BucketName:  cfg.Upload().S3BucketName(),
		S3PathPrefix:  cfg.Upload().S3PathPrefix(),
		S3Region:      cfg.Upload().S3Region(),
	})
	if err != nil {
		logger.Fatal("Failed to create uploader", log.String("provider", cfg.Upload().Provider()), log.Error(err))
	}

	// Repositories
	identityRepository := authRepo.NewIdentityRepository(db)
	sessionRepository := authRepo.NewUserSessionRepository(db)
	profileRepository := profileRepo.NewProfileRepository(db)
	brandRepository := profileRepo.NewBrandRepository(db)
	categoryRepository := categoryRepo.NewCategoryRepository(db)
	campaignRepository := campaignRepo.NewCampaignRepository(db)
	productRepository := campaignRepo.NewProductRepository(db)
	pricingRepository := campaignRepo.NewPricingRepository(db)
	applicationRepository := applicationRepo.NewApplicationRepository(db)
	emailLogRepository := emailRepo.NewEmailLogRepository(db)
	draftStore := draftRepo.NewDraftStore(cacheClient, cfg.Draft().TTL())

	transactor := database.NewTransactor(db)
	hasher := common.NewBcryptHasher()
	jwtProvider := common.NewJWTProvider(cfg.App())

	// Usecases
	emailUsecase := emailUC.NewEmailUsecase(
		emailLogRepository,
		emailTemplates,
		emailClient,
		cfg.Email().Provider(),
		emailUC.NewTemplateRenderer(logger),
		logger,
	)
	profileUsecase := profileUC.NewProfileUsecase(profileRepository, brandRepository, transactor, logger)
	authUsecase := authUC.NewAuthUsecase(
		identityRepository,
		sessionRepository,
		profileUsecase,
		transactor,
		emailUsecase,
		jwtProvider,
		hasher,
		cfg.App(),
		logger,
	)
	categoryUsecase := categoryUC.NewCategoryUsecase(categoryRepository, cacheClient, cfg.Cache().CategoryTTL(), logger)
	draftUsecase := draftUC.NewDraftUsecase(draftStore, brandRepository, categoryUsecase, cfg.Draft(), logger)
	campaignUsecase := campaignUC.NewCampaignUsecase(
		campaignRepository,
		productRepository,
		pricingRepository,
		draftStore,
		categoryUsecase,
		transactor,
		cacheClient,
		cfg.Draft(),
		logger,
	)
	applicationUsecase := applicationUC.NewApplicationUsecase(applicationRepository, campaignRepository, logger)
	dashboardUsecase := dashboardUC.NewDashboardUsecase(
		profileUsecase,
		identityRepository,
		brandRepository,
		campaignRepository,
		applicationRepository,
		logger,
	)
	uploadUsecase := uploadUC.NewUploadUsecase(uploader, cfg.Upload(), logger)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	logger.Info("Seeding",
		log.Bool("categories", cfg.Seed().Categories()),
		log.Bool("super_admin", cfg.Seed().SuperAdminEmail() != ""),
	)
	if cfg.Seed().Categories() {
		if err := bootstrap.SeedCategories(seedCtx, categoryRepository, logger); err != nil {
			logger.Error("Failed to seed categories", log.Error(err))
		}
	}
	if err := bootstrap.SeedSuperAdmin(seedCtx, bootstrap.SuperAdmin{
		Email:    cfg.Seed().SuperAdminEmail(),
		Password: cfg.Seed().SuperAdminPassword(),
		Name:     cfg.Seed().SuperAdminName(),
	}, identityRepository, profileUsecase, hasher, transactor, logger); err != nil {
		logger.Error("Failed to seed super admin", log.Error(err))
	}
	cancelSeed()

	middlewares := middleware.NewMiddlewares(middleware.Dependencies{
		Cache:                  cacheClient,
		Logger:                 logger,
		JwtProvider:            jwtProvider,
		SessionRepo:            sessionRepository,
		IdentityRepo:           identityRepository,
		ProfileRepo:            profileRepository,
		RateLimitPerMinute:     cfg.Server().RateLimitPerMinute(),
		AuthRateLimitPerMinute: cfg.Server().AuthRateLimitPerMinute(),
	})

	gin.DisableConsoleColor()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	corsConfig := middleware.DefaultCORSConfig()
	if origins := cfg.Server().AllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	}
	r.Use(middlewares.CORSWithLogger(corsConfig))
	r.Use(middlewares.RequestIDMiddleware())
	r.Use(middlewares.AuthRateLimits())
	r.Use(middlewares.LoggingMiddleware(middleware.LoggerConfig{
		SkipPaths: []string{"/health"},
	}))
	r.Use(gin.Recovery())

	apiGroup := r.Group("/api/v1")
	authAPI.NewAuthHandler(authUsecase, middlewares).RegisterRoutes(apiGroup)
	profileAPI.NewProfileHandler(profileUsecase, middlewares).RegisterRoutes(apiGroup)
	categoryAPI.NewCategoryHandler(categoryUsecase).RegisterRoutes(apiGroup)
	draftAPI.NewDraftHandler(draftUsecase, middlewares).RegisterRoutes(apiGroup)
	campaignAPI.NewCampaignHandler(campaignUsecase, middlewares).RegisterRoutes(apiGroup)
	applicationAPI.NewApplicationHandler(applicationUsecase, middlewares).RegisterRoutes(apiGroup)
	dashboardAPI.NewDashboardHandler(dashboardUsecase, middlewares).RegisterRoutes(apiGroup)
	uploadAPI.NewUploadHandler(uploadUsecase, middlewares).RegisterRoutes(apiGroup)

	if upload.Provider(cfg.Upload().Provider()) == upload.Local && strings.HasPrefix(cfg.Upload().PublicBaseURL(), "/") {
		r.Static(cfg.Upload().PublicBaseURL(), cfg.Upload().LocalDir())
	}

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		status := http.StatusOK
		body := gin.H{"status": "ok", "timestamp": time.Now().Unix()}
		if err := cacheClient.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["cache"] = err.Error()
		}
		c.JSON(status, body)
	})

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server().Host(), cfg.Server().Port()),
		Handler:        r,
		ReadTimeout:    cfg.Server().ReadTimeout(),
		WriteTimeout:   cfg.Server().WriteTimeout(),
		IdleTimeout:    cfg.Server().IdleTimeout(),
		MaxHeaderBytes: cfg.Server().MaxHeaderBytes(),
	}

	go func() {
		logger.Info("Starting HTTP server",
			log.Int("port", cfg.Server().Port()),
			log.String("host", cfg.Server().Host()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", log.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", log.Error(err))
	} else {
		logger.Info("Server exited gracefully")
	}
}
