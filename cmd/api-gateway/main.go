package main

import (
	"fmt"
	"log"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campusforge/ttcore/internal/dto"
	internalhandler "github.com/campusforge/ttcore/internal/handler"
	"github.com/campusforge/ttcore/internal/integrity"
	"github.com/campusforge/ttcore/internal/metrics"
	internalmiddleware "github.com/campusforge/ttcore/internal/middleware"
	"github.com/campusforge/ttcore/internal/repository"
	"github.com/campusforge/ttcore/pkg/cache"
	"github.com/campusforge/ttcore/pkg/config"
	"github.com/campusforge/ttcore/pkg/database"
	"github.com/campusforge/ttcore/pkg/logger"
	corsmiddleware "github.com/campusforge/ttcore/pkg/middleware/cors"
	reqidmiddleware "github.com/campusforge/ttcore/pkg/middleware/requestid"
	"github.com/campusforge/ttcore/pkg/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	var reportCache *repository.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, integrity reports will not be cached", "error", err)
	} else {
		defer redisClient.Close()
		reportCache = repository.NewCacheRepository(redisClient, logr)
	}

	reader := repository.NewEntityReader(db)

	metricsSvc := metrics.NewService()

	verifier := integrity.NewVerifier(cfg.Integrity.MinCompletenessScore)
	integritySvc := integrity.NewService(verifier, reportCache, cfg.Scheduler.SnapshotCacheTTL).WithMetrics(metricsSvc)

	validate := validator.New()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) { c.Status(200) })
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	if cfg.Env != config.EnvProduction {
		registerPprof(r)
	}

	api := r.Group(cfg.APIPrefix)

	normalizationHandler := internalhandler.NewNormalizationHandler(validate, metricsSvc, cfg.Normalization.FacultyThreshold, cfg.Normalization.CourseThreshold)
	normalizationGroup := api.Group("/normalization")
	normalizationGroup.POST("/analyze", normalizationHandler.Analyze)
	normalizationGroup.POST("/apply-confirmations", normalizationHandler.ApplyConfirmations)

	uploadHandler := internalhandler.NewUploadHandler(upload.CSVParser{})
	api.POST("/upload", uploadHandler.Upload)
	api.POST("/upload/validate/:kind", uploadHandler.ValidateRow)

	verificationHandler := internalhandler.NewVerificationHandler(reader, integritySvc, dto.VerificationConfigResponse{
		MinHealthScore:   cfg.Integrity.MinCompletenessScore,
		FacultyThreshold: cfg.Normalization.FacultyThreshold,
		CourseThreshold:  cfg.Normalization.CourseThreshold,
	})
	verificationGroup := api.Group("/verification")
	verificationGroup.GET("/verify", verificationHandler.Verify)
	verificationGroup.GET("/config", verificationHandler.Config)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func registerPprof(r *gin.Engine) {
	group := r.Group("/debug/pprof")
	group.GET("/", gin.WrapF(pprof.Index))
	group.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	group.GET("/profile", gin.WrapF(pprof.Profile))
	group.POST("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/trace", gin.WrapF(pprof.Trace))
	group.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
}
