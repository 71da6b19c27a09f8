package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"resilience_assessment/internal/config"
	"resilience_assessment/internal/controller"
	"resilience_assessment/internal/questionnaire"
	"resilience_assessment/internal/repository"
	"resilience_assessment/internal/service"
	"resilience_assessment/pkg/database"
	"resilience_assessment/pkg/logger"
	"resilience_assessment/pkg/monitoring"
	"resilience_assessment/pkg/security"
	"resilience_assessment/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	assessment *repository.AssessmentRepository
	cache      *repository.SessionCache
}

type services struct {
	storage *service.StorageService
	session *service.SessionService
}

type controllers struct {
	assessment *controller.AssessmentController
	report     *controller.ReportController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新时调用已注册的回调
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		assessment: repository.NewAssessmentRepository(db),
		cache:      repository.NewSessionCache(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, def *questionnaire.Definition) *services {
	s := &services{}
	s.storage = service.NewStorageService(cfg)
	s.session = service.NewSessionService(repos.assessment, repos.cache, def, s.storage, cfg)
	return s
}

func (a *App) initControllers(s *services, def *questionnaire.Definition, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		assessment: controller.NewAssessmentController(s.session, def, a.Config),
		report:     controller.NewReportController(s.session, a.Config),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	// 缓存不可用时退化为直接查库
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, session status cache disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	def, err := questionnaire.Load(cfg.Questionnaire.Path)
	if err != nil {
		logger.Log.Fatal("Failed to load questionnaire", zap.Error(err))
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, def)
	controllers := app.initControllers(services, def, db, rdb)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		cfg.ApplyReloadable(newCfg)
		logger.Log.Info("Runtime config updated",
			zap.String("artifact", cfg.ExportArtifact()),
			zap.Bool("archive_reports", cfg.ArchiveReports()))
	})

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
