package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"skillxchange_backend/internal/config"
	"skillxchange_backend/internal/controller"
	"skillxchange_backend/internal/repository"
	"skillxchange_backend/internal/service"
	"skillxchange_backend/pkg/configwatcher"
	"skillxchange_backend/pkg/database"
	"skillxchange_backend/pkg/logger"
	"skillxchange_backend/pkg/monitoring"
	"skillxchange_backend/pkg/security"
	"skillxchange_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	scheduler       gocron.Scheduler
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	skill        *repository.SkillRepository
	resume       *repository.ResumeRepository
	connection   *repository.ConnectionRepository
	message      *repository.MessageRepository
	notification *repository.NotificationRepository
	learning     *repository.LearningRepository
	point        *repository.PointRepository
	rating       *repository.RatingRepository
	badge        *repository.BadgeRepository
	dailyLogin   *repository.DailyLoginRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	skill        *service.SkillService
	matcher      *service.MatcherService
	resume       *service.ResumeService
	connection   *service.ConnectionService
	message      *service.MessageService
	notification *service.NotificationService
	learning     *service.LearningService
	point        *service.PointService
	rating       *service.RatingService
	badge        *service.BadgeService
	streak       *service.StreakService
	storage      *service.StorageService
	meet         *service.MeetService
	hub          *service.RealtimeHub
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	skill        *controller.SkillController
	resume       *controller.ResumeController
	connection   *controller.ConnectionController
	message      *controller.MessageController
	notification *controller.NotificationController
	learning     *controller.LearningController
	streak       *controller.StreakController
	realtime     *controller.RealtimeController
	meet         *controller.MeetController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		skill:        repository.NewSkillRepository(db),
		resume:       repository.NewResumeRepository(db),
		connection:   repository.NewConnectionRepository(db, rdb),
		message:      repository.NewMessageRepository(db),
		notification: repository.NewNotificationRepository(db),
		learning:     repository.NewLearningRepository(db),
		point:        repository.NewPointRepository(db),
		rating:       repository.NewRatingRepository(db),
		badge:        repository.NewBadgeRepository(db),
		dailyLogin:   repository.NewDailyLoginRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	embedder := service.NewEmbeddingClient(&cfg.Embedding)

	s.hub = service.NewRealtimeHub(rdb)
	go s.hub.Run()

	s.notification = service.NewNotificationService(repos.notification, s.hub)

	s.point = service.NewPointService(repos.point)
	s.auth = service.NewAuthService(repos.user, repos.dailyLogin, s.point, cfg)
	s.user = service.NewUserService(repos.user, repos.skill)
	s.skill = service.NewSkillService(repos.skill, embedder)
	s.matcher = service.NewMatcherService(repos.user, embedder)
	s.resume = service.NewResumeService(repos.resume, repos.skill, s.skill, s.storage)
	s.connection = service.NewConnectionService(repos.connection, repos.user, s.notification)
	s.message = service.NewMessageService(repos.message, repos.user, s.connection, s.notification, s.storage, s.hub)
	s.badge = service.NewBadgeService(repos.badge, repos.learning, s.notification)
	s.learning = service.NewLearningService(repos.learning, repos.user, s.point, s.badge, s.notification)
	s.rating = service.NewRatingService(repos.rating, repos.learning, repos.user, s.notification)
	s.streak = service.NewStreakService(repos.dailyLogin)
	s.meet = service.NewMeetService(&cfg.Meet)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		skill:        controller.NewSkillController(s.skill, s.matcher),
		resume:       controller.NewResumeController(s.resume),
		connection:   controller.NewConnectionController(s.connection),
		message:      controller.NewMessageController(s.message),
		notification: controller.NewNotificationController(s.notification),
		learning:     controller.NewLearningController(s.learning, s.rating, s.badge, s.point, s.user),
		streak:       controller.NewStreakController(s.streak),
		realtime:     controller.NewRealtimeController(s.hub, a.Config),
		meet:         controller.NewMeetController(s.meet),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 每天凌晨对全量用户补发徽章，兜底实时发放的遗漏
func (a *App) startBackgroundTasks(s *services) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		logger.Log.Error("failed to create scheduler", zap.Error(err))
		return
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			if _, err := s.badge.Reconcile(); err != nil {
				logger.Log.Error("badge reconciliation error", zap.Error(err))
			}
		}),
	)
	if err != nil {
		logger.Log.Error("failed to schedule badge reconciliation", zap.Error(err))
		return
	}

	sched.Start()
	a.scheduler = sched
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.MigrateOnly {
		log.Println("Migration completed, exiting (migrate-only mode)")
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("skillxchange", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	// 配置热更新: 改动 configs/config.yaml 后通知已注册的回调
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		updated, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		app.Config = updated
		for _, cb := range app.configCallbacks {
			cb(updated)
		}
		logger.Log.Info("Configuration reloaded")
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 清理 WebSocket连接和Redis在线状态
	if a.services != nil && a.services.hub != nil {
		a.services.hub.Stop()
	}

	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			logger.Log.Error("scheduler shutdown error", zap.Error(err))
		}
	}

	// 关闭服务
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
