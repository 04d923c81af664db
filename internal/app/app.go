package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"habitloop_backend/internal/config"
	"habitloop_backend/internal/controller"
	"habitloop_backend/internal/repository"
	"habitloop_backend/internal/service"
	"habitloop_backend/pkg/database"
	"habitloop_backend/pkg/logger"
	"habitloop_backend/pkg/monitoring"
	"habitloop_backend/pkg/security"
	"habitloop_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user       *repository.UserRepository
	habit      *repository.HabitRepository
	checkIn    *repository.CheckInRepository
	feed       *repository.FeedRepository
	friendship *repository.FriendshipRepository
	gate       *repository.GateRepository
	motivation *repository.MotivationRepository
	chat       *repository.ChatRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	user       *service.UserService
	habit      *service.HabitService
	gate       *service.GateService
	feed       *service.FeedService
	friendship *service.FriendshipService
	motivation *service.MotivationService
	dashboard  *service.DashboardService
	chat       *service.ChatService
	chatHub    *service.ChatHub
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	habit      *controller.HabitController
	gate       *controller.GateController
	feed       *controller.FeedController
	friendship *controller.FriendshipController
	motivation *controller.MotivationController
	dashboard  *controller.DashboardController
	chat       *controller.ChatController
	health     *controller.HealthController
}

// ApplyConfig 热加载可在线生效的配置项。数据库、端口等
// 需要重启的配置不在此列。
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config.ApplyReloadable(cfg)
	logger.Log.Info("Config reloaded",
		zap.String("gateAppHost", cfg.Gate.AppHost),
		zap.String("timezone", cfg.Server.Timezone))
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		habit:      repository.NewHabitRepository(db),
		checkIn:    repository.NewCheckInRepository(db),
		feed:       repository.NewFeedRepository(db),
		friendship: repository.NewFriendshipRepository(db, rdb),
		gate:       repository.NewGateRepository(db, rdb),
		motivation: repository.NewMotivationRepository(db),
		chat:       repository.NewChatRepository(db, rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.habit, repos.friendship, s.storage, cfg)
	s.habit = service.NewHabitService(repos.habit, repos.checkIn, db, cfg)
	s.gate = service.NewGateService(repos.gate, s.habit, cfg)
	s.feed = service.NewFeedService(repos.feed, repos.checkIn, repos.habit, repos.friendship, cfg)
	s.friendship = service.NewFriendshipService(repos.friendship, repos.user)
	s.motivation = service.NewMotivationService(repos.motivation)
	s.dashboard = service.NewDashboardService(s.habit, s.feed, s.motivation, cfg)

	s.chatHub = service.NewChatHub(rdb, repos.chat, repos.friendship)
	go s.chatHub.Run()

	s.chat = service.NewChatService(repos.chat, repos.friendship)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		user:       controller.NewUserController(s.user),
		habit:      controller.NewHabitController(s.habit, s.storage),
		gate:       controller.NewGateController(s.gate),
		feed:       controller.NewFeedController(s.feed),
		friendship: controller.NewFriendshipController(s.friendship, s.chatHub),
		motivation: controller.NewMotivationController(s.motivation),
		dashboard:  controller.NewDashboardController(s.dashboard),
		chat:       controller.NewChatController(s.chat, s.chatHub),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 6000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("habitloop", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

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

	// 清理 WebSocket 连接和 Redis 在线状态
	if a.services != nil && a.services.chatHub != nil {
		a.services.chatHub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
