package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"studycycle/internal/api/auth"
	"studycycle/internal/api/middleware"
	"studycycle/internal/api/scheduler"
	"studycycle/internal/config"
	"studycycle/internal/model"
	"studycycle/internal/pkg/apperr"
	"studycycle/internal/pkg/metrics"
	"studycycle/internal/pkg/ratelimit"
	"studycycle/internal/review"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Server 封装了 API 服务所需的依赖和路由处理。
//
// 它持有数据库连接、Redis 客户端（限流用）以及 Gin 路由引擎。
// 数据库句柄显式注入到各组件，不使用全局单例。
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *gorm.DB
	rdb     *redis.Client
	router  *gin.Engine
	auth    *auth.Handler
	limiter *ratelimit.Limiter
	studies StudyStore
}

// StudyStore 学习记录及其复习联动的存储接口。
type StudyStore interface {
	CreateSession(ctx context.Context, session *model.StudySession) error
	UpdateSession(ctx context.Context, userID, sessionID uint, patch review.SessionPatch) (*model.StudySession, error)
	DeleteSession(ctx context.Context, userID, sessionID uint) error
	Complete(ctx context.Context, userID, reviewID uint) (*model.Review, error)
	Undo(ctx context.Context, userID, reviewID uint) (*model.Review, error)
}

// NewServer 初始化 API 服务器。
//
// 它负责：
// 1. 连接 MySQL 数据库并执行自动迁移
// 2. 连接 Redis（认证限流）
// 3. 初始化 Gin 路由引擎
//
// 参数:
//
//	ctx: 上下文
//	cfg: 配置对象
//	logger: 日志记录器
//
// 返回值:
//
//	*Server: 初始化完成的服务器实例
//	error: 初始化失败返回错误
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent), // 关闭GORM调试日志
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Cycle{}, &model.CycleSubject{}, &model.StudySession{}, &model.Review{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	metrics.InitMetrics()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		rdb:     rdb,
		router:  r,
		auth:    auth.NewHandler(db, cfg.Security.JWTSecret, cfg.Security.AccessTokenTTL, cfg.Security.RefreshTokenTTL, logger),
		limiter: ratelimit.NewRedisLimiter(rdb, logger, cfg.Security.AuthRateLimit, cfg.Security.AuthRateBurst),
		studies: review.NewStore(db),
	}
	s.registerRoutes()
	return s, nil
}

// StartScheduler 启动后台指标刷新循环（到期复习数 gauge）。
func (s *Server) StartScheduler(ctx context.Context) {
	sched := scheduler.NewScheduler(s.db, s.logger, time.Minute)
	go sched.Run(ctx)
}

// Run 启动 HTTP 服务器并开始监听请求。
func (s *Server) Run() error {
	s.logger.Info("api server listening", slog.String("addr", s.cfg.App.HTTPAddr))
	return s.router.Run(s.cfg.App.HTTPAddr)
}

// Router 返回 HTTP 路由处理器。
func (s *Server) Router() http.Handler {
	return s.router
}

// Close 关闭数据库与 Redis 连接。
func (s *Server) Close() error {
	var firstErr error
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			firstErr = err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else {
			if closeErr := sqlDB.Close(); closeErr != nil {
				if firstErr == nil {
					firstErr = closeErr
				}
			}
		}
	}
	return firstErr
}

// registerRoutes 注册所有的 API 路由。
func (s *Server) registerRoutes() {
	// Prometheus metrics 端点
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/healthz", s.handleHealthz)

	authGroup := s.router.Group("/auth")
	authGroup.Use(middleware.RateLimit(s.limiter))
	authGroup.POST("/signup", s.auth.Signup)
	authGroup.POST("/login", s.auth.Login)
	authGroup.POST("/refresh", s.auth.Refresh)

	authed := s.router.Group("/api")
	authed.Use(middleware.AuthMiddleware(s.cfg.Security.JWTSecret))
	authed.GET("/cycles", s.handleListCycles)
	authed.POST("/cycles", s.handleCreateCycle)
	authed.PUT("/cycles/:id", s.handleUpdateCycle)
	authed.DELETE("/cycles/:id", s.handleDeleteCycle)
	authed.GET("/studies", s.handleListStudies)
	authed.POST("/studies", s.handleCreateStudy)
	authed.PUT("/studies/:id", s.handleUpdateStudy)
	authed.DELETE("/studies/:id", s.handleDeleteStudy)
	authed.GET("/reviews", s.handleListReviews)
	authed.POST("/reviews/:id/complete", s.handleCompleteReview)
	authed.POST("/reviews/:id/undo", s.handleUndoReview)
	authed.GET("/subject/:name", s.handleSubjectDetail)
	authed.GET("/subjects", s.handleListSubjects)
	authed.GET("/dashboard", s.handleDashboard)
	authed.GET("/analytics/summary", s.handleAnalyticsSummary)
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError 按错误类别返回 HTTP 响应，内部错误只记日志不外泄细节。
func (s *Server) writeError(c *gin.Context, err error, logMsg string) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError && s.logger != nil {
		s.logger.Error(logMsg, slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

// parseIDParam 解析路径中的数字 ID。
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func getUserID(c *gin.Context) uint {
	return c.GetUint("userID")
}
