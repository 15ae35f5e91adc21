package app

import (
	"context"
	"time"

	"go-hrportal/internal/attachment"
	"go-hrportal/internal/declaration"
	"go-hrportal/internal/employee"
	"go-hrportal/internal/messaging/kafka"
	"go-hrportal/internal/middleware"
	"go-hrportal/internal/rbac"
	"go-hrportal/internal/shared/connection"
	"go-hrportal/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, connectRetries)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	cloudinary, err := storage.NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	if err != nil {
		return err
	}
	store := storage.NewRetrying(cloudinary, storage.DefaultRetryConfig())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(zap.L()),
		middleware.RateLimitByIP(rate.Limit(cfg.IPRateLimit), cfg.IPRateBurst),
	)

	return registerModules(router, gormDB, redisClient, store)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&employee.Employee{},
		&declaration.Declaration{},
		&attachment.Attachment{},
		&rbac.RolePermission{},
		&kafka.OutboxRecord{},
	)
}

func loadRBAC(ctx context.Context, svc rbac.Service) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return svc.Load(ctx)
}
