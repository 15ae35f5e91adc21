package app

import (
	"context"

	"go-hrportal/internal/attachment"
	"go-hrportal/internal/declaration"
	"go-hrportal/internal/employee"
	"go-hrportal/internal/messaging/kafka"
	"go-hrportal/internal/rbac"
	"go-hrportal/internal/rbac/infra"
	"go-hrportal/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
	store storage.ObjectStorage,
) error {
	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	declarationRepo := declaration.NewRepository(gormDB)
	attachmentRepo := attachment.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	if err := loadRBAC(context.Background(), rbacService); err != nil {
		return err
	}

	// --- Services ---
	directory := employee.NewDirectory(employeeRepo)
	declarationService := declaration.NewService(db, declarationRepo, attachmentRepo, directory, store, outboxRepo, nil)

	// --- Handlers ---
	declarationHandler := declaration.NewHandler(declarationService, rdb)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		declaration.RegisterRoutes(api, declarationHandler, rbacService, rdb)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return nil
}
