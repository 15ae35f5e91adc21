package declaration

import (
	"go-hrportal/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	rbacResource = "declaration"

	userRequestsPerSecond = 10
	userBurst             = 30
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	idempotent := func(c *gin.Context) { c.Next() }
	if rdb != nil {
		idempotent = middleware.Idempotency(rdb)
	}

	limitByUser := middleware.RateLimitByUser(rate.Limit(userRequestsPerSecond), userBurst)

	single := r.Group("/declaration")
	single.Use(middleware.AuthMiddleware(), limitByUser)
	{
		single.POST("",
			middleware.RBACAuthorize(rbacService, rbacResource, "save"),
			idempotent,
			handler.Save,
		)
		single.POST("/submit",
			middleware.RBACAuthorize(rbacService, rbacResource, "submit"),
			idempotent,
			handler.Submit,
		)
		single.GET("/employee", middleware.RBACAuthorize(rbacService, rbacResource, "read"), handler.GetByEmployee)
		single.PUT("/approve", middleware.RBACAuthorize(rbacService, rbacResource, "approve"), handler.Approve)
		single.PUT("/reject", middleware.RBACAuthorize(rbacService, rbacResource, "reject"), handler.Reject)

		single.GET("/:id", middleware.RBACAuthorize(rbacService, rbacResource, "read"), handler.GetByID)
		single.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbacResource, "delete"), handler.Delete)

		single.POST("/:id/upload-document",
			middleware.RBACAuthorize(rbacService, rbacResource, "upload"),
			idempotent,
			handler.UploadDocument,
		)
		single.GET("/:id/documents", middleware.RBACAuthorize(rbacService, rbacResource, "read"), handler.ListDocuments)
		single.DELETE("/:id/documents/:documentId", middleware.RBACAuthorize(rbacService, rbacResource, "upload"), handler.DeleteDocument)
		single.GET("/:id/form12bb", middleware.RBACAuthorize(rbacService, rbacResource, "render"), handler.DownloadForm12BB)
	}

	all := r.Group("/declarations")
	all.Use(middleware.AuthMiddleware(), limitByUser)
	{
		all.GET("/all", middleware.RBACAuthorize(rbacService, rbacResource, "read"), handler.List)
	}
}
