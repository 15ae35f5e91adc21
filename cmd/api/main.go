package main

import (
	"os"

	"go-hrportal/internal/app"
	"go-hrportal/internal/bootstrap"
	"go-hrportal/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := bootstrap.NewLogger("api")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	if err := app.BuildApp(r); err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	cfg := bootstrap.DefaultServerConfig(os.Getenv("PORT"))
	if err := bootstrap.StartHTTPServer(r, cfg, bootstrap.NewStdoutAuditLogger(logger)); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}
