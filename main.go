package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	config "github.com/ansarhub/donation-tracker-go/config"
	routes "github.com/ansarhub/donation-tracker-go/routes"
	utils "github.com/ansarhub/donation-tracker-go/utils"
)

func main() {
	utils.InitLogger(os.Getenv("LOG_LEVEL"))
	defer utils.Logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		utils.Logger.Fatal("startup failed", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := cfg.MongoClient.Disconnect(ctx); err != nil {
			utils.Logger.Error("error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	utils.Logger.Info("connected to MongoDB", zap.String("db", cfg.DBName))

	r := gin.Default()

	// Project bodies can carry up to 5 base64 images at 2MB each.
	r.MaxMultipartMemory = 16 << 20

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = false
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowAllOrigins = false
		corsConfig.AllowOrigins = []string{origins}
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	routes.SetupRoutes(r, cfg)

	utils.Logger.Info("server running", zap.String("port", cfg.Port))
	if err := r.Run("0.0.0.0:" + cfg.Port); err != nil {
		utils.Logger.Fatal("server stopped", zap.Error(err))
	}
}
