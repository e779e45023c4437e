package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"kiosco_pos_backend/internal/config"
	"kiosco_pos_backend/internal/database"
	"kiosco_pos_backend/internal/router"
	"kiosco_pos_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Initialize Logger
	utils.InitLogger()

	cfg, err := config.Load(utils.Getenv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	utils.LogInfo("Database initialized", map[string]interface{}{"host": cfg.Database.Host, "name": cfg.Database.Name})

	engine := gin.New()
	engine.Use(gin.Recovery())

	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())

	// CORS configuration
	allowedOrigins := cfg.CORS.AllowedOrigins
	if env := os.Getenv("CORS_ALLOWED_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup all application routes
	router.Setup(engine, db)

	utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Server.Port})
	if err := engine.Run(":" + cfg.Server.Port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
