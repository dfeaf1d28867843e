// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"dtmap-back/internal/config"
	"dtmap-back/internal/converter"
	"dtmap-back/internal/database"
	"dtmap-back/internal/handlers"
	"dtmap-back/internal/logging"
	"dtmap-back/internal/middleware"
	"dtmap-back/internal/storage"
	"dtmap-back/internal/store"
	"dtmap-back/internal/workspace"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger, err := logging.New(os.Getenv("GIN_MODE") != "release")
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB()
	if err != nil {
		logger.Fatalw("Failed to connect to database", "error", err)
	}
	if err := database.MigrateDB(db); err != nil {
		logger.Fatalw("Failed to migrate database", "error", err)
	}

	minioClient, err := storage.NewMinIOClient()
	if err != nil {
		logger.Fatalw("Failed to initialize MinIO client", "error", err)
	}

	ws, err := workspace.NewManager(cfg.UploadDir)
	if err != nil {
		logger.Fatalw("Failed to prepare upload directory", "error", err)
	}

	invoker := &converter.Blender{
		Bin:     cfg.BlenderBin,
		Script:  cfg.BlenderScript,
		Timeout: cfg.ConvertTimeout,
	}

	registry := store.NewRegistryStore(db, logger)
	scenes := store.NewSceneStore(db, logger)

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Converted artifacts and registered models are served straight from the
	// upload root, matching the URLs the API hands out.
	r.Static(cfg.FilesPrefix, cfg.UploadDir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/convert", handlers.ConvertModel(cfg, ws, invoker, logger))
		api.GET("/models", handlers.ListModels(registry))
		api.POST("/models", handlers.RegisterModel(cfg, registry, minioClient, logger))
		api.POST("/scenes", handlers.SaveScene(scenes, logger))
		api.GET("/scenes", handlers.ListScenes(scenes))
		api.GET("/scenes/:id", handlers.GetScene(cfg, scenes, registry, logger))
	}

	logger.Infow("Server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalw("Failed to start server", "error", err)
	}
}
