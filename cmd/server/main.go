package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/config"
	"github.com/yukikurage/academic-task-api/internal/constants"
	"github.com/yukikurage/academic-task-api/internal/database"
	"github.com/yukikurage/academic-task-api/internal/handlers"
	"github.com/yukikurage/academic-task-api/internal/logger"
	"github.com/yukikurage/academic-task-api/internal/middleware"
	"github.com/yukikurage/academic-task-api/internal/services"
	"github.com/yukikurage/academic-task-api/internal/validation"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	envErr := config.LoadEnvFile(".env")
	cfg := config.Load()

	logger.InitLoggers(cfg.LogLevel)
	defer logger.SyncLoggers()
	log := logger.SystemLogger
	if envErr != nil {
		log.Warn("ignoring .env file", zap.Error(envErr))
	}

	gin.SetMode(cfg.GinMode)
	validation.Init()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Recovery())

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logger.Fatal("failed to create Redis store", zap.String("addr", redisAddr), zap.Error(err))
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// AI suggestions are optional
	var suggester services.SubTaskSuggester
	if cfg.OpenAIAPIKey != "" {
		suggester = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Info("OPENAI_API_KEY not set, subtask suggestions disabled")
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Academic Task API is running",
		})
	})

	handlers.NewHandlers(database.GetDB(), suggester).Register(r)

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
