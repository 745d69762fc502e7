// @title Exam Generator API
// @version 1.0
// @description API for generating, storing, and grading exams.
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"examgen/internal/adapter"
	"examgen/internal/adapter/openrouter"
	"examgen/internal/cache"
	"examgen/internal/config"
	"examgen/internal/database"
	"examgen/internal/domain"
	"examgen/internal/handler"
	"examgen/internal/logger"
	"examgen/internal/middleware"
	"examgen/internal/repository"
	"examgen/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXSqliteDB(cfg.Database.Path)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	examRepository := repository.NewSQLXExamRepository(db)

	// Redis is optional; without it the model listing is simply fetched
	// fresh on every request.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("RedisCacheAdapter initialized")
	} else {
		appLogger.Info("Redis not configured, model list caching disabled")
	}

	// Initialize OpenRouter client
	openRouterClient := openrouter.NewClient(cfg.OpenRouter)
	if !openRouterClient.IsConfigured() {
		appLogger.Warn("OpenRouter API key not configured, generation falls back to basic templates")
	}

	// Initialize services
	examService := service.NewExamService(examRepository, openRouterClient)
	gradingService := service.NewGradingService(examRepository)
	modelService := service.NewModelService(openRouterClient, openRouterClient, cacheAdapter, cfg.Cache.ModelListTTL)

	// Initialize handlers
	examHandler := handler.NewExamHandler(examService, gradingService)
	modelHandler := handler.NewModelHandler(modelService)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New())
	app.Use(recover.New())

	// Routes
	api := app.Group("/api")

	exams := api.Group("/exams")
	exams.Post("/generate", examHandler.GenerateExam)
	exams.Get("/export", examHandler.ExportExams)
	exams.Post("/import", examHandler.ImportExams)
	exams.Get("/", examHandler.ListExams)
	exams.Get("/:id", examHandler.GetExam)
	exams.Put("/:id", examHandler.UpdateExam)
	exams.Delete("/:id", examHandler.DeleteExam)
	exams.Post("/:id/grade", examHandler.GradeExam)

	models := api.Group("/models")
	models.Get("/free", modelHandler.GetFreeModels)
	models.Get("/test", modelHandler.TestConnection)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		appLogger.Info("Starting server", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
}
