// @title Career Compass API
// @version 1.0
// @description Skill assessments, skill state tracking, learning paths and career matching.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "career-compass/cmd/api/docs"
	"career-compass/internal/adapter"
	"career-compass/internal/adapter/embedding"
	"career-compass/internal/adapter/vectorstore"
	"career-compass/internal/cache"
	"career-compass/internal/config"
	"career-compass/internal/database"
	"career-compass/internal/domain"
	"career-compass/internal/handler"
	"career-compass/internal/logger"
	"career-compass/internal/metrics"
	"career-compass/internal/middleware"
	"career-compass/internal/repository"
	"career-compass/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// requestLogger logs every HTTP request and records it in the request metrics.
func requestLogger(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		// Run the error handler here so the logged status is the one sent.
		if err := c.Next(); err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		duration := time.Since(start)
		status := c.Response().StatusCode()
		m.ObserveHTTPRequest(method, c.Route().Path, status, duration)

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		)

		return nil
	}
}

// healthCheck reports whether the database and Redis answer a ping.
func healthCheck(db *sqlx.DB, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		checks := fiber.Map{"database": "ok", "redis": "ok"}
		healthy := true
		if err := db.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}

		status := fiber.StatusOK
		checks["status"] = "ok"
		if !healthy {
			status = fiber.StatusServiceUnavailable
			checks["status"] = "degraded"
		}
		return c.Status(status).JSON(checks)
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCache(redisClient, cfg.Cache.OperationTimeout)

	appMetrics := metrics.New()

	embedder, err := embedding.NewEmbedder(cfg.Embedding)
	if err != nil {
		appLogger.Fatal("Failed to create embedder", zap.String("source", cfg.Embedding.Source), zap.Error(err))
	}
	embedder = embedding.NewCachedEmbedder(embedder, cacheAdapter, cfg.Embedding.Source, 24*time.Hour)
	knowledgeStore := vectorstore.NewRedisStore(redisClient, embedder, cfg.VectorStore.Prefix)
	appLogger.Info("Embedding service initialized", zap.String("source", cfg.Embedding.Source))

	// Repositories
	userRepository := repository.NewUserRepository(db)
	catalogRepository := repository.NewCatalogRepository(db)
	questionRepository := repository.NewQuestionRepository(db)
	assessmentRepository := repository.NewAssessmentRepository(db)
	skillStateRepository := repository.NewSkillStateRepository(db)
	learningRepository := repository.NewLearningRepository(db)
	careerRepository := repository.NewCareerRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Services
	clock := domain.SystemClock{}
	questionBank := service.NewQuestionBank(questionRepository, cacheAdapter, cfg.Cache.QuestionBankTTL, appMetrics)
	assessmentService := service.NewAssessmentService(
		userRepository,
		catalogRepository,
		questionBank,
		service.NewScorer(),
		service.NewAssessmentRecorder(assessmentRepository, clock),
		service.NewSkillStateUpdater(txManager, skillStateRepository, clock, cfg.Assessment, appMetrics),
		assessmentRepository,
		skillStateRepository,
		appMetrics,
	)
	reconciler := service.NewReconciler(txManager, assessmentRepository, skillStateRepository, clock)
	catalogService := service.NewCatalogService(catalogRepository, questionRepository, questionBank, clock)
	userService := service.NewUserService(userRepository, clock)
	learningService := service.NewLearningService(userRepository, catalogRepository, learningRepository, learningRepository, skillStateRepository, clock)
	careerService := service.NewCareerService(careerRepository, skillStateRepository)
	knowledgeService := service.NewKnowledgeService(knowledgeStore, appMetrics)

	tokenVerifier, err := service.NewTokenVerifier(cfg.JWT.SecretKey)
	if err != nil {
		appLogger.Fatal("Failed to create token verifier", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(requestLogger(appMetrics))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,Idempotency-Key",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/health", healthCheck(db, redisClient))
	app.Get("/metrics", adaptor.HTTPHandler(appMetrics.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(app, handler.Handlers{
		Assessment: handler.NewAssessmentHandler(assessmentService, reconciler),
		Catalog:    handler.NewCatalogHandler(catalogService),
		User:       handler.NewUserHandler(userService),
		Learning:   handler.NewLearningHandler(learningService, careerService),
		Knowledge:  handler.NewKnowledgeHandler(knowledgeService),
	}, tokenVerifier, cfg.Auth)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		appLogger.Warn("Failed to close Redis client", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		appLogger.Warn("Failed to close database", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
