package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fleamarkt/internal/adapter/api"
	"fleamarkt/internal/adapter/api/handler"
	apimiddleware "fleamarkt/internal/adapter/api/middleware"
	"fleamarkt/internal/adapter/api/router"
	"fleamarkt/internal/adapter/repository"
	"fleamarkt/internal/domain/service"
	"fleamarkt/internal/infrastructure/graphdb"
	"fleamarkt/internal/infrastructure/mongodb"
	"fleamarkt/internal/usecase"
	"fleamarkt/pkg/config"
	"fleamarkt/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	mongoClient, err := mongodb.Connect(connectCtx, cfg.MongoDBURL, cfg.MongoDBDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Close(ctx)

	if err := mongoClient.EnsureIndexes(connectCtx); err != nil {
		logger.Warn("Failed to ensure MongoDB indexes: %v", err)
	}

	graphExecutor, err := graphdb.NewExecutor(cfg.Neo4jURL, cfg.Neo4jUser, cfg.Neo4jPassword, "neo4j")
	if err != nil {
		log.Fatalf("Failed to create Neo4j driver: %v", err)
	}
	defer graphExecutor.Close(ctx)

	// Graph schema init retries while the store comes up; a persistent
	// failure degrades the graph family instead of killing the process.
	if err := graphdb.InitSchema(connectCtx, graphExecutor); err != nil {
		logger.Warn("Graph schema init failed, graph endpoints may be degraded: %v", err)
	}

	db := mongoClient.Database()
	userRepo := repository.NewMongoUserRepository(db)
	productRepo := repository.NewMongoProductRepository(db)
	conversationRepo := repository.NewMongoConversationRepository(db)
	graphUserRepo := repository.NewNeo4jUserRepository(graphExecutor)
	graphProductRepo := repository.NewNeo4jProductRepository(graphExecutor)

	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry)

	authUseCase := usecase.NewAuthUseCase(userRepo, authService)
	userUseCase := usecase.NewUserUseCase(userRepo)
	productUseCase := usecase.NewProductUseCase(productRepo, userRepo)
	conversationUseCase := usecase.NewConversationUseCase(conversationRepo, userRepo)
	graphAuthUseCase := usecase.NewGraphAuthUseCase(graphUserRepo, authService)
	graphUserUseCase := usecase.NewGraphUserUseCase(graphUserRepo)
	graphProductUseCase := usecase.NewGraphProductUseCase(graphProductRepo)

	handler.Setup(
		authUseCase,
		userUseCase,
		productUseCase,
		conversationUseCase,
		graphAuthUseCase,
		graphUserUseCase,
		graphProductUseCase,
	)
	handler.SetupHealthHandler(mongoClient, graphExecutor)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authService, userRepo)
	router.Setup(e, authMiddleware)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"service":  "fleamarkt",
			"backends": []string{"mongodb", "neo4j"},
		})
	})

	go func() {
		logger.Info("Starting server on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.Error("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}
