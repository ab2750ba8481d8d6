package router

import (
	"github.com/labstack/echo/v4"

	"fleamarkt/internal/adapter/api/handler"
	"fleamarkt/internal/adapter/api/middleware"
)

// SetupGraphRouter wires the graph-backed API family under the /neo4j
// prefix.
func SetupGraphRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetGraphAuthHandler()
	userHandler := handler.GetGraphUserHandler()
	productHandler := handler.GetGraphProductHandler()

	auth := e.Group("/neo4j/auth")
	auth.Use(middleware.AuthRateLimit())
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	users := e.Group("/neo4j/users")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Upsert)
	users.GET("/:username", userHandler.GetByUsername)

	products := e.Group("/neo4j/products")
	products.GET("", productHandler.List)
	products.GET("/popular", productHandler.Popular)
	products.GET("/:id/recommendations", productHandler.Recommendations)

	// Product detail identifies the viewer when a token is present so the
	// view leaves a VIEWED edge; anonymous hits still count.
	detail := e.Group("/neo4j/products")
	detail.Use(authMiddleware.OptionalAuthenticate)
	detail.GET("/:id", productHandler.Get)
	detail.POST("/:id/view", productHandler.TrackView)

	myProducts := e.Group("/neo4j/products")
	myProducts.Use(authMiddleware.Authenticate)
	myProducts.POST("", productHandler.Create)
	myProducts.PUT("/:id", productHandler.Update)
	myProducts.DELETE("/:id", productHandler.Delete)
	myProducts.POST("/:id/favorite", productHandler.Favorite)
	myProducts.POST("/:id/sold", productHandler.MarkAsSold)
	myProducts.POST("/:id/toggle-status", productHandler.ToggleStatus)
}
