package router

import (
	"github.com/labstack/echo/v4"

	"fleamarkt/internal/adapter/api/handler"
	"fleamarkt/internal/adapter/api/middleware"
)

// SetupDocumentRouter wires the document-backed API family under the
// /mongodb prefix.
func SetupDocumentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()
	userHandler := handler.GetUserHandler()
	productHandler := handler.GetProductHandler()
	conversationHandler := handler.GetConversationHandler()

	auth := e.Group("/mongodb/auth")
	auth.Use(middleware.AuthRateLimit())
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	users := e.Group("/mongodb/users")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/username/:username", userHandler.GetByUsername)
	users.GET("/:id", userHandler.GetByID)

	me := e.Group("/mongodb/users/me")
	me.Use(authMiddleware.Authenticate)
	me.GET("", userHandler.Me)

	usersAdmin := e.Group("/mongodb/users")
	usersAdmin.Use(authMiddleware.Authenticate)
	usersAdmin.Use(authMiddleware.RequireAdmin)
	usersAdmin.DELETE("/:id", userHandler.Delete)

	products := e.Group("/mongodb/products")
	products.GET("", productHandler.List)
	products.GET("/search", productHandler.Search)
	products.GET("/filter", productHandler.Filter)
	products.GET("/popular", productHandler.Popular)
	products.GET("/top-categories", productHandler.TopCategories)
	products.GET("/:id", productHandler.Get)

	myProducts := e.Group("/mongodb/products")
	myProducts.Use(authMiddleware.Authenticate)
	myProducts.POST("", productHandler.Create)
	myProducts.PUT("/:id", productHandler.Update)
	myProducts.DELETE("/:id", productHandler.Delete)
	myProducts.POST("/:id/favorite", productHandler.Favorite)
	myProducts.DELETE("/:id/favorite", productHandler.Unfavorite)

	conversations := e.Group("/mongodb/conversations")
	conversations.Use(authMiddleware.Authenticate)
	conversations.GET("", conversationHandler.List)
	conversations.GET("/:id", conversationHandler.Get)
	conversations.POST("/:id/messages", conversationHandler.SendMessage)
}
