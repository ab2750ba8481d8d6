package handler

import (
	"fleamarkt/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	productHandler      *ProductHandler
	conversationHandler *ConversationHandler
	graphAuthHandler    *GraphAuthHandler
	graphUserHandler    *GraphUserHandler
	graphProductHandler *GraphProductHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	productUseCase *usecase.ProductUseCase,
	conversationUseCase *usecase.ConversationUseCase,
	graphAuthUseCase *usecase.GraphAuthUseCase,
	graphUserUseCase *usecase.GraphUserUseCase,
	graphProductUseCase *usecase.GraphProductUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase, authUseCase)
	productHandler = NewProductHandler(productUseCase)
	conversationHandler = NewConversationHandler(conversationUseCase)
	graphAuthHandler = NewGraphAuthHandler(graphAuthUseCase)
	graphUserHandler = NewGraphUserHandler(graphUserUseCase)
	graphProductHandler = NewGraphProductHandler(graphProductUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetConversationHandler() *ConversationHandler {
	return conversationHandler
}

func GetGraphAuthHandler() *GraphAuthHandler {
	return graphAuthHandler
}

func GetGraphUserHandler() *GraphUserHandler {
	return graphUserHandler
}

func GetGraphProductHandler() *GraphProductHandler {
	return graphProductHandler
}
