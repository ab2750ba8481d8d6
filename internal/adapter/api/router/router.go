package router

import (
	"github.com/labstack/echo/v4"

	"fleamarkt/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupDocumentRouter(e, authMiddleware)
	SetupGraphRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
