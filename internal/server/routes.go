package server

import (
	"github.com/labstack/echo/v4"

	"ezelectronics/internal/config"
	"ezelectronics/internal/handler"
	"ezelectronics/internal/repository"
)

func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	userRepo repository.UserRepository,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
	reviewH *handler.ReviewHandler,
	auditH *handler.AuditHandler,
) {
	authH.RegisterRoutes(e)
	productH.RegisterRoutes(e, cfg, userRepo)
	cartH.RegisterRoutes(e, cfg, userRepo)
	reviewH.RegisterRoutes(e, cfg, userRepo)
	auditH.RegisterRoutes(e, cfg, userRepo)
}
