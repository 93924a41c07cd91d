package server

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"ezelectronics/internal/config"
	"ezelectronics/internal/handler"
	"ezelectronics/internal/middleware"
	"ezelectronics/internal/repository"
)

func Start(
	addr string,
	cfg config.Config,
	logger zerolog.Logger,
	userRepo repository.UserRepository,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
	reviewH *handler.ReviewHandler,
	auditH *handler.AuditHandler,
) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLogger(logger))

	RegisterRoutes(e, cfg, userRepo, authH, productH, cartH, reviewH, auditH)

	return e.Start(addr)
}
