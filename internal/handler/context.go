package handler

import (
	"github.com/labstack/echo/v4"

	"ezelectronics/internal/domain/model"
	"ezelectronics/internal/middleware"
)

// AuthJWTがcontextに入れたusername/roleから操作ユーザーを組み立てる
func getActor(c echo.Context) (model.User, bool) {
	rawUsername := c.Get(middleware.CtxUsernameKey)
	username, ok := rawUsername.(string)
	if !ok || username == "" {
		return model.User{}, false
	}

	rawRole := c.Get(middleware.CtxUserRoleKey)
	role, ok := rawRole.(string)
	if !ok || role == "" {
		return model.User{}, false
	}

	return model.User{Username: username, Role: model.Role(role)}, true
}
