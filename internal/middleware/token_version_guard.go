package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ezelectronics/internal/repository"
)

// JWTのtvとDBのtoken_versionが一致するか確認。
// 不一致は強制ログアウト扱い（401）。
func TokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// AuthJWTが入れたusernameを取得する
			rawUsername := c.Get(CtxUsernameKey)
			username, ok := rawUsername.(string)
			if !ok || username == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			// AuthJWTが入れたtoken_version(tv)を取得する
			rawTV := c.Get(CtxTokenVersionKey)
			tv, ok := rawTV.(int)
			if !ok || tv < 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			// DBから最新のuserを取得する
			user, err := userRepo.FindByUsername(c.Request().Context(), username)
			if err != nil || user == nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if user.TokenVersion != tv {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			return next(c)
		}
	}
}
