package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"ezelectronics/internal/config"
	"ezelectronics/internal/domain/model"
	"ezelectronics/internal/middleware"
	"ezelectronics/internal/repository"
	auth "ezelectronics/internal/usecase/auth_usecase"
)

const refreshTokenCookie = "refresh_token"

// /users と /sessions のHTTP
type AuthHandler struct {
	registerUC    *auth.RegisterUserUsecase
	loginUC       *auth.LoginUsecase
	logoutUC      *auth.LogoutUsecase
	refreshUC     *auth.RefreshUsecase
	forceLogoutUC *auth.ForceLogoutUsecase
	userRepo      repository.UserRepository
	cfg           config.Config
}

// DI
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	logoutUC *auth.LogoutUsecase,
	refreshUC *auth.RefreshUsecase,
	forceLogoutUC *auth.ForceLogoutUsecase,
	userRepo repository.UserRepository,
	cfg config.Config,
) *AuthHandler {
	return &AuthHandler{
		registerUC:    registerUC,
		loginUC:       loginUC,
		logoutUC:      logoutUC,
		refreshUC:     refreshUC,
		forceLogoutUC: forceLogoutUC,
		userRepo:      userRepo,
		cfg:           cfg,
	}
}

type RegisterUserRequest struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Address   string `json:"address"`
	Birthdate string `json:"birthdate"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// APIに返すユーザー。birthdateは "YYYY-MM-DD" か null
type UserResponse struct {
	Username  string     `json:"username"`
	Name      string     `json:"name"`
	Surname   string     `json:"surname"`
	Role      model.Role `json:"role"`
	Address   string     `json:"address"`
	Birthdate *string    `json:"birthdate"`
}

func toUserResponse(u model.User) UserResponse {
	var birthdate *string
	if u.Birthdate != nil {
		s := u.Birthdate.Format("2006-01-02")
		birthdate = &s
	}
	return UserResponse{
		Username:  u.Username,
		Name:      u.Name,
		Surname:   u.Surname,
		Role:      u.Role,
		Address:   u.Address,
		Birthdate: birthdate,
	}
}

type LoginResponse struct {
	User  UserResponse        `json:"user"`
	Token auth.JwtAccessToken `json:"token"`
}

// /users と /sessions を登録
func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/users", h.register)
	e.POST("/sessions", h.login)
	// refreshはJWTではなくCookieのトークンで認証する
	e.POST("/sessions/refresh", h.refresh)

	g := e.Group("/sessions")
	g.Use(middleware.AuthJWT(h.cfg))
	g.Use(middleware.TokenVersionGuard(h.userRepo))
	g.DELETE("/current", h.logout)
	g.GET("/current", h.currentUser)

	ug := e.Group("/users")
	ug.Use(middleware.AuthJWT(h.cfg))
	ug.Use(middleware.TokenVersionGuard(h.userRepo))
	ug.DELETE("/:username/sessions", h.forceLogout)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Username:  req.Username,
		Name:      req.Name,
		Surname:   req.Surname,
		Password:  req.Password,
		Role:      req.Role,
		Address:   req.Address,
		Birthdate: req.Birthdate,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameAlreadyExists):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "The username already exists"})
		case errors.Is(err, auth.ErrInvalidInput),
			errors.Is(err, auth.ErrInvalidRole),
			errors.Is(err, auth.ErrFutureBirth),
			errors.Is(err, auth.ErrPasswordShort):
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
	}

	return c.JSON(http.StatusOK, toUserResponse(out.User))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "username and password required"})
	}

	out, side, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	h.setRefreshCookie(c, side.PlainRefreshToken, side.RefreshExpiresAt)

	return c.JSON(http.StatusOK, LoginResponse{
		User:  toUserResponse(out.User),
		Token: out.Token,
	})
}

func (h *AuthHandler) refresh(c echo.Context) error {
	plain := ""
	if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
		plain = cookie.Value
	}

	out, side, err := h.refreshUC.Execute(c.Request().Context(), plain, c.Request().UserAgent())
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) || errors.Is(err, auth.ErrRefreshTokenReuse) {
			// 使えないCookieは消す
			h.setRefreshCookie(c, "", time.Unix(0, 0))
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	h.setRefreshCookie(c, side.PlainRefreshToken, side.RefreshExpiresAt)

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) forceLogout(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.forceLogoutUC.Execute(c.Request().Context(), actor, c.Param("username"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrForbidden):
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		case errors.Is(err, auth.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		case errors.Is(err, auth.ErrInvalidInput):
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "username required"})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	plain := ""
	if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
		plain = cookie.Value
	}

	if err := h.logoutUC.Execute(c.Request().Context(), plain); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	// Cookie削除
	h.setRefreshCookie(c, "", time.Unix(0, 0))

	return c.NoContent(http.StatusOK)
}

func (h *AuthHandler) currentUser(c echo.Context) error {
	actor, ok := getActor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	user, err := h.userRepo.FindByUsername(c.Request().Context(), actor.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, toUserResponse(*user))
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, value string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     refreshTokenCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cfg.GoEnv == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}
