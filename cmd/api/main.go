package main

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ezelectronics/internal/config"
	"ezelectronics/internal/domain/model"
	"ezelectronics/internal/handler"
	"ezelectronics/internal/infra/db"
	infraRepo "ezelectronics/internal/infra/repository"
	"ezelectronics/internal/server"
	"ezelectronics/internal/usecase"
	auth "ezelectronics/internal/usecase/auth_usecase"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(username string, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  username,
		"role": string(role),
		"tv":   tokenVersion,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無ければ環境変数だけで動く
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}

	// 金額は数値のままJSONに出す
	decimal.MarshalJSONWithoutQuotes = true

	// DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Product{},
		&model.Cart{},
		&model.ProductInCart{},
		&model.ProductReview{},
		&model.AuditLog{},
	); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	// Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	// usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	// bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	// JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	// refresh TTL
	refreshTTL := 14 * 24 * time.Hour

	// Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, verifier, issuer, idGen, clock, refreshTTL)
	logoutUC := auth.NewLogoutUsecase(rtRepo, clock)
	refreshUC := auth.NewRefreshUsecase(userRepo, rtRepo, issuer, idGen, clock, refreshTTL)
	forceLogoutUC := auth.NewForceLogoutUsecase(userRepo, rtRepo)
	productUC := usecase.NewProductUsecase(productRepo, auditRepo, clock)
	cartUC := usecase.NewCartUsecase(txManager, cartRepo, cartItemRepo, auditRepo, clock)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, productRepo, auditRepo, clock)
	auditUC := usecase.NewAuditUsecase(auditRepo)

	// Handler生成
	authH := handler.NewAuthHandler(registerUC, loginUC, logoutUC, refreshUC, forceLogoutUC, userRepo, cfg)
	productH := handler.NewProductHandler(productUC)
	cartH := handler.NewCartHandler(cartUC)
	reviewH := handler.NewReviewHandler(reviewUC)
	auditH := handler.NewAuditHandler(auditUC)

	// Server起動
	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("starting api server")
	if err := server.Start(addr, cfg, logger, userRepo, authH, productH, cartH, reviewH, auditH); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
