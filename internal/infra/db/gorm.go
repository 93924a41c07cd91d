package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ezelectronics/internal/config"
)

// Connect はDBに接続して *gorm.DB を返す。
// TranslateErrorを有効にして、unique違反をgorm.ErrDuplicatedKeyで受け取る。
func Connect(cfg config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{TranslateError: true})
}

// DSN はcfgから接続文字列を組み立てる。DATABASE_URL があれば最優先。
func DSN(cfg config.Config) string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser,
		cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)
}
