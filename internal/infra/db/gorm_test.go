package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ezelectronics/internal/config"
	"ezelectronics/internal/infra/db"
)

func TestDSN_FromConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg := config.Config{
		PostgresHost:     "db.internal",
		PostgresPort:     5433,
		PostgresUser:     "ez",
		PostgresPassword: "secret",
		PostgresDB:       "ezelectronics",
		PostgresSSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=ez password=secret dbname=ezelectronics sslmode=require",
		db.DSN(cfg),
	)
}

func TestDSN_DatabaseURLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@host:5432/app")

	cfg := config.Config{PostgresHost: "ignored"}
	assert.Equal(t, "postgres://u:p@host:5432/app", db.DSN(cfg))
}
