package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSNFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")
	assert.Empty(t, DSNFromEnv())

	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "p@ss")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_SSLMODE", "")
	assert.Equal(t, "postgres://app:p%40ss@db:5432/shop?sslmode=disable", DSNFromEnv())

	t.Setenv("POSTGRES_DSN", "postgres://explicit")
	assert.Equal(t, "postgres://explicit", DSNFromEnv())
}
