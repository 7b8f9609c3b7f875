package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_POOL_SIZE", "")
	t.Setenv("BILLME_API_URL", "")

	cfg := Load()

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, int32(5), cfg.DB.PoolSize)
	assert.Equal(t, 10*time.Second, cfg.DB.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.DB.QueryTimeout)
	assert.Equal(t, "000", cfg.Company.Branch)
	assert.Equal(t, "F001", cfg.Billing.Series)
	assert.Equal(t, 15*time.Second, cfg.Billing.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_SSL", "true")
	t.Setenv("DB_MAX_QUERY_TIME", "250")
	t.Setenv("BILLME_API_URL", "https://billme.example/api/")
	t.Setenv("BILLME_TIMEOUT", "3s")
	t.Setenv("COMPANY_NAME", "ACME SAC")

	cfg := Load()

	assert.Equal(t, "postgres://postgres:postgres@db:6543/ecommerce?sslmode=require", cfg.DB.DSN())
	assert.Equal(t, 250*time.Millisecond, cfg.DB.QueryTimeout)
	assert.Equal(t, "https://billme.example/api", cfg.Billing.APIURL)
	assert.Equal(t, 3*time.Second, cfg.Billing.Timeout)
	assert.Equal(t, "ACME SAC", cfg.Company.Name)
}

func TestDSN_EscapesUserInfo(t *testing.T) {
	d := Database{Host: "db", Port: 5432, User: "app", Password: "p@ss#1", Name: "ecommerce"}
	assert.Equal(t, "postgres://app:p%40ss%231@db:5432/ecommerce?sslmode=disable", d.DSN())
}

func TestDSN_BracketsIPv6Host(t *testing.T) {
	d := Database{Host: "::1", Port: 5432, User: "app", Password: "pw", Name: "ecommerce"}
	assert.Equal(t, "postgres://app:pw@[::1]:5432/ecommerce?sslmode=disable", d.DSN())
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Load()
	cfg.DB.Host = ""
	cfg.DB.PoolSize = 0
	cfg.Billing.Workers = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "DB_POOL_SIZE")
	assert.Contains(t, err.Error(), "BILLING_WORKERS")
}
