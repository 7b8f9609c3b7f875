package config

import (
	"errors"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string
	GRPCAddr string
	LogLevel string

	DB       Database
	Company  Company
	Billing  Billing
	RedisURL string
	// IdempotencyTTL bounds how long an Idempotency-Key is remembered.
	IdempotencyTTL time.Duration
}

type Database struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSL            bool
	PoolSize       int32
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
	MigrationsRun  bool
}

// DSN renders a libpq-style URL understood by pgxpool.ParseConfig.
func (d Database) DSN() string {
	ssl := "disable"
	if d.SSL {
		ssl = "require"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     d.Name,
		RawQuery: "sslmode=" + ssl,
	}
	return u.String()
}

// Company is the issuer identity printed on every fiscal document.
type Company struct {
	Name           string
	CommercialName string
	DocumentNumber string
	City           string
	State          string
	Address        string
	Ubigeo         string
	Branch         string
}

type Billing struct {
	APIURL      string
	APIKey      string
	Timeout     time.Duration
	Series      string
	Correlative string
	Workers     int
	QueueSize   int
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return def
}

// getms reads a duration expressed in milliseconds, as the DB_* timeouts are.
func getms(k string, def int) time.Duration {
	return time.Duration(getint(k, def)) * time.Millisecond
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func Load() Config {
	_ = godotenv.Load() // load .env if it exists
	return Config{
		HTTPAddr: getenv("HTTP_ADDR", ":3000"),
		GRPCAddr: getenv("GRPC_ADDR", ":50051"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		DB: Database{
			Host:           getenv("DB_HOST", "localhost"),
			Port:           getint("DB_PORT", 5432),
			User:           getenv("DB_USERNAME", "postgres"),
			Password:       getenv("DB_PASSWORD", "postgres"),
			Name:           getenv("DB_NAME", "ecommerce"),
			SSL:            getbool("DB_SSL", false),
			PoolSize:       int32(getint("DB_POOL_SIZE", 5)),
			ConnectTimeout: getms("DB_CONNECTION_TIMEOUT", 10000),
			QueryTimeout:   getms("DB_MAX_QUERY_TIME", 5000),
			MigrationsRun:  getbool("DB_MIGRATIONS_RUN", true),
		},
		Company: Company{
			Name:           getenv("COMPANY_NAME", ""),
			CommercialName: getenv("COMPANY_NAME_COMERCIAL", ""),
			DocumentNumber: getenv("COMPANY_DOCUMENT_NUMBER", ""),
			City:           getenv("COMPANY_CITY", ""),
			State:          getenv("COMPANY_STATE", ""),
			Address:        getenv("COMPANY_ADDRESS", ""),
			Ubigeo:         getenv("COMPANY_UBIGEO", ""),
			Branch:         getenv("COMPANY_BRANCH", "000"),
		},
		Billing: Billing{
			APIURL:      strings.TrimRight(getenv("BILLME_API_URL", ""), "/"),
			APIKey:      getenv("BILLME_API_KEY", ""),
			Timeout:     getduration("BILLME_TIMEOUT", 15*time.Second),
			Series:      getenv("BILLING_SERIES", "F001"),
			Correlative: getenv("BILLING_CORRELATIVE", "0001"),
			Workers:     getint("BILLING_WORKERS", 2),
			QueueSize:   getint("BILLING_QUEUE", 64),
		},
		RedisURL:       getenv("REDIS_ADDR", ""),
		IdempotencyTTL: getduration("IDEMPOTENCY_TTL", 10*time.Minute),
	}
}

// Validate reports every missing setting the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DB.Port <= 0 {
		errs = append(errs, errors.New("DB_PORT must be positive"))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("DB_USERNAME is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.DB.PoolSize <= 0 {
		errs = append(errs, errors.New("DB_POOL_SIZE must be positive"))
	}
	if c.Billing.Workers <= 0 {
		errs = append(errs, errors.New("BILLING_WORKERS must be positive"))
	}
	if c.Billing.QueueSize <= 0 {
		errs = append(errs, errors.New("BILLING_QUEUE must be positive"))
	}
	return errors.Join(errs...)
}
