package config

import (
	"os"
	"strconv"
	"time"
)

type AdminServiceConfig struct {
	Port         string
	PostgresCfg  PostgresConfig
	RedisCfg     RedisConfig
	RabbitMQCfg  RabbitMQConfig
	AuthCfg      AuthConfig
	BootstrapCfg BootstrapConfig
}

type PostgresConfig struct {
	DBName   string
	Username string
	Password string
	Host     string
	Port     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Enabled  bool
}

type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// BootstrapConfig seeds the initial admin account on first start.
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminFullName string
}

func New() *AdminServiceConfig {
	return &AdminServiceConfig{
		Port: getEnv("PORT", "8080"),
		PostgresCfg: PostgresConfig{
			DBName:   getEnv("DB_NAME", "admin_service"),
			Username: getEnv("POSTGRES_USER", "postgres"),
			Password: os.Getenv("POSTGRES_PWD"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PWD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RabbitMQCfg: RabbitMQConfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnv("RABBITMQ_PORT", "5672"),
			Username: getEnv("RABBITMQ_USER", "guest"),
			Password: os.Getenv("RABBITMQ_PWD"),
			Enabled:  getEnvBool("RABBITMQ_ENABLED", false),
		},
		AuthCfg: AuthConfig{
			JWTSecret:       os.Getenv("JWT_SECRET"),
			AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		},
		BootstrapCfg: BootstrapConfig{
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@localhost"),
			AdminPassword: os.Getenv("ADMIN_PWD"),
			AdminFullName: getEnv("ADMIN_FULL_NAME", "Administrator"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
