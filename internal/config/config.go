package config

import "os"

type CropeyeServerConfig struct {
	Port        string
	PostgresCfg PostgresConfig
	RabbitMQCfg RabbitMQConfig
	RedisCfg    RedisConfig
	SyncCfg     SyncConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SyncConfig holds the base URLs of the five downstream indexing services
// that mirror plot records.
type SyncConfig struct {
	EventsAPIURL string
	SoilAPIURL   string
	AdminAPIURL  string
	ETAPIURL     string
	FieldAPIURL  string
}

func New() *CropeyeServerConfig {
	return &CropeyeServerConfig{
		Port: getEnvOrDefault("PORT", "8084"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "cropeye"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		SyncCfg: SyncConfig{
			EventsAPIURL: getEnvOrDefault("EVENTS_API_URL", "http://localhost:9000"),
			SoilAPIURL:   getEnvOrDefault("SOIL_API_URL", "http://localhost:8002"),
			AdminAPIURL:  getEnvOrDefault("ADMIN_API_URL", "http://localhost:7031"),
			ETAPIURL:     getEnvOrDefault("ET_API_URL", "http://localhost:8009"),
			FieldAPIURL:  getEnvOrDefault("FIELD_API_URL", "http://localhost:8003"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
