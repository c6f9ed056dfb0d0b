package config

import (
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all configuration for the service.
type Config struct {
	ServiceName           string `mapstructure:"SERVICE_NAME"`
	HTTPPort              string `mapstructure:"HTTP_PORT"`
	DBBackend             string `mapstructure:"DB_BACKEND"` // mongo or postgres
	MongoURI              string `mapstructure:"MONGO_URI"`
	MongoDatabase         string `mapstructure:"MONGO_DATABASE"`
	PostgresDSN           string `mapstructure:"POSTGRES_DSN"`
	RedisAddr             string `mapstructure:"REDIS_ADDR"`
	RedisPassword         string `mapstructure:"REDIS_PASSWORD"`
	NATSURL               string `mapstructure:"NATS_URL"`
	JWTSecret             string `mapstructure:"JWT_SECRET"`
	JWTExpiryHours        int    `mapstructure:"JWT_EXPIRY_HOURS"`
	MinioEndpoint         string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey        string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey        string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket           string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL           bool   `mapstructure:"MINIO_USE_SSL"`
	SMTPHost              string `mapstructure:"SMTP_HOST"`
	SMTPPort              int    `mapstructure:"SMTP_PORT"`
	SMTPUser              string `mapstructure:"SMTP_USER"`
	SMTPPassword          string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom              string `mapstructure:"SMTP_FROM"`
	AppBaseURL            string `mapstructure:"APP_BASE_URL"`
	PrometheusMetricsPort string `mapstructure:"PROMETHEUS_METRICS_PORT"`
	LogLevel              string `mapstructure:"LOG_LEVEL"`
	LogFormat             string `mapstructure:"LOG_FORMAT"`
	OTLPEndpoint          string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	viper.SetDefault("SERVICE_NAME", "easyhome")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("DB_BACKEND", "mongo")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "easyhome")
	viper.SetDefault("POSTGRES_DSN", "")
	viper.SetDefault("REDIS_ADDR", "") // empty disables the property cache
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("NATS_URL", "") // empty disables event publishing
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 72)
	viper.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	viper.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	viper.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	viper.SetDefault("MINIO_BUCKET", "property-images")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "no-reply@easyhome.local")
	viper.SetDefault("APP_BASE_URL", "http://localhost:8080")
	viper.SetDefault("PROMETHEUS_METRICS_PORT", "9091")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if cfg.JWTSecret == "change-me-in-production" || cfg.JWTSecret == "" {
		appLogger.Warn("JWT_SECRET is set to its default insecure value or is empty. Please set a strong secret in your environment.")
	}
	switch cfg.DBBackend {
	case "mongo":
		if cfg.MongoURI == "" {
			appLogger.Fatal("MONGO_URI is not set. This is required with DB_BACKEND=mongo.")
		}
		if cfg.MongoDatabase == "" {
			appLogger.Fatal("MONGO_DATABASE is not set. This is required with DB_BACKEND=mongo.")
		}
	case "postgres":
		if cfg.PostgresDSN == "" {
			appLogger.Fatal("POSTGRES_DSN is not set. This is required with DB_BACKEND=postgres.")
		}
	default:
		appLogger.Fatal("DB_BACKEND must be 'mongo' or 'postgres'.", zap.String("db_backend", cfg.DBBackend))
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("db_backend", cfg.DBBackend),
		zap.Bool("mongo_uri_present", cfg.MongoURI != ""),
		zap.Bool("postgres_dsn_present", cfg.PostgresDSN != ""),
		zap.String("redis_addr", cfg.RedisAddr),
		zap.String("nats_url", cfg.NATSURL),
		zap.Bool("jwt_secret_present", cfg.JWTSecret != ""),
		zap.String("minio_endpoint", cfg.MinioEndpoint),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
		zap.String("otel_endpoint", cfg.OTLPEndpoint),
	)

	return &cfg, nil
}
