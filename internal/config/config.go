package config

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	MinIO    MinIOConfig
	Kafka    KafkaConfig
}

var (
	configInstance *Config
	once           sync.Once
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN builds the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

type JWTConfig struct {
	Secret         string
	ExpirationTime time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func LoadConfig() (*Config, error) {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			slog.Info("No .env file found, using environment variables")
		}

		viper.SetDefault("SLACK_PORT", "8080")
		viper.SetDefault("SLACK_READ_TIMEOUT", 30*time.Second)
		viper.SetDefault("SLACK_WRITE_TIMEOUT", 30*time.Second)
		viper.SetDefault("SLACK_IDLE_TIMEOUT", 60*time.Second)
		viper.SetDefault("SLACK_JWT_SECRET", "secret")
		viper.SetDefault("SLACK_JWT_EXPIRE", "168h")
		viper.SetDefault("POSTGRES_USER", "postgres")
		viper.SetDefault("POSTGRES_PASSWORD", "password")
		viper.SetDefault("POSTGRES_HOST", "localhost")
		viper.SetDefault("POSTGRES_PORT", "5432")
		viper.SetDefault("POSTGRES_DB", "postgres")
		viper.SetDefault("POSTGRES_SSLMODE", "disable")
		viper.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
		viper.SetDefault("REDIS_MAX_RETRIES", 3)
		viper.SetDefault("REDIS_POOL_SIZE", 100)
		viper.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
		viper.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
		viper.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
		viper.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)
		viper.SetDefault("MINIO_ENDPOINT", "localhost:9000")
		viper.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
		viper.SetDefault("MINIO_SECRET_KEY", "minioadmin")
		viper.SetDefault("MINIO_BUCKET", "message-images")
		viper.SetDefault("MINIO_USE_SSL", false)
		viper.SetDefault("KAFKA_BROKERS", []string{"localhost:9092"})
		viper.SetDefault("KAFKA_TOPIC", "slack-invalidations")
		viper.AutomaticEnv()

		configInstance = &Config{
			Server: ServerConfig{
				Host:         viper.GetString("SLACK_HOST"),
				Port:         viper.GetString("SLACK_PORT"),
				ReadTimeout:  viper.GetDuration("SLACK_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("SLACK_WRITE_TIMEOUT"),
				IdleTimeout:  viper.GetDuration("SLACK_IDLE_TIMEOUT"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("POSTGRES_HOST"),
				Port:     viper.GetString("POSTGRES_PORT"),
				User:     viper.GetString("POSTGRES_USER"),
				Password: viper.GetString("POSTGRES_PASSWORD"),
				DBName:   viper.GetString("POSTGRES_DB"),
				SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
			},
			Redis: RedisConfig{
				Addr:         viper.GetString("REDIS_ADDR"),
				Password:     viper.GetString("REDIS_PASSWORD"),
				DB:           viper.GetInt("REDIS_DB"),
				MaxRetries:   viper.GetInt("REDIS_MAX_RETRIES"),
				DialTimeout:  viper.GetDuration("REDIS_DIAL_TIMEOUT"),
				ReadTimeout:  viper.GetDuration("REDIS_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("REDIS_WRITE_TIMEOUT"),
				PoolSize:     viper.GetInt("REDIS_POOL_SIZE"),
				MinIdleConns: viper.GetInt("REDIS_MIN_IDLE_CONNS"),
			},
			JWT: JWTConfig{
				Secret:         viper.GetString("SLACK_JWT_SECRET"),
				ExpirationTime: viper.GetDuration("SLACK_JWT_EXPIRE"),
			},
			MinIO: MinIOConfig{
				Endpoint:  viper.GetString("MINIO_ENDPOINT"),
				AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
				SecretKey: viper.GetString("MINIO_SECRET_KEY"),
				Bucket:    viper.GetString("MINIO_BUCKET"),
				UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			},
			Kafka: KafkaConfig{
				Brokers: viper.GetStringSlice("KAFKA_BROKERS"),
				Topic:   viper.GetString("KAFKA_TOPIC"),
			},
		}
	})

	return configInstance, nil
}
