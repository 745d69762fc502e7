package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	OpenRouter OpenRouterConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// OpenRouterConfig carries everything the generation client needs.
// Referer and AppTitle fill the two descriptive identification headers
// OpenRouter expects alongside the bearer token.
type OpenRouterConfig struct {
	BaseURL     string
	ModelsURL   string
	APIKey      string
	Model       string
	MaxTokens   int
	Referer     string
	AppTitle    string
	PacingDelay time.Duration
}

type DatabaseConfig struct {
	Path string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CacheConfig struct {
	ModelListTTL time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 120)
	viper.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1/chat/completions")
	viper.SetDefault("openrouter.models_url", "https://openrouter.ai/api/v1/models")
	viper.SetDefault("openrouter.model", "openai/gpt-3.5-turbo")
	viper.SetDefault("openrouter.max_tokens", 4000)
	viper.SetDefault("openrouter.referer", "https://localhost")
	viper.SetDefault("openrouter.app_title", "Online Exam Generator")
	viper.SetDefault("openrouter.pacing_delay", 2)
	viper.SetDefault("database.path", "exams.db")
	viper.SetDefault("cache.model_list_ttl", 3600)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		OpenRouter: OpenRouterConfig{
			BaseURL:     viper.GetString("openrouter.base_url"),
			ModelsURL:   viper.GetString("openrouter.models_url"),
			APIKey:      viper.GetString("openrouter.api_key"),
			Model:       viper.GetString("openrouter.model"),
			MaxTokens:   viper.GetInt("openrouter.max_tokens"),
			Referer:     viper.GetString("openrouter.referer"),
			AppTitle:    viper.GetString("openrouter.app_title"),
			PacingDelay: viper.GetDuration("openrouter.pacing_delay") * time.Second,
		},
		Database: DatabaseConfig{
			Path: viper.GetString("database.path"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			ModelListTTL: viper.GetDuration("cache.model_list_ttl") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if apiKey := os.Getenv("OPENROUTER_API_KEY"); apiKey != "" {
		config.OpenRouter.APIKey = apiKey
	}
	if model := os.Getenv("OPENROUTER_MODEL"); model != "" {
		config.OpenRouter.Model = model
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		config.Database.Path = dbPath
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}

	return config, nil
}
