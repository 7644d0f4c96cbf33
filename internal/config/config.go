package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	CORSAllowOrigins    string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	JWTSecret           string
	LeaderboardCacheTTL time.Duration
	JudgeWeight         float64
	AIWeight            float64
	AIProvider          string
	OpenAIAPIKey        string
	OpenAIModel         string
	AIScoreTimeout      time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HACKCENTRAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "HackCentral API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("leaderboard.cache_ttl", "2m")
	v.SetDefault("judge.weight", 0.7)
	v.SetDefault("ai.weight", 0.3)
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("ai.score_timeout", "2m")

	ttlString := v.GetString("leaderboard.cache_ttl")
	if ttlString == "" {
		ttlString = "2m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid leaderboard cache ttl: %w", err)
	}

	scoreTimeoutString := v.GetString("ai.score_timeout")
	if scoreTimeoutString == "" {
		scoreTimeoutString = "2m"
	}

	scoreTimeout, err := time.ParseDuration(scoreTimeoutString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid ai score timeout: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		CORSAllowOrigins:    v.GetString("cors.allow_origins"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		LeaderboardCacheTTL: ttl,
		JudgeWeight:         v.GetFloat64("judge.weight"),
		AIWeight:            v.GetFloat64("ai.weight"),
		AIProvider:          strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:        v.GetString("openai_api_key"),
		OpenAIModel:         v.GetString("openai.model"),
		AIScoreTimeout:      scoreTimeout,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.JudgeWeight <= 0 && cfg.AIWeight <= 0 {
		cfg.JudgeWeight = 0.7
		cfg.AIWeight = 0.3
	}

	return cfg, nil
}
