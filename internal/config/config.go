package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr  string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath    string     `env:"DB_PATH" envDefault:"data/quizzes.db"`
	SecretKey string     `env:"SECRET_KEY" envDefault:"dev-secret-key"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// OpenAI-compatible endpoint for quiz generation and short-answer
	// grading. With an empty key the server falls back to the offline
	// generator and judge.
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
