package config

import (
	"articlesummarizer/internal/domain"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

type Config struct {
	GroqAPIKey  string     `env:"GROQ_API_KEY,required,notEmpty"`
	GroqModel   string     `env:"GROQ_MODEL"                     envDefault:"mixtral-8x7b-32768"`
	GroqBaseURL string     `env:"GROQ_BASE_URL"                  envDefault:"https://api.groq.com/openai/v1/"`
	OutputDir   string     `env:"OUTPUT_DIR"                     envDefault:"articles"`
	LogLevel    slog.Level `env:"LOG_LEVEL"                      envDefault:"info"`
}

// Load reads the optional env files (".env" when none given) into the process
// environment without overriding set variables, then parses Config from it.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{defaultEnvFile}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, domain.NewError(domain.KindConfig, "load env file", fmt.Errorf("%s: %w", f, err))
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, domain.NewError(domain.KindConfig, "parse env", err)
	}

	return cfg, nil
}
