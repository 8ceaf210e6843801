package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ghostprep/ghostprep/internal/excerpt"
	"github.com/ghostprep/ghostprep/internal/source"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Master document location
	SourceDir  string
	SourceFile string

	// Export output
	OutputDir string

	// Article assembly
	ExcerptMaxChars int

	// Export worker pool
	WorkerCount  int
	MaxQueueSize int

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8070"),

		APIKey: os.Getenv("GHOSTPREP_API_KEY"),

		SourceDir:  envOr("SOURCE_DIR", "."),
		SourceFile: envOr("SOURCE_FILE", source.DefaultFilename),

		OutputDir: envOr("OUTPUT_DIR", "out"),

		ExcerptMaxChars: envInt("EXCERPT_MAX_CHARS", excerpt.DefaultMaxChars),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 10),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	// Ghost rejects excerpts past the limit, so never allow a larger budget.
	if cfg.ExcerptMaxChars <= 0 || cfg.ExcerptMaxChars > excerpt.DefaultMaxChars {
		cfg.ExcerptMaxChars = excerpt.DefaultMaxChars
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 10
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("GHOSTPREP_API_KEY is required")
	}
	if !source.IsSupported(c.SourceFile) {
		return fmt.Errorf("SOURCE_FILE %q has an unsupported extension", c.SourceFile)
	}
	return nil
}

// SourcePath returns the resolved master document path.
func (c Config) SourcePath() string {
	return filepath.Join(c.SourceDir, c.SourceFile)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
