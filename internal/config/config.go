// Package config resolves runtime settings for the blog API daemon.
//
// Values come from, in increasing precedence: built-in defaults, an optional
// .env file in the working directory, process environment variables (BLOG_*),
// and finally command-line flags registered via RegisterFlags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAddr            = "0.0.0.0:5002"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultLogFormat       = "text"
)

// Config is the fully-resolved daemon configuration.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
	LogFormat       string   // "text" or "json"
	CORSOrigins     []string // "*" allows any origin
	RateLimit       float64  // requests per second per client IP; 0 disables
	RateBurst       int
	Seed            bool // start with the two seed posts
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:            DefaultAddr,
		ShutdownTimeout: DefaultShutdownTimeout,
		LogLevel:        slog.LevelInfo,
		LogFormat:       DefaultLogFormat,
		CORSOrigins:     []string{"*"},
		Seed:            true,
	}
}

// Load reads envFile (if it exists) into the environment and builds a Config
// from defaults plus BLOG_* variables. A missing envFile is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from defaults and the variables visible through lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("BLOG_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("BLOG_SHUTDOWN_SECS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("BLOG_SHUTDOWN_SECS: want non-negative integer, got %q", v)
		}
		cfg.ShutdownTimeout = time.Duration(n) * time.Second
	}
	if v, ok := lookup("BLOG_LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("BLOG_LOG_LEVEL: %w", err)
		}
	}
	if v, ok := lookup("BLOG_LOG_FORMAT"); ok && v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v, ok := lookup("BLOG_CORS_ORIGINS"); ok && v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v, ok := lookup("BLOG_RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return Config{}, fmt.Errorf("BLOG_RATE_LIMIT: want non-negative number, got %q", v)
		}
		cfg.RateLimit = f
	}
	if v, ok := lookup("BLOG_RATE_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("BLOG_RATE_BURST: want non-negative integer, got %q", v)
		}
		cfg.RateBurst = n
	}
	if v, ok := lookup("BLOG_SEED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("BLOG_SEED: %w", err)
		}
		cfg.Seed = b
	}

	return cfg, cfg.Validate()
}

// Validate checks fields whose values cannot be expressed by their types alone.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}
	if len(c.CORSOrigins) == 0 {
		return errors.New("at least one CORS origin is required")
	}
	return nil
}

// RegisterFlags binds command-line overrides for c onto set. Flag defaults are
// the current values of c, so env-derived settings survive when a flag is unset.
func (c *Config) RegisterFlags(set *flag.FlagSet) {
	set.StringVar(&c.Addr, "listen", c.Addr, "HTTP listen address")
	set.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "graceful shutdown timeout")
	set.TextVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	set.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (text or json)")
	set.Float64Var(&c.RateLimit, "rate-limit", c.RateLimit, "per-IP requests per second (0 disables)")
	set.IntVar(&c.RateBurst, "rate-burst", c.RateBurst, "per-IP burst size")
	set.BoolFunc("no-seed", "start with an empty post collection", func(string) error {
		c.Seed = false
		return nil
	})
}

// NewLogger builds the process logger described by c.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
