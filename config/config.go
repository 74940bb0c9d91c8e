// Package config provides configuration loading from the environment and an
// optional .env file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// AppName names the data directory, the keyring service and the mpv socket.
const AppName = "video-trimmer-cli"

// Unconstrained is the min/max duration sentinel.
const Unconstrained = -1

var (
	// ErrDurationRange is returned when the min duration exceeds the max.
	ErrDurationRange = errors.New("config: TRIM_MIN_DURATION is larger than TRIM_MAX_DURATION")
	// ErrZeroMaxDuration is returned for a max duration of 0 seconds.
	ErrZeroMaxDuration = errors.New("config: TRIM_MAX_DURATION must be -1 or positive")
)

// Config holds all configuration for the application.
type Config struct {
	// Appearance
	BackgroundColor string `env:"TRIM_BACKGROUND_COLOR, default=#1e1e2e" validate:"hexcolor" json:"background_color"`
	FrameColor      string `env:"TRIM_FRAME_COLOR, default=#c5a3ff" validate:"hexcolor" json:"frame_color"`
	ShowInfo        bool   `env:"TRIM_SHOW_INFO, default=true" json:"show_info"`
	Typeface        string `env:"TRIM_TYPEFACE, default=plain" validate:"oneof=plain bold italic" json:"typeface"`

	// Selection limits in seconds, -1 for none
	MinDurationSec int `env:"TRIM_MIN_DURATION, default=-1" validate:"min=-1" json:"min_duration_sec"`
	MaxDurationSec int `env:"TRIM_MAX_DURATION, default=-1" validate:"min=-1" json:"max_duration_sec"`

	// Export settings
	DestinationDir string `env:"TRIM_DESTINATION" json:"destination_dir"`
	BitrateMbps    int    `env:"TRIM_BITRATE, default=2" validate:"min=1,max=200" json:"bitrate_mbps"`

	// Player settings
	MpvSocket string `env:"MPV_SOCKET" json:"mpv_socket"`

	// Optional S3 publishing
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" validate:"required_with=S3Bucket" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" validate:"omitempty,url" json:"s3_endpoint,omitempty"`
	S3Prefix           string `env:"S3_PREFIX, default=clips" json:"s3_prefix,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" validate:"oneof=text json" json:"log_format"`
	LogLevel  string `env:"LOG_LEVEL, default=info" validate:"oneof=debug info warn warning error" json:"log_level"`
	LogFile   string `env:"LOG_FILE" json:"log_file"`
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// MinDurationMs returns the minimum selection length, or -1 when unset.
func (c *Config) MinDurationMs() int64 { return secondsToMs(c.MinDurationSec) }

// MaxDurationMs returns the maximum selection length, or -1 when unset.
func (c *Config) MaxDurationMs() int64 { return secondsToMs(c.MaxDurationSec) }

func secondsToMs(sec int) int64 {
	if sec <= 0 {
		return Unconstrained
	}
	return int64(sec) * 1000
}

// Load reads an optional .env file from the working directory, then the
// environment, fills path defaults and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}
	return LoadFrom(envconfig.OsLookuper())
}

// LoadFrom builds a Config from an arbitrary lookuper. Tests use it with a
// map lookuper.
func LoadFrom(l envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.fillDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() error {
	dataDir, err := DataDir()
	if err != nil {
		return err
	}
	if c.DestinationDir == "" {
		c.DestinationDir = filepath.Join(dataDir, "exports")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(dataDir, "trimmer.log")
	}
	if c.MpvSocket == "" {
		c.MpvSocket = filepath.Join(os.TempDir(), AppName+"-mpv.sock")
	}
	return nil
}

// Validate checks field constraints. It runs once at construction and again
// after command-line overrides were applied.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.MaxDurationSec == 0 {
		return ErrZeroMaxDuration
	}
	if c.MinDurationSec > 0 && c.MaxDurationSec > 0 && c.MinDurationSec > c.MaxDurationSec {
		return ErrDurationRange
	}
	return nil
}

// DataDir returns ~/.local/share/video-trimmer-cli.
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", AppName), nil
}

// NewLogger creates a structured logger writing to w.
// When LogFormat is "json", it outputs JSON logs; otherwise text.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(c.LogLevel)}

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// OpenLogger opens LogFile for appending and returns a logger on it. The
// terminal belongs to the UI, so logs never go to stdout.
func (c *Config) OpenLogger() (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(c.LogFile), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return c.NewLogger(f), f, nil
}

// String returns a string representation of the config with secrets left out.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{MinDurationSec: %d, MaxDurationSec: %d, DestinationDir: %s, BitrateMbps: %d, ShowInfo: %t, Typeface: %s, MpvSocket: %s, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s, LogFile: %s}",
		c.MinDurationSec,
		c.MaxDurationSec,
		c.DestinationDir,
		c.BitrateMbps,
		c.ShowInfo,
		c.Typeface,
		c.MpvSocket,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
		c.LogFile,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
