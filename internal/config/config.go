// Package config handles loading and validating the halo configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the halo assistant.
type Config struct {
	Backend   BackendConfig   `mapstructure:"backend"`
	Voice     VoiceConfig     `mapstructure:"voice"`
	Audio     AudioConfig     `mapstructure:"audio"`
	Screening ScreeningConfig `mapstructure:"screening"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// BackendConfig holds the conversation backend settings.
type BackendConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	UserID         int           `mapstructure:"user_id"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// VoiceConfig holds the voice turn loop settings.
type VoiceConfig struct {
	WakePhrase      string        `mapstructure:"wake_phrase"`
	RecordingWindow time.Duration `mapstructure:"recording_window"`
	DeepgramVoice   string        `mapstructure:"deepgram_voice"`
}

// AudioConfig selects and configures the audio device layer.
type AudioConfig struct {
	Driver     string `mapstructure:"driver"` // "miniaudio" or "portaudio"
	BufferSize int    `mapstructure:"buffer_size"`
}

// ScreeningConfig holds call screening settings.
type ScreeningConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	BlockedTerms []string      `mapstructure:"blocked_terms"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and
// defaults. If configFile is non-empty it is used directly; otherwise the
// standard search order applies: ./halo.yaml, ./configs/halo.yaml,
// /etc/halo/halo.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.user_id", 1)
	v.SetDefault("backend.request_timeout", 10*time.Second)
	v.SetDefault("voice.wake_phrase", "hey halo")
	v.SetDefault("voice.recording_window", 5*time.Second)
	v.SetDefault("voice.deepgram_voice", "aura-2-asteria-en")
	v.SetDefault("audio.driver", "miniaudio")
	v.SetDefault("audio.buffer_size", 1024)
	v.SetDefault("screening.timeout", 1500*time.Millisecond)
	v.SetDefault("screening.blocked_terms", []string{})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("halo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/halo")
	}

	// Environment variables: HALO_BACKEND_BASE_URL, HALO_VOICE_WAKE_PHRASE, etc.
	v.SetEnvPrefix("HALO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional, env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url must be set")
	}
	if cfg.Voice.WakePhrase == "" {
		return fmt.Errorf("voice.wake_phrase must be set")
	}
	if cfg.Voice.RecordingWindow <= 0 {
		return fmt.Errorf("voice.recording_window must be positive")
	}
	switch cfg.Audio.Driver {
	case "miniaudio", "portaudio", "none":
	default:
		return fmt.Errorf("audio.driver must be one of miniaudio, portaudio, none; got %q", cfg.Audio.Driver)
	}
	return nil
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
