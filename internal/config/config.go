package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when OPENAI_AUTH_KEY is not set.
var ErrMissingAPIKey = errors.New("required OPENAI_AUTH_KEY environment variable has not been set")

type Config struct {
	LogLevel string        `json:"log_level" env:"WHISPER_CONNECTOR_LOG_LEVEL"`
	APIKey   string        `json:"-" env:"OPENAI_AUTH_KEY"`
	Audio    AudioConfig   `json:"audio"`
	Capture  CaptureConfig `json:"capture"`
	Whisper  WhisperConfig `json:"whisper"`
	Inject   InjectConfig  `json:"inject"`

	path string
}

type AudioConfig struct {
	DeviceID string `json:"device_id" env:"WHISPER_CONNECTOR_DEVICE"` // used when no device argument is given
}

type CaptureConfig struct {
	Tool        string   `json:"tool" env:"WHISPER_CONNECTOR_FFMPEG"`
	InputFormat string   `json:"input_format" env:"WHISPER_CONNECTOR_INPUT_FORMAT"` // "dshow" on Windows
	ExtraArgs   string   `json:"extra_args" env:"WHISPER_CONNECTOR_CAPTURE_ARGS"`   // shell-style, e.g. "-ac 1 -ar 16000"
	StopTimeout Duration `json:"stop_timeout" env:"WHISPER_CONNECTOR_STOP_TIMEOUT"` // 0 waits forever
}

type WhisperConfig struct {
	URL   string `json:"url" env:"WHISPER_CONNECTOR_API_URL"`
	Model string `json:"model" env:"WHISPER_CONNECTOR_MODEL"`
}

type InjectConfig struct {
	CopyToClipboard bool `json:"copy_to_clipboard" env:"WHISPER_CONNECTOR_CLIPBOARD"`
}

// Duration is a time.Duration that reads and writes as "30s" in both
// the JSON file and the environment.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel: "warn",
		Audio: AudioConfig{
			DeviceID: "",
		},
		Capture: CaptureConfig{
			Tool:        "ffmpeg",
			InputFormat: "dshow",
		},
		Whisper: WhisperConfig{
			URL:   "https://api.openai.com/v1/audio/transcriptions",
			Model: "whisper-1",
		},
		Inject: InjectConfig{
			CopyToClipboard: false,
		},
		path: configPath(),
	}
}

// Load reads the config from disk, then applies .env and environment overrides
func Load() (*Config, error) {
	return LoadFrom(configPath(), ".env")
}

// LoadFrom is Load with explicit file locations.
// Priority: environment variables > .env file > config file > defaults.
func LoadFrom(path, envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		}
	}

	cfg := Default()
	cfg.path = path

	if err := readFile(path, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// SaveDevice stores name as the default device in the config file. Only
// audio.device_id changes on disk; environment, .env and flag overrides in c
// stay in memory.
func (c *Config) SaveDevice(name string) error {
	path := c.path
	if path == "" {
		path = configPath()
	}

	onDisk := Default()
	if err := readFile(path, onDisk); err != nil {
		return err
	}
	onDisk.Audio.DeviceID = name

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(onDisk, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	c.Audio.DeviceID = name
	return nil
}

// readFile overlays the JSON file at path onto cfg. A missing file is not an
// error.
func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Path returns the file SaveDevice writes to.
func (c *Config) Path() string {
	return c.path
}

// RequireAPIKey fails with ErrMissingAPIKey when no key is configured.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "whisper-connector", "config.json")
}
