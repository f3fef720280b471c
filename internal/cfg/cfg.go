// Package cfg loads service configuration from a YAML file or the
// environment. A YAML file selected by CONFIG_FILE takes priority, with
// environment variables overriding individual values.
package cfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	ModelURL    string
	ModelPath   string
	DataPath    string
	ListenPort  int
	HTTPTimeout time.Duration
	LogLevel    string
}

type ConfigFile struct {
	Model struct {
		URL  string `yaml:"url"`
		Path string `yaml:"path"`
	} `yaml:"model"`

	Server struct {
		ListenPort  int    `yaml:"listenPort"`
		HTTPTimeout string `yaml:"httpTimeout"`
	} `yaml:"server"`

	System struct {
		DataPath string `yaml:"dataPath"`
		LogLevel string `yaml:"logLevel"`
	} `yaml:"system"`
}

func Load() (Settings, error) {
	// Try to load from YAML file first
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromYAML(configPath)
	}

	// Fallback to environment variables
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	httpTimeout := 30 * time.Second
	if config.Server.HTTPTimeout != "" {
		httpTimeout, err = time.ParseDuration(config.Server.HTTPTimeout)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid server.httpTimeout %q: %w", config.Server.HTTPTimeout, err)
		}
	}

	settings := Settings{
		ModelURL:    getEnvOrDefault("MODEL_URL", config.Model.URL),
		ModelPath:   getEnvOrDefault("MODEL_PATH", withDefault(config.Model.Path, "model/trained_model.json")),
		DataPath:    getEnvOrDefault("DATA_PATH", config.System.DataPath),
		ListenPort:  getIntFromEnvOrConfig("LISTEN_PORT", config.Server.ListenPort, 8080),
		HTTPTimeout: getDurationOrDefault("HTTP_TIMEOUT", httpTimeout),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", withDefault(config.System.LogLevel, "info")),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		ModelURL:    os.Getenv("MODEL_URL"), // optional when the artifact exists locally
		ModelPath:   getEnvOrDefault("MODEL_PATH", "model/trained_model.json"),
		DataPath:    os.Getenv("DATA_PATH"), // optional
		ListenPort:  getIntOrDefault("LISTEN_PORT", 8080),
		HTTPTimeout: getDurationOrDefault("HTTP_TIMEOUT", 30*time.Second),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func withDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func validateSettings(settings *Settings) error {
	if settings.ModelPath == "" {
		return fmt.Errorf("model path cannot be empty")
	}

	if settings.ListenPort < 1024 || settings.ListenPort > 65535 {
		return fmt.Errorf("listen port must be between 1024 and 65535, got %d", settings.ListenPort)
	}

	if settings.HTTPTimeout < time.Second || settings.HTTPTimeout > 5*time.Minute {
		return fmt.Errorf("HTTP timeout must be between 1s and 5m, got %v", settings.HTTPTimeout)
	}

	switch settings.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error; got %q", settings.LogLevel)
	}

	return nil
}
