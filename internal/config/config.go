// Package config loads the tool configuration from a YAML file and
// ROSHCLIP_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	Cache       CacheConfig       `mapstructure:"cache"`
	Recognition RecognitionConfig `mapstructure:"recognition"`
	Output      OutputConfig      `mapstructure:"output"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// CacheConfig defines the constants cache settings.
type CacheConfig struct {
	Dir          string `mapstructure:"dir"`
	ConstantsURL string `mapstructure:"constants_url"`
	TTL          string `mapstructure:"ttl"`
}

// RecognitionConfig defines the retry budgets and OCR language.
type RecognitionConfig struct {
	Captures     int    `mapstructure:"captures"`
	Recognitions int    `mapstructure:"recognitions"`
	OCRLanguage  string `mapstructure:"ocr_language"`
}

// OutputConfig defines how the clipboard string is rendered.
type OutputConfig struct {
	Language string `mapstructure:"language"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the configuration. An empty path selects the default location;
// a missing file is not an error, defaults and environment apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath == "" {
		configPath = defaultConfigPath()
	}
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("ROSHCLIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *fs.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.dir", defaultCacheDir())
	v.SetDefault("cache.constants_url", "")
	v.SetDefault("cache.ttl", "48h")
	v.SetDefault("recognition.captures", 5)
	v.SetDefault("recognition.recognitions", 10)
	v.SetDefault("recognition.ocr_language", "eng")
	v.SetDefault("output.language", "en")
	v.SetDefault("logging.level", "warn")
}

// TTLDuration parses the cache revalidation window, falling back to two
// days on a malformed value.
func (c CacheConfig) TTLDuration() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d <= 0 {
		return 48 * time.Hour
	}
	return d
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "roshclip.yaml"
	}
	return filepath.Join(home, ".config", "roshclip", "config.yaml")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "cache"
	}
	return filepath.Join(dir, "roshclip")
}
