package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	OFF      OFFConfig
	USDA     USDAConfig
	OpenAI   OpenAIConfig
	Cache    CacheConfig
	Analysis AnalysisConfig
	Barcode  BarcodeConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OFFConfig holds Open Food Facts API configuration
type OFFConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// USDAConfig holds USDA FoodData Central API configuration
type USDAConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Enabled bool   `mapstructure:"enabled"`
}

// OpenAIConfig holds generative-description configuration
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Enabled bool   `mapstructure:"enabled"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// AnalysisConfig holds ingredient-analysis configuration
type AnalysisConfig struct {
	MaxIngredients int           `mapstructure:"max_ingredients"`
	BatchSize      int           `mapstructure:"batch_size"`
	BatchDelay     time.Duration `mapstructure:"batch_delay"`
	StrictWeights  bool          `mapstructure:"strict_weights"`
	DemoProducts   bool          `mapstructure:"demo_products"`
}

// BarcodeConfig holds barcode format validation configuration
type BarcodeConfig struct {
	ValidationPattern string `mapstructure:"validation_pattern"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/smartaisle/")

	v.SetEnvPrefix("SMARTAISLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// API keys carry no defaults, so viper has to be told about them
	// explicitly for AutomaticEnv to pick them up during Unmarshal.
	v.BindEnv("usda.api_key")
	v.BindEnv("openai.api_key")

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough to run.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Upstream defaults
	v.SetDefault("off.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("usda.enabled", false)
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("openai.enabled", false)

	// Cache defaults
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Analysis defaults
	v.SetDefault("analysis.max_ingredients", 30)
	v.SetDefault("analysis.batch_size", 5)
	v.SetDefault("analysis.batch_delay", "1s")
	v.SetDefault("analysis.strict_weights", false)
	v.SetDefault("analysis.demo_products", true)

	// 7-14 digit barcodes, or 8-14 uppercase alphanumeric
	v.SetDefault("barcode.validation_pattern", `^\d{7,14}$|^[A-Z0-9]{8,14}$`)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.USDA.Enabled && config.USDA.APIKey == "" {
		return fmt.Errorf("USDA API key is required when USDA lookups are enabled (set SMARTAISLE_USDA_API_KEY)")
	}

	if config.OpenAI.Enabled && config.OpenAI.APIKey == "" {
		return fmt.Errorf("OpenAI API key is required when description generation is enabled (set SMARTAISLE_OPENAI_API_KEY)")
	}

	if config.Analysis.MaxIngredients <= 0 {
		return fmt.Errorf("analysis.max_ingredients must be positive, got %d", config.Analysis.MaxIngredients)
	}

	if config.Analysis.BatchSize <= 0 {
		return fmt.Errorf("analysis.batch_size must be positive, got %d", config.Analysis.BatchSize)
	}

	if _, err := regexp.Compile(config.Barcode.ValidationPattern); err != nil {
		return fmt.Errorf("barcode.validation_pattern is not a valid regex: %w", err)
	}

	return nil
}
