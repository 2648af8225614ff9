package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"lifeexp/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	API       APIConfig
	Artifacts ArtifactsConfig
	Log       LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// APIConfig holds JSON API server settings
type APIConfig struct {
	Port string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// ArtifactsConfig locates the trained model artifacts on disk
type ArtifactsConfig struct {
	Root         string
	VariantsFile string
	Variants     []VariantConfig
}

// VariantConfig describes one model variant and where its artifacts live.
// Dir is relative to ArtifactsConfig.Root unless absolute.
type VariantConfig struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Dir         string `yaml:"dir"`
	ModelFile   string `yaml:"model_file"`
	ScalerFile  string `yaml:"scaler_file"`
	ColumnsFile string `yaml:"columns_file"`
	ModelCard   string `yaml:"model_card"`
}

// Default artifact file names, matching what the training step writes.
const (
	DefaultScalerFile  = "scaler.json"
	DefaultColumnsFile = "feature_columns.json"
	DefaultModelCard   = "MODEL.md"
)

// DefaultVariants returns the two shipped variants.
func DefaultVariants() []VariantConfig {
	return []VariantConfig{
		{
			Name:      "linear",
			Title:     "Life Expectancy Predictor (Linear Regression)",
			Dir:       "models1",
			ModelFile: "linear_model.json",
		},
		{
			Name:      "forest",
			Title:     "Life Expectancy Predictor (Random Forest)",
			Dir:       "models2",
			ModelFile: "rf_model.json",
		},
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		API: APIConfig{
			Port: getEnvOrDefault("API_PORT", "8081"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	artifacts, err := loadArtifactsConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load artifact configuration")
	}
	config.Artifacts = *artifacts

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadArtifactsConfig() (*ArtifactsConfig, error) {
	cfg := &ArtifactsConfig{
		Root:         getEnvOrDefault("ARTIFACTS_ROOT", "."),
		VariantsFile: getEnvOrDefault("VARIANTS_FILE", ""),
	}

	if cfg.VariantsFile == "" {
		cfg.Variants = DefaultVariants()
	} else {
		variants, err := LoadVariantsFile(cfg.VariantsFile)
		if err != nil {
			return nil, err
		}
		cfg.Variants = variants
	}

	for i := range cfg.Variants {
		applyVariantDefaults(&cfg.Variants[i])
	}
	return cfg, nil
}

type variantsDocument struct {
	Variants []VariantConfig `yaml:"variants"`
}

// LoadVariantsFile parses a YAML variant manifest.
func LoadVariantsFile(path string) ([]VariantConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	var doc variantsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "failed to parse %s", path)
	}
	return doc.Variants, nil
}

func applyVariantDefaults(v *VariantConfig) {
	if v.Title == "" {
		v.Title = "Life Expectancy Predictor (" + v.Name + ")"
	}
	if v.ScalerFile == "" {
		v.ScalerFile = DefaultScalerFile
	}
	if v.ColumnsFile == "" {
		v.ColumnsFile = DefaultColumnsFile
	}
	if v.ModelCard == "" {
		v.ModelCard = DefaultModelCard
	}
}

func validateConfig(config *Config) error {
	if len(config.Artifacts.Variants) == 0 {
		return errors.ConfigInvalid("at least one model variant is required")
	}
	seen := make(map[string]bool)
	for _, v := range config.Artifacts.Variants {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return errors.ConfigInvalid("variant name is required")
		}
		if seen[name] {
			return errors.ConfigInvalid("duplicate variant name: " + name)
		}
		seen[name] = true
		if v.Dir == "" {
			return errors.ConfigInvalid("variant " + name + " has no artifact directory")
		}
		if v.ModelFile == "" {
			return errors.ConfigInvalid("variant " + name + " has no model file")
		}
	}
	return nil
}

// VariantDir resolves the artifact directory of v against Root.
func (a ArtifactsConfig) VariantDir(v VariantConfig) string {
	if filepath.IsAbs(v.Dir) {
		return v.Dir
	}
	return filepath.Join(a.Root, v.Dir)
}

// Variant looks a variant up by name.
func (a ArtifactsConfig) Variant(name string) (VariantConfig, bool) {
	for _, v := range a.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return VariantConfig{}, false
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
