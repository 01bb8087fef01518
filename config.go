package spoon

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config represents the spoon configuration
type Config struct {
	TemplateDir string       `yaml:"template_dir"`
	Extension   string       `yaml:"extension"`
	Strict      bool         `yaml:"strict"`
	Modifiers   []string     `yaml:"modifiers"`
	Output      OutputConfig `yaml:"output"`
}

// OutputConfig represents how compiled expressions are reported
type OutputConfig struct {
	Format string `yaml:"format"`
	Pretty bool   `yaml:"pretty"`
}

// DefaultModifiers lists the modifiers known to a fresh environment.
var DefaultModifiers = []string{
	"cleanurl",
	"date",
	"htmlentities",
	"lowercase",
	"nl2br",
	"sprintf",
	"substring",
	"truncate",
	"ucfirst",
	"uppercase",
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Return default configuration if file doesn't exist
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Output.Format != "" {
		validFormats := map[string]bool{
			"text": true,
			"json": true,
			"yaml": true,
		}
		if !validFormats[config.Output.Format] {
			return fmt.Errorf("%w: output.format '%s' is invalid: must be one of text, json, yaml", ErrConfigValidation, config.Output.Format)
		}
	}

	seen := make(map[string]bool, len(config.Modifiers))
	for i, name := range config.Modifiers {
		if name == "" {
			return fmt.Errorf("%w: modifiers[%d]: name is required", ErrConfigValidation, i)
		}

		if !modifierName.MatchString(name) {
			return fmt.Errorf("%w: modifiers[%d]: '%s' is not a valid modifier name", ErrConfigValidation, i, name)
		}

		if seen[name] {
			return fmt.Errorf("%w: modifiers[%d]: duplicate modifier '%s'", ErrConfigValidation, i, name)
		}

		seen[name] = true
	}

	return nil
}

var modifierName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		TemplateDir: "./templates",
		Extension:   ".tpl",
		Strict:      false,
		Modifiers:   append([]string{}, DefaultModifiers...),
		Output: OutputConfig{
			Format: "text",
			Pretty: false,
		},
	}
}

// applyDefaults fills in values a partial config file left empty
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.TemplateDir == "" {
		config.TemplateDir = defaults.TemplateDir
	}

	if config.Extension == "" {
		config.Extension = defaults.Extension
	}

	if config.Modifiers == nil {
		config.Modifiers = defaults.Modifiers
	}

	if config.Output.Format == "" {
		config.Output.Format = defaults.Output.Format
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in path settings
func expandConfigEnvVars(config *Config) {
	config.TemplateDir = expandEnvVars(config.TemplateDir)
	config.Extension = expandEnvVars(config.Extension)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
