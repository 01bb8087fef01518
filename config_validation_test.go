package spoon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoadConfig_StrictMode_UnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "spoon.yaml")

	configContent := `
template_dir: "./templates"
unknown_key: "should cause error"
output:
  format: text
  unknown_output_key: "should also cause error"
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	_, err = LoadConfig(configPath)
	assert.Error(t, err, "expected error for unknown keys in strict mode")
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "spoon.yaml")

	configContent := `
template_dir: "./views"
extension: ".tpl"
strict: true
modifiers: [date, uppercase]
output:
  format: json
  pretty: true
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, "./views", config.TemplateDir)
	assert.Equal(t, "json", config.Output.Format)
	assert.True(t, config.Output.Pretty)
	assert.Equal(t, []string{"date", "uppercase"}, config.Modifiers)
}

func TestLoadConfig_InvalidFormat(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "spoon.yaml")

	err := os.WriteFile(configPath, []byte("output:\n  format: xml\n"), 0644)
	assert.NoError(t, err)

	_, err = LoadConfig(configPath)
	assert.IsError(t, err, ErrConfigValidation)
	assert.Contains(t, err.Error(), "output.format 'xml' is invalid")
}

func TestValidateConfig_Modifiers(t *testing.T) {
	tests := []struct {
		name      string
		modifiers []string
		message   string
	}{
		{"empty name", []string{"date", ""}, "modifiers[1]: name is required"},
		{"invalid name", []string{"to-upper"}, "'to-upper' is not a valid modifier name"},
		{"sigil in name", []string{"$date"}, "'$date' is not a valid modifier name"},
		{"duplicate", []string{"date", "date"}, "duplicate modifier 'date'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&Config{Modifiers: tt.modifiers})
			assert.IsError(t, err, ErrConfigValidation)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	assert.NoError(t, validateConfig(getDefaultConfig()))
	assert.NoError(t, validateConfig(&Config{}))
}
