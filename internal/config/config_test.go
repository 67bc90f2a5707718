package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"catalogue_url": "https://training.gov.au/Training/Details/CPC30220",
		"model": "standard",
		"max_attempts": 5,
		"format": "markdown",
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://training.gov.au/Training/Details/CPC30220", cfg.CatalogueURL)
	assert.Equal(t, "standard", cfg.Model)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	path := writeConfigFile(t, `{not json`)
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty is valid", Config{}, false},
		{"valid format", Config{Format: "docx"}, false},
		{"unknown format", Config{Format: "pdf"}, true},
		{"valid model", Config{Model: "lite"}, false},
		{"unknown model", Config{Model: "huge"}, true},
		{"attempts in range", Config{MaxAttempts: 3}, false},
		{"attempts out of range", Config{MaxAttempts: 11}, true},
		{"negative timeout", Config{TimeoutSeconds: -1}, true},
		{"missing intake file", Config{Intake: "/nonexistent/intake.json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateIntakeFileExists(t *testing.T) {
	path := writeConfigFile(t, `{}`)
	cfg := Config{Intake: path}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Model: "advanced", MaxAttempts: 2}
	defaults := Config{
		Model:          "standard",
		MaxAttempts:    3,
		TimeoutSeconds: 300,
		Format:         "markdown",
		DatabaseURL:    "postgres://localhost/planner",
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "advanced", merged.Model, "explicit value wins")
	assert.Equal(t, 2, merged.MaxAttempts, "explicit value wins")
	assert.Equal(t, 300, merged.TimeoutSeconds, "default fills zero value")
	assert.Equal(t, "markdown", merged.Format)
	assert.Equal(t, "postgres://localhost/planner", merged.DatabaseURL)
}
