package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCommand_MissingIntake(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "generate")
	cmd.Env = []string{"PATH=/usr/bin:/bin", "GEMINI_API_KEY=test-key"}
	output, err := cmd.CombinedOutput()

	assert.Error(t, err, "command should fail")
	assert.Contains(t, string(output), "--intake must be provided", "should require an intake file")
}

func TestGenerateCommand_MissingAPIKey(t *testing.T) {
	binaryPath := getBinaryPath(t)
	intakePath := writeTempJSON(t, validIntakeJSON)

	cmd := exec.Command(binaryPath, "generate", "--intake", intakePath)
	cmd.Env = []string{"PATH=/usr/bin:/bin"}
	output, err := cmd.CombinedOutput()

	assert.Error(t, err, "command should fail")
	assert.Contains(t, string(output), "GEMINI_API_KEY", "should require an API key")
}

func TestGenerateCommand_BadConfigFile(t *testing.T) {
	binaryPath := getBinaryPath(t)

	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte("{not json"), 0o644))

	cmd := exec.Command(binaryPath, "generate", "--config", configPath)
	cmd.Env = []string{"PATH=/usr/bin:/bin", "GEMINI_API_KEY=test-key"}
	output, err := cmd.CombinedOutput()

	assert.Error(t, err, "command should fail")
	assert.Contains(t, string(output), "failed to load config", "should report the broken config file")
}

func TestGenerateCommand_InvalidFormat(t *testing.T) {
	binaryPath := getBinaryPath(t)
	intakePath := writeTempJSON(t, validIntakeJSON)

	cmd := exec.Command(binaryPath, "generate", "--intake", intakePath, "--format", "pdf")
	cmd.Env = []string{"PATH=/usr/bin:/bin", "GEMINI_API_KEY=test-key"}
	output, err := cmd.CombinedOutput()

	assert.Error(t, err, "command should fail")
	assert.Contains(t, string(output), "format", "should report the unsupported format")
}

func TestGenerateCommand_FullRun(t *testing.T) {
	t.Skip("Skipping - requires a live Gemini API key and network access")
}
