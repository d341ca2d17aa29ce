package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/mindtool/internal/cli"
	"github.com/rshade/mindtool/internal/config"
)

// setupConfigInitTest isolates MINDTOOL_HOME and registers cleanup for global state.
func setupConfigInitTest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
	return home
}

func runConfigCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestConfigInit_Global(t *testing.T) {
	home := setupConfigInitTest(t)

	output, err := runConfigCmd(t, "config", "init", "--global")
	require.NoError(t, err)
	assert.Contains(t, output, "Configuration initialized successfully")

	configPath := filepath.Join(home, "config.yaml")
	loaded, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBaseURL, loaded.API.BaseURL)
	assert.Equal(t, config.DefaultPageSize, loaded.Paging.PageSize)
}

func TestConfigInit_ExistingRequiresForce(t *testing.T) {
	home := setupConfigInitTest(t)

	configPath := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("paging:\n  page_size: 7\n"), 0o600))

	_, err := runConfigCmd(t, "config", "init", "--global")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = runConfigCmd(t, "config", "init", "--global", "--force")
	require.NoError(t, err)

	loaded, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPageSize, loaded.Paging.PageSize)
}

// TestConfigInit_InsideProject verifies that running "config init" with a resolved
// project directory writes .mindtool/config.yaml and .mindtool/.gitignore.
func TestConfigInit_InsideProject(t *testing.T) {
	home := setupConfigInitTest(t)

	tmpDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, tmpDir)

	output, err := runConfigCmd(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, output, "Configuration initialized at")
	assert.Contains(t, output, "Created .gitignore")

	_, statErr := os.Stat(filepath.Join(tmpDir, config.ProjectDirName, "config.yaml"))
	require.NoError(t, statErr, ".mindtool/config.yaml should exist")

	gitignore, readErr := os.ReadFile(filepath.Join(tmpDir, config.ProjectDirName, ".gitignore"))
	require.NoError(t, readErr)
	assert.Equal(t, config.GitignoreContent(), string(gitignore))

	_, statErr = os.Stat(filepath.Join(home, "config.yaml"))
	assert.True(t, os.IsNotExist(statErr), "global config should not be written")
}

// TestConfigInit_ExistingGitignoreExtended verifies that --force rewrites the config
// and only appends the missing mindtool patterns to an existing .gitignore.
func TestConfigInit_ExistingGitignoreExtended(t *testing.T) {
	setupConfigInitTest(t)

	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, config.ProjectDirName)
	require.NoError(t, os.MkdirAll(projectDir, 0o750))

	customContent := "# My custom gitignore\n*.secret\n.env\n"
	gitignorePath := filepath.Join(projectDir, ".gitignore")
	require.NoError(t, os.WriteFile(gitignorePath, []byte(customContent), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte("{}\n"), 0o600))

	t.Setenv(config.EnvProjectDir, tmpDir)

	output, err := runConfigCmd(t, "config", "init", "--force")
	require.NoError(t, err)
	assert.NotContains(t, output, "Created .gitignore")
	assert.Contains(t, output, "Added *.log, cache/, *.tmp to .gitignore")

	data, err := os.ReadFile(gitignorePath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), customContent), "existing lines are kept")
	assert.Equal(t, 1, strings.Count(string(data), ".env\n"))

	output, err = runConfigCmd(t, "config", "init", "--force")
	require.NoError(t, err)
	assert.NotContains(t, output, ".gitignore", "nothing left to add")
}

func TestConfigInit_GlobalAndProjectExclusive(t *testing.T) {
	setupConfigInitTest(t)

	_, err := runConfigCmd(t, "config", "init", "--global", "--project")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestConfigValidate(t *testing.T) {
	setupConfigInitTest(t)

	output, err := runConfigCmd(t, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, output, "Configuration is valid")
	assert.Contains(t, output, config.DefaultBaseURL)
	assert.Contains(t, output, "Tag groups: 4")
}

func TestConfigValidate_InvalidEnvironment(t *testing.T) {
	setupConfigInitTest(t)
	t.Setenv(config.EnvOutputFormat, "xml")

	_, err := runConfigCmd(t, "config", "validate")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
