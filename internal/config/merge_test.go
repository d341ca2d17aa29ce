package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/mindtool/internal/config"
)

// newDefaultTarget returns a Config with known non-zero values so tests can verify
// that absent overlay keys leave the original values intact.
func newDefaultTarget() *config.Config {
	cfg := config.Defaults()
	cfg.API.Token = "global-token"
	cfg.Tags.LibraryFile = "/etc/mindtool/tags.yaml"
	return cfg
}

// writeOverlay writes YAML content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
output:
  default_format: json
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "json", target.Output.DefaultFormat)
	assert.Equal(t, "global-token", target.API.Token)
	assert.Equal(t, config.DefaultPageSize, target.Paging.PageSize)
}

func TestShallowMergeYAML_MultipleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
paging:
  page_size: 5
  admin_page_size: 8
  fetch_timeout_seconds: 3
logging:
  level: debug
  format: json
tags:
  remote: true
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, 5, target.Paging.PageSize)
	assert.Equal(t, 8, target.Paging.AdminPageSize)
	assert.Equal(t, "debug", target.Logging.Level)
	assert.True(t, target.Tags.Remote)
	assert.Equal(t, "table", target.Output.DefaultFormat)
}

// A section present in the overlay replaces the whole section, zero values included.
func TestShallowMergeYAML_ZeroValueFieldsReplaceDefaults(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
api:
  base_url: https://project.test
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "https://project.test", target.API.BaseURL)
	assert.Empty(t, target.API.Token)
	assert.Zero(t, target.API.TimeoutSeconds)

	overlay = writeOverlay(t, "tags:\n  remote: true\n")
	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Empty(t, target.Tags.LibraryFile)
}

func TestShallowMergeYAML_EmptyOverlayFile(t *testing.T) {
	target := newDefaultTarget()
	require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, "")))
	assert.Equal(t, config.Defaults().Paging, target.Paging)
}

func TestShallowMergeYAML_CommentOnlyFile(t *testing.T) {
	target := newDefaultTarget()
	require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, "# nothing here\n")))
	assert.Equal(t, "global-token", target.API.Token)
}

func TestShallowMergeYAML_CorruptedYAMLReturnsError(t *testing.T) {
	target := newDefaultTarget()
	err := config.ShallowMergeYAML(target, writeOverlay(t, "output: [unclosed"))
	require.Error(t, err)
}

func TestShallowMergeYAML_MissingFileReturnsError(t *testing.T) {
	target := newDefaultTarget()
	err := config.ShallowMergeYAML(target, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
plugins:
  anything: {}
output:
  default_format: yaml
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, "yaml", target.Output.DefaultFormat)
}

func TestShallowMergeYAML_NilTarget(t *testing.T) {
	require.Error(t, config.ShallowMergeYAML(nil, writeOverlay(t, "output: {}")))
}
