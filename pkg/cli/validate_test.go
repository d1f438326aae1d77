package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/cli"
	"github.com/secmon-lab/themis/pkg/cli/config"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755)).Required()
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "themis.log")
	return cli.Run(t.Context(), append([]string{"themis", "--log-output", logPath}, args...), "test")
}

func TestRun_ValidateCommand(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid TOML", func(t *testing.T) {
		path := writeFile(t, filepath.Join(dir, "indicators.toml"), `
[[table]]
category = "high-risk"
threshold = 5

  [[table.indicator]]
  pattern = "credit scoring"
  weight = 5
`)
		gt.NoError(t, run(t, "validate", path))
	})

	t.Run("valid YAML through flag", func(t *testing.T) {
		path := writeFile(t, filepath.Join(dir, "indicators.yaml"), `
table:
  - category: minimal-risk
    threshold: 2
    indicator:
      - pattern: spam filter
        weight: 2
`)
		gt.NoError(t, run(t, "validate", "--indicator-config", path))
	})

	t.Run("built-in tables", func(t *testing.T) {
		gt.NoError(t, run(t, "validate"))
	})

	t.Run("invalid file", func(t *testing.T) {
		path := writeFile(t, filepath.Join(dir, "broken.toml"), `
[[table]]
category = "high-risk"
threshold = 0

  [[table.indicator]]
  pattern = "credit scoring"
  weight = 5
`)
		gt.Error(t, run(t, "validate", path)).Is(config.ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		gt.Error(t, run(t, "validate", filepath.Join(dir, "none.toml"))).Is(config.ErrConfigNotFound)
	})
}
