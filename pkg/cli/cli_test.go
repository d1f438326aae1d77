package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/cli"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/usecase"
)

const fixtureDir = "../service/classifier/testdata/fixtures"

func TestRun_SuiteCommand(t *testing.T) {
	t.Run("shipped fixtures pass", func(t *testing.T) {
		gt.NoError(t, run(t, "suite", fixtureDir))
	})

	t.Run("misclassified fixture fails", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "high-risk", "photo.md"), "A tool that sorts photographs by colour.")
		gt.Error(t, run(t, "suite", dir)).Is(cli.ErrSuiteFailed)
	})

	t.Run("override forces the expected category", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "high-risk", "photo.md"), "A tool that sorts photographs by colour.")
		gt.NoError(t, run(t, "suite", "--allow-override", dir))
	})

	t.Run("directory is required", func(t *testing.T) {
		gt.Error(t, run(t, "suite")).Is(usecase.ErrNoInput)
	})
}

func TestRun_ClassifyCommand(t *testing.T) {
	gt.NoError(t, run(t, "classify", fixtureDir))
	gt.NoError(t, run(t, "classify", "--json", filepath.Join(fixtureDir, "prohibited", "social_scoring_system.md")))
	gt.Error(t, run(t, "classify", filepath.Join(t.TempDir(), "missing.md")))
}

func TestRun_AssessCommand(t *testing.T) {
	outDir := t.TempDir()
	gt.NoError(t, run(t, "assess",
		"--repository-backend", "memory",
		"--system-name", "MediScan",
		"--output-dir", outDir,
		filepath.Join(fixtureDir, "high-risk", "medical_diagnosis_system.md"),
	))

	files, err := filepath.Glob(filepath.Join(outDir, "MediScan_compliance_*"))
	gt.NoError(t, err)
	gt.Array(t, files).Length(3)
}

func TestRun_IngestCommandRequiresEmbedding(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "act.txt"), "Article 5\nProhibited AI practices")
	gt.Error(t, run(t, "ingest", "--repository-backend", "memory", path)).Is(usecase.ErrEmbeddingDisabled)
}

func TestGetIndexConfig(t *testing.T) {
	cfg := cli.GetIndexConfig("test_", model.EmbeddingDimension)
	gt.Array(t, cfg.Collections).Length(1).Required()
	gt.Value(t, cfg.Collections[0].Name).Equal("test_regulation_chunks")

	idx := cfg.Collections[0].Indexes[0]
	gt.Value(t, idx.Fields[0].Path).Equal("Embedding")
	gt.Value(t, idx.Fields[0].Vector.Dimension).Equal(model.EmbeddingDimension)
}

func TestExpandPaths(t *testing.T) {
	paths, err := cli.ExpandPaths([]string{fixtureDir})
	gt.NoError(t, err).Required()
	gt.Array(t, paths).Length(4)

	_, err = cli.ExpandPaths([]string{t.TempDir()})
	gt.Error(t, err).Is(usecase.ErrNoInput)
}
