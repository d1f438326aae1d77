package report

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/secmon-lab/themis/pkg/utils/safe"
)

// Format is an output format of the report
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

const fileTimeLayout = "20060102_150405"

var ErrUnknownFormat = goerr.New("unknown report format")

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("report").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// Uploader stores a rendered report file remotely and returns its location
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// Generator renders assessments and writes report files
type Generator struct {
	outputDir  string
	uploader   Uploader
	thresholds map[types.RiskCategory]float64
	now        func() time.Time
}

// Option is a functional option for Generator
type Option func(*Generator)

// WithUploader uploads every written file
func WithUploader(u Uploader) Option {
	return func(g *Generator) {
		g.uploader = u
	}
}

// WithThresholds shows the classifier thresholds next to each category score
func WithThresholds(thresholds map[types.RiskCategory]float64) Option {
	return func(g *Generator) {
		g.thresholds = thresholds
	}
}

// WithClock replaces time.Now for generation timestamps
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator writing into outputDir
func New(outputDir string, opts ...Option) *Generator {
	g := &Generator{
		outputDir: outputDir,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Render writes the assessment to w in the given format
func (g *Generator) Render(w io.Writer, format Format, a *model.Assessment) error {
	if a == nil {
		return goerr.New("assessment is required")
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(a); err != nil {
			return goerr.Wrap(err, "failed to encode assessment", goerr.V("id", a.ID))
		}
		return nil

	case FormatText, FormatMarkdown:
		name := "report." + string(format) + ".tmpl"
		if err := templates.ExecuteTemplate(w, name, newView(a, g.thresholds, g.now())); err != nil {
			return goerr.Wrap(err, "failed to render report", goerr.V("format", format), goerr.V("id", a.ID))
		}
		return nil

	default:
		return goerr.Wrap(ErrUnknownFormat, "cannot render", goerr.V("format", format))
	}
}

// Result lists the files produced by Write
type Result struct {
	Files   []string `json:"files"`
	Uploads []string `json:"uploads,omitempty"`
}

// Write renders the text, Markdown and JSON outputs of the assessment into
// the output directory and uploads them when an Uploader is set
func (g *Generator) Write(ctx context.Context, a *model.Assessment) (*Result, error) {
	if a == nil {
		return nil, goerr.New("assessment is required")
	}
	if g.outputDir == "" {
		return nil, goerr.New("output directory is required")
	}
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create output directory", goerr.V("dir", g.outputDir))
	}

	stem := FileStem(a.SystemName)
	timestamp := g.now().Format(fileTimeLayout)

	outputs := []struct {
		format      Format
		name        string
		contentType string
	}{
		{FormatText, stem + "_compliance_report_" + timestamp + ".txt", "text/plain; charset=utf-8"},
		{FormatMarkdown, stem + "_compliance_report_" + timestamp + ".md", "text/markdown; charset=utf-8"},
		{FormatJSON, stem + "_compliance_analysis.json", "application/json"},
	}

	result := &Result{}
	for _, out := range outputs {
		var buf bytes.Buffer
		if err := g.Render(&buf, out.format, a); err != nil {
			return nil, err
		}

		path := filepath.Join(g.outputDir, out.name)
		if err := writeFileAtomic(ctx, path, buf.Bytes()); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, path)

		if g.uploader != nil {
			location, err := g.uploader.Upload(ctx, out.name, buf.Bytes(), out.contentType)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to upload report", goerr.V("name", out.name))
			}
			result.Uploads = append(result.Uploads, location)
		}
	}

	logging.From(ctx).Info("report written",
		"system", a.SystemName,
		"files", result.Files,
		"uploads", len(result.Uploads))
	return result, nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place
func writeFileAtomic(ctx context.Context, path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		safe.Remove(ctx, tmp)
		return goerr.Wrap(err, "failed to write report", goerr.V("path", path))
	}
	if err := os.Rename(tmp, path); err != nil {
		safe.Remove(ctx, tmp)
		return goerr.Wrap(err, "failed to move report into place", goerr.V("path", path))
	}
	return nil
}
