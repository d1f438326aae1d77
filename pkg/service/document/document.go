package document

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/utils/safe"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
)

var (
	// ErrUnsupportedFormat is returned for files whose extension has no loader
	ErrUnsupportedFormat = goerr.New("unsupported document format")
)

const (
	FormatPDF      = "pdf"
	FormatHTML     = "html"
	FormatText     = "txt"
	FormatMarkdown = "md"
)

// Format returns the normalized format of path, e.g. "htm" becomes "html"
func Format(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "htm":
		return FormatHTML
	case "markdown":
		return FormatMarkdown
	case "text":
		return FormatText
	}
	return ext
}

// IsSupported reports whether path can be loaded
func IsSupported(path string) bool {
	switch Format(path) {
	case FormatPDF, FormatHTML, FormatText, FormatMarkdown:
		return true
	}
	return false
}

// ListFiles walks dir recursively and returns supported files in lexical order
func ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSupported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to walk directory", goerr.V("dir", dir))
	}

	slices.Sort(files)
	return files, nil
}

// Loader extracts text from documents on disk
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

// Load reads path and returns its normalized text
func (l *Loader) Load(ctx context.Context, path string) (*model.Document, error) {
	format := Format(path)
	if !IsSupported(path) {
		return nil, goerr.Wrap(ErrUnsupportedFormat, "no loader for file", goerr.V("path", path), goerr.V("format", format))
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open document", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	var loader documentloaders.Loader
	switch format {
	case FormatPDF:
		info, err := f.Stat()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to stat document", goerr.V("path", path))
		}
		loader = documentloaders.NewPDF(f, info.Size())
	case FormatHTML:
		loader = documentloaders.NewHTML(f)
	default:
		loader = documentloaders.NewText(f)
	}

	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract document text", goerr.V("path", path), goerr.V("format", format))
	}

	return &model.Document{
		Path:   path,
		Format: format,
		Text:   Normalize(joinPages(docs)),
		Pages:  len(docs),
	}, nil
}

func joinPages(docs []schema.Document) string {
	pages := make([]string, 0, len(docs))
	for _, d := range docs {
		pages = append(pages, d.PageContent)
	}
	return strings.Join(pages, "\n\n")
}

// Normalize collapses horizontal whitespace inside lines and runs of blank
// lines, keeping paragraph breaks that the splitter and metadata extraction
// rely on.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
