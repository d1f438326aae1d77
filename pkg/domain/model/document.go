package model

// Document is text extracted from a single input file
type Document struct {
	Path   string // Source path on disk
	Format string // Lower-case extension without dot, e.g. "pdf"
	Text   string // Extracted text, whitespace normalized
	Pages  int    // Number of loader documents (PDF pages, 1 for text formats)
}

// Chunk is a contiguous piece of a Document produced by the splitter
type Chunk struct {
	Source string
	Index  int
	Text   string
}
