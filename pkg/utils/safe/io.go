package safe

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// Close closes closer and logs a failure instead of returning it. A nil
// closer is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Write writes data to w and logs a failure. A nil writer is ignored.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("Failed to write", slog.Any("error", err))
	}
}

// Remove deletes a temporary file and logs a failure other than the file
// already being gone
func Remove(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.From(ctx).Error("Failed to remove", slog.String("path", path), slog.Any("error", err))
	}
}
