package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

func TestFromFallsBackToDefault(t *testing.T) {
	gt.Value(t, logging.From(context.Background())).Equal(logging.Default())
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := logging.With(context.Background(), logger)
	logging.From(ctx).Info("hello", "key", "value")

	gt.String(t, buf.String()).Contains("key=value")
}

func TestSetDefaultIgnoresNil(t *testing.T) {
	before := logging.Default()
	logging.SetDefault(nil)
	gt.Value(t, logging.Default()).Equal(before)
}
