package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/cli/config"
)

func TestLLM_Configure(t *testing.T) {
	t.Run("returns nil client when gemini project is empty", func(t *testing.T) {
		client, err := config.NewLLMForTest(config.ProviderGemini, "", "").Configure(t.Context())
		gt.NoError(t, err)
		gt.Value(t, client).Nil()
	})

	t.Run("returns nil client when openai key is empty", func(t *testing.T) {
		client, err := config.NewLLMForTest(config.ProviderOpenAI, "", "").Configure(t.Context())
		gt.NoError(t, err)
		gt.Value(t, client).Nil()
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		_, err := config.NewLLMForTest("claude-local", "", "").Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidBackend)
	})

	t.Run("no services without client", func(t *testing.T) {
		svc, emb, err := config.NewLLMForTest("", "", "").Services(nil)
		gt.NoError(t, err)
		gt.Value(t, svc).Nil()
		gt.Bool(t, emb == nil).True()
	})
}

func TestRepository_Configure(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest(config.BackendMemory, "").Configure(t.Context())
		gt.NoError(t, err).Required()
		defer func() { gt.NoError(t, repo.Close()) }()
		gt.Value(t, repo.Regulation()).NotNil()
	})

	t.Run("firestore requires project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest(config.BackendFirestore, "").Configure(t.Context())
		gt.Error(t, err).Is(config.ErrMissingOption)
	})

	t.Run("invalid backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("sqlite", "").Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidBackend)
	})
}

func TestSlack_Configure(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		channel   string
		wantNil   bool
		wantError error
	}{
		{name: "not configured", wantNil: true},
		{name: "configured", token: "xoxb-test", channel: "C0123456789"},
		{name: "token only", token: "xoxb-test", wantError: config.ErrMissingOption},
		{name: "channel only", channel: "C0123456789", wantError: config.ErrMissingOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewSlackForTest(tt.token, tt.channel)
			svc, err := cfg.Configure()
			if tt.wantError != nil {
				gt.Error(t, err).Is(tt.wantError)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, svc == nil).Equal(tt.wantNil)
			gt.Value(t, cfg.IsConfigured()).Equal(!tt.wantNil)
		})
	}
}

func TestLogger_Configure(t *testing.T) {
	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "themis.log")
		closer, err := config.NewLoggerForTest("debug", "json", path).Configure()
		gt.NoError(t, err).Required()
		closer()

		_, err = os.Stat(path)
		gt.NoError(t, err)
	})

	t.Run("console", func(t *testing.T) {
		closer, err := config.NewLoggerForTest("warn", "console", "stderr").Configure()
		gt.NoError(t, err).Required()
		closer()
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("verbose", "json", "stderr").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stderr").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestChunking_Configure(t *testing.T) {
	_, err := config.NewChunkingForTest(800, 100).Configure()
	gt.NoError(t, err)

	_, err = config.NewChunkingForTest(100, 100).Configure()
	gt.Error(t, err)
}

func TestOptionalComponents(t *testing.T) {
	var weaviateCfg config.Weaviate
	store, err := weaviateCfg.Configure(t.Context())
	gt.NoError(t, err)
	gt.Value(t, store).Nil()

	var storageCfg config.Storage
	uploader, err := storageCfg.Configure(t.Context())
	gt.NoError(t, err)
	gt.Bool(t, uploader == nil).True()

	var sentryCfg config.Sentry
	flush, err := sentryCfg.Configure("test")
	gt.NoError(t, err).Required()
	flush()
}
