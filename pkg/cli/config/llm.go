package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/service/compliance"
	"github.com/secmon-lab/themis/pkg/service/embedding"
	"github.com/urfave/cli/v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// LLM holds configuration of the LLM provider used for compliance analysis
// and embeddings
type LLM struct {
	provider           string
	geminiProjectID    string
	geminiLocation     string
	openaiAPIKey       string
	model              string
	embeddingDimension int
}

// Flags returns CLI flags for LLM configuration
func (x *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider [gemini|openai]",
			Value:       ProviderGemini,
			Category:    "LLM",
			Sources:     cli.EnvVars("THEMIS_LLM_PROVIDER"),
			Destination: &x.provider,
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Usage:       "Model name. Provider default if omitted",
			Category:    "LLM",
			Sources:     cli.EnvVars("THEMIS_LLM_MODEL"),
			Destination: &x.model,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Category:    "LLM",
			Sources:     cli.EnvVars("THEMIS_GEMINI_PROJECT"),
			Destination: &x.geminiProjectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Category:    "LLM",
			Sources:     cli.EnvVars("THEMIS_GEMINI_LOCATION"),
			Destination: &x.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("THEMIS_OPENAI_API_KEY"),
			Destination: &x.openaiAPIKey,
		},
		&cli.IntFlag{
			Name:        "embedding-dimension",
			Usage:       "Dimension of embedding vectors",
			Value:       model.EmbeddingDimension,
			Category:    "LLM",
			Sources:     cli.EnvVars("THEMIS_EMBEDDING_DIMENSION"),
			Destination: &x.embeddingDimension,
		},
	}
}

// LogAttrs returns log attributes for the LLM configuration
func (x *LLM) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("provider", x.provider),
		slog.String("model", x.model),
		slog.String("gemini_project", x.geminiProjectID),
		slog.String("gemini_location", x.geminiLocation),
		slog.Int("openai_api_key.len", len(x.openaiAPIKey)),
		slog.Int("embedding_dimension", x.embeddingDimension),
	}
}

// Configure creates the LLM client of the selected provider. Returns nil if
// the provider has no credentials configured; LLM backed features are then
// disabled.
func (x *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	switch x.provider {
	case ProviderGemini, "":
		if x.geminiProjectID == "" {
			return nil, nil
		}
		var opts []gemini.Option
		if x.model != "" {
			opts = append(opts, gemini.WithModel(x.model))
		}
		client, err := gemini.New(ctx, x.geminiProjectID, x.geminiLocation, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		return client, nil

	case ProviderOpenAI:
		if x.openaiAPIKey == "" {
			return nil, nil
		}
		var opts []openai.Option
		if x.model != "" {
			opts = append(opts, openai.WithModel(x.model))
		}
		client, err := openai.New(ctx, x.openaiAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "invalid LLM provider", goerr.V("provider", x.provider))
	}
}

// Services builds the compliance and embedding services on top of client.
// Both are nil when client is nil.
func (x *LLM) Services(client gollem.LLMClient) (compliance.Service, *embedding.Service, error) {
	if client == nil {
		return nil, nil, nil
	}

	svc, err := compliance.New(client)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create compliance service")
	}

	dimension := x.embeddingDimension
	if dimension == 0 {
		dimension = model.EmbeddingDimension
	}
	emb, err := embedding.New(client, embedding.WithDimension(dimension))
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create embedding service")
	}

	return svc, emb, nil
}
