package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/classifier"
	"github.com/secmon-lab/themis/pkg/service/report"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/secmon-lab/themis/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// runtimeConfig bundles the configuration shared by commands that run the
// assessment pipeline
type runtimeConfig struct {
	classifier config.Classifier
	repository config.Repository
	weaviate   config.Weaviate
	llm        config.LLM
	chunking   config.Chunking
	storage    config.Storage
	slack      config.Slack
}

func (x *runtimeConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.classifier.Flags()...)
	flags = append(flags, x.repository.Flags()...)
	flags = append(flags, x.weaviate.Flags()...)
	flags = append(flags, x.llm.Flags()...)
	flags = append(flags, x.chunking.Flags()...)
	flags = append(flags, x.storage.Flags()...)
	flags = append(flags, x.slack.Flags()...)
	return flags
}

// runtime holds the use cases built from runtimeConfig. Close releases every
// opened client.
type runtime struct {
	uc         *usecase.UseCases
	classifier *classifier.Classifier
	closers    []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// thresholds returns the thresholds of the scored categories
func thresholds(cls *classifier.Classifier) map[types.RiskCategory]float64 {
	out := make(map[types.RiskCategory]float64)
	for _, c := range types.ScoredRiskCategories() {
		if v, ok := cls.Threshold(c); ok {
			out[c] = v
		}
	}
	return out
}

// build configures every component. A report generator is only attached
// when outputDir is set.
func (x *runtimeConfig) build(ctx context.Context, outputDir string) (*runtime, error) {
	rt := &runtime{}
	fail := func(err error) (*runtime, error) {
		rt.Close()
		return nil, err
	}

	cls, err := x.classifier.Configure()
	if err != nil {
		return fail(goerr.Wrap(err, "failed to configure classifier"))
	}
	rt.classifier = cls

	repo, err := x.repository.Configure(ctx)
	if err != nil {
		return fail(goerr.Wrap(err, "failed to initialize repository"))
	}
	rt.closers = append(rt.closers, func() { safe.Close(ctx, repo) })

	var opts []usecase.Option

	store, err := x.weaviate.Configure(ctx)
	if err != nil {
		return fail(err)
	}
	if store != nil {
		opts = append(opts, usecase.WithRegulationStore(store))
	}

	llmClient, err := x.llm.Configure(ctx)
	if err != nil {
		return fail(goerr.Wrap(err, "failed to initialize LLM client"))
	}
	complianceSvc, embedder, err := x.llm.Services(llmClient)
	if err != nil {
		return fail(err)
	}
	if llmClient != nil {
		opts = append(opts, usecase.WithCompliance(complianceSvc), usecase.WithEmbedder(embedder))
	} else {
		logging.Default().Warn("No LLM configured, compliance analysis and embedding are disabled")
	}

	chunker, err := x.chunking.Configure()
	if err != nil {
		return fail(goerr.Wrap(err, "failed to configure chunker"))
	}
	opts = append(opts, usecase.WithChunker(chunker))

	if outputDir != "" {
		reportOpts := []report.Option{report.WithThresholds(thresholds(cls))}
		uploader, err := x.storage.Configure(ctx)
		if err != nil {
			return fail(err)
		}
		if uploader != nil {
			rt.closers = append(rt.closers, func() { safe.Close(ctx, uploader) })
			reportOpts = append(reportOpts, report.WithUploader(uploader))
		}
		opts = append(opts, usecase.WithReporter(report.New(outputDir, reportOpts...)))
	}

	notifier, err := x.slack.Configure()
	if err != nil {
		return fail(err)
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}

	attrs := []any{
		slog.Any("classifier", x.classifier),
		slog.Any("weaviate", x.weaviate),
		slog.Any("chunking", x.chunking),
		slog.Any("storage", x.storage),
		slog.Any("slack", x.slack),
	}
	for _, attr := range x.llm.LogAttrs() {
		attrs = append(attrs, attr)
	}
	logging.Default().Info("Runtime configured", attrs...)

	rt.uc = usecase.New(repo, cls, opts...)
	return rt, nil
}
