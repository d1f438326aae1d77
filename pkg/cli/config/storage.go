package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/service/report"
	"github.com/urfave/cli/v3"
)

// Storage holds configuration for uploading reports to Cloud Storage
type Storage struct {
	bucket          string
	prefix          string
	credentialsFile string
}

// Flags returns CLI flags for report storage configuration
func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "report-bucket",
			Usage:       "Cloud Storage bucket to upload reports to",
			Category:    "Storage",
			Sources:     cli.EnvVars("THEMIS_REPORT_BUCKET"),
			Destination: &x.bucket,
		},
		&cli.StringFlag{
			Name:        "report-prefix",
			Usage:       "Object name prefix of uploaded reports",
			Category:    "Storage",
			Sources:     cli.EnvVars("THEMIS_REPORT_PREFIX"),
			Destination: &x.prefix,
		},
		&cli.StringFlag{
			Name:        "report-credentials",
			Usage:       "Service account credentials file. Application default credentials if omitted",
			Category:    "Storage",
			Sources:     cli.EnvVars("THEMIS_REPORT_CREDENTIALS"),
			Destination: &x.credentialsFile,
		},
	}
}

func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", x.bucket),
		slog.String("prefix", x.prefix),
		slog.Bool("credentials_file", x.credentialsFile != ""),
	)
}

// Configure creates the uploader. Returns nil if no bucket is configured.
// The caller closes the returned uploader.
func (x *Storage) Configure(ctx context.Context) (*report.GCSUploader, error) {
	if x.bucket == "" {
		return nil, nil
	}

	var opts []report.GCSOption
	if x.prefix != "" {
		opts = append(opts, report.WithObjectPrefix(x.prefix))
	}
	if x.credentialsFile != "" {
		opts = append(opts, report.WithCredentialsFile(x.credentialsFile))
	}

	uploader, err := report.NewGCSUploader(ctx, x.bucket, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize report uploader", goerr.V("bucket", x.bucket))
	}
	return uploader, nil
}
