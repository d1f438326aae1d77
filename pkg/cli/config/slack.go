package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken  string
	channelID string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for posting assessment summaries)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("THEMIS_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID to post assessment summaries to",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("THEMIS_SLACK_CHANNEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channelID),
	)
}

// IsConfigured returns true when both token and channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// Configure creates the Slack service, or nil if not configured. Setting
// only one of token and channel is an error.
func (x *Slack) Configure() (slack.Service, error) {
	if x.botToken == "" && x.channelID == "" {
		return nil, nil
	}
	if !x.IsConfigured() {
		return nil, goerr.Wrap(ErrMissingOption, "both slack-bot-token and slack-channel are required",
			goerr.V("has_token", x.botToken != ""),
			goerr.V("has_channel", x.channelID != ""))
	}

	svc, err := slack.New(x.botToken, x.channelID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize Slack service")
	}
	return svc, nil
}
