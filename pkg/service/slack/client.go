package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// client implements Service interface
type client struct {
	api       *slack.Client
	channelID string
	apiURL    string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithAPIURL points the client at another Slack API endpoint
func WithAPIURL(url string) Option {
	return func(c *client) {
		c.apiURL = url
	}
}

// New creates a new Slack service posting to channelID with the provided bot token
func New(token, channelID string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel is required")
	}

	c := &client{
		channelID: channelID,
	}

	for _, opt := range opts {
		opt(c)
	}

	var apiOpts []slack.Option
	if c.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(c.apiURL))
	}
	c.api = slack.New(token, apiOpts...)

	return c, nil
}

func (c *client) PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post Slack message", goerr.V("channelID", channelID))
	}
	return ts, nil
}

func (c *client) NotifyAssessment(ctx context.Context, assessment *model.Assessment) error {
	if assessment == nil {
		return goerr.New("assessment is required")
	}

	blocks, text := AssessmentBlocks(assessment)
	ts, err := c.PostMessage(ctx, c.channelID, blocks, text)
	if err != nil {
		return goerr.Wrap(err, "failed to notify assessment", goerr.V("id", assessment.ID))
	}

	logging.From(ctx).Info("assessment notified to Slack",
		"id", assessment.ID,
		"channel", c.channelID,
		"ts", ts)
	return nil
}
