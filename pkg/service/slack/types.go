package slack

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Service posts assessment notifications to Slack
type Service interface {
	// PostMessage posts a Block Kit message to a channel and returns the message timestamp.
	// The text parameter is used as a fallback for notifications.
	PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error)

	// NotifyAssessment posts the summary of a finished assessment to the
	// configured channel
	NotifyAssessment(ctx context.Context, assessment *model.Assessment) error
}
