package analysis

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

type SlackNotifier struct {
	client    *slack.Client
	channelID string // channel to post finished analyses to
}

func NewSlackNotifier(botToken, channelID string, opts ...slack.Option) *SlackNotifier {
	return &SlackNotifier{
		client:    slack.New(botToken, opts...),
		channelID: channelID,
	}
}

func (n *SlackNotifier) NotifyAnalysis(ctx context.Context, req Request, res Result) error {
	by := req.RequestedBy
	if by == "" {
		by = "unknown"
	}
	text := fmt.Sprintf(
		":memo: *Analysis finished* (rubric `%s`, requested by %s)\n%s",
		res.Rubric, by, res.Text(),
	)

	_, _, err := n.client.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return fmt.Errorf("slack notify: %w", err)
	}
	return nil
}
