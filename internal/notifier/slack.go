package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anastasiapeachy/pagewatch/internal/page"
)

// SlackWebhook posts messages to a Slack incoming webhook. The webhook
// URL already encodes the destination channel.
type SlackWebhook struct {
	url    string
	client *http.Client
}

// NewSlackWebhook creates a SlackWebhook messenger.
func NewSlackWebhook(url string) (*SlackWebhook, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook url is required")
	}
	return &SlackWebhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Post sends one structured message. Any non-200 response is a
// delivery failure; there is no retry here.
func (s *SlackWebhook) Post(ctx context.Context, msg page.Message) error {
	text := fmt.Sprintf("%s\n:blue_book: *<%s|%s>*\n:writing_hand: %s",
		msg.Headline, msg.URL, msg.Title, msg.Author)
	return s.PostText(ctx, text)
}

// PostText sends a plain text message outside the per-record template
// (used by the stale-page report summary).
func (s *SlackWebhook) PostText(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook rejected message: %d %s", resp.StatusCode, detail)
	}
	return nil
}
