package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Notifier posts milestone announcements to a configured webhook URL as a
// JSON payload. An empty URL produces a disabled notifier that accepts and
// drops every announcement.
type Notifier struct {
	url        string
	httpClient *http.Client
}

// NewNotifier creates a webhook notifier. url may be empty to disable
// announcements.
func NewNotifier(url string) *Notifier {
	return &Notifier{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

type milestonePayload struct {
	Event string `json:"event"`
	Tool  string `json:"tool"`
	Slug  string `json:"slug"`
	Stars int    `json:"stars"`
	Text  string `json:"text"`
}

// NotifyMilestone posts a star milestone announcement for a tool.
func (n *Notifier) NotifyMilestone(ctx context.Context, toolName, toolSlug string, stars int) error {
	if !n.Enabled() {
		return nil
	}

	payload := milestonePayload{
		Event: "star_milestone",
		Tool:  toolName,
		Slug:  toolSlug,
		Stars: stars,
		Text:  fmt.Sprintf("%s just reached %d stars", toolName, stars),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal milestone payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
