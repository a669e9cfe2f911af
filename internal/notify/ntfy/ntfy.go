// Package ntfy delivers notifications as HTTP POSTs to an ntfy topic.
package ntfy

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"lookout/internal/config"
	"lookout/internal/services"
)

const userAgent = "Lookout-Go/0.1.0"

// Sender posts plain-text messages to an ntfy topic URL.
type Sender struct {
	endpoint string
	client   *http.Client
}

// New constructs an ntfy sender for the given topic URL.
func New(topic string, timeout time.Duration) *Sender {
	return &Sender{
		endpoint: strings.TrimSpace(topic),
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *Sender) Name() string { return "ntfy" }

// Send publishes the message to the topic. The recipient name rides along in
// the notification title; ntfy topics have no per-recipient routing.
func (s *Sender) Send(ctx context.Context, rcpt config.Recipient, text string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(text))
	if err != nil {
		return services.Wrap(services.ErrDelivery, "notify-ntfy", "send", "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	title := "Lookout - Phone Detected"
	if name := strings.TrimSpace(rcpt.Name); name != "" {
		title = "Lookout - Phone Detected (" + name + ")"
	}
	req.Header.Set("Title", title)
	req.Header.Set("Tags", "lookout,phone,detected")
	req.Header.Set("Priority", "high")

	resp, err := s.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrDelivery, "notify-ntfy", "send", "post topic", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrDelivery, "notify-ntfy", "send",
			"ntfy returned "+resp.Status+": "+strings.TrimSpace(string(body)), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
