package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rodaworks/academy/internal/domain/model"
)

// bodyPreviewLen caps how much of the message body lands in Slack.
const bodyPreviewLen = 280

// Config captures the subset of Slack webhook behaviour we need.
type Config struct {
	WebhookURL     string
	Channel        string
	Username       string
	Timeout        time.Duration
	RetryLimit     int
	Client         *http.Client
	InboxURLPrefix string
}

// Client posts new contact form submissions to a Slack webhook so staff see
// them without watching the admin inbox.
type Client struct {
	webhookURL     string
	channel        string
	username       string
	retryLimit     int
	inboxURLPrefix string
	client         *http.Client
}

// NewClient builds a Slack webhook client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL == "" {
		return nil, errors.New("slack webhook url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	retries := cfg.RetryLimit
	if retries < 0 {
		retries = 0
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		webhookURL:     webhookURL,
		channel:        strings.TrimSpace(cfg.Channel),
		username:       fallbackString(strings.TrimSpace(cfg.Username), "academy"),
		retryLimit:     retries,
		inboxURLPrefix: strings.TrimSpace(cfg.InboxURLPrefix),
		client:         hc,
	}, nil
}

// NotifyContactMessage posts a formatted message to Slack.
func (c *Client) NotifyContactMessage(ctx context.Context, msg *model.ContactMessage) error {
	body, err := json.Marshal(c.formatMessage(msg))
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}

	attempts := c.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		err = c.post(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < attempts-1 {
			// Simple linear backoff to avoid thundering retries.
			delay := time.Duration(attempt+1) * 200 * time.Millisecond
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return lastErr
}

func (c *Client) formatMessage(msg *model.ContactMessage) map[string]any {
	timestamp := msg.CreatedAt
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	text := strings.Builder{}
	text.WriteString("*New contact message*")
	if link := c.buildInboxLink(msg.ID); link != "" {
		text.WriteString(" <")
		text.WriteString(link)
		text.WriteString("|open in inbox>")
	}
	text.WriteByte('\n')

	appendField(&text, "From", formatSender(msg.Name, msg.Email))
	appendField(&text, "Subject", escapeText(msg.Subject))
	appendField(&text, "Message", escapeText(previewBody(msg.Body)))
	text.WriteString("• Received: ")
	text.WriteString(timestamp.UTC().Format(time.RFC3339))

	out := map[string]any{
		"text":     text.String(),
		"username": c.username,
	}
	if c.channel != "" {
		out["channel"] = c.channel
	}
	return out
}

func formatSender(name, email string) string {
	name = escapeText(strings.TrimSpace(name))
	email = escapeText(strings.TrimSpace(email))
	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s (%s)", name, email)
	case name != "":
		return name
	default:
		return email
	}
}

func previewBody(body string) string {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) <= bodyPreviewLen {
		return body
	}
	runes := []rune(body)
	return string(runes[:bodyPreviewLen]) + "…"
}

func escapeText(value string) string {
	if value == "" {
		return ""
	}
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	).Replace(value)
}

func (c *Client) buildInboxLink(messageID string) string {
	prefix := strings.TrimSpace(c.inboxURLPrefix)
	if prefix == "" || messageID == "" {
		return ""
	}

	u, err := url.Parse(prefix)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}

	link, err := url.JoinPath(u.String(), messageID)
	if err != nil {
		return ""
	}
	return link
}

func fallbackString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func appendField(text *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	text.WriteString("• ")
	text.WriteString(label)
	text.WriteString(": ")
	text.WriteString(value)
	text.WriteByte('\n')
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("read slack error response: %w", readErr)
		}
		return fmt.Errorf("slack webhook %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("drain slack response body: %w", err)
	}
	return nil
}
