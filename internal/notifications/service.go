package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"snapsort/internal/config"
)

const userAgent = "Snapsort/0.1.0"

// Service defines the notification surface exposed to daemon components.
type Service interface {
	NotifyBatchStarted(ctx context.Context, startedAt time.Time) error
	NotifyBatchFinalized(ctx context.Context, category, subcategory string, moved, failed int, destination string) error
	NotifyBatchFailed(ctx context.Context, reason string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyBatchStarted(ctx context.Context, startedAt time.Time) error {
	message := "📸 Collecting photos for a new batch"
	if !startedAt.IsZero() {
		message = fmt.Sprintf("📸 Collecting photos for a new batch (started %s)", startedAt.Format("15:04:05"))
	}
	data := payload{
		title:   "Snapsort - Batch Started",
		message: message,
		tags:    []string{"snapsort", "batch", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBatchFinalized(ctx context.Context, category, subcategory string, moved, failed int, destination string) error {
	category = strings.TrimSpace(category)
	subcategory = strings.TrimSpace(subcategory)

	var title, message string
	if failed == 0 {
		title = "Snapsort - Batch Filed"
		message = fmt.Sprintf("📁 %s - %s: filed %d photos", category, subcategory, moved)
	} else {
		title = "Snapsort - Batch Filed (with errors)"
		message = fmt.Sprintf("📁 %s - %s: filed %d photos, %d failed", category, subcategory, moved, failed)
	}
	if destination = strings.TrimSpace(destination); destination != "" {
		message = fmt.Sprintf("%s\nFolder: %s", message, destination)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"snapsort", "batch", "filed"},
	}
	if failed > 0 {
		data.priority = "high"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBatchFailed(ctx context.Context, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown"
	}
	data := payload{
		title:    "Snapsort - Batch Failed",
		message:  fmt.Sprintf("❌ Batch failed: %s", reason),
		tags:     []string{"snapsort", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Snapsort - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"snapsort", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyBatchStarted(context.Context, time.Time) error { return nil }
func (noopService) NotifyBatchFinalized(context.Context, string, string, int, int, string) error {
	return nil
}
func (noopService) NotifyBatchFailed(context.Context, string) error { return nil }
func (noopService) TestNotification(context.Context) error          { return nil }
