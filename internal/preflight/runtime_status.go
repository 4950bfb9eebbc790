package preflight

import (
	"strings"

	"snapsort/internal/config"
)

// CheckNotificationsFromConfig evaluates notification readiness from config
// alone; nothing is sent. An empty topic means notifications are off, which
// is a valid setup, not a failure.
func CheckNotificationsFromConfig(cfg *config.Config) Result {
	const name = "Notifications"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	if !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return Result{Name: name, Detail: "ntfy_topic must be a full URL like https://ntfy.sh/your-topic"}
	}
	return Result{Name: name, Passed: true, Detail: "Publishing to " + topic}
}
