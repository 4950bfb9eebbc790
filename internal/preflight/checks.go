package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTelegram verifies the bot token by asking the API who it belongs to.
// It uses a 10-second timeout and a single attempt (no retries).
func CheckTelegram(ctx context.Context, bot BotChecker) Result {
	const name = "Telegram bot"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	me, err := bot.GetMe(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeTelegramError(err)}
	}
	if me.Username != "" {
		return Result{Name: name, Passed: true, Detail: "connected as @" + me.Username}
	}
	return Result{Name: name, Passed: true, Detail: "connected"}
}

// summarizeTelegramError produces a human-readable summary for getMe failures.
func summarizeTelegramError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "getMe timed out (Bot API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "getMe timed out (Bot API unreachable)"
	}
	return err.Error()
}
