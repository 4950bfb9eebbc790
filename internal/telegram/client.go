package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"snapsort/internal/config"
	"snapsort/internal/services"
)

const defaultBaseURL = "https://api.telegram.org"

// Client is a minimal Bot API client. BaseURL and HTTP are exported so tests
// can point the client at a fake server; production code uses NewClient.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	token   string
}

// NewClient builds a client for the hosted Bot API. The HTTP timeout leaves
// headroom above the long-poll window so getUpdates calls are never cut off
// by the transport.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		HTTP: &http.Client{
			Timeout: time.Duration(cfg.Telegram.PollTimeoutSeconds+15) * time.Second,
		},
		token: cfg.Telegram.BotToken,
	}
}

// call posts one Bot API method and decodes the response envelope into
// result. Network failures carry the transient marker so callers can retry;
// an explicit ok=false rejection carries the external service marker.
func (c *Client) call(ctx context.Context, method string, params url.Values, result any) error {
	endpoint := c.BaseURL + "/bot" + c.token + "/" + method
	var body io.Reader
	if len(params) > 0 {
		body = strings.NewReader(params.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return services.Wrap(services.ErrTransient, "telegram", method, "Failed to build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "telegram", method, "Request failed", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return services.Wrap(services.ErrTransient, "telegram", method, "Failed to read response", err)
	}
	var wire apiResponse
	if err := json.Unmarshal(payload, &wire); err != nil {
		return services.Wrap(
			services.ErrTransient,
			"telegram",
			method,
			fmt.Sprintf("Unexpected response with status %d", resp.StatusCode),
			err,
		)
	}
	if !wire.OK {
		return services.Wrap(
			services.ErrExternalService,
			"telegram",
			method,
			fmt.Sprintf("Bot API error %d: %s", wire.ErrorCode, wire.Description),
			nil,
		)
	}
	if result != nil {
		if err := json.Unmarshal(wire.Result, result); err != nil {
			return services.Wrap(services.ErrExternalService, "telegram", method, "Failed to decode result", err)
		}
	}
	return nil
}

// GetMe returns the bot account the token belongs to.
func (c *Client) GetMe(ctx context.Context) (User, error) {
	var user User
	if err := c.call(ctx, "getMe", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// GetUpdates long-polls for new updates. offset acknowledges everything
// below it; timeout is the server-side hold in seconds.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	params := url.Values{}
	if offset != 0 {
		params.Set("offset", strconv.FormatInt(offset, 10))
	}
	params.Set("timeout", strconv.Itoa(timeout))
	var updates []Update
	if err := c.call(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// GetFile resolves a file reference into a downloadable server path.
func (c *Client) GetFile(ctx context.Context, fileID string) (File, error) {
	params := url.Values{}
	params.Set("file_id", fileID)
	var file File
	if err := c.call(ctx, "getFile", params, &file); err != nil {
		return File{}, err
	}
	return file, nil
}

// Download fetches an attachment into dest using the two-step Bot API flow:
// getFile for the server path, then a plain GET against the file endpoint.
// A partial file is removed on error so staging never holds torn downloads.
func (c *Client) Download(ctx context.Context, fileID, dest string) error {
	file, err := c.GetFile(ctx, fileID)
	if err != nil {
		return err
	}
	if file.FilePath == "" {
		return services.Wrap(services.ErrExternalService, "telegram", "getFile", "Bot API returned no file path", nil)
	}

	endpoint := c.BaseURL + "/file/bot" + c.token + "/" + file.FilePath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return services.Wrap(services.ErrTransient, "telegram", "download", "Failed to build download request", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "telegram", "download", "Failed to fetch file", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return services.Wrap(
			services.ErrExternalService,
			"telegram",
			"download",
			fmt.Sprintf("File server returned status %d", resp.StatusCode),
			nil,
		)
	}

	out, err := os.Create(dest)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "telegram", "download", "Failed to create staging file", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return services.Wrap(services.ErrTransient, "telegram", "download", "Failed to write staging file", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return services.Wrap(services.ErrTransient, "telegram", "download", "Failed to finish staging file", err)
	}
	return nil
}
