package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Wyydra/meet/internal/core/domain"
)

const UserHeader = "X-User-Id"

// Error is a non-2xx reply from the server. Code is the machine-readable
// reason the server attached, if any.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

var codeErrors = map[string]error{
	"invalid_context": domain.ErrInvalidContext,
	"invalid_message": domain.ErrInvalidMessage,
	"invalid_config":  domain.ErrInvalidConfig,
	"not_found":       domain.ErrNotFound,
	"already_exists":  domain.ErrAlreadyExists,
}

func (e *Error) Unwrap() error {
	if err, ok := codeErrors[e.Code]; ok {
		return err
	}
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrAlreadyExists
	}
	return nil
}

// Client talks to the meet server on behalf of one user. It implements
// port.MessageSubmitter and port.ConfigSource.
type Client struct {
	baseURL string
	userID  domain.UserID
	http    *http.Client
}

func NewClient(baseURL string, userID domain.UserID) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) FetchConfig(ctx context.Context) (domain.FeatureConfig, error) {
	var cfg domain.FeatureConfig
	if err := c.do(ctx, http.MethodGet, "/api/v1/config", nil, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Client) UpdateConfig(ctx context.Context, cfg domain.UserConfig) error {
	body := map[string]string{domain.ConfigKeyNamingScheme: string(cfg.NamingScheme)}
	return c.do(ctx, http.MethodPut, "/api/v1/config", body, nil)
}

func (c *Client) Submit(ctx context.Context, msg domain.Message) (domain.Message, error) {
	var stored domain.Message
	if err := c.do(ctx, http.MethodPost, "/api/v1/posts", msg, &stored); err != nil {
		return domain.Message{}, err
	}
	return stored, nil
}

func (c *Client) ListPosts(ctx context.Context, channelID domain.ChannelID, limit int) ([]domain.Message, error) {
	path := "/api/v1/channels/" + url.PathEscape(channelID.String()) + "/posts"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var posts []domain.Message
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// StartMeeting asks the server to start a meeting with the caller's
// configured naming scheme. username names personal meetings and may be
// empty.
func (c *Client) StartMeeting(ctx context.Context, channel domain.Channel, team domain.Team, username string) (domain.MeetingIdentifier, domain.Message, error) {
	req := struct {
		ChannelID   domain.ChannelID   `json:"channel_id"`
		ChannelName string             `json:"channel_name"`
		ChannelType domain.ChannelType `json:"channel_type,omitempty"`
		TeamName    string             `json:"team_name"`
		UserName    string             `json:"user_name,omitempty"`
	}{channel.ID, channel.Name, channel.Type, team.Name, username}

	var resp struct {
		MeetingID domain.MeetingIdentifier `json:"meeting_id"`
		Post      domain.Message           `json:"post"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/meetings", req, &resp); err != nil {
		return "", domain.Message{}, err
	}
	return resp.MeetingID, resp.Post, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set(UserHeader, c.userID.String())
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
		payload.Error = strings.TrimSpace(string(raw))
	}
	if payload.Error == "" {
		payload.Error = http.StatusText(resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Code: payload.Code, Message: payload.Error}
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
