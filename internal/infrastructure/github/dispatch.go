package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DispatchClient triggers repository_dispatch events on the build
// repository. The Actions workflow listening for the event rebuilds and
// deploys the store's reservation page.
type DispatchClient struct {
	apiBaseURL string
	repo       string
	token      string
	httpClient *http.Client
}

// NewDispatchClient creates a dispatch client for owner/repo.
func NewDispatchClient(apiBaseURL, repo, token string, httpClient *http.Client) *DispatchClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	base := strings.TrimRight(strings.TrimSpace(apiBaseURL), "/")
	if base == "" {
		base = "https://api.github.com"
	}
	return &DispatchClient{
		apiBaseURL: base,
		repo:       strings.TrimSpace(repo),
		token:      strings.TrimSpace(token),
		httpClient: httpClient,
	}
}

type dispatchRequest struct {
	EventType     string `json:"event_type"`
	ClientPayload any    `json:"client_payload"`
}

// Dispatch posts the event. GitHub answers 204 on success; anything
// else is an error carrying the response body.
func (c *DispatchClient) Dispatch(ctx context.Context, eventType string, clientPayload any) error {
	if c.repo == "" || c.token == "" {
		return errors.New("GitHub ディスパッチの設定がされていません")
	}

	body, err := json.Marshal(dispatchRequest{EventType: eventType, ClientPayload: clientPayload})
	if err != nil {
		return fmt.Errorf("ディスパッチペイロードの作成に失敗: %w", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/dispatches", c.apiBaseURL, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ディスパッチリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ディスパッチリクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusNoContent {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("GitHub API がエラーを返しました: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}

	return nil
}
