package messenger

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

// Client talks to the messenger gateway that fans text messages out to
// LINE. It implements application.ConfirmationSender.
type Client struct {
	endpoint    string
	destination string
	httpClient  *http.Client
}

// NewClient creates a gateway client. destination selects the channel
// on the gateway side (normally "line").
func NewClient(endpoint, destination string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{
		endpoint:    strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		destination: strings.TrimSpace(destination),
		httpClient:  httpClient,
	}
}

// Send posts one text message to the gateway for the given user.
func (c *Client) Send(ctx context.Context, userID, text string) error {
	if c.endpoint == "" {
		return errors.New("メッセンジャー送信の設定がされていません")
	}

	trimmedUserID := strings.TrimSpace(userID)
	if trimmedUserID == "" {
		return errors.New("メッセンジャー送信先ユーザーIDが空です")
	}

	bodyText := strings.TrimSpace(text)
	if bodyText == "" {
		return errors.New("メッセンジャー送信本文が空です")
	}

	payload := map[string]any{
		"userId": trimmedUserID,
		"text":   bodyText,
	}
	if c.destination != "" {
		payload["destination"] = c.destination
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("メッセンジャー送信用ペイロードの作成に失敗: %w", err)
	}

	timeout := c.httpClient.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, c.endpoint+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("メッセンジャー送信リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("メッセンジャー送信リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("メッセンジャー送信でエラーが発生: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}

	return nil
}
