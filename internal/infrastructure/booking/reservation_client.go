package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sngm3741/line-forms-services/api/internal/reservation/application"
	"github.com/sngm3741/line-forms-services/api/internal/reservation/domain"
)

// ReservationClient posts bookings to the external reservation endpoint.
// The endpoint answers {success, error?}; there is no partial commit, a
// non-2xx status or success=false means nothing was booked.
type ReservationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewReservationClient creates a client for the configured base URL.
func NewReservationClient(baseURL string, httpClient *http.Client) *ReservationClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &ReservationClient{
		baseURL:    strings.TrimSpace(baseURL),
		httpClient: httpClient,
	}
}

type reservationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Submit sends the booking payload. A refusal with a server-provided
// reason is reported as *application.RejectedError so the caller can
// surface the text verbatim.
func (c *ReservationClient) Submit(ctx context.Context, payload domain.Payload) error {
	if c.baseURL == "" {
		return fmt.Errorf("予約送信エンドポイントが設定されていません")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("予約ペイロードの作成に失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("予約送信リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("予約送信リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("予約送信でエラーが発生: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded reservationResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("予約レスポンスの解析に失敗: %w", err)
	}
	if !decoded.Success {
		return &application.RejectedError{Reason: strings.TrimSpace(decoded.Error)}
	}
	return nil
}
