package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sngm3741/line-forms-services/api/internal/reservation/domain"
)

// AvailabilityClient queries the external availability endpoint for the
// open time slots of a store on a given date.
type AvailabilityClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAvailabilityClient creates a client for the configured base URL.
func NewAvailabilityClient(baseURL string, httpClient *http.Client) *AvailabilityClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &AvailabilityClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
	}
}

// FetchSlots requests the slot list. The response order is preserved:
// the service decides display order, not this client.
func (c *AvailabilityClient) FetchSlots(ctx context.Context, storeID string, date time.Time) ([]domain.Slot, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("空き枠取得エンドポイントが設定されていません")
	}

	query := url.Values{}
	query.Set("store", storeID)
	query.Set("date", date.Format("2006-01-02"))
	endpoint := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("空き枠取得リクエストの作成に失敗: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("空き枠取得リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return nil, fmt.Errorf("空き枠取得でエラーが発生: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}

	var slots []domain.Slot
	if err := json.NewDecoder(res.Body).Decode(&slots); err != nil {
		return nil, fmt.Errorf("空き枠レスポンスの解析に失敗: %w", err)
	}
	return slots, nil
}
