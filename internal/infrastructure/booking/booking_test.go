package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/line-forms-services/api/internal/reservation/application"
	"github.com/sngm3741/line-forms-services/api/internal/reservation/domain"
)

func testDate() time.Time {
	return time.Date(2026, time.September, 1, 0, 0, 0, 0, time.FixedZone("JST", 9*60*60))
}

func TestFetchSlots(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"store": r.URL.Query().Get("store"),
			"date":  r.URL.Query().Get("date"),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.Slot{{Time: "10:00"}, {Time: "13:00"}, {Time: "11:00"}})
	}))
	defer server.Close()

	client := NewAvailabilityClient(server.URL, server.Client())
	slots, err := client.FetchSlots(context.Background(), "demo-store", testDate())
	require.NoError(t, err)

	assert.Equal(t, "demo-store", gotQuery["store"])
	assert.Equal(t, "2026-09-01", gotQuery["date"])
	// The endpoint decides display order.
	require.Len(t, slots, 3)
	assert.Equal(t, []domain.Slot{{Time: "10:00"}, {Time: "13:00"}, {Time: "11:00"}}, slots)
}

func TestFetchSlotsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewAvailabilityClient(server.URL, server.Client())
	_, err := client.FetchSlots(context.Background(), "demo-store", testDate())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=429")
}

func TestFetchSlotsWithoutEndpoint(t *testing.T) {
	client := NewAvailabilityClient("", nil)
	_, err := client.FetchSlots(context.Background(), "demo-store", testDate())
	assert.Error(t, err)
}

func testPayload() domain.Payload {
	return domain.Payload{
		StoreID:       "demo-store",
		CustomerName:  "山田太郎",
		CustomerPhone: "090-1234-5678",
		VisitTime:     30,
		Menu:          domain.MenuItem{ID: "cut", Name: "カット", DurationMinutes: 60, Price: 5000},
		Date:          "2026-09-01",
		Time:          "10:00",
		TotalTime:     90,
	}
}

func TestSubmitSuccess(t *testing.T) {
	var got domain.Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	client := NewReservationClient(server.URL, server.Client())
	require.NoError(t, client.Submit(context.Background(), testPayload()))

	assert.Equal(t, "demo-store", got.StoreID)
	assert.Equal(t, 30, got.VisitTime)
	assert.Equal(t, 90, got.TotalTime)
	assert.Equal(t, "cut", got.Menu.ID)
}

func TestSubmitRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": " その時間は埋まってしまいました "})
	}))
	defer server.Close()

	client := NewReservationClient(server.URL, server.Client())
	err := client.Submit(context.Background(), testPayload())
	require.Error(t, err)

	var rejected *application.RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "その時間は埋まってしまいました", rejected.Reason)
}

func TestSubmitServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewReservationClient(server.URL, server.Client())
	err := client.Submit(context.Background(), testPayload())
	require.Error(t, err)

	var rejected *application.RejectedError
	assert.False(t, errors.As(err, &rejected), "transport errors are not refusals")
}
