package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storedomain "github.com/sngm3741/line-forms-services/api/internal/store/domain"
)

type stubProfiles struct {
	upserted  []*storedomain.Profile
	upsertErr error
}

func (s *stubProfiles) Get(context.Context, string) (*storedomain.Profile, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProfiles) Upsert(_ context.Context, profile *storedomain.Profile) error {
	s.upserted = append(s.upserted, profile)
	return s.upsertErr
}

type stubDispatcher struct {
	events   []string
	payloads []any
	err      error
}

func (s *stubDispatcher) Dispatch(_ context.Context, eventType string, clientPayload any) error {
	s.events = append(s.events, eventType)
	s.payloads = append(s.payloads, clientPayload)
	return s.err
}

func newTestRouter(profiles *stubProfiles, dispatcher *stubDispatcher) chi.Router {
	handler := NewHandler(Config{
		Logger:     log.New(io.Discard, "", 0),
		Profiles:   profiles,
		Dispatcher: dispatcher,
	})
	router := chi.NewRouter()
	router.Route("/webhook", handler.Register)
	return router
}

func kintoneBody(overrides map[string]string) string {
	fields := map[string]string{
		"$id":            "42",
		"store_id":       "demo-store",
		"store_name":     "デモ店舗",
		"liff_id":        "1234567890-abcdefgh",
		"menu_config":    `[{"id":"cut","name":"カット","time":60,"price":5000}]`,
		"business_hours": `{"月":"10:00-19:00","日":"定休日"}`,
		"primary_color":  "#ff6b6b",
		"phone":          "03-1234-5678",
		"email":          "demo@example.com",
	}
	for key, value := range overrides {
		fields[key] = value
	}

	record := make(map[string]map[string]string, len(fields))
	for key, value := range fields {
		record[key] = map[string]string{"value": value}
	}
	body, _ := json.Marshal(map[string]any{"record": record})
	return string(body)
}

func postKintone(t *testing.T, router chi.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/kintone", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestKintoneWebhookTriggersDispatch(t *testing.T) {
	profiles := &stubProfiles{}
	dispatcher := &stubDispatcher{}
	router := newTestRouter(profiles, dispatcher)

	rec := postKintone(t, router, kintoneBody(nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp relayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "GitHub Actions triggered successfully", resp.Message)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, "deploy-form", dispatcher.events[0])

	payload, ok := dispatcher.payloads[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "42", payload["record_id"])
	assert.Equal(t, "demo-store", payload["store_id"])
	assert.Equal(t, "デモ店舗", payload["store_name"])
	assert.Equal(t, "1234567890-abcdefgh", payload["liff_id"])
	assert.Equal(t, "#ff6b6b", payload["primary_color"])

	hours, ok := payload["business_hours"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "10:00-19:00", hours["mon"])
	assert.Equal(t, "定休日", hours["sun"])
}

func TestKintoneWebhookPersistsProfile(t *testing.T) {
	profiles := &stubProfiles{}
	dispatcher := &stubDispatcher{}
	router := newTestRouter(profiles, dispatcher)

	rec := postKintone(t, router, kintoneBody(nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, profiles.upserted, 1)
	profile := profiles.upserted[0]
	assert.Equal(t, "demo-store", profile.StoreID)
	assert.Equal(t, "42", profile.RecordID)
	require.Len(t, profile.Menus, 1)
	assert.Equal(t, "cut", profile.Menus[0].ID)
	assert.Equal(t, 60, profile.Menus[0].DurationMinutes)
}

func TestKintoneWebhookMissingFields(t *testing.T) {
	cases := map[string]map[string]string{
		"record id": {"$id": ""},
		"store id":  {"store_id": "  "},
		"liff id":   {"liff_id": ""},
	}

	for name, overrides := range cases {
		t.Run(name, func(t *testing.T) {
			dispatcher := &stubDispatcher{}
			router := newTestRouter(&stubProfiles{}, dispatcher)

			rec := postKintone(t, router, kintoneBody(overrides))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp relayResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, "Missing required fields: recordId, store_id or liff_id", resp.Error)
			assert.Empty(t, dispatcher.events)
		})
	}
}

func TestKintoneWebhookMalformedBody(t *testing.T) {
	dispatcher := &stubDispatcher{}
	router := newTestRouter(&stubProfiles{}, dispatcher)

	rec := postKintone(t, router, "{not json")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, dispatcher.events)
}

func TestKintoneWebhookDispatchFailure(t *testing.T) {
	dispatcher := &stubDispatcher{err: errors.New("GitHub API error: 401")}
	router := newTestRouter(&stubProfiles{}, dispatcher)

	rec := postKintone(t, router, kintoneBody(nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp relayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "401")
}

func TestKintoneWebhookStorageFailureStillDispatches(t *testing.T) {
	profiles := &stubProfiles{upsertErr: errors.New("mongo down")}
	dispatcher := &stubDispatcher{}
	router := newTestRouter(profiles, dispatcher)

	rec := postKintone(t, router, kintoneBody(nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, dispatcher.events, 1)
}

func TestKintoneWebhookDefaultsPrimaryColor(t *testing.T) {
	dispatcher := &stubDispatcher{}
	router := newTestRouter(&stubProfiles{}, dispatcher)

	rec := postKintone(t, router, kintoneBody(map[string]string{"primary_color": "  "}))
	require.Equal(t, http.StatusOK, rec.Code)

	payload := dispatcher.payloads[0].(map[string]any)
	assert.Equal(t, "#007bff", payload["primary_color"])
}

func TestKintoneWebhookCORSHeaders(t *testing.T) {
	router := newTestRouter(&stubProfiles{}, &stubDispatcher{})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/webhook/kintone", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "POST,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("error responses keep headers", func(t *testing.T) {
		rec := postKintone(t, router, kintoneBody(map[string]string{"store_id": ""}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestParseMenuConfigDegradesOnMalformedJSON(t *testing.T) {
	assert.Empty(t, parseMenuConfig("not json"))
	assert.Empty(t, parseMenuConfig(""))

	menus := parseMenuConfig(`[{"id":"perm","name":"パーマ","time":150,"price":12000}]`)
	require.Len(t, menus, 1)
	assert.Equal(t, "perm", menus[0].ID)
	assert.Equal(t, 150, menus[0].DurationMinutes)
	assert.Equal(t, 12000, menus[0].Price)
}

func TestParseBusinessHoursTranslatesWeekdays(t *testing.T) {
	hours := parseBusinessHours(`{"月":"10:00-19:00","火":"10:00-19:00","土":"09:00-20:00","日":"定休日","祝":"不定"}`)

	assert.Equal(t, "10:00-19:00", hours["mon"])
	assert.Equal(t, "10:00-19:00", hours["tue"])
	assert.Equal(t, "09:00-20:00", hours["sat"])
	assert.Equal(t, "定休日", hours["sun"])
	// Unknown labels pass through untranslated.
	assert.Equal(t, "不定", hours["祝"])

	assert.Empty(t, parseBusinessHours("not json"))
	assert.Empty(t, parseBusinessHours(""))
}
