package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/line-forms-services/api/internal/interfaces/http/common"
	storeapp "github.com/sngm3741/line-forms-services/api/internal/store/application"
	storedomain "github.com/sngm3741/line-forms-services/api/internal/store/domain"
)

const maxWebhookBody = 1 << 20

// deployEventType is the repository_dispatch event the page build
// workflow listens for.
const deployEventType = "deploy-form"

// Dispatcher triggers the downstream build automation.
type Dispatcher interface {
	Dispatch(ctx context.Context, eventType string, clientPayload any) error
}

// Handler relays Kintone record webhooks: it validates the record,
// normalizes the store profile, persists it, and triggers the page
// build. All responses carry permissive CORS headers because Kintone
// customizations may call this endpoint from the browser.
type Handler struct {
	logger     *log.Logger
	profiles   storeapp.ProfileService
	dispatcher Dispatcher
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger     *log.Logger
	Profiles   storeapp.ProfileService
	Dispatcher Dispatcher
}

// NewHandler constructs the webhook handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:     cfg.Logger,
		profiles:   cfg.Profiles,
		dispatcher: cfg.Dispatcher,
	}
}

// Register mounts the relay routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/kintone", h.kintoneHandler())
	r.Options("/kintone", func(w http.ResponseWriter, _ *http.Request) {
		writeRelayHeaders(w)
		w.WriteHeader(http.StatusNoContent)
	})
}

type relayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) kintoneHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		writeRelayHeaders(w)

		var req kintoneWebhookRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxWebhookBody)).Decode(&req); err != nil {
			h.logger.Printf("kintone webhook の解析に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusBadRequest, relayResponse{
				Success: false,
				Error:   "リクエストボディを解析できません",
			})
			return
		}

		record := req.Record
		recordID := record.ID.trimmed()
		storeID := record.StoreID.trimmed()
		liffID := record.LIFFID.trimmed()
		if recordID == "" || storeID == "" || liffID == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, relayResponse{
				Success: false,
				Error:   "Missing required fields: recordId, store_id or liff_id",
			})
			return
		}

		menus := parseMenuConfig(record.MenuConfig.Value)
		businessHours := parseBusinessHours(record.BusinessHours.Value)
		primaryColor := record.PrimaryColor.trimmed()
		if primaryColor == "" {
			primaryColor = "#007bff"
		}

		profile := &storedomain.Profile{
			StoreID:       storeID,
			RecordID:      recordID,
			Name:          record.StoreName.trimmed(),
			Phone:         record.Phone.trimmed(),
			Email:         record.Email.trimmed(),
			LIFFID:        liffID,
			PrimaryColor:  primaryColor,
			BusinessHours: businessHours,
			Menus:         menus,
		}

		// The relay's contract is the dispatch; profile persistence is
		// best-effort so a storage hiccup does not block the build.
		if err := h.profiles.Upsert(r.Context(), profile); err != nil {
			h.logger.Printf("店舗プロファイルの保存に失敗: %v", err)
		}

		clientPayload := map[string]any{
			"record_id":      recordID,
			"store_id":       storeID,
			"store_name":     profile.Name,
			"liff_id":        liffID,
			"menu":           menus,
			"business_hours": businessHours,
			"primary_color":  primaryColor,
			"phone":          profile.Phone,
			"email":          profile.Email,
		}

		if err := h.dispatcher.Dispatch(r.Context(), deployEventType, clientPayload); err != nil {
			h.logger.Printf("GitHub ディスパッチに失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, relayResponse{
				Success: false,
				Error:   err.Error(),
			})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, relayResponse{
			Success: true,
			Message: "GitHub Actions triggered successfully",
		})
	}
}

// writeRelayHeaders applies the permissive CORS contract of the relay.
func writeRelayHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST,OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
