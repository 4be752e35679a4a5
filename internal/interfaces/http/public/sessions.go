package public

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/line-forms-services/api/internal/interfaces/http/common"
	reservationapp "github.com/sngm3741/line-forms-services/api/internal/reservation/application"
)

const maxSessionRequestBody = 1 << 16

// sessionCreateHandler opens a session bound to a store profile and
// returns the initial snapshot.
func (h *Handler) sessionCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var req createSessionRequest
		if err := decodeBody(r.Body, &req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("リクエストの形式が不正です: %v", err),
			})
			return
		}
		if strings.TrimSpace(req.StoreID) == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "storeId は必須です"})
			return
		}

		view, err := h.sessions.Create(r.Context(), strings.TrimSpace(req.StoreID))
		if err != nil {
			if errors.Is(err, reservationapp.ErrStoreNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": err.Error()})
				return
			}
			h.logger.Printf("セッションの作成に失敗: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "セッションの作成に失敗しました"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, view)
	}
}

// sessionDetailHandler returns the current snapshot of a session.
func (h *Handler) sessionDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			h.writeSessionError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, view)
	}
}

// sessionCalendarHandler returns the month grid for the displayed
// month. year/month query parameters default to the current month, and
// navigation is unbounded in both directions.
func (h *Handler) sessionCalendarHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		year := 0
		if raw := strings.TrimSpace(query.Get("year")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "year の形式が不正です"})
				return
			}
			year = parsed
		}
		month := 0
		if raw := strings.TrimSpace(query.Get("month")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 12 {
				common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "month の形式が不正です"})
				return
			}
			month = parsed
		}

		grid, err := h.sessions.Calendar(chi.URLParam(r, "id"), year, time.Month(month))
		if err != nil {
			h.writeSessionError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, grid)
	}
}

// sessionEventHandler applies one UI event (visit-kind, menu, time,
// contact) and returns the re-derived snapshot.
func (h *Handler) sessionEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var req sessionEventRequest
		if err := decodeBody(r.Body, &req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("リクエストの形式が不正です: %v", err),
			})
			return
		}

		id := chi.URLParam(r, "id")
		var view *reservationapp.SessionView
		var err error
		switch req.Type {
		case "visit-kind":
			view, err = h.sessions.ApplyVisitKind(id, req.Value)
		case "menu":
			view, err = h.sessions.ApplyMenu(id, req.Value)
		case "time":
			view, err = h.sessions.ApplyTime(id, req.Value)
		case "contact":
			view, err = h.sessions.ApplyContact(id, req.Field, req.Value)
		default:
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("イベント種別 %q は不正です", req.Type)})
			return
		}
		if err != nil {
			h.writeSessionError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, view)
	}
}

// sessionDateHandler records a date selection and runs the availability
// fetch for it.
func (h *Handler) sessionDateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var req selectDateRequest
		if err := decodeBody(r.Body, &req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("リクエストの形式が不正です: %v", err),
			})
			return
		}

		view, err := h.sessions.SelectDate(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(req.Date))
		if err != nil {
			h.writeSessionError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, view)
	}
}

// sessionSubmitHandler runs the submission flow. The confirmation
// message is attempted only when the optional auth middleware attached
// a LIFF user.
func (h *Handler) sessionSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineUserID := ""
		if user, ok := common.UserFromContext(r.Context()); ok {
			lineUserID = user.ID
		}

		view, err := h.sessions.Submit(r.Context(), chi.URLParam(r, "id"), lineUserID)
		if err != nil {
			h.writeSessionError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, view)
	}
}

// writeSessionError maps application errors onto HTTP statuses: unknown
// sessions and stores are 404, everything else from the flow is a 400.
func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reservationapp.ErrSessionNotFound), errors.Is(err, reservationapp.ErrStoreNotFound):
		common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}

func decodeBody(body io.Reader, target any) error {
	decoder := json.NewDecoder(io.LimitReader(body, maxSessionRequestBody))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}
