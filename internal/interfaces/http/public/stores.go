package public

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/line-forms-services/api/internal/interfaces/http/common"
)

// storeConfigHandler serves the page injection payload for one store:
// the data the build step embeds before the reservation page runs.
func (h *Handler) storeConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := strings.TrimSpace(chi.URLParam(r, "storeID"))
		if storeID == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "storeID は必須です"})
			return
		}

		profile, err := h.profiles.Get(r.Context(), storeID)
		if err != nil {
			common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "店舗が見つかりません"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, storeConfigResponse{
			StoreID:       profile.StoreID,
			StoreName:     profile.Name,
			Phone:         profile.Phone,
			LIFFID:        profile.LIFFID,
			PrimaryColor:  profile.PrimaryColor,
			BusinessHours: profile.BusinessHours,
			Menu:          profile.Menus,
		})
	}
}
