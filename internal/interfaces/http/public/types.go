package public

import reservation "github.com/sngm3741/line-forms-services/api/internal/reservation/domain"

// createSessionRequest opens a booking session for one store page.
type createSessionRequest struct {
	StoreID string `json:"storeId"`
}

// sessionEventRequest carries one UI event into the selection state.
// Type is one of visit-kind / menu / time / contact.
type sessionEventRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Field string `json:"field,omitempty"`
}

// selectDateRequest carries a calendar day click.
type selectDateRequest struct {
	Date string `json:"date"`
}

// storeConfigResponse is the page injection payload: everything the
// build step embeds into a store's reservation page.
type storeConfigResponse struct {
	StoreID       string                 `json:"storeId"`
	StoreName     string                 `json:"storeName"`
	Phone         string                 `json:"phone,omitempty"`
	LIFFID        string                 `json:"liffId"`
	PrimaryColor  string                 `json:"primaryColor,omitempty"`
	BusinessHours map[string]string      `json:"businessHours,omitempty"`
	Menu          []reservation.MenuItem `json:"menu"`
}
