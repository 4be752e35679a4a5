package domain

import (
	"errors"
	"strings"
)

// Payload is the booking body POSTed to the external reservation endpoint.
// Field names follow the endpoint contract and must not change.
type Payload struct {
	StoreID         string   `json:"storeId"`
	CustomerName    string   `json:"customerName"`
	CustomerPhone   string   `json:"customerPhone"`
	CustomerMessage string   `json:"customerMessage"`
	VisitTime       int      `json:"visitTime"`
	Menu            MenuItem `json:"menu"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	TotalTime       int      `json:"totalTime"`
}

// BuildPayload assembles the submission body from a complete state.
func BuildPayload(storeID string, state SelectionState) (Payload, error) {
	if !state.Complete() {
		return Payload{}, errors.New("予約内容が揃っていません")
	}

	return Payload{
		StoreID:         storeID,
		CustomerName:    strings.TrimSpace(state.Contact.Name),
		CustomerPhone:   strings.TrimSpace(state.Contact.Phone),
		CustomerMessage: strings.TrimSpace(state.Contact.Message),
		VisitTime:       state.VisitKind.ExtraMinutes(),
		Menu:            *state.Menu,
		Date:            state.Date.Format("2006-01-02"),
		Time:            state.Time,
		TotalTime:       state.TotalDurationMinutes(),
	}, nil
}
