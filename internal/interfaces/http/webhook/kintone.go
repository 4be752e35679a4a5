package webhook

import (
	"encoding/json"
	"strings"

	reservation "github.com/sngm3741/line-forms-services/api/internal/reservation/domain"
)

// kintoneWebhookRequest is the standard Kintone webhook body. Every
// field value arrives wrapped in a {value} object.
type kintoneWebhookRequest struct {
	Record kintoneRecord `json:"record"`
}

type kintoneRecord struct {
	ID            kintoneField `json:"$id"`
	StoreID       kintoneField `json:"store_id"`
	StoreName     kintoneField `json:"store_name"`
	LIFFID        kintoneField `json:"liff_id"`
	MenuConfig    kintoneField `json:"menu_config"`
	BusinessHours kintoneField `json:"business_hours"`
	PrimaryColor  kintoneField `json:"primary_color"`
	Phone         kintoneField `json:"phone"`
	Email         kintoneField `json:"email"`
}

type kintoneField struct {
	Value string `json:"value"`
}

func (f kintoneField) trimmed() string {
	return strings.TrimSpace(f.Value)
}

// weekday labels as entered in Kintone, mapped to the short codes the
// page template expects.
var weekdayCodes = map[string]string{
	"月": "mon",
	"火": "tue",
	"水": "wed",
	"木": "thu",
	"金": "fri",
	"土": "sat",
	"日": "sun",
}

// parseMenuConfig decodes the JSON menu catalog from the multi-line
// text field. Malformed input degrades to an empty catalog instead of
// failing the whole request.
func parseMenuConfig(raw string) []reservation.MenuItem {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []reservation.MenuItem{}
	}
	var menus []reservation.MenuItem
	if err := json.Unmarshal([]byte(raw), &menus); err != nil {
		return []reservation.MenuItem{}
	}
	return menus
}

// parseBusinessHours decodes the JSON hours map and translates the
// Japanese weekday labels to short codes. Malformed input degrades to
// an empty map.
func parseBusinessHours(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]string{}
	}
	var original map[string]string
	if err := json.Unmarshal([]byte(raw), &original); err != nil {
		return map[string]string{}
	}

	translated := make(map[string]string, len(original))
	for day, hours := range original {
		code, ok := weekdayCodes[day]
		if !ok {
			code = day
		}
		translated[code] = hours
	}
	return translated
}
