package domain

import (
	"time"

	reservation "github.com/sngm3741/line-forms-services/api/internal/reservation/domain"
)

// Profile holds everything the build step injects into a store's
// reservation page: identity, branding, business hours and the ordered
// menu catalog. It is read-only from the page's perspective.
type Profile struct {
	StoreID       string
	RecordID      string
	Name          string
	Phone         string
	Email         string
	LIFFID        string
	PrimaryColor  string
	BusinessHours map[string]string
	Menus         []reservation.MenuItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MenuByID looks up a catalog entry. The catalog is fixed per store, so
// a miss means the client sent an identifier from another page.
func (p *Profile) MenuByID(id string) (reservation.MenuItem, bool) {
	for _, item := range p.Menus {
		if item.ID == id {
			return item, true
		}
	}
	return reservation.MenuItem{}, false
}
