package application

import (
	"context"
	"errors"
	"time"

	"github.com/sngm3741/line-forms-services/api/internal/reservation/domain"
	storedomain "github.com/sngm3741/line-forms-services/api/internal/store/domain"
)

// AvailabilityClient fetches the open time slots for a store and date.
// AvailabilityClient は外部予約基盤から空き時間枠を取得するポート。
type AvailabilityClient interface {
	FetchSlots(ctx context.Context, storeID string, date time.Time) ([]domain.Slot, error)
}

// ReservationClient posts a completed booking to the external endpoint.
// A RejectedError carries the server-provided reason when the endpoint
// answered but refused the booking.
type ReservationClient interface {
	Submit(ctx context.Context, payload domain.Payload) error
}

// ConfirmationSender delivers the best-effort confirmation message to a
// messaging user. Implementations must not be assumed present.
type ConfirmationSender interface {
	Send(ctx context.Context, userID, text string) error
}

// StoreProfiles resolves the store profile a session is bound to.
type StoreProfiles interface {
	Get(ctx context.Context, storeID string) (*storedomain.Profile, error)
}

// RejectedError is returned by ReservationClient when the reservation
// endpoint responds with success=false. Reason is shown to the user
// verbatim.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return e.Reason
}

var (
	ErrSessionNotFound = errors.New("セッションが見つかりません")
	ErrStoreNotFound   = errors.New("店舗が見つかりません")
)
