package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sngm3741/line-forms-services/api/internal/reservation/domain"
	storedomain "github.com/sngm3741/line-forms-services/api/internal/store/domain"
)

// AvailabilityStatus describes what the slot list currently shows.
type AvailabilityStatus string

const (
	AvailabilityNone        AvailabilityStatus = "none"
	AvailabilityLoading     AvailabilityStatus = "loading"
	AvailabilityLoaded      AvailabilityStatus = "loaded"
	AvailabilityFullyBooked AvailabilityStatus = "fully_booked"
	AvailabilityFailed      AvailabilityStatus = "failed"
)

// SubmitStatus is the derived state of the submit control.
type SubmitStatus string

const (
	SubmitDisabled   SubmitStatus = "disabled"
	SubmitEnabled    SubmitStatus = "enabled"
	SubmitSubmitting SubmitStatus = "submitting"
	SubmitSuccess    SubmitStatus = "success"
	SubmitError      SubmitStatus = "error"
)

type submitPhase int

const (
	phaseIdle submitPhase = iota
	phaseSubmitting
	phaseSuccess
)

// session is one page session's booking flow. All fields are guarded by
// mu; the selection state never leaves the lock except as a copy.
type session struct {
	mu           sync.Mutex
	id           string
	store        *storedomain.Profile
	state        domain.SelectionState
	slots        []domain.Slot
	availability AvailabilityStatus
	fetchGen     uint64
	phase        submitPhase
	lastError    string
	touchedAt    time.Time
}

// SessionView is the snapshot handed to the HTTP layer. Everything in it
// derives from the selection state; nothing is stored separately.
type SessionView struct {
	ID           string             `json:"id"`
	StoreID      string             `json:"storeId"`
	StoreName    string             `json:"storeName"`
	Menus        []domain.MenuItem  `json:"menus"`
	VisitKind    string             `json:"visitKind,omitempty"`
	MenuID       string             `json:"menuId,omitempty"`
	Date         string             `json:"date,omitempty"`
	Time         string             `json:"time,omitempty"`
	ContactName  string             `json:"contactName,omitempty"`
	ContactPhone string             `json:"contactPhone,omitempty"`
	ContactNote  string             `json:"contactNote,omitempty"`
	Summary      domain.Summary     `json:"summary"`
	Slots        []domain.Slot      `json:"slots"`
	Availability AvailabilityStatus `json:"availability"`
	Submit       SubmitStatus       `json:"submit"`
	Error        string             `json:"error,omitempty"`
}

// SessionServiceConfig defines dependencies for NewSessionService.
type SessionServiceConfig struct {
	Stores        StoreProfiles
	Availability  AvailabilityClient
	Reservations  ReservationClient
	Confirmations ConfirmationSender
	Logger        *log.Logger
	Location      *time.Location
	SessionTTL    time.Duration
	Now           func() time.Time
}

// SessionService owns the in-memory booking sessions. Sessions live for
// one page visit only; expired ones are pruned on creation.
type SessionService struct {
	mu            sync.RWMutex
	sessions      map[string]*session
	stores        StoreProfiles
	availability  AvailabilityClient
	reservations  ReservationClient
	confirmations ConfirmationSender
	logger        *log.Logger
	location      *time.Location
	ttl           time.Duration
	now           func() time.Time
}

// NewSessionService constructs the session service.
func NewSessionService(cfg SessionServiceConfig) *SessionService {
	loc := cfg.Location
	if loc == nil {
		loc = time.FixedZone("JST", 9*60*60)
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		sessions:      make(map[string]*session),
		stores:        cfg.Stores,
		availability:  cfg.Availability,
		reservations:  cfg.Reservations,
		confirmations: cfg.Confirmations,
		logger:        cfg.Logger,
		location:      loc,
		ttl:           ttl,
		now:           now,
	}
}

// Create opens a new session bound to a store profile.
func (s *SessionService) Create(ctx context.Context, storeID string) (*SessionView, error) {
	profile, err := s.stores.Get(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, storeID)
	}

	sess := &session{
		id:           uuid.NewString(),
		store:        profile,
		availability: AvailabilityNone,
		touchedAt:    s.now(),
	}

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return s.viewOf(sess), nil
}

// Get returns the current snapshot of a session.
func (s *SessionService) Get(id string) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.viewOf(sess), nil
}

// Calendar returns the month grid for a session's displayed month.
// Year/month zero values mean the current month.
func (s *SessionService) Calendar(id string, year int, month time.Month) (domain.MonthGrid, error) {
	if _, err := s.lookup(id); err != nil {
		return domain.MonthGrid{}, err
	}
	today := s.now().In(s.location)
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = today.Month()
	}
	return domain.BuildMonthGrid(year, month, today), nil
}

// ApplyVisitKind records the visit kind selection.
func (s *SessionService) ApplyVisitKind(id, value string) (*SessionView, error) {
	kind, err := domain.ParseVisitKind(value)
	if err != nil {
		return nil, err
	}
	return s.withSession(id, func(sess *session) error {
		sess.state.SetVisitKind(kind)
		return nil
	})
}

// ApplyMenu records a menu selection from the session's catalog.
func (s *SessionService) ApplyMenu(id, menuID string) (*SessionView, error) {
	return s.withSession(id, func(sess *session) error {
		item, ok := sess.store.MenuByID(menuID)
		if !ok {
			return fmt.Errorf("メニュー %q は存在しません", menuID)
		}
		sess.state.SetMenu(item)
		return nil
	})
}

// ApplyTime records a time slot picked from the currently loaded set.
func (s *SessionService) ApplyTime(id, value string) (*SessionView, error) {
	return s.withSession(id, func(sess *session) error {
		return sess.state.SetTime(value, sess.slots)
	})
}

// ApplyContact updates one contact field.
func (s *SessionService) ApplyContact(id, field, value string) (*SessionView, error) {
	return s.withSession(id, func(sess *session) error {
		return sess.state.SetContactField(field, value)
	})
}

// SelectDate records a date selection, clears the previously chosen
// time, and fetches availability for the new date. If another date is
// selected before this fetch resolves, the resolved result is dropped:
// the last selected date wins.
func (s *SessionService) SelectDate(ctx context.Context, id, dateValue string) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	date, err := time.ParseInLocation("2006-01-02", dateValue, s.location)
	if err != nil {
		return nil, fmt.Errorf("日付の形式が不正です: %w", err)
	}

	sess.mu.Lock()
	if err := sess.state.SetDate(date, s.now().In(s.location)); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.slots = nil
	sess.availability = AvailabilityLoading
	sess.fetchGen++
	gen := sess.fetchGen
	storeID := sess.store.StoreID
	sess.touchedAt = s.now()
	sess.mu.Unlock()

	slots, fetchErr := s.availability.FetchSlots(ctx, storeID, date)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if gen != sess.fetchGen {
		// A newer date selection superseded this fetch.
		if s.logger != nil {
			s.logger.Printf("セッション %s: 古い空き枠取得結果を破棄 (gen=%d)", sess.id, gen)
		}
		return s.viewOfLocked(sess), nil
	}

	switch {
	case fetchErr != nil:
		sess.availability = AvailabilityFailed
		if s.logger != nil {
			s.logger.Printf("空き枠の取得に失敗: %v", fetchErr)
		}
	case len(slots) == 0:
		sess.availability = AvailabilityFullyBooked
	default:
		sess.slots = slots
		sess.availability = AvailabilityLoaded
	}
	return s.viewOfLocked(sess), nil
}

// Submit runs the submission flow. It is a no-op unless the state is
// complete and no submission is in flight; the submitting flag is set
// before any network call so a double click cannot start two posts.
// lineUserID identifies the messaging session when one exists; empty
// means no confirmation message is attempted.
func (s *SessionService) Submit(ctx context.Context, id, lineUserID string) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.phase != phaseIdle || !sess.state.Complete() {
		defer sess.mu.Unlock()
		return s.viewOfLocked(sess), nil
	}
	payload, err := domain.BuildPayload(sess.store.StoreID, sess.state)
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.phase = phaseSubmitting
	sess.lastError = ""
	sess.touchedAt = s.now()
	store := sess.store
	state := sess.state
	sess.mu.Unlock()

	if submitErr := s.reservations.Submit(ctx, payload); submitErr != nil {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.phase = phaseIdle
		sess.lastError = submitErrorMessage(submitErr)
		if s.logger != nil {
			s.logger.Printf("予約送信に失敗: %v", submitErr)
		}
		return s.viewOfLocked(sess), nil
	}

	s.sendConfirmation(ctx, lineUserID, store, state, payload)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.phase = phaseSuccess
	sess.lastError = ""
	return s.viewOfLocked(sess), nil
}

// sendConfirmation delivers the booking summary over the messaging
// channel. Failures are logged and swallowed: the booking already
// succeeded and must be reported as such.
func (s *SessionService) sendConfirmation(ctx context.Context, lineUserID string, store *storedomain.Profile, state domain.SelectionState, payload domain.Payload) {
	if lineUserID == "" || s.confirmations == nil {
		return
	}
	text := BuildConfirmationMessage(store, state, payload)
	if err := s.confirmations.Send(ctx, lineUserID, text); err != nil && s.logger != nil {
		s.logger.Printf("LINE確認メッセージの送信に失敗: %v", err)
	}
}

func submitErrorMessage(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.Reason != "" {
		return rejected.Reason
	}
	return "予約送信に失敗しました。もう一度お試しください。"
}

func (s *SessionService) lookup(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionService) withSession(id string, apply func(*session) error) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := apply(sess); err != nil {
		return nil, err
	}
	sess.touchedAt = s.now()
	return s.viewOfLocked(sess), nil
}

func (s *SessionService) viewOf(sess *session) *SessionView {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.viewOfLocked(sess)
}

// viewOfLocked derives the snapshot; the caller holds sess.mu.
func (s *SessionService) viewOfLocked(sess *session) *SessionView {
	view := &SessionView{
		ID:           sess.id,
		StoreID:      sess.store.StoreID,
		StoreName:    sess.store.Name,
		Menus:        append([]domain.MenuItem(nil), sess.store.Menus...),
		VisitKind:    visitKindValue(sess.state.VisitKind),
		Time:         sess.state.Time,
		ContactName:  sess.state.Contact.Name,
		ContactPhone: sess.state.Contact.Phone,
		ContactNote:  sess.state.Contact.Message,
		Summary:      domain.BuildSummary(sess.state),
		Slots:        append([]domain.Slot(nil), sess.slots...),
		Availability: sess.availability,
		Submit:       deriveSubmitStatus(sess),
		Error:        sess.lastError,
	}
	if sess.state.Menu != nil {
		view.MenuID = sess.state.Menu.ID
	}
	if sess.state.Date != nil {
		view.Date = sess.state.Date.Format("2006-01-02")
	}
	return view
}

// deriveSubmitStatus maps the stored phase plus validation onto the
// five-state submit control.
func deriveSubmitStatus(sess *session) SubmitStatus {
	switch sess.phase {
	case phaseSuccess:
		return SubmitSuccess
	case phaseSubmitting:
		return SubmitSubmitting
	}
	if !sess.state.Complete() {
		return SubmitDisabled
	}
	if sess.lastError != "" {
		return SubmitError
	}
	return SubmitEnabled
}

func visitKindValue(kind domain.VisitKind) string {
	switch kind {
	case domain.VisitKindFirst:
		return "first"
	case domain.VisitKindRepeat:
		return "repeat"
	default:
		return ""
	}
}

// pruneLocked drops sessions idle past the TTL; caller holds s.mu.
func (s *SessionService) pruneLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := sess.touchedAt.Before(cutoff)
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
		}
	}
}
