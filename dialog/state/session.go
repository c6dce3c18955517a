package state

import (
	"errors"
	"fmt"
	"time"
)

// State is the current node of the active flow's state machine.
type State string

const (
	StateIdle State = "idle"

	StateKidsNeedAge State = "kids_need_age"

	StateRentNeedTime   State = "rent_need_time"
	StateRentNeedPeople State = "rent_need_people"
	StateRentNeedFormat State = "rent_need_format"

	StateBookingNeedDirection State = "booking_need_direction"
)

// SessionState is the per-user conversation state persisted between turns.
// It is keyed by the (tenant, channel, user) triple and expires after the
// store TTL if untouched.
type SessionState struct {
	TenantID string `json:"tenant_id"`
	Channel  string `json:"channel"`
	UserID   string `json:"user_id"`

	Scenario string   `json:"scenario"`
	State    State    `json:"state"`
	Data     SlotData `json:"data"`

	UpdatedAt time.Time `json:"updated_at"`
}

// SlotData is a tagged union of per-flow slot structs: at most one variant
// is populated at a time, matching the active scenario.
type SlotData struct {
	Kids    *KidsSlots    `json:"kids,omitempty"`
	Rent    *RentSlots    `json:"rent,omitempty"`
	Booking *BookingSlots `json:"booking,omitempty"`
}

type KidsSlots struct {
	Age int `json:"age"`
}

type RentSlots struct {
	TimeBucket string `json:"rent_time_bucket,omitempty"`
	People     int    `json:"people_count,omitempty"`
	Format     string `json:"format,omitempty"`
	// Hours is the explicit booking duration, 0 when the user never named one.
	Hours int `json:"hours,omitempty"`
}

type BookingSlots struct {
	DirectionID string `json:"direction,omitempty"`
}

var (
	ErrStateNotFound  = errors.New("session state not found")
	ErrNilSession     = errors.New("session state is nil")
	ErrInvalidSession = errors.New("session key triple is incomplete")
)

func NewSessionState(tenantID, channel, userID, scenario string, st State, now time.Time) *SessionState {
	return &SessionState{
		TenantID:  tenantID,
		Channel:   channel,
		UserID:    userID,
		Scenario:  scenario,
		State:     st,
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Validate checks structural sanity at the store boundary. Unknown state
// values are deliberately accepted: the dispatcher's fallback branch is the
// safety net for corrupt states and must stay reachable.
func (s *SessionState) Validate() error {
	if s == nil {
		return ErrNilSession
	}
	if s.TenantID == "" || s.Channel == "" || s.UserID == "" {
		return ErrInvalidSession
	}
	if s.State == "" {
		return fmt.Errorf("%w: empty state", ErrInvalidSession)
	}
	variants := 0
	if s.Data.Kids != nil {
		variants++
	}
	if s.Data.Rent != nil {
		variants++
	}
	if s.Data.Booking != nil {
		variants++
	}
	if variants > 1 {
		return fmt.Errorf("%w: more than one slot variant populated", ErrInvalidSession)
	}
	return nil
}

// Collected flattens the populated slot variant into the data_collected
// debug map.
func (d SlotData) Collected() map[string]any {
	out := map[string]any{}
	if d.Kids != nil {
		out["age"] = d.Kids.Age
	}
	if d.Rent != nil {
		if d.Rent.TimeBucket != "" {
			out["rent_time_bucket"] = d.Rent.TimeBucket
		}
		if d.Rent.People > 0 {
			out["people_count"] = d.Rent.People
		}
		if d.Rent.Format != "" {
			out["format"] = d.Rent.Format
		}
		if d.Rent.Hours > 0 {
			out["hours"] = d.Rent.Hours
		}
	}
	if d.Booking != nil && d.Booking.DirectionID != "" {
		out["direction"] = d.Booking.DirectionID
	}
	return out
}
