package models

import "time"

// MaxPhoneRequests caps how many times a session is asked for a callback
// number.
const MaxPhoneRequests = 3

// PhoneRequestState tracks callback number collection for one session.
type PhoneRequestState struct {
	RequestCount      int       `json:"request_count"`
	HasProvidedNumber bool      `json:"has_provided_number"`
	PhoneNumber       string    `json:"phone_number,omitempty"`
	LastRequestTime   time.Time `json:"last_request_time"`
}

// PersistenceLevel derives the scripted-phrasing level (0..2) from the
// request count.
func (p PhoneRequestState) PersistenceLevel() int {
	level := p.RequestCount - 1
	if level < 0 {
		level = 0
	}
	if level > 2 {
		level = 2
	}
	return level
}

// CanRequest reports whether another phone request is permitted.
func (p PhoneRequestState) CanRequest() bool {
	return !p.HasProvidedNumber && p.RequestCount < MaxPhoneRequests
}

// SessionState is the per-session mutable state consumed and produced by
// each turn. It is loaded, mutated, and saved under a single writer per
// session; turns for one session are processed strictly in arrival order.
type SessionState struct {
	SessionID       string                `json:"session_id"`
	Phone           PhoneRequestState     `json:"phone"`
	AskedLocation   bool                  `json:"asked_location"`
	EscalationTiers map[CrisisType]int    `json:"escalation_tiers"`
	LastLocation    *LocationInfo         `json:"last_location,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// NewSessionState returns a fresh state for a session. Also used to recover
// from corrupt persisted state.
func NewSessionState(sessionID string) *SessionState {
	now := time.Now().UTC()
	return &SessionState{
		SessionID:       sessionID,
		EscalationTiers: make(map[CrisisType]int),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Tier returns the current phrasing tier for a crisis type (0..2).
func (s *SessionState) Tier(t CrisisType) int {
	return s.EscalationTiers[t]
}

// AdvanceTier bumps the phrasing tier for a crisis type, bounded at the
// escalated tier. Tiers never regress.
func (s *SessionState) AdvanceTier(t CrisisType) {
	if s.EscalationTiers == nil {
		s.EscalationTiers = make(map[CrisisType]int)
	}
	if s.EscalationTiers[t] < 2 {
		s.EscalationTiers[t]++
	}
}

// Clone returns a deep copy so stores never hand out aliased state.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := *s
	out.EscalationTiers = make(map[CrisisType]int, len(s.EscalationTiers))
	for k, v := range s.EscalationTiers {
		out.EscalationTiers[k] = v
	}
	if s.LastLocation != nil {
		loc := *s.LastLocation
		out.LastLocation = &loc
	}
	return &out
}

// Valid reports whether persisted state is structurally sound. Corrupt state
// is reinitialized fresh rather than propagated.
func (s *SessionState) Valid() bool {
	if s == nil || s.SessionID == "" {
		return false
	}
	if s.Phone.RequestCount < 0 || s.Phone.RequestCount > MaxPhoneRequests {
		return false
	}
	for _, tier := range s.EscalationTiers {
		if tier < 0 || tier > 2 {
			return false
		}
	}
	return true
}
