package models

import "time"

// NotificationStatus tracks delivery of the clinician alert for an event.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// LocationInfo holds a resolved user location. Immutable once resolved for a
// turn.
type LocationInfo struct {
	City    string  `json:"city,omitempty" db:"city"`
	Region  string  `json:"region,omitempty" db:"region"`
	Country string  `json:"country,omitempty" db:"country"`
	Lat     float64 `json:"lat,omitempty" db:"lat"`
	Lon     float64 `json:"lon,omitempty" db:"lon"`
}

// Sufficient reports whether the location can key a resource lookup.
func (l *LocationInfo) Sufficient() bool {
	return l != nil && (l.City != "" || l.Region != "")
}

// Display returns a human-readable place name, or empty when unknown.
func (l *LocationInfo) Display() string {
	if l == nil {
		return ""
	}
	if l.City != "" {
		return l.City
	}
	return l.Region
}

// CrisisEvent is the append-only audit record of a detected crisis turn.
// Only NotificationStatus mutates after creation.
type CrisisEvent struct {
	ID                 string             `json:"id" db:"id"`
	Timestamp          time.Time          `json:"timestamp" db:"timestamp"`
	SessionID          string             `json:"session_id" db:"session_id"`
	UserText           string             `json:"user_text" db:"user_text"`
	CrisisType         CrisisType         `json:"crisis_type" db:"crisis_type"`
	Severity           Severity           `json:"severity" db:"severity"`
	ResponseText       string             `json:"response_text" db:"response_text"`
	DetectionMethod    string             `json:"detection_method" db:"detection_method"`
	Evidence           []MatchEvidence    `json:"evidence,omitempty"`
	Location           *LocationInfo      `json:"location,omitempty"`
	NotificationStatus NotificationStatus `json:"notification_status" db:"notification_status"`
}

// EventQuery represents query parameters for filtering crisis events
type EventQuery struct {
	SessionIDs []string     `json:"session_ids"`
	Types      []CrisisType `json:"types"`
	Severities []Severity   `json:"severities"`
	Since      time.Time    `json:"since"`
	Until      time.Time    `json:"until"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
}

// Matches checks if an event matches the query criteria
func (q EventQuery) Matches(ev CrisisEvent) bool {
	if len(q.SessionIDs) > 0 && !containsString(q.SessionIDs, ev.SessionID) {
		return false
	}
	if len(q.Types) > 0 && !containsType(q.Types, ev.CrisisType) {
		return false
	}
	if len(q.Severities) > 0 && !containsSeverity(q.Severities, ev.Severity) {
		return false
	}
	if !q.Since.IsZero() && ev.Timestamp.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && ev.Timestamp.After(q.Until) {
		return false
	}
	return true
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func containsType(slice []CrisisType, item CrisisType) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func containsSeverity(slice []Severity, item Severity) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
