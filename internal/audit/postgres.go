package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cvmhw/rogercore/internal/database"
	apperrors "github.com/cvmhw/rogercore/internal/errors"
	"github.com/cvmhw/rogercore/internal/models"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a new PostgreSQL audit store
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// AppendEvent inserts an event. Events are append-only, so a duplicate ID is
// an error rather than an upsert.
func (s *PostgresStore) AppendEvent(ctx context.Context, event *models.CrisisEvent) error {
	if event == nil || event.ID == "" {
		return apperrors.ErrInvalidInput
	}

	evidence, err := json.Marshal(event.Evidence)
	if err != nil {
		return apperrors.StoreError{Operation: "append_event", Err: err}
	}

	var city, region, country string
	var lat, lon float64
	if event.Location != nil {
		city, region, country = event.Location.City, event.Location.Region, event.Location.Country
		lat, lon = event.Location.Lat, event.Location.Lon
	}

	query := `
		INSERT INTO crisis_events (
			id, timestamp, session_id, user_text, crisis_type, severity,
			response_text, detection_method, evidence, city, region, country,
			lat, lon, notification_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`

	_, err = s.db.Pool().Exec(ctx, query,
		event.ID, event.Timestamp, event.SessionID, event.UserText,
		event.CrisisType, event.Severity, event.ResponseText,
		event.DetectionMethod, evidence, city, region, country, lat, lon,
		event.NotificationStatus,
	)
	if err != nil {
		return apperrors.StoreError{Operation: "append_event", Err: err}
	}
	return nil
}

// UpdateNotificationStatus mutates the only mutable field of a stored event.
func (s *PostgresStore) UpdateNotificationStatus(ctx context.Context, id string, status models.NotificationStatus) error {
	tag, err := s.db.Pool().Exec(ctx,
		`UPDATE crisis_events SET notification_status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return apperrors.StoreError{Operation: "update_notification_status", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// QueryEvents retrieves events matching the query, newest first.
func (s *PostgresStore) QueryEvents(ctx context.Context, q models.EventQuery) ([]models.CrisisEvent, error) {
	var conditions []string
	var args []any
	argIdx := 1

	addCondition := func(clause string, value any) {
		conditions = append(conditions, fmt.Sprintf(clause, argIdx))
		args = append(args, value)
		argIdx++
	}

	if len(q.SessionIDs) > 0 {
		addCondition("session_id = ANY($%d)", q.SessionIDs)
	}
	if len(q.Types) > 0 {
		types := make([]string, len(q.Types))
		for i, t := range q.Types {
			types[i] = string(t)
		}
		addCondition("crisis_type = ANY($%d)", types)
	}
	if len(q.Severities) > 0 {
		severities := make([]string, len(q.Severities))
		for i, sv := range q.Severities {
			severities[i] = string(sv)
		}
		addCondition("severity = ANY($%d)", severities)
	}
	if !q.Since.IsZero() {
		addCondition("timestamp >= $%d", q.Since)
	}
	if !q.Until.IsZero() {
		addCondition("timestamp <= $%d", q.Until)
	}

	query := `
		SELECT id, timestamp, session_id, user_text, crisis_type, severity,
		       response_text, detection_method, evidence, city, region,
		       country, lat, lon, notification_status
		FROM crisis_events
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	if q.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", q.Offset)
	}

	rows, err := s.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.StoreError{Operation: "query_events", Err: err}
	}
	defer rows.Close()

	var events []models.CrisisEvent
	for rows.Next() {
		ev, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, apperrors.StoreError{Operation: "query_events", Err: err}
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.StoreError{Operation: "query_events", Err: err}
	}
	return events, nil
}

// GetEvent retrieves a single event by ID
func (s *PostgresStore) GetEvent(ctx context.Context, id string) (*models.CrisisEvent, error) {
	row := s.db.Pool().QueryRow(ctx, `
		SELECT id, timestamp, session_id, user_text, crisis_type, severity,
		       response_text, detection_method, evidence, city, region,
		       country, lat, lon, notification_status
		FROM crisis_events WHERE id = $1
	`, id)

	ev, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.StoreError{Operation: "get_event", Err: err}
	}
	return ev, nil
}

func scanEvent(scan func(dest ...any) error) (*models.CrisisEvent, error) {
	var ev models.CrisisEvent
	var evidence []byte
	var city, region, country string
	var lat, lon float64

	err := scan(
		&ev.ID, &ev.Timestamp, &ev.SessionID, &ev.UserText, &ev.CrisisType,
		&ev.Severity, &ev.ResponseText, &ev.DetectionMethod, &evidence,
		&city, &region, &country, &lat, &lon, &ev.NotificationStatus,
	)
	if err != nil {
		return nil, err
	}

	if len(evidence) > 0 {
		if err := json.Unmarshal(evidence, &ev.Evidence); err != nil {
			return nil, err
		}
	}
	if city != "" || region != "" || country != "" {
		ev.Location = &models.LocationInfo{
			City: city, Region: region, Country: country, Lat: lat, Lon: lon,
		}
	}
	return &ev, nil
}

// Health checks database connectivity
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.Health(ctx)
}
