// Package engine runs the per-turn crisis evaluation pipeline: classify the
// message, arbitrate a single governing crisis, resolve location, compose the
// response, persist the audit event, and hand off clinician notification.
// Turns for one session are processed strictly in arrival order.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cvmhw/rogercore/internal/arbiter"
	"github.com/cvmhw/rogercore/internal/logger"
	"github.com/cvmhw/rogercore/internal/metrics"
	"github.com/cvmhw/rogercore/internal/models"
	"github.com/cvmhw/rogercore/internal/phonecollect"
	"github.com/cvmhw/rogercore/internal/responder"
)

// Classifier produces pattern-match evidence for a message.
type Classifier interface {
	Classify(text string) []models.MatchEvidence
}

// Locator resolves locations from text or device coordinates.
type Locator interface {
	FromText(text string) *models.LocationInfo
	FromDevice(ctx context.Context, lat, lon float64) *models.LocationInfo
}

// Composer builds the user-facing crisis response.
type Composer interface {
	Compose(result arbiter.Result, loc *models.LocationInfo, sess *models.SessionState) responder.Composition
}

// SessionStore persists per-session state between turns.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*models.SessionState, error)
	Save(ctx context.Context, state *models.SessionState) error
}

// Notifier persists crisis events and delivers clinician alerts.
type Notifier interface {
	Dispatch(ctx context.Context, ev *models.CrisisEvent) error
	DispatchPhoneProvided(ctx context.Context, ev *models.CrisisEvent, phone string)
}

// TurnInput is one inbound user message.
type TurnInput struct {
	SessionID string
	Text      string
	Lat       *float64
	Lon       *float64
}

// TurnResult is the engine's verdict for one message.
type TurnResult struct {
	SessionID         string            `json:"session_id"`
	CrisisDetected    bool              `json:"crisis_detected"`
	CrisisType        models.CrisisType `json:"crisis_type,omitempty"`
	Severity          models.Severity   `json:"severity,omitempty"`
	ResponseText      string            `json:"response_text"`
	NeedsLocation     bool              `json:"needs_location"`
	HasLocalResources bool              `json:"has_local_resources"`
}

// Engine evaluates conversation turns.
type Engine struct {
	classifier Classifier
	locator    Locator
	composer   Composer
	sessions   SessionStore
	notifier   Notifier

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an engine instance
func New(classifier Classifier, locator Locator, composer Composer, sessions SessionStore, notifier Notifier) *Engine {
	return &Engine{
		classifier: classifier,
		locator:    locator,
		composer:   composer,
		sessions:   sessions,
		notifier:   notifier,
		locks:      make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing turns for one session.
func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		e.locks[sessionID] = m
	}
	return m
}

// EvaluateTurn processes one message. It never panics outward: any internal
// failure degrades to the fixed safety fallback response, treated as a
// detection so the turn is never silently dropped.
func (e *Engine) EvaluateTurn(ctx context.Context, in TurnInput) (out TurnResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Turn evaluation panicked", "session_id", in.SessionID, "panic", r)
			out = TurnResult{
				SessionID:      in.SessionID,
				CrisisDetected: true,
				Severity:       models.SeverityCritical,
				ResponseText:   responder.SafetyFallback(),
			}
			metrics.RecordTurn("panic", time.Since(start))
		}
	}()

	lock := e.sessionLock(in.SessionID)
	lock.Lock()
	defer lock.Unlock()

	state, err := e.sessions.Load(ctx, in.SessionID)
	if err != nil {
		logger.Error("Session load failed, using fresh state", "session_id", in.SessionID, "error", err)
		state = models.NewSessionState(in.SessionID)
	}

	// Every message is scanned for a callback number, crisis or not.
	phone, justProvided := phonecollect.Observe(in.Text, state)

	evidence := e.classifier.Classify(in.Text)
	result, detected := arbiter.Arbitrate(evidence)

	loc := e.resolveLocation(ctx, in, state)

	out = TurnResult{SessionID: in.SessionID}
	var parts []string

	if detected {
		composition := e.composer.Compose(result, loc, state)
		parts = append(parts, composition.ResponseText)

		if prompt, asked := phonecollect.RequestPrompt(result.Type, state); asked {
			parts = append(parts, prompt)
		}

		out.CrisisDetected = true
		out.CrisisType = result.Type
		out.Severity = result.Severity
		out.NeedsLocation = composition.NeedsLocation
		out.HasLocalResources = composition.HasLocalResources
	}

	if justProvided {
		parts = append(parts, phonecollect.Acknowledgement())
	}
	out.ResponseText = strings.Join(parts, "\n\n")

	if detected {
		ev := e.buildEvent(in, result, out.ResponseText, loc)
		if err := e.notifier.Dispatch(ctx, ev); err != nil {
			logger.Error("Event dispatch degraded", "event_id", ev.ID, "error", err)
		}
		metrics.RecordCrisisDetected(string(result.Type), string(result.Severity))
	}

	if justProvided {
		e.dispatchPhoneEvent(ctx, in, result, detected, phone)
	}

	if err := e.sessions.Save(ctx, state); err != nil {
		logger.Error("Session save failed", "session_id", in.SessionID, "error", err)
	}

	metrics.RecordTurn(turnStatus(detected), time.Since(start))
	return out
}

// resolveLocation prefers a place named in the message, then the session's
// remembered location. Device coordinates resolve in the background and only
// inform future turns: the response for this turn never waits on a provider.
func (e *Engine) resolveLocation(ctx context.Context, in TurnInput, state *models.SessionState) *models.LocationInfo {
	if loc := e.locator.FromText(in.Text); loc != nil {
		state.LastLocation = loc
		return loc
	}
	if state.LastLocation.Sufficient() {
		return state.LastLocation
	}
	if in.Lat != nil && in.Lon != nil {
		lat, lon := *in.Lat, *in.Lon
		sessionID := in.SessionID
		go e.resolveDeviceLocation(sessionID, lat, lon)
	}
	return nil
}

func (e *Engine) resolveDeviceLocation(sessionID string, lat, lon float64) {
	ctx := context.Background()
	loc := e.locator.FromDevice(ctx, lat, lon)
	if loc == nil {
		return
	}

	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return
	}
	if state.LastLocation.Sufficient() {
		return
	}
	state.LastLocation = loc
	if err := e.sessions.Save(ctx, state); err != nil {
		logger.Error("Session save failed after device geolocation", "session_id", sessionID, "error", err)
	}
}

func (e *Engine) buildEvent(in TurnInput, result arbiter.Result, responseText string, loc *models.LocationInfo) *models.CrisisEvent {
	return &models.CrisisEvent{
		ID:                 uuid.New().String(),
		Timestamp:          time.Now().UTC(),
		SessionID:          in.SessionID,
		UserText:           in.Text,
		CrisisType:         result.Type,
		Severity:           result.Severity,
		ResponseText:       responseText,
		DetectionMethod:    "pattern",
		Evidence:           result.Evidence,
		Location:           loc,
		NotificationStatus: models.NotificationPending,
	}
}

// dispatchPhoneEvent records the phone-provided moment as its own critical
// audit event and triggers the urgent follow-up alert, exactly once per
// session.
func (e *Engine) dispatchPhoneEvent(ctx context.Context, in TurnInput, result arbiter.Result, detected bool, phone string) {
	crisisType := models.CrisisGeneral
	if detected {
		crisisType = result.Type
	}
	ev := &models.CrisisEvent{
		ID:                 uuid.New().String(),
		Timestamp:          time.Now().UTC(),
		SessionID:          in.SessionID,
		UserText:           in.Text,
		CrisisType:         crisisType,
		Severity:           models.SeverityCritical,
		ResponseText:       phonecollect.Acknowledgement(),
		DetectionMethod:    "phone_extraction",
		NotificationStatus: models.NotificationPending,
	}
	e.notifier.DispatchPhoneProvided(ctx, ev, phone)
}

func turnStatus(detected bool) string {
	if detected {
		return "crisis"
	}
	return "clear"
}
