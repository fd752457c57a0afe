// Package notifier delivers clinician alerts for detected crisis events. An
// event is written to the audit log before any delivery attempt; a failed
// delivery leaves the event marked failed with a mailto fallback logged, and
// is never retried automatically.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/cvmhw/rogercore/config"
	apperrors "github.com/cvmhw/rogercore/internal/errors"
	"github.com/cvmhw/rogercore/internal/logger"
	"github.com/cvmhw/rogercore/internal/metrics"
	"github.com/cvmhw/rogercore/internal/models"
	"github.com/cvmhw/rogercore/internal/resources"
	"github.com/cvmhw/rogercore/pkg/utils"
)

// Store is the slice of the audit store the dispatcher needs.
type Store interface {
	AppendEvent(ctx context.Context, event *models.CrisisEvent) error
	UpdateNotificationStatus(ctx context.Context, id string, status models.NotificationStatus) error
}

// Delivery reports the outcome of one notification attempt.
type Delivery struct {
	EventID string
	Status  models.NotificationStatus
}

type job struct {
	event    *models.CrisisEvent
	phone    string
	priority bool
}

// Dispatcher persists crisis events and notifies the on-call clinician.
type Dispatcher struct {
	store   Store
	cfg     config.NotifierConfig
	client  *http.Client
	queue   chan job
	limiter *rate.Limiter
	sem     *semaphore.Weighted
	wg      sync.WaitGroup

	mu      sync.Mutex
	started bool
	onDone  func(Delivery)
}

// New creates a dispatcher instance
func New(store Store, cfg config.NotifierConfig) *Dispatcher {
	return &Dispatcher{
		store: store,
		cfg:   cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		queue:   make(chan job, cfg.QueueSize),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		sem:     semaphore.NewWeighted(int64(cfg.WorkerCount)),
	}
}

// OnDelivery registers a hook invoked after each delivery attempt resolves.
// Used by tests to observe the asynchronous path.
func (d *Dispatcher) OnDelivery(fn func(Delivery)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onDone = fn
}

// Start launches the delivery workers. Run until Stop is called or the
// context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case j, ok := <-d.queue:
				if !ok {
					return
				}
				if err := d.sem.Acquire(ctx, 1); err != nil {
					return
				}
				d.wg.Add(1)
				go func(j job) {
					defer d.wg.Done()
					defer d.sem.Release(1)
					d.process(ctx, j)
				}(j)
			}
		}
	}()

	logger.Info("Notifier started",
		"workers", d.cfg.WorkerCount,
		"queue_size", d.cfg.QueueSize,
		"rate_per_second", d.cfg.RatePerSecond,
	)
}

// Stop drains in-flight deliveries.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.started = false
	d.mu.Unlock()

	close(d.queue)
	d.wg.Wait()
	logger.Info("Notifier stopped")
}

// Dispatch persists the event and queues the clinician alert. The append is
// synchronous: the event must be durable before any delivery attempt. A
// failed append is logged and delivery proceeds anyway; reaching a clinician
// outranks the log write.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *models.CrisisEvent) error {
	if ev == nil {
		return apperrors.ErrInvalidInput
	}

	appendErr := d.store.AppendEvent(ctx, ev)
	if appendErr != nil {
		logger.Error("Audit append failed before notification", "event_id", ev.ID, "error", appendErr)
		metrics.RecordDBQuery("append_event", "error")
	}

	select {
	case d.queue <- job{event: ev}:
	default:
		logger.Error("Notifier queue full, delivering inline", "event_id", ev.ID)
		d.process(ctx, job{event: ev})
	}
	return appendErr
}

// DispatchPhoneProvided persists the phone-provided event and sends the
// urgent follow-up alert. It jumps the rate limiter: a reachable user in
// crisis is the single most actionable signal this system produces.
func (d *Dispatcher) DispatchPhoneProvided(ctx context.Context, ev *models.CrisisEvent, phone string) {
	if err := d.store.AppendEvent(ctx, ev); err != nil {
		logger.Error("Audit append failed before phone alert", "event_id", ev.ID, "error", err)
	}

	select {
	case d.queue <- job{event: ev, phone: phone, priority: true}:
	default:
		logger.Error("Notifier queue full, delivering phone alert inline", "session_id", ev.SessionID)
		d.process(ctx, job{event: ev, phone: phone, priority: true})
	}
}

func (d *Dispatcher) process(ctx context.Context, j job) {
	if !j.priority {
		if err := d.limiter.Wait(ctx); err != nil {
			d.resolve(ctx, j, models.NotificationFailed)
			return
		}
	}

	if err := d.deliver(ctx, j); err != nil {
		logger.Error("Notification delivery failed",
			"event_id", j.event.ID,
			"session_id", j.event.SessionID,
			"error", err,
		)
		d.logFallback(j)
		d.resolve(ctx, j, models.NotificationFailed)
		return
	}
	d.resolve(ctx, j, models.NotificationSent)
}

func (d *Dispatcher) deliver(ctx context.Context, j job) error {
	payload := map[string]string{
		"to":                d.cfg.Recipient,
		"subject":           Subject(j.event),
		"crisis_type":       string(j.event.CrisisType),
		"severity":          string(j.event.Severity),
		"session_id":        j.event.SessionID,
		"user_input":        j.event.UserText,
		"roger_response":    j.event.ResponseText,
		"location":          j.event.Location.Display(),
		"clinical_guidance": resources.GuidanceFor(j.event.CrisisType),
	}
	if j.phone != "" {
		payload["subject"] = phoneSubject
		payload["phone"] = j.phone
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NotificationError{Channel: "http", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.ProviderURL, bytes.NewReader(body))
	if err != nil {
		return apperrors.NotificationError{Channel: "http", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	// Fingerprint lets the provider dedupe if an inline fallback delivery
	// races a queued one.
	req.Header.Set("X-Idempotency-Key", utils.HashString(j.event.ID+payload["subject"]))
	if d.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.cfg.APIKey)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return apperrors.NotificationError{Channel: "http", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NotificationError{
			Channel:    "http",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("provider returned %d", resp.StatusCode),
		}
	}
	return nil
}

// logFallback records the mailto form of the alert so an operator watching
// the log can still reach the clinician by hand.
func (d *Dispatcher) logFallback(j job) {
	var link string
	if j.phone != "" {
		link = PhoneMailtoFallback(d.cfg.Recipient, j.event.SessionID, j.phone)
	} else {
		link = MailtoFallback(d.cfg.Recipient, j.event)
	}
	logger.Warn("Notification fallback", "event_id", j.event.ID, "mailto", link)
}

func (d *Dispatcher) resolve(ctx context.Context, j job, status models.NotificationStatus) {
	if err := d.store.UpdateNotificationStatus(ctx, j.event.ID, status); err != nil {
		logger.Error("Failed to record notification status",
			"event_id", j.event.ID,
			"status", status,
			"error", err,
		)
	}
	metrics.RecordNotification(string(status))

	d.mu.Lock()
	hook := d.onDone
	d.mu.Unlock()
	if hook != nil {
		hook(Delivery{EventID: j.event.ID, Status: status})
	}
}
