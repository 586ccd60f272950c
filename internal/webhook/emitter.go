package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"altis.app/tracker/internal/queue"
)

const (
	SignatureHeader = "X-Tracker-Signature"
	DeliveryHeader  = "X-Tracker-Delivery"
	AttemptHeader   = "X-Tracker-Attempt"
)

// ErrCircuitOpen is returned while the endpoint is considered down.
var ErrCircuitOpen = errors.New("webhook circuit open")

// DefaultBreakerTimeout is how long the default breaker stays open before letting a trial request through.
const DefaultBreakerTimeout = 30 * time.Second

// Emitter delivers activity events to a subscriber.
type Emitter interface {
	Emit(ctx context.Context, ev queue.ActivityEvent) error
}

// Payload is the JSON body posted for each activity.
type Payload struct {
	ActivityID     string    `json:"activityId"`
	IssueID        string    `json:"issueId"`
	OrganizationID string    `json:"organizationId"`
	ActorID        string    `json:"actorId,omitempty"`
	Action         string    `json:"action"`
	Field          *string   `json:"field"`
	OldValue       *string   `json:"oldValue"`
	NewValue       *string   `json:"newValue"`
	OccurredAt     time.Time `json:"occurredAt"`
	TraceID        string    `json:"traceId,omitempty"`
}

func NewPayload(ev queue.ActivityEvent) Payload {
	p := Payload{
		ActivityID:     strconv.FormatInt(ev.ActivityID, 10),
		IssueID:        strconv.FormatInt(ev.IssueID, 10),
		OrganizationID: strconv.FormatInt(ev.OrganizationID, 10),
		Action:         ev.Action,
		Field:          ev.Field,
		OldValue:       ev.OldValue,
		NewValue:       ev.NewValue,
		OccurredAt:     ev.OccurredAt.UTC(),
		TraceID:        ev.TraceID,
	}
	if ev.ActorID != 0 {
		p.ActorID = strconv.FormatInt(ev.ActorID, 10)
	}
	return p
}

// StatusError reports a non-2xx answer from the endpoint.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook endpoint returned status %d", e.Status)
}

// IsPermanent reports whether retrying err cannot succeed. 4xx answers other
// than 408 and 429 are permanent.
func IsPermanent(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	if se.Status == http.StatusRequestTimeout || se.Status == http.StatusTooManyRequests {
		return false
	}
	return se.Status >= 400 && se.Status < 500
}

type HTTPEmitter struct {
	client  *http.Client
	url     string
	secret  []byte
	breaker *gobreaker.CircuitBreaker
}

type Option func(*HTTPEmitter)

// WithClient replaces the default client (10s timeout).
func WithClient(c *http.Client) Option {
	return func(e *HTTPEmitter) {
		e.client = c
	}
}

// WithSecret signs every body with HMAC-SHA256.
func WithSecret(secret string) Option {
	return func(e *HTTPEmitter) {
		if secret != "" {
			e.secret = []byte(secret)
		}
	}
}

// WithBreakerSettings overrides the circuit breaker trip rules. IsSuccessful is always
// set so that permanent failures do not open the circuit.
func WithBreakerSettings(s gobreaker.Settings) Option {
	return func(e *HTTPEmitter) {
		e.breaker = newBreaker(s)
	}
}

func NewHTTPEmitter(url string, opts ...Option) *HTTPEmitter {
	e := &HTTPEmitter{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.breaker == nil {
		e.breaker = newBreaker(gobreaker.Settings{
			MaxRequests: 1,
			Timeout:     DefaultBreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
		})
	}
	return e
}

func newBreaker(s gobreaker.Settings) *gobreaker.CircuitBreaker {
	if s.Name == "" {
		s.Name = "activity-webhook"
	}
	s.IsSuccessful = func(err error) bool {
		return err == nil || IsPermanent(err)
	}
	s.OnStateChange = func(name string, from, to gobreaker.State) {
		slog.Info("circuit breaker state changed",
			"breaker", name,
			"from", from.String(),
			"to", to.String())
	}
	return gobreaker.NewCircuitBreaker(s)
}

func (e *HTTPEmitter) Emit(ctx context.Context, ev queue.ActivityEvent) error {
	body, err := json.Marshal(NewPayload(ev))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	_, err = e.breaker.Execute(func() (any, error) {
		return nil, e.post(ctx, ev, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

func (e *HTTPEmitter) post(ctx context.Context, ev queue.ActivityEvent, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(DeliveryHeader, strconv.FormatInt(ev.ActivityID, 10))
	req.Header.Set(AttemptHeader, strconv.Itoa(max(ev.Attempt, 1)))
	if e.secret != nil {
		req.Header.Set(SignatureHeader, Sign(e.secret, body))
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode}
	}
	return nil
}

// Sign returns the signature header value for body: "sha256=" followed by the hex HMAC.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

type NoopEmitter struct{}

func NewNoopEmitter() NoopEmitter {
	return NoopEmitter{}
}

func (NoopEmitter) Emit(context.Context, queue.ActivityEvent) error { return nil }

var (
	_ Emitter = (*HTTPEmitter)(nil)
	_ Emitter = NoopEmitter{}
)
