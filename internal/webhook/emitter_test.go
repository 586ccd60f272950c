package webhook_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sony/gobreaker"

	"altis.app/tracker/internal/queue"
	"altis.app/tracker/internal/webhook"
)

func sampleEvent() queue.ActivityEvent {
	field := "status"
	oldValue := "todo"
	newValue := "done"
	return queue.ActivityEvent{
		ActivityID:     11,
		IssueID:        22,
		OrganizationID: 33,
		ActorID:        44,
		Action:         "updated",
		Field:          &field,
		OldValue:       &oldValue,
		NewValue:       &newValue,
		OccurredAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Attempt:        2,
	}
}

var _ = Describe("HTTPEmitter", func() {
	var (
		ctx      context.Context
		status   atomic.Int32
		calls    atomic.Int32
		received chan *http.Request
		bodies   chan []byte
		server   *httptest.Server
	)

	BeforeEach(func() {
		ctx = context.Background()
		status.Store(http.StatusOK)
		calls.Store(0)
		received = make(chan *http.Request, 10)
		bodies = make(chan []byte, 10)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			body, _ := io.ReadAll(r.Body)
			received <- r
			bodies <- body
			w.WriteHeader(int(status.Load()))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("posts the activity as JSON with delivery headers", func() {
		emitter := webhook.NewHTTPEmitter(server.URL)
		Expect(emitter.Emit(ctx, sampleEvent())).To(Succeed())

		req := <-received
		Expect(req.Method).To(Equal(http.MethodPost))
		Expect(req.Header.Get("Content-Type")).To(Equal("application/json"))
		Expect(req.Header.Get(webhook.DeliveryHeader)).To(Equal("11"))
		Expect(req.Header.Get(webhook.AttemptHeader)).To(Equal("2"))
		Expect(req.Header.Get(webhook.SignatureHeader)).To(BeEmpty())

		var payload map[string]any
		Expect(json.Unmarshal(<-bodies, &payload)).To(Succeed())
		Expect(payload).To(HaveKeyWithValue("activityId", "11"))
		Expect(payload).To(HaveKeyWithValue("issueId", "22"))
		Expect(payload).To(HaveKeyWithValue("organizationId", "33"))
		Expect(payload).To(HaveKeyWithValue("actorId", "44"))
		Expect(payload).To(HaveKeyWithValue("action", "updated"))
		Expect(payload).To(HaveKeyWithValue("field", "status"))
		Expect(payload).To(HaveKeyWithValue("newValue", "done"))
		Expect(payload).To(HaveKeyWithValue("occurredAt", "2026-03-01T12:00:00Z"))
	})

	It("signs the body when a secret is configured", func() {
		emitter := webhook.NewHTTPEmitter(server.URL, webhook.WithSecret("shh"))
		Expect(emitter.Emit(ctx, sampleEvent())).To(Succeed())

		req := <-received
		body := <-bodies
		Expect(req.Header.Get(webhook.SignatureHeader)).To(Equal(webhook.Sign([]byte("shh"), body)))
		Expect(req.Header.Get(webhook.SignatureHeader)).To(HavePrefix("sha256="))
	})

	It("returns a StatusError on non-2xx answers", func() {
		status.Store(http.StatusBadGateway)
		emitter := webhook.NewHTTPEmitter(server.URL)

		err := emitter.Emit(ctx, sampleEvent())
		var se *webhook.StatusError
		Expect(err).To(BeAssignableToTypeOf(se))
		Expect(webhook.IsPermanent(err)).To(BeFalse())
	})

	It("opens the circuit after repeated failures", func() {
		status.Store(http.StatusServiceUnavailable)
		emitter := webhook.NewHTTPEmitter(server.URL, webhook.WithBreakerSettings(gobreaker.Settings{
			Timeout: time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 2
			},
		}))

		Expect(emitter.Emit(ctx, sampleEvent())).To(HaveOccurred())
		Expect(emitter.Emit(ctx, sampleEvent())).To(HaveOccurred())
		Expect(emitter.Emit(ctx, sampleEvent())).To(MatchError(webhook.ErrCircuitOpen))
		Expect(calls.Load()).To(Equal(int32(2)))
	})

	It("does not trip the circuit on permanent failures", func() {
		status.Store(http.StatusGone)
		emitter := webhook.NewHTTPEmitter(server.URL, webhook.WithBreakerSettings(gobreaker.Settings{
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 1
			},
		}))

		for i := 0; i < 3; i++ {
			err := emitter.Emit(ctx, sampleEvent())
			Expect(webhook.IsPermanent(err)).To(BeTrue())
		}
		Expect(calls.Load()).To(Equal(int32(3)))
	})
})

var _ = DescribeTable("IsPermanent",
	func(err error, want bool) {
		Expect(webhook.IsPermanent(err)).To(Equal(want))
	},
	Entry("bad request", &webhook.StatusError{Status: http.StatusBadRequest}, true),
	Entry("request timeout", &webhook.StatusError{Status: http.StatusRequestTimeout}, false),
	Entry("too many requests", &webhook.StatusError{Status: http.StatusTooManyRequests}, false),
	Entry("server error", &webhook.StatusError{Status: http.StatusInternalServerError}, false),
	Entry("circuit open", webhook.ErrCircuitOpen, false),
)
