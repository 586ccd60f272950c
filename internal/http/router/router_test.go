package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/ulule/limiter/v3"

	"altis.app/tracker/internal/auth"
	"altis.app/tracker/internal/http/middleware"
	"altis.app/tracker/internal/http/router"
	"altis.app/tracker/internal/service"
	"altis.app/tracker/internal/store"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

var _ = Describe("SetupRoutes", func() {
	var engine *gin.Engine

	BeforeEach(func() {
		limiterStore, err := middleware.NewLimiterStore(nil, "router-test")
		Expect(err).NotTo(HaveOccurred())

		tokens := auth.NewTokenIssuer("test-secret", time.Hour)
		services := service.NewServices(store.NewStores(nil), nil, tokens, nil)

		engine = gin.New()
		router.SetupRoutes(engine, services, router.RouterConfig{
			FrontendURL:  "http://localhost:3000",
			LimiterStore: limiterStore,
			GeneralRate:  limiter.Rate{Period: time.Minute, Limit: 100},
			AuthRate:     limiter.Rate{Period: time.Minute, Limit: 5},
			DB:           pingerFunc(func(context.Context) error { return nil }),
		})
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	message := func(w *httptest.ResponseRecorder) string {
		var body map[string]string
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		return body["message"]
	}

	It("serves the health check", func() {
		w := do(http.MethodGet, "/health", "")
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("answers unknown routes with 404", func() {
		w := do(http.MethodGet, "/api/nope", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(message(w)).To(Equal("Route not found"))
	})

	DescribeTable("requires a session on protected routes",
		func(method, path string) {
			w := do(method, path, "")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(message(w)).To(Equal("No token provided"))
		},
		Entry("issues", http.MethodGet, "/api/issues"),
		Entry("issue detail", http.MethodGet, "/api/issues/1"),
		Entry("comments", http.MethodPost, "/api/comments"),
		Entry("users", http.MethodGet, "/api/users"),
		Entry("current organization", http.MethodGet, "/api/organizations/current"),
		Entry("me", http.MethodGet, "/api/auth/me"),
	)

	It("refuses admin organization creation when no admin key is configured", func() {
		w := do(http.MethodPost, "/api/admin/organizations", `{"name":"Acme"}`)
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("limits auth attempts separately from the general API", func() {
		for i := 0; i < 5; i++ {
			Expect(do(http.MethodPost, "/api/auth/login", `{}`).Code).To(Equal(http.StatusBadRequest))
		}
		w := do(http.MethodPost, "/api/auth/login", `{}`)
		Expect(w.Code).To(Equal(http.StatusTooManyRequests))
		Expect(message(w)).To(Equal(middleware.AuthRateLimitMessage))

		Expect(do(http.MethodGet, "/api/issues", "").Code).To(Equal(http.StatusUnauthorized))
	})

	It("tells general API throttling apart from auth throttling", func() {
		for i := 0; i < 100; i++ {
			Expect(do(http.MethodGet, "/api/issues", "").Code).To(Equal(http.StatusUnauthorized))
		}
		w := do(http.MethodGet, "/api/issues", "")
		Expect(w.Code).To(Equal(http.StatusTooManyRequests))
		Expect(message(w)).To(Equal(middleware.GeneralRateLimitMessage))
	})

	It("sets security headers", func() {
		w := do(http.MethodGet, "/health", "")
		Expect(w.Header().Get("X-Content-Type-Options")).To(Equal("nosniff"))
	})
})
