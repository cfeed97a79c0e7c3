package httptransport

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"dataloaders/internal/platform/metrics"
	"dataloaders/internal/platform/middleware"
	"dataloaders/pkg/testutil"
)

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error { return f(ctx) }

type panicRoutes struct{}

func (panicRoutes) Register(r chi.Router) {
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
}

func TestRouter(t *testing.T) {
	testutil.Given(t, "a router with a healthy cache", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		router := NewRouter(Deps{
			Metrics:  metrics.NewWith(reg),
			Gatherer: reg,
			Health: map[string]HealthChecker{
				"redis": healthFunc(func(context.Context) error { return nil }),
			},
			Handlers: []Registrar{panicRoutes{}},
		})

		testutil.When(t, "calling GET /healthz", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))

			testutil.Then(t, "it reports ok with a request id", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONContains(t, rr, "status", "ok")
				assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
			})
		})

		testutil.When(t, "calling GET /metrics", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))

			testutil.Then(t, "request metrics are exposed", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				assert.Contains(t, rr.Body.String(), "dataloaders_http_requests_total")
			})
		})

		testutil.When(t, "calling an unknown route", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/nope"))

			testutil.Then(t, "it responds with the not_found envelope", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
			})
		})

		testutil.When(t, "calling POST on a GET route", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/healthz"))

			testutil.Then(t, "it responds 405", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
			})
		})

		testutil.When(t, "a handler panics", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/boom"))

			testutil.Then(t, "the request fails with 500 and the server survives", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusInternalServerError)
			})
		})
	})

	testutil.Given(t, "a router with an unreachable cache", func(t *testing.T) {
		router := NewRouter(Deps{
			Health: map[string]HealthChecker{
				"redis": healthFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
			},
		})

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))

		testutil.Then(t, "health is degraded", func(t *testing.T) {
			testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
			testutil.AssertJSONContains(t, rr, "status", "degraded")
		})
	})
}
