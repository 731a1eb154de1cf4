package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/slashgate/internal/handler"
)

func TestNewDefaultNamespace(t *testing.T) {
	m := New("")
	require.NotNil(t, m)

	m.ObserveCommand(handler.OutcomeOK)
	body := scrape(t, m)
	assert.Contains(t, body, `slashgate_slash_commands_total{outcome="ok"} 1`)
}

func TestObserveCommand(t *testing.T) {
	m := New("test")
	m.ObserveCommand(handler.OutcomeOK)
	m.ObserveCommand(handler.OutcomeRejected)
	m.ObserveCommand(handler.OutcomeRejected)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.commandsTotal.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.commandsTotal.WithLabelValues("rejected")))
}

func TestObserveInstall(t *testing.T) {
	m := New("test")
	m.ObserveInstall("stored")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.installsTotal.WithLabelValues("stored")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New("test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/"+id, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/things/{id}", "418")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.requestsInFlight))
}

func TestHandlerServesExposition(t *testing.T) {
	m := New("test")
	m.ObserveInstall("failed")

	body := scrape(t, m)
	assert.True(t, strings.Contains(body, "# TYPE test_oauth_installations_total counter"), body)
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
