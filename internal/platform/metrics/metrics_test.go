package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByPattern(t *testing.T) {
	registry := New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/election/v1/parties/{party_id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := registry.Middleware(mux)

	for _, id := range []string{"p1", "p2"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/election/v1/parties/"+id, nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
	}

	count := testutil.ToFloat64(registry.httpRequests.WithLabelValues(
		http.MethodGet, "GET /api/election/v1/parties/{party_id}", "404",
	))
	assert.Equal(t, float64(2), count)
}

func TestOutboxPublishedCounter(t *testing.T) {
	registry := New()
	registry.OutboxPublished("election.reset")
	registry.OutboxPublished("election.reset")
	registry.OutboxPublished("election.phase_changed")

	assert.Equal(t, float64(2), testutil.ToFloat64(registry.outboxPublished.WithLabelValues("election.reset")))

	rr := httptest.NewRecorder()
	registry.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rr.Body.String(), `kura_outbox_published_total{event_type="election.phase_changed"} 1`)
}

func TestNilRegistryIsNoop(t *testing.T) {
	var registry *Registry
	registry.OutboxPublished("election.reset")
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})
	assert.NotNil(t, registry.Middleware(next))
}
