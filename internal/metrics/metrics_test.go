package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Get("/productos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2", "3"} {
		req := httptest.NewRequest(http.MethodGet, "/productos/"+id, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(m.requestTotal.WithLabelValues(http.MethodGet, "/productos/{id}", "404"))
	assert.Equal(t, float64(3), got)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
}

func TestObserveQuery_CountsErrors(t *testing.T) {
	m := New()

	m.ObserveQuery("insert", time.Now(), nil)
	m.ObserveQuery("insert", time.Now(), errors.New("disk full"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.dbErrors.WithLabelValues("insert")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.dbQueryDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveQuery("select", time.Now(), nil)
		m.CacheLookup("hit")
	})
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.CacheLookup("hit")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "productos_cache_lookups_total")
}
