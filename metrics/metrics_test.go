package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/promptfield/widget"
)

func TestObserve(t *testing.T) {
	m := New(prometheus.NewRegistry())

	hook := m.ResultHook(widget.VariantInstance)
	hook(widget.Result{Stage: widget.StageDone, Duration: 2 * time.Second})
	hook(widget.Result{Stage: widget.StageUpsert, Err: errors.New("boom")})
	m.Observe(widget.VariantEnvironment, widget.Result{Stage: widget.StageDone})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues("instance", "done", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues("instance", "upsert", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues("environment", "done", "ok")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.GenerationLatency))
}

func TestMiddleware_LabelsByRoute(t *testing.T) {
	m := New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/items/{codename}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/items/a", "/items/b", "/missing"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/items/{codename}", "418")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
