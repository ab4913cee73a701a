package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRender(t *testing.T) {
	r := New()
	r.ObserveRender(OutcomeRendered, 10*time.Millisecond)
	r.ObserveRender(OutcomeFailed, time.Millisecond)
	r.ObserveRender(OutcomeFailed, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.renders.WithLabelValues(OutcomeRendered)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.renders.WithLabelValues(OutcomeFailed)))
}

func TestObserveDraw(t *testing.T) {
	r := New()
	r.ObserveDraw("png", time.Millisecond, nil)
	r.ObserveDraw("png", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.draws.WithLabelValues("png", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.draws.WithLabelValues("png", "error")))
}

func TestObserveFetchAndTheme(t *testing.T) {
	r := New()
	r.ObserveFetch("ok")
	r.ObserveThemeChange("dark")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.themeChanges.WithLabelValues("dark")))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveRender(OutcomeRendered, time.Second)
		r.ObserveDraw("png", time.Second, nil)
		r.ObserveFetch("ok")
		r.ObserveThemeChange("light")
	})
	assert.Nil(t, r.Registry())

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	rec := httptest.NewRecorder()
	r.Instrument("x", next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.ObserveRender(OutcomeRendered, time.Millisecond)

	h := r.Instrument("index", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `adoptionchart_renders_total{outcome="rendered"} 1`)
	assert.Contains(t, body, `adoptionchart_http_requests_total{code="200",handler="index",method="get"} 1`)
}
