package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOperation(t *testing.T) {
	m := New()
	m.RecordOperation("Book", "create", OutcomeSuccess)
	m.RecordOperation("Book", "create", OutcomeSuccess)
	m.RecordOperation("Book", "get", OutcomeNotFound)

	if got := testutil.ToFloat64(m.crudOperations.WithLabelValues("Book", "create", OutcomeSuccess)); got != 2 {
		t.Errorf("create success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.crudOperations.WithLabelValues("Book", "get", OutcomeNotFound)); got != 1 {
		t.Errorf("get not_found = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordOperation("Book", "create", OutcomeSuccess)
	m.ObserveRequest("GET", "/api/book/all", "200", 0.01)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/book/all", "200", 0.01)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `crudapi_http_requests_total{method="GET",route="/api/book/all",status="200"} 1`) {
		t.Errorf("exposition missing request counter:\n%s", rec.Body.String())
	}
}
