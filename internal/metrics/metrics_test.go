package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectors(t *testing.T) {
	m := New()
	m.LoginAttempts.WithLabelValues("success").Inc()
	m.LoginAttempts.WithLabelValues("failure").Add(2)
	m.Exports.WithLabelValues("transactions", "csv").Inc()

	if got := testutil.ToFloat64(m.LoginAttempts.WithLabelValues("failure")); got != 2 {
		t.Errorf("Expected 2 failed logins, got %v", got)
	}
	if got := testutil.CollectAndCount(m.Exports); got != 1 {
		t.Errorf("Expected 1 export series, got %d", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.RPCRequests.WithLabelValues("/livrocaixa.v1.LedgerService/GetReport", "ok").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `livrocaixa_rpc_requests_total{code="ok",procedure="/livrocaixa.v1.LedgerService/GetReport"} 1`) {
		t.Errorf("Expected rpc counter in output, got:\n%s", body)
	}
}
