package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/Spok95/storekeeper/internal/infra/db"
)

func TestClassifyResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("resolve: %w", db.ErrNotFound), "not_found"},
		{fmt.Errorf("%w: price -1 is negative", db.ErrConstraint), "constraint"},
		{db.ErrUnavailable, "unavailable"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := classifyResult(tt.err); got != tt.want {
			t.Errorf("classifyResult(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestObserveOperation(t *testing.T) {
	before := counterValue(t, operationsTotal.WithLabelValues("record_price", "constraint"))
	ObserveOperation("record_price", time.Now(), db.ErrConstraint)
	after := counterValue(t, operationsTotal.WithLabelValues("record_price", "constraint"))
	if after-before != 1 {
		t.Fatalf("counter delta = %v, want 1", after-before)
	}
}

func TestClassifyStatus(t *testing.T) {
	for code, want := range map[int]string{200: "2xx", 201: "2xx", 302: "3xx", 404: "4xx", 503: "5xx", 99: "unknown"} {
		if got := classifyStatus(code); got != want {
			t.Errorf("classifyStatus(%d) = %q, want %q", code, got, want)
		}
	}
}
