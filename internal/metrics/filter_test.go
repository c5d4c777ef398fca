package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterFilterMetrics_Idempotent(t *testing.T) {
	RegisterFilterMetrics()
	RegisterFilterMetrics()

	FilterConfigErrorsTotal.WithLabelValues("notes").Inc()
	if got := testutil.ToFloat64(FilterConfigErrorsTotal.WithLabelValues("notes")); got < 1 {
		t.Errorf("expected filter_config_errors_total >= 1, got %f", got)
	}

	FilterResults.WithLabelValues("notes").Observe(3)
	if testutil.CollectAndCount(FilterResults) == 0 {
		t.Error("expected filter_results to have observations")
	}
}
