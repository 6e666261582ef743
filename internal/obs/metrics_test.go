package obs_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/noah-isme/checkout-pricing/internal/obs"
)

func TestCheckoutMetricsLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewCheckoutMetrics("checkout", registry)

	metrics.ObserveRequest("ok")
	metrics.ObserveCoupon("DESC10", "applied")
	metrics.ObserveCoupon("TYPO123", "unknown")
	metrics.ObserveCoupon("", "none")
	metrics.ObserveShipping("region")
	metrics.ObserveCap()

	if total := testutil.ToFloat64(metrics.Requests.WithLabelValues("ok")); total != 1 {
		t.Fatalf("expected request counter to be 1, got %v", total)
	}
	if total := testutil.ToFloat64(metrics.Coupons.WithLabelValues("unknown", "unknown")); total != 1 {
		t.Fatalf("expected unknown coupons folded into one label, got %v", total)
	}
	if series := testutil.CollectAndCount(metrics.Coupons); series != 2 {
		t.Fatalf("expected 2 coupon series, got %d", series)
	}
	if total := testutil.ToFloat64(metrics.DiscountCapped); total != 1 {
		t.Fatalf("expected cap counter to be 1, got %v", total)
	}
}

func TestCheckoutMetricsReuseRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := obs.NewCheckoutMetrics("checkout", registry)
	second := obs.NewCheckoutMetrics("checkout", registry)

	second.ObserveShipping("coupon")
	if total := testutil.ToFloat64(first.ShippingRules.WithLabelValues("coupon")); total != 1 {
		t.Fatalf("expected shared collector, got %v", total)
	}
}

func TestNilMetricsAreNoop(t *testing.T) {
	var metrics *obs.CheckoutMetrics
	metrics.ObserveRequest("ok")
	metrics.ObserveCoupon("DESC10", "applied")
	metrics.ObserveShipping("region")
	metrics.ObserveCap()
}

func TestWriteTextfile(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewCheckoutMetrics("checkout", registry)
	metrics.ObserveRequest("invalid_argument")

	path := filepath.Join(t.TempDir(), "checkout.prom")
	if err := obs.WriteTextfile(path, registry); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(raw), `checkout_requests_total{result="invalid_argument"} 1`) {
		t.Fatalf("unexpected textfile contents:\n%s", raw)
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := obs.NewLogger(&buf, "json", "warn")
	logger.Info().Msg("hidden")
	logger.Warn().Str("code", "DESC10").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"code":"DESC10"`) || !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("expected json fields, got %s", out)
	}

	buf.Reset()
	console := obs.NewLogger(&buf, "console", "bogus")
	console.Info().Msg("plain")
	if strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "plain") {
		t.Fatalf("expected console output at info level, got %s", buf.String())
	}
}
