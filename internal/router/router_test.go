package router

import (
	"testing"

	"github.com/khanglvm/intent-hub-mcp/internal/config"
)

func newTestRouter() *Router {
	return NewRouter(&config.RoutingConfig{HighThreshold: 0.85, LowThreshold: 0.40})
}

func TestRoute_Boundaries(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		confidence float64
		want       Decision
	}{
		{0.99, Local},
		{0.85, Local}, // exactly at high threshold
		{0.8499, HybridEscalate},
		{0.60, HybridEscalate},
		{0.4001, HybridEscalate},
		{0.40, Remote}, // exactly at low threshold
		{0.10, Remote},
		{0.0, Remote},
	}

	for _, tc := range cases {
		if got := r.Route(tc.confidence); got != tc.want {
			t.Errorf("Route(%f) = %s, want %s", tc.confidence, got, tc.want)
		}
	}
}

func TestRoute_Deterministic(t *testing.T) {
	r := newTestRouter()

	for i := 0; i < 100; i++ {
		if r.Route(0.5) != HybridEscalate {
			t.Fatal("routing must be deterministic for fixed confidence and thresholds")
		}
	}
}

func TestSetThresholds_HotReload(t *testing.T) {
	r := newTestRouter()

	if r.Route(0.7) != HybridEscalate {
		t.Fatal("expected hybrid before reload")
	}

	r.SetThresholds(&config.RoutingConfig{HighThreshold: 0.65, LowThreshold: 0.30})

	if got := r.Route(0.7); got != Local {
		t.Errorf("expected Local after lowering high threshold, got %s", got)
	}
}
