/*
Package router decides whether a prediction is served by the cheap local
model, escalated to the remote model, or served locally under review.

Routing is a pure function of the confidence and the configured
thresholds. Thresholds are hot-reloadable: the router reads them through
an atomic handle that the config watcher swaps on reload.
*/
package router

import (
	"sync/atomic"

	"github.com/khanglvm/intent-hub-mcp/internal/config"
)

// Decision is where a prediction is served.
type Decision string

const (
	// Local serves the request with the fast local model.
	Local Decision = "LOCAL"

	// Remote escalates the request directly to the stronger model.
	Remote Decision = "REMOTE"

	// HybridEscalate serves locally but flags the interaction for
	// confirmation before it may be used as a training sample.
	HybridEscalate Decision = "HYBRID_ESCALATE"
)

// Router routes predictions by confidence thresholds.
type Router struct {
	thresholds atomic.Pointer[config.RoutingConfig]
}

// NewRouter creates a router with the given thresholds.
func NewRouter(cfg *config.RoutingConfig) *Router {
	r := &Router{}
	r.thresholds.Store(cfg)
	return r
}

// SetThresholds swaps the thresholds; in-flight Route calls see either the
// old or the new pair, never a mix.
func (r *Router) SetThresholds(cfg *config.RoutingConfig) {
	r.thresholds.Store(cfg)
}

// Route decides where to serve a prediction with the given confidence.
//
// Boundary semantics: confidence exactly at the high threshold routes
// Local; exactly at the low threshold routes Remote; strictly between the
// two routes HybridEscalate.
func (r *Router) Route(confidence float64) Decision {
	t := r.thresholds.Load()

	switch {
	case confidence >= t.HighThreshold:
		return Local
	case confidence <= t.LowThreshold:
		return Remote
	default:
		return HybridEscalate
	}
}
