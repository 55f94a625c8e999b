// Package engine implements the cap-table recalculation pipeline: valuation
// resolution, dilution, and timeline sequencing over a list of capital
// events.
package engine

import (
	"go.uber.org/zap"

	"github.com/seyeddanesh/startupcapmodel/internal/model"
	"github.com/seyeddanesh/startupcapmodel/pkg/currency"
)

// Engine runs the recalculation pipeline. It holds no mutable state between
// calls; every recalculation is a full pass from the founder baseline.
type Engine struct {
	logger *zap.Logger
}

// New creates an engine. A nil logger is replaced with a no-op logger.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Recalculate resolves valuations and rebuilds the cap-table chain for the
// given events. The input slice is left untouched; a freshly annotated copy
// is returned. The pipeline never fails: unresolvable valuations surface as
// zero figures and degenerate dilution math as pass-through cap tables.
func (e *Engine) Recalculate(events []model.Event, founderName string, rates currency.RateTable) []model.Event {
	result := model.CloneEvents(events)
	e.resolveValuations(result, rates)
	e.applyDilution(result, founderName)
	return result
}
