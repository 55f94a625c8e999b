package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/seyeddanesh/startupcapmodel/internal/model"
	"github.com/seyeddanesh/startupcapmodel/pkg/currency"
)

// Timeline owns event ordering and the mutation entry points a host UI
// calls. Every mutation re-runs the full recalculation pipeline and returns
// the new event list.
type Timeline struct {
	engine *Engine
	model  *model.Model
	rates  currency.RateTable
}

// NewTimeline wraps a model with sequencing operations.
func NewTimeline(engine *Engine, m *model.Model, rates currency.RateTable) *Timeline {
	if engine == nil {
		engine = New(nil)
	}
	return &Timeline{engine: engine, model: m, rates: rates}
}

// Events returns the current annotated event list.
func (t *Timeline) Events() []model.Event {
	return t.model.Events
}

// Model returns the underlying model.
func (t *Timeline) Model() *model.Model {
	return t.model
}

// Recalculate re-runs the full pipeline over the model's events.
func (t *Timeline) Recalculate() []model.Event {
	t.model.Events = model.EventList(t.engine.Recalculate(t.model.Events, t.model.FounderName, t.rates))
	return t.model.Events
}

// InsertFundingRound adds a manual USD pre-money round. A non-nil afterOrder
// places it immediately after that order value, shifting later events up.
func (t *Timeline) InsertFundingRound(afterOrder *int) []model.Event {
	count := 0
	for _, event := range t.model.Events {
		if event.Kind() == model.KindFundingRound {
			count++
		}
	}

	round := &model.FundingRound{
		EventBase: model.EventBase{
			ID:   uuid.NewString(),
			Name: fmt.Sprintf("Round %d", count+1),
		},
		Currency:        currency.USD,
		ValuationType:   model.ValuationPreMoney,
		ValuationSource: model.SourceManual,
		NewInvestorName: "New Investor",
	}
	t.insert(round, afterOrder)
	return t.Recalculate()
}

// InsertOptionPool adds an option pool event. A non-nil afterOrder places it
// immediately after that order value, shifting later events up.
func (t *Timeline) InsertOptionPool(afterOrder *int) []model.Event {
	count := 0
	for _, event := range t.model.Events {
		if event.Kind() == model.KindOptionPool {
			count++
		}
	}

	pool := &model.OptionPool{
		EventBase: model.EventBase{
			ID:   uuid.NewString(),
			Name: fmt.Sprintf("Option Pool %d", count+1),
		},
	}
	t.insert(pool, afterOrder)
	return t.Recalculate()
}

func (t *Timeline) insert(event model.Event, afterOrder *int) {
	if afterOrder == nil {
		event.Base().Order = model.MaxOrder(t.model.Events) + 1
	} else {
		for _, existing := range t.model.Events {
			if existing.Base().Order > *afterOrder {
				existing.Base().Order++
			}
		}
		event.Base().Order = *afterOrder + 1
	}
	t.model.Events = append(t.model.Events, event)
}

// UpdateField replaces a single editable field on the event with the given
// id and re-runs the pipeline.
func (t *Timeline) UpdateField(eventID, field string, value interface{}) ([]model.Event, error) {
	event := model.FindEvent(t.model.Events, eventID)
	if event == nil {
		return nil, fmt.Errorf("no event with id %s", eventID)
	}

	if err := setField(event, field, value); err != nil {
		return nil, err
	}
	return t.Recalculate(), nil
}

// RemoveEvent deletes the event with the given id, clears any reference that
// pointed at it (forcing those rounds back to manual valuation), and re-runs
// the pipeline.
func (t *Timeline) RemoveEvent(eventID string) ([]model.Event, error) {
	index := -1
	for i, event := range t.model.Events {
		if event.Base().ID == eventID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("no event with id %s", eventID)
	}

	t.model.Events = append(t.model.Events[:index], t.model.Events[index+1:]...)

	for _, event := range t.model.Events {
		round, ok := event.(*model.FundingRound)
		if !ok {
			continue
		}
		if round.ReferenceRoundID == eventID {
			round.ReferenceRoundID = ""
			round.ValuationSource = model.SourceManual
		}
	}

	return t.Recalculate(), nil
}

// ReferenceTargets lists the funding rounds the given round may reference:
// later rounds that already carry a positive post-money valuation. Keeping
// references forward-only makes cycles impossible by construction.
func (t *Timeline) ReferenceTargets(roundID string) []*model.FundingRound {
	source := model.FindRound(t.model.Events, roundID)
	if source == nil {
		return nil
	}

	var targets []*model.FundingRound
	for _, event := range model.SortByOrder(t.model.Events) {
		round, ok := event.(*model.FundingRound)
		if !ok || round.ID == roundID {
			continue
		}
		if round.Order > source.Order && round.PostMoneyValuation > 0 {
			targets = append(targets, round)
		}
	}
	return targets
}

func setField(event model.Event, field string, value interface{}) error {
	base := event.Base()
	switch field {
	case "name":
		base.Name = coerceString(value)
		return nil
	}

	switch ev := event.(type) {
	case *model.FundingRound:
		switch field {
		case "currency":
			ev.Currency = currency.Code(strings.ToUpper(coerceString(value)))
		case "investmentAmount":
			ev.InvestmentAmount = coerceFloat(value)
		case "valuationType":
			ev.ValuationType = model.ValuationType(coerceString(value))
		case "valuationSource":
			ev.ValuationSource = model.ValuationSource(coerceString(value))
		case "manualValuation":
			ev.ManualValuation = coerceFloat(value)
		case "referenceRoundId":
			ev.ReferenceRoundID = coerceString(value)
		case "discountPercentage":
			ev.DiscountPercentage = coerceFloat(value)
		case "newInvestorName":
			ev.NewInvestorName = coerceString(value)
		default:
			return fmt.Errorf("unknown funding round field %q", field)
		}
	case *model.OptionPool:
		switch field {
		case "percentage":
			ev.Percentage = coerceFloat(value)
		default:
			return fmt.Errorf("unknown option pool field %q", field)
		}
	}
	return nil
}

func coerceString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}

func coerceFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return parsed
		}
	case json.Number:
		if parsed, err := v.Float64(); err == nil {
			return parsed
		}
	}
	return 0
}
