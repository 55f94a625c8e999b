package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/seyeddanesh/startupcapmodel/pkg/currency"
)

// EventList is an event slice with tag-dispatched JSON and YAML codecs.
// Events are encoded flat with an explicit "type" discriminator so hosts can
// persist and round-trip heterogeneous lists.
type EventList []Event

// wireEvent is the flat union of both variants used on the wire.
type wireEvent struct {
	Type     Kind          `yaml:"type" json:"type"`
	ID       string        `yaml:"id" json:"id"`
	Name     string        `yaml:"name" json:"name"`
	Order    int           `yaml:"order" json:"order"`
	CapTable []Shareholder `yaml:"capTable,omitempty" json:"capTable,omitempty"`

	Currency           currency.Code   `yaml:"currency,omitempty" json:"currency,omitempty"`
	InvestmentAmount   float64         `yaml:"investmentAmount,omitempty" json:"investmentAmount,omitempty"`
	ValuationType      ValuationType   `yaml:"valuationType,omitempty" json:"valuationType,omitempty"`
	ValuationSource    ValuationSource `yaml:"valuationSource,omitempty" json:"valuationSource,omitempty"`
	ManualValuation    float64         `yaml:"manualValuation,omitempty" json:"manualValuation,omitempty"`
	ReferenceRoundID   string          `yaml:"referenceRoundId,omitempty" json:"referenceRoundId,omitempty"`
	DiscountPercentage float64         `yaml:"discountPercentage,omitempty" json:"discountPercentage,omitempty"`
	NewInvestorName    string          `yaml:"newInvestorName,omitempty" json:"newInvestorName,omitempty"`

	CalculatedValuation float64 `yaml:"calculatedValuation,omitempty" json:"calculatedValuation,omitempty"`
	PreMoneyValuation   float64 `yaml:"preMoneyValuation,omitempty" json:"preMoneyValuation,omitempty"`
	PostMoneyValuation  float64 `yaml:"postMoneyValuation,omitempty" json:"postMoneyValuation,omitempty"`

	Percentage float64 `yaml:"percentage,omitempty" json:"percentage,omitempty"`
}

func toWire(event Event) wireEvent {
	base := event.Base()
	wire := wireEvent{
		Type:     event.Kind(),
		ID:       base.ID,
		Name:     base.Name,
		Order:    base.Order,
		CapTable: base.CapTable,
	}
	switch e := event.(type) {
	case *FundingRound:
		wire.Currency = e.Currency
		wire.InvestmentAmount = e.InvestmentAmount
		wire.ValuationType = e.ValuationType
		wire.ValuationSource = e.ValuationSource
		wire.ManualValuation = e.ManualValuation
		wire.ReferenceRoundID = e.ReferenceRoundID
		wire.DiscountPercentage = e.DiscountPercentage
		wire.NewInvestorName = e.NewInvestorName
		wire.CalculatedValuation = e.CalculatedValuation
		wire.PreMoneyValuation = e.PreMoneyValuation
		wire.PostMoneyValuation = e.PostMoneyValuation
	case *OptionPool:
		wire.Percentage = e.Percentage
	}
	return wire
}

func fromWire(wire wireEvent) (Event, error) {
	base := EventBase{
		ID:       wire.ID,
		Name:     wire.Name,
		Order:    wire.Order,
		CapTable: wire.CapTable,
	}
	switch wire.Type {
	case KindFundingRound:
		return &FundingRound{
			EventBase:           base,
			Currency:            wire.Currency,
			InvestmentAmount:    wire.InvestmentAmount,
			ValuationType:       wire.ValuationType,
			ValuationSource:     wire.ValuationSource,
			ManualValuation:     wire.ManualValuation,
			ReferenceRoundID:    wire.ReferenceRoundID,
			DiscountPercentage:  wire.DiscountPercentage,
			NewInvestorName:     wire.NewInvestorName,
			CalculatedValuation: wire.CalculatedValuation,
			PreMoneyValuation:   wire.PreMoneyValuation,
			PostMoneyValuation:  wire.PostMoneyValuation,
		}, nil
	case KindOptionPool:
		return &OptionPool{
			EventBase:  base,
			Percentage: wire.Percentage,
		}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", wire.Type)
	}
}

// MarshalJSON encodes the list as flat tagged objects.
func (l EventList) MarshalJSON() ([]byte, error) {
	wires := make([]wireEvent, len(l))
	for i, event := range l {
		wires[i] = toWire(event)
	}
	return json.Marshal(wires)
}

// UnmarshalJSON decodes flat tagged objects back into concrete variants.
func (l *EventList) UnmarshalJSON(data []byte) error {
	var wires []wireEvent
	if err := json.Unmarshal(data, &wires); err != nil {
		return err
	}
	events := make(EventList, 0, len(wires))
	for _, wire := range wires {
		event, err := fromWire(wire)
		if err != nil {
			return err
		}
		events = append(events, event)
	}
	*l = events
	return nil
}

// MarshalYAML encodes the list as flat tagged mappings.
func (l EventList) MarshalYAML() (interface{}, error) {
	wires := make([]wireEvent, len(l))
	for i, event := range l {
		wires[i] = toWire(event)
	}
	return wires, nil
}

// UnmarshalYAML decodes flat tagged mappings back into concrete variants.
func (l *EventList) UnmarshalYAML(value *yaml.Node) error {
	var wires []wireEvent
	if err := value.Decode(&wires); err != nil {
		return err
	}
	events := make(EventList, 0, len(wires))
	for _, wire := range wires {
		event, err := fromWire(wire)
		if err != nil {
			return err
		}
		events = append(events, event)
	}
	*l = events
	return nil
}

// StripCapTables clears every event's derived cap table in place. Hosts call
// this before persisting; tables are always rederived on load.
func StripCapTables(events []Event) {
	for _, event := range events {
		event.Base().CapTable = nil
	}
}

// ReconstructLegacyOrder assigns order keys to events loaded from the legacy
// two-list format, which carried no explicit ordering: rounds occupy the odd
// slots (2i+1) and option pools the even slots (2i+2), alternating by index.
func ReconstructLegacyOrder(rounds, pools []Event) []Event {
	events := make([]Event, 0, len(rounds)+len(pools))
	for i, round := range rounds {
		round.Base().Order = 2*i + 1
		events = append(events, round)
	}
	for i, pool := range pools {
		pool.Base().Order = 2*i + 2
		events = append(events, pool)
	}
	return SortByOrder(events)
}
