// Package model defines the cap-table data structures shared by the engine,
// configuration loading, and the HTTP host.
package model

import (
	"sort"

	"github.com/seyeddanesh/startupcapmodel/pkg/constants"
	"github.com/seyeddanesh/startupcapmodel/pkg/currency"
)

// Kind discriminates the two event variants.
type Kind string

const (
	KindFundingRound Kind = "fundingRound"
	KindOptionPool   Kind = "optionPool"
)

// ValuationType selects which side of a round's valuation a number refers to.
type ValuationType string

const (
	ValuationPreMoney  ValuationType = "pre-money"
	ValuationPostMoney ValuationType = "post-money"
)

// IsValid reports whether v is a known valuation type.
func (v ValuationType) IsValid() bool {
	return v == ValuationPreMoney || v == ValuationPostMoney
}

// ValuationSource selects how a round's valuation is obtained.
type ValuationSource string

const (
	SourceManual    ValuationSource = "manual"
	SourceReference ValuationSource = "reference"
)

// IsValid reports whether s is a known valuation source.
func (s ValuationSource) IsValid() bool {
	return s == SourceManual || s == SourceReference
}

// Shareholder is one cap-table entry. Entries are rebuilt from scratch on
// every recalculation and never mutated in place.
type Shareholder struct {
	Name       string  `yaml:"name" json:"name"`
	Shares     int64   `yaml:"shares" json:"shares"`
	Percentage float64 `yaml:"percentage" json:"percentage"`
}

// EventBase carries the fields shared by both event variants.
type EventBase struct {
	ID       string        `yaml:"id" json:"id"`
	Name     string        `yaml:"name" json:"name"`
	Order    int           `yaml:"order" json:"order"`
	CapTable []Shareholder `yaml:"capTable,omitempty" json:"capTable,omitempty"`
}

// Event is the tagged union over funding rounds and option pools. Engine
// code type-switches on the two concrete variants.
type Event interface {
	Base() *EventBase
	Kind() Kind
	Clone() Event
}

// FundingRound is a capital raise. The Calculated/PreMoney/PostMoney fields
// are derived by the valuation resolver.
type FundingRound struct {
	EventBase          `yaml:",inline"`
	Currency           currency.Code   `yaml:"currency" json:"currency"`
	InvestmentAmount   float64         `yaml:"investmentAmount" json:"investmentAmount"`
	ValuationType      ValuationType   `yaml:"valuationType" json:"valuationType"`
	ValuationSource    ValuationSource `yaml:"valuationSource" json:"valuationSource"`
	ManualValuation    float64         `yaml:"manualValuation" json:"manualValuation"`
	ReferenceRoundID   string          `yaml:"referenceRoundId" json:"referenceRoundId"`
	DiscountPercentage float64         `yaml:"discountPercentage" json:"discountPercentage"`
	NewInvestorName    string          `yaml:"newInvestorName" json:"newInvestorName"`

	CalculatedValuation float64 `yaml:"calculatedValuation,omitempty" json:"calculatedValuation"`
	PreMoneyValuation   float64 `yaml:"preMoneyValuation,omitempty" json:"preMoneyValuation"`
	PostMoneyValuation  float64 `yaml:"postMoneyValuation,omitempty" json:"postMoneyValuation"`
}

// Base returns the shared event fields.
func (r *FundingRound) Base() *EventBase { return &r.EventBase }

// Kind returns KindFundingRound.
func (r *FundingRound) Kind() Kind { return KindFundingRound }

// Clone returns a deep copy of the round.
func (r *FundingRound) Clone() Event {
	c := *r
	c.CapTable = append([]Shareholder(nil), r.CapTable...)
	return &c
}

// OptionPool carves out a block of ownership with no associated investment.
type OptionPool struct {
	EventBase  `yaml:",inline"`
	Percentage float64 `yaml:"percentage" json:"percentage"`
}

// Base returns the shared event fields.
func (p *OptionPool) Base() *EventBase { return &p.EventBase }

// Kind returns KindOptionPool.
func (p *OptionPool) Kind() Kind { return KindOptionPool }

// Clone returns a deep copy of the pool.
func (p *OptionPool) Clone() Event {
	c := *p
	c.CapTable = append([]Shareholder(nil), p.CapTable...)
	return &c
}

// Model is a founder plus the ordered list of capital events.
type Model struct {
	FounderName string    `yaml:"founderName" json:"founderName"`
	Events      EventList `yaml:"events" json:"events"`
}

// FounderBaseline is the implicit zeroth cap table: the founder holding
// everything at the nominal share baseline.
func FounderBaseline(founderName string) []Shareholder {
	return []Shareholder{{
		Name:       founderName,
		Shares:     constants.NominalShareBaseline,
		Percentage: constants.PercentageMultiplier,
	}}
}

// CloneEvents deep-copies an event list.
func CloneEvents(events []Event) []Event {
	cloned := make([]Event, len(events))
	for i, event := range events {
		cloned[i] = event.Clone()
	}
	return cloned
}

// SortByOrder returns the events sorted ascending by order without mutating
// the input slice.
func SortByOrder(events []Event) []Event {
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Base().Order < sorted[j].Base().Order
	})
	return sorted
}

// FindEvent returns the event with the given id, or nil.
func FindEvent(events []Event, id string) Event {
	for _, event := range events {
		if event.Base().ID == id {
			return event
		}
	}
	return nil
}

// FindRound returns the funding round with the given id, or nil if the id is
// unknown or names an option pool.
func FindRound(events []Event, id string) *FundingRound {
	if round, ok := FindEvent(events, id).(*FundingRound); ok {
		return round
	}
	return nil
}

// MaxOrder returns the highest order value present, or 0 for an empty list.
func MaxOrder(events []Event) int {
	max := 0
	for _, event := range events {
		if event.Base().Order > max {
			max = event.Base().Order
		}
	}
	return max
}
