package engine

import (
	"testing"

	"github.com/seyeddanesh/startupcapmodel/internal/model"
	"github.com/seyeddanesh/startupcapmodel/pkg/currency"
)

func newTestTimeline(events ...model.Event) *Timeline {
	m := &model.Model{FounderName: "F", Events: model.EventList(events)}
	return NewTimeline(New(nil), m, currency.DeriveTable(0.8, 0.9))
}

func orders(events []model.Event) map[string]int {
	result := make(map[string]int, len(events))
	for _, event := range events {
		result[event.Base().ID] = event.Base().Order
	}
	return result
}

func TestInsertAppendsAtEnd(t *testing.T) {
	timeline := newTestTimeline()

	events := timeline.InsertFundingRound(nil)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Base().Order != 1 {
		t.Errorf("first inserted event order = %d, want 1", events[0].Base().Order)
	}
	if events[0].Base().ID == "" {
		t.Error("inserted event has no id")
	}

	events = timeline.InsertOptionPool(nil)
	if events[1].Base().Order != 2 {
		t.Errorf("second inserted event order = %d, want 2", events[1].Base().Order)
	}
}

func TestInsertAfterShiftsLaterEvents(t *testing.T) {
	first := manualRound("a", 1, 1_000_000, 4_000_000, model.ValuationPreMoney)
	second := manualRound("b", 2, 1_000_000, 4_000_000, model.ValuationPreMoney)
	third := manualRound("c", 5, 1_000_000, 4_000_000, model.ValuationPreMoney)

	timeline := newTestTimeline(first, second, third)

	after := 1
	events := timeline.InsertFundingRound(&after)

	got := orders(events)
	if got["a"] != 1 {
		t.Errorf("event a order = %d, want 1", got["a"])
	}
	if got["b"] != 3 {
		t.Errorf("event b order = %d, want 3", got["b"])
	}
	if got["c"] != 6 {
		t.Errorf("event c order = %d, want 6", got["c"])
	}

	inserted := events[len(events)-1]
	if inserted.Base().Order != 2 {
		t.Errorf("inserted event order = %d, want 2", inserted.Base().Order)
	}
}

func TestInsertedEventsGetDistinctIDs(t *testing.T) {
	timeline := newTestTimeline()

	timeline.InsertFundingRound(nil)
	timeline.InsertFundingRound(nil)

	events := timeline.Events()
	if events[0].Base().ID == events[1].Base().ID {
		t.Errorf("inserted events share id %s", events[0].Base().ID)
	}
}

func TestUpdateFieldRecalculates(t *testing.T) {
	round := manualRound("a", 1, 2_000_000, 8_000_000, model.ValuationPreMoney)
	timeline := newTestTimeline(round)
	timeline.Recalculate()

	events, err := timeline.UpdateField("a", "manualValuation", 18_000_000)
	if err != nil {
		t.Fatalf("UpdateField() error = %v", err)
	}

	updated := events[0].(*model.FundingRound)
	if updated.PostMoneyValuation != 20_000_000 {
		t.Errorf("PostMoneyValuation = %.0f, want 20000000", updated.PostMoneyValuation)
	}
	// Investor now takes 10%, not 20%.
	investor := updated.CapTable[len(updated.CapTable)-1]
	if investor.Percentage != 10 {
		t.Errorf("investor percentage = %.2f, want 10", investor.Percentage)
	}
}

func TestUpdateFieldErrors(t *testing.T) {
	round := manualRound("a", 1, 2_000_000, 8_000_000, model.ValuationPreMoney)
	pool := &model.OptionPool{EventBase: model.EventBase{ID: "p", Name: "Pool", Order: 2}}
	timeline := newTestTimeline(round, pool)

	tests := []struct {
		name    string
		eventID string
		field   string
	}{
		{name: "unknown event", eventID: "missing", field: "name"},
		{name: "unknown round field", eventID: "a", field: "sharePrice"},
		{name: "round field on a pool", eventID: "p", field: "investmentAmount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := timeline.UpdateField(tt.eventID, tt.field, 1); err == nil {
				t.Error("UpdateField() expected error but got none")
			}
		})
	}
}

func TestUpdateFieldCoercesStrings(t *testing.T) {
	round := manualRound("a", 1, 0, 0, model.ValuationPreMoney)
	timeline := newTestTimeline(round)

	if _, err := timeline.UpdateField("a", "investmentAmount", "2500000"); err != nil {
		t.Fatalf("UpdateField() error = %v", err)
	}
	if _, err := timeline.UpdateField("a", "currency", "gbp"); err != nil {
		t.Fatalf("UpdateField() error = %v", err)
	}

	updated := timeline.Events()[0].(*model.FundingRound)
	if updated.InvestmentAmount != 2_500_000 {
		t.Errorf("InvestmentAmount = %.0f, want 2500000", updated.InvestmentAmount)
	}
	if updated.Currency != currency.GBP {
		t.Errorf("Currency = %s, want GBP", updated.Currency)
	}
}

func TestRemoveEventClearsReferences(t *testing.T) {
	seed := manualRound("seed", 1, 500_000, 0, model.ValuationPreMoney)
	seed.ValuationSource = model.SourceReference
	seed.ReferenceRoundID = "series-a"

	seriesA := manualRound("series-a", 2, 2_000_000, 8_000_000, model.ValuationPreMoney)

	timeline := newTestTimeline(seed, seriesA)
	timeline.Recalculate()

	events, err := timeline.RemoveEvent("series-a")
	if err != nil {
		t.Fatalf("RemoveEvent() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 remaining event, got %d", len(events))
	}

	remaining := events[0].(*model.FundingRound)
	if remaining.ReferenceRoundID != "" {
		t.Errorf("ReferenceRoundID = %q, want empty", remaining.ReferenceRoundID)
	}
	if remaining.ValuationSource != model.SourceManual {
		t.Errorf("ValuationSource = %q, want manual", remaining.ValuationSource)
	}
	// The now-manual round has manualValuation 0, so its valuation is 0.
	if remaining.CalculatedValuation != 0 {
		t.Errorf("CalculatedValuation = %.0f, want 0", remaining.CalculatedValuation)
	}
}

func TestRemoveEventUnknownID(t *testing.T) {
	timeline := newTestTimeline()
	if _, err := timeline.RemoveEvent("missing"); err == nil {
		t.Error("RemoveEvent() expected error but got none")
	}
}

func TestReferenceTargets(t *testing.T) {
	seed := manualRound("seed", 1, 500_000, 4_000_000, model.ValuationPreMoney)
	unresolved := manualRound("unresolved", 2, 0, 0, model.ValuationPreMoney)
	seriesA := manualRound("series-a", 3, 2_000_000, 8_000_000, model.ValuationPreMoney)
	seriesB := manualRound("series-b", 4, 3_000_000, 20_000_000, model.ValuationPreMoney)

	timeline := newTestTimeline(seed, unresolved, seriesA, seriesB)
	timeline.Recalculate()

	targets := timeline.ReferenceTargets("seed")

	ids := make([]string, len(targets))
	for i, target := range targets {
		ids[i] = target.ID
	}

	expected := []string{"series-a", "series-b"}
	if len(ids) != len(expected) {
		t.Fatalf("ReferenceTargets() = %v, want %v", ids, expected)
	}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Errorf("target %d = %s, want %s", i, ids[i], expected[i])
		}
	}

	// A later round cannot reference an earlier one.
	if targets := timeline.ReferenceTargets("series-b"); len(targets) != 0 {
		t.Errorf("ReferenceTargets(series-b) = %d targets, want 0", len(targets))
	}
}
