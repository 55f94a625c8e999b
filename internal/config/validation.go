package config

import (
	"fmt"

	"github.com/seyeddanesh/startupcapmodel/internal/model"
	"github.com/seyeddanesh/startupcapmodel/pkg/validation"
)

// ValidateConfiguration performs general validation of the model file and
// returns warnings. Warnings never block a recalculation; the engine
// degrades to zero valuations and pass-through cap tables on bad input, so
// these exist to tell the user why a figure came out zero.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.FounderName == "" {
		warnings = append(warnings, "founderName is empty; the baseline cap table will have an unnamed shareholder")
	}
	if c.ExchangeRates.USDToGBP <= 0 {
		warnings = append(warnings, "exchangeRates.usdToGbp is not positive; GBP conversions will fall back to rate 1")
	}
	if c.ExchangeRates.USDToEUR <= 0 {
		warnings = append(warnings, "exchangeRates.usdToEur is not positive; EUR conversions will fall back to rate 1")
	}
	if len(c.Events) > 0 && (len(c.Rounds) > 0 || len(c.OptionPools) > 0) {
		warnings = append(warnings, "both events and legacy rounds/optionPools lists present; the legacy lists are ignored")
	}

	events := c.Events
	if len(events) == 0 {
		for _, round := range c.Rounds {
			round.Type = string(model.KindFundingRound)
			events = append(events, round)
		}
		for _, pool := range c.OptionPools {
			pool.Type = string(model.KindOptionPool)
			events = append(events, pool)
		}
	}

	ordersSeen := make(map[int]string)
	roundOrders := make(map[string]int)
	for _, event := range events {
		if event.Type == string(model.KindFundingRound) {
			roundOrders[event.ID] = event.Order
		}
	}

	for _, event := range events {
		label := event.Name
		if label == "" {
			label = event.ID
		}

		if previous, taken := ordersSeen[event.Order]; taken && event.Order != 0 {
			warnings = append(warnings, fmt.Sprintf("event %q reuses order %d already held by %q", label, event.Order, previous))
		} else {
			ordersSeen[event.Order] = label
		}

		switch model.Kind(event.Type) {
		case model.KindFundingRound:
			warnings = append(warnings, c.validateRound(event, label, roundOrders)...)
		case model.KindOptionPool:
			if err := validation.ValidatePercentage(event.Percentage); err != nil {
				warnings = append(warnings, fmt.Sprintf("option pool %q: %v", label, err))
			}
		default:
			warnings = append(warnings, fmt.Sprintf("event %q has unknown type %q", label, event.Type))
		}
	}

	return warnings
}

func (c *Configuration) validateRound(event EventConfig, label string, roundOrders map[string]int) []string {
	var warnings []string

	if event.Currency != "" {
		if err := validation.ValidateCurrencyCode(event.Currency); err != nil {
			warnings = append(warnings, fmt.Sprintf("round %q: %v", label, err))
		}
	}
	if event.ValuationType != "" && !model.ValuationType(event.ValuationType).IsValid() {
		warnings = append(warnings, fmt.Sprintf("round %q: unknown valuation type %q", label, event.ValuationType))
	}
	if event.ValuationSource != "" && !model.ValuationSource(event.ValuationSource).IsValid() {
		warnings = append(warnings, fmt.Sprintf("round %q: unknown valuation source %q", label, event.ValuationSource))
	}
	if err := validation.ValidateNonNegative("investmentAmount", event.InvestmentAmount); err != nil {
		warnings = append(warnings, fmt.Sprintf("round %q: %v", label, err))
	}
	if err := validation.ValidatePercentage(event.DiscountPercentage); err != nil {
		warnings = append(warnings, fmt.Sprintf("round %q: discountPercentage: %v", label, err))
	}

	if model.ValuationSource(event.ValuationSource) == model.SourceReference {
		if event.ReferenceRoundID == "" {
			warnings = append(warnings, fmt.Sprintf("round %q uses a reference valuation but has no referenceRoundId", label))
		} else if targetOrder, ok := roundOrders[event.ReferenceRoundID]; !ok {
			warnings = append(warnings, fmt.Sprintf("round %q references unknown round %q; its valuation will stay 0", label, event.ReferenceRoundID))
		} else if targetOrder <= event.Order {
			warnings = append(warnings, fmt.Sprintf("round %q references round %q which does not come after it", label, event.ReferenceRoundID))
		}
	}

	return warnings
}
