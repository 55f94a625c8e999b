package engine

import (
	"go.uber.org/zap"

	"github.com/seyeddanesh/startupcapmodel/internal/model"
	"github.com/seyeddanesh/startupcapmodel/pkg/constants"
	"github.com/seyeddanesh/startupcapmodel/pkg/currency"
	"github.com/seyeddanesh/startupcapmodel/pkg/mathutil"
)

// resolveValuations computes the calculated, pre-money, and post-money
// valuation for every funding round. Manual rounds seed immediately;
// reference rounds are resolved by a bounded fixed-point iteration so a
// chain of references settles without an explicit dependency graph. Rounds
// whose reference never resolves stay at zero valuation.
func (e *Engine) resolveValuations(events []model.Event, rates currency.RateTable) {
	rounds := make([]*model.FundingRound, 0, len(events))
	for _, event := range events {
		if round, ok := event.(*model.FundingRound); ok {
			rounds = append(rounds, round)
		}
	}

	// Seed phase: manual rounds resolve from their entered valuation,
	// reference rounds reset to the unresolved sentinel.
	for _, round := range rounds {
		round.CalculatedValuation = 0
		round.PreMoneyValuation = 0
		round.PostMoneyValuation = 0
		if round.ValuationSource != model.SourceReference {
			deriveMoneyValues(round, round.ManualValuation)
		}
	}

	// Propagation phase: repeatedly resolve reference rounds whose target
	// has settled, until a pass makes no progress or everything resolved.
	for pass := 0; pass < constants.MaxResolutionPasses; pass++ {
		progress := false
		unresolved := 0

		for _, round := range rounds {
			if round.ValuationSource != model.SourceReference || roundResolved(round) {
				continue
			}

			target := model.FindRound(events, round.ReferenceRoundID)
			if target == nil || target == round || !roundResolved(target) {
				unresolved++
				continue
			}

			referenceValuation := target.PostMoneyValuation
			if round.ValuationType == model.ValuationPreMoney {
				referenceValuation = target.PreMoneyValuation
			}

			converted := currency.Convert(referenceValuation, target.Currency, round.Currency, rates)
			discounted := mathutil.ApplyPercentage(converted,
				constants.PercentageMultiplier-round.DiscountPercentage)
			if discounted <= 0 {
				// Transiently zero or fully discounted away; retry next pass.
				unresolved++
				continue
			}

			deriveMoneyValues(round, discounted)
			progress = true
		}

		if !progress || unresolved == 0 {
			break
		}
	}

	for _, round := range rounds {
		if round.ValuationSource == model.SourceReference && !roundResolved(round) {
			e.logger.Debug("funding round valuation unresolved",
				zap.String("op", "engine.resolveValuations"),
				zap.String("roundId", round.ID),
				zap.String("referenceRoundId", round.ReferenceRoundID),
			)
		}
	}
}

// deriveMoneyValues fills the pre/post-money pair from a settled valuation,
// interpreted per the round's valuation type.
func deriveMoneyValues(round *model.FundingRound, valuation float64) {
	round.CalculatedValuation = valuation
	if round.ValuationType == model.ValuationPostMoney {
		round.PostMoneyValuation = valuation
		round.PreMoneyValuation = mathutil.Max(0, valuation-round.InvestmentAmount)
		return
	}
	round.PreMoneyValuation = valuation
	round.PostMoneyValuation = valuation + round.InvestmentAmount
}

func roundResolved(round *model.FundingRound) bool {
	return round.PreMoneyValuation > 0 || round.PostMoneyValuation > 0
}
