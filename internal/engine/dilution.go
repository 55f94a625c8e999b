package engine

import (
	"go.uber.org/zap"

	"github.com/seyeddanesh/startupcapmodel/internal/model"
	"github.com/seyeddanesh/startupcapmodel/pkg/constants"
	"github.com/seyeddanesh/startupcapmodel/pkg/mathutil"
)

// applyDilution walks the events in ascending order and threads the cap
// table forward from the founder baseline, annotating every event with the
// table that holds after it. Cached tables on the input are ignored; the
// chain is always rebuilt from scratch.
func (e *Engine) applyDilution(events []model.Event, founderName string) {
	current := model.FounderBaseline(founderName)

	for _, event := range model.SortByOrder(events) {
		switch ev := event.(type) {
		case *model.FundingRound:
			current = e.applyFundingRound(current, ev)
		case *model.OptionPool:
			current = e.applyOptionPool(current, ev)
		}
	}
}

// applyFundingRound issues ownership to the round's investor and dilutes the
// existing holders. Rounds without a usable valuation or investment, or
// whose investor stake would be degenerate, pass the previous table through
// unchanged.
func (e *Engine) applyFundingRound(current []model.Shareholder, round *model.FundingRound) []model.Shareholder {
	if round.PostMoneyValuation <= 0 || round.InvestmentAmount <= 0 {
		round.CapTable = passthrough(current)
		return round.CapTable
	}

	investorPct := mathutil.CalculatePercentage(round.InvestmentAmount, round.PostMoneyValuation)
	if investorPct <= 0 || investorPct >= constants.PercentageMultiplier {
		e.logger.Debug("skipping funding round with degenerate investor stake",
			zap.String("op", "engine.applyFundingRound"),
			zap.String("roundId", round.ID),
			zap.Float64("investorPercentage", investorPct),
		)
		round.CapTable = passthrough(current)
		return round.CapTable
	}

	round.CapTable = dilute(current, investorPct, round.NewInvestorName)
	return round.CapTable
}

// applyOptionPool carves the pool's target percentage out of the existing
// holders. Degenerate percentages pass the previous table through unchanged.
func (e *Engine) applyOptionPool(current []model.Shareholder, pool *model.OptionPool) []model.Shareholder {
	if pool.Percentage <= 0 || pool.Percentage >= constants.PercentageMultiplier {
		e.logger.Debug("skipping option pool with degenerate percentage",
			zap.String("op", "engine.applyOptionPool"),
			zap.String("poolId", pool.ID),
			zap.Float64("percentage", pool.Percentage),
		)
		pool.CapTable = passthrough(current)
		return pool.CapTable
	}

	pool.CapTable = dilute(current, pool.Percentage, pool.Name)
	return pool.CapTable
}

// dilute scales every existing holder down by the new stake and appends the
// new entry. Holders diluted to or below the materiality floor are dropped
// and do not reappear in later tables.
func dilute(current []model.Shareholder, newPct float64, newName string) []model.Shareholder {
	factor := (constants.PercentageMultiplier - newPct) / constants.PercentageMultiplier

	next := make([]model.Shareholder, 0, len(current)+1)
	for _, holder := range current {
		diluted := model.Shareholder{
			Name:       holder.Name,
			Shares:     mathutil.RoundShares(float64(holder.Shares) * factor),
			Percentage: holder.Percentage * factor,
		}
		if diluted.Percentage <= constants.MaterialityFloorPercent {
			continue
		}
		next = append(next, diluted)
	}

	next = append(next, model.Shareholder{
		Name:       newName,
		Shares:     mathutil.RoundShares(mathutil.ApplyPercentage(constants.NominalShareBaseline, newPct)),
		Percentage: newPct,
	})
	return next
}

func passthrough(current []model.Shareholder) []model.Shareholder {
	return append([]model.Shareholder(nil), current...)
}
