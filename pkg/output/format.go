// Package output provides utilities for formatting and displaying the
// recalculated event chain and its cap tables.
package output

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/seyeddanesh/startupcapmodel/internal/model"
	"github.com/seyeddanesh/startupcapmodel/pkg/format"
)

// PrettyFormat outputs a human-readable rather than machine-readable view of
// every event's resulting cap table.
func PrettyFormat(events []model.Event, founderName string) {
	p := message.NewPrinter(language.English)

	fmt.Printf("--- Initial cap table ---\n")
	printCapTable(p, model.FounderBaseline(founderName))

	for _, event := range model.SortByOrder(events) {
		base := event.Base()
		switch ev := event.(type) {
		case *model.FundingRound:
			fmt.Printf("\n--- %s (%s) ---\n", base.Name, ev.Currency)
			fmt.Printf("Investment: %s | Pre-money: %s | Post-money: %s\n",
				format.Currency(ev.InvestmentAmount, ev.Currency),
				format.Currency(ev.PreMoneyValuation, ev.Currency),
				format.Currency(ev.PostMoneyValuation, ev.Currency),
			)
		case *model.OptionPool:
			fmt.Printf("\n--- %s (option pool, %s) ---\n", base.Name, format.Percentage(ev.Percentage))
		}
		printCapTable(p, base.CapTable)
	}
}

func printCapTable(p *message.Printer, capTable []model.Shareholder) {
	fmt.Printf("Shareholder          | Shares    | Ownership\n")
	fmt.Printf("___________          | ______    | _________\n")
	for _, holder := range capTable {
		_, _ = p.Printf("%-20s | %9d | %s\n", holder.Name, holder.Shares, format.Percentage(holder.Percentage))
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(events []model.Event, founderName string) {
	fmt.Print(CsvString(events, founderName))
}

// CsvString renders the per-event cap tables as CSV, one row per
// (event, shareholder) pair.
func CsvString(events []model.Event, founderName string) string {
	var builder strings.Builder
	builder.WriteString(`"event","type","shareholder","shares","percentage"` + "\n")

	writeRows := func(eventName, eventType string, capTable []model.Shareholder) {
		for _, holder := range capTable {
			builder.WriteString(fmt.Sprintf(`"%s","%s","%s","%d","%.2f"`+"\n",
				eventName, eventType, holder.Name, holder.Shares, holder.Percentage))
		}
	}

	writeRows("initial", "baseline", model.FounderBaseline(founderName))
	for _, event := range model.SortByOrder(events) {
		base := event.Base()
		writeRows(base.Name, string(event.Kind()), base.CapTable)
	}
	return builder.String()
}
