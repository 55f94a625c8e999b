package currency

import (
	"math"
	"testing"
)

func TestDeriveTable(t *testing.T) {
	table := DeriveTable(0.8, 0.9)

	tests := []struct {
		pair Pair
		want float64
	}{
		{Pair{USD, GBP}, 0.8},
		{Pair{USD, EUR}, 0.9},
		{Pair{GBP, USD}, 1.25},
		{Pair{EUR, USD}, 1.1111},
		{Pair{GBP, EUR}, 1.125},
		{Pair{EUR, GBP}, 0.8889},
	}

	for _, tt := range tests {
		if got := table[tt.pair]; got != tt.want {
			t.Errorf("rate %s->%s = %v, want %v", tt.pair.From, tt.pair.To, got, tt.want)
		}
	}
}

func TestDeriveTableZeroPrimaries(t *testing.T) {
	table := DeriveTable(0, 0)

	for _, pair := range []Pair{{GBP, USD}, {EUR, USD}, {GBP, EUR}, {EUR, GBP}} {
		if got := table[pair]; got != 0 {
			t.Errorf("rate %s->%s = %v, want 0", pair.From, pair.To, got)
		}
	}
}

func TestConvert(t *testing.T) {
	table := DeriveTable(0.8, 0.9)

	tests := []struct {
		name   string
		amount float64
		from   Code
		to     Code
		table  RateTable
		want   float64
	}{
		{name: "identity", amount: 100, from: USD, to: USD, table: table, want: 100},
		{name: "primary rate", amount: 100, from: USD, to: GBP, table: table, want: 80},
		{name: "derived rate", amount: 100, from: GBP, to: USD, table: table, want: 125},
		{name: "missing table falls back to 1", amount: 100, from: USD, to: EUR, table: nil, want: 100},
		{name: "zero rate falls back to 1", amount: 100, from: GBP, to: USD, table: DeriveTable(0, 0.9), want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Convert(tt.amount, tt.from, tt.to, tt.table); got != tt.want {
				t.Errorf("Convert() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertRoundTrip(t *testing.T) {
	table := DeriveTable(0.79, 0.92)
	amount := 1_000_000.0

	// Derived rates carry 4-decimal rounding, so round trips land within a
	// small relative tolerance rather than exactly.
	for _, from := range Codes {
		for _, to := range Codes {
			there := Convert(amount, from, to, table)
			back := Convert(there, to, from, table)
			if math.Abs(back-amount)/amount > 0.001 {
				t.Errorf("round trip %s->%s->%s = %.2f, want ~%.2f", from, to, from, back, amount)
			}
		}
	}
}

func TestCodeIsValid(t *testing.T) {
	for _, code := range Codes {
		if !code.IsValid() {
			t.Errorf("%s should be valid", code)
		}
	}
	if Code("CHF").IsValid() {
		t.Error("CHF should not be valid")
	}
}

func TestCodeSymbol(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{USD, "$"},
		{GBP, "£"},
		{EUR, "€"},
	}
	for _, tt := range tests {
		if got := tt.code.Symbol(); got != tt.want {
			t.Errorf("Symbol(%s) = %s, want %s", tt.code, got, tt.want)
		}
	}
}
