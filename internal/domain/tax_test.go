package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAnnualTaxBracketBoundaries(t *testing.T) {
	t.Parallel()

	schedule := DefaultTaxSchedule()

	tests := []struct {
		name   string
		annual string
		want   string
	}{
		{"zero income", "0", "0.00"},
		{"at threshold", "20000", "0.00"},
		{"one cent over threshold", "20000.01", "0.00"},
		{"top of first bracket", "32500", "3750.00"},
		{"top of second bracket", "40000", "6375.00"},
		{"inside third bracket", "52000", "11175.00"},
		{"top of third bracket", "53000", "11575.00"},
		{"inside top bracket", "60000", "14515.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.AnnualTax(decimal.RequireFromString(tt.annual))
			if got.StringFixed(2) != tt.want {
				t.Fatalf("AnnualTax(%s) = %s, want %s", tt.annual, got.StringFixed(2), tt.want)
			}
		})
	}
}

func TestAnnualTaxIsMonotonic(t *testing.T) {
	t.Parallel()

	schedule := DefaultTaxSchedule()
	prev := decimal.Zero

	for income := int64(0); income <= 120000; income += 250 {
		tax := schedule.AnnualTax(decimal.NewFromInt(income))
		if tax.LessThan(prev) {
			t.Fatalf("tax decreased at %d: %s < %s", income, tax, prev)
		}
		prev = tax
	}
}

func TestNewTaxScheduleComputesCumulative(t *testing.T) {
	t.Parallel()

	schedule := DefaultTaxSchedule()
	want := []string{"0", "3750", "6375", "11575"}

	if len(schedule.Brackets) != len(want) {
		t.Fatalf("expected %d brackets, got %d", len(want), len(schedule.Brackets))
	}

	for i, w := range want {
		if !schedule.Brackets[i].Cumulative.Equal(decimal.RequireFromString(w)) {
			t.Errorf("bracket %d cumulative = %s, want %s", i, schedule.Brackets[i].Cumulative, w)
		}
	}

	if !schedule.Brackets[3].Unbounded() {
		t.Error("expected top bracket to be unbounded")
	}
}

func TestNewTaxScheduleRejectsMalformedTables(t *testing.T) {
	t.Parallel()

	rate := decimal.RequireFromString("0.30")
	super := decimal.RequireFromString("0.06")

	tests := []struct {
		name  string
		tiers []TaxTier
		super decimal.Decimal
	}{
		{"no brackets", nil, super},
		{"top bracket bounded", []TaxTier{{Limit: Limit(1000), Rate: rate}}, super},
		{"unbounded not last", []TaxTier{{Limit: Unlimited(), Rate: rate}, {Limit: Limit(1000), Rate: rate}}, super},
		{"limits not increasing", []TaxTier{{Limit: Limit(1000), Rate: rate}, {Limit: Limit(1000), Rate: rate}, {Limit: Unlimited(), Rate: rate}}, super},
		{"rate above one", []TaxTier{{Limit: Unlimited(), Rate: decimal.RequireFromString("1.5")}}, super},
		{"negative super", []TaxTier{{Limit: Unlimited(), Rate: rate}}, decimal.RequireFromString("-0.01")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTaxSchedule("bad", decimal.NewFromInt(20000), tt.tiers, tt.super, super)
			if !errors.Is(err, ErrInvalidTaxSchedule) {
				t.Fatalf("expected ErrInvalidTaxSchedule, got %v", err)
			}
		})
	}
}
