package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxBracket is one marginal band applied to income above the tax-free
// threshold. Limit is the band's upper edge in taxable income; an invalid
// Limit marks the open-ended top band. Cumulative is the tax owed on all
// lower bands.
type TaxBracket struct {
	Limit      decimal.NullDecimal
	Rate       decimal.Decimal
	Cumulative decimal.Decimal
}

// Unbounded reports whether the bracket has no upper limit.
func (b TaxBracket) Unbounded() bool {
	return !b.Limit.Valid
}

// TaxTier is the input form of a bracket before cumulative tax is computed.
type TaxTier struct {
	Limit decimal.NullDecimal
	Rate  decimal.Decimal
}

// TaxSchedule is a versioned withholding table plus superannuation rates.
type TaxSchedule struct {
	Name              string
	TaxFreeThreshold  decimal.Decimal
	Brackets          []TaxBracket
	EmployeeSuperRate decimal.Decimal
	EmployerSuperRate decimal.Decimal
}

// NewTaxSchedule builds a schedule from ordered tiers, precomputing the
// cumulative tax at each bracket's lower edge.
func NewTaxSchedule(name string, threshold decimal.Decimal, tiers []TaxTier, employeeRate, employerRate decimal.Decimal) (*TaxSchedule, error) {
	brackets := make([]TaxBracket, len(tiers))
	cumulative := decimal.Zero
	prev := decimal.Zero

	for i, tier := range tiers {
		brackets[i] = TaxBracket{Limit: tier.Limit, Rate: tier.Rate, Cumulative: cumulative}
		if tier.Limit.Valid {
			cumulative = cumulative.Add(tier.Limit.Decimal.Sub(prev).Mul(tier.Rate))
			prev = tier.Limit.Decimal
		}
	}

	s := &TaxSchedule{
		Name:              name,
		TaxFreeThreshold:  threshold,
		Brackets:          brackets,
		EmployeeSuperRate: employeeRate,
		EmployerSuperRate: employerRate,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Limit is a convenience constructor for a bounded bracket edge.
func Limit(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

// Unlimited marks the open-ended top bracket.
func Unlimited() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

// DefaultTaxSchedule returns the PNG IRC 2026 salary and wages tax table:
// K20,000 tax-free, then 30% to K12,500 taxable, 35% to K20,000, 40% to
// K33,000 and 42% above. Super is 6.0% employee and 8.4% employer.
func DefaultTaxSchedule() *TaxSchedule {
	s, err := NewTaxSchedule(
		"PNG IRC 2026",
		decimal.NewFromInt(20000),
		[]TaxTier{
			{Limit: Limit(12500), Rate: decimal.RequireFromString("0.30")},
			{Limit: Limit(20000), Rate: decimal.RequireFromString("0.35")},
			{Limit: Limit(33000), Rate: decimal.RequireFromString("0.40")},
			{Limit: Unlimited(), Rate: decimal.RequireFromString("0.42")},
		},
		decimal.RequireFromString("0.06"),
		decimal.RequireFromString("0.084"),
	)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks the bracket table is well formed.
func (s *TaxSchedule) Validate() error {
	if len(s.Brackets) == 0 {
		return fmt.Errorf("%w: no brackets", ErrInvalidTaxSchedule)
	}

	if s.TaxFreeThreshold.IsNegative() {
		return fmt.Errorf("%w: negative tax-free threshold", ErrInvalidTaxSchedule)
	}

	if !validRate(s.EmployeeSuperRate) || !validRate(s.EmployerSuperRate) {
		return fmt.Errorf("%w: super rates must be between 0 and 1", ErrInvalidTaxSchedule)
	}

	prev := decimal.Zero
	last := len(s.Brackets) - 1
	for i, b := range s.Brackets {
		if !validRate(b.Rate) {
			return fmt.Errorf("%w: bracket %d rate %s out of range", ErrInvalidTaxSchedule, i, b.Rate)
		}

		if b.Unbounded() {
			if i != last {
				return fmt.Errorf("%w: unbounded bracket %d is not last", ErrInvalidTaxSchedule, i)
			}
			continue
		}

		if b.Limit.Decimal.LessThanOrEqual(prev) {
			return fmt.Errorf("%w: bracket %d limit %s does not exceed %s", ErrInvalidTaxSchedule, i, b.Limit.Decimal, prev)
		}
		prev = b.Limit.Decimal
	}

	if !s.Brackets[last].Unbounded() {
		return fmt.Errorf("%w: top bracket must be unbounded", ErrInvalidTaxSchedule)
	}

	return nil
}

// AnnualTax returns the tax owed on an annualised gross income, rounded to
// the currency minor unit.
func (s *TaxSchedule) AnnualTax(annualGross decimal.Decimal) decimal.Decimal {
	if annualGross.LessThanOrEqual(s.TaxFreeThreshold) {
		return decimal.Zero
	}

	taxable := annualGross.Sub(s.TaxFreeThreshold)
	prev := decimal.Zero

	for _, b := range s.Brackets {
		if b.Unbounded() || taxable.LessThanOrEqual(b.Limit.Decimal) {
			tax := b.Cumulative.Add(taxable.Sub(prev).Mul(b.Rate))
			return tax.Round(MoneyPlaces)
		}
		prev = b.Limit.Decimal
	}

	// Unreachable for a validated schedule.
	return decimal.Zero
}

func validRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(decimal.NewFromInt(1))
}
