package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateTrustAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateTrustAmount(decimal.RequireFromString("100.25")); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateTrustAmount(decimal.RequireFromString("0.01")); err != nil {
		t.Fatalf("expected minimum unit to be valid, got %v", err)
	}

	if err := ValidateTrustAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateTrustAmount(decimal.RequireFromString("-5")); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}

	if err := ValidateTrustAmount(decimal.RequireFromString("0.001")); !errors.Is(err, ErrAmountTooSmall) {
		t.Fatalf("expected ErrAmountTooSmall, got %v", err)
	}

	if err := ValidateTrustAmount(decimal.RequireFromString("10.005")); !errors.Is(err, ErrAmountPrecision) {
		t.Fatalf("expected ErrAmountPrecision, got %v", err)
	}

	huge := decimal.RequireFromString(MaxTrustAmount).Add(decimal.NewFromInt(1))
	if err := ValidateTrustAmount(huge); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidateMoneyPrecisionAcceptsTrailingZeros(t *testing.T) {
	t.Parallel()

	if err := ValidateMoneyPrecision(decimal.RequireFromString("10.500")); err != nil {
		t.Fatalf("expected 10.500 to be accepted, got %v", err)
	}
}

func TestValidateDescription(t *testing.T) {
	t.Parallel()

	if err := ValidateDescription("Retainer"); err != nil {
		t.Fatalf("expected valid description, got %v", err)
	}

	if err := ValidateDescription("   "); err == nil {
		t.Fatal("expected blank description to be rejected")
	}

	if err := ValidateDescription(strings.Repeat("a", MaxDescriptionLength+1)); err == nil {
		t.Fatal("expected long description to be rejected")
	}
}

func TestValidateTrustRequestCollectsFields(t *testing.T) {
	t.Parallel()

	err := ValidateTrustRequest("", "", " ", decimal.Zero, time.Time{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}

	for _, want := range []string{"matterId", "actorId", "amount", "description", "transactionDate"} {
		if !fields[want] {
			t.Errorf("expected field error for %s, got %+v", want, verr.Fields)
		}
	}
}

func TestValidateTrustRequestValid(t *testing.T) {
	t.Parallel()

	err := ValidateTrustRequest("matter-1", "user-1", "Retainer", decimal.NewFromInt(5000), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	if err := ValidateEmail("partner@example.com"); err != nil {
		t.Fatalf("expected valid email, got %v", err)
	}

	if err := ValidateEmail("invalid-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	if err := ValidatePassword("Str0ngPass"); err != nil {
		t.Fatalf("expected strong password to pass, got %v", err)
	}

	if err := ValidatePassword("short"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for short password, got %v", err)
	}

	if err := ValidatePassword(strings.Repeat("a", MaxPasswordLength+1)); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for long password, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	limit, offset, err := ValidatePagination(0, -10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if limit != 50 || offset != 0 {
		t.Fatalf("expected defaults (50,0), got (%d,%d)", limit, offset)
	}

	limit, offset, err = ValidatePagination(5000, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if limit != 1000 || offset != 25 {
		t.Fatalf("expected limit capped at 1000, got (%d,%d)", limit, offset)
	}
}
