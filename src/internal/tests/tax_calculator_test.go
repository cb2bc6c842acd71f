package services_test

import (
	"testing"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

func TestTaxCalculatorComputeStandardRates(t *testing.T) {
	calc := services.NewTaxCalculator()

	line := calc.Compute(
		decimal.NewFromInt(100),
		decimal.NewFromInt(21),
		decimal.NewFromInt(15),
	)

	if line.VATAmount.StringFixed(2) != "21.00" {
		t.Fatalf("expected VAT amount 21.00, got %s", line.VATAmount.StringFixed(2))
	}
	if line.WithholdingAmount.StringFixed(2) != "15.00" {
		t.Fatalf("expected withholding amount 15.00, got %s", line.WithholdingAmount.StringFixed(2))
	}
	if !line.Base.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected base to pass through unchanged, got %s", line.Base)
	}
}

func TestTaxCalculatorRoundsHalfUp(t *testing.T) {
	calc := services.NewTaxCalculator()

	// 0.10 * 5% = 0.005, which must round up to 0.01.
	line := calc.Compute(
		decimal.NewFromFloat(0.10),
		decimal.NewFromInt(5),
		decimal.Zero,
	)

	if line.VATAmount.StringFixed(2) != "0.01" {
		t.Fatalf("expected VAT amount 0.01, got %s", line.VATAmount.StringFixed(2))
	}
	if !line.WithholdingAmount.IsZero() {
		t.Fatalf("expected zero withholding, got %s", line.WithholdingAmount)
	}
}

func TestTaxCalculatorComputeIsDeterministic(t *testing.T) {
	calc := services.NewTaxCalculator()

	base := decimal.NewFromFloat(1234.56)
	vat := decimal.NewFromInt(10)
	withholding := decimal.NewFromInt(7)

	first := calc.Compute(base, vat, withholding)
	second := calc.Compute(base, vat, withholding)

	if !first.VATAmount.Equal(second.VATAmount) || !first.WithholdingAmount.Equal(second.WithholdingAmount) {
		t.Fatalf("expected identical results for identical inputs, got %s/%s and %s/%s",
			first.VATAmount, first.WithholdingAmount, second.VATAmount, second.WithholdingAmount)
	}
}

func TestParseAmountCoercesBlankAndGarbageToZero(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "12.3.4"} {
		if got := domain.ParseAmount(raw); !got.IsZero() {
			t.Fatalf("expected %q to parse as zero, got %s", raw, got)
		}
	}
}

func TestParseAmountAcceptsDecimalComma(t *testing.T) {
	got := domain.ParseAmount("1234,56")
	if got.StringFixed(2) != "1234.56" {
		t.Fatalf("expected 1234.56, got %s", got.StringFixed(2))
	}
}

func TestParseAmountPassesNegativesThrough(t *testing.T) {
	got := domain.ParseAmount("-10")
	if !got.IsNegative() {
		t.Fatalf("expected negative value to pass through, got %s", got)
	}
}
