package services

import (
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// TaxCalculator derives VAT and withholding amounts from a document
// line. It is pure: identical inputs always yield identical outputs.
type TaxCalculator struct{}

func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{}
}

// Compute applies the percentage rates to the base and rounds both
// amounts to 2 decimal places, half up.
func (c *TaxCalculator) Compute(base decimal.Decimal, vatRate decimal.Decimal, withholdingRate decimal.Decimal) domain.TaxLine {
	return domain.TaxLine{
		DetailLine: domain.DetailLine{
			Base:            base,
			VATRate:         vatRate,
			WithholdingRate: withholdingRate,
		},
		VATAmount:         base.Mul(vatRate).Div(oneHundred).Round(2),
		WithholdingAmount: base.Mul(withholdingRate).Div(oneHundred).Round(2),
	}
}
