package service_interfaces

import (
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/shopspring/decimal"
)

type TaxCalculator interface {
	Compute(base decimal.Decimal, vatRate decimal.Decimal, withholdingRate decimal.Decimal) domain.TaxLine
}

type PostingResolver interface {
	Resolve(txType domain.TransactionType, accounts domain.AccountSelection, lines []domain.TaxLine, analytic domain.AnalyticDimensions) ([]domain.Movement, error)
}

type BalanceValidator interface {
	Validate(movements []domain.Movement) error
}
