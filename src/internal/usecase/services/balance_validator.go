package services

import (
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/shopspring/decimal"
)

// balanceTolerance matches the 2-decimal rounding granularity of
// movement amounts.
var balanceTolerance = decimal.NewFromFloat(0.01)

// BalanceValidator is the single correctness gate every template output
// passes through before persistence. It is deliberately independent of
// which template produced the movements.
type BalanceValidator struct{}

func NewBalanceValidator() *BalanceValidator {
	return &BalanceValidator{}
}

// Validate sums debits and credits without netting per account and
// rejects the movement list when the totals differ beyond tolerance.
func (v *BalanceValidator) Validate(movements []domain.Movement) error {
	debit := decimal.Zero
	credit := decimal.Zero
	for _, m := range movements {
		switch m.Direction {
		case domain.MovementDebit:
			debit = debit.Add(m.Amount)
		case domain.MovementCredit:
			credit = credit.Add(m.Amount)
		}
	}

	imbalance := debit.Sub(credit).Abs()
	if imbalance.GreaterThan(balanceTolerance) {
		return &domain.BalanceError{
			TotalDebit:  debit,
			TotalCredit: credit,
			Imbalance:   imbalance,
		}
	}

	return nil
}
