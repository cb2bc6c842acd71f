package services

import (
	"fmt"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/shopspring/decimal"
)

type accountRole int

const (
	roleExpense accountRole = iota
	roleIncome
	roleProvider
	rolePayment
	roleCash
	roleVATDeductible
	roleVATOutput
	roleWithholdingPayable
	roleWithholdingReceivable
)

var roleNames = map[accountRole]string{
	roleExpense:               "expense",
	roleIncome:                "income",
	roleProvider:              "provider",
	rolePayment:               "payment",
	roleCash:                  "cash",
	roleVATDeductible:         "deductible VAT",
	roleVATOutput:             "output VAT",
	roleWithholdingPayable:    "withholding payable",
	roleWithholdingReceivable: "withholding receivable",
}

type amountTerm int

const (
	termBase        amountTerm = iota // sum of bases
	termVAT                           // sum of VAT amounts
	termWithholding                   // sum of withholding amounts
	termNet                           // base + VAT - withholding
	termGross                         // base + VAT, for templates that roll VAT into the line
)

type movementSpec struct {
	role      accountRole
	direction domain.MovementDirection
	term      amountTerm
}

// postingTemplates declares, per transaction type, which accounts are
// posted in which direction and with which amount term. Ordering is
// meaningful: settlement legs follow their invoice leg.
var postingTemplates = map[domain.TransactionType][]movementSpec{
	domain.TransactionStandardInvoice: {
		{roleExpense, domain.MovementDebit, termBase},
		{roleVATDeductible, domain.MovementDebit, termVAT},
		{roleWithholdingPayable, domain.MovementCredit, termWithholding},
		{roleProvider, domain.MovementCredit, termNet},
	},
	domain.TransactionInvoiceVATIncluded: {
		{roleExpense, domain.MovementDebit, termGross},
		{roleWithholdingPayable, domain.MovementCredit, termWithholding},
		{roleProvider, domain.MovementCredit, termNet},
	},
	domain.TransactionPurchaseAndPayment: {
		{roleExpense, domain.MovementDebit, termBase},
		{roleVATDeductible, domain.MovementDebit, termVAT},
		{roleWithholdingPayable, domain.MovementCredit, termWithholding},
		{roleProvider, domain.MovementCredit, termNet},
		{roleProvider, domain.MovementDebit, termNet},
		{rolePayment, domain.MovementCredit, termNet},
	},
	domain.TransactionCashPaidInvoice: {
		{roleExpense, domain.MovementDebit, termBase},
		{roleExpense, domain.MovementDebit, termVAT},
		{roleWithholdingPayable, domain.MovementCredit, termWithholding},
		{roleProvider, domain.MovementCredit, termNet},
		{roleProvider, domain.MovementDebit, termNet},
		{roleCash, domain.MovementCredit, termNet},
	},
	domain.TransactionIncome: {
		{rolePayment, domain.MovementDebit, termNet},
		{roleWithholdingReceivable, domain.MovementDebit, termWithholding},
		{roleIncome, domain.MovementCredit, termBase},
		{roleVATOutput, domain.MovementCredit, termVAT},
	},
	domain.TransactionCashIncome: {
		{roleCash, domain.MovementDebit, termNet},
		{roleWithholdingReceivable, domain.MovementDebit, termWithholding},
		{roleIncome, domain.MovementCredit, termBase},
		{roleVATOutput, domain.MovementCredit, termVAT},
	},
	domain.TransactionDirectCashExpense: {
		{roleExpense, domain.MovementDebit, termGross},
		{roleWithholdingPayable, domain.MovementCredit, termWithholding},
		{roleCash, domain.MovementCredit, termNet},
	},
}

// PostingResolver expands a transaction into its ordered ledger
// movements. Resolution is pure: the same inputs always produce the
// same movement list.
type PostingResolver struct{}

func NewPostingResolver() *PostingResolver {
	return &PostingResolver{}
}

// Resolve builds the movement list for one transaction. Lines with a
// non-positive base are ignored, and movements whose amount works out
// to zero are never emitted.
func (r *PostingResolver) Resolve(
	txType domain.TransactionType,
	accounts domain.AccountSelection,
	lines []domain.TaxLine,
	analytic domain.AnalyticDimensions,
) ([]domain.Movement, error) {
	specs, ok := postingTemplates[txType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTransactionType, txType)
	}

	base := decimal.Zero
	vat := decimal.Zero
	withholding := decimal.Zero
	for _, line := range lines {
		if line.Base.LessThanOrEqual(decimal.Zero) {
			continue
		}
		base = base.Add(line.Base)
		vat = vat.Add(line.VATAmount)
		withholding = withholding.Add(line.WithholdingAmount)
	}

	terms := map[amountTerm]decimal.Decimal{
		termBase:        base,
		termVAT:         vat,
		termWithholding: withholding,
		termNet:         base.Add(vat).Sub(withholding),
		termGross:       base.Add(vat),
	}

	movements := make([]domain.Movement, 0, len(specs))
	for _, spec := range specs {
		amount := terms[spec.term]
		if amount.IsZero() {
			continue
		}

		account, err := r.accountFor(spec.role, accounts)
		if err != nil {
			return nil, err
		}

		movements = append(movements, domain.Movement{
			Account:   account,
			Direction: spec.direction,
			Amount:    amount,
			Analytic:  analytic,
		})
	}

	return movements, nil
}

func (r *PostingResolver) accountFor(role accountRole, accounts domain.AccountSelection) (string, error) {
	var account string
	switch role {
	case roleExpense:
		account = accounts.Expense
	case roleIncome:
		account = accounts.Income
	case roleProvider:
		account = accounts.Provider
	case rolePayment:
		account = accounts.Payment
	case roleCash:
		account = accounts.Cash
	case roleVATDeductible:
		account = accounts.VATDeductible
	case roleVATOutput:
		account = accounts.VATOutput
	case roleWithholdingPayable:
		account = accounts.WithholdingPayable
	case roleWithholdingReceivable:
		account = accounts.WithholdingReceivable
	}

	if account == "" {
		return "", fmt.Errorf("no %s account selected", roleNames[role])
	}
	return account, nil
}
