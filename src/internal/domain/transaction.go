package domain

import "github.com/shopspring/decimal"

// TransactionType selects which posting template turns a document into
// ledger movements.
type TransactionType string

const (
	TransactionStandardInvoice    TransactionType = "standard-invoice"
	TransactionIncome             TransactionType = "income"
	TransactionPurchaseAndPayment TransactionType = "purchase-and-payment"
	TransactionInvoiceVATIncluded TransactionType = "invoice-vat-included"
	TransactionCashPaidInvoice    TransactionType = "cash-paid-invoice"
	TransactionCashIncome         TransactionType = "cash-income"
	TransactionDirectCashExpense  TransactionType = "direct-cash-expense"
)

var transactionTypes = map[TransactionType]struct{}{
	TransactionStandardInvoice:    {},
	TransactionIncome:             {},
	TransactionPurchaseAndPayment: {},
	TransactionInvoiceVATIncluded: {},
	TransactionCashPaidInvoice:    {},
	TransactionCashIncome:         {},
	TransactionDirectCashExpense:  {},
}

func (t TransactionType) Valid() bool {
	_, ok := transactionTypes[t]
	return ok
}

// IsPurchase reports whether the template posts against a provider.
func (t TransactionType) IsPurchase() bool {
	switch t {
	case TransactionStandardInvoice, TransactionPurchaseAndPayment,
		TransactionInvoiceVATIncluded, TransactionCashPaidInvoice:
		return true
	}
	return false
}

// IsIncome reports whether the template credits an income account.
func (t TransactionType) IsIncome() bool {
	return t == TransactionIncome || t == TransactionCashIncome
}

// DetailLine is one user-entered document line: a taxable base and the
// VAT / withholding percentages that apply to it.
type DetailLine struct {
	Base            decimal.Decimal
	VATRate         decimal.Decimal
	WithholdingRate decimal.Decimal
}

// TaxLine is a DetailLine with its derived amounts. The amounts are
// always recomputed from the line, never stored independently.
type TaxLine struct {
	DetailLine
	VATAmount         decimal.Decimal
	WithholdingAmount decimal.Decimal
}

// AccountSelection carries every ledger account a template may post to.
// Expense, income and payment accounts come from the request; the
// provider account from master data; the rest from configuration.
type AccountSelection struct {
	Expense               string
	Income                string
	Payment               string
	Provider              string
	Cash                  string
	VATDeductible         string
	VATOutput             string
	WithholdingPayable    string
	WithholdingReceivable string
}
