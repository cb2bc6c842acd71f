package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// DetailLineRequest carries raw user input. Base and the rates arrive as
// strings because the form allows blank fields; blank and non-numeric
// values are coerced to zero by the composer's parse-amount step.
type DetailLineRequest struct {
	Base            string `json:"base"`
	VATRate         string `json:"vatRate"`
	WithholdingRate string `json:"withholdingRate"`
}

type CreateEntryRequest struct {
	Type           string              `json:"type"`
	DocumentSeries string              `json:"documentSeries"`
	DocumentNumber string              `json:"documentNumber"`
	IssueDate      string              `json:"issueDate"`
	OperationDate  string              `json:"operationDate"`
	DueDate        string              `json:"dueDate"`
	Concept        string              `json:"concept"`
	ProviderCode   string              `json:"providerCode"`
	ExpenseAccount string              `json:"expenseAccount"`
	IncomeAccount  string              `json:"incomeAccount"`
	PaymentAccount string              `json:"paymentAccount"`
	Lines          []DetailLineRequest `json:"lines"`
	AttachmentRef  string              `json:"attachmentRef"`
	UserID         string              `json:"userId"`
	Channel        string              `json:"channel"`
	Project        string              `json:"project"`
	Section        string              `json:"section"`
	Department     string              `json:"department"`
	Delegation     string              `json:"delegation"`
}

func (r CreateEntryRequest) Validate() error {
	var errs []string

	txType := domain.TransactionType(strings.TrimSpace(r.Type))
	if strings.TrimSpace(r.Type) == "" {
		errs = append(errs, "type is required")
	} else if !txType.Valid() {
		errs = append(errs, "type is not supported")
	}

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "userId is required")
	}

	if strings.TrimSpace(r.IssueDate) == "" && strings.TrimSpace(r.OperationDate) == "" {
		errs = append(errs, "issueDate or operationDate is required")
	}
	for field, value := range map[string]string{
		"issueDate":     r.IssueDate,
		"operationDate": r.OperationDate,
		"dueDate":       r.DueDate,
	} {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, strings.TrimSpace(value)); err != nil {
			errs = append(errs, field+" must be in YYYY-MM-DD format")
		}
	}

	if len(r.Lines) == 0 {
		errs = append(errs, "at least one detail line is required")
	}
	positiveLines := 0
	for i, line := range r.Lines {
		base := domain.ParseAmount(line.Base)
		if base.IsNegative() {
			errs = append(errs, "line "+strconv.Itoa(i+1)+": base must not be negative")
			continue
		}
		if domain.ParseAmount(line.VATRate).IsNegative() {
			errs = append(errs, "line "+strconv.Itoa(i+1)+": vatRate must not be negative")
		}
		if domain.ParseAmount(line.WithholdingRate).IsNegative() {
			errs = append(errs, "line "+strconv.Itoa(i+1)+": withholdingRate must not be negative")
		}
		if base.IsPositive() {
			positiveLines++
		}
	}
	if len(r.Lines) > 0 && positiveLines == 0 {
		errs = append(errs, "at least one detail line must have a positive base")
	}

	if txType.Valid() {
		if txType.IsPurchase() && strings.TrimSpace(r.ProviderCode) == "" {
			errs = append(errs, "providerCode is required for purchase transactions")
		}
		if requiresExpenseAccount(txType) && strings.TrimSpace(r.ExpenseAccount) == "" {
			errs = append(errs, "expenseAccount is required")
		}
		if txType.IsIncome() && strings.TrimSpace(r.IncomeAccount) == "" {
			errs = append(errs, "incomeAccount is required")
		}
		if requiresPaymentAccount(txType) && strings.TrimSpace(r.PaymentAccount) == "" {
			errs = append(errs, "paymentAccount is required")
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Messages: errs}
	}
	return nil
}

// EntryDate picks the accounting date: the operation date when present,
// the issue date otherwise. Validate guarantees one of them parses.
func (r CreateEntryRequest) EntryDate() (time.Time, error) {
	raw := strings.TrimSpace(r.OperationDate)
	if raw == "" {
		raw = strings.TrimSpace(r.IssueDate)
	}
	return time.Parse(dateLayout, raw)
}

func requiresExpenseAccount(t domain.TransactionType) bool {
	return t.IsPurchase() || t == domain.TransactionDirectCashExpense
}

func requiresPaymentAccount(t domain.TransactionType) bool {
	return t == domain.TransactionPurchaseAndPayment || t == domain.TransactionIncome
}

type MovementResponse struct {
	Account    string          `json:"account"`
	Direction  string          `json:"direction"`
	Amount     decimal.Decimal `json:"amount"`
	Channel    string          `json:"channel,omitempty"`
	Project    string          `json:"project,omitempty"`
	Section    string          `json:"section,omitempty"`
	Department string          `json:"department,omitempty"`
	Delegation string          `json:"delegation,omitempty"`
}

type CreateEntryResponse struct {
	EntryNumber int64              `json:"entryNumber"`
	FiscalYear  int                `json:"fiscalYear"`
	EntryDate   string             `json:"entryDate"`
	Comment     string             `json:"comment"`
	TotalDebit  decimal.Decimal    `json:"totalDebit"`
	TotalCredit decimal.Decimal    `json:"totalCredit"`
	Movements   []MovementResponse `json:"movements"`
}

type NextEntryNumberResponse struct {
	EntryNumber int64 `json:"entryNumber"`
	FiscalYear  int   `json:"fiscalYear"`
	// Advisory marks the number as a display-only preview: a concurrent
	// commit may take it before this caller does.
	Advisory bool `json:"advisory"`
}
