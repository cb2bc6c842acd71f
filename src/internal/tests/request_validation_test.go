package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/http/models"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
)

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	return validationErr.Messages
}

func containsMessage(messages []string, fragment string) bool {
	for _, msg := range messages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func TestCreateEntryRequestValidateEmptyRequest(t *testing.T) {
	err := models.CreateEntryRequest{}.Validate()
	messages := validationMessages(t, err)

	for _, fragment := range []string{"type is required", "userId is required", "issueDate or operationDate", "detail line"} {
		if !containsMessage(messages, fragment) {
			t.Fatalf("expected a %q message, got %v", fragment, messages)
		}
	}
}

func TestCreateEntryRequestValidateRejectsNegativeAmounts(t *testing.T) {
	err := models.CreateEntryRequest{
		Type:           string(domain.TransactionStandardInvoice),
		IssueDate:      "2025-04-01",
		UserID:         "tester",
		ProviderCode:   "PROV001",
		ExpenseAccount: "629000000",
		Lines: []models.DetailLineRequest{
			{Base: "-5", VATRate: "21"},
			{Base: "100", VATRate: "-1", WithholdingRate: "-2"},
		},
	}.Validate()
	messages := validationMessages(t, err)

	if !containsMessage(messages, "line 1: base must not be negative") {
		t.Fatalf("expected the negative base rejected, got %v", messages)
	}
	if !containsMessage(messages, "line 2: vatRate must not be negative") {
		t.Fatalf("expected the negative VAT rate rejected, got %v", messages)
	}
	if !containsMessage(messages, "line 2: withholdingRate must not be negative") {
		t.Fatalf("expected the negative withholding rate rejected, got %v", messages)
	}
}

func TestCreateEntryRequestValidatePerTypeAccounts(t *testing.T) {
	base := models.CreateEntryRequest{
		IssueDate: "2025-04-01",
		UserID:    "tester",
		Lines: []models.DetailLineRequest{
			{Base: "100"},
		},
	}

	purchase := base
	purchase.Type = string(domain.TransactionStandardInvoice)
	messages := validationMessages(t, purchase.Validate())
	if !containsMessage(messages, "providerCode is required") || !containsMessage(messages, "expenseAccount is required") {
		t.Fatalf("expected purchase account requirements, got %v", messages)
	}

	income := base
	income.Type = string(domain.TransactionIncome)
	messages = validationMessages(t, income.Validate())
	if !containsMessage(messages, "incomeAccount is required") || !containsMessage(messages, "paymentAccount is required") {
		t.Fatalf("expected income account requirements, got %v", messages)
	}

	cashExpense := base
	cashExpense.Type = string(domain.TransactionDirectCashExpense)
	messages = validationMessages(t, cashExpense.Validate())
	if !containsMessage(messages, "expenseAccount is required") {
		t.Fatalf("expected the expense account required, got %v", messages)
	}
	if containsMessage(messages, "providerCode is required") {
		t.Fatalf("direct cash expenses need no provider, got %v", messages)
	}
}

func TestCreateEntryRequestValidateRejectsAllZeroLines(t *testing.T) {
	err := models.CreateEntryRequest{
		Type:          string(domain.TransactionCashIncome),
		IssueDate:     "2025-04-01",
		UserID:        "tester",
		IncomeAccount: "700000000",
		Lines: []models.DetailLineRequest{
			{Base: ""},
			{Base: "0"},
		},
	}.Validate()
	messages := validationMessages(t, err)

	if !containsMessage(messages, "positive base") {
		t.Fatalf("expected the zero-only lines rejected, got %v", messages)
	}
}

func TestGetEntriesRequestValidatePageWindow(t *testing.T) {
	// Zero means "not set": it passes validation and gets a default.
	if err := (models.GetEntriesRequest{Page: 0, PageSize: 0}).Validate(); err != nil {
		t.Fatalf("expected an unset page window accepted, got %v", err)
	}

	messages := validationMessages(t, models.GetEntriesRequest{Page: -1, PageSize: -5}.Validate())
	if !containsMessage(messages, "page must not be negative") {
		t.Fatalf("expected the negative page rejected, got %v", messages)
	}
	if !containsMessage(messages, "pageSize must not be negative") {
		t.Fatalf("expected the negative pageSize rejected, got %v", messages)
	}

	messages = validationMessages(t, models.GetEntriesRequest{PageSize: 500}.Validate())
	if !containsMessage(messages, "pageSize must not exceed 200") {
		t.Fatalf("expected the oversized pageSize rejected, got %v", messages)
	}
}

func TestCreateEntryRequestEntryDatePrefersOperationDate(t *testing.T) {
	req := models.CreateEntryRequest{
		IssueDate:     "2025-04-01",
		OperationDate: "2025-04-15",
	}
	date, err := req.EntryDate()
	if err != nil {
		t.Fatalf("entry date: %v", err)
	}
	if date.Format("2006-01-02") != "2025-04-15" {
		t.Fatalf("expected the operation date, got %s", date.Format("2006-01-02"))
	}
}

func TestBuildCommentTruncatesAtFortyRunes(t *testing.T) {
	comment := domain.BuildComment("F-2025-118", strings.Repeat("ñ", 60))
	if got := len([]rune(comment)); got != domain.MaxCommentLength {
		t.Fatalf("expected %d runes, got %d", domain.MaxCommentLength, got)
	}
	if !strings.HasPrefix(comment, "F-2025-118 ") {
		t.Fatalf("expected the document number kept in front, got %q", comment)
	}
}
