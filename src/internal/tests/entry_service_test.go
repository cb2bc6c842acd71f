package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/http/models"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/repository/memory"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/repository/repo_interfaces"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/usecase/services"
)

type sessionRepoStub struct {
	context domain.AnalyticContext
	err     error
}

func (s *sessionRepoStub) GetAnalyticContext(context.Context, string) (domain.AnalyticContext, error) {
	return s.context, s.err
}

type masterDataRepoStub struct {
	getProvider         func(ctx context.Context, code string) (domain.Provider, error)
	listExpenseAccounts func(ctx context.Context) ([]string, error)
	listIncomeAccounts  func(ctx context.Context) ([]string, error)
}

func (s *masterDataRepoStub) GetProvider(ctx context.Context, code string) (domain.Provider, error) {
	return s.getProvider(ctx, code)
}

func (s *masterDataRepoStub) ListExpenseAccounts(ctx context.Context) ([]string, error) {
	return s.listExpenseAccounts(ctx)
}

func (s *masterDataRepoStub) ListIncomeAccounts(ctx context.Context) ([]string, error) {
	return s.listIncomeAccounts(ctx)
}

type sequenceRepoStub struct {
	next func(ctx context.Context, scope domain.SequenceScope) (int64, error)
	peek func(ctx context.Context, scope domain.SequenceScope) (int64, error)
}

func (s *sequenceRepoStub) Next(ctx context.Context, scope domain.SequenceScope) (int64, error) {
	return s.next(ctx, scope)
}

func (s *sequenceRepoStub) Peek(ctx context.Context, scope domain.SequenceScope) (int64, error) {
	return s.peek(ctx, scope)
}

type postingResolverStub struct {
	movements []domain.Movement
	err       error
}

func (s *postingResolverStub) Resolve(domain.TransactionType, domain.AccountSelection, []domain.TaxLine, domain.AnalyticDimensions) ([]domain.Movement, error) {
	return s.movements, s.err
}

func defaultTestAccounts() domain.AccountSelection {
	return domain.AccountSelection{
		Cash:                  "570000000",
		VATDeductible:         "472000000",
		VATOutput:             "477000000",
		WithholdingPayable:    "475100000",
		WithholdingReceivable: "473000000",
	}
}

type serviceFixture struct {
	service         *services.EntryService
	sequences       *memory.SequenceRepository
	attachmentStore *memory.AttachmentStore
}

func newServiceFixture() serviceFixture {
	sequences := memory.NewSequenceRepository()
	attachments := memory.NewAttachmentStore()
	svc := services.NewEntryService(
		memory.NewEntryRepository(sequences),
		sequences,
		memory.NewMasterDataRepository(),
		memory.NewSessionRepository(domain.AnalyticContext{}),
		attachments,
		services.NewTaxCalculator(),
		services.NewPostingResolver(),
		services.NewBalanceValidator(),
		"ADIS",
		defaultTestAccounts(),
	)
	return serviceFixture{service: svc, sequences: sequences, attachmentStore: attachments}
}

func standardInvoiceRequest() models.CreateEntryRequest {
	return models.CreateEntryRequest{
		Type:           string(domain.TransactionStandardInvoice),
		DocumentNumber: "F-2025-118",
		IssueDate:      "2025-04-01",
		Concept:        "Material oficina",
		ProviderCode:   "PROV001",
		ExpenseAccount: "629000000",
		UserID:         "tester",
		Lines: []models.DetailLineRequest{
			{Base: "100", VATRate: "21", WithholdingRate: "15"},
		},
	}
}

func TestEntryServiceCreateStandardInvoice(t *testing.T) {
	fixture := newServiceFixture()

	resp, err := fixture.service.CreateEntry(context.Background(), standardInvoiceRequest())
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatalf("expected success response, got %+v", resp)
	}

	data := *resp.Data
	if data.EntryNumber != 1 {
		t.Fatalf("expected entry number 1, got %d", data.EntryNumber)
	}
	if data.FiscalYear != 2025 {
		t.Fatalf("expected fiscal year 2025, got %d", data.FiscalYear)
	}
	if data.TotalDebit.StringFixed(2) != "121.00" || data.TotalCredit.StringFixed(2) != "121.00" {
		t.Fatalf("expected totals 121.00/121.00, got %s/%s",
			data.TotalDebit.StringFixed(2), data.TotalCredit.StringFixed(2))
	}
	if len(data.Movements) != 4 {
		t.Fatalf("expected 4 movements, got %d", len(data.Movements))
	}

	// The provider account comes from master data, never from the request.
	last := data.Movements[len(data.Movements)-1]
	if last.Account != "400000001" || last.Direction != "H" || last.Amount.StringFixed(2) != "106.00" {
		t.Fatalf("unexpected provider movement: %s %s %s", last.Account, last.Direction, last.Amount.StringFixed(2))
	}

	if data.Comment != "F-2025-118 Material oficina" {
		t.Fatalf("unexpected comment: %q", data.Comment)
	}
}

func TestEntryServiceCreateCashIncome(t *testing.T) {
	fixture := newServiceFixture()

	resp, err := fixture.service.CreateEntry(context.Background(), models.CreateEntryRequest{
		Type:          string(domain.TransactionCashIncome),
		OperationDate: "2025-06-15",
		Concept:       "Donativo en efectivo",
		IncomeAccount: "700000000",
		UserID:        "tester",
		Lines: []models.DetailLineRequest{
			{Base: "250,50"},
		},
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if resp.Data == nil {
		t.Fatal("expected response data")
	}

	data := *resp.Data
	if len(data.Movements) != 2 {
		t.Fatalf("expected 2 movements for a rate-free cash income, got %d", len(data.Movements))
	}
	if data.Movements[0].Account != "570000000" || data.Movements[0].Direction != "D" || data.Movements[0].Amount.StringFixed(2) != "250.50" {
		t.Fatalf("unexpected cash movement: %+v", data.Movements[0])
	}
	if data.Movements[1].Account != "700000000" || data.Movements[1].Direction != "H" || data.Movements[1].Amount.StringFixed(2) != "250.50" {
		t.Fatalf("unexpected income movement: %+v", data.Movements[1])
	}
}

func TestEntryServiceCollectsValidationErrors(t *testing.T) {
	fixture := newServiceFixture()

	resp, err := fixture.service.CreateEntry(context.Background(), models.CreateEntryRequest{})

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if len(validationErr.Messages) < 3 {
		t.Fatalf("expected every problem reported at once, got %v", validationErr.Messages)
	}
	if resp.Success {
		t.Fatal("expected an error response")
	}
	if resp.Message != "validation failed" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if len(resp.Errors) != len(validationErr.Messages) {
		t.Fatalf("expected every collected message in the response, got %d of %d",
			len(resp.Errors), len(validationErr.Messages))
	}
}

func TestEntryServiceRejectsUnknownProvider(t *testing.T) {
	fixture := newServiceFixture()

	req := standardInvoiceRequest()
	req.ProviderCode = "NOPE"

	resp, err := fixture.service.CreateEntry(context.Background(), req)

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if resp.Message != "validation failed" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	found := false
	for _, msg := range resp.Errors {
		if strings.Contains(msg, "providerCode") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a providerCode error, got %v", resp.Errors)
	}
}

func TestEntryServiceReportsSessionCollaboratorFailure(t *testing.T) {
	sequences := memory.NewSequenceRepository()
	svc := services.NewEntryService(
		memory.NewEntryRepository(sequences),
		sequences,
		memory.NewMasterDataRepository(),
		&sessionRepoStub{err: errors.New("identity service down")},
		memory.NewAttachmentStore(),
		services.NewTaxCalculator(),
		services.NewPostingResolver(),
		services.NewBalanceValidator(),
		"ADIS",
		defaultTestAccounts(),
	)

	resp, err := svc.CreateEntry(context.Background(), standardInvoiceRequest())

	var collabErr *domain.CollaboratorError
	if !errors.As(err, &collabErr) {
		t.Fatalf("expected a collaborator error, got %v", err)
	}
	if collabErr.Collaborator != "session" {
		t.Fatalf("expected the session collaborator named, got %q", collabErr.Collaborator)
	}
	if resp.Success {
		t.Fatal("expected an error response")
	}
}

func TestEntryServiceReportsMasterDataFailure(t *testing.T) {
	sequences := memory.NewSequenceRepository()
	svc := services.NewEntryService(
		memory.NewEntryRepository(sequences),
		sequences,
		&masterDataRepoStub{
			getProvider: func(context.Context, string) (domain.Provider, error) {
				return domain.Provider{}, errors.New("master data unreachable")
			},
			listExpenseAccounts: func(context.Context) ([]string, error) { return nil, nil },
			listIncomeAccounts:  func(context.Context) ([]string, error) { return nil, nil },
		},
		memory.NewSessionRepository(domain.AnalyticContext{}),
		memory.NewAttachmentStore(),
		services.NewTaxCalculator(),
		services.NewPostingResolver(),
		services.NewBalanceValidator(),
		"ADIS",
		defaultTestAccounts(),
	)

	resp, err := svc.CreateEntry(context.Background(), standardInvoiceRequest())

	var collabErr *domain.CollaboratorError
	if !errors.As(err, &collabErr) {
		t.Fatalf("expected a collaborator error, got %v", err)
	}
	if collabErr.Collaborator != "master-data" {
		t.Fatalf("expected the master-data collaborator named, got %q", collabErr.Collaborator)
	}
	if resp.Message != "failed to create entry" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestEntryServiceRefusesUnbalancedComposition(t *testing.T) {
	sequences := memory.NewSequenceRepository()
	entryRepo := memory.NewEntryRepository(sequences)
	svc := services.NewEntryService(
		entryRepo,
		sequences,
		memory.NewMasterDataRepository(),
		memory.NewSessionRepository(domain.AnalyticContext{}),
		memory.NewAttachmentStore(),
		services.NewTaxCalculator(),
		&postingResolverStub{movements: []domain.Movement{
			{Account: "629000000", Direction: domain.MovementDebit, Amount: domain.ParseAmount("100")},
		}},
		services.NewBalanceValidator(),
		"ADIS",
		defaultTestAccounts(),
	)

	resp, err := svc.CreateEntry(context.Background(), standardInvoiceRequest())

	var balanceErr *domain.BalanceError
	if !errors.As(err, &balanceErr) {
		t.Fatalf("expected a balance error, got %v", err)
	}
	if resp.Success {
		t.Fatal("expected an error response")
	}

	// Nothing may reach storage, and no number may be consumed.
	page, err := entryRepo.Query(context.Background(), domain.EntryQuery{
		CompanyCode: "ADIS", SortField: domain.SortByNumber,
		SortDirection: domain.SortAscending, Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if page.TotalCount != 0 {
		t.Fatalf("expected no persisted entries, got %d", page.TotalCount)
	}
	next, err := sequences.Peek(context.Background(), domain.SequenceScope{CompanyCode: "ADIS", FiscalYear: 2025})
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if next != 1 {
		t.Fatalf("expected no number consumed, next is %d", next)
	}
}

func TestEntryServiceReportsContendedAllocation(t *testing.T) {
	failing := &sequenceRepoStub{
		next: func(context.Context, domain.SequenceScope) (int64, error) {
			return 0, errors.New("counter locked")
		},
		peek: func(context.Context, domain.SequenceScope) (int64, error) {
			return 0, errors.New("counter locked")
		},
	}
	svc := services.NewEntryService(
		memory.NewEntryRepository(failing),
		failing,
		memory.NewMasterDataRepository(),
		memory.NewSessionRepository(domain.AnalyticContext{}),
		memory.NewAttachmentStore(),
		services.NewTaxCalculator(),
		services.NewPostingResolver(),
		services.NewBalanceValidator(),
		"ADIS",
		defaultTestAccounts(),
	)

	resp, err := svc.CreateEntry(context.Background(), standardInvoiceRequest())

	var allocationErr *domain.AllocationError
	if !errors.As(err, &allocationErr) {
		t.Fatalf("expected an allocation error, got %v", err)
	}
	if resp.Message != "ledger is busy" {
		t.Fatalf("expected a retryable busy response, got %q", resp.Message)
	}
}

func TestEntryServiceTruncatesComment(t *testing.T) {
	fixture := newServiceFixture()

	req := standardInvoiceRequest()
	req.DocumentNumber = ""
	req.Concept = strings.Repeat("factura electricidad oficina central ", 3)

	resp, err := fixture.service.CreateEntry(context.Background(), req)
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if got := len([]rune(resp.Data.Comment)); got != domain.MaxCommentLength {
		t.Fatalf("expected the comment truncated to %d runes, got %d", domain.MaxCommentLength, got)
	}
}

func TestEntryServiceStoresAttachmentReference(t *testing.T) {
	fixture := newServiceFixture()

	req := standardInvoiceRequest()
	req.AttachmentRef = "uploads/2025/F-2025-118.pdf"

	if _, err := fixture.service.CreateEntry(context.Background(), req); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	refs := fixture.attachmentStore.References()
	if len(refs) != 1 || refs[0] != "uploads/2025/F-2025-118.pdf" {
		t.Fatalf("expected the attachment reference stored, got %v", refs)
	}
}

func TestEntryServiceGetNextEntryNumberIsAdvisory(t *testing.T) {
	fixture := newServiceFixture()

	resp, err := fixture.service.GetNextEntryNumber(context.Background(), "2025-04-01")
	if err != nil {
		t.Fatalf("get next entry number: %v", err)
	}
	if resp.Data == nil {
		t.Fatal("expected response data")
	}
	if resp.Data.EntryNumber != 1 || resp.Data.FiscalYear != 2025 {
		t.Fatalf("expected 1/2025, got %d/%d", resp.Data.EntryNumber, resp.Data.FiscalYear)
	}
	if !resp.Data.Advisory {
		t.Fatal("expected the peeked number to be marked advisory")
	}

	// Peeking must not consume: a commit still takes number 1.
	create, err := fixture.service.CreateEntry(context.Background(), standardInvoiceRequest())
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if create.Data.EntryNumber != 1 {
		t.Fatalf("expected the commit to take number 1, got %d", create.Data.EntryNumber)
	}
}

func TestEntryServiceGetNextEntryNumberRejectsBadDate(t *testing.T) {
	fixture := newServiceFixture()

	resp, err := fixture.service.GetNextEntryNumber(context.Background(), "01/04/2025")
	if err == nil {
		t.Fatal("expected a validation error for a malformed date")
	}
	if resp.Success {
		t.Fatal("expected an error response")
	}
}

var _ repo_interfaces.SequenceRepository = (*sequenceRepoStub)(nil)
var _ repo_interfaces.MasterDataRepository = (*masterDataRepoStub)(nil)
var _ repo_interfaces.SessionRepository = (*sessionRepoStub)(nil)
