package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/http/models"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/repository/repo_interfaces"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/commons"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/logger"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/usecase/service_interfaces"
)

// EntryService composes a transaction request into a balanced ledger
// entry: validate, compute tax per line, resolve the posting template,
// check the balance, then commit. Each request runs end-to-end without
// internal parallelism.
type EntryService struct {
	entryRepo        repo_interfaces.EntryRepository
	sequenceRepo     repo_interfaces.SequenceRepository
	masterDataRepo   repo_interfaces.MasterDataRepository
	sessionRepo      repo_interfaces.SessionRepository
	attachmentStore  repo_interfaces.AttachmentStore
	taxCalculator    service_interfaces.TaxCalculator
	postingResolver  service_interfaces.PostingResolver
	balanceValidator service_interfaces.BalanceValidator
	companyCode      string
	defaultAccounts  domain.AccountSelection
}

func NewEntryService(
	entryRepo repo_interfaces.EntryRepository,
	sequenceRepo repo_interfaces.SequenceRepository,
	masterDataRepo repo_interfaces.MasterDataRepository,
	sessionRepo repo_interfaces.SessionRepository,
	attachmentStore repo_interfaces.AttachmentStore,
	taxCalculator service_interfaces.TaxCalculator,
	postingResolver service_interfaces.PostingResolver,
	balanceValidator service_interfaces.BalanceValidator,
	companyCode string,
	defaultAccounts domain.AccountSelection,
) *EntryService {
	return &EntryService{
		entryRepo:        entryRepo,
		sequenceRepo:     sequenceRepo,
		masterDataRepo:   masterDataRepo,
		sessionRepo:      sessionRepo,
		attachmentStore:  attachmentStore,
		taxCalculator:    taxCalculator,
		postingResolver:  postingResolver,
		balanceValidator: balanceValidator,
		companyCode:      strings.TrimSpace(companyCode),
		defaultAccounts:  defaultAccounts,
	}
}

func (s *EntryService) CreateEntry(ctx context.Context, req models.CreateEntryRequest) (commons.Response[models.CreateEntryResponse], error) {
	logger.Info("entry service create entry request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("entry service create entry validation failed", err, nil)
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return commons.ValidationFailed[models.CreateEntryResponse](validationErr.Messages), err
		}
		return commons.ErrorResponse[models.CreateEntryResponse]("validation failed", err.Error()), err
	}

	txType := domain.TransactionType(strings.TrimSpace(req.Type))

	entryDate, err := req.EntryDate()
	if err != nil {
		return commons.ErrorResponse[models.CreateEntryResponse]("validation failed", "entry date is not valid"), err
	}

	analyticCtx, err := s.sessionRepo.GetAnalyticContext(ctx, strings.TrimSpace(req.UserID))
	if err != nil {
		collabErr := &domain.CollaboratorError{Collaborator: "session", Err: err}
		logger.Error("entry service session lookup failed", collabErr, nil)
		return commons.ErrorResponse[models.CreateEntryResponse]("failed to create entry", collabErr.Error()), collabErr
	}

	accounts, resp, err := s.resolveAccounts(ctx, txType, req, analyticCtx)
	if err != nil {
		return resp, err
	}

	lines := s.computeLines(req.Lines)
	if len(lines) == 0 {
		err := &domain.ValidationError{Messages: []string{"at least one detail line must have a positive base"}}
		return commons.ValidationFailed[models.CreateEntryResponse](err.Messages), err
	}

	movements, err := s.postingResolver.Resolve(txType, accounts, lines, mergeAnalytics(analyticCtx.AnalyticDimensions, req))
	if err != nil {
		if errors.Is(err, domain.ErrUnknownTransactionType) {
			// Template table misconfiguration, not user input.
			logger.Error("entry service posting template missing", err, logger.Fields{
				"type": string(txType),
			})
			return commons.ErrorResponse[models.CreateEntryResponse]("failed to create entry", "Unable to process this transaction type"), err
		}
		logger.Error("entry service posting resolution failed", err, nil)
		return commons.ErrorResponse[models.CreateEntryResponse]("validation failed", err.Error()), err
	}

	if err := s.balanceValidator.Validate(movements); err != nil {
		// A BalanceError is a template bug: log it apart from validation
		// failures and refuse to persist.
		logger.Error("entry service unbalanced entry rejected", err, logger.Fields{
			"type":      string(txType),
			"movements": len(movements),
		})
		return commons.ErrorResponse[models.CreateEntryResponse]("failed to create entry", "entry composition is unbalanced"), err
	}

	if ref := strings.TrimSpace(req.AttachmentRef); ref != "" {
		if err := s.attachmentStore.Save(ctx, ref); err != nil {
			collabErr := &domain.CollaboratorError{Collaborator: "attachment-store", Err: err}
			logger.Error("entry service attachment save failed", collabErr, nil)
			return commons.ErrorResponse[models.CreateEntryResponse]("failed to create entry", collabErr.Error()), collabErr
		}
	}

	entry := domain.Entry{
		CompanyCode:    s.companyCode,
		FiscalYear:     entryDate.Year(),
		Date:           entryDate,
		Comment:        domain.BuildComment(req.DocumentNumber, req.Concept),
		Type:           txType,
		DocumentSeries: strings.TrimSpace(req.DocumentSeries),
		DocumentNumber: strings.TrimSpace(req.DocumentNumber),
		ProviderCode:   optionalString(req.ProviderCode),
		AttachmentRef:  optionalString(req.AttachmentRef),
		CreatedBy:      strings.TrimSpace(req.UserID),
		Movements:      movements,
	}

	committed, err := s.entryRepo.Commit(ctx, entry)
	if err != nil {
		var allocationErr *domain.AllocationError
		if errors.As(err, &allocationErr) {
			logger.Error("entry service number allocation failed", err, logger.Fields{
				"companyCode": s.companyCode,
				"fiscalYear":  entry.FiscalYear,
			})
			return commons.ErrorResponse[models.CreateEntryResponse]("ledger is busy", "Entry numbering is contended, please retry"), err
		}
		logger.Error("entry service commit failed", err, logger.Fields{
			"companyCode": s.companyCode,
			"fiscalYear":  entry.FiscalYear,
		})
		return commons.ErrorResponse[models.CreateEntryResponse]("failed to create entry", "Unable to save the entry right now"), err
	}

	logger.Info("entry service create entry success", logger.Fields{
		"entryNumber": committed.Number,
		"fiscalYear":  committed.FiscalYear,
		"type":        string(committed.Type),
		"movements":   len(committed.Movements),
	})

	return commons.SuccessResponse("entry created", mapEntryToCreateResponse(committed)), nil
}

// GetNextEntryNumber reports the next free number for display. The peek
// does not consume the number; the one actually assigned is allocated
// atomically at commit time and may differ under concurrency.
func (s *EntryService) GetNextEntryNumber(ctx context.Context, date string) (commons.Response[models.NextEntryNumberResponse], error) {
	entryDate := time.Now().UTC()
	if trimmed := strings.TrimSpace(date); trimmed != "" {
		parsed, err := time.Parse("2006-01-02", trimmed)
		if err != nil {
			validationErr := &domain.ValidationError{Messages: []string{"date must be in YYYY-MM-DD format"}}
			return commons.ValidationFailed[models.NextEntryNumberResponse](validationErr.Messages), validationErr
		}
		entryDate = parsed
	}

	scope := domain.SequenceScope{CompanyCode: s.companyCode, FiscalYear: entryDate.Year()}
	number, err := s.sequenceRepo.Peek(ctx, scope)
	if err != nil {
		logger.Error("entry service peek entry number failed", err, logger.Fields{
			"companyCode": scope.CompanyCode,
			"fiscalYear":  scope.FiscalYear,
		})
		return commons.ErrorResponse[models.NextEntryNumberResponse]("failed to fetch next entry number", "Unable to read the entry counter right now"), err
	}

	return commons.SuccessResponse("next entry number fetched", models.NextEntryNumberResponse{
		EntryNumber: number,
		FiscalYear:  scope.FiscalYear,
		Advisory:    true,
	}), nil
}

func (s *EntryService) resolveAccounts(
	ctx context.Context,
	txType domain.TransactionType,
	req models.CreateEntryRequest,
	analyticCtx domain.AnalyticContext,
) (domain.AccountSelection, commons.Response[models.CreateEntryResponse], error) {
	accounts := s.defaultAccounts
	accounts.Expense = strings.TrimSpace(req.ExpenseAccount)
	accounts.Income = strings.TrimSpace(req.IncomeAccount)
	accounts.Payment = strings.TrimSpace(req.PaymentAccount)
	if analyticCtx.DefaultCashAccount != "" {
		accounts.Cash = analyticCtx.DefaultCashAccount
	}

	if txType.IsPurchase() {
		provider, err := s.masterDataRepo.GetProvider(ctx, strings.TrimSpace(req.ProviderCode))
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				validationErr := &domain.ValidationError{Messages: []string{"providerCode is not known"}}
				return accounts, commons.ValidationFailed[models.CreateEntryResponse](validationErr.Messages), validationErr
			}
			collabErr := &domain.CollaboratorError{Collaborator: "master-data", Err: err}
			logger.Error("entry service provider lookup failed", collabErr, logger.Fields{
				"providerCode": req.ProviderCode,
			})
			return accounts, commons.ErrorResponse[models.CreateEntryResponse]("failed to create entry", collabErr.Error()), collabErr
		}
		accounts.Provider = provider.Account
	}

	if accounts.Expense != "" {
		known, err := s.accountKnown(ctx, accounts.Expense, s.masterDataRepo.ListExpenseAccounts)
		if err != nil {
			collabErr := &domain.CollaboratorError{Collaborator: "master-data", Err: err}
			return accounts, commons.ErrorResponse[models.CreateEntryResponse]("failed to create entry", collabErr.Error()), collabErr
		}
		if !known {
			validationErr := &domain.ValidationError{Messages: []string{"expenseAccount is not in the chart of accounts"}}
			return accounts, commons.ValidationFailed[models.CreateEntryResponse](validationErr.Messages), validationErr
		}
	}
	if txType.IsIncome() && accounts.Income != "" {
		known, err := s.accountKnown(ctx, accounts.Income, s.masterDataRepo.ListIncomeAccounts)
		if err != nil {
			collabErr := &domain.CollaboratorError{Collaborator: "master-data", Err: err}
			return accounts, commons.ErrorResponse[models.CreateEntryResponse]("failed to create entry", collabErr.Error()), collabErr
		}
		if !known {
			validationErr := &domain.ValidationError{Messages: []string{"incomeAccount is not in the chart of accounts"}}
			return accounts, commons.ValidationFailed[models.CreateEntryResponse](validationErr.Messages), validationErr
		}
	}

	return accounts, commons.Response[models.CreateEntryResponse]{}, nil
}

func (s *EntryService) accountKnown(ctx context.Context, account string, list func(context.Context) ([]string, error)) (bool, error) {
	available, err := list(ctx)
	if err != nil {
		return false, err
	}
	for _, candidate := range available {
		if candidate == account {
			return true, nil
		}
	}
	return false, nil
}

// computeLines derives the tax amounts per line. Lines whose base is
// not positive are excluded from composition entirely.
func (s *EntryService) computeLines(lines []models.DetailLineRequest) []domain.TaxLine {
	computed := make([]domain.TaxLine, 0, len(lines))
	for _, line := range lines {
		base := domain.ParseAmount(line.Base)
		if !base.IsPositive() {
			continue
		}
		computed = append(computed, s.taxCalculator.Compute(
			base,
			domain.ParseAmount(line.VATRate),
			domain.ParseAmount(line.WithholdingRate),
		))
	}
	return computed
}

func mergeAnalytics(defaults domain.AnalyticDimensions, req models.CreateEntryRequest) domain.AnalyticDimensions {
	merged := defaults
	if trimmed := strings.TrimSpace(req.Channel); trimmed != "" {
		merged.Channel = trimmed
	}
	if trimmed := strings.TrimSpace(req.Project); trimmed != "" {
		merged.Project = trimmed
	}
	if trimmed := strings.TrimSpace(req.Section); trimmed != "" {
		merged.Section = trimmed
	}
	if trimmed := strings.TrimSpace(req.Department); trimmed != "" {
		merged.Department = trimmed
	}
	if trimmed := strings.TrimSpace(req.Delegation); trimmed != "" {
		merged.Delegation = trimmed
	}
	return merged
}

func mapEntryToCreateResponse(entry domain.Entry) models.CreateEntryResponse {
	return models.CreateEntryResponse{
		EntryNumber: entry.Number,
		FiscalYear:  entry.FiscalYear,
		EntryDate:   entry.Date.Format("2006-01-02"),
		Comment:     entry.Comment,
		TotalDebit:  entry.TotalDebit(),
		TotalCredit: entry.TotalCredit(),
		Movements:   mapMovements(entry.Movements),
	}
}

func mapMovements(movements []domain.Movement) []models.MovementResponse {
	out := make([]models.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, models.MovementResponse{
			Account:    m.Account,
			Direction:  string(m.Direction),
			Amount:     m.Amount,
			Channel:    m.Analytic.Channel,
			Project:    m.Analytic.Project,
			Section:    m.Analytic.Section,
			Department: m.Analytic.Department,
			Delegation: m.Analytic.Delegation,
		})
	}
	return out
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
