package services

import (
	"context"
	"errors"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/http/models"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/repository/repo_interfaces"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/commons"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/logger"
)

// EntryQueryService answers historical reads. Queries bypass the
// composer entirely and are safe to run concurrently with commits.
type EntryQueryService struct {
	entryRepo   repo_interfaces.EntryRepository
	companyCode string
}

func NewEntryQueryService(entryRepo repo_interfaces.EntryRepository, companyCode string) *EntryQueryService {
	return &EntryQueryService{
		entryRepo:   entryRepo,
		companyCode: companyCode,
	}
}

func (s *EntryQueryService) GetEntries(ctx context.Context, req models.GetEntriesRequest) (commons.Response[models.GetEntriesResponse], error) {
	logger.Info("entry query service get entries request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("entry query service validation failed", err, nil)
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return commons.ValidationFailed[models.GetEntriesResponse](validationErr.Messages), err
		}
		return commons.ErrorResponse[models.GetEntriesResponse]("validation failed", err.Error()), err
	}

	query := req.ToQuery(s.companyCode)

	page, err := s.entryRepo.Query(ctx, query)
	if err != nil {
		logger.Error("entry query service repository query failed", err, logger.Fields{
			"page":     query.Page,
			"pageSize": query.PageSize,
		})
		// An explicit error flag with an empty page, never a silently
		// empty success.
		return commons.ErrorResponse[models.GetEntriesResponse]("failed to query entries", "Unable to fetch entries right now"), err
	}

	entries := make([]models.EntryResponse, 0, len(page.Entries))
	for _, entry := range page.Entries {
		totalDebit := entry.TotalDebit()
		totalCredit := entry.TotalCredit()
		entries = append(entries, models.EntryResponse{
			EntryNumber: entry.Number,
			FiscalYear:  entry.FiscalYear,
			EntryDate:   entry.Date.Format("2006-01-02"),
			Comment:     entry.Comment,
			Type:        string(entry.Type),
			TotalDebit:  totalDebit,
			TotalCredit: totalCredit,
			Difference:  totalDebit.Sub(totalCredit),
			Movements:   mapMovements(entry.Movements),
		})
	}

	pageCount := page.TotalCount / query.PageSize
	if page.TotalCount%query.PageSize != 0 {
		pageCount++
	}

	response := models.GetEntriesResponse{
		Entries:    entries,
		TotalCount: page.TotalCount,
		Page:       query.Page,
		PageSize:   query.PageSize,
		PageCount:  pageCount,
	}

	logger.Info("entry query service get entries success", logger.Fields{
		"totalCount": page.TotalCount,
		"returned":   len(entries),
	})

	return commons.SuccessResponse("entries fetched", response), nil
}
