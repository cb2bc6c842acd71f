package models

import (
	"strings"
	"time"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/shopspring/decimal"
)

const DefaultPageSize = 20
const maxPageSize = 200

type GetEntriesRequest struct {
	EntryNumber   *int64 `json:"entryNumber,omitempty"`
	FiscalYear    int    `json:"fiscalYear,omitempty"`
	DateFrom      string `json:"dateFrom,omitempty"`
	DateTo        string `json:"dateTo,omitempty"`
	Page          int    `json:"page,omitempty"`
	PageSize      int    `json:"pageSize,omitempty"`
	SortField     string `json:"sortField,omitempty"`
	SortDirection string `json:"sortDirection,omitempty"`
}

func (r GetEntriesRequest) Validate() error {
	var errs []string

	if r.EntryNumber != nil && *r.EntryNumber <= 0 {
		errs = append(errs, "entryNumber must be greater than zero")
	}
	// Zero means "not set" and is replaced by a default in ToQuery.
	if r.Page < 0 {
		errs = append(errs, "page must not be negative")
	}
	if r.PageSize < 0 {
		errs = append(errs, "pageSize must not be negative")
	}
	if r.PageSize > maxPageSize {
		errs = append(errs, "pageSize must not exceed 200")
	}

	for field, value := range map[string]string{
		"dateFrom": r.DateFrom,
		"dateTo":   r.DateTo,
	} {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, strings.TrimSpace(value)); err != nil {
			errs = append(errs, field+" must be in YYYY-MM-DD format")
		}
	}

	if field := strings.TrimSpace(r.SortField); field != "" && !domain.SortField(field).Valid() {
		errs = append(errs, "sortField must be one of number, date, totalDebit, totalCredit")
	}
	if direction := strings.TrimSpace(r.SortDirection); direction != "" && !domain.SortDirection(direction).Valid() {
		errs = append(errs, "sortDirection must be asc or desc")
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Messages: errs}
	}
	return nil
}

// ToQuery applies defaults and builds the repository query. Validate
// must have passed first.
func (r GetEntriesRequest) ToQuery(companyCode string) domain.EntryQuery {
	query := domain.EntryQuery{
		CompanyCode:   companyCode,
		FiscalYear:    r.FiscalYear,
		EntryNumber:   r.EntryNumber,
		SortField:     domain.SortByNumber,
		SortDirection: domain.SortAscending,
		Page:          r.Page,
		PageSize:      r.PageSize,
	}

	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 {
		query.PageSize = DefaultPageSize
	}
	if field := strings.TrimSpace(r.SortField); field != "" {
		query.SortField = domain.SortField(field)
	}
	if direction := strings.TrimSpace(r.SortDirection); direction != "" {
		query.SortDirection = domain.SortDirection(direction)
	}
	if from := strings.TrimSpace(r.DateFrom); from != "" {
		if parsed, err := time.Parse(dateLayout, from); err == nil {
			query.DateFrom = &parsed
		}
	}
	if to := strings.TrimSpace(r.DateTo); to != "" {
		if parsed, err := time.Parse(dateLayout, to); err == nil {
			query.DateTo = &parsed
		}
	}

	return query
}

type EntryResponse struct {
	EntryNumber int64              `json:"entryNumber"`
	FiscalYear  int                `json:"fiscalYear"`
	EntryDate   string             `json:"entryDate"`
	Comment     string             `json:"comment"`
	Type        string             `json:"type"`
	TotalDebit  decimal.Decimal    `json:"totalDebit"`
	TotalCredit decimal.Decimal    `json:"totalCredit"`
	Difference  decimal.Decimal    `json:"difference"`
	Movements   []MovementResponse `json:"movements"`
}

type GetEntriesResponse struct {
	Entries    []EntryResponse `json:"entries"`
	TotalCount int             `json:"totalCount"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	PageCount  int             `json:"pageCount"`
}
