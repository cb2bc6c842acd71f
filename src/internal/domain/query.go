package domain

import "time"

type SortField string

const (
	SortByNumber      SortField = "number"
	SortByDate        SortField = "date"
	SortByTotalDebit  SortField = "totalDebit"
	SortByTotalCredit SortField = "totalCredit"
)

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByNumber, SortByDate, SortByTotalDebit, SortByTotalCredit:
		return true
	}
	return false
}

func (d SortDirection) Valid() bool {
	return d == SortAscending || d == SortDescending
}

// EntryQuery describes one historical read: exact-number or date-range
// filtering, a sort order, and a page window.
type EntryQuery struct {
	CompanyCode   string
	FiscalYear    int
	EntryNumber   *int64
	DateFrom      *time.Time
	DateTo        *time.Time
	SortField     SortField
	SortDirection SortDirection
	Page          int
	PageSize      int
}

// EntryPage is one page of query results plus the total match count, so
// callers can compute the page count themselves.
type EntryPage struct {
	Entries    []Entry
	TotalCount int
}
