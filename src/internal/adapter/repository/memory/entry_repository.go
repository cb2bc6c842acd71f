package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/repository/repo_interfaces"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
)

// EntryRepository keeps committed entries in memory. Commit allocates
// the entry number and appends under one lock, so numbering and
// persistence stay atomic like the storage-backed drivers.
type EntryRepository struct {
	mu        sync.RWMutex
	sequences repo_interfaces.SequenceRepository
	entries   []domain.Entry
	nextID    int64
}

func NewEntryRepository(sequences repo_interfaces.SequenceRepository) *EntryRepository {
	return &EntryRepository{sequences: sequences}
}

func (r *EntryRepository) Commit(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	scope := domain.SequenceScope{CompanyCode: entry.CompanyCode, FiscalYear: entry.FiscalYear}
	number, err := r.sequences.Next(ctx, scope)
	if err != nil {
		return domain.Entry{}, &domain.AllocationError{Scope: scope, Err: err}
	}

	r.nextID++
	entry.ID = strconv.FormatInt(r.nextID, 10)
	entry.Number = number
	entry.CreatedAt = time.Now().UTC()
	entry.Movements = cloneMovements(entry.Movements)

	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *EntryRepository) Query(_ context.Context, query domain.EntryQuery) (domain.EntryPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.CompanyCode != query.CompanyCode {
			continue
		}
		if query.FiscalYear != 0 && entry.FiscalYear != query.FiscalYear {
			continue
		}
		if query.EntryNumber != nil && entry.Number != *query.EntryNumber {
			continue
		}
		if query.DateFrom != nil && entry.Date.Before(*query.DateFrom) {
			continue
		}
		if query.DateTo != nil && entry.Date.After(*query.DateTo) {
			continue
		}
		matched = append(matched, entry)
	}

	sortEntries(matched, query.SortField, query.SortDirection)

	total := len(matched)
	start := (query.Page - 1) * query.PageSize
	if start > total {
		start = total
	}
	end := start + query.PageSize
	if end > total {
		end = total
	}

	page := make([]domain.Entry, 0, end-start)
	for _, entry := range matched[start:end] {
		entry.Movements = cloneMovements(entry.Movements)
		page = append(page, entry)
	}

	return domain.EntryPage{Entries: page, TotalCount: total}, nil
}

func sortEntries(entries []domain.Entry, field domain.SortField, direction domain.SortDirection) {
	less := func(a, b domain.Entry) bool { return a.Number < b.Number }

	switch field {
	case domain.SortByDate:
		less = func(a, b domain.Entry) bool {
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
			return a.Number < b.Number
		}
	case domain.SortByTotalDebit:
		less = func(a, b domain.Entry) bool {
			cmp := a.TotalDebit().Cmp(b.TotalDebit())
			if cmp != 0 {
				return cmp < 0
			}
			return a.Number < b.Number
		}
	case domain.SortByTotalCredit:
		less = func(a, b domain.Entry) bool {
			cmp := a.TotalCredit().Cmp(b.TotalCredit())
			if cmp != 0 {
				return cmp < 0
			}
			return a.Number < b.Number
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if direction == domain.SortDescending {
			return less(entries[j], entries[i])
		}
		return less(entries[i], entries[j])
	})
}

func cloneMovements(movements []domain.Movement) []domain.Movement {
	out := make([]domain.Movement, len(movements))
	copy(out, movements)
	return out
}
