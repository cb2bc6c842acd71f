package postgres

import (
	"context"
	"database/sql"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/logger"
)

// allocateNumberQuery serializes concurrent allocations on the counter
// row: the upsert takes a row lock, so N concurrent calls yield N
// distinct numbers with no lost increments.
const allocateNumberQuery = `
INSERT INTO entry_counters (company_code, fiscal_year, last_number)
VALUES ($1, $2, 1)
ON CONFLICT (company_code, fiscal_year)
DO UPDATE SET last_number = entry_counters.last_number + 1
RETURNING last_number`

const peekNumberQuery = `
SELECT COALESCE(
	(SELECT last_number FROM entry_counters WHERE company_code = $1 AND fiscal_year = $2),
	0) + 1`

type SequenceRepository struct {
	db *sql.DB
}

func NewSequenceRepository(db *sql.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next consumes the next entry number for the scope. Callers that also
// persist an entry should prefer EntryRepository.Commit, which runs the
// same allocation inside the entry's transaction.
func (r *SequenceRepository) Next(ctx context.Context, scope domain.SequenceScope) (int64, error) {
	var number int64
	if err := r.db.QueryRowContext(ctx, allocateNumberQuery, scope.CompanyCode, scope.FiscalYear).Scan(&number); err != nil {
		logger.Error("sequence repository allocate failed", err, logger.Fields{
			"companyCode": scope.CompanyCode,
			"fiscalYear":  scope.FiscalYear,
		})
		return 0, &domain.AllocationError{Scope: scope, Err: err}
	}
	return number, nil
}

// Peek reads the next free number without consuming it. Advisory only.
func (r *SequenceRepository) Peek(ctx context.Context, scope domain.SequenceScope) (int64, error) {
	var number int64
	if err := r.db.QueryRowContext(ctx, peekNumberQuery, scope.CompanyCode, scope.FiscalYear).Scan(&number); err != nil {
		logger.Error("sequence repository peek failed", err, logger.Fields{
			"companyCode": scope.CompanyCode,
			"fiscalYear":  scope.FiscalYear,
		})
		return 0, &domain.AllocationError{Scope: scope, Err: err}
	}
	return number, nil
}
