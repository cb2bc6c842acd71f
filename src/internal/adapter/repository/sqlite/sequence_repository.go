package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
)

type SequenceRepository struct {
	db *sql.DB
}

func NewSequenceRepository(db *sql.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

func (r *SequenceRepository) Next(ctx context.Context, scope domain.SequenceScope) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &domain.AllocationError{Scope: scope, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	number, err := allocateNumber(ctx, tx, scope)
	if err != nil {
		return 0, &domain.AllocationError{Scope: scope, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, &domain.AllocationError{Scope: scope, Err: err}
	}
	return number, nil
}

func (r *SequenceRepository) Peek(ctx context.Context, scope domain.SequenceScope) (int64, error) {
	const query = `
SELECT COALESCE(
	(SELECT last_number FROM entry_counters WHERE company_code = ? AND fiscal_year = ?),
	0) + 1`

	var number int64
	if err := r.db.QueryRowContext(ctx, query, scope.CompanyCode, scope.FiscalYear).Scan(&number); err != nil {
		return 0, &domain.AllocationError{Scope: scope, Err: err}
	}
	return number, nil
}

// allocateNumber bumps the scope counter inside the caller's
// transaction. sqlite serializes writers, so the increment cannot race.
func allocateNumber(ctx context.Context, tx *sql.Tx, scope domain.SequenceScope) (int64, error) {
	const upsert = `
INSERT INTO entry_counters (company_code, fiscal_year, last_number)
VALUES (?, ?, 0)
ON CONFLICT (company_code, fiscal_year) DO NOTHING`

	if _, err := tx.ExecContext(ctx, upsert, scope.CompanyCode, scope.FiscalYear); err != nil {
		return 0, fmt.Errorf("seed counter: %w", err)
	}

	const bump = `
UPDATE entry_counters
SET last_number = last_number + 1
WHERE company_code = ? AND fiscal_year = ?`

	if _, err := tx.ExecContext(ctx, bump, scope.CompanyCode, scope.FiscalYear); err != nil {
		return 0, fmt.Errorf("bump counter: %w", err)
	}

	const read = `
SELECT last_number FROM entry_counters
WHERE company_code = ? AND fiscal_year = ?`

	var number int64
	if err := tx.QueryRowContext(ctx, read, scope.CompanyCode, scope.FiscalYear).Scan(&number); err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	return number, nil
}
