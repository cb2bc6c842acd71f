package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/logger"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Commit allocates the entry number and writes the entry plus all its
// movements in one transaction. A rollback releases the number, so no
// gap is left behind by a failed write.
func (r *EntryRepository) Commit(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	logger.Info("entry repository commit", logger.Fields{
		"companyCode": entry.CompanyCode,
		"fiscalYear":  entry.FiscalYear,
		"type":        string(entry.Type),
		"movements":   len(entry.Movements),
	})

	scope := domain.SequenceScope{CompanyCode: entry.CompanyCode, FiscalYear: entry.FiscalYear}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Entry{}, &domain.PersistenceError{Err: fmt.Errorf("begin commit tx: %w", err)}
	}
	defer func() { _ = tx.Rollback() }()

	var number int64
	if err := tx.QueryRowContext(ctx, allocateNumberQuery, scope.CompanyCode, scope.FiscalYear).Scan(&number); err != nil {
		logger.Error("entry repository number allocation failed", err, logger.Fields{
			"companyCode": scope.CompanyCode,
			"fiscalYear":  scope.FiscalYear,
		})
		return domain.Entry{}, &domain.AllocationError{Scope: scope, Err: err}
	}

	const insertEntry = `
INSERT INTO entries (
	company_code,
	fiscal_year,
	entry_number,
	entry_date,
	comment,
	transaction_type,
	document_series,
	document_number,
	provider_code,
	attachment_ref,
	created_by,
	total_debit,
	total_credit
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
)
RETURNING id, created_at`

	var (
		id        string
		createdAt time.Time
	)

	if err := tx.QueryRowContext(
		ctx,
		insertEntry,
		entry.CompanyCode,
		entry.FiscalYear,
		number,
		entry.Date,
		entry.Comment,
		string(entry.Type),
		entry.DocumentSeries,
		entry.DocumentNumber,
		entry.ProviderCode,
		entry.AttachmentRef,
		entry.CreatedBy,
		entry.TotalDebit().StringFixed(2),
		entry.TotalCredit().StringFixed(2),
	).Scan(&id, &createdAt); err != nil {
		logger.Error("entry repository insert entry failed", err, logger.Fields{
			"companyCode": entry.CompanyCode,
			"entryNumber": number,
		})
		return domain.Entry{}, &domain.PersistenceError{Err: fmt.Errorf("insert entry: %w", err)}
	}

	const insertMovement = `
INSERT INTO movements (
	entry_id, position, account, direction, amount,
	channel, project, section, department, delegation
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for i, m := range entry.Movements {
		if _, err := tx.ExecContext(
			ctx,
			insertMovement,
			id,
			i+1,
			m.Account,
			string(m.Direction),
			m.Amount.StringFixed(2),
			m.Analytic.Channel,
			m.Analytic.Project,
			m.Analytic.Section,
			m.Analytic.Department,
			m.Analytic.Delegation,
		); err != nil {
			logger.Error("entry repository insert movement failed", err, logger.Fields{
				"entryNumber": number,
				"position":    i + 1,
			})
			return domain.Entry{}, &domain.PersistenceError{Err: fmt.Errorf("insert movement %d: %w", i+1, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Entry{}, &domain.PersistenceError{Err: fmt.Errorf("commit entry tx: %w", err)}
	}

	entry.ID = id
	entry.Number = number
	entry.CreatedAt = createdAt

	logger.Info("entry repository commit success", logger.Fields{
		"entryId":     id,
		"entryNumber": number,
		"fiscalYear":  entry.FiscalYear,
	})

	return entry, nil
}

func (r *EntryRepository) Query(ctx context.Context, query domain.EntryQuery) (domain.EntryPage, error) {
	where := "company_code = $1"
	args := []any{query.CompanyCode}

	if query.FiscalYear != 0 {
		args = append(args, query.FiscalYear)
		where += fmt.Sprintf(" AND fiscal_year = $%d", len(args))
	}
	if query.EntryNumber != nil {
		args = append(args, *query.EntryNumber)
		where += fmt.Sprintf(" AND entry_number = $%d", len(args))
	}
	if query.DateFrom != nil {
		args = append(args, *query.DateFrom)
		where += fmt.Sprintf(" AND entry_date >= $%d", len(args))
	}
	if query.DateTo != nil {
		args = append(args, *query.DateTo)
		where += fmt.Sprintf(" AND entry_date <= $%d", len(args))
	}

	// The count runs standalone so a page window past the last row still
	// reports the full match total.
	var totalCount int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM entries WHERE "+where, args...).Scan(&totalCount); err != nil {
		logger.Error("entry repository count failed", err, nil)
		return domain.EntryPage{}, fmt.Errorf("count entries: %w", err)
	}

	orderBy := sortColumn(query.SortField)
	direction := "ASC"
	if query.SortDirection == domain.SortDescending {
		direction = "DESC"
	}

	args = append(args, query.PageSize, (query.Page-1)*query.PageSize)
	selectEntries := fmt.Sprintf(`
SELECT id, company_code, fiscal_year, entry_number, entry_date, comment,
       transaction_type, document_series, document_number, provider_code,
       attachment_ref, created_by, created_at
FROM entries
WHERE %s
ORDER BY %s %s, entry_number ASC
LIMIT $%d OFFSET $%d`, where, orderBy, direction, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, selectEntries, args...)
	if err != nil {
		logger.Error("entry repository query failed", err, nil)
		return domain.EntryPage{}, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var (
		entries  []domain.Entry
		entryIDs []string
	)

	for rows.Next() {
		var (
			entry         domain.Entry
			transaction   string
			providerCode  sql.NullString
			attachmentRef sql.NullString
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.CompanyCode,
			&entry.FiscalYear,
			&entry.Number,
			&entry.Date,
			&entry.Comment,
			&transaction,
			&entry.DocumentSeries,
			&entry.DocumentNumber,
			&providerCode,
			&attachmentRef,
			&entry.CreatedBy,
			&entry.CreatedAt,
		); err != nil {
			return domain.EntryPage{}, fmt.Errorf("scan entry: %w", err)
		}
		entry.Type = domain.TransactionType(transaction)
		if providerCode.Valid {
			value := providerCode.String
			entry.ProviderCode = &value
		}
		if attachmentRef.Valid {
			value := attachmentRef.String
			entry.AttachmentRef = &value
		}
		entries = append(entries, entry)
		entryIDs = append(entryIDs, entry.ID)
	}
	if err := rows.Err(); err != nil {
		return domain.EntryPage{}, fmt.Errorf("iterate entries: %w", err)
	}

	if len(entries) == 0 {
		return domain.EntryPage{Entries: []domain.Entry{}, TotalCount: totalCount}, nil
	}

	movements, err := r.loadMovements(ctx, entryIDs)
	if err != nil {
		return domain.EntryPage{}, err
	}
	for i := range entries {
		entries[i].Movements = movements[entries[i].ID]
	}

	return domain.EntryPage{Entries: entries, TotalCount: totalCount}, nil
}

func (r *EntryRepository) loadMovements(ctx context.Context, entryIDs []string) (map[string][]domain.Movement, error) {
	const query = `
SELECT entry_id, account, direction, amount,
       channel, project, section, department, delegation
FROM movements
WHERE entry_id = ANY($1)
ORDER BY entry_id, position`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(entryIDs))
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Movement, len(entryIDs))
	for rows.Next() {
		var (
			entryID   string
			movement  domain.Movement
			direction string
			amount    string
		)
		if err := rows.Scan(
			&entryID,
			&movement.Account,
			&direction,
			&amount,
			&movement.Analytic.Channel,
			&movement.Analytic.Project,
			&movement.Analytic.Section,
			&movement.Analytic.Department,
			&movement.Analytic.Delegation,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movement.Direction = domain.MovementDirection(direction)
		movement.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse movement amount %q: %w", amount, err)
		}
		out[entryID] = append(out[entryID], movement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}

	return out, nil
}

func sortColumn(field domain.SortField) string {
	switch field {
	case domain.SortByDate:
		return "entry_date"
	case domain.SortByTotalDebit:
		return "total_debit"
	case domain.SortByTotalCredit:
		return "total_credit"
	default:
		return "entry_number"
	}
}
