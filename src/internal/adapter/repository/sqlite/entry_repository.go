package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/logger"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Commit mirrors the postgres driver: number allocation and all writes
// share one transaction, so an aborted commit releases its number.
func (r *EntryRepository) Commit(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	scope := domain.SequenceScope{CompanyCode: entry.CompanyCode, FiscalYear: entry.FiscalYear}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Entry{}, &domain.PersistenceError{Err: fmt.Errorf("begin commit tx: %w", err)}
	}
	defer func() { _ = tx.Rollback() }()

	number, err := allocateNumber(ctx, tx, scope)
	if err != nil {
		return domain.Entry{}, &domain.AllocationError{Scope: scope, Err: err}
	}

	createdAt := time.Now().UTC()

	const insertEntry = `
INSERT INTO entries (
	company_code, fiscal_year, entry_number, entry_date, comment,
	transaction_type, document_series, document_number, provider_code,
	attachment_ref, created_by, total_debit, total_credit, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(
		ctx,
		insertEntry,
		entry.CompanyCode,
		entry.FiscalYear,
		number,
		entry.Date.Format(dateLayout),
		entry.Comment,
		string(entry.Type),
		entry.DocumentSeries,
		entry.DocumentNumber,
		entry.ProviderCode,
		entry.AttachmentRef,
		entry.CreatedBy,
		entry.TotalDebit().StringFixed(2),
		entry.TotalCredit().StringFixed(2),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		logger.Error("sqlite entry repository insert entry failed", err, logger.Fields{
			"companyCode": entry.CompanyCode,
			"entryNumber": number,
		})
		return domain.Entry{}, &domain.PersistenceError{Err: fmt.Errorf("insert entry: %w", err)}
	}

	entryID, err := result.LastInsertId()
	if err != nil {
		return domain.Entry{}, &domain.PersistenceError{Err: fmt.Errorf("entry id: %w", err)}
	}

	const insertMovement = `
INSERT INTO movements (
	entry_id, position, account, direction, amount,
	channel, project, section, department, delegation
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for i, m := range entry.Movements {
		if _, err := tx.ExecContext(
			ctx,
			insertMovement,
			entryID,
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
			return domain.Entry{}, &domain.PersistenceError{Err: fmt.Errorf("insert movement %d: %w", i+1, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Entry{}, &domain.PersistenceError{Err: fmt.Errorf("commit entry tx: %w", err)}
	}

	entry.ID = strconv.FormatInt(entryID, 10)
	entry.Number = number
	entry.CreatedAt = createdAt

	return entry, nil
}

func (r *EntryRepository) Query(ctx context.Context, query domain.EntryQuery) (domain.EntryPage, error) {
	where := "company_code = ?"
	args := []any{query.CompanyCode}

	if query.FiscalYear != 0 {
		where += " AND fiscal_year = ?"
		args = append(args, query.FiscalYear)
	}
	if query.EntryNumber != nil {
		where += " AND entry_number = ?"
		args = append(args, *query.EntryNumber)
	}
	if query.DateFrom != nil {
		where += " AND entry_date >= ?"
		args = append(args, query.DateFrom.Format(dateLayout))
	}
	if query.DateTo != nil {
		where += " AND entry_date <= ?"
		args = append(args, query.DateTo.Format(dateLayout))
	}

	var totalCount int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM entries WHERE "+where, args...).Scan(&totalCount); err != nil {
		return domain.EntryPage{}, fmt.Errorf("count entries: %w", err)
	}

	orderBy := sortColumn(query.SortField)
	direction := "ASC"
	if query.SortDirection == domain.SortDescending {
		direction = "DESC"
	}

	selectEntries := fmt.Sprintf(`
SELECT id, company_code, fiscal_year, entry_number, entry_date, comment,
       transaction_type, document_series, document_number, provider_code,
       attachment_ref, created_by, created_at
FROM entries
WHERE %s
ORDER BY %s %s, entry_number ASC
LIMIT ? OFFSET ?`, where, orderBy, direction)

	args = append(args, query.PageSize, (query.Page-1)*query.PageSize)

	rows, err := r.db.QueryContext(ctx, selectEntries, args...)
	if err != nil {
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
			entryID       int64
			entryDate     string
			transaction   string
			providerCode  sql.NullString
			attachmentRef sql.NullString
			createdAt     string
		)
		if err := rows.Scan(
			&entryID,
			&entry.CompanyCode,
			&entry.FiscalYear,
			&entry.Number,
			&entryDate,
			&entry.Comment,
			&transaction,
			&entry.DocumentSeries,
			&entry.DocumentNumber,
			&providerCode,
			&attachmentRef,
			&entry.CreatedBy,
			&createdAt,
		); err != nil {
			return domain.EntryPage{}, fmt.Errorf("scan entry: %w", err)
		}

		entry.ID = strconv.FormatInt(entryID, 10)
		entry.Type = domain.TransactionType(transaction)
		if entry.Date, err = time.Parse(dateLayout, entryDate); err != nil {
			return domain.EntryPage{}, fmt.Errorf("parse entry date %q: %w", entryDate, err)
		}
		if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
			entry.CreatedAt = parsed
		}
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
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(entryIDs)), ",")
	args := make([]any, 0, len(entryIDs))
	for _, id := range entryIDs {
		args = append(args, id)
	}

	query := fmt.Sprintf(`
SELECT entry_id, account, direction, amount,
       channel, project, section, department, delegation
FROM movements
WHERE entry_id IN (%s)
ORDER BY entry_id, position`, placeholders)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Movement, len(entryIDs))
	for rows.Next() {
		var (
			entryID   int64
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
		key := strconv.FormatInt(entryID, 10)
		out[key] = append(out[key], movement)
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
		return "CAST(total_debit AS REAL)"
	case domain.SortByTotalCredit:
		return "CAST(total_credit AS REAL)"
	default:
		return "entry_number"
	}
}
