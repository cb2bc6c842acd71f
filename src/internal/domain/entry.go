package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type MovementDirection string

const (
	MovementDebit  MovementDirection = "D"
	MovementCredit MovementDirection = "H"
)

// AnalyticDimensions are opaque reporting tags carried on each movement.
// The core passes them through without interpreting them.
type AnalyticDimensions struct {
	Channel    string
	Project    string
	Section    string
	Department string
	Delegation string
}

type Movement struct {
	Account   string
	Direction MovementDirection
	Amount    decimal.Decimal
	Analytic  AnalyticDimensions
}

// Entry is a balanced set of ledger movements sharing one sequence number
// and date (asiento). Entries are append-only: once committed they are
// never updated or deleted.
type Entry struct {
	ID             string
	CompanyCode    string
	FiscalYear     int
	Number         int64
	Date           time.Time
	Comment        string
	Type           TransactionType
	DocumentSeries string
	DocumentNumber string
	ProviderCode   *string
	AttachmentRef  *string
	CreatedBy      string
	Movements      []Movement
	CreatedAt      time.Time
}

func (e Entry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, m := range e.Movements {
		if m.Direction == MovementDebit {
			total = total.Add(m.Amount)
		}
	}
	return total
}

func (e Entry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, m := range e.Movements {
		if m.Direction == MovementCredit {
			total = total.Add(m.Amount)
		}
	}
	return total
}

// MaxCommentLength is the column width of the entry comment field.
const MaxCommentLength = 40

// BuildComment combines a document number and free-text concept into the
// stored entry comment, truncated to MaxCommentLength runes.
func BuildComment(documentNumber string, concept string) string {
	parts := make([]string, 0, 2)
	if trimmed := strings.TrimSpace(documentNumber); trimmed != "" {
		parts = append(parts, trimmed)
	}
	if trimmed := strings.TrimSpace(concept); trimmed != "" {
		parts = append(parts, trimmed)
	}

	comment := strings.Join(parts, " ")
	runes := []rune(comment)
	if len(runes) > MaxCommentLength {
		return string(runes[:MaxCommentLength])
	}
	return comment
}
