package repo_interfaces

import (
	"context"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
)

// EntryRepository persists balanced entries and answers historical
// queries. Commit is atomic: the entry number is allocated and the entry
// plus all movements written in a single transaction, so an aborted
// commit consumes nothing.
type EntryRepository interface {
	Commit(ctx context.Context, entry domain.Entry) (domain.Entry, error)
	Query(ctx context.Context, query domain.EntryQuery) (domain.EntryPage, error)
}
