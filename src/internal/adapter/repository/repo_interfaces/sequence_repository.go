package repo_interfaces

import (
	"context"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
)

// SequenceRepository serializes entry-number allocation per scope.
// Next consumes a number; Peek only reports the next available one and
// is advisory, so a peeked number may be taken by a concurrent commit.
type SequenceRepository interface {
	Next(ctx context.Context, scope domain.SequenceScope) (int64, error)
	Peek(ctx context.Context, scope domain.SequenceScope) (int64, error)
}
