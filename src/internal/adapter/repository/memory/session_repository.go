package memory

import (
	"context"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
)

// SessionRepository supplies the session-scoped analytic defaults the
// identity collaborator would attach to the acting user.
type SessionRepository struct {
	defaults domain.AnalyticContext
}

func NewSessionRepository(defaults domain.AnalyticContext) *SessionRepository {
	return &SessionRepository{defaults: defaults}
}

func (r *SessionRepository) GetAnalyticContext(_ context.Context, _ string) (domain.AnalyticContext, error) {
	return r.defaults, nil
}
