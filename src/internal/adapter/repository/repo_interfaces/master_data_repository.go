package repo_interfaces

import (
	"context"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
)

type MasterDataRepository interface {
	GetProvider(ctx context.Context, code string) (domain.Provider, error)
	ListExpenseAccounts(ctx context.Context) ([]string, error)
	ListIncomeAccounts(ctx context.Context) ([]string, error)
}

type SessionRepository interface {
	GetAnalyticContext(ctx context.Context, userID string) (domain.AnalyticContext, error)
}

// AttachmentStore accepts a file reference string. The core persists the
// reference with the entry but never reads the file content.
type AttachmentStore interface {
	Save(ctx context.Context, reference string) error
}
