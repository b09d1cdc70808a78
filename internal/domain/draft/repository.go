package draft

import "context"

// HistoryStore is the persistence boundary for draft sessions. The engine
// depends only on this interface; storage technology lives behind it.
type HistoryStore interface {
	Save(ctx context.Context, session Session) error
	GetActive(ctx context.Context, tenantID string) (Session, bool, error)
	GetByID(ctx context.Context, tenantID, sessionID string) (Session, bool, error)
	GetLatestPublished(ctx context.Context, tenantID string) (Session, bool, error)
	ListPublished(ctx context.Context, tenantID string, limit int) ([]Session, error)
	ListTenantsWithActive(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, tenantID, sessionID string) error
}
