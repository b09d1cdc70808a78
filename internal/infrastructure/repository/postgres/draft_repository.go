package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/racha-hq/racha-manager/internal/domain/draft"
	qb "github.com/racha-hq/racha-manager/internal/platform/querybuilder"
)

// DraftHistoryRepository persists sessions in the draft_sessions table.
// Snapshots (constraints, participants, assignment) are stored as JSONB; the
// upsert only applies when the incoming version is newer, which backs the
// optimistic concurrency check with a storage-level guard.
type DraftHistoryRepository struct {
	db *sqlx.DB
}

func NewDraftHistoryRepository(db *sqlx.DB) *DraftHistoryRepository {
	return &DraftHistoryRepository{db: db}
}

func (r *DraftHistoryRepository) Save(ctx context.Context, session draft.Session) error {
	insertModel, err := draftSessionToInsertModel(session)
	if err != nil {
		return fmt.Errorf("encode draft session: %w", err)
	}

	query, args, err := qb.InsertModel("draft_sessions", insertModel, `ON CONFLICT (session_public_id)
DO UPDATE SET
    status = EXCLUDED.status,
    constraints = EXCLUDED.constraints,
    participants = EXCLUDED.participants,
    assignment = EXCLUDED.assignment,
    reserves = EXCLUDED.reserves,
    spread = EXCLUDED.spread,
    iterations = EXCLUDED.iterations,
    version = EXCLUDED.version,
    published_at = EXCLUDED.published_at,
    updated_at = EXCLUDED.updated_at,
    deleted_at = NULL
WHERE draft_sessions.version < EXCLUDED.version
RETURNING updated_at`)
	if err != nil {
		return fmt.Errorf("build draft session upsert query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("upsert draft session: %w", err)
	}
	defer rows.Close()

	var updatedAt time.Time
	if rows.Next() {
		if err := rows.Scan(&updatedAt); err != nil {
			return fmt.Errorf("scan draft session updated_at: %w", err)
		}
		return nil
	}

	return fmt.Errorf("%w: stored session is newer than id=%s version=%d", draft.ErrStaleVersion, session.ID, session.Version)
}

func (r *DraftHistoryRepository) GetActive(ctx context.Context, tenantID string) (draft.Session, bool, error) {
	query, args, err := draftSessionBaseSelectBuilder().
		Where(
			qb.Eq("tenant_id", tenantID),
			qb.Expr("status IN ('DRAFT', 'COMPUTED', 'ADJUSTED')"),
			qb.IsNull("deleted_at"),
		).
		OrderBy("updated_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return draft.Session{}, false, fmt.Errorf("build get active session query: %w", err)
	}

	return r.getOne(ctx, query, args...)
}

func (r *DraftHistoryRepository) GetByID(ctx context.Context, tenantID, sessionID string) (draft.Session, bool, error) {
	query, args, err := draftSessionBaseSelectBuilder().
		Where(
			qb.Eq("tenant_id", tenantID),
			qb.Eq("session_public_id", sessionID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return draft.Session{}, false, fmt.Errorf("build get session query: %w", err)
	}

	return r.getOne(ctx, query, args...)
}

func (r *DraftHistoryRepository) GetLatestPublished(ctx context.Context, tenantID string) (draft.Session, bool, error) {
	query, args, err := draftSessionBaseSelectBuilder().
		Where(
			qb.Eq("tenant_id", tenantID),
			qb.Eq("status", string(draft.StatusPublished)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("published_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return draft.Session{}, false, fmt.Errorf("build get latest published query: %w", err)
	}

	return r.getOne(ctx, query, args...)
}

func (r *DraftHistoryRepository) ListPublished(ctx context.Context, tenantID string, limit int) ([]draft.Session, error) {
	query, args, err := draftSessionBaseSelectBuilder().
		Where(
			qb.Eq("tenant_id", tenantID),
			qb.Expr("published_at IS NOT NULL"),
			qb.IsNull("deleted_at"),
		).
		OrderBy("published_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list published sessions query: %w", err)
	}

	var rows []draftSessionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list published sessions: %w", err)
	}

	out := make([]draft.Session, 0, len(rows))
	for _, row := range rows {
		session, err := draftSessionFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode draft session id=%s: %w", row.SessionID, err)
		}
		out = append(out, session)
	}
	return out, nil
}

func (r *DraftHistoryRepository) ListTenantsWithActive(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("DISTINCT tenant_id").
		From("draft_sessions").
		Where(
			qb.Expr("status IN ('DRAFT', 'COMPUTED', 'ADJUSTED')"),
			qb.IsNull("deleted_at"),
		).
		OrderBy("tenant_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tenants query: %w", err)
	}

	var tenants []string
	if err := r.db.SelectContext(ctx, &tenants, query, args...); err != nil {
		return nil, fmt.Errorf("list tenants with active sessions: %w", err)
	}
	return tenants, nil
}

func (r *DraftHistoryRepository) Delete(ctx context.Context, tenantID, sessionID string) error {
	query, args, err := qb.Update("draft_sessions").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("tenant_id", tenantID),
			qb.Eq("session_public_id", sessionID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete session query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete draft session: %w", err)
	}
	return nil
}

func (r *DraftHistoryRepository) getOne(ctx context.Context, query string, args ...any) (draft.Session, bool, error) {
	var row draftSessionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return draft.Session{}, false, nil
		}
		return draft.Session{}, false, fmt.Errorf("get draft session: %w", err)
	}

	session, err := draftSessionFromRow(row)
	if err != nil {
		return draft.Session{}, false, fmt.Errorf("decode draft session id=%s: %w", row.SessionID, err)
	}
	return session, true, nil
}

func draftSessionBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("draft_sessions")
}
