package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portalcliente/portal-api/internal/core/domain"
	"github.com/portalcliente/portal-api/internal/core/ports"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

func (r *AuditRepository) Append(ctx context.Context, event *domain.RequestEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const query = `
        INSERT INTO request_events (request_id, type, actor_id, status, occurred_at)
        VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		event.RequestID, string(event.Type), event.ActorID, string(event.Status), event.OccurredAt.UTC())
	if err != nil {
		return fmt.Errorf("insert request event: %w", err)
	}
	return nil
}
