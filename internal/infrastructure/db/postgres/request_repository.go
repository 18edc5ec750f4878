package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/portalcliente/portal-api/internal/core/domain"
	"github.com/portalcliente/portal-api/internal/core/ports"
)

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

var _ ports.RequestRepository = (*RequestRepository)(nil)

const requestColumns = `r.id::text, r.owner_id::text, r.description, r.status, r.created_at,
        r.admin_response, r.monthly_value::text, r.answered_at, r.answered_by::text, r.idempotency_key`

const newestFirst = `ORDER BY r.created_at DESC, r.id DESC`

// requestRow holds the nullable answer columns while scanning.
type requestRow struct {
	req            domain.Request
	status         string
	adminResponse  *string
	monthlyValue   *string
	answeredAt     *time.Time
	answeredBy     *string
	idempotencyKey *string
}

func (rr *requestRow) dest() []any {
	return []any{
		&rr.req.ID, &rr.req.OwnerID, &rr.req.Description, &rr.status, &rr.req.CreatedAt,
		&rr.adminResponse, &rr.monthlyValue, &rr.answeredAt, &rr.answeredBy, &rr.idempotencyKey,
	}
}

func (rr *requestRow) toDomain() (*domain.Request, error) {
	r := rr.req
	r.Status = domain.RequestStatus(rr.status)
	r.CreatedAt = r.CreatedAt.UTC()
	if rr.idempotencyKey != nil {
		r.IdempotencyKey = *rr.idempotencyKey
	}
	if rr.adminResponse != nil && rr.monthlyValue != nil && rr.answeredAt != nil {
		value, err := decimal.NewFromString(*rr.monthlyValue)
		if err != nil {
			return nil, fmt.Errorf("decode monthly_value of %s: %w", r.ID, err)
		}
		a := &domain.Answer{Response: *rr.adminResponse, MonthlyValue: value, AnsweredAt: rr.answeredAt.UTC()}
		if rr.answeredBy != nil {
			a.AnsweredBy = *rr.answeredBy
		}
		r.Answer = a
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("request %s: %w", r.ID, err)
	}
	return &r, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Insert stores a new request. A duplicate (owner, idempotency key) pair
// yields domain.ErrDuplicateIdempotencyKey.
func (r *RequestRepository) Insert(ctx context.Context, req *domain.Request) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const query = `
        INSERT INTO requests (id, owner_id, description, status, created_at, idempotency_key)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		req.ID, req.OwnerID, req.Description, string(req.Status), req.CreatedAt.UTC(), nullable(req.IdempotencyKey))
	if err != nil {
		if isUniqueViolation(err) && req.IdempotencyKey != "" {
			return domain.ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrRequestNotFound
	}
	return r.findOne(ctx, `SELECT `+requestColumns+` FROM requests r WHERE r.id = $1`, id)
}

func (r *RequestRepository) FindByIdempotencyKey(ctx context.Context, ownerID, key string) (*domain.Request, error) {
	return r.findOne(ctx,
		`SELECT `+requestColumns+` FROM requests r WHERE r.owner_id = $1 AND r.idempotency_key = $2`,
		ownerID, key)
}

func (r *RequestRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row requestRow
	if err := r.pool.QueryRow(ctx, query, args...).Scan(row.dest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return row.toDomain()
}

func (r *RequestRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + requestColumns + ` FROM requests r WHERE r.owner_id = $1 ` + newestFirst
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	out := []*domain.Request{}
	for rows.Next() {
		var row requestRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		req, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return out, nil
}

func (r *RequestRepository) FindAllWithOwners(ctx context.Context) ([]*domain.RequestWithOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + requestColumns + `, COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.cpf, '')
        FROM requests r LEFT JOIN users u ON u.id = r.owner_id ` + newestFirst
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	out := []*domain.RequestWithOwner{}
	for rows.Next() {
		var row requestRow
		var owner domain.OwnerProfile
		dest := append(row.dest(), &owner.Name, &owner.Email, &owner.CPF)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		req, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.RequestWithOwner{Request: *req, Owner: owner})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return out, nil
}

// MarkAnswered applies the answer only while the request is pending. When the
// conditional update matches no row, the request is re-read to tell a missing
// id from a lost race.
func (r *RequestRepository) MarkAnswered(ctx context.Context, id string, answer domain.Answer) (*domain.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
        UPDATE requests r
        SET status = $2, admin_response = $3, monthly_value = $4::numeric, answered_at = $5, answered_by = $6
        WHERE r.id = $1 AND r.status = $7
        RETURNING ` + requestColumns

	var row requestRow
	err := r.pool.QueryRow(ctx, query,
		id, string(domain.StatusAnswered), answer.Response, answer.MonthlyValue.StringFixed(2),
		answer.AnsweredAt.UTC(), answer.AnsweredBy, string(domain.StatusPending),
	).Scan(row.dest()...)
	if err == nil {
		return row.toDomain()
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("answer request: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("answer request: %w", err)
	}
	if !exists {
		return nil, domain.ErrRequestNotFound
	}
	return nil, domain.ErrAlreadyAnswered
}
