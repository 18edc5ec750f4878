package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/portalcliente/portal-api/internal/core/domain"
	"github.com/portalcliente/portal-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	findErr error // if set, FindByID and FindByEmail return this error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		clone := *u
		r.byID[u.ID] = &clone
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := *user
	r.byID[user.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	return nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id, role string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = at
	return nil
}

type stubRequestRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Request
	users     *stubUserRepo
	insertErr error // if set, Insert returns this error
	listErr   error // if set, list methods return this error
	inserts   int
}

func newStubRequestRepo(users *stubUserRepo) *stubRequestRepo {
	return &stubRequestRepo{byID: make(map[string]*domain.Request), users: users}
}

func cloneRequest(r *domain.Request) *domain.Request {
	clone := *r
	if r.Answer != nil {
		a := *r.Answer
		clone.Answer = &a
	}
	return &clone
}

func (r *stubRequestRepo) Insert(_ context.Context, req *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	if req.IdempotencyKey != "" {
		for _, existing := range r.byID {
			if existing.OwnerID == req.OwnerID && existing.IdempotencyKey == req.IdempotencyKey {
				return domain.ErrDuplicateIdempotencyKey
			}
		}
	}
	r.inserts++
	r.byID[req.ID] = cloneRequest(req)
	return nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id string) (*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return cloneRequest(req), nil
}

// sorted mirrors the store ordering: created_at desc, id desc.
func (r *stubRequestRepo) sorted(filter func(*domain.Request) bool) []*domain.Request {
	out := []*domain.Request{}
	for _, req := range r.byID {
		if filter(req) {
			out = append(out, cloneRequest(req))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *stubRequestRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.sorted(func(req *domain.Request) bool { return req.OwnerID == ownerID }), nil
}

func (r *stubRequestRepo) FindByIdempotencyKey(_ context.Context, ownerID, key string) (*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.byID {
		if req.OwnerID == ownerID && req.IdempotencyKey == key {
			return cloneRequest(req), nil
		}
	}
	return nil, domain.ErrRequestNotFound
}

func (r *stubRequestRepo) FindAllWithOwners(ctx context.Context) ([]*domain.RequestWithOwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []*domain.RequestWithOwner{}
	for _, req := range r.sorted(func(*domain.Request) bool { return true }) {
		row := &domain.RequestWithOwner{Request: *req}
		if owner, err := r.users.FindByID(ctx, req.OwnerID); err == nil {
			row.Owner = owner.OwnerProfile()
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *stubRequestRepo) MarkAnswered(_ context.Context, id string, a domain.Answer) (*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if err := req.ApplyAnswer(a); err != nil {
		return nil, err
	}
	return cloneRequest(req), nil
}

type stubAuditRepo struct {
	mu     sync.Mutex
	events []domain.RequestEvent
	err    error
}

func (r *stubAuditRepo) Append(_ context.Context, e *domain.RequestEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

type stubQueue struct {
	mu   sync.Mutex
	sent []ports.Notification
	full bool
}

func (q *stubQueue) Enqueue(n ports.Notification) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.full {
		return false
	}
	q.sent = append(q.sent, n)
	return true
}

type stubSessionStore struct {
	mu        sync.Mutex
	revoked   map[string]time.Time
	resets    map[string]string
	revokeErr error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{revoked: make(map[string]time.Time), resets: make(map[string]string)}
}

func (s *stubSessionStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revokeErr != nil {
		return s.revokeErr
	}
	s.revoked[tokenID] = until
	return nil
}

func (s *stubSessionStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

func (s *stubSessionStore) SaveResetToken(_ context.Context, tokenHash, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets[tokenHash] = userID
	return nil
}

func (s *stubSessionStore) ConsumeResetToken(_ context.Context, tokenHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.resets[tokenHash]
	if !ok {
		return "", domain.ErrInvalidResetToken
	}
	delete(s.resets, tokenHash)
	return userID, nil
}
