package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/portalcliente/portal-api/internal/core/domain"
	"github.com/portalcliente/portal-api/internal/core/ports"
)

// RequestService implements the request lifecycle: customers submit requests,
// admins answer them once with a monthly quote.
//
// The caller's role is always re-read from the user repository; the session
// only identifies who is calling.
type RequestService struct {
	requests ports.RequestRepository
	users    ports.UserRepository
	audit    ports.AuditRepository
	queue    ports.NotificationQueue
	log      zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewRequestService wires the engine. audit and queue may be nil.
func NewRequestService(
	requests ports.RequestRepository,
	users ports.UserRepository,
	audit ports.AuditRepository,
	queue ports.NotificationQueue,
	log zerolog.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		users:    users,
		audit:    audit,
		queue:    queue,
		log:      log,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID:    func() string { return uuid.NewString() },
	}
}

var _ ports.RequestService = (*RequestService)(nil)

// Submit opens a pending request owned by the caller. A repeated call with the
// same idempotency key returns the request created by the first call.
func (s *RequestService) Submit(ctx context.Context, session *domain.Session, in ports.SubmitInput) (*ports.SubmitResult, error) {
	caller, err := s.caller(ctx, session)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, domain.InvalidInput(msgDescriptionRequired)
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if existing, ok := s.replay(ctx, caller.ID, key); ok {
			return &ports.SubmitResult{Request: existing, AlreadyExisted: true}, nil
		}
	}

	req := domain.NewRequest(s.newID(), caller.ID, description, key, s.now())
	if err := s.requests.Insert(ctx, req); err != nil {
		if key != "" && errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			// A concurrent submit with the same key won the insert.
			if existing, ok := s.replay(ctx, caller.ID, key); ok {
				return &ports.SubmitResult{Request: existing, AlreadyExisted: true}, nil
			}
		}
		s.log.Error().Err(err).Str("owner_id", caller.ID).Msg("failed to insert request")
		return nil, domain.StorageFailure(msgSubmitFailed, err)
	}

	s.record(ctx, req.ID, domain.EventSubmitted, caller.ID, req.Status, req.CreatedAt)
	s.enqueue(ports.Notification{
		Type:       ports.NotifyRequestSubmitted,
		Key:        caller.ID,
		Recipient:  caller.Email,
		Subject:    "Solicitação enviada!",
		Body:       "Sua solicitação foi enviada com sucesso. Em breve entraremos em contato.",
		Data:       map[string]string{"request_id": req.ID},
		OccurredAt: req.CreatedAt,
	})

	s.log.Info().Str("request_id", req.ID).Str("owner_id", caller.ID).Msg("request submitted")
	return &ports.SubmitResult{Request: req}, nil
}

func (s *RequestService) replay(ctx context.Context, ownerID, key string) (*domain.Request, bool) {
	existing, err := s.requests.FindByIdempotencyKey(ctx, ownerID, key)
	if err != nil {
		if !errors.Is(err, domain.ErrRequestNotFound) {
			s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating request")
		}
		return nil, false
	}
	s.log.Info().Str("idempotency_key", key).Str("request_id", existing.ID).Msg("idempotent replay")
	return existing, true
}

// ListOwn returns the caller's requests, newest first. An empty result is an
// empty slice.
func (s *RequestService) ListOwn(ctx context.Context, session *domain.Session) ([]*domain.Request, error) {
	caller, err := s.caller(ctx, session)
	if err != nil {
		return nil, err
	}

	items, err := s.requests.FindByOwner(ctx, caller.ID)
	if err != nil {
		s.log.Error().Err(err).Str("owner_id", caller.ID).Msg("failed to list own requests")
		return nil, domain.StorageFailure(msgListFailed, err)
	}
	if items == nil {
		items = []*domain.Request{}
	}
	return items, nil
}

// ListAll returns every request joined with its owner's profile. Admin only.
func (s *RequestService) ListAll(ctx context.Context, session *domain.Session) ([]*domain.RequestWithOwner, error) {
	caller, err := s.caller(ctx, session)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		return nil, domain.Forbidden(msgAdminOnly)
	}

	items, err := s.requests.FindAllWithOwners(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list all requests")
		return nil, domain.StorageFailure(msgListFailed, err)
	}
	if items == nil {
		items = []*domain.RequestWithOwner{}
	}
	return items, nil
}

// Answer records an admin's response and monthly value on a pending request.
// The store applies the update only while the request is still pending, so of
// two concurrent answers exactly one succeeds.
func (s *RequestService) Answer(ctx context.Context, session *domain.Session, in ports.AnswerInput) (*domain.Request, error) {
	caller, err := s.caller(ctx, session)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		return nil, domain.Forbidden(msgAdminOnly)
	}

	id := strings.TrimSpace(in.RequestID)
	if id == "" {
		return nil, domain.InvalidInput(msgRequestIDRequired)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.Wrap(domain.KindInvalidInput, msgRequestNotFound, domain.ErrRequestNotFound)
	}

	response := strings.TrimSpace(in.Response)
	if response == "" {
		return nil, domain.InvalidInput(msgResponseRequired)
	}

	value, err := domain.ParseMonthlyValue(in.MonthlyValue)
	if err != nil {
		msg := msgInvalidValue
		switch {
		case errors.Is(err, domain.ErrNegativeAmount):
			msg = msgNegativeValue
		case errors.Is(err, domain.ErrAmountTooLarge):
			msg = msgValueTooLarge
		}
		return nil, domain.Wrap(domain.KindInvalidInput, msg, err)
	}

	answer := domain.Answer{
		Response:     response,
		MonthlyValue: value,
		AnsweredAt:   s.now(),
		AnsweredBy:   caller.ID,
	}

	updated, err := s.requests.MarkAnswered(ctx, id, answer)
	switch {
	case errors.Is(err, domain.ErrRequestNotFound):
		return nil, domain.Wrap(domain.KindInvalidInput, msgRequestNotFound, err)
	case errors.Is(err, domain.ErrAlreadyAnswered):
		s.log.Info().Str("request_id", id).Str("admin_id", caller.ID).Msg("answer rejected, request already answered")
		return nil, domain.Wrap(domain.KindInvalidState, msgAlreadyAnswered, err)
	case err != nil:
		s.log.Error().Err(err).Str("request_id", id).Msg("failed to answer request")
		return nil, domain.StorageFailure(msgAnswerFailed, err)
	}

	s.record(ctx, updated.ID, domain.EventAnswered, caller.ID, updated.Status, answer.AnsweredAt)
	s.notifyAnswered(ctx, updated)

	s.log.Info().
		Str("request_id", updated.ID).
		Str("admin_id", caller.ID).
		Str("monthly_value", value.StringFixed(2)).
		Msg("request answered")
	return updated, nil
}

// Get returns a single request. Owners see their own requests and admins see
// any; for anyone else the request does not exist.
func (s *RequestService) Get(ctx context.Context, session *domain.Session, id string) (*domain.Request, error) {
	caller, err := s.caller(ctx, session)
	if err != nil {
		return nil, err
	}

	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.Wrap(domain.KindInvalidInput, msgRequestNotFound, domain.ErrRequestNotFound)
	}

	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return nil, domain.Wrap(domain.KindInvalidInput, msgRequestNotFound, err)
		}
		return nil, domain.StorageFailure(msgLoadFailed, err)
	}
	if req.OwnerID != caller.ID && !caller.IsAdmin() {
		return nil, domain.Wrap(domain.KindInvalidInput, msgRequestNotFound, domain.ErrRequestNotFound)
	}
	return req, nil
}

// caller resolves the session to a stored identity.
func (s *RequestService) caller(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if !session.Authenticated() {
		return nil, domain.Unauthenticated(msgUnauthenticated)
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.Wrap(domain.KindUnauthenticated, msgUnauthenticated, err)
		}
		return nil, domain.StorageFailure(msgIdentityLookup, err)
	}
	return user, nil
}

func (s *RequestService) record(ctx context.Context, requestID string, typ domain.RequestEventType, actorID string, status domain.RequestStatus, at time.Time) {
	if s.audit == nil {
		return
	}
	event := &domain.RequestEvent{
		RequestID:  requestID,
		Type:       typ,
		ActorID:    actorID,
		Status:     status,
		OccurredAt: at,
	}
	if err := s.audit.Append(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("request_id", requestID).Str("event", string(typ)).Msg("failed to append audit event")
	}
}

func (s *RequestService) notifyAnswered(ctx context.Context, req *domain.Request) {
	if s.queue == nil {
		return
	}
	var recipient string
	owner, err := s.users.FindByID(ctx, req.OwnerID)
	if err != nil {
		s.log.Warn().Err(err).Str("owner_id", req.OwnerID).Msg("owner lookup failed for answer notification")
	} else {
		recipient = owner.Email
	}

	value := domain.FormatBRL(req.Answer.MonthlyValue)
	s.enqueue(ports.Notification{
		Type:      ports.NotifyRequestAnswered,
		Key:       req.OwnerID,
		Recipient: recipient,
		Subject:   "Sua solicitação foi respondida",
		Body:      req.Answer.Response + "\n\nValor da mensalidade: " + value,
		Data: map[string]string{
			"request_id":    req.ID,
			"monthly_value": req.Answer.MonthlyValue.StringFixed(2),
		},
		OccurredAt: req.Answer.AnsweredAt,
	})
}

func (s *RequestService) enqueue(n ports.Notification) {
	if s.queue == nil {
		return
	}
	if !s.queue.Enqueue(n) {
		s.log.Warn().Str("type", string(n.Type)).Str("key", n.Key).Msg("notification dropped")
	}
}
