package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portalcliente/portal-api/internal/core/domain"
	"github.com/portalcliente/portal-api/internal/core/ports"
)

type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(collectionRequests)}
}

var _ ports.RequestRepository = (*RequestRepository)(nil)

// newestFirst is the listing order shared by every query.
var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

type requestDoc struct {
	ID             string                `bson:"_id"`
	OwnerID        string                `bson:"owner_id"`
	Description    string                `bson:"description"`
	Status         string                `bson:"status"`
	CreatedAt      time.Time             `bson:"created_at"`
	AdminResponse  *string               `bson:"admin_response,omitempty"`
	MonthlyValue   *primitive.Decimal128 `bson:"monthly_value,omitempty"`
	AnsweredAt     *time.Time            `bson:"answered_at,omitempty"`
	AnsweredBy     string                `bson:"answered_by,omitempty"`
	IdempotencyKey string                `bson:"idempotency_key,omitempty"`
}

// requestWithOwnerDoc is the shape produced by the owner $lookup.
type requestWithOwnerDoc struct {
	requestDoc `bson:",inline"`
	Owner      *userDoc `bson:"owner,omitempty"`
}

func toRequestDoc(r *domain.Request) (requestDoc, error) {
	doc := requestDoc{
		ID:             r.ID,
		OwnerID:        r.OwnerID,
		Description:    r.Description,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt.UTC(),
		IdempotencyKey: r.IdempotencyKey,
	}
	if r.Answer != nil {
		value, err := toDecimal128(r.Answer.MonthlyValue)
		if err != nil {
			return requestDoc{}, err
		}
		at := r.Answer.AnsweredAt.UTC()
		resp := r.Answer.Response
		doc.AdminResponse = &resp
		doc.MonthlyValue = &value
		doc.AnsweredAt = &at
		doc.AnsweredBy = r.Answer.AnsweredBy
	}
	return doc, nil
}

func (d requestDoc) toDomain() (*domain.Request, error) {
	r := &domain.Request{
		ID:             d.ID,
		OwnerID:        d.OwnerID,
		Description:    d.Description,
		Status:         domain.RequestStatus(d.Status),
		CreatedAt:      d.CreatedAt.UTC(),
		IdempotencyKey: d.IdempotencyKey,
	}
	if d.AdminResponse != nil && d.MonthlyValue != nil && d.AnsweredAt != nil {
		value, err := decimal.NewFromString(d.MonthlyValue.String())
		if err != nil {
			return nil, fmt.Errorf("decode monthly_value of %s: %w", d.ID, err)
		}
		r.Answer = &domain.Answer{
			Response:     *d.AdminResponse,
			MonthlyValue: value,
			AnsweredAt:   d.AnsweredAt.UTC(),
			AnsweredBy:   d.AnsweredBy,
		}
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("request %s: %w", d.ID, err)
	}
	return r, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.StringFixed(2))
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode monthly_value: %w", err)
	}
	return v, nil
}

// Insert stores a new request. A duplicate (owner, idempotency key) pair
// yields domain.ErrDuplicateIdempotencyKey.
func (r *RequestRepository) Insert(ctx context.Context, req *domain.Request) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toRequestDoc(req)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) && req.IdempotencyKey != "" {
			return domain.ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.Request, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *RequestRepository) FindByIdempotencyKey(ctx context.Context, ownerID, key string) (*domain.Request, error) {
	return r.findOne(ctx, bson.M{"owner_id": ownerID, "idempotency_key": key})
}

func (r *RequestRepository) findOne(ctx context.Context, filter bson.M) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc requestDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return doc.toDomain()
}

func (r *RequestRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	var docs []requestDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode requests: %w", err)
	}

	out := make([]*domain.Request, 0, len(docs))
	for _, d := range docs {
		req, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// FindAllWithOwners lists every request joined with its owner's profile.
func (r *RequestRepository) FindAllWithOwners(ctx context.Context) ([]*domain.RequestWithOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: newestFirst}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "owner_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate requests: %w", err)
	}
	var docs []requestWithOwnerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode requests: %w", err)
	}

	out := make([]*domain.RequestWithOwner, 0, len(docs))
	for _, d := range docs {
		req, err := d.requestDoc.toDomain()
		if err != nil {
			return nil, err
		}
		row := &domain.RequestWithOwner{Request: *req}
		if d.Owner != nil {
			row.Owner = d.Owner.toDomain().OwnerProfile()
		}
		out = append(out, row)
	}
	return out, nil
}

// MarkAnswered applies the answer only while the request is pending. When the
// conditional update matches nothing, the request is re-read to tell a
// missing id from a lost race.
func (r *RequestRepository) MarkAnswered(ctx context.Context, id string, answer domain.Answer) (*domain.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	value, err := toDecimal128(answer.MonthlyValue)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": id, "status": string(domain.StatusPending)}
	update := bson.M{"$set": bson.M{
		"status":         string(domain.StatusAnswered),
		"admin_response": answer.Response,
		"monthly_value":  value,
		"answered_at":    answer.AnsweredAt.UTC(),
		"answered_by":    answer.AnsweredBy,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc requestDoc
	err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.toDomain()
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("answer request: %w", err)
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("answer request: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrRequestNotFound
	}
	return nil, domain.ErrAlreadyAnswered
}

// EnsureIndexes creates the listing indexes and the per-owner idempotency
// key constraint.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "idempotency_key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"idempotency_key": bson.M{"$exists": true}}),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
