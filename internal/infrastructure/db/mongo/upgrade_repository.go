package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ddfinv/backoffice/internal/core/domain"
)

const upgradeCollection = "upgrade_requests"

// UpgradeRequestRepository persists guest upgrade requests in MongoDB.
type UpgradeRequestRepository struct {
	coll *mongo.Collection
}

// NewUpgradeRequestRepository returns a repository bound to the
// upgrade_requests collection.
func NewUpgradeRequestRepository(db *mongo.Database) *UpgradeRequestRepository {
	return &UpgradeRequestRepository{coll: db.Collection(upgradeCollection)}
}

type upgradeDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	AccountID   string             `bson:"account_id"`
	Status      string             `bson:"status"`
	Details     string             `bson:"details,omitempty"`
	RequestedAt int64              `bson:"requested_at"`
}

func (d upgradeDoc) toDomain() *domain.UpgradeRequest {
	return &domain.UpgradeRequest{
		ID:          d.ID.Hex(),
		AccountID:   d.AccountID,
		Status:      domain.UpgradeStatus(d.Status),
		Details:     d.Details,
		RequestedAt: unixToTime(d.RequestedAt),
	}
}

func (r *UpgradeRequestRepository) Create(ctx context.Context, request *domain.UpgradeRequest) (*domain.UpgradeRequest, error) {
	if request.RequestedAt.IsZero() {
		request.RequestedAt = time.Now().UTC()
	}
	doc := upgradeDoc{
		AccountID:   request.AccountID,
		Status:      string(request.Status),
		Details:     request.Details,
		RequestedAt: request.RequestedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert upgrade request: %w", err)
	}

	created := *request
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UpgradeRequestRepository) FindByID(ctx context.Context, id string) (*domain.UpgradeRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var doc upgradeDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find upgrade request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UpgradeRequestRepository) ExistsPendingForAccount(ctx context.Context, accountID string) (bool, error) {
	filter := bson.M{"account_id": accountID, "status": string(domain.UpgradePending)}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("count pending upgrade requests: %w", err)
	}
	return n > 0, nil
}

func (r *UpgradeRequestRepository) ListByStatus(ctx context.Context, status domain.UpgradeStatus) ([]*domain.UpgradeRequest, error) {
	return r.list(ctx, bson.M{"status": string(status)})
}

func (r *UpgradeRequestRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.UpgradeRequest, error) {
	return r.list(ctx, bson.M{"account_id": accountID})
}

func (r *UpgradeRequestRepository) list(ctx context.Context, filter bson.M) ([]*domain.UpgradeRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list upgrade requests: %w", err)
	}
	defer cur.Close(ctx)

	var requests []*domain.UpgradeRequest
	for cur.Next(ctx) {
		var doc upgradeDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode upgrade request: %w", err)
		}
		requests = append(requests, doc.toDomain())
	}
	return requests, cur.Err()
}

func (r *UpgradeRequestRepository) Update(ctx context.Context, request *domain.UpgradeRequest) error {
	oid, err := primitive.ObjectIDFromHex(request.ID)
	if err != nil {
		return domain.ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"status":  string(request.Status),
		"details": request.Details,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update upgrade request: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
