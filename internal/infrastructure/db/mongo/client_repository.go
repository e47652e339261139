package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ddfinv/backoffice/internal/core/domain"
)

const clientCollection = "clients"

// ClientRepository persists client profiles in MongoDB.
type ClientRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

// NewClientRepository returns a repository bound to the clients collection.
func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{db: db, coll: db.Collection(clientCollection)}
}

type clientDoc struct {
	NumericID          int64  `bson:"_id"`
	BusinessID         string `bson:"business_id"`
	AccountID          string `bson:"account_id"`
	AssignedEmployeeID string `bson:"assigned_employee_id,omitempty"`
	CreatedAt          int64  `bson:"created_at"`
}

func (d clientDoc) toDomain() *domain.Client {
	return &domain.Client{
		NumericID:          d.NumericID,
		BusinessID:         d.BusinessID,
		AccountID:          d.AccountID,
		AssignedEmployeeID: d.AssignedEmployeeID,
		CreatedAt:          unixToTime(d.CreatedAt),
	}
}

func (r *ClientRepository) NextID(ctx context.Context) (int64, error) {
	return nextSequence(ctx, r.db, "client_id")
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	client.CreatedAt = time.Now().UTC()
	doc := clientDoc{
		NumericID:          client.NumericID,
		BusinessID:         client.BusinessID,
		AccountID:          client.AccountID,
		AssignedEmployeeID: client.AssignedEmployeeID,
		CreatedAt:          client.CreatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	return client, nil
}

func (r *ClientRepository) FindByBusinessID(ctx context.Context, businessID string) (*domain.Client, error) {
	var doc clientDoc
	if err := r.coll.FindOne(ctx, bson.M{"business_id": businessID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.Client, error) {
	var doc clientDoc
	if err := r.coll.FindOne(ctx, bson.M{"account_id": accountID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find client by account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	return r.list(ctx, bson.M{})
}

func (r *ClientRepository) ListByEmployee(ctx context.Context, employeeBusinessID string) ([]*domain.Client, error) {
	return r.list(ctx, bson.M{"assigned_employee_id": employeeBusinessID})
}

func (r *ClientRepository) list(ctx context.Context, filter bson.M) ([]*domain.Client, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer cur.Close(ctx)

	var clients []*domain.Client
	for cur.Next(ctx) {
		var doc clientDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode client: %w", err)
		}
		clients = append(clients, doc.toDomain())
	}
	return clients, cur.Err()
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	update := bson.M{"$set": bson.M{
		"assigned_employee_id": client.AssignedEmployeeID,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": client.NumericID}, update)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClientRepository) DeleteByAccountID(ctx context.Context, accountID string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"account_id": accountID}); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
