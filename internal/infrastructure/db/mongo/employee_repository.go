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

const employeeCollection = "employees"

// EmployeeRepository persists employee profiles in MongoDB.
type EmployeeRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

// NewEmployeeRepository returns a repository bound to the employees
// collection.
func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{db: db, coll: db.Collection(employeeCollection)}
}

type employeeDoc struct {
	NumericID  int64  `bson:"_id"`
	BusinessID string `bson:"business_id"`
	AccountID  string `bson:"account_id"`
	Location   string `bson:"location"`
	Title      string `bson:"title,omitempty"`
	CreatedAt  int64  `bson:"created_at"`
}

func (d employeeDoc) toDomain() *domain.Employee {
	return &domain.Employee{
		NumericID:  d.NumericID,
		BusinessID: d.BusinessID,
		AccountID:  d.AccountID,
		Location:   d.Location,
		Title:      d.Title,
		CreatedAt:  unixToTime(d.CreatedAt),
	}
}

func (r *EmployeeRepository) NextID(ctx context.Context) (int64, error) {
	return nextSequence(ctx, r.db, "employee_id")
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	employee.CreatedAt = time.Now().UTC()
	doc := employeeDoc{
		NumericID:  employee.NumericID,
		BusinessID: employee.BusinessID,
		AccountID:  employee.AccountID,
		Location:   employee.Location,
		Title:      employee.Title,
		CreatedAt:  employee.CreatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	return employee, nil
}

func (r *EmployeeRepository) FindByBusinessID(ctx context.Context, businessID string) (*domain.Employee, error) {
	var doc employeeDoc
	if err := r.coll.FindOne(ctx, bson.M{"business_id": businessID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.Employee, error) {
	var doc employeeDoc
	if err := r.coll.FindOne(ctx, bson.M{"account_id": accountID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find employee by account: %w", err)
	}
	return doc.toDomain(), nil
}

// FindFallback returns the lowest-numbered employee, the default assignee for
// clients created without one.
func (r *EmployeeRepository) FindFallback(ctx context.Context) (*domain.Employee, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})

	var doc employeeDoc
	if err := r.coll.FindOne(ctx, bson.M{}, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find fallback employee: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*domain.Employee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer cur.Close(ctx)

	var employees []*domain.Employee
	for cur.Next(ctx) {
		var doc employeeDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode employee: %w", err)
		}
		employees = append(employees, doc.toDomain())
	}
	return employees, cur.Err()
}

func (r *EmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	update := bson.M{"$set": bson.M{
		"location": employee.Location,
		"title":    employee.Title,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": employee.NumericID}, update)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) DeleteByAccountID(ctx context.Context, accountID string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"account_id": accountID}); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}
