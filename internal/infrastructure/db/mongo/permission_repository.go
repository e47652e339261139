package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ddfinv/backoffice/internal/core/domain"
)

const permissionCollection = "permissions"

// PermissionRepository persists the seeded permission catalog.
type PermissionRepository struct {
	coll *mongo.Collection
}

// NewPermissionRepository returns a repository bound to the permissions
// collection.
func NewPermissionRepository(db *mongo.Database) *PermissionRepository {
	return &PermissionRepository{coll: db.Collection(permissionCollection)}
}

type permissionDoc struct {
	Kind        string `bson:"kind"`
	Description string `bson:"description"`
}

func (r *PermissionRepository) ExistsByKind(ctx context.Context, kind domain.PermissionKind) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"kind": string(kind)})
	if err != nil {
		return false, fmt.Errorf("count permissions: %w", err)
	}
	return n > 0, nil
}

func (r *PermissionRepository) Insert(ctx context.Context, perm domain.Permission) error {
	doc := permissionDoc{Kind: string(perm.Kind), Description: perm.Description}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		// A concurrent seeder may have won the race; the catalog entry
		// exists either way.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert permission: %w", err)
	}
	return nil
}

func (r *PermissionRepository) FindAll(ctx context.Context) ([]domain.Permission, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer cur.Close(ctx)

	var perms []domain.Permission
	for cur.Next(ctx) {
		var doc permissionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode permission: %w", err)
		}
		perms = append(perms, domain.Permission{
			Kind:        domain.PermissionKind(doc.Kind),
			Description: doc.Description,
		})
	}
	return perms, cur.Err()
}
