package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner implements ports.TxRunner on top of mongo sessions. Every write
// made through the callback's context joins one multi-document transaction;
// the driver retries transient transaction errors internally, which also
// covers the concurrent last-admin count race (both demotions re-read the
// count on retry).
type TxRunner struct {
	client *mongo.Client
}

// NewTxRunner wraps the given client.
func NewTxRunner(client *mongo.Client) *TxRunner {
	return &TxRunner{client: client}
}

// WithinTx runs fn inside a single transaction. fn must use the context it
// receives for every storage call.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}
