package ports

import "context"

// TxRunner executes fn inside a single transactional scope. Every repository
// call made with the context passed to fn joins the same transaction; if fn
// returns an error the transaction is rolled back and no partial state remains.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
