// Package storage defines the persistence façade contract shared by the
// flat-file and relational backends. Backends are interchangeable: saving a
// graph and loading it back yields the same customers, accounts, balances,
// closed flags, employer data and linked-account lists.
package storage

import (
	"context"
	"errors"

	"github.com/bank-management-core/internal/domain/customer"
)

// ErrUnavailable indicates the backend could not be reached or written.
// Backends wrap it so callers can detect storage failures uniformly.
var ErrUnavailable = errors.New("storage backend unavailable")

// Store persists and reloads the full customer/account/credentials graph.
//
// Save is a full-graph overwrite or upsert keyed on natural identifiers,
// never incremental; there is no versioning or conflict detection, so
// concurrent writers race. Load reconstructs the object graph: accounts are
// re-attached to their customers by customer ID, and accounts whose
// customer is missing are dropped to keep referential integrity.
type Store interface {
	Save(ctx context.Context, customers []*customer.Customer, credentials []*customer.Credentials) error
	Load(ctx context.Context) ([]*customer.Customer, []*customer.Credentials, error)
}
