// Package records is the client side of the remote personal-data record
// store. The engine only queries; record creation and editing happen
// elsewhere.
package records

import (
	"context"

	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

// Store answers record queries. Implementations must be safe for concurrent
// use.
type Store interface {
	// Query returns the records matching any of the backing field names or
	// search tags in q. An empty result is not an error.
	Query(ctx context.Context, q model.RecordQuery) ([]model.Record, error)
}
