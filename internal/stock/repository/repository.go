package repository

import (
	"context"

	"github.com/stockboard/stockboard/internal/stock"
)

// Repository persists the ordered record collection.
type Repository interface {
	// List returns every record in stored order.
	List(ctx context.Context) ([]stock.Record, error)
	// Append adds rec after the last stored record.
	Append(ctx context.Context, rec stock.Record) error
}

// Initializer is implemented by stores that need an empty collection
// created before first use.
type Initializer interface {
	Init(ctx context.Context) error
}

// Checker is implemented by stores that can report reachability for
// readiness probes.
type Checker interface {
	Check(ctx context.Context) error
}
