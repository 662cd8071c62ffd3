// Package catalog implements the catalog use cases: products, collections,
// promotions, reviews, tags and product images.
package catalog

import (
	"context"
	"io"

	"github.com/storefront/backend/internal/domain/shared"
)

// ObjectStorage stores uploaded binaries such as product images.
// Implementations live in infrastructure/storage.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns a URL a client can fetch the object from
	URL(ctx context.Context, key string) (string, error)
}

// recordEvents hands the pending events of each aggregate to the recorder
// and clears them. It must run inside the unit of work that saved them.
func recordEvents(ctx context.Context, recorder shared.EventRecorder, aggregates ...shared.AggregateRoot) error {
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		if err := recorder.Record(ctx, events...); err != nil {
			return err
		}
		agg.ClearDomainEvents()
	}
	return nil
}
