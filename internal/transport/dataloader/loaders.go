package dataloader

import (
	"context"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
)

// byID adapts a map-returning bulk lookup to a batch function. Keys missing
// from the map resolve to nil rather than an error.
func byID[V any](fetch func(context.Context, []uuid.UUID) (map[uuid.UUID]V, error)) dataloader.BatchFunc[uuid.UUID, *V] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*V] {
		found, err := fetch(ctx, keys)
		if err != nil {
			return errorResults[*V](len(keys), err)
		}

		results := make([]*dataloader.Result[*V], len(keys))
		for i, key := range keys {
			if v, ok := found[key]; ok {
				results[i] = &dataloader.Result[*V]{Data: &v}
			} else {
				results[i] = &dataloader.Result[*V]{}
			}
		}
		return results
	}
}

func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}
