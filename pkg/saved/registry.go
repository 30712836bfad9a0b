package saved

import (
	"context"
	"fmt"
	"sync"

	"github.com/larsmk/homescout/pkg/listings"
)

// Store persists registry membership. Writes happen on every toggle; the
// full set is read back once at startup.
type Store interface {
	Load(ctx context.Context) ([]listings.Property, error)
	Put(ctx context.Context, property listings.Property) error
	Remove(ctx context.Context, id listings.ID) error
}

// Registry is the toggle-able set of saved properties. Membership is
// independent of the search result list: saving never removes a property
// from results, and a property can stay saved after the search that found
// it is long gone.
type Registry struct {
	store Store

	mu    sync.Mutex
	byID  map[listings.ID]listings.Property
	order []listings.ID
}

// NewRegistry loads the persisted set and returns a ready registry.
func NewRegistry(ctx context.Context, store Store) (*Registry, error) {
	persisted, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved properties: %w", err)
	}

	r := &Registry{
		store: store,
		byID:  make(map[listings.ID]listings.Property, len(persisted)),
	}
	for _, p := range persisted {
		if _, dup := r.byID[p.ID]; dup {
			continue
		}
		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r, nil
}

// Toggle flips membership for the property and persists the change. It
// returns whether the property is saved after the call.
func (r *Registry) Toggle(ctx context.Context, property listings.Property) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, saved := r.byID[property.ID]; saved {
		if err := r.store.Remove(ctx, property.ID); err != nil {
			return true, fmt.Errorf("failed to unsave property: %w", err)
		}
		delete(r.byID, property.ID)
		for i, id := range r.order {
			if id == property.ID {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		return false, nil
	}

	if err := r.store.Put(ctx, property); err != nil {
		return false, fmt.Errorf("failed to save property: %w", err)
	}
	r.byID[property.ID] = property
	r.order = append(r.order, property.ID)
	return true, nil
}

// List returns the saved properties in save order.
func (r *Registry) List() []listings.Property {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]listings.Property, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// IsSaved reports membership for one id.
func (r *Registry) IsSaved(id listings.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[id]
	return ok
}
