package favorites

import (
	"context"
	"sync"

	"github.com/buyzaar/storefront/internal/catalog"
	"github.com/buyzaar/storefront/pkg/config"
	pkgerrors "github.com/buyzaar/storefront/pkg/errors"
	"github.com/buyzaar/storefront/pkg/logger"
)

// StateStore is what the favorites set needs from the persistence layer.
type StateStore interface {
	Load(ctx context.Context, key config.StorageKey, dest any) (bool, error)
	Save(ctx context.Context, key config.StorageKey, value any) error
}

// ServiceParams groups dependencies for the favorites set.
type ServiceParams struct {
	Store        StateStore
	Logger       *logger.Logger
	MaxFavorites int
}

// Service owns the persisted favorites set. Identity is the product ID; the
// full product snapshot is retained so a favorites view renders without a
// catalog round trip.
type Service struct {
	mu    sync.Mutex
	items []catalog.Product
	store StateStore
	logg  *logger.Logger
	max   int
}

// NewService builds an empty favorites set.
func NewService(params ServiceParams) *Service {
	return &Service{
		store: params.Store,
		logg:  params.Logger,
		max:   params.MaxFavorites,
	}
}

// Hydrate restores the persisted favorites. Missing or corrupt state leaves
// the set empty.
func (s *Service) Hydrate(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	var items []catalog.Product
	found, err := s.store.Load(ctx, config.StorageKeyFavorites, &items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeServer, err, "load favorites state")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if found {
		s.items = items
	} else {
		s.items = nil
	}
	return nil
}

// Toggle flips membership for the product: present becomes absent, absent
// becomes present. It returns whether the product is a favorite afterwards.
// Toggling twice with the same ID restores the original state.
func (s *Service) Toggle(ctx context.Context, product catalog.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == product.ID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return false, s.persistLocked(ctx)
		}
	}

	if s.max > 0 && len(s.items) >= s.max {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "favorites list is full")
	}
	s.items = append(s.items, product)
	return true, s.persistLocked(ctx)
}

// IsFavorite reports membership by product ID.
func (s *Service) IsFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == productID {
			return true
		}
	}
	return false
}

// List returns the favorites in insertion order.
func (s *Service) List() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]catalog.Product, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the number of favorites.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Clear empties the set.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persistLocked(ctx)
}

func (s *Service) persistLocked(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	items := s.items
	if items == nil {
		items = []catalog.Product{}
	}
	if err := s.store.Save(ctx, config.StorageKeyFavorites, items); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "persist favorites state", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeServer, err, "persist favorites state")
	}
	return nil
}
