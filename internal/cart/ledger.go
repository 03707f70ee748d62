package cart

import (
	"context"
	"sync"

	"github.com/buyzaar/storefront/internal/catalog"
	"github.com/buyzaar/storefront/pkg/config"
	"github.com/buyzaar/storefront/pkg/enums"
	pkgerrors "github.com/buyzaar/storefront/pkg/errors"
	"github.com/buyzaar/storefront/pkg/logger"
	"github.com/buyzaar/storefront/pkg/metrics"
	"github.com/buyzaar/storefront/pkg/types"
)

// Key is the line-item identity: two additions with the same key merge into
// one line item instead of appending.
type Key struct {
	ProductID string            `json:"product_id"`
	Size      enums.ProductSize `json:"size"`
	Color     string            `json:"color"`
}

// LineItem is one cart entry: a product snapshot plus the chosen variant and
// quantity. Quantity is always at least one; removal is the only way to zero.
type LineItem struct {
	Product       catalog.Product   `json:"product"`
	SelectedSize  enums.ProductSize `json:"selectedSize"`
	SelectedColor types.Color       `json:"selectedColor"`
	Quantity      int               `json:"quantity"`
}

// Key returns the identity triple of the line item.
func (li LineItem) Key() Key {
	return Key{ProductID: li.Product.ID, Size: li.SelectedSize, Color: li.SelectedColor.Name}
}

// StateStore is what the ledger needs from the persistence layer.
type StateStore interface {
	Load(ctx context.Context, key config.StorageKey, dest any) (bool, error)
	Save(ctx context.Context, key config.StorageKey, value any) error
}

// LedgerParams groups dependencies for the cart ledger.
type LedgerParams struct {
	Store        StateStore
	Logger       *logger.Logger
	Metrics      *metrics.StorefrontMetrics
	Rates        Rates
	Policy       enums.QuantityPolicy
	MaxLineItems int
}

// Ledger owns the ordered cart line-item list. Every mutation recomputes the
// derived totals inside the same critical section, so no reader can observe
// items and totals out of step. The item list is the durable state; totals
// are recomputed on hydration rather than stored.
type Ledger struct {
	mu      sync.Mutex
	items   []LineItem
	totals  Totals
	store   StateStore
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
	rates   Rates
	policy  enums.QuantityPolicy
	maxLen  int
}

// NewLedger builds an empty ledger. Pass a nil store for a purely in-memory
// cart (tests, guest checkout previews).
func NewLedger(params LedgerParams) (*Ledger, error) {
	policy := params.Policy
	if policy == "" {
		policy = enums.QuantityPolicyClamp
	}
	if !policy.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid quantity policy")
	}

	ledger := &Ledger{
		store:   params.Store,
		logg:    params.Logger,
		metrics: params.Metrics,
		rates:   params.Rates,
		policy:  policy,
		maxLen:  params.MaxLineItems,
	}
	ledger.totals = CalculateTotals(nil, ledger.rates)
	return ledger, nil
}

// Hydrate restores the persisted line items and recomputes totals. Missing or
// corrupt persisted state leaves the cart empty.
func (l *Ledger) Hydrate(ctx context.Context) error {
	if l.store == nil {
		return nil
	}

	var items []LineItem
	found, err := l.store.Load(ctx, config.StorageKeyCart, &items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeServer, err, "load cart state")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if found {
		// Persisted payloads may predate the quantity floor; restore them
		// to a state every other operation can rely on.
		for i := range items {
			if items[i].Quantity < 1 {
				items[i].Quantity = 1
			}
		}
		l.items = items
	} else {
		l.items = nil
	}
	l.totals = CalculateTotals(l.items, l.rates)
	return nil
}

// AddItem merges into an existing line item with the same identity key or
// appends a new one, preserving insertion order. A quantity below one is
// clamped to one or rejected depending on the configured policy.
func (l *Ledger) AddItem(ctx context.Context, product catalog.Product, size enums.ProductSize, color types.Color, qty int) error {
	if qty < 1 {
		switch l.policy {
		case enums.QuantityPolicyReject:
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least one")
		default:
			qty = 1
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := Key{ProductID: product.ID, Size: size, Color: color.Name}
	merged := false
	for i := range l.items {
		if l.items[i].Key() == key {
			l.items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		if l.maxLen > 0 && len(l.items) >= l.maxLen {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is full")
		}
		l.items = append(l.items, LineItem{
			Product:       product,
			SelectedSize:  size,
			SelectedColor: color,
			Quantity:      qty,
		})
	}

	l.metrics.IncCartMutation("add")
	return l.recomputeAndPersistLocked(ctx)
}

// RemoveItem drops the line item at the given position. Out-of-range indices
// are silent no-ops: the ledger favors UI robustness over strict validation.
func (l *Ledger) RemoveItem(ctx context.Context, index int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.items) {
		return nil
	}
	l.items = append(l.items[:index], l.items[index+1:]...)

	l.metrics.IncCartMutation("remove")
	return l.recomputeAndPersistLocked(ctx)
}

// RemoveItemByKey drops the line item with the given identity, if present.
func (l *Ledger) RemoveItemByKey(ctx context.Context, key Key) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].Key() == key {
			l.items = append(l.items[:i], l.items[i+1:]...)
			l.metrics.IncCartMutation("remove")
			return l.recomputeAndPersistLocked(ctx)
		}
	}
	return nil
}

// UpdateQuantity sets the quantity of the line item at the given position.
// Out-of-range indices and quantities below one are silent no-ops; removal is
// the only path to zero.
func (l *Ledger) UpdateQuantity(ctx context.Context, index, qty int) error {
	if qty < 1 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.items) {
		return nil
	}
	l.items[index].Quantity = qty

	l.metrics.IncCartMutation("update")
	return l.recomputeAndPersistLocked(ctx)
}

// UpdateQuantityByKey sets the quantity of the identified line item.
func (l *Ledger) UpdateQuantityByKey(ctx context.Context, key Key, qty int) error {
	if qty < 1 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].Key() == key {
			l.items[i].Quantity = qty
			l.metrics.IncCartMutation("update")
			return l.recomputeAndPersistLocked(ctx)
		}
	}
	return nil
}

// Clear empties the cart unconditionally; totals drop to zero.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil

	l.metrics.IncCartMutation("clear")
	return l.recomputeAndPersistLocked(ctx)
}

// Items returns a copy of the line items in insertion order.
func (l *Ledger) Items() []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// IndexOf returns the display position of the identified line item, or -1.
// Position is a projection of the ledger's own order; identity stays the key.
func (l *Ledger) IndexOf(key Key) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].Key() == key {
			return i
		}
	}
	return -1
}

// Len reports the number of distinct line items.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Totals returns the current derived totals.
func (l *Ledger) Totals() Totals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totals
}

func (l *Ledger) recomputeAndPersistLocked(ctx context.Context) error {
	l.totals = CalculateTotals(l.items, l.rates)

	if l.store == nil {
		return nil
	}
	items := l.items
	if items == nil {
		items = []LineItem{}
	}
	if err := l.store.Save(ctx, config.StorageKeyCart, items); err != nil {
		if l.logg != nil {
			l.logg.Error(ctx, "persist cart state", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeServer, err, "persist cart state")
	}
	return nil
}
