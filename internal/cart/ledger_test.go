package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/buyzaar/storefront/internal/catalog"
	"github.com/buyzaar/storefront/pkg/config"
	"github.com/buyzaar/storefront/pkg/enums"
	pkgerrors "github.com/buyzaar/storefront/pkg/errors"
	"github.com/buyzaar/storefront/pkg/types"
)

var (
	black = types.Color{Name: "Black", Hex: "#000000"}
	navy  = types.Color{Name: "Navy", Hex: "#000080"}
)

func testProduct(id, price string) catalog.Product {
	return catalog.Product{ID: id, Name: "Product " + id, Price: decimal.RequireFromString(price)}
}

func newTestLedger(t *testing.T, opts LedgerParams) *Ledger {
	t.Helper()
	if opts.Rates.TaxRate.IsZero() {
		opts.Rates = testRates(t)
	}
	ledger, err := NewLedger(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ledger
}

func TestAddItemMergesByIdentityKey(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t, LedgerParams{})
	ctx := context.Background()
	shirt := testProduct("prod-1", "20")

	// Same (product, size, color) triple added repeatedly, with qty <= 0
	// clamped to one each time.
	for _, qty := range []int{1, 2, 0, -5} {
		if err := ledger.AddItem(ctx, shirt, enums.ProductSizeM, black, qty); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	items := ledger.Items()
	if len(items) != 1 {
		t.Fatalf("expected a single merged line item, got %d", len(items))
	}
	if items[0].Quantity != 5 { // 1 + 2 + 1 + 1
		t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
	}
}

func TestAddItemDifferentVariantsStaySeparate(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t, LedgerParams{})
	ctx := context.Background()
	shirt := testProduct("prod-1", "20")

	_ = ledger.AddItem(ctx, shirt, enums.ProductSizeM, black, 1)
	_ = ledger.AddItem(ctx, shirt, enums.ProductSizeL, black, 1)
	_ = ledger.AddItem(ctx, shirt, enums.ProductSizeM, navy, 1)

	items := ledger.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 distinct line items, got %d", len(items))
	}
	// Insertion order is preserved.
	if items[0].SelectedSize != enums.ProductSizeM || items[1].SelectedSize != enums.ProductSizeL {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestAddItemRejectPolicy(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t, LedgerParams{Policy: enums.QuantityPolicyReject})
	ctx := context.Background()

	err := ledger.AddItem(ctx, testProduct("prod-1", "20"), enums.ProductSizeM, black, 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ledger.Len() != 0 {
		t.Fatal("rejected add must not mutate the cart")
	}
}

func TestAddItemCartFull(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t, LedgerParams{MaxLineItems: 1})
	ctx := context.Background()

	if err := ledger.AddItem(ctx, testProduct("prod-1", "20"), enums.ProductSizeM, black, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := ledger.AddItem(ctx, testProduct("prod-2", "30"), enums.ProductSizeM, black, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected cart-full validation error, got %v", err)
	}

	// Merging into an existing line item is still allowed at capacity.
	if err := ledger.AddItem(ctx, testProduct("prod-1", "20"), enums.ProductSizeM, black, 2); err != nil {
		t.Fatalf("merge at capacity should succeed: %v", err)
	}
	if items := ledger.Items(); items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", items[0].Quantity)
	}
}

func TestTotalsNeverStaleAfterMutation(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t, LedgerParams{})
	ctx := context.Background()

	_ = ledger.AddItem(ctx, testProduct("prod-1", "20"), enums.ProductSizeM, black, 2)
	_ = ledger.AddItem(ctx, testProduct("prod-2", "55"), enums.ProductSizeL, navy, 1)

	totals := ledger.Totals()
	if !totals.Subtotal.Equal(decimal.RequireFromString("95")) {
		t.Fatalf("subtotal = %s, want 95", totals.Subtotal)
	}
	if !totals.Total.Equal(decimal.RequireFromString("112.59")) {
		t.Fatalf("total = %s, want 112.59", totals.Total)
	}

	_ = ledger.UpdateQuantity(ctx, 0, 5)
	if got := ledger.Totals().Subtotal; !got.Equal(decimal.RequireFromString("155")) {
		t.Fatalf("subtotal after update = %s, want 155", got)
	}

	_ = ledger.Clear(ctx)
	if got := ledger.Totals(); !got.Total.IsZero() {
		t.Fatalf("total after clear = %s, want 0", got.Total)
	}
}

func TestRemoveItemOutOfRangeIsNoOp(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t, LedgerParams{})
	ctx := context.Background()
	_ = ledger.AddItem(ctx, testProduct("prod-1", "20"), enums.ProductSizeM, black, 1)

	before := ledger.Totals()
	for _, index := range []int{-1, 1, 99} {
		if err := ledger.RemoveItem(ctx, index); err != nil {
			t.Fatalf("index %d: expected no-op, got %v", index, err)
		}
	}
	if ledger.Len() != 1 {
		t.Fatal("out-of-range removal changed the cart")
	}
	if !ledger.Totals().Total.Equal(before.Total) {
		t.Fatal("out-of-range removal changed the totals")
	}
}

func TestUpdateQuantityGuards(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t, LedgerParams{})
	ctx := context.Background()
	_ = ledger.AddItem(ctx, testProduct("prod-1", "20"), enums.ProductSizeM, black, 2)

	// qty < 1 is a no-op: removal is the only way to reach zero.
	if err := ledger.UpdateQuantity(ctx, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Items()[0].Quantity != 2 {
		t.Fatal("sub-minimum quantity must not be applied")
	}

	// Out-of-range index is a no-op.
	if err := ledger.UpdateQuantity(ctx, 7, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ledger.UpdateQuantity(ctx, 0, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Items()[0].Quantity != 4 {
		t.Fatal("valid update not applied")
	}
}

func TestKeyBasedOperations(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t, LedgerParams{})
	ctx := context.Background()
	shirt := testProduct("prod-1", "20")
	_ = ledger.AddItem(ctx, shirt, enums.ProductSizeM, black, 1)
	_ = ledger.AddItem(ctx, shirt, enums.ProductSizeL, black, 1)

	key := Key{ProductID: "prod-1", Size: enums.ProductSizeL, Color: "Black"}
	if got := ledger.IndexOf(key); got != 1 {
		t.Fatalf("expected display index 1, got %d", got)
	}

	if err := ledger.UpdateQuantityByKey(ctx, key, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Items()[1].Quantity != 7 {
		t.Fatal("keyed update not applied")
	}

	if err := ledger.RemoveItemByKey(ctx, key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Len() != 1 {
		t.Fatal("keyed removal not applied")
	}

	// Unknown key is a no-op.
	if err := ledger.RemoveItemByKey(ctx, Key{ProductID: "ghost"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ledger.IndexOf(Key{ProductID: "ghost"}); got != -1 {
		t.Fatalf("expected -1 for unknown key, got %d", got)
	}
}

// memStore is an in-memory StateStore used to observe ledger persistence.
type memStore struct {
	values  map[config.StorageKey][]byte
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{values: map[config.StorageKey][]byte{}}
}

func (m *memStore) Load(_ context.Context, key config.StorageKey, dest any) (bool, error) {
	raw, ok := m.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memStore) Save(_ context.Context, key config.StorageKey, value any) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func TestLedgerPersistsItemsNotTotals(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	ledger := newTestLedger(t, LedgerParams{Store: store})
	ctx := context.Background()

	_ = ledger.AddItem(ctx, testProduct("prod-1", "20"), enums.ProductSizeM, black, 2)

	raw, ok := store.values[config.StorageKeyCart]
	if !ok {
		t.Fatal("expected cart state to be persisted")
	}
	var payload []map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("persisted cart is not a line-item list: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("expected one persisted item, got %d", len(payload))
	}
	if _, hasTotals := payload[0]["subtotal"]; hasTotals {
		t.Fatal("totals must not be persisted")
	}
}

func TestHydrateRecomputesTotals(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	ctx := context.Background()

	first := newTestLedger(t, LedgerParams{Store: store})
	_ = first.AddItem(ctx, testProduct("prod-1", "20"), enums.ProductSizeM, black, 2)
	_ = first.AddItem(ctx, testProduct("prod-2", "55"), enums.ProductSizeL, navy, 1)

	second := newTestLedger(t, LedgerParams{Store: store})
	if err := second.Hydrate(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.Len() != 2 {
		t.Fatalf("expected 2 rehydrated items, got %d", second.Len())
	}
	if got := second.Totals().Total; !got.Equal(decimal.RequireFromString("112.59")) {
		t.Fatalf("rehydrated total = %s, want 112.59", got)
	}
}

func TestHydrateRestoresQuantityFloor(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	stored := []LineItem{
		{Product: testProduct("prod-1", "20"), SelectedSize: enums.ProductSizeM, SelectedColor: black, Quantity: 0},
		{Product: testProduct("prod-2", "55"), SelectedSize: enums.ProductSizeL, SelectedColor: navy, Quantity: -3},
		{Product: testProduct("prod-3", "10"), SelectedSize: enums.ProductSizeS, SelectedColor: black, Quantity: 2},
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.values[config.StorageKeyCart] = raw

	ledger := newTestLedger(t, LedgerParams{Store: store})
	if err := ledger.Hydrate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := ledger.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 rehydrated items, got %d", len(items))
	}
	for _, item := range items {
		if item.Quantity < 1 {
			t.Fatalf("line %s rehydrated with quantity %d", item.Product.ID, item.Quantity)
		}
	}
	if items[2].Quantity != 2 {
		t.Fatalf("valid quantity must survive hydration, got %d", items[2].Quantity)
	}

	// Totals reflect the restored quantities: 20*1 + 55*1 + 10*2.
	if got := ledger.Totals().Subtotal; !got.Equal(decimal.RequireFromString("95")) {
		t.Fatalf("rehydrated subtotal = %s, want 95", got)
	}
}

func TestHydrateCorruptStateDegradesToEmpty(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.values[config.StorageKeyCart] = []byte("{broken")

	ledger := newTestLedger(t, LedgerParams{Store: store})
	if err := ledger.Hydrate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Len() != 0 {
		t.Fatal("corrupt state must hydrate to an empty cart")
	}
	if !ledger.Totals().Total.IsZero() {
		t.Fatal("empty cart must total zero")
	}
}

func TestPersistFailureSurfacesServerError(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.saveErr = errors.New("disk full")
	ledger := newTestLedger(t, LedgerParams{Store: store})

	err := ledger.AddItem(context.Background(), testProduct("prod-1", "20"), enums.ProductSizeM, black, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeServer {
		t.Fatalf("expected server error, got %v", err)
	}
}
