package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/events"
	"github.com/angelmondragon/storefront-backend/pkg/kvstore"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// StorageKey holds the JSON array of cart lines.
const StorageKey = "cartItems"

// Item is one cart line: the product fields plus a positive quantity.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Snapshot is the cart state delivered to subscribers after each mutation.
type Snapshot struct {
	Items       []Item          `json:"items"`
	TotalItems  int             `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Service is the shared cart for one workspace.
type Service interface {
	Add(ctx context.Context, product catalog.Product)
	Remove(ctx context.Context, productID int64) bool
	Clear(ctx context.Context)
	Items() []Item
	TotalItems() int
	TotalAmount() decimal.Decimal
	Snapshot() Snapshot
	Subscribe(fn func(Snapshot)) (cancel func())
}

// Deps wires the cart to storage and observability.
type Deps struct {
	Store   kvstore.Store
	Logger  *logger.Logger
	Metrics *metrics.Storefront
	Events  events.Emitter
}

type service struct {
	mu    sync.Mutex
	items []Item

	store   kvstore.Store
	logg    *logger.Logger
	metrics *metrics.Storefront
	events  events.Emitter

	// notifyMu orders deliveries so subscribers see snapshots in commit order.
	notifyMu sync.Mutex
	subMu    sync.Mutex
	subs     map[int]func(Snapshot)
	nextID   int
}

// NewService restores the cart from storage. A missing or unreadable
// snapshot starts an empty cart.
func NewService(ctx context.Context, deps Deps) (Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if deps.Events == nil {
		deps.Events = events.Discard{}
	}

	items, _ := kvstore.LoadJSON[[]Item](ctx, deps.Store, StorageKey, deps.Logger)

	return &service{
		items:   sanitize(items),
		store:   deps.Store,
		logg:    deps.Logger,
		metrics: deps.Metrics,
		events:  deps.Events,
		subs:    map[int]func(Snapshot){},
	}, nil
}

// sanitize drops lines a hand-edited snapshot could carry: non-positive
// quantities and repeated product ids.
func sanitize(items []Item) []Item {
	out := make([]Item, 0, len(items))
	seen := map[int64]int{}
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if idx, ok := seen[it.ID]; ok {
			out[idx].Quantity += it.Quantity
			continue
		}
		seen[it.ID] = len(out)
		out = append(out, it)
	}
	return out
}

func (s *service) Add(ctx context.Context, product catalog.Product) {
	s.mutate(ctx, "add", func() bool {
		for i := range s.items {
			if s.items[i].ID == product.ID {
				s.items[i].Quantity++
				return true
			}
		}
		s.items = append(s.items, Item{Product: product, Quantity: 1})
		return true
	})
}

func (s *service) Remove(ctx context.Context, productID int64) bool {
	return s.mutate(ctx, "remove", func() bool {
		for i := range s.items {
			if s.items[i].ID == productID {
				s.items = append(s.items[:i:i], s.items[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (s *service) Clear(ctx context.Context) {
	s.mutate(ctx, "clear", func() bool {
		s.items = []Item{}
		return true
	})
}

// mutate applies fn and persists under the lock, then notifies outside it.
// fn reports whether it changed anything; unchanged carts skip every side
// effect. Subscribers must not mutate the cart from their callback.
func (s *service) mutate(ctx context.Context, op string, fn func() bool) bool {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return false
	}
	snap := s.snapshotLocked()
	if err := kvstore.SaveJSON(ctx, s.store, StorageKey, snap.Items); err != nil {
		s.metrics.IncWriteFailure(StorageKey)
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"key": StorageKey, "op": op}), fmt.Sprintf("persisting cart: %v", err))
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.metrics.IncCartMutation(op)
	s.events.Emit(ctx, events.TypeCartUpdated, snap)
	s.notify(snap)
	return true
}

func (s *service) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *service) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *service) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *service) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.items)
}

func (s *service) TotalAmount() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalAmount(s.items)
}

func (s *service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *service) snapshotLocked() Snapshot {
	return Snapshot{
		Items:       s.copyLocked(),
		TotalItems:  totalItems(s.items),
		TotalAmount: totalAmount(s.items),
	}
}

func (s *service) copyLocked() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func totalItems(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func totalAmount(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}
