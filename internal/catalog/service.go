package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/confirm"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/events"
	"github.com/angelmondragon/storefront-backend/pkg/ids"
	"github.com/angelmondragon/storefront-backend/pkg/kvstore"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/angelmondragon/storefront-backend/pkg/validation"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
)

// StorageKey holds the JSON array of locally authored products.
const StorageKey = "customProducts"

const (
	DeletePrompt = "Are you sure you want to delete this product?"

	loadFailedMessage     = "Failed to load products"
	noDescriptionTitle    = "No Description Available"
	noDescriptionDetail   = "This product does not have a description yet."
	productAddedMessage   = "Product added successfully!"
	productUpdatedMessage = "Product updated successfully!"
	productDeletedMessage = "Product deleted successfully!"
)

// Settings are the catalog knobs sourced from config.
type Settings struct {
	RemoteTTL         time.Duration
	TopLimit          int
	CustomIDThreshold int64
	PlaceholderImage  string
	DefaultCategory   string
}

// Deps wires the catalog to its remote source and local storage.
type Deps struct {
	Source   Source
	Store    kvstore.Store
	Logger   *logger.Logger
	Metrics  *metrics.Storefront
	Events   events.Emitter
	IDs      *ids.Generator
	Settings Settings
	Now      func() time.Time
}

// LoadResult is the displayed list plus a notice when the remote fetch failed.
type LoadResult struct {
	Products []Product
	Notice   *types.Notice
}

// Service is the product catalog for one workspace.
type Service interface {
	Load(ctx context.Context) LoadResult
	EnsureLoaded(ctx context.Context)
	Reload(ctx context.Context) LoadResult
	Products() []Product
	Search(query string) []Product
	Get(id int64) (Product, error)
	Details(id int64) (Product, error)
	Top(ctx context.Context, n int) []Product
	Add(ctx context.Context, in Input) (Product, *types.Notice, error)
	Edit(ctx context.Context, id int64, in Input) (Product, *types.Notice, error)
	Delete(ctx context.Context, id int64, c confirm.Confirmer) (*types.Notice, error)
}

type service struct {
	source   Source
	store    kvstore.Store
	logg     *logger.Logger
	metrics  *metrics.Storefront
	events   events.Emitter
	ids      *ids.Generator
	settings Settings
	now      func() time.Time

	// loadMu serializes refreshes so concurrent views share one remote fetch.
	loadMu sync.Mutex

	mu           sync.RWMutex
	products     []Product
	remoteAt     time.Time
	remoteOK     bool
	attempted    bool
	customLoaded bool
}

func NewService(deps Deps) (Service, error) {
	if deps.Source == nil {
		return nil, fmt.Errorf("product source required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if deps.IDs == nil {
		deps.IDs = ids.NewGenerator()
	}
	if deps.Events == nil {
		deps.Events = events.Discard{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Settings.DefaultCategory == "" {
		deps.Settings.DefaultCategory = "custom"
	}
	if deps.Settings.TopLimit <= 0 {
		deps.Settings.TopLimit = 5
	}
	return &service{
		source:   deps.Source,
		store:    deps.Store,
		logg:     deps.Logger,
		metrics:  deps.Metrics,
		events:   deps.Events,
		ids:      deps.IDs,
		settings: deps.Settings,
		now:      deps.Now,
	}, nil
}

func (s *service) Load(ctx context.Context) LoadResult {
	return s.load(ctx, false)
}

// EnsureLoaded fetches the catalog only if no load has been attempted yet.
// A failed remote fetch counts as attempted, so mutations never wait on a
// remote that is down. Load and Reload still refetch.
func (s *service) EnsureLoaded(ctx context.Context) {
	s.mu.RLock()
	attempted := s.attempted
	s.mu.RUnlock()
	if !attempted {
		s.load(ctx, false)
	}
}

func (s *service) Reload(ctx context.Context) LoadResult {
	return s.load(ctx, true)
}

func (s *service) load(ctx context.Context, force bool) LoadResult {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.RLock()
	fresh := s.remoteOK && s.settings.RemoteTTL > 0 && s.now().Sub(s.remoteAt) < s.settings.RemoteTTL
	needCustom := !s.customLoaded
	s.mu.RUnlock()

	if fresh && !force && !needCustom {
		return LoadResult{Products: s.Products()}
	}

	var (
		remote    []Product
		remoteErr error
		custom    []Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		remote, remoteErr = s.source.List(gctx)
		return nil
	})
	if needCustom {
		g.Go(func() error {
			custom = s.readCustom(gctx)
			return nil
		})
	}
	_ = g.Wait()

	var notice *types.Notice
	if remoteErr != nil {
		s.logg.Error(s.logg.WithField(ctx, "component", "catalog"), "loading remote products", remoteErr)
		notice = types.ErrorNotice(loadFailedMessage)
		remote = nil
	}

	s.mu.Lock()
	current := s.customLocked()
	if needCustom {
		current = custom
		s.customLoaded = true
	}
	merged := make([]Product, 0, len(remote)+len(current))
	merged = append(merged, remote...)
	merged = append(merged, current...)
	s.products = merged
	s.attempted = true
	s.remoteOK = remoteErr == nil
	if s.remoteOK {
		s.remoteAt = s.now()
	}
	out := cloneProducts(s.products)
	s.mu.Unlock()

	return LoadResult{Products: out, Notice: notice}
}

// readCustom restores persisted custom products. Records written before
// provenance was tracked are classified by the id threshold; any that fall
// under it are dropped since the remote list already carries them.
func (s *service) readCustom(ctx context.Context) []Product {
	stored, _ := kvstore.LoadJSON[[]Product](ctx, s.store, StorageKey, s.logg)
	out := make([]Product, 0, len(stored))
	for _, p := range stored {
		if p.Source == "" {
			if !p.IsCustom(s.settings.CustomIDThreshold) {
				s.logg.Warn(s.logg.WithField(ctx, "product_id", p.ID), "dropping persisted product below custom id threshold")
				continue
			}
			p.Source = SourceCustom
		}
		s.ids.Observe(p.ID)
		out = append(out, p)
	}
	return out
}

// ensureCustom restores persisted custom products before the first mutation
// so a write never replaces what an earlier process stored.
func (s *service) ensureCustom(ctx context.Context) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.RLock()
	loaded := s.customLoaded
	s.mu.RUnlock()
	if loaded {
		return
	}

	custom := s.readCustom(ctx)

	s.mu.Lock()
	s.products = append(s.products, custom...)
	s.customLoaded = true
	s.mu.Unlock()
}

func (s *service) customLocked() []Product {
	out := []Product{}
	for _, p := range s.products {
		if p.IsCustom(s.settings.CustomIDThreshold) {
			out = append(out, p)
		}
	}
	return out
}

func (s *service) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

func (s *service) Search(query string) []Product {
	all := s.Products()
	q := strings.TrimSpace(query)
	if q == "" {
		return all
	}
	folder := cases.Fold()
	needle := folder.String(q)
	out := []Product{}
	for _, p := range all {
		if strings.Contains(folder.String(p.Title), needle) ||
			strings.Contains(folder.String(p.Description), needle) ||
			strings.Contains(folder.String(p.Category), needle) {
			out = append(out, p)
		}
	}
	return out
}

func (s *service) Get(id int64) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.products[idx], nil
	}
	return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"id": id})
}

func (s *service) Details(id int64) (Product, error) {
	p, err := s.Get(id)
	if err != nil {
		return Product{}, err
	}
	if strings.TrimSpace(p.Description) == "" {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, noDescriptionTitle).WithDetails(map[string]any{"description": noDescriptionDetail})
	}
	return p, nil
}

func (s *service) Top(ctx context.Context, n int) []Product {
	if n <= 0 {
		n = s.settings.TopLimit
	}
	products, err := s.source.ListLimited(ctx, n)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "component", "catalog"), "loading top products", err)
		return []Product{}
	}
	if len(products) > n {
		products = products[:n]
	}
	return products
}

func (s *service) Add(ctx context.Context, in Input) (Product, *types.Notice, error) {
	if err := validation.Struct(&in); err != nil {
		return Product{}, nil, err
	}
	price, err := decimal.NewFromString(string(in.Price))
	if err != nil {
		return Product{}, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed").WithDetails(map[string]string{"price": "must be a valid price"})
	}

	s.ensureCustom(ctx)

	p := Product{
		ID:     s.ids.Next(),
		Title:  strings.TrimSpace(in.Title),
		Price:  price,
		Source: SourceCustom,
	}
	s.applyOptional(&p, in)

	s.mu.Lock()
	s.products = append(s.products, p)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.events.Emit(ctx, events.TypeCatalogUpdated, map[string]any{"op": "add", "product": p})
	return p, types.SuccessNotice(productAddedMessage), nil
}

func (s *service) Edit(ctx context.Context, id int64, in Input) (Product, *types.Notice, error) {
	if err := validation.Struct(&in); err != nil {
		return Product{}, nil, err
	}
	price, err := decimal.NewFromString(string(in.Price))
	if err != nil {
		return Product{}, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed").WithDetails(map[string]string{"price": "must be a valid price"})
	}

	s.ensureCustom(ctx)

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return Product{}, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"id": id})
	}
	p := s.products[idx]
	p.Title = strings.TrimSpace(in.Title)
	p.Price = price
	s.applyOptional(&p, in)
	s.products[idx] = p
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.events.Emit(ctx, events.TypeCatalogUpdated, map[string]any{"op": "edit", "product": p})
	return p, types.SuccessNotice(productUpdatedMessage), nil
}

func (s *service) Delete(ctx context.Context, id int64, c confirm.Confirmer) (*types.Notice, error) {
	s.ensureCustom(ctx)
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if c == nil {
		c = confirm.Always(false)
	}
	ok, err := c.Confirm(ctx, DeletePrompt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirmation failed")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConfirmation, DeletePrompt)
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"id": id})
	}
	s.products = append(s.products[:idx:idx], s.products[idx+1:]...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.events.Emit(ctx, events.TypeCatalogUpdated, map[string]any{"op": "delete", "id": id})
	return types.SuccessNotice(productDeletedMessage), nil
}

func (s *service) applyOptional(p *Product, in Input) {
	p.Image = strings.TrimSpace(in.Image)
	if p.Image == "" {
		p.Image = s.settings.PlaceholderImage
	}
	p.Description = in.Description
	p.Category = strings.TrimSpace(in.Category)
	if p.Category == "" {
		p.Category = s.settings.DefaultCategory
	}
}

// persistLocked writes the custom subset; remote products are never stored.
func (s *service) persistLocked(ctx context.Context) {
	if err := kvstore.SaveJSON(ctx, s.store, StorageKey, s.customLocked()); err != nil {
		s.metrics.IncWriteFailure(StorageKey)
		s.logg.Warn(s.logg.WithField(ctx, "key", StorageKey), fmt.Sprintf("persisting custom products: %v", err))
	}
}

func (s *service) indexLocked(id int64) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	copy(out, in)
	return out
}
