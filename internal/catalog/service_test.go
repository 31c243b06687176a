package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/confirm"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/ids"
	"github.com/angelmondragon/storefront-backend/pkg/kvstore"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	mu       sync.Mutex
	products []Product
	err      error
	calls    int
}

func (s *stubSource) List(context.Context) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return cloneProducts(s.products), nil
}

func (s *stubSource) ListLimited(ctx context.Context, n int) ([]Product, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func remoteProducts() []Product {
	return []Product{
		{ID: 1, Title: "Fjallraven Backpack", Price: decimal.RequireFromString("109.95"), Description: "Your perfect pack", Category: "men's clothing", Source: SourceRemote},
		{ID: 2, Title: "Mens Casual T-Shirt", Price: decimal.RequireFromString("22.30"), Description: "Slim-fitting style", Category: "men's clothing", Source: SourceRemote},
		{ID: 3, Title: "Gold Ring", Price: decimal.RequireFromString("9.99"), Description: "", Category: "jewelery", Source: SourceRemote},
	}
}

var defaultSettings = Settings{
	RemoteTTL:         time.Minute,
	TopLimit:          5,
	CustomIDThreshold: 1000,
	PlaceholderImage:  "https://via.placeholder.com/300",
	DefaultCategory:   "custom",
}

type fixture struct {
	svc    Service
	source *stubSource
	store  *kvstore.Memory
	now    *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	f := &fixture{
		source: &stubSource{products: remoteProducts()},
		store:  kvstore.NewMemory(),
		now:    &now,
	}
	f.svc = f.build(t)
	return f
}

func (f *fixture) build(t *testing.T) Service {
	t.Helper()
	clock := func() time.Time { return *f.now }
	svc, err := NewService(Deps{
		Source:   f.source,
		Store:    f.store,
		Logger:   logger.Nop(),
		IDs:      ids.NewGeneratorWithClock(clock),
		Settings: defaultSettings,
		Now:      clock,
	})
	require.NoError(t, err)
	return svc
}

func productIDs(products []Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestLoadMergesRemoteThenCustom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Load(ctx)

	added, notice, err := f.svc.Add(ctx, Input{Title: "Handmade Mug", Price: "12.50"})
	require.NoError(t, err)
	assert.Equal(t, types.SuccessNotice("Product added successfully!"), notice)

	restarted := f.build(t)
	res := restarted.Load(ctx)
	assert.Nil(t, res.Notice)
	if diff := cmp.Diff([]int64{1, 2, 3, added.ID}, productIDs(res.Products)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAddAppliesDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Load(ctx)

	p, _, err := f.svc.Add(ctx, Input{Title: "Poster", Price: "5"})
	require.NoError(t, err)
	assert.Equal(t, f.now.UnixMilli(), p.ID)
	assert.Equal(t, SourceCustom, p.Source)
	assert.Equal(t, "https://via.placeholder.com/300", p.Image)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, "custom", p.Category)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(5)))

	second, _, err := f.svc.Add(ctx, Input{Title: "Poster 2", Price: "6"})
	require.NoError(t, err)
	assert.Equal(t, p.ID+1, second.ID, "ids never collide on a frozen clock")
}

func TestAddValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Load(ctx)

	cases := []struct {
		name  string
		input Input
		field string
	}{
		{"missing title", Input{Price: "1.00"}, "title"},
		{"blank title", Input{Title: "  ", Price: "1.00"}, "title"},
		{"missing price", Input{Title: "x"}, "price"},
		{"three decimals", Input{Title: "x", Price: "1.999"}, "price"},
		{"negative", Input{Title: "x", Price: "-3"}, "price"},
		{"not a number", Input{Title: "x", Price: "abc"}, "price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.svc.Add(ctx, tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			details, ok := typed.Details().(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tc.field)
		})
	}
	assert.Len(t, f.svc.Products(), 3, "failed validation must not mutate")
}

func TestEditKeepsIDAndSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Load(ctx)
	p, _, err := f.svc.Add(ctx, Input{Title: "Lamp", Price: "30", Category: "home"})
	require.NoError(t, err)

	edited, notice, err := f.svc.Edit(ctx, p.ID, Input{Title: "Desk Lamp", Price: "35.5"})
	require.NoError(t, err)
	assert.Equal(t, "Product updated successfully!", notice.Description)
	assert.Equal(t, p.ID, edited.ID)
	assert.Equal(t, SourceCustom, edited.Source)
	assert.Equal(t, "custom", edited.Category, "empty optional fields fall back to defaults")

	_, _, err = f.svc.Edit(ctx, 424242, Input{Title: "x", Price: "1"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Load(ctx)
	p, _, err := f.svc.Add(ctx, Input{Title: "Vase", Price: "8"})
	require.NoError(t, err)

	_, err = f.svc.Delete(ctx, p.ID, confirm.Always(false))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConfirmation))
	assert.Len(t, f.svc.Products(), 4)

	notice, err := f.svc.Delete(ctx, p.ID, confirm.Always(true))
	require.NoError(t, err)
	assert.Equal(t, "Product deleted successfully!", notice.Description)
	assert.Len(t, f.svc.Products(), 3)

	_, err = f.svc.Delete(ctx, p.ID, confirm.Always(true))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	custom, ok := kvstore.LoadJSON[[]Product](ctx, f.store, StorageKey, logger.Nop())
	require.True(t, ok)
	assert.Empty(t, custom)
}

func TestDeleteRemoteProductIsNotPersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Load(ctx)

	_, err := f.svc.Delete(ctx, 1, confirm.Always(true))
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, productIDs(f.svc.Products()))

	raw, err := f.store.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestRemoteFailureShowsCustomAndNotice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Load(ctx)
	p, _, err := f.svc.Add(ctx, Input{Title: "Local", Price: "1"})
	require.NoError(t, err)

	f.source.err = errors.New("dial tcp: timeout")
	restarted := f.build(t)
	res := restarted.Load(ctx)
	require.NotNil(t, res.Notice)
	assert.Equal(t, types.NoticeError, res.Notice.Level)
	assert.Equal(t, "Failed to load products", res.Notice.Description)
	assert.Equal(t, []int64{p.ID}, productIDs(res.Products))

	f.source.err = nil
	res = restarted.Load(ctx)
	assert.Nil(t, res.Notice)
	assert.Len(t, res.Products, 4, "a failed load is retried on the next load")
}

func TestEnsureLoadedFetchesOnceEvenAfterFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.source.err = errors.New("dial tcp: timeout")

	f.svc.EnsureLoaded(ctx)
	f.svc.EnsureLoaded(ctx)
	_, _, err := f.svc.Add(ctx, Input{Title: "Local", Price: "1"})
	require.NoError(t, err)
	f.svc.EnsureLoaded(ctx)
	assert.Equal(t, 1, f.source.calls, "a down remote must not be refetched for every mutation")

	f.source.err = nil
	res := f.svc.Load(ctx)
	assert.Equal(t, 2, f.source.calls)
	assert.Len(t, res.Products, 4)
}

func TestLoadCachesRemoteWithinTTL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.svc.Load(ctx)
	f.svc.Load(ctx)
	assert.Equal(t, 1, f.source.calls)

	*f.now = f.now.Add(2 * time.Minute)
	f.svc.Load(ctx)
	assert.Equal(t, 2, f.source.calls)

	f.svc.Reload(ctx)
	assert.Equal(t, 3, f.source.calls)
}

func TestLegacyRecordsUseIDThreshold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	legacy := `[{"id":1700000000000,"title":"Old custom","price":3,"image":"","description":"","category":"custom"},{"id":7,"title":"Stray","price":1}]`
	require.NoError(t, f.store.Set(ctx, StorageKey, legacy))

	res := f.svc.Load(ctx)
	require.Len(t, res.Products, 4)
	last := res.Products[3]
	assert.Equal(t, int64(1700000000000), last.ID)
	assert.Equal(t, SourceCustom, last.Source)

	added, _, err := f.svc.Add(ctx, Input{Title: "New", Price: "1"})
	require.NoError(t, err)
	assert.Greater(t, added.ID, last.ID, "new ids stay above persisted ones")
}

func TestMalformedCustomListIsIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, StorageKey, "not-json"))

	res := f.svc.Load(ctx)
	assert.Len(t, res.Products, 3)
}

func TestAddBeforeLoadKeepsPersistedProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Load(ctx)
	first, _, err := f.svc.Add(ctx, Input{Title: "First", Price: "1"})
	require.NoError(t, err)

	restarted := f.build(t)
	second, _, err := restarted.Add(ctx, Input{Title: "Second", Price: "2"})
	require.NoError(t, err)

	custom, ok := kvstore.LoadJSON[[]Product](ctx, f.store, StorageKey, logger.Nop())
	require.True(t, ok)
	assert.Equal(t, []int64{first.ID, second.ID}, productIDs(custom))
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Load(ctx)
	_, _, err := f.svc.Add(ctx, Input{Title: "ÉCLAIR Tray", Price: "2", Category: "Bakeware"})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, productIDs(f.svc.Search("BACKPACK")))
	assert.Equal(t, []int64{3}, productIDs(f.svc.Search("jewel")))
	assert.Equal(t, []int64{2}, productIDs(f.svc.Search("slim")), "description matches")
	assert.Len(t, f.svc.Search("éclair"), 1, "unicode case folding")
	assert.Len(t, f.svc.Search("   "), 4)
	assert.Empty(t, f.svc.Search("zzz"))
}

func TestDetailsRequiresDescription(t *testing.T) {
	f := newFixture(t)
	f.svc.Load(context.Background())

	p, err := f.svc.Details(1)
	require.NoError(t, err)
	assert.Equal(t, "Fjallraven Backpack", p.Title)

	_, err = f.svc.Details(3)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "No Description Available", typed.Message())
	assert.Equal(t, map[string]any{"description": "This product does not have a description yet."}, typed.Details())

	_, err = f.svc.Details(999)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestTopUsesLimitedFetch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Len(t, f.svc.Top(ctx, 2), 2)
	assert.Len(t, f.svc.Top(ctx, 0), 3, "zero falls back to configured limit")

	f.source.err = errors.New("offline")
	assert.Empty(t, f.svc.Top(ctx, 5))
}

func TestPriceTextAcceptsNumbersAndStrings(t *testing.T) {
	var in Input
	require.NoError(t, jsonUnmarshal(`{"title":"a","price":12.5}`, &in))
	assert.Equal(t, PriceText("12.5"), in.Price)
	require.NoError(t, jsonUnmarshal(`{"title":"a","price":" 3.10 "}`, &in))
	assert.Equal(t, PriceText("3.10"), in.Price)
}
