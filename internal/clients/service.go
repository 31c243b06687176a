package clients

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/angelmondragon/storefront-backend/pkg/confirm"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/events"
	"github.com/angelmondragon/storefront-backend/pkg/ids"
	"github.com/angelmondragon/storefront-backend/pkg/kvstore"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/angelmondragon/storefront-backend/pkg/validation"
)

// StorageKey holds the JSON array of client records.
const StorageKey = "clients"

const (
	DeletePrompt = "Are you sure you want to delete this client?"

	clientAddedMessage   = "Client added successfully!"
	clientUpdatedMessage = "Client updated successfully!"
	clientDeletedMessage = "Client deleted successfully!"
)

// Client is a contact record managed by the registry.
type Client struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Input is the add/update form; every field is required.
type Input struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"notblank,email"`
	Phone   string `json:"phone" validate:"notblank"`
	Address string `json:"address" validate:"notblank"`
}

// Page is one slice of the registry plus its window.
type Page struct {
	Clients []Client          `json:"clients"`
	Window  pagination.Window `json:"pagination"`
}

type Service interface {
	List() []Client
	Page(n int) Page
	Get(id int64) (Client, error)
	Add(ctx context.Context, in Input) (Client, *types.Notice, error)
	Update(ctx context.Context, id int64, in Input) (Client, *types.Notice, error)
	Delete(ctx context.Context, id int64, c confirm.Confirmer) (*types.Notice, error)
}

type Deps struct {
	Store    kvstore.Store
	Logger   *logger.Logger
	Metrics  *metrics.Storefront
	Events   events.Emitter
	IDs      *ids.Generator
	PageSize int
}

type service struct {
	mu       sync.RWMutex
	clients  []Client
	store    kvstore.Store
	logg     *logger.Logger
	metrics  *metrics.Storefront
	events   events.Emitter
	ids      *ids.Generator
	pageSize int
}

// NewService loads every persisted record up front.
func NewService(ctx context.Context, deps Deps) (Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("clients store required")
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
	if deps.PageSize <= 0 {
		deps.PageSize = pagination.DefaultPageSize
	}

	stored, _ := kvstore.LoadJSON[[]Client](ctx, deps.Store, StorageKey, deps.Logger)
	for _, c := range stored {
		deps.IDs.Observe(c.ID)
	}
	if stored == nil {
		stored = []Client{}
	}

	return &service{
		clients:  stored,
		store:    deps.Store,
		logg:     deps.Logger,
		metrics:  deps.Metrics,
		events:   deps.Events,
		ids:      deps.IDs,
		pageSize: deps.PageSize,
	}, nil
}

func (s *service) List() []Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Client, len(s.clients))
	copy(out, s.clients)
	return out
}

func (s *service) Page(n int) Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := pagination.Paginate(len(s.clients), n, s.pageSize)
	out := make([]Client, w.End-w.Start)
	copy(out, s.clients[w.Start:w.End])
	return Page{Clients: out, Window: w}
}

func (s *service) Get(id int64) (Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.clients[idx], nil
	}
	return Client{}, notFound(id)
}

func (s *service) Add(ctx context.Context, in Input) (Client, *types.Notice, error) {
	if err := validation.Struct(&in); err != nil {
		return Client{}, nil, err
	}
	c := fromInput(s.ids.Next(), in)

	s.mu.Lock()
	s.clients = append(s.clients, c)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.events.Emit(ctx, events.TypeClientsUpdated, map[string]any{"op": "add", "client": c})
	return c, types.SuccessNotice(clientAddedMessage), nil
}

func (s *service) Update(ctx context.Context, id int64, in Input) (Client, *types.Notice, error) {
	if err := validation.Struct(&in); err != nil {
		return Client{}, nil, err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return Client{}, nil, notFound(id)
	}
	c := fromInput(id, in)
	s.clients[idx] = c
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.events.Emit(ctx, events.TypeClientsUpdated, map[string]any{"op": "update", "client": c})
	return c, types.SuccessNotice(clientUpdatedMessage), nil
}

func (s *service) Delete(ctx context.Context, id int64, c confirm.Confirmer) (*types.Notice, error) {
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
		return nil, notFound(id)
	}
	s.clients = append(s.clients[:idx:idx], s.clients[idx+1:]...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.events.Emit(ctx, events.TypeClientsUpdated, map[string]any{"op": "delete", "id": id})
	return types.SuccessNotice(clientDeletedMessage), nil
}

func (s *service) persistLocked(ctx context.Context) {
	if err := kvstore.SaveJSON(ctx, s.store, StorageKey, s.clients); err != nil {
		s.metrics.IncWriteFailure(StorageKey)
		s.logg.Warn(s.logg.WithField(ctx, "key", StorageKey), fmt.Sprintf("persisting clients: %v", err))
	}
}

func (s *service) indexLocked(id int64) int {
	for i := range s.clients {
		if s.clients[i].ID == id {
			return i
		}
	}
	return -1
}

func fromInput(id int64, in Input) Client {
	return Client{
		ID:      id,
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
	}
}

func notFound(id int64) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "client not found").WithDetails(map[string]any{"id": id})
}
