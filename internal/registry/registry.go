// Package registry owns the client profiles and their open orders.
//
// Every mutation runs under a single mutex and persists the whole registry
// before returning. When persistence fails the in-memory change is kept and
// the error wraps ErrPersist, so callers can log it and carry on.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"telegram-order-bot/internal/catalog"
	"telegram-order-bot/internal/models"
	"telegram-order-bot/internal/storage"
)

var (
	ErrUnknownItem     = errors.New("unknown catalog item")
	ErrInvalidQuantity = errors.New("quantity must be a non-negative integer")
	ErrClientNotFound  = errors.New("client not found")
	ErrNotRegistered   = errors.New("client is not registered")
	ErrPersist         = errors.New("not persisted")
	errEmptyClientID   = errors.New("empty client id")
)

const timestampLayout = "2006-01-02 15:04:05"

type Registry struct {
	mu      sync.Mutex
	store   storage.Store
	catalog *catalog.Catalog
	clock   clockwork.Clock
	loc     *time.Location
	clients map[string]*models.ClientProfile
}

type Option func(*Registry)

func WithClock(c clockwork.Clock) Option { return func(r *Registry) { r.clock = c } }

func WithLocation(loc *time.Location) Option { return func(r *Registry) { r.loc = loc } }

// New loads the persisted registry (if any) from store.
func New(store storage.Store, cat *catalog.Catalog, opts ...Option) (*Registry, error) {
	r := &Registry{
		store:   store,
		catalog: cat,
		clock:   clockwork.NewRealClock(),
		loc:     time.UTC,
		clients: map[string]*models.ClientProfile{},
	}
	for _, o := range opts {
		o(r)
	}

	loaded := map[string]*models.ClientProfile{}
	if _, err := store.Load(storage.DocClients, &loaded); err != nil {
		return nil, fmt.Errorf("registry: load: %w", err)
	}
	for id, p := range loaded {
		if p == nil {
			continue
		}
		p.ClientID = id
		// старые документы могли содержать нулевые строки
		p.OpenOrder = p.OpenOrder.Clone()
		r.clients[id] = p
	}
	return r, nil
}

func (r *Registry) persistLocked() error {
	if err := r.store.Save(storage.DocClients, r.clients); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// GetOrCreate returns the profile, creating and persisting an unregistered
// one on first contact. created reports whether the profile is new.
func (r *Registry) GetOrCreate(clientID, username string) (p models.ClientProfile, created bool, err error) {
	if clientID == "" {
		return models.ClientProfile{}, false, errEmptyClientID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.clients[clientID]; ok {
		if username != "" && cur.Username != username {
			cur.Username = username
			err = r.persistLocked()
		}
		return cur.Clone(), false, err
	}

	np := &models.ClientProfile{
		ClientID:  clientID,
		Username:  username,
		OpenOrder: models.Order{},
	}
	r.clients[clientID] = np
	return np.Clone(), true, r.persistLocked()
}

func (r *Registry) Get(clientID string) (models.ClientProfile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.clients[clientID]
	if !ok {
		return models.ClientProfile{}, false
	}
	return p.Clone(), true
}

// SetLocationName stores the first registration answer.
func (r *Registry) SetLocationName(clientID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.clients[clientID]
	if !ok {
		return ErrClientNotFound
	}
	p.LocationName = name
	return r.persistLocked()
}

// CompleteRegistration stores the address, marks the client registered and
// stamps the registration time.
func (r *Registry) CompleteRegistration(clientID, address string) (models.ClientProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.clients[clientID]
	if !ok {
		return models.ClientProfile{}, ErrClientNotFound
	}
	p.Address = address
	p.Registered = true
	p.RegistrationTimestamp = r.clock.Now().In(r.loc).Format(timestampLayout)
	return p.Clone(), r.persistLocked()
}

// ParseQuantity parses free-text input as a non-negative integer.
func ParseQuantity(text string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || q < 0 {
		return 0, ErrInvalidQuantity
	}
	return q, nil
}

// SetItemQuantity upserts a line of the open order; quantity 0 removes it.
func (r *Registry) SetItemQuantity(clientID, item string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if !r.catalog.Has(item) {
		return fmt.Errorf("%w: %q", ErrUnknownItem, item)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.clients[clientID]
	if !ok {
		return ErrClientNotFound
	}
	if !p.Registered {
		return ErrNotRegistered
	}
	if p.OpenOrder == nil {
		p.OpenOrder = models.Order{}
	}
	p.OpenOrder.Set(item, quantity)
	return r.persistLocked()
}

func (r *Registry) ClearOrder(clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.clients[clientID]
	if !ok {
		return ErrClientNotFound
	}
	p.OpenOrder = models.Order{}
	return r.persistLocked()
}

// ClearAllOrders empties every open order and returns how many clients had
// a non-empty order before the call.
func (r *Registry) ClearAllOrders() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.clients {
		if !p.OpenOrder.IsEmpty() {
			n++
		}
		p.OpenOrder = models.Order{}
	}
	return n, r.persistLocked()
}

// DeleteClient removes the profile entirely.
func (r *Registry) DeleteClient(clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[clientID]; !ok {
		return ErrClientNotFound
	}
	delete(r.clients, clientID)
	return r.persistLocked()
}

// List returns copies of all profiles ordered by client id.
func (r *Registry) List() []models.ClientProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ClientProfile, 0, len(r.clients))
	for _, p := range r.clients {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}

// Stats reports registered clients and how many of them have an open order.
func (r *Registry) Stats() (registered, withOrders int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.clients {
		if !p.Registered {
			continue
		}
		registered++
		if !p.OpenOrder.IsEmpty() {
			withOrders++
		}
	}
	return registered, withOrders
}
