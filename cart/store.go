// Package cart holds the storefront's cart state for one client and keeps
// it in step with the remote API.
//
// Mutations apply to memory first. When a user is signed in, the full
// mapping is then persisted on a separate goroutine and the outcome is
// reported through a notify.Notifier. Persist calls are not ordered,
// retried or cancelled, and a failed persist does not roll memory back.
package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"quickcart/apiclient"
	"quickcart/notify"
	"quickcart/session"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Notices sent by the store.
const (
	MsgLoginRequired = "Please login"
	MsgItemAdded     = "Item added to cart"
	MsgCartUpdated   = "Cart Updated"
)

// ErrUnknownProduct is returned by CartAmount when the cart holds an item
// the catalog does not know.
var ErrUnknownProduct = errors.New("product not in catalog")

// API is the part of the remote API the store talks to.
type API interface {
	Products(ctx context.Context) ([]apiclient.Product, error)
	UserData(ctx context.Context, userID string) (*apiclient.UserData, error)
	UpdateCart(ctx context.Context, userID string, items map[string]int) error
}

// Options tunes a Store. Zero values pick the defaults.
type Options struct {
	Currency       string
	PersistTimeout time.Duration
	Logger         *zap.Logger
}

// Store is the cart of a single storefront client.
type Store struct {
	api      API
	sessions session.UserSource
	notifier notify.Notifier
	log      *zap.Logger

	currency       string
	persistTimeout time.Duration

	mu       sync.RWMutex
	items    map[string]int
	products []apiclient.Product
	catalog  map[string]apiclient.Product
	userData *apiclient.UserData
	isSeller bool

	inflight sync.WaitGroup
}

// NewStore creates a new Store with an empty cart and catalog.
func NewStore(api API, sessions session.UserSource, notifier notify.Notifier, opts Options) *Store {
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.L()
	}
	return &Store{
		api:            api,
		sessions:       sessions,
		notifier:       notifier,
		log:            opts.Logger.Named("cart"),
		currency:       opts.Currency,
		persistTimeout: opts.PersistTimeout,
		items:          map[string]int{},
		catalog:        map[string]apiclient.Product{},
	}
}

// Start loads the catalog and, when signed in, the user's stored cart. The
// two fetches run concurrently and report their own failures.
func (s *Store) Start(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		s.LoadCatalog(ctx)
		return nil
	})
	if s.sessions.User() != nil {
		g.Go(func() error {
			s.SyncSession(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

// LoadCatalog replaces the product cache with the remote catalog.
func (s *Store) LoadCatalog(ctx context.Context) {
	products, err := s.api.Products(ctx)
	if err != nil {
		s.log.Warn("failed to load catalog", zap.Error(err))
		s.notifier.Error(err.Error())
		return
	}

	catalog := make(map[string]apiclient.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	s.mu.Lock()
	s.products = products
	s.catalog = catalog
	s.mu.Unlock()
}

// SyncSession runs when a session is established. It replaces the cart with
// the one stored for the user.
func (s *Store) SyncSession(ctx context.Context) {
	user := s.sessions.User()
	if user == nil {
		return
	}
	if user.IsSeller() {
		s.SetSeller(true)
	}

	data, err := s.api.UserData(ctx, user.ID)
	if err != nil {
		s.log.Warn("failed to load user data", zap.String("user_id", user.ID), zap.Error(err))
		s.notifier.Error(err.Error())
		return
	}

	s.mu.Lock()
	s.userData = data
	s.items = positive(data.CartItems)
	s.mu.Unlock()
}

// AddToCart adds one of itemID. It requires a signed-in user.
func (s *Store) AddToCart(itemID string) {
	user := s.sessions.User()
	if user == nil {
		s.notifier.Warn(MsgLoginRequired)
		return
	}

	s.mu.Lock()
	s.items[itemID]++
	snapshot := copyItems(s.items)
	s.mu.Unlock()

	s.persist(user, snapshot, MsgItemAdded)
}

// UpdateCartQuantity sets the quantity of itemID. Zero or less removes it.
// Unlike AddToCart it works without a session and then stays in memory.
func (s *Store) UpdateCartQuantity(itemID string, quantity int) {
	s.mu.Lock()
	if quantity <= 0 {
		delete(s.items, itemID)
	} else {
		s.items[itemID] = quantity
	}
	snapshot := copyItems(s.items)
	s.mu.Unlock()

	if user := s.sessions.User(); user != nil {
		s.persist(user, snapshot, MsgCartUpdated)
	}
}

// CartCount is the total number of units in the cart.
func (s *Store) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, qty := range s.items {
		if qty > 0 {
			total += qty
		}
	}
	return total
}

// CartAmount is the cart total at offer prices, truncated to cents.
func (s *Store) CartAmount() (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for id, qty := range s.items {
		product, ok := s.catalog[id]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
		}
		if qty > 0 {
			total += product.OfferPrice * float64(qty)
		}
	}
	return math.Floor(total*100) / 100, nil
}

// Items returns a copy of the cart.
func (s *Store) Items() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyItems(s.items)
}

// SetItems replaces the cart without persisting it.
func (s *Store) SetItems(items map[string]int) {
	s.mu.Lock()
	s.items = positive(items)
	s.mu.Unlock()
}

// Products returns the cached catalog.
func (s *Store) Products() []apiclient.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]apiclient.Product, len(s.products))
	copy(out, s.products)
	return out
}

// UserData returns the last fetched user record, or nil.
func (s *Store) UserData() *apiclient.UserData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userData
}

// IsSeller reports whether the seller dashboard should be offered.
func (s *Store) IsSeller() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSeller
}

// SetSeller overrides the seller flag.
func (s *Store) SetSeller(isSeller bool) {
	s.mu.Lock()
	s.isSeller = isSeller
	s.mu.Unlock()
}

// Currency is the display currency code.
func (s *Store) Currency() string {
	return s.currency
}

// User is the current session user, or nil.
func (s *Store) User() *session.User {
	return s.sessions.User()
}

// Wait blocks until every persist started so far has returned.
func (s *Store) Wait() {
	s.inflight.Wait()
}

func (s *Store) persist(user *session.User, items map[string]int, success string) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
		defer cancel()

		if err := s.api.UpdateCart(ctx, user.ID, items); err != nil {
			s.log.Warn("failed to persist cart", zap.String("user_id", user.ID), zap.Error(err))
			s.notifier.Error(err.Error())
			return
		}
		s.notifier.Success(success)
	}()
}

func copyItems(items map[string]int) map[string]int {
	out := make(map[string]int, len(items))
	for k, v := range items {
		out[k] = v
	}
	return out
}

func positive(items map[string]int) map[string]int {
	out := make(map[string]int, len(items))
	for k, v := range items {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}
