// Package bootstrap holds the reference-data snapshot (vendors, products,
// users) fetched once after login. The store keeps ordered lists plus
// id-keyed lookup maps, and can persist itself to a JSON snapshot file so
// a restart starts warm.
package bootstrap

import (
	"context"
	"sync"

	"kavalife-erp/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher is the slice of the API client the store needs
type Fetcher interface {
	FetchAllVendors(ctx context.Context) ([]model.Vendor, error)
	FetchAllProducts(ctx context.Context) ([]model.Product, error)
	FetchAllUsers(ctx context.Context) ([]model.User, error)
}

// Store is the reference-data cache. All methods are safe for concurrent
// use; writes only happen inside Load, Refresh and Clear.
type Store struct {
	mu sync.RWMutex

	vendors  []model.Vendor
	products []model.Product
	users    []model.User

	vendorByID  map[uint]model.Vendor
	productByID map[uint]model.Product
	userByID    map[uint]model.User

	loaded  bool
	loading bool
	errMsg  string

	fetcher      Fetcher
	log          *zap.Logger
	snapshotPath string
}

// Option customizes the store
type Option func(*Store)

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithSnapshot enables persistence to the given file. The snapshot is
// restored immediately; a missing file or a schema-version mismatch
// leaves the store empty.
func WithSnapshot(path string) Option {
	return func(s *Store) { s.snapshotPath = path }
}

// NewStore creates an empty store backed by the given fetcher
func NewStore(fetcher Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher:     fetcher,
		vendorByID:  map[uint]model.Vendor{},
		productByID: map[uint]model.Product{},
		userByID:    map[uint]model.User{},
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.snapshotPath != "" {
		s.restoreSnapshot()
	}
	return s
}

// Load populates the store once. A second call while loading, or any call
// after a successful load, returns immediately without fetching. A failed
// load leaves the store unchanged so the next Load retries.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loading || s.loaded {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	return s.fetchAndReplace(ctx)
}

// Refresh unconditionally re-fetches and replaces the snapshot, regardless
// of the loaded state. Used for manual cache invalidation.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	return s.fetchAndReplace(ctx)
}

// fetchAndReplace runs the three reference fetches concurrently and joins
// them all-or-nothing: if any one fails, no field changes.
func (s *Store) fetchAndReplace(ctx context.Context) error {
	var (
		vendors  []model.Vendor
		products []model.Product
		users    []model.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vendors, err = s.fetcher.FetchAllVendors(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.fetcher.FetchAllProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.fetcher.FetchAllUsers(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Warn("Reference data fetch failed", zap.Error(err))
		s.mu.Lock()
		s.loading = false
		s.errMsg = err.Error()
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.vendors = vendors
	s.products = products
	s.users = users
	s.vendorByID = keyVendors(vendors)
	s.productByID = keyProducts(products)
	s.userByID = keyUsers(users)
	s.loaded = true
	s.loading = false
	s.errMsg = ""
	s.mu.Unlock()

	s.log.Info("Reference data loaded",
		zap.Int("vendors", len(vendors)),
		zap.Int("products", len(products)),
		zap.Int("users", len(users)))

	if s.snapshotPath != "" {
		if err := s.saveSnapshot(); err != nil {
			s.log.Warn("Failed to persist reference snapshot", zap.Error(err))
		}
	}
	return nil
}

// Clear resets the store to its initial empty state and drops any
// persisted snapshot. Called on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	s.vendors = nil
	s.products = nil
	s.users = nil
	s.vendorByID = map[uint]model.Vendor{}
	s.productByID = map[uint]model.Product{}
	s.userByID = map[uint]model.User{}
	s.loaded = false
	s.loading = false
	s.errMsg = ""
	s.mu.Unlock()

	if s.snapshotPath != "" {
		s.removeSnapshot()
	}
}

// GetVendor returns the vendor for an id; ok is false for unknown ids
func (s *Store) GetVendor(id uint) (model.Vendor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vendorByID[id]
	return v, ok
}

// GetProduct returns the product for an id; ok is false for unknown ids
func (s *Store) GetProduct(id uint) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.productByID[id]
	return p, ok
}

// GetUser returns the user for an id; ok is false for unknown ids
func (s *Store) GetUser(id uint) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.userByID[id]
	return u, ok
}

// Vendors returns the vendor list in fetch order
func (s *Store) Vendors() []model.Vendor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vendors
}

// Products returns the product list in fetch order
func (s *Store) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// Users returns the user list in fetch order
func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users
}

// Loaded reports whether a load has completed successfully
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Err returns the message from the last failed fetch, or "" after a
// successful one. Advisory only; it never blocks a retry.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func keyVendors(vendors []model.Vendor) map[uint]model.Vendor {
	m := make(map[uint]model.Vendor, len(vendors))
	for _, v := range vendors {
		m[v.ID] = v
	}
	return m
}

func keyProducts(products []model.Product) map[uint]model.Product {
	m := make(map[uint]model.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}

func keyUsers(users []model.User) map[uint]model.User {
	m := make(map[uint]model.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}
