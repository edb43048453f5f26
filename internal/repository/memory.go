package repository

import (
	"context"
	"sort"
	"sync"

	"ecofood/internal/model"
)

// MemoryStore holds all entities in maps. It backs the in-memory repositories
// used by tests.
type MemoryStore struct {
	mu        sync.RWMutex
	products  map[uint]model.Product
	orders    map[uint]model.Order
	users     map[uint]model.User
	companies map[uint]model.Company
	nextID    map[string]uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:  make(map[uint]model.Product),
		orders:    make(map[uint]model.Order),
		users:     make(map[uint]model.User),
		companies: make(map[uint]model.Company),
		nextID:    make(map[string]uint),
	}
}

// allocID must be called with the write lock held
func (s *MemoryStore) allocID(entity string) uint {
	s.nextID[entity]++
	return s.nextID[entity]
}

// MemoryTxManager serializes transactions with a lock. There is no rollback:
// callers must validate before writing, which the services do.
type MemoryTxManager struct {
	mu sync.Mutex
}

func NewMemoryTxManager() *MemoryTxManager {
	return &MemoryTxManager{}
}

func (m *MemoryTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// LockEmail is a no-op: the transaction mutex already serializes every
// transaction, emails included.
func (m *MemoryTxManager) LockEmail(ctx context.Context, email string) error {
	return nil
}

// MemoryProducts is the in-memory product repository
type MemoryProducts struct {
	s *MemoryStore
}

func NewMemoryProducts(s *MemoryStore) *MemoryProducts {
	return &MemoryProducts{s: s}
}

func (r *MemoryProducts) Create(ctx context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.allocID("product")
	r.s.products[p.ID] = *p
	return nil
}

func (r *MemoryProducts) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *MemoryProducts) GetByIDForUpdate(ctx context.Context, id uint) (*model.Product, error) {
	// The transaction lock already serializes writers.
	return r.GetByID(ctx, id)
}

func (r *MemoryProducts) Update(ctx context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return ErrNotFound
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *MemoryProducts) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *MemoryProducts) List(ctx context.Context) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	sortByID(out, func(p model.Product) uint { return p.ID })
	return out, nil
}

func (r *MemoryProducts) ListByCompany(ctx context.Context, companyID uint) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	sortByID(out, func(p model.Product) uint { return p.ID })
	return out, nil
}

func (r *MemoryProducts) CountByCompany(ctx context.Context, companyID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			count++
		}
	}
	return count, nil
}

// MemoryOrders is the in-memory order repository
type MemoryOrders struct {
	s *MemoryStore
}

func NewMemoryOrders(s *MemoryStore) *MemoryOrders {
	return &MemoryOrders{s: s}
}

func (r *MemoryOrders) Create(ctx context.Context, o *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.ID = r.s.allocID("order")
	r.s.orders[o.ID] = *o
	return nil
}

func (r *MemoryOrders) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (r *MemoryOrders) Update(ctx context.Context, o *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[o.ID]; !ok {
		return ErrNotFound
	}
	r.s.orders[o.ID] = *o
	return nil
}

func (r *MemoryOrders) ListByClient(ctx context.Context, clientID uint) ([]model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Order
	for _, o := range r.s.orders {
		if o.ClientID == clientID {
			out = append(out, o)
		}
	}
	sortByID(out, func(o model.Order) uint { return o.ID })
	return out, nil
}

func (r *MemoryOrders) ListByCompany(ctx context.Context, companyID uint, status model.OrderStatus) ([]model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Order
	for _, o := range r.s.orders {
		if o.CompanyID == companyID && (status == "" || o.Status == status) {
			out = append(out, o)
		}
	}
	sortByID(out, func(o model.Order) uint { return o.ID })
	return out, nil
}

// MemoryUsers is the in-memory user repository
type MemoryUsers struct {
	s *MemoryStore
}

func NewMemoryUsers(s *MemoryStore) *MemoryUsers {
	return &MemoryUsers{s: s}
}

func (r *MemoryUsers) Create(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	u.ID = r.s.allocID("user")
	r.s.users[u.ID] = *u
	return nil
}

func (r *MemoryUsers) GetByID(ctx context.Context, id uint) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUsers) Update(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return ErrNotFound
	}
	for _, existing := range r.s.users {
		if existing.ID != u.ID && existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *MemoryUsers) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *MemoryUsers) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.User
	for _, u := range r.s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sortByID(out, func(u model.User) uint { return u.ID })
	return out, nil
}

func (r *MemoryUsers) CountByCompany(ctx context.Context, companyID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, u := range r.s.users {
		if u.CompanyID != nil && *u.CompanyID == companyID {
			count++
		}
	}
	return count, nil
}

// MemoryCompanies is the in-memory company repository
type MemoryCompanies struct {
	s *MemoryStore
}

func NewMemoryCompanies(s *MemoryStore) *MemoryCompanies {
	return &MemoryCompanies{s: s}
}

func (r *MemoryCompanies) Create(ctx context.Context, c *model.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.companies {
		if existing.Email == c.Email || existing.RUT == c.RUT {
			return ErrDuplicate
		}
	}
	c.ID = r.s.allocID("company")
	r.s.companies[c.ID] = *c
	return nil
}

func (r *MemoryCompanies) GetByID(ctx context.Context, id uint) (*model.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *MemoryCompanies) GetByEmail(ctx context.Context, email string) (*model.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.companies {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryCompanies) Update(ctx context.Context, c *model.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[c.ID]; !ok {
		return ErrNotFound
	}
	for _, existing := range r.s.companies {
		if existing.ID != c.ID && (existing.Email == c.Email || existing.RUT == c.RUT) {
			return ErrDuplicate
		}
	}
	r.s.companies[c.ID] = *c
	return nil
}

func (r *MemoryCompanies) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.companies, id)
	return nil
}

func (r *MemoryCompanies) List(ctx context.Context) ([]model.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		out = append(out, c)
	}
	sortByID(out, func(c model.Company) uint { return c.ID })
	return out, nil
}

func sortByID[T any](items []T, id func(T) uint) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
