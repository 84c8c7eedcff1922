package cart

import (
	"context"
	"sort"
	"sync"
	"time"

	"ezelectronics/internal/domain"
	"ezelectronics/internal/repository"
	cartrepo "ezelectronics/internal/repository/cart"
	productrepo "ezelectronics/internal/repository/product"
)

// memStore is an in-memory cart and catalog store. Within runs one unit of
// work at a time and restores a snapshot when the work fails.
type memStore struct {
	mu    sync.Mutex
	state *memState

	// failures injected into the transactional repositories
	decrementErr map[string]error
	markPaidErr  error
}

type memState struct {
	products map[string]domain.Product
	carts    []*memCart
	nextID   int64
}

type memCart struct {
	id          int64
	customer    string
	paid        bool
	paymentDate *string
	lines       []domain.CartLine
}

func newMemStore() *memStore {
	return &memStore{
		state:        &memState{products: map[string]domain.Product{}},
		decrementErr: map[string]error{},
	}
}

func (s *memState) clone() *memState {
	out := &memState{
		products: make(map[string]domain.Product, len(s.products)),
		carts:    make([]*memCart, 0, len(s.carts)),
		nextID:   s.nextID,
	}
	for k, v := range s.products {
		out.products[k] = v
	}
	for _, c := range s.carts {
		cp := *c
		cp.lines = append([]domain.CartLine(nil), c.lines...)
		if c.paymentDate != nil {
			d := *c.paymentDate
			cp.paymentDate = &d
		}
		out.carts = append(out.carts, &cp)
	}
	return out
}

func (s *memState) current(customer string) *memCart {
	for _, c := range s.carts {
		if c.customer == customer && !c.paid {
			return c
		}
	}
	return nil
}

func (s *memState) byID(id int64) *memCart {
	for _, c := range s.carts {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (c *memCart) toDomain() domain.Cart {
	out := domain.Cart{
		ID:       c.id,
		Customer: c.customer,
		Paid:     c.paid,
		Products: append([]domain.CartLine{}, c.lines...),
	}
	if c.paymentDate != nil {
		d := *c.paymentDate
		out.PaymentDate = &d
	}
	out.Recompute()
	return out
}

func (s *memStore) putProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.products[p.Model] = p
}

func (s *memStore) stock(model string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.products[model].Quantity
}

func (s *memStore) unpaidCount(customer string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.state.carts {
		if c.customer == customer && !c.paid {
			n++
		}
	}
	return n
}

func (s *memStore) Within(ctx context.Context, fn repository.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(ctx, &memCarts{store: s}, &memProducts{store: s}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// cartStore reads outside a transaction.

func (s *memStore) GetCurrent(_ context.Context, customer string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.state.current(customer)
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := c.toDomain()
	return &out, nil
}

func (s *memStore) ListPaidByCustomer(_ context.Context, customer string) ([]domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Cart{}
	for _, c := range s.state.carts {
		if c.customer == customer && c.paid {
			out = append(out, c.toDomain())
		}
	}
	return out, nil
}

func (s *memStore) ListAll(_ context.Context) ([]domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Cart{}
	for _, c := range s.state.carts {
		out = append(out, c.toDomain())
	}
	return out, nil
}

func (s *memStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.state.carts))
	s.state.carts = nil
	return n, nil
}

type memCarts struct {
	store *memStore
}

var _ cartrepo.Repository = (*memCarts)(nil)

func (r *memCarts) st() *memState { return r.store.state }

func (r *memCarts) GetCurrent(_ context.Context, customer string) (*domain.Cart, error) {
	c := r.st().current(customer)
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := c.toDomain()
	return &out, nil
}

func (r *memCarts) GetByID(_ context.Context, id int64) (*domain.Cart, error) {
	c := r.st().byID(id)
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := c.toDomain()
	return &out, nil
}

func (r *memCarts) ListPaidByCustomer(_ context.Context, customer string) ([]domain.Cart, error) {
	out := []domain.Cart{}
	for _, c := range r.st().carts {
		if c.customer == customer && c.paid {
			out = append(out, c.toDomain())
		}
	}
	return out, nil
}

func (r *memCarts) ListAll(_ context.Context) ([]domain.Cart, error) {
	out := []domain.Cart{}
	for _, c := range r.st().carts {
		out = append(out, c.toDomain())
	}
	return out, nil
}

func (r *memCarts) LockCurrent(_ context.Context, customer string) (int64, error) {
	c := r.st().current(customer)
	if c == nil {
		return 0, domain.ErrNotFound
	}
	return c.id, nil
}

func (r *memCarts) EnsureCurrent(ctx context.Context, customer string) (int64, error) {
	if c := r.st().current(customer); c != nil {
		return c.id, nil
	}
	st := r.st()
	st.nextID++
	st.carts = append(st.carts, &memCart{id: st.nextID, customer: customer})
	return st.nextID, nil
}

func (r *memCarts) AddLine(_ context.Context, cartID int64, product domain.Product) error {
	c := r.st().byID(cartID)
	if c == nil {
		return domain.ErrNotFound
	}
	for i := range c.lines {
		if c.lines[i].Model == product.Model {
			c.lines[i].Quantity++
			return nil
		}
	}
	c.lines = append(c.lines, domain.CartLine{
		Model:    product.Model,
		Quantity: 1,
		Category: product.Category,
		Price:    product.SellingPrice,
	})
	return nil
}

func (r *memCarts) DeleteLine(_ context.Context, cartID int64, model string) (bool, error) {
	c := r.st().byID(cartID)
	if c == nil {
		return false, nil
	}
	for i := range c.lines {
		if c.lines[i].Model == model {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memCarts) ClearLines(_ context.Context, cartID int64) error {
	if c := r.st().byID(cartID); c != nil {
		c.lines = nil
	}
	return nil
}

func (r *memCarts) CheckoutLines(_ context.Context, cartID int64) ([]domain.CheckoutLine, error) {
	c := r.st().byID(cartID)
	if c == nil {
		return nil, nil
	}
	var lines []domain.CheckoutLine
	for _, l := range c.lines {
		lines = append(lines, domain.CheckoutLine{
			Model:    l.Model,
			Quantity: l.Quantity,
			Stock:    r.st().products[l.Model].Quantity,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Model < lines[j].Model })
	return lines, nil
}

func (r *memCarts) MarkPaid(_ context.Context, cartID int64, paidAt time.Time) error {
	if r.store.markPaidErr != nil {
		return r.store.markPaidErr
	}
	c := r.st().byID(cartID)
	if c == nil || c.paid {
		return domain.ErrNotFound
	}
	day := paidAt.UTC().Format(domain.PaymentDateLayout)
	c.paid = true
	c.paymentDate = &day
	return nil
}

func (r *memCarts) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(r.st().carts))
	r.st().carts = nil
	return n, nil
}

type memProducts struct {
	store *memStore
}

var _ productrepo.Repository = (*memProducts)(nil)

func (r *memProducts) GetByModel(_ context.Context, model string) (*domain.Product, error) {
	p, ok := r.store.state.products[model]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memProducts) AvailableStock(_ context.Context, model string) (int, error) {
	p, ok := r.store.state.products[model]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return p.Quantity, nil
}

func (r *memProducts) DecrementStock(_ context.Context, model string, quantity int) error {
	if err := r.store.decrementErr[model]; err != nil {
		return err
	}
	p, ok := r.store.state.products[model]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Quantity == 0 {
		return domain.ErrEmptyProductStock
	}
	if p.Quantity < quantity {
		return domain.ErrLowProductStock
	}
	p.Quantity -= quantity
	r.store.state.products[model] = p
	return nil
}

func (r *memProducts) List(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.store.state.products))
	for _, p := range r.store.state.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out, nil
}

func (r *memProducts) Upsert(_ context.Context, product domain.Product) (*domain.Product, error) {
	r.store.state.products[product.Model] = product
	return &product, nil
}
