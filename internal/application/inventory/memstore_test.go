package inventory_test

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/kontrol/internal/domain/entity"
	"github.com/jhoicas/kontrol/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Store en memoria con snapshot/rollback para probar el caso de uso sin BD
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	products  map[int64]entity.Product
	movements map[int64]entity.Movement
	lines     map[int64]entity.MovementLine
	nextMovID int64
	nextLine  int64
	nextProd  int64
}

func (s *memState) clone() *memState {
	c := &memState{
		products:  make(map[int64]entity.Product, len(s.products)),
		movements: make(map[int64]entity.Movement, len(s.movements)),
		lines:     make(map[int64]entity.MovementLine, len(s.lines)),
		nextMovID: s.nextMovID,
		nextLine:  s.nextLine,
		nextProd:  s.nextProd,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = v
	}
	return c
}

type memStore struct {
	state *memState
	// failOnCreateLine fuerza un error al insertar la línea N (1-based) para probar el rollback.
	failOnCreateLine int
	createdLines     int
}

func newMemStore() *memStore {
	s := &memStore{state: &memState{
		products:  map[int64]entity.Product{},
		movements: map[int64]entity.Movement{},
		lines:     map[int64]entity.MovementLine{},
		nextProd:  1,
	}}
	s.addProduct(entity.ExternalExpenseProductName, entity.ExternalExpenseStock)
	return s
}

func (s *memStore) addProduct(name string, stock int64) int64 {
	id := s.state.nextProd
	s.state.nextProd++
	s.state.products[id] = entity.Product{ID: id, Name: name, Stock: stock, Active: true, CreatedAt: time.Now().UTC()}
	return id
}

func (s *memStore) stock(id int64) int64 { return s.state.products[id].Stock }

// Run implementa inventory.TxRunner: si fn falla se restaura el estado previo.
func (s *memStore) Run(ctx context.Context, fn func(repository.MovementRepository, repository.ProductRepository) error) error {
	snapshot := s.state.clone()
	if err := fn(&memMovementRepo{s}, &memProductRepo{s}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// ── ProductRepository ────────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	p.ID = r.s.addProduct(p.Name, p.Stock)
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.s.state.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *memProductRepo) GetActiveByName(_ context.Context, name string) (*entity.Product, error) {
	for _, p := range r.s.state.products {
		if p.Active && p.Name == name {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.state.products {
		if p.Active {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.state.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) SetStock(_ context.Context, id, stock int64) error {
	p := r.s.state.products[id]
	p.Stock = stock
	r.s.state.products[id] = p
	return nil
}

func (r *memProductRepo) Deactivate(_ context.Context, id int64) error {
	p := r.s.state.products[id]
	p.Active = false
	r.s.state.products[id] = p
	return nil
}

func (r *memProductRepo) Totals(_ context.Context) (int, int64, error) {
	var count int
	var stock int64
	for _, p := range r.s.state.products {
		if p.Active && !p.IsExternalExpense() {
			count++
			stock += p.Stock
		}
	}
	return count, stock, nil
}

// ── MovementRepository ───────────────────────────────────────────────────────

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.s.state.nextMovID++
	m.ID = r.s.state.nextMovID
	r.s.state.movements[m.ID] = *m
	return nil
}

func (r *memMovementRepo) CreateLine(_ context.Context, l *entity.MovementLine) error {
	r.s.createdLines++
	if r.s.failOnCreateLine > 0 && r.s.createdLines == r.s.failOnCreateLine {
		return errForcedFailure
	}
	r.s.state.nextLine++
	l.ID = r.s.state.nextLine
	l.Subtotal = l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
	r.s.state.lines[l.ID] = *l
	return nil
}

func (r *memMovementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	m, ok := r.s.state.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *memMovementRepo) withName(l entity.MovementLine) *entity.MovementLine {
	l.ProductName = r.s.state.products[l.ProductID].Name
	return &l
}

func (r *memMovementRepo) GetLine(_ context.Context, id int64) (*entity.MovementLine, error) {
	l, ok := r.s.state.lines[id]
	if !ok {
		return nil, nil
	}
	return r.withName(l), nil
}

func (r *memMovementRepo) ListLines(ctx context.Context, movementID int64) ([]*entity.MovementLine, error) {
	return r.ListLinesByMovementIDs(ctx, []int64{movementID})
}

func (r *memMovementRepo) ListLinesByMovementIDs(_ context.Context, ids []int64) ([]*entity.MovementLine, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*entity.MovementLine
	for _, l := range r.s.state.lines {
		if want[l.MovementID] {
			out = append(out, r.withName(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memMovementRepo) UpdateLine(_ context.Context, id, quantity int64, unitPrice decimal.Decimal) error {
	l := r.s.state.lines[id]
	l.Quantity = quantity
	l.UnitPrice = unitPrice
	l.Subtotal = unitPrice.Mul(decimal.NewFromInt(quantity))
	r.s.state.lines[id] = l
	return nil
}

func (r *memMovementRepo) UpdateTotal(_ context.Context, id int64, total decimal.Decimal) error {
	m := r.s.state.movements[id]
	m.TotalAmount = total
	r.s.state.movements[id] = m
	return nil
}

func (r *memMovementRepo) Delete(_ context.Context, id int64) error {
	delete(r.s.state.movements, id)
	for lid, l := range r.s.state.lines {
		if l.MovementID == id {
			delete(r.s.state.lines, lid)
		}
	}
	return nil
}

func (r *memMovementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.state.movements {
		if f.Kind != nil && m.Kind != *f.Kind {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !m.CreatedAt.Before(*f.To) {
			continue
		}
		if f.ProductID != nil && !r.hasProduct(m.ID, *f.ProductID) {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memMovementRepo) hasProduct(movementID, productID int64) bool {
	for _, l := range r.s.state.lines {
		if l.MovementID == movementID && l.ProductID == productID {
			return true
		}
	}
	return false
}

func (r *memMovementRepo) CountSince(_ context.Context, from time.Time) (int, error) {
	n := 0
	for _, m := range r.s.state.movements {
		if !m.CreatedAt.Before(from) {
			n++
		}
	}
	return n, nil
}
