package cart_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-grocer/internal/cart"
	dbgen "github.com/noah-isme/backend-grocer/internal/db/gen"
)

var errBoom = errors.New("boom")

type memState struct {
	products map[int64]dbgen.Product
	stores   map[int64]dbgen.Store
	offers   []dbgen.StoreOffer
	users    map[string]struct{}
	carts    map[int64]dbgen.Cart
	items    map[int64]map[int64]dbgen.CartItem
	nextCart int64
	nextItem int64
}

func (s *memState) clone() *memState {
	out := &memState{
		products: s.products,
		stores:   s.stores,
		offers:   s.offers,
		users:    make(map[string]struct{}, len(s.users)),
		carts:    make(map[int64]dbgen.Cart, len(s.carts)),
		items:    make(map[int64]map[int64]dbgen.CartItem, len(s.items)),
		nextCart: s.nextCart,
		nextItem: s.nextItem,
	}
	for k := range s.users {
		out.users[k] = struct{}{}
	}
	for k, v := range s.carts {
		out.carts[k] = v
	}
	for cartID, lines := range s.items {
		m := make(map[int64]dbgen.CartItem, len(lines))
		for k, v := range lines {
			m[k] = v
		}
		out.items[cartID] = m
	}
	return out
}

// memDB is an in-memory cart store. InTx serialises transactions, works on a
// copy of the state and publishes it only when fn succeeds.
type memDB struct {
	mu         sync.Mutex
	state      *memState
	txCalls    int
	failOn     string
	failCommit bool
}

func newMemDB() *memDB {
	return &memDB{state: &memState{
		products: map[int64]dbgen.Product{},
		stores:   map[int64]dbgen.Store{},
		users:    map[string]struct{}{},
		carts:    map[int64]dbgen.Cart{},
		items:    map[int64]map[int64]dbgen.CartItem{},
	}}
}

func (m *memDB) addProduct(id int64, name string) {
	m.state.products[id] = dbgen.Product{ID: id, Name: name, Locale: "en"}
}

func (m *memDB) addStore(id int64, name string, lat, lon float64) {
	m.state.stores[id] = dbgen.Store{
		ID:        id,
		Name:      name,
		Latitude:  decimal.NewFromFloat(lat),
		Longitude: decimal.NewFromFloat(lon),
	}
}

func (m *memDB) addOffer(productID, storeID int64, price string) {
	m.state.offers = append(m.state.offers, dbgen.StoreOffer{
		ID:        int64(len(m.state.offers) + 1),
		ProductID: productID,
		StoreID:   storeID,
		Price:     decimal.RequireFromString(price),
		Stock:     10,
	})
}

func (m *memDB) InTx(ctx context.Context, fn func(q cart.Querier) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txCalls++
	work := m.state.clone()
	if err := fn(&memQuerier{db: m, s: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.failCommit {
		return errBoom
	}
	m.state = work
	return nil
}

func (m *memDB) snapshot() *memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

func (m *memDB) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.txCalls
}

type memQuerier struct {
	db *memDB
	s  *memState
}

func (q *memQuerier) fail(op string) error {
	if q.db.failOn == op {
		return errBoom
	}
	return nil
}

func (q *memQuerier) GetProduct(_ context.Context, id int64) (dbgen.Product, error) {
	if err := q.fail("GetProduct"); err != nil {
		return dbgen.Product{}, err
	}
	p, ok := q.s.products[id]
	if !ok {
		return dbgen.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (q *memQuerier) EnsureUser(_ context.Context, id string) error {
	if err := q.fail("EnsureUser"); err != nil {
		return err
	}
	q.s.users[id] = struct{}{}
	return nil
}

func (q *memQuerier) UpsertCartForUser(_ context.Context, userID string) (dbgen.Cart, error) {
	if err := q.fail("UpsertCartForUser"); err != nil {
		return dbgen.Cart{}, err
	}
	if _, ok := q.s.users[userID]; !ok {
		return dbgen.Cart{}, errors.New("foreign key violation")
	}
	for _, c := range q.s.carts {
		if c.UserID == userID {
			return c, nil
		}
	}
	q.s.nextCart++
	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}
	c := dbgen.Cart{ID: q.s.nextCart, UserID: userID, CreatedAt: now, UpdatedAt: now}
	q.s.carts[c.ID] = c
	return c, nil
}

func (q *memQuerier) GetCart(_ context.Context, id int64) (dbgen.Cart, error) {
	if err := q.fail("GetCart"); err != nil {
		return dbgen.Cart{}, err
	}
	c, ok := q.s.carts[id]
	if !ok {
		return dbgen.Cart{}, pgx.ErrNoRows
	}
	return c, nil
}

func (q *memQuerier) UpsertCartItem(_ context.Context, arg dbgen.UpsertCartItemParams) (dbgen.CartItem, error) {
	if err := q.fail("UpsertCartItem"); err != nil {
		return dbgen.CartItem{}, err
	}
	lines := q.s.items[arg.CartID]
	if lines == nil {
		lines = map[int64]dbgen.CartItem{}
		q.s.items[arg.CartID] = lines
	}
	item, ok := lines[arg.ProductID]
	if !ok {
		q.s.nextItem++
		item = dbgen.CartItem{ID: q.s.nextItem, CartID: arg.CartID, ProductID: arg.ProductID}
	}
	item.Quantity = arg.Quantity
	lines[arg.ProductID] = item
	return item, nil
}

func (q *memQuerier) DeleteCartItem(_ context.Context, arg dbgen.DeleteCartItemParams) (int64, error) {
	if err := q.fail("DeleteCartItem"); err != nil {
		return 0, err
	}
	lines := q.s.items[arg.CartID]
	if _, ok := lines[arg.ProductID]; !ok {
		return 0, nil
	}
	delete(lines, arg.ProductID)
	return 1, nil
}

func (q *memQuerier) CountCartItems(_ context.Context, cartID int64) (int64, error) {
	if err := q.fail("CountCartItems"); err != nil {
		return 0, err
	}
	return int64(len(q.s.items[cartID])), nil
}

func (q *memQuerier) SetCartUniqueItems(_ context.Context, arg dbgen.SetCartUniqueItemsParams) error {
	if err := q.fail("SetCartUniqueItems"); err != nil {
		return err
	}
	c, ok := q.s.carts[arg.ID]
	if !ok {
		return nil
	}
	c.UniqueItems = arg.UniqueItems
	c.UpdatedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
	q.s.carts[arg.ID] = c
	return nil
}

func (q *memQuerier) ListCartLines(_ context.Context, cartID int64) ([]dbgen.ListCartLinesRow, error) {
	if err := q.fail("ListCartLines"); err != nil {
		return nil, err
	}
	var rows []dbgen.ListCartLinesRow
	for _, item := range q.s.items[cartID] {
		p := q.s.products[item.ProductID]
		rows = append(rows, dbgen.ListCartLinesRow{
			ID:                 item.ID,
			CartID:             item.CartID,
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			ProductName:        p.Name,
			ProductDescription: p.Description,
			CategoryID:         p.CategoryID,
			ProductImageRef:    p.ImageRef,
			ProductLocale:      p.Locale,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (q *memQuerier) ListCartOffers(_ context.Context, cartID int64) ([]dbgen.ListCartOffersRow, error) {
	if err := q.fail("ListCartOffers"); err != nil {
		return nil, err
	}
	lines := q.s.items[cartID]
	var rows []dbgen.ListCartOffersRow
	for _, o := range q.s.offers {
		if _, ok := lines[o.ProductID]; !ok {
			continue
		}
		st := q.s.stores[o.StoreID]
		rows = append(rows, dbgen.ListCartOffersRow{
			ID:            o.ID,
			ProductID:     o.ProductID,
			StoreID:       o.StoreID,
			Price:         o.Price,
			Stock:         o.Stock,
			StoreName:     st.Name,
			StoreLocation: st.Location,
			StoreAddress:  st.Address,
			Latitude:      st.Latitude,
			Longitude:     st.Longitude,
			StoreImageRef: st.ImageRef,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProductID != rows[j].ProductID {
			return rows[i].ProductID < rows[j].ProductID
		}
		return rows[i].StoreID < rows[j].StoreID
	})
	return rows, nil
}

// groceryDB seeds Apples=1, Bread=2 and Coffee=3 with two stores: X (10)
// carries Apples and Bread, Y (20) carries only Bread, nobody sells Coffee.
func groceryDB() *memDB {
	db := newMemDB()
	db.addProduct(1, "Apples")
	db.addProduct(2, "Bread")
	db.addProduct(3, "Coffee")
	db.addStore(10, "Store X", -6.2, 106.8)
	db.addStore(20, "Store Y", -6.3, 106.9)
	db.addOffer(1, 10, "3.00")
	db.addOffer(2, 10, "5.00")
	db.addOffer(2, 20, "5.00")
	return db
}
