package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopsmart/apiserver/config"
	"github.com/shopsmart/apiserver/internal/events"
	"github.com/shopsmart/apiserver/internal/services"
	"github.com/shopsmart/apiserver/internal/session"
	"github.com/shopsmart/apiserver/internal/store"
	"github.com/shopsmart/apiserver/types"
	"github.com/stretchr/testify/require"
)

// In-memory doubles for the persistence layer, with the same conditional
// stock semantics as the SQL repositories.

type memUserRepo struct {
	users  map[string]types.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]types.User{}, nextID: 1}
}

func (r *memUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	user, ok := r.users[email]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	user.ID = r.nextID
	r.nextID++
	user.IsActive = true
	user.CreatedAt = time.Now()
	r.users[user.Email] = user
	return user, nil
}

func (r *memUserRepo) TouchLastLogin(_ context.Context, id int, at time.Time) error {
	for email, user := range r.users {
		if user.ID == id {
			user.LastLogin = &at
			r.users[email] = user
			return nil
		}
	}
	return store.ErrNotFound
}

type memAudit struct {
	records []types.SessionRecord
}

func (a *memAudit) Create(_ context.Context, record types.SessionRecord) (types.SessionRecord, error) {
	a.records = append(a.records, record)
	return record, nil
}

type memProductRepo struct {
	products   []types.Product
	categories []types.Category
	images     map[int][]types.ProductImage
}

func (r *memProductRepo) List(_ context.Context, params types.ListParams) ([]types.Product, int, error) {
	params = params.Normalize()
	var matched []types.Product
	for _, product := range r.products {
		if params.Featured != nil && product.IsFeatured != *params.Featured {
			continue
		}
		matched = append(matched, product)
	}

	total := len(matched)
	offset := params.Offset()
	if offset > total {
		offset = total
	}
	end := offset + params.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *memProductRepo) Get(_ context.Context, id int) (types.Product, error) {
	for _, product := range r.products {
		if product.ID == id {
			return product, nil
		}
	}
	return types.Product{}, store.ErrNotFound
}

func (r *memProductRepo) Images(_ context.Context, productID int) ([]types.ProductImage, error) {
	return r.images[productID], nil
}

func (r *memProductRepo) Categories(_ context.Context) ([]types.Category, error) {
	return r.categories, nil
}

type memProductEntry struct {
	stock    int
	price    float64
	sale     *float64
	inactive bool
}

type memCartLine struct {
	id        int
	principal types.Principal
	productID int
	quantity  int
	addedAt   time.Time
}

type memCartStore struct {
	products map[int]*memProductEntry
	lines    []*memCartLine
	nextID   int
}

func newMemCartStore() *memCartStore {
	return &memCartStore{products: map[int]*memProductEntry{}, nextID: 1}
}

func (s *memCartStore) addProduct(id, stock int, price float64) {
	s.products[id] = &memProductEntry{stock: stock, price: price}
}

func (s *memCartStore) GetProductForSale(_ context.Context, productID int) (store.ProductStock, error) {
	product, ok := s.products[productID]
	if !ok || product.inactive {
		return store.ProductStock{}, store.ErrNotFound
	}
	return store.ProductStock{ProductID: productID, StockQuantity: product.stock}, nil
}

func (s *memCartStore) FindLine(_ context.Context, principal types.Principal, productID int) (store.LineRef, error) {
	for _, line := range s.lines {
		if line.principal == principal && line.productID == productID {
			return store.LineRef{ID: line.id, ProductID: line.productID, Quantity: line.quantity}, nil
		}
	}
	return store.LineRef{}, store.ErrNotFound
}

func (s *memCartStore) GetLine(_ context.Context, principal types.Principal, cartID int) (store.LineRef, error) {
	for _, line := range s.lines {
		if line.principal == principal && line.id == cartID {
			return store.LineRef{ID: line.id, ProductID: line.productID, Quantity: line.quantity}, nil
		}
	}
	return store.LineRef{}, store.ErrNotFound
}

func (s *memCartStore) InsertLine(_ context.Context, principal types.Principal, productID, quantity int) (int, error) {
	product, ok := s.products[productID]
	if !ok || product.inactive || product.stock < quantity {
		return 0, store.ErrInsufficientStock
	}
	line := &memCartLine{
		id:        s.nextID,
		principal: principal,
		productID: productID,
		quantity:  quantity,
		addedAt:   time.Now(),
	}
	s.nextID++
	s.lines = append(s.lines, line)
	return line.id, nil
}

func (s *memCartStore) UpdateLineQuantity(_ context.Context, cartID, quantity int) error {
	for _, line := range s.lines {
		if line.id == cartID {
			if s.products[line.productID].stock < quantity {
				return store.ErrInsufficientStock
			}
			line.quantity = quantity
			return nil
		}
	}
	return store.ErrInsufficientStock
}

func (s *memCartStore) DeleteLine(_ context.Context, principal types.Principal, cartID int) error {
	for i, line := range s.lines {
		if line.principal == principal && line.id == cartID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *memCartStore) ListLines(_ context.Context, principal types.Principal) ([]types.CartLine, error) {
	var out []types.CartLine
	for _, line := range s.lines {
		product := s.products[line.productID]
		if line.principal != principal || product.inactive {
			continue
		}
		out = append(out, types.CartLine{
			ID:            line.id,
			ProductID:     line.productID,
			Quantity:      line.quantity,
			Price:         product.price,
			SalePrice:     product.sale,
			StockQuantity: product.stock,
			AddedAt:       line.addedAt,
		})
	}
	return out, nil
}

// testEnv wires the full handler stack over in-memory doubles.
type testEnv struct {
	router    *chi.Mux
	users     *memUserRepo
	audit     *memAudit
	cartStore *memCartStore
	products  *memProductRepo
}

func newTestEnv() *testEnv {
	users := newMemUserRepo()
	audit := &memAudit{}
	cartStore := newMemCartStore()
	products := &memProductRepo{images: map[int][]types.ProductImage{}}

	accounts := services.NewAccountService(users, events.NewPublisher(nil))
	catalog := services.NewCatalogService(products)
	cart := services.NewCartService(cartStore)

	sessions := session.NewManager(session.NewMemoryStore(), config.SessionConfig{
		CookieName:  "test_session",
		GuestCookie: "test_guest",
		TTLHours:    24,
	})

	router := chi.NewRouter()
	router.Use(sessions.Middleware)
	router.NotFound(NotFound)
	router.MethodNotAllowed(MethodNotAllowed)
	router.Get("/healthz", Healthz)
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, accounts, sessions, audit)
	})
	router.Route("/products", func(r chi.Router) {
		ProductRouter(r, catalog)
	})
	router.Route("/cart", func(r chi.Router) {
		CartRouter(r, cart)
	})

	return &testEnv{
		router:    router,
		users:     users,
		audit:     audit,
		cartStore: cartStore,
		products:  products,
	}
}

// do performs one request against the router, threading any cookies.
func (e *testEnv) do(t *testing.T, method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeSuccess(t *testing.T, rec *httptest.ResponseRecorder) (string, map[string]any) {
	t.Helper()

	var envelope struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Message, envelope.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
