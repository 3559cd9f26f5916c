package storeapi

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-grocery/components/catalog"
	"github.com/goliatone/go-grocery/components/dashboard"
	"github.com/goliatone/go-grocery/components/orders"
	"github.com/goliatone/go-grocery/pkg/sanitize"
)

// lowStockCeiling is the server's fixed low-stock accounting bound.
const lowStockCeiling = 10

// DefaultCatalog returns the ten-product seed the mock starts with.
func DefaultCatalog() []catalog.Product {
	seed := []struct {
		name  string
		unit  string
		price int64
		stock int
	}{
		{"Rice", "kg", 50, 100},
		{"Wheat Flour", "kg", 40, 80},
		{"Sugar", "kg", 45, 60},
		{"Cooking Oil", "litre", 120, 30},
		{"Milk", "litre", 55, 25},
		{"Bread", "piece", 25, 50},
		{"Eggs", "piece", 8, 200},
		{"Tomatoes", "kg", 30, 40},
		{"Onions", "kg", 25, 50},
		{"Potatoes", "kg", 20, 70},
	}
	products := make([]catalog.Product, len(seed))
	for i, s := range seed {
		products[i] = catalog.Product{
			ID:    i + 1,
			Name:  s.name,
			Unit:  s.unit,
			Price: decimal.NewFromInt(s.price),
			Stock: s.stock,
		}
	}
	return products
}

type mockOrder struct {
	id       int
	number   string
	customer string
	total    decimal.Decimal
	status   string
	items    string
	lines    map[int]int
	placedAt time.Time
}

// MockClient is an in-memory double of the store API. It reproduces the
// server's validation, error messages and bookkeeping so components and the
// CLI behave identically offline.
type MockClient struct {
	mu          sync.RWMutex
	products    []catalog.Product
	orders      []mockOrder
	nextID      int
	nextOrderID int
	now         func() time.Time
	rng         *rand.Rand
}

// NewMockClient builds a mock seeded with the default catalog.
func NewMockClient() *MockClient {
	client := NewEmptyMockClient()
	stamp := client.now()
	for _, p := range DefaultCatalog() {
		p.CreatedAt = stamp
		p.UpdatedAt = stamp
		client.products = append(client.products, p)
		if p.ID >= client.nextID {
			client.nextID = p.ID + 1
		}
	}
	return client
}

// NewEmptyMockClient builds a mock with no products and no orders.
func NewEmptyMockClient() *MockClient {
	return &MockClient{
		nextID:      1,
		nextOrderID: 1,
		now:         time.Now,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FetchProducts lists the catalog sorted by name, like the server does.
func (m *MockClient) FetchProducts(context.Context) ([]catalog.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]catalog.Product(nil), m.products...)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// CreateProduct adds a catalog entry, rejecting duplicate names.
func (m *MockClient) CreateProduct(_ context.Context, draft catalog.ProductDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findByName(draft.Name) != nil {
		return &APIError{StatusCode: 400, Message: "Product with this name already exists"}
	}
	stamp := m.now()
	m.products = append(m.products, catalog.Product{
		ID:        m.nextID,
		Name:      draft.Name,
		Unit:      draft.Unit,
		Price:     draft.Price,
		Stock:     draft.Stock,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	})
	m.nextID++
	return nil
}

// UpdateProduct replaces the fields of an existing entry.
func (m *MockClient) UpdateProduct(_ context.Context, id int, draft catalog.ProductDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product := m.findByID(id)
	if product == nil {
		return &APIError{StatusCode: 404, Message: "Product not found"}
	}
	if other := m.findByName(draft.Name); other != nil && other.ID != id {
		return &APIError{StatusCode: 400, Message: "Product with this name already exists"}
	}
	product.Name = draft.Name
	product.Unit = draft.Unit
	product.Price = draft.Price
	product.Stock = draft.Stock
	product.UpdatedAt = m.now()
	return nil
}

// DeleteProduct removes an entry unless an order references it.
func (m *MockClient) DeleteProduct(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := -1
	for i := range m.products {
		if m.products[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return &APIError{StatusCode: 404, Message: "Product not found"}
	}
	for _, order := range m.orders {
		if _, ok := order.lines[id]; ok {
			return &APIError{StatusCode: 400, Message: "Cannot delete product that has been ordered"}
		}
	}
	m.products = append(m.products[:index], m.products[index+1:]...)
	return nil
}

// FetchOrders lists orders newest first with paging.
func (m *MockClient) FetchOrders(_ context.Context, query dashboard.OrdersQuery) (dashboard.OrderPage, error) {
	query = query.Normalize()
	m.mu.RLock()
	defer m.mu.RUnlock()

	page := dashboard.OrderPage{Total: len(m.orders), Page: query.Page, PerPage: query.PerPage}
	start := (query.Page - 1) * query.PerPage
	if start >= len(m.orders) {
		return page, nil
	}
	end := start + query.PerPage
	if end > len(m.orders) {
		end = len(m.orders)
	}
	for i := start; i < end; i++ {
		order := m.orders[len(m.orders)-1-i]
		page.Orders = append(page.Orders, dashboard.OrderSummary{
			ID:       order.id,
			Number:   order.number,
			Customer: order.customer,
			Total:    order.total,
			Items:    order.items,
			PlacedAt: order.placedAt,
		})
	}
	return page, nil
}

// SubmitOrder validates the draft the way the server does, decrements
// stock, records the order and returns a unique receipt.
func (m *MockClient) SubmitOrder(_ context.Context, draft orders.Draft) (orders.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	customer := strings.TrimSpace(draft.CustomerName)
	if utf8.RuneCountInString(customer) < 2 {
		return orders.Receipt{}, &APIError{StatusCode: 400, Message: "Customer name must be at least 2 characters"}
	}
	if !sanitize.CustomerNamePattern.MatchString(customer) {
		return orders.Receipt{}, &APIError{StatusCode: 400, Message: "Customer name contains invalid characters"}
	}
	if len(draft.Items) == 0 {
		return orders.Receipt{}, &APIError{StatusCode: 400, Message: "At least one item is required"}
	}
	for _, item := range draft.Items {
		if strings.TrimSpace(item.ProductName) == "" {
			return orders.Receipt{}, &APIError{StatusCode: 400, Message: "Product name is required for all items"}
		}
		if item.Quantity <= 0 {
			return orders.Receipt{}, &APIError{StatusCode: 400, Message: "Quantity must be positive"}
		}
	}

	total := decimal.Zero
	lines := make(map[int]int, len(draft.Items))
	labels := make([]string, 0, len(draft.Items))
	for _, item := range draft.Items {
		product := m.findByName(item.ProductName)
		if product == nil {
			return orders.Receipt{}, &APIError{StatusCode: 400, Message: fmt.Sprintf("Product '%s' not found", item.ProductName)}
		}
		if item.Quantity > product.Stock {
			return orders.Receipt{}, &APIError{
				StatusCode: 400,
				Message:    fmt.Sprintf("Insufficient stock for '%s'. Available: %d, Requested: %d", product.Name, product.Stock, item.Quantity),
			}
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		lines[product.ID] += item.Quantity
		labels = append(labels, fmt.Sprintf("%s x %d", product.Name, item.Quantity))
	}

	for id, quantity := range lines {
		product := m.findByID(id)
		product.Stock -= quantity
	}

	order := mockOrder{
		id:       m.nextOrderID,
		number:   m.newOrderNumber(),
		customer: customer,
		total:    total,
		status:   "completed",
		items:    strings.Join(labels, ", "),
		lines:    lines,
		placedAt: m.now(),
	}
	m.nextOrderID++
	m.orders = append(m.orders, order)

	return orders.Receipt{OrderNumber: order.number, Total: total}, nil
}

// FetchStats computes the counters live from the mock's state.
func (m *MockClient) FetchStats(context.Context) (dashboard.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := dashboard.Stats{
		TotalOrders:   len(m.orders),
		TotalRevenue:  decimal.Zero,
		TodayRevenue:  decimal.Zero,
		TotalProducts: len(m.products),
	}
	today := m.now()
	for _, order := range m.orders {
		stats.TotalRevenue = stats.TotalRevenue.Add(order.total)
		if sameDay(order.placedAt, today) {
			stats.TodayOrders++
			stats.TodayRevenue = stats.TodayRevenue.Add(order.total)
		}
	}
	for _, product := range m.products {
		if product.Stock <= lowStockCeiling {
			stats.LowStockProducts++
		}
	}
	return stats, nil
}

// newOrderNumber draws ORD followed by five digits, retrying until unique.
// Callers hold the write lock.
func (m *MockClient) newOrderNumber() string {
	for {
		number := fmt.Sprintf("ORD%d", m.rng.Intn(90000)+10000)
		taken := false
		for _, order := range m.orders {
			if order.number == number {
				taken = true
				break
			}
		}
		if !taken {
			return number
		}
	}
}

func (m *MockClient) findByID(id int) *catalog.Product {
	for i := range m.products {
		if m.products[i].ID == id {
			return &m.products[i]
		}
	}
	return nil
}

func (m *MockClient) findByName(name string) *catalog.Product {
	for i := range m.products {
		if strings.EqualFold(m.products[i].Name, strings.TrimSpace(name)) {
			return &m.products[i]
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
