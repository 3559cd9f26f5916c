package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-grocery/components/catalog"
	"github.com/goliatone/go-grocery/components/dashboard"
	"github.com/goliatone/go-grocery/components/orders"
)

// HTTPConfig configures the HTTP store client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to a live grocery store REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client for a live store API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("storeapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchProducts lists the catalog. The server answers a bare JSON array
// sorted by product name.
func (c *HTTPClient) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	var resp []productPayload
	if err := c.do(ctx, http.MethodGet, "/api/manage-products", nil, &resp); err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(resp))
	for i, p := range resp {
		products[i] = p.toProduct()
	}
	return products, nil
}

// CreateProduct adds a catalog entry.
func (c *HTTPClient) CreateProduct(ctx context.Context, draft catalog.ProductDraft) error {
	return c.do(ctx, http.MethodPost, "/api/manage-products", newProductRequest(draft), nil)
}

// UpdateProduct replaces the fields of an existing catalog entry.
func (c *HTTPClient) UpdateProduct(ctx context.Context, id int, draft catalog.ProductDraft) error {
	return c.do(ctx, http.MethodPut, "/api/manage-products/"+strconv.Itoa(id), newProductRequest(draft), nil)
}

// DeleteProduct removes a catalog entry.
func (c *HTTPClient) DeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/api/manage-products/"+strconv.Itoa(id), nil, nil)
}

// FetchOrders pages through the order history, newest first. Zero-valued
// paging fields take the server defaults.
func (c *HTTPClient) FetchOrders(ctx context.Context, query dashboard.OrdersQuery) (dashboard.OrderPage, error) {
	query = query.Normalize()
	path := fmt.Sprintf("/api/orders?page=%d&per_page=%d", query.Page, query.PerPage)
	var resp ordersResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return dashboard.OrderPage{}, err
	}
	return resp.toPage(), nil
}

// SubmitOrder creates an order and returns the server's receipt.
func (c *HTTPClient) SubmitOrder(ctx context.Context, draft orders.Draft) (orders.Receipt, error) {
	req := orderRequest{
		CustomerName: draft.CustomerName,
		Items:        make([]orderItemRequest, len(draft.Items)),
	}
	for i, item := range draft.Items {
		req.Items[i] = orderItemRequest{ProductName: item.ProductName, Quantity: item.Quantity}
	}
	var resp receiptResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &resp); err != nil {
		return orders.Receipt{}, err
	}
	return orders.Receipt{OrderNumber: resp.OrderNumber, Total: resp.Total}, nil
}

// FetchStats returns the store-wide counters.
func (c *HTTPClient) FetchStats(ctx context.Context) (dashboard.Stats, error) {
	var resp statsResponse
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &resp); err != nil {
		return dashboard.Stats{}, err
	}
	return resp.toStats(), nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("storeapi: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("storeapi: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("storeapi: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("storeapi: decode response: %w", err)
	}
	return nil
}

// decodeAPIError extracts the server's {"error": "..."} envelope, falling
// back to the raw body and then the HTTP status text.
func decodeAPIError(resp *http.Response) error {
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)

	message := ""
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &envelope); err == nil {
		message = envelope.Error
	}
	if message == "" {
		message = strings.TrimSpace(buf.String())
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message}
}

type productRequest struct {
	Name  string  `json:"name"`
	Unit  string  `json:"unit"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

func newProductRequest(draft catalog.ProductDraft) productRequest {
	return productRequest{
		Name:  draft.Name,
		Unit:  draft.Unit,
		Price: draft.Price.InexactFloat64(),
		Stock: draft.Stock,
	}
}

type productPayload struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

func (p productPayload) toProduct() catalog.Product {
	return catalog.Product{
		ID:        p.ID,
		Name:      p.Name,
		Unit:      p.Unit,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: parseTimestamp(p.CreatedAt),
		UpdatedAt: parseTimestamp(p.UpdatedAt),
	}
}

type orderPayload struct {
	ID          int             `json:"id"`
	OrderNumber string          `json:"order_number"`
	Customer    string          `json:"customer_name"`
	Total       decimal.Decimal `json:"total"`
	OrderDate   string          `json:"order_date"`
	Items       *string         `json:"items"`
}

func (o orderPayload) toSummary() dashboard.OrderSummary {
	items := ""
	if o.Items != nil {
		items = *o.Items
	}
	return dashboard.OrderSummary{
		ID:       o.ID,
		Number:   o.OrderNumber,
		Customer: o.Customer,
		Total:    o.Total,
		Items:    items,
		PlacedAt: parseTimestamp(o.OrderDate),
	}
}

type ordersResponse struct {
	Orders  []orderPayload `json:"orders"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

func (r ordersResponse) toPage() dashboard.OrderPage {
	page := dashboard.OrderPage{
		Total:   r.Total,
		Page:    r.Page,
		PerPage: r.PerPage,
		Orders:  make([]dashboard.OrderSummary, len(r.Orders)),
	}
	for i, o := range r.Orders {
		page.Orders[i] = o.toSummary()
	}
	return page
}

type orderItemRequest struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type orderRequest struct {
	CustomerName string             `json:"customer_name"`
	Items        []orderItemRequest `json:"items"`
}

type receiptResponse struct {
	Message     string          `json:"message"`
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
}

type statsResponse struct {
	TotalOrders      int             `json:"total_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TodayOrders      int             `json:"today_orders"`
	TodayRevenue     decimal.Decimal `json:"today_revenue"`
	TotalProducts    int             `json:"total_products"`
	LowStockProducts int             `json:"low_stock_products"`
}

func (r statsResponse) toStats() dashboard.Stats {
	return dashboard.Stats{
		TotalOrders:      r.TotalOrders,
		TotalRevenue:     r.TotalRevenue,
		TodayOrders:      r.TodayOrders,
		TodayRevenue:     r.TodayRevenue,
		TotalProducts:    r.TotalProducts,
		LowStockProducts: r.LowStockProducts,
	}
}

// timestampLayouts covers what deployments actually send: Flask's jsonify
// renders datetimes in RFC 1123 form, others use RFC 3339 or bare ISO.
var timestampLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTimestamp is lenient: an unknown format maps to the zero time rather
// than failing the whole fetch.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
