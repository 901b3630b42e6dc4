package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Product represents a catalogue entry
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency,omitempty"`
	Category    string    `json:"category,omitempty"`
	ImageURLs   []string  `json:"imageUrls,omitempty"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status,omitempty"`
	OwnerID     string    `json:"ownerId,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// ProductRequest is the body for creating or updating a product
type ProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price" validate:"gte=0"`
	Currency    string   `json:"currency" validate:"required,len=3,alpha"`
	Category    string   `json:"category" validate:"required"`
	ImageURLs   []string `json:"imageUrls,omitempty" validate:"omitempty,dive,url"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
}

// RequestFrom returns the editable fields of p
func (p *Product) RequestFrom() ProductRequest {
	return ProductRequest{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		Category:    p.Category,
		ImageURLs:   append([]string(nil), p.ImageURLs...),
		Quantity:    p.Quantity,
	}
}

// ListProducts returns all products, optionally filtered server side by category
func (c *Client) ListProducts(ctx context.Context, category string) ([]Product, error) {
	var query url.Values
	if category != "" {
		query = url.Values{"category": []string{category}}
	}

	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns a product by ID
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, productPath(id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a product owned by the current user
func (c *Client) CreateProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var product Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces the editable fields of a product
func (c *Client) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var product Product
	if err := c.do(ctx, http.MethodPut, productPath(id), nil, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct deletes a product by ID
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, productPath(id), nil, nil, nil)
}

func productPath(id string) string {
	return fmt.Sprintf("/products/%s", url.PathEscape(id))
}
