package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/shopspring/decimal"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:5001/api"
	DefaultTimeout = 5 * time.Second
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog api status[%d]: %s", e.Status, e.Message)
}

type envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type productDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
	Stock       int             `json:"stock"`
	IsFeatured  bool            `json:"is_featured"`
	IsNew       bool            `json:"is_new"`
	Images      []imageDTO      `json:"images"`
}

type imageDTO struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

type categoryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// TokenSource supplies the bearer token of the current session. An empty token sends
// the request anonymously.
type TokenSource func(ctx context.Context) (string, error)

func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) {
		return token, nil
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(cl *Client) {
		cl.token = ts
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("url.ParseRequestURI: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ port.ProductCatalog = (*Client)(nil)

func (c *Client) GetProduct(ctx context.Context, id string) (domain.CatalogProduct, error) {
	if id == "" {
		return domain.CatalogProduct{}, fmt.Errorf("id is empty")
	}

	var dto productDTO
	if err := c.get(ctx, "/product/"+url.PathEscape(id), &dto); err != nil {
		return domain.CatalogProduct{}, fmt.Errorf("get product[%s]: %w", id, err)
	}

	return mapProduct(dto), nil
}

func (c *Client) GetProductBySlug(ctx context.Context, slug string) (domain.CatalogProduct, error) {
	if slug == "" {
		return domain.CatalogProduct{}, fmt.Errorf("slug is empty")
	}

	var dto productDTO
	if err := c.get(ctx, "/product/slug/"+url.PathEscape(slug), &dto); err != nil {
		return domain.CatalogProduct{}, fmt.Errorf("get product by slug[%s]: %w", slug, err)
	}

	return mapProduct(dto), nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var dtos []categoryDTO
	if err := c.get(ctx, "/category", &dtos); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(dtos))
	for _, d := range dtos {
		categories = append(categories, domain.Category{
			ID:          d.ID,
			Name:        d.Name,
			Slug:        d.Slug,
			Description: d.Description,
			ImageURL:    d.ImageURL,
		})
	}
	return categories, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("io.ReadAll: %w", err)
	}

	var env envelope[json.RawMessage]
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Message}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode == http.StatusNotFound {
			return errors.Join(port.ErrProductNotFound, apiErr)
		}
		return apiErr
	}

	if decodeErr != nil {
		return fmt.Errorf("json.Unmarshal envelope: %w", decodeErr)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("json.Unmarshal data: %w", err)
	}

	return nil
}

func mapProduct(dto productDTO) domain.CatalogProduct {
	return domain.CatalogProduct{
		Snapshot: domain.Product{
			ID:       dto.ID,
			Name:     dto.Name,
			Slug:     dto.Slug,
			Price:    dto.Price,
			ImageURL: primaryImage(dto.Images),
		},
		Description: dto.Description,
		CategoryID:  dto.CategoryID,
		Stock:       dto.Stock,
		IsFeatured:  dto.IsFeatured,
		IsNew:       dto.IsNew,
	}
}

func primaryImage(images []imageDTO) string {
	for _, img := range images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(images) > 0 {
		return images[0].URL
	}
	return ""
}
