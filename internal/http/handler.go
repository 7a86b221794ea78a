package http

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-cart/internal/cartstore"
	"github.com/nikolayk812/storefront-cart/internal/checkout"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
	"mime"
	"net/http"
	"time"
)

const (
	// CartCookie names the cookie holding the shopper's cart id. Storage keys are
	// namespaced with the same prefix.
	CartCookie = "drt-store-cart"

	CartPath = "/cart"

	requestTimeout = 3 * time.Second

	checkoutFailedMessage    = "Gagal membuat link checkout. Silakan coba lagi."
	incompleteContactMessage = "Nama, nomor telepon, dan alamat wajib diisi."
)

type Handler struct {
	carts         *cartstore.Registry
	checkout      *checkout.Service
	catalog       port.ProductCatalog
	logger        *zap.Logger
	secureCookies bool
}

type HandlerOption func(*Handler)

func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithSecureCookies(secure bool) HandlerOption {
	return func(h *Handler) {
		h.secureCookies = secure
	}
}

func NewHandler(carts *cartstore.Registry, checkoutService *checkout.Service, catalog port.ProductCatalog, opts ...HandlerOption) *Handler {
	h := &Handler{
		carts:    carts,
		checkout: checkoutService,
		catalog:  catalog,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type cartResponse struct {
	Lines          []domain.CartLine `json:"lines"`
	Total          string            `json:"total"`
	FormattedTotal string            `json:"formatted_total"`
	Currency       string            `json:"currency"`
}

type addItemRequest struct {
	ProductID        string          `json:"product_id"`
	Quantity         int             `json:"quantity"`
	SelectedVariants domain.Variants `json:"selected_variants"`
}

type updateQuantityRequest struct {
	ProductID        string          `json:"product_id"`
	SelectedVariants domain.Variants `json:"selected_variants"`
	Quantity         int             `json:"quantity"`
}

type removeItemRequest struct {
	ProductID        string          `json:"product_id"`
	SelectedVariants domain.Variants `json:"selected_variants"`
}

type buyNowRequest struct {
	Quantity         int             `json:"quantity"`
	SelectedVariants domain.Variants `json:"selected_variants"`
	domain.Contact
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	store := h.viewStore(w, r)
	writeJSON(w, http.StatusOK, h.cartResponse(store))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing product_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if errors.Is(err, port.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		h.logger.Error("catalog.GetProduct", zap.String("product_id", req.ProductID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to load product")
		return
	}
	if !product.InStock() {
		writeError(w, http.StatusConflict, port.ErrOutOfStock.Error())
		return
	}

	store := h.cartStore(w, r)
	if err := store.AddItem(ctx, product.Snapshot, req.Quantity, req.SelectedVariants); err != nil {
		h.writeCartFailure(w, store, err)
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponse(store))
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	store := h.cartStore(w, r)
	if err := store.UpdateQuantity(ctx, req.ProductID, req.SelectedVariants, req.Quantity); err != nil {
		h.writeCartFailure(w, store, err)
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponse(store))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var req removeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	store := h.cartStore(w, r)
	if err := store.RemoveItem(ctx, req.ProductID, req.SelectedVariants); err != nil {
		h.writeCartFailure(w, store, err)
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponse(store))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	store := h.cartStore(w, r)
	if err := store.Clear(ctx); err != nil {
		h.writeCartFailure(w, store, err)
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponse(store))
}

// IsInCart answers whether the product with the variants given as query parameters
// (?size=M&color=red) is already in the cart.
func (h *Handler) IsInCart(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var variants domain.Variants
	for axis, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		if variants == nil {
			variants = make(domain.Variants)
		}
		variants[axis] = values[0]
	}

	store := h.viewStore(w, r)
	writeJSON(w, http.StatusOK, map[string]bool{"in_cart": store.IsInCart(productID, variants)})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		h.logger.Error("catalog.ListCategories", zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to load categories")
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// Checkout hands the cart off to WhatsApp. An empty cart sends the shopper back to
// the cart view instead.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	contact, err := decodeContact(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid checkout form")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	store := h.cartStore(w, r)
	link, err := h.checkout.Checkout(ctx, store, contact)
	if errors.Is(err, checkout.ErrEmptyCart) {
		h.carts.Evict(store.Key())
		http.Redirect(w, r, CartPath, http.StatusSeeOther)
		return
	}
	if errors.Is(err, domain.ErrIncompleteContact) {
		writeError(w, http.StatusBadRequest, incompleteContactMessage)
		return
	}
	if err != nil {
		h.logger.Error("checkout failed", zap.String("cart_key", store.Key()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, checkoutFailedMessage)
		return
	}

	h.carts.Evict(store.Key())
	http.Redirect(w, r, link, http.StatusSeeOther)
}

func (h *Handler) BuyNow(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req buyNowRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	product, err := h.catalog.GetProductBySlug(ctx, slug)
	if errors.Is(err, port.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		h.logger.Error("catalog.GetProductBySlug", zap.String("slug", slug), zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to load product")
		return
	}
	if !product.InStock() {
		writeError(w, http.StatusConflict, port.ErrOutOfStock.Error())
		return
	}

	link := h.checkout.BuyNow(product.Snapshot, req.Quantity, req.SelectedVariants, req.Contact)
	http.Redirect(w, r, link, http.StatusSeeOther)
}

// cartStore returns the shopper's cart for a mutation. The registry keeps it in memory.
func (h *Handler) cartStore(w http.ResponseWriter, r *http.Request) *cartstore.Store {
	return h.carts.Get(r.Context(), h.cartKey(w, r))
}

// viewStore returns the shopper's cart for reading without registering it.
func (h *Handler) viewStore(w http.ResponseWriter, r *http.Request) *cartstore.Store {
	return h.carts.Peek(r.Context(), h.cartKey(w, r))
}

// cartKey resolves the storage key from the cart cookie, issuing a new cart id when the
// cookie is missing or malformed.
func (h *Handler) cartKey(w http.ResponseWriter, r *http.Request) string {
	var id uuid.UUID

	cookie, err := r.Cookie(CartCookie)
	if err == nil {
		id, err = uuid.Parse(cookie.Value)
	}
	if err != nil {
		id = uuid.New()
		http.SetCookie(w, &http.Cookie{
			Name:     CartCookie,
			Value:    id.String(),
			Path:     "/",
			MaxAge:   int((365 * 24 * time.Hour).Seconds()),
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return StorageKey(id)
}

func (h *Handler) cartResponse(store *cartstore.Store) cartResponse {
	cart := store.Snapshot()
	total := cart.Total()

	lines := cart.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}

	return cartResponse{
		Lines:          lines,
		Total:          total.Amount.String(),
		FormattedTotal: "Rp " + h.checkout.Builder().FormatAmount(total.Amount),
		Currency:       total.Currency.String(),
	}
}

func (h *Handler) writeCartFailure(w http.ResponseWriter, store *cartstore.Store, err error) {
	h.logger.Error("cart update failed", zap.String("cart_key", store.Key()), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "failed to update cart")
}

func StorageKey(id uuid.UUID) string {
	return CartCookie + ":" + id.String()
}

func decodeContact(r *http.Request) (domain.Contact, error) {
	var contact domain.Contact

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if r.ContentLength == 0 {
			return contact, nil
		}
		err := json.NewDecoder(r.Body).Decode(&contact)
		return contact, err
	}

	if err := r.ParseForm(); err != nil {
		return contact, err
	}

	contact.Name = r.PostFormValue("name")
	contact.Phone = r.PostFormValue("phone")
	contact.Address = r.PostFormValue("address")
	contact.Notes = r.PostFormValue("notes")

	return contact, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
