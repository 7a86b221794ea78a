package checkout

import (
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"net/url"
	"strings"
)

const (
	DefaultServiceURL = "https://wa.me"
	DefaultStorePhone = "6281234567890"
)

type BuilderConfig struct {
	// ServiceURL is the deep-link base of the messaging service.
	ServiceURL string
	// StorePhone is the store's number with country code and no "+".
	StorePhone string
	// SiteURL is the storefront origin used for product links.
	SiteURL string
}

// Builder renders carts into order messages and messaging deep links.
// It holds no mutable state and is safe for concurrent use.
type Builder struct {
	serviceURL string
	storePhone string
	siteURL    string
	printer    *message.Printer
}

func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	serviceURL := cfg.ServiceURL
	if serviceURL == "" {
		serviceURL = DefaultServiceURL
	}
	if err := validateBaseURL(serviceURL); err != nil {
		return nil, fmt.Errorf("service url: %w", err)
	}

	storePhone := strings.TrimPrefix(strings.TrimSpace(cfg.StorePhone), "+")
	if storePhone == "" {
		storePhone = DefaultStorePhone
	}
	if strings.ContainsFunc(storePhone, func(r rune) bool { return r < '0' || r > '9' }) {
		return nil, fmt.Errorf("store phone[%s] must contain digits only", cfg.StorePhone)
	}

	if cfg.SiteURL != "" {
		if err := validateBaseURL(cfg.SiteURL); err != nil {
			return nil, fmt.Errorf("site url: %w", err)
		}
	}

	return &Builder{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		storePhone: storePhone,
		siteURL:    strings.TrimRight(cfg.SiteURL, "/"),
		printer:    message.NewPrinter(language.Indonesian),
	}, nil
}

// Message renders the order summary. The total is recomputed from lines, so a
// synthetic single-line cart works as well as the shopper's cart.
func (b *Builder) Message(lines []domain.CartLine, contact domain.Contact) string {
	entries := make([]string, 0, len(lines))
	for _, l := range lines {
		entries = append(entries, b.lineEntry(l))
	}

	var sb strings.Builder
	sb.WriteString("Halo, saya ingin memesan produk berikut:\n\n")
	sb.WriteString(strings.Join(entries, "\n\n"))
	sb.WriteString("\n\nTotal: Rp ")
	sb.WriteString(b.FormatAmount(domain.LinesTotal(lines)))
	sb.WriteString("\n\nData Pemesan:\n")
	sb.WriteString("Nama: " + contact.Name + "\n")
	sb.WriteString("No. Telepon: " + contact.Phone + "\n")
	sb.WriteString("Alamat: " + contact.FullAddress() + "\n")
	sb.WriteString("\nTerima kasih!")

	return sb.String()
}

// CreateCheckoutLink returns <service>/<store phone>?text=<encoded message>.
func (b *Builder) CreateCheckoutLink(lines []domain.CartLine, contact domain.Contact) string {
	return b.serviceURL + "/" + b.storePhone + "?text=" + EncodeURIComponent(b.Message(lines, contact))
}

// FormatAmount groups thousands the Indonesian way and drops decimals: 100000 -> "100.000".
func (b *Builder) FormatAmount(amount decimal.Decimal) string {
	return b.printer.Sprintf("%d", amount.Round(0).IntPart())
}

func (b *Builder) ProductURL(slug string) string {
	return b.siteURL + "/product/" + slug
}

func (b *Builder) lineEntry(l domain.CartLine) string {
	entry := fmt.Sprintf("- %s (%dx)", l.Product.Name, l.Quantity)
	if len(l.SelectedVariants) > 0 {
		entry += " (" + strings.Join(l.SelectedVariants.Values(), ", ") + ")"
	}
	return entry + "\n   Link: " + b.ProductURL(l.Product.Slug)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("url.Parse: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url[%s] must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url[%s] has no host", raw)
	}
	return nil
}
