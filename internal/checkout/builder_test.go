package checkout_test

import (
	"github.com/nikolayk812/storefront-cart/internal/checkout"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/url"
	"strings"
	"testing"
)

const siteURL = "https://drt-store.id"

var kaosPolos = domain.Product{
	ID:    "p1",
	Name:  "Kaos Polos",
	Slug:  "kaos-polos",
	Price: decimal.NewFromInt(50000),
}

var budi = domain.Contact{
	Name:    "Budi",
	Phone:   "081234567890",
	Address: "Jl. Mawar No. 1, Bandung",
}

func newBuilder(t *testing.T) *checkout.Builder {
	t.Helper()

	b, err := checkout.NewBuilder(checkout.BuilderConfig{SiteURL: siteURL})
	require.NoError(t, err)
	return b
}

func TestMessage_SingleLineNoVariants(t *testing.T) {
	b := newBuilder(t)
	lines := []domain.CartLine{{Product: kaosPolos, Quantity: 2}}

	got := b.Message(lines, budi)

	want := "Halo, saya ingin memesan produk berikut:\n" +
		"\n" +
		"- Kaos Polos (2x)\n" +
		"   Link: https://drt-store.id/product/kaos-polos\n" +
		"\n" +
		"Total: Rp 100.000\n" +
		"\n" +
		"Data Pemesan:\n" +
		"Nama: Budi\n" +
		"No. Telepon: 081234567890\n" +
		"Alamat: Jl. Mawar No. 1, Bandung\n" +
		"\n" +
		"Terima kasih!"
	assert.Equal(t, want, got)
}

func TestMessage_VariantsAndNotes(t *testing.T) {
	b := newBuilder(t)
	jaket := domain.Product{ID: "p2", Name: "Jaket Denim", Slug: "jaket-denim", Price: decimal.NewFromInt(1250000)}
	lines := []domain.CartLine{
		{Product: kaosPolos, Quantity: 1, SelectedVariants: domain.Variants{"size": "M", "color": "Hitam"}},
		{Product: jaket, Quantity: 3, SelectedVariants: domain.Variants{}},
	}
	contact := budi
	contact.Notes = "Titip di satpam"

	got := b.Message(lines, contact)

	assert.Contains(t, got, "- Kaos Polos (1x) (Hitam, M)\n   Link: https://drt-store.id/product/kaos-polos")
	assert.Contains(t, got, "- Jaket Denim (3x)\n   Link: https://drt-store.id/product/jaket-denim")
	assert.NotContains(t, got, "Jaket Denim (3x) (")
	assert.Contains(t, got, "Total: Rp 3.800.000")
	assert.Contains(t, got, "Alamat: Jl. Mawar No. 1, Bandung\nCatatan: Titip di satpam\n")
	assert.Less(t, strings.Index(got, "Kaos Polos"), strings.Index(got, "Jaket Denim"))
}

func TestMessage_VariantOrderIndependent(t *testing.T) {
	b := newBuilder(t)

	a := b.Message([]domain.CartLine{{Product: kaosPolos, Quantity: 1, SelectedVariants: domain.Variants{"size": "L", "color": "Putih"}}}, budi)
	c := b.Message([]domain.CartLine{{Product: kaosPolos, Quantity: 1, SelectedVariants: domain.Variants{"color": "Putih", "size": "L"}}}, budi)

	assert.Equal(t, a, c)
}

func TestMessage_EmptyLinesDegenerate(t *testing.T) {
	b := newBuilder(t)

	got := b.Message(nil, domain.Contact{})

	assert.Contains(t, got, "Total: Rp 0")
	assert.True(t, strings.HasSuffix(got, "Terima kasih!"))
}

func TestCreateCheckoutLink(t *testing.T) {
	b, err := checkout.NewBuilder(checkout.BuilderConfig{StorePhone: "+6289876543210", SiteURL: siteURL})
	require.NoError(t, err)
	lines := []domain.CartLine{{Product: kaosPolos, Quantity: 2}}

	link := b.CreateCheckoutLink(lines, budi)

	assert.True(t, strings.HasPrefix(link, "https://wa.me/6289876543210?text=Halo%2C%20saya%20ingin"), link)
	assert.NotContains(t, link, "+")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/6289876543210", u.Path)
	assert.Equal(t, b.Message(lines, budi), u.Query().Get("text"))
}

func TestCreateCheckoutLink_Deterministic(t *testing.T) {
	b := newBuilder(t)
	lines := []domain.CartLine{
		{Product: kaosPolos, Quantity: 2, SelectedVariants: domain.Variants{"size": "M", "color": "Hitam", "fit": "Slim"}},
	}

	first := b.CreateCheckoutLink(lines, budi)
	second := b.CreateCheckoutLink(lines, budi)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "https://wa.me/6281234567890?text="))
}

func TestFormatAmount(t *testing.T) {
	b := newBuilder(t)

	tests := []struct {
		amount decimal.Decimal
		want   string
	}{
		{amount: decimal.Zero, want: "0"},
		{amount: decimal.NewFromInt(999), want: "999"},
		{amount: decimal.NewFromInt(100000), want: "100.000"},
		{amount: decimal.NewFromInt(12345678), want: "12.345.678"},
		{amount: decimal.RequireFromString("1499.6"), want: "1.500"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, b.FormatAmount(tt.amount))
		})
	}
}

func TestNewBuilder_Validation(t *testing.T) {
	tests := []struct {
		name      string
		cfg       checkout.BuilderConfig
		wantError bool
	}{
		{name: "defaults: ok", cfg: checkout.BuilderConfig{}},
		{name: "custom service: ok", cfg: checkout.BuilderConfig{ServiceURL: "https://api.whatsapp.com/send/", StorePhone: "628111"}},
		{name: "relative service url: error", cfg: checkout.BuilderConfig{ServiceURL: "wa.me"}, wantError: true},
		{name: "phone with letters: error", cfg: checkout.BuilderConfig{StorePhone: "62-abc"}, wantError: true},
		{name: "site without scheme: error", cfg: checkout.BuilderConfig{SiteURL: "drt-store.id"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := checkout.NewBuilder(tt.cfg)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Kaos Polos (2x)", want: "Kaos%20Polos%20(2x)"},
		{in: "a+b=c&d/e?f#g", want: "a%2Bb%3Dc%26d%2Fe%3Ff%23g"},
		{in: "line\nnext", want: "line%0Anext"},
		{in: "Rp 1.000,-!~*'", want: "Rp%201.000%2C-!~*'"},
		{in: "é", want: "%C3%A9"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, checkout.EncodeURIComponent(tt.in))
		})
	}
}
