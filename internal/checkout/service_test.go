package checkout_test

import (
	"context"
	"errors"
	"github.com/nikolayk812/storefront-cart/internal/cartstore"
	"github.com/nikolayk812/storefront-cart/internal/checkout"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"sync"
	"testing"
)

type serviceSuite struct {
	suite.Suite

	storage  *repository.MemoryCartStorage
	handoffs *recordingHandoffs
	events   *countingEvents
	store    *cartstore.Store
	service  *checkout.Service
	logs     *observer.ObservedLogs
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(serviceSuite))
}

func (suite *serviceSuite) SetupTest() {
	t := suite.T()

	core, logs := observer.New(zap.InfoLevel)
	suite.logs = logs

	suite.storage = repository.NewMemoryCartStorage()
	suite.handoffs = &recordingHandoffs{}
	suite.events = &countingEvents{}
	suite.store = cartstore.Open(t.Context(), "drt-store-cart:s1", suite.storage, suite.events)
	suite.service = checkout.NewService(newBuilder(t), suite.handoffs, zap.New(core))
}

func (suite *serviceSuite) TestCheckout_EmptyCart() {
	t := suite.T()

	link, err := suite.service.Checkout(t.Context(), suite.store, budi)

	require.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Empty(t, link)
	assert.Empty(t, suite.handoffs.all())
}

func (suite *serviceSuite) TestCheckout_HandsOffAndClearsOnce() {
	t := suite.T()
	ctx := t.Context()

	require.NoError(t, suite.store.AddItem(ctx, kaosPolos, 2, nil))
	expectedLink := suite.service.Builder().CreateCheckoutLink(suite.store.Lines(), budi)
	eventsBefore := suite.events.count(domain.EventCartCleared)

	link, err := suite.service.Checkout(ctx, suite.store, budi)
	require.NoError(t, err)

	assert.Equal(t, expectedLink, link)
	assert.Empty(t, suite.store.Lines())
	assert.Equal(t, eventsBefore+1, suite.events.count(domain.EventCartCleared))

	handoffs := suite.handoffs.all()
	require.Len(t, handoffs, 1)
	assert.Equal(t, "drt-store-cart:s1", handoffs[0].CartKey)
	assert.Equal(t, "100000", handoffs[0].Total.Amount.String())
	assert.Equal(t, link, handoffs[0].Link)
	require.Len(t, handoffs[0].Lines, 1)

	_, err = suite.storage.Load(ctx, "drt-store-cart:s1")
	require.ErrorIs(t, err, port.ErrCartNotFound)

	_, err = suite.service.Checkout(ctx, suite.store, budi)
	require.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Len(t, suite.handoffs.all(), 1)
}

func (suite *serviceSuite) TestCheckout_PublishFailureNotFatal() {
	t := suite.T()
	ctx := t.Context()
	suite.handoffs.err = errors.New("broker unavailable")

	require.NoError(t, suite.store.AddItem(ctx, kaosPolos, 1, nil))

	link, err := suite.service.Checkout(ctx, suite.store, budi)
	require.NoError(t, err)
	assert.NotEmpty(t, link)
	assert.Empty(t, suite.store.Lines())
	assert.Equal(t, 1, suite.logs.FilterMessage("failed to publish checkout handoff").Len())
}

func (suite *serviceSuite) TestCheckout_IncompleteContactKeepsCart() {
	t := suite.T()
	ctx := t.Context()

	require.NoError(t, suite.store.AddItem(ctx, kaosPolos, 1, nil))

	tests := []struct {
		name    string
		contact domain.Contact
	}{
		{name: "checkout: empty contact", contact: domain.Contact{}},
		{name: "checkout: missing address", contact: domain.Contact{Name: "Budi", Phone: "0812"}},
		{name: "checkout: blank name", contact: domain.Contact{Name: " ", Phone: "0812", Address: "Jl. Mawar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := suite.service.Checkout(ctx, suite.store, tt.contact)

			require.ErrorIs(t, err, domain.ErrIncompleteContact)
			assert.Empty(t, link)
			assert.Len(t, suite.store.Lines(), 1)
			assert.Empty(t, suite.handoffs.all())
		})
	}

	stored, err := suite.storage.Load(ctx, "drt-store-cart:s1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func (suite *serviceSuite) TestCheckout_AddDuringHandoffIsKept() {
	t := suite.T()
	ctx := t.Context()

	topi := domain.Product{ID: "p9", Name: "Topi Rajut", Slug: "topi-rajut", Price: decimal.NewFromInt(35000)}
	suite.handoffs.onPublish = func() {
		assert.NoError(t, suite.store.AddItem(ctx, topi, 1, nil))
	}

	require.NoError(t, suite.store.AddItem(ctx, kaosPolos, 2, nil))

	link, err := suite.service.Checkout(ctx, suite.store, budi)
	require.NoError(t, err)

	assert.NotContains(t, link, "Topi")
	handoffs := suite.handoffs.all()
	require.Len(t, handoffs, 1)
	require.Len(t, handoffs[0].Lines, 1)
	assert.Equal(t, kaosPolos.ID, handoffs[0].Lines[0].Product.ID)

	lines := suite.store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, topi.ID, lines[0].Product.ID)
}

func (suite *serviceSuite) TestCheckout_DeleteFailureKeepsCart() {
	t := suite.T()
	ctx := t.Context()

	storage := &undeletableStorage{MemoryCartStorage: repository.NewMemoryCartStorage()}
	store := cartstore.Open(ctx, "drt-store-cart:s2", storage, suite.events)
	require.NoError(t, store.AddItem(ctx, kaosPolos, 1, nil))

	link, err := suite.service.Checkout(ctx, store, budi)

	require.ErrorIs(t, err, errDeleteFailed)
	assert.Empty(t, link)
	assert.Len(t, store.Lines(), 1)
	assert.Empty(t, suite.handoffs.all())
}

func (suite *serviceSuite) TestBuyNow_DoesNotTouchCart() {
	t := suite.T()
	ctx := t.Context()

	require.NoError(t, suite.store.AddItem(ctx, kaosPolos, 5, nil))
	before := suite.store.Snapshot()

	link := suite.service.BuyNow(kaosPolos, 0, domain.Variants{"size": "XL"}, domain.Contact{})

	want := suite.service.Builder().CreateCheckoutLink([]domain.CartLine{
		{Product: kaosPolos, Quantity: 1, SelectedVariants: domain.Variants{"size": "XL"}},
	}, domain.Contact{})
	assert.Equal(t, want, link)
	assert.Equal(t, before, suite.store.Snapshot())
	assert.Empty(t, suite.handoffs.all())
}

var errDeleteFailed = errors.New("delete failed")

type undeletableStorage struct {
	*repository.MemoryCartStorage
}

func (s *undeletableStorage) Delete(context.Context, string) (bool, error) {
	return false, errDeleteFailed
}

type recordingHandoffs struct {
	mu        sync.Mutex
	handoffs  []domain.CheckoutHandoff
	err       error
	onPublish func()
}

func (r *recordingHandoffs) PublishHandoff(_ context.Context, h domain.CheckoutHandoff) error {
	if r.onPublish != nil {
		r.onPublish()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.handoffs = append(r.handoffs, h)
	return nil
}

func (r *recordingHandoffs) all() []domain.CheckoutHandoff {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]domain.CheckoutHandoff(nil), r.handoffs...)
}

type countingEvents struct {
	mu     sync.Mutex
	counts map[domain.EventKind]int
}

func (c *countingEvents) Publish(_ context.Context, e domain.CartEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.counts == nil {
		c.counts = make(map[domain.EventKind]int)
	}
	c.counts[e.Kind]++
}

func (c *countingEvents) count(kind domain.EventKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counts[kind]
}
