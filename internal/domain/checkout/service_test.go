package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/linseaa/storefront-gateway/internal/domain/address"
	"github.com/linseaa/storefront-gateway/internal/domain/cart"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrices map[string]float64

func (s stubPrices) OfferPrice(id string) (float64, bool) {
	p, ok := s[id]
	return p, ok
}

// fakePlacer records drafts and can be told to fail
type fakePlacer struct {
	err       error
	cashCalls int
	lastDraft Draft
	lastToken string
	url       string
}

func (f *fakePlacer) PlaceCashOrder(ctx context.Context, token string, draft Draft) (string, error) {
	f.cashCalls++
	f.lastDraft = draft
	if f.err != nil {
		return "", f.err
	}
	return "Order Placed Successfully", nil
}

func (f *fakePlacer) PlaceOnlineOrder(ctx context.Context, token string, draft Draft) (string, error) {
	f.lastDraft = draft
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func (f *fakePlacer) PlaceCardOrder(ctx context.Context, token string, draft Draft, cardToken string) (string, error) {
	f.lastDraft = draft
	f.lastToken = cardToken
	if f.err != nil {
		return "", f.err
	}
	return "Payment Successful", nil
}

func newFixture(t *testing.T, placer *fakePlacer) (*Service, *cart.Cart, *address.Book) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	crt := cart.New(stubPrices{"apple": 30, "pear": 10}, logrus.NewEntry(logger))
	book := address.NewBook()
	return NewService(placer, logrus.NewEntry(logger)), crt, book
}

func seedBook(book *address.Book) {
	book.Replace([]address.Address{{ID: "addr1", FirstName: "Ada", Street: "1 Main", City: "Rome", Zipcode: "00100", Country: "IT", Phone: "123"}})
}

func TestPlaceOrderRequiresSelectedAddress(t *testing.T) {
	placer := &fakePlacer{}
	svc, crt, book := newFixture(t, placer)
	crt.Add("apple")

	_, err := svc.PlaceOrder(context.Background(), "tok", "u1", crt, book, CashOnDelivery{})

	require.ErrorIs(t, err, ErrNoAddress)
	assert.Zero(t, placer.cashCalls)
	assert.Equal(t, 1, crt.Quantity("apple"))
}

func TestPlaceOrderRequiresNonEmptyCart(t *testing.T) {
	placer := &fakePlacer{}
	svc, crt, book := newFixture(t, placer)
	seedBook(book)

	_, err := svc.PlaceOrder(context.Background(), "tok", "u1", crt, book, CashOnDelivery{})

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, placer.cashCalls)
}

func TestPlaceOrderTreatsUnresolvableOnlyCartAsEmpty(t *testing.T) {
	placer := &fakePlacer{}
	svc, crt, book := newFixture(t, placer)
	seedBook(book)
	crt.Add("gone-from-catalog")

	_, err := svc.PlaceOrder(context.Background(), "tok", "u1", crt, book, CashOnDelivery{})

	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCashOrderClearsCartAndRoutesToOrders(t *testing.T) {
	placer := &fakePlacer{}
	svc, crt, book := newFixture(t, placer)
	seedBook(book)
	crt.SetQuantity("apple", 2)

	outcome, err := svc.PlaceOrder(context.Background(), "tok", "u1", crt, book, CashOnDelivery{})
	require.NoError(t, err)

	assert.Equal(t, "/my-orders", outcome.NextRoute)
	assert.True(t, crt.IsEmpty())
	assert.Equal(t, "u1", placer.lastDraft.UserID)
	assert.Equal(t, "addr1", placer.lastDraft.AddressID)
	require.Len(t, placer.lastDraft.Items, 1)
	assert.Equal(t, "apple", placer.lastDraft.Items[0].ProductID)
	assert.Equal(t, 2, placer.lastDraft.Items[0].Quantity)
}

func TestFailedPlacementLeavesCartUntouched(t *testing.T) {
	placer := &fakePlacer{err: errors.New("Insufficient stock")}
	svc, crt, book := newFixture(t, placer)
	seedBook(book)
	crt.SetQuantity("apple", 2)
	crt.Add("pear")
	before := crt.Items()

	for _, method := range []Method{CashOnDelivery{}, OnlineRedirect{}, TokenizedCard{Token: "cnon"}} {
		_, err := svc.PlaceOrder(context.Background(), "tok", "u1", crt, book, method)
		require.Error(t, err)
		assert.Equal(t, before, crt.Items())
	}
}

func TestOnlineOrderReturnsRedirectAndKeepsCart(t *testing.T) {
	placer := &fakePlacer{url: "https://pay.example/session/123"}
	svc, crt, book := newFixture(t, placer)
	seedBook(book)
	crt.Add("apple")

	outcome, err := svc.PlaceOrder(context.Background(), "tok", "u1", crt, book, OnlineRedirect{})
	require.NoError(t, err)

	assert.Equal(t, "https://pay.example/session/123", outcome.RedirectURL)
	assert.Empty(t, outcome.NextRoute)
	assert.False(t, crt.IsEmpty())
}

func TestCardOrderRequiresToken(t *testing.T) {
	placer := &fakePlacer{}
	svc, crt, book := newFixture(t, placer)
	seedBook(book)
	crt.Add("apple")

	_, err := svc.PlaceOrder(context.Background(), "tok", "u1", crt, book, TokenizedCard{})

	require.ErrorIs(t, err, ErrMissingCardToken)
	assert.False(t, crt.IsEmpty())
}

func TestCardOrderCarriesGrandTotalAmount(t *testing.T) {
	placer := &fakePlacer{}
	svc, crt, book := newFixture(t, placer)
	seedBook(book)
	crt.SetQuantity("apple", 2) // subtotal 60, tax 1

	outcome, err := svc.PlaceOrder(context.Background(), "tok", "u1", crt, book, TokenizedCard{Token: "cnon-abc"})
	require.NoError(t, err)

	assert.Equal(t, 61.0, placer.lastDraft.Amount)
	assert.Equal(t, "cnon-abc", placer.lastToken)
	assert.Equal(t, "/my-orders", outcome.NextRoute)
	assert.True(t, crt.IsEmpty())
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("COD", "")
	require.NoError(t, err)
	assert.IsType(t, CashOnDelivery{}, m)

	m, err = ParseMethod("Online", "")
	require.NoError(t, err)
	assert.IsType(t, OnlineRedirect{}, m)

	m, err = ParseMethod("Square", "cnon")
	require.NoError(t, err)
	require.IsType(t, TokenizedCard{}, m)
	assert.Equal(t, "cnon", m.(TokenizedCard).Token)

	_, err = ParseMethod("PayPal", "")
	require.Error(t, err)
}
