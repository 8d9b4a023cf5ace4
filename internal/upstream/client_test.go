package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/linseaa/storefront-gateway/internal/config"
	"github.com/linseaa/storefront-gateway/internal/domain/cart"
	"github.com/linseaa/storefront-gateway/internal/domain/checkout"
	"github.com/linseaa/storefront-gateway/internal/domain/session"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{}
	cfg.Upstream.BaseURL = ts.URL
	cfg.Upstream.Timeout = 5 * time.Second
	return NewClient(cfg, logger)
}

func TestLoginCapturesAuthCookie(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body["email"])
		assert.Equal(t, "pw", body["password"])

		http.SetCookie(w, &http.Cookie{Name: "token", Value: "jwt-from-backend"})
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user": map[string]any{
				"_id": "u1", "name": "Ada", "email": "a@b.c", "role": "seller",
				"cartItems": map[string]int{"p1": 2},
			},
		})
	}))

	identity, items, token, err := client.Login(context.Background(), session.ModeLogin, session.Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "jwt-from-backend", token)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, session.RoleSeller, identity.Role)
	assert.Equal(t, map[string]int{"p1": 2}, items)
}

func TestRegisterSendsName(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user/register", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ada", body["name"])

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user":    map[string]any{"_id": "u1", "name": "Ada", "role": "user"},
		})
	}))

	_, _, _, err := client.Login(context.Background(), session.ModeRegister, session.Credentials{Name: "Ada", Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
}

func TestBusinessFailureSurfacesVerbatimMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Invalid email or password",
		})
	}))

	_, _, _, err := client.Login(context.Background(), session.ModeLogin, session.Credentials{Email: "a@b.c", Password: "nope"})

	var upstreamErr *Error
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "Invalid email or password", upstreamErr.Message)
	assert.EqualError(t, err, "Invalid email or password")
}

func TestIsAuthSendsTokenCookie(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("token")
		require.NoError(t, err)
		assert.Equal(t, "my-token", cookie.Value)

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user":    map[string]any{"_id": "u1", "role": "user"},
		})
	}))

	identity, _, err := client.IsAuth(context.Background(), "my-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
}

func TestUpdateCartPayloadShape(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/cart/update", r.URL.Path)

		var body map[string]map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]int{"p1": 3}, body["cartItems"])

		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))

	err := client.UpdateCart(context.Background(), "tok", map[string]int{"p1": 3})
	require.NoError(t, err)
}

func TestListProductsParsesWireShape(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/product/list", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"products": []map[string]any{
				{"_id": "p1", "name": "Apple", "category": "Fruits", "price": 3, "offerPrice": 2.5, "image": []string{"a.png"}, "inStock": true},
			},
		})
	}))

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, 2.5, products[0].OfferPrice)
	assert.Equal(t, []string{"a.png"}, products[0].Images)
	assert.True(t, products[0].InStock)
}

func TestPlaceOnlineOrderReturnsRedirectURL(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/order/stripe", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"url":     "https://pay.example/cs_123",
		})
	}))

	url, err := client.PlaceOnlineOrder(context.Background(), "tok", checkout.Draft{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_123", url)
}

func TestPlaceCashOrderPayloadShape(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/order/cod", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body["userId"])
		assert.Equal(t, "addr1", body["address"])
		items, ok := body["items"].([]any)
		require.True(t, ok)
		require.Len(t, items, 1)
		line := items[0].(map[string]any)
		assert.Equal(t, "p1", line["product"])
		assert.Equal(t, float64(2), line["quantity"])

		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Order Placed Successfully"})
	}))

	message, err := client.PlaceCashOrder(context.Background(), "tok", checkout.Draft{
		UserID:    "u1",
		Items:     []cart.Line{{ProductID: "p1", Quantity: 2}},
		AddressID: "addr1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Order Placed Successfully", message)
}

func TestPlaceCardOrderCarriesTokenAndAmount(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/order/square", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cnon-abc", body["token"])
		assert.Equal(t, 61.0, body["amount"])

		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Payment Successful"})
	}))

	message, err := client.PlaceCardOrder(context.Background(), "tok", checkout.Draft{UserID: "u1", Amount: 61}, "cnon-abc")
	require.NoError(t, err)
	assert.Equal(t, "Payment Successful", message)
}

func TestTransportErrorWraps(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{}
	cfg.Upstream.BaseURL = "http://127.0.0.1:1"
	cfg.Upstream.Timeout = 200 * time.Millisecond
	client := NewClient(cfg, logger)

	_, err := client.ListProducts(context.Background())
	require.Error(t, err)

	var upstreamErr *Error
	assert.False(t, errors.As(err, &upstreamErr), "transport failures are not business errors")
	assert.Contains(t, err.Error(), "commerce API unreachable")
}
