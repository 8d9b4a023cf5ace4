// internal/upstream/client.go
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/linseaa/storefront-gateway/internal/config"
	"github.com/linseaa/storefront-gateway/internal/domain/address"
	"github.com/linseaa/storefront-gateway/internal/domain/cart"
	"github.com/linseaa/storefront-gateway/internal/domain/catalog"
	"github.com/linseaa/storefront-gateway/internal/domain/checkout"
	"github.com/linseaa/storefront-gateway/internal/domain/session"
	"github.com/sirupsen/logrus"
)

// authCookie is the cookie the commerce API issues at login and expects
// back on authenticated calls
const authCookie = "token"

// Error is a business failure reported by the commerce API. Its message
// is surfaced to the user verbatim, with no client-side
// reinterpretation.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("commerce API request failed with status %d", e.StatusCode)
}

// Client talks to the upstream commerce REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Entry
}

// NewClient creates an upstream client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Upstream.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Upstream.Timeout,
		},
		log: logger.WithField("component", "upstream"),
	}
}

type userPayload struct {
	ID        string         `json:"_id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      string         `json:"role"`
	Status    string         `json:"status"`
	CartItems map[string]int `json:"cartItems"`
}

func (u *userPayload) identity() session.Identity {
	return session.Identity{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          session.ParseRole(u.Role),
		ProfileStatus: u.Status,
	}
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *userPayload `json:"user"`
}

// IsAuth asks the backend for the identity behind the given auth token
func (c *Client) IsAuth(ctx context.Context, token string) (session.Identity, map[string]int, error) {
	var resp authResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/user/is-auth", token, nil, &resp); err != nil {
		return session.Identity{}, nil, err
	}
	if !resp.Success || resp.User == nil {
		return session.Identity{}, nil, &Error{StatusCode: http.StatusUnauthorized, Message: orDefault(resp.Message, "not authenticated")}
	}
	return resp.User.identity(), resp.User.CartItems, nil
}

// Login submits credentials to /api/user/login or /api/user/register
// and captures the auth cookie the backend sets on success
func (c *Client) Login(ctx context.Context, mode session.Mode, creds session.Credentials) (session.Identity, map[string]int, string, error) {
	body := map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	}
	if mode == session.ModeRegister {
		body["name"] = creds.Name
	}

	var resp authResponse
	cookies, err := c.do(ctx, http.MethodPost, "/api/user/"+string(mode), "", body, &resp)
	if err != nil {
		return session.Identity{}, nil, "", err
	}
	if !resp.Success || resp.User == nil {
		return session.Identity{}, nil, "", &Error{StatusCode: http.StatusUnauthorized, Message: orDefault(resp.Message, "authentication failed")}
	}

	token := ""
	for _, cookie := range cookies {
		if cookie.Name == authCookie {
			token = cookie.Value
		}
	}
	return resp.User.identity(), resp.User.CartItems, token, nil
}

// Logout notifies the backend. Callers treat failure as best-effort.
func (c *Client) Logout(ctx context.Context, token string) error {
	var resp statusResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/user/logout", token, nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &Error{Message: orDefault(resp.Message, "logout failed")}
	}
	return nil
}

// SellerIsAuth checks whether the token carries seller privileges
func (c *Client) SellerIsAuth(ctx context.Context, token string) (bool, error) {
	var resp statusResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/seller/is-auth", token, nil, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

type productListResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Products []catalog.Product `json:"products"`
}

// ListProducts fetches the full catalog
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var resp productListResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/product/list", "", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &Error{Message: orDefault(resp.Message, "failed to load products")}
	}
	return resp.Products, nil
}

// UpdateCart replaces the remote cart with the given full snapshot
func (c *Client) UpdateCart(ctx context.Context, token string, items map[string]int) error {
	body := map[string]any{"cartItems": items}
	var resp statusResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/cart/update", token, body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &Error{Message: orDefault(resp.Message, "cart sync rejected")}
	}
	return nil
}

type addressListResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Addresses []address.Address `json:"addresses"`
}

// ListAddresses fetches the user's saved addresses
func (c *Client) ListAddresses(ctx context.Context, token string) ([]address.Address, error) {
	var resp addressListResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/address/get", token, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &Error{Message: orDefault(resp.Message, "failed to load addresses")}
	}
	return resp.Addresses, nil
}

// AddAddress saves a new address on the user's account
func (c *Client) AddAddress(ctx context.Context, token string, a address.Address) (string, error) {
	var resp statusResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/address/add", token, a, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &Error{Message: orDefault(resp.Message, "failed to save address")}
	}
	return orDefault(resp.Message, "Address saved"), nil
}

// PlaceCashOrder places a cash-on-delivery order. Order placement is
// never retried.
func (c *Client) PlaceCashOrder(ctx context.Context, token string, draft checkout.Draft) (string, error) {
	var resp statusResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/order/cod", token, draft, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &Error{Message: orDefault(resp.Message, "order placement failed")}
	}
	return orDefault(resp.Message, "Order placed"), nil
}

type redirectResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// PlaceOnlineOrder places an order paid through a hosted page and
// returns the redirect URL
func (c *Client) PlaceOnlineOrder(ctx context.Context, token string, draft checkout.Draft) (string, error) {
	var resp redirectResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/order/stripe", token, draft, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.URL == "" {
		return "", &Error{Message: orDefault(resp.Message, "payment session could not be created")}
	}
	return resp.URL, nil
}

type cardOrderRequest struct {
	Token     string      `json:"token"`
	UserID    string      `json:"userId"`
	Items     []cart.Line `json:"items"`
	AddressID string      `json:"address"`
	Amount    float64     `json:"amount"`
}

// PlaceCardOrder places an order paid with a tokenized card
func (c *Client) PlaceCardOrder(ctx context.Context, token string, draft checkout.Draft, cardToken string) (string, error) {
	body := cardOrderRequest{
		Token:     cardToken,
		UserID:    draft.UserID,
		Items:     draft.Items,
		AddressID: draft.AddressID,
		Amount:    draft.Amount,
	}

	var resp statusResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/order/square", token, body, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &Error{Message: orDefault(resp.Message, "card payment failed")}
	}
	return orDefault(resp.Message, "Payment successful"), nil
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// do performs one JSON request against the commerce API. The auth token
// rides the backend's session cookie. Response cookies are returned so
// login can capture a fresh token.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) ([]*http.Cookie, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: authCookie, Value: token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("commerce API unreachable: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}

	c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	}).Debug("Upstream request completed")

	return resp.Cookies(), nil
}

func orDefault(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
