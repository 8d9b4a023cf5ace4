// internal/domain/session/session.go
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/linseaa/storefront-gateway/internal/domain/address"
	"github.com/linseaa/storefront-gateway/internal/domain/cart"
	"github.com/linseaa/storefront-gateway/internal/domain/catalog"
	"github.com/sirupsen/logrus"
)

// Mode selects between signing in and creating an account
type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// ErrTermsNotAccepted blocks registration before any network call
var ErrTermsNotAccepted = errors.New("please accept the terms and conditions")

// Credentials carries the login form fields
type Credentials struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	AgreeTerms bool   `json:"agreeTerms,omitempty"`
}

// Gateway is the slice of the commerce API the session layer consumes
type Gateway interface {
	IsAuth(ctx context.Context, token string) (Identity, map[string]int, error)
	Login(ctx context.Context, mode Mode, creds Credentials) (Identity, map[string]int, string, error)
	Logout(ctx context.Context, token string) error
	SellerIsAuth(ctx context.Context, token string) (bool, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	UpdateCart(ctx context.Context, token string, items map[string]int) error
	ListAddresses(ctx context.Context, token string) ([]address.Address, error)
	AddAddress(ctx context.Context, token string, a address.Address) (string, error)
}

// State is the session lifecycle state
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

// Session is the single source of truth for who is acting in one
// browser session. It owns the cart and the address book; both are
// replaced wholesale when the identity changes, never merged.
type Session struct {
	mu            sync.Mutex
	id            string
	state         State
	identity      Identity
	upstreamToken string

	Cart      *cart.Cart
	Addresses *address.Book

	api      Gateway
	products *catalog.Store
	loadOnce func(ctx context.Context)
	log      *logrus.Entry
}

func newSession(id string, api Gateway, products *catalog.Store, loadOnce func(ctx context.Context), log *logrus.Entry) *Session {
	entry := log.WithField("session_id", id)
	return &Session{
		id:        id,
		api:       api,
		products:  products,
		loadOnce:  loadOnce,
		log:       entry,
		Cart:      cart.New(products, entry),
		Addresses: address.NewBook(),
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// State returns the lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the current identity; the zero value when anonymous
func (s *Session) Identity() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Role returns the current role
func (s *Session) Role() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return RoleAnonymous
	}
	return s.identity.Role
}

// Token returns the upstream auth token for this session
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upstreamToken
}

// Establish asks the backend who this session belongs to and seeds the
// cart from the persisted copy. Every failure degrades to the
// anonymous state; Establish never fails outward. The catalog fetch
// and the seller role check run concurrently and are fire-and-forget.
func (s *Session) Establish(ctx context.Context) {
	s.mu.Lock()
	token := s.upstreamToken
	s.mu.Unlock()

	go s.loadOnce(context.WithoutCancel(ctx))
	go s.confirmSellerRole(context.WithoutCancel(ctx))

	identity, items, err := s.api.IsAuth(ctx, token)
	if err != nil || identity.IsAnonymous() {
		if err != nil {
			s.log.WithError(err).Debug("Session establish degraded to anonymous")
		}
		s.mu.Lock()
		s.identity = Identity{}
		s.state = StateAnonymous
		s.mu.Unlock()
		s.Cart.DisableSync()
		return
	}

	s.adopt(identity, items, token)
}

// Login submits credentials and, on success, replaces the identity and
// the cart wholesale. It returns the landing route: a captured "next"
// location wins over the role default. On failure the identity stays
// anonymous and the server's message is surfaced untouched.
func (s *Session) Login(ctx context.Context, mode Mode, creds Credentials, next string) (string, error) {
	if mode != ModeLogin && mode != ModeRegister {
		return "", fmt.Errorf("unknown auth mode %q", mode)
	}
	if mode == ModeRegister && !creds.AgreeTerms {
		return "", ErrTermsNotAccepted
	}

	s.mu.Lock()
	s.state = StateAuthenticating
	s.mu.Unlock()

	identity, items, token, err := s.api.Login(ctx, mode, creds)
	if err != nil {
		s.mu.Lock()
		s.state = StateAnonymous
		s.mu.Unlock()
		return "", err
	}

	s.adopt(identity, items, token)
	s.Addresses.Clear()
	s.log.WithFields(logrus.Fields{
		"user_id": identity.ID,
		"role":    identity.Role.String(),
	}).Info("Session authenticated")

	return LandingRoute(identity, next), nil
}

// Logout notifies the backend best-effort, then unconditionally clears
// the identity, cart, and address book. It returns the login route.
func (s *Session) Logout(ctx context.Context) string {
	s.mu.Lock()
	token := s.upstreamToken
	s.mu.Unlock()

	if err := s.api.Logout(ctx, token); err != nil {
		s.log.WithError(err).Debug("Upstream logout failed, clearing session anyway")
	}

	s.mu.Lock()
	s.identity = Identity{}
	s.upstreamToken = ""
	s.state = StateAnonymous
	s.mu.Unlock()

	s.Cart.DisableSync()
	s.Cart.Clear()
	s.Addresses.Clear()
	s.log.Info("Session logged out")

	return "/auth"
}

// RefreshAddresses reloads the address book from the backend
func (s *Session) RefreshAddresses(ctx context.Context) error {
	s.mu.Lock()
	token := s.upstreamToken
	authed := s.state == StateAuthenticated
	s.mu.Unlock()

	if !authed {
		return errors.New("sign in to manage addresses")
	}

	list, err := s.api.ListAddresses(ctx, token)
	if err != nil {
		return err
	}
	s.Addresses.Replace(list)
	return nil
}

// AddAddress validates locally, saves the address upstream, and
// refreshes the book
func (s *Session) AddAddress(ctx context.Context, a address.Address) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	token := s.upstreamToken
	authed := s.state == StateAuthenticated
	s.mu.Unlock()

	if !authed {
		return "", errors.New("sign in to add an address")
	}

	message, err := s.api.AddAddress(ctx, token, a)
	if err != nil {
		return "", err
	}
	if err := s.RefreshAddresses(ctx); err != nil {
		s.log.WithError(err).Warn("Address saved but refresh failed")
	}
	return message, nil
}

// adopt installs a fresh identity, seeds the cart from the server-side
// copy, and enables remote mirroring. The previous user's entries are
// never carried over.
func (s *Session) adopt(identity Identity, items map[string]int, token string) {
	s.mu.Lock()
	s.identity = identity
	s.state = StateAuthenticated
	if token != "" {
		s.upstreamToken = token
	}
	token = s.upstreamToken
	s.mu.Unlock()

	s.Cart.DisableSync()
	s.Cart.Replace(items)
	s.Cart.EnableSync(func(ctx context.Context, snapshot map[string]int) error {
		return s.api.UpdateCart(ctx, token, snapshot)
	})
}

// confirmSellerRole cross-checks a claimed seller role against the
// seller auth endpoint. A failed check demotes the session to a plain
// user; it never blocks or invalidates the session.
func (s *Session) confirmSellerRole(ctx context.Context) {
	s.mu.Lock()
	token := s.upstreamToken
	s.mu.Unlock()

	ok, err := s.api.SellerIsAuth(ctx, token)
	if err != nil {
		s.log.WithError(err).Debug("Seller role check failed")
		ok = false
	}

	s.mu.Lock()
	if !ok && s.state == StateAuthenticated && s.identity.Role == RoleSeller {
		s.identity.Role = RoleUser
		s.log.Warn("Seller role not confirmed, demoted to user")
	}
	s.mu.Unlock()
}
