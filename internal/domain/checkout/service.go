// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/linseaa/storefront-gateway/internal/domain/address"
	"github.com/linseaa/storefront-gateway/internal/domain/cart"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoAddress blocks submission before any network call
	ErrNoAddress = errors.New("please select a delivery address")
	// ErrEmptyCart is re-checked here even though views gate on it
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMissingCardToken means the payment widget produced no token
	ErrMissingCardToken = errors.New("card token is required")
)

// Method is the payment method chosen immediately before submission.
// The variants are closed; order placement switches over them
// exhaustively.
type Method interface {
	methodName() string
}

// CashOnDelivery pays on delivery
type CashOnDelivery struct{}

// OnlineRedirect pays through a hosted page the user is redirected to
type OnlineRedirect struct{}

// TokenizedCard pays with a card token obtained from the embedded
// payment widget
type TokenizedCard struct {
	Token string
}

func (CashOnDelivery) methodName() string { return "COD" }
func (OnlineRedirect) methodName() string { return "Online" }
func (TokenizedCard) methodName() string  { return "Square" }

// ParseMethod maps the wire name of a payment method to its variant
func ParseMethod(name, cardToken string) (Method, error) {
	switch name {
	case "COD":
		return CashOnDelivery{}, nil
	case "Online":
		return OnlineRedirect{}, nil
	case "Square":
		return TokenizedCard{Token: cardToken}, nil
	default:
		return nil, fmt.Errorf("unknown payment method %q", name)
	}
}

// Draft is the one-shot order payload assembled at the moment of
// placement and discarded right after the call resolves
type Draft struct {
	UserID    string      `json:"userId"`
	Items     []cart.Line `json:"items"`
	AddressID string      `json:"address"`
	Amount    float64     `json:"amount,omitempty"`
}

// Placer submits order drafts to the commerce API
type Placer interface {
	PlaceCashOrder(ctx context.Context, token string, draft Draft) (string, error)
	PlaceOnlineOrder(ctx context.Context, token string, draft Draft) (string, error)
	PlaceCardOrder(ctx context.Context, token string, draft Draft, cardToken string) (string, error)
}

// Outcome describes where the flow goes after a successful placement
type Outcome struct {
	Message     string `json:"message,omitempty"`
	NextRoute   string `json:"nextRoute,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// Service drives order submission
type Service struct {
	placer Placer
	log    *logrus.Entry
}

// NewService creates a new checkout service
func NewService(placer Placer, log *logrus.Entry) *Service {
	return &Service{
		placer: placer,
		log:    log,
	}
}

// PlaceOrder validates preconditions, assembles a draft from the
// current cart and selected address, and submits it by payment method.
// The cart is cleared if and only if the server confirms order
// creation; any failure leaves it exactly as it was.
func (s *Service) PlaceOrder(ctx context.Context, authToken, userID string, crt *cart.Cart, book *address.Book, method Method) (*Outcome, error) {
	selected, ok := book.Selected()
	if !ok {
		return nil, ErrNoAddress
	}

	lines := crt.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	draft := Draft{
		UserID:    userID,
		Items:     lines,
		AddressID: selected.ID,
	}

	switch m := method.(type) {
	case CashOnDelivery:
		message, err := s.placer.PlaceCashOrder(ctx, authToken, draft)
		if err != nil {
			return nil, err
		}
		crt.Clear()
		s.log.WithField("user_id", userID).Info("Order placed with cash on delivery")
		return &Outcome{Message: message, NextRoute: "/my-orders"}, nil

	case OnlineRedirect:
		// the cart is cleared only after the user returns through the
		// provider's success callback, which is server-driven
		url, err := s.placer.PlaceOnlineOrder(ctx, authToken, draft)
		if err != nil {
			return nil, err
		}
		s.log.WithField("user_id", userID).Info("Order handed off to hosted payment page")
		return &Outcome{RedirectURL: url}, nil

	case TokenizedCard:
		if m.Token == "" {
			return nil, ErrMissingCardToken
		}
		draft.Amount = crt.GrandTotal()
		message, err := s.placer.PlaceCardOrder(ctx, authToken, draft, m.Token)
		if err != nil {
			return nil, err
		}
		crt.Clear()
		s.log.WithField("user_id", userID).Info("Order placed with card payment")
		return &Outcome{Message: message, NextRoute: "/my-orders"}, nil

	default:
		return nil, fmt.Errorf("unsupported payment method %q", method.methodName())
	}
}
