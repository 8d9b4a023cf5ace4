// internal/domain/session/role.go
package session

import (
	"encoding/json"
	"fmt"
)

// Role is the single closed variant describing who is acting. Invalid
// combinations (a seller that is also a producer) are unrepresentable.
type Role int

const (
	RoleAnonymous Role = iota
	RoleUser
	RoleSeller
	RoleProducer
)

// ParseRole maps the upstream role string onto the variant. Unknown
// strings degrade to a plain user, never to a privileged role.
func ParseRole(s string) Role {
	switch s {
	case "seller":
		return RoleSeller
	case "producer":
		return RoleProducer
	default:
		return RoleUser
	}
}

// String returns the wire form of the role
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleSeller:
		return "seller"
	case RoleProducer:
		return "producer"
	default:
		return "anonymous"
	}
}

// Authenticated reports whether the role belongs to a signed-in actor
func (r Role) Authenticated() bool {
	return r != RoleAnonymous
}

// MarshalJSON encodes the role as its wire string
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes the wire string form
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("role must be a string: %w", err)
	}
	if s == "anonymous" || s == "" {
		*r = RoleAnonymous
		return nil
	}
	*r = ParseRole(s)
	return nil
}

// Identity is the authenticated actor. The zero value is the anonymous
// identity; it is replaced wholesale on login and logout.
type Identity struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	ProfileStatus string `json:"profileStatus"`
}

// IsAnonymous reports whether no actor is signed in
func (i Identity) IsAnonymous() bool {
	return i.ID == "" || !i.Role.Authenticated()
}

// LandingRoute returns the role-dependent landing route after login. A
// location captured before the login redirect takes precedence.
func LandingRoute(identity Identity, captured string) string {
	if captured != "" {
		return captured
	}
	switch identity.Role {
	case RoleSeller:
		return "/seller"
	case RoleProducer:
		return "/producer"
	default:
		return "/dashboard"
	}
}
