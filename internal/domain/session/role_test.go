package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		wire string
		want Role
	}{
		{"seller", RoleSeller},
		{"producer", RoleProducer},
		{"user", RoleUser},
		{"admin", RoleUser},
		{"", RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.wire, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRole(tt.wire))
		})
	}
}

func TestRoleJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, `"seller"`, string(data))

	var r Role
	require.NoError(t, json.Unmarshal([]byte(`"producer"`), &r))
	assert.Equal(t, RoleProducer, r)

	require.NoError(t, json.Unmarshal([]byte(`"anonymous"`), &r))
	assert.Equal(t, RoleAnonymous, r)
}

func TestLandingRoute(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		captured string
		want     string
	}{
		{"captured wins over role", Identity{ID: "s", Role: RoleSeller}, "/cart", "/cart"},
		{"seller default", Identity{ID: "s", Role: RoleSeller}, "", "/seller"},
		{"producer default", Identity{ID: "p", Role: RoleProducer}, "", "/producer"},
		{"user default", Identity{ID: "u", Role: RoleUser}, "", "/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LandingRoute(tt.identity, tt.captured))
		})
	}
}

func TestIdentityIsAnonymous(t *testing.T) {
	assert.True(t, Identity{}.IsAnonymous())
	assert.True(t, Identity{ID: "u1"}.IsAnonymous())
	assert.False(t, Identity{ID: "u1", Role: RoleUser}.IsAnonymous())
}
