package session

import (
	"context"
	"testing"
	"time"

	"github.com/linseaa/storefront-gateway/internal/config"
	"github.com/linseaa/storefront-gateway/internal/domain/catalog"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis returns a client whose every call fails fast, so
// tests can exercise the snapshot-miss paths
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func newTestRegistry(api Gateway) *Registry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewRegistry(api, catalog.NewStore(), unreachableRedis(), &config.Config{}, logger)
}

func TestGetOrCreateKeepsRequestedIDOnSnapshotMiss(t *testing.T) {
	reg := newTestRegistry(&fakeGateway{})

	sess := reg.GetOrCreate(context.Background(), "cookie-id")

	// the browser keeps its cookie, so the fresh session must answer
	// to the id the cookie carries
	assert.Equal(t, "cookie-id", sess.ID())
}

func TestGetOrCreateWithoutIDMintsFreshSession(t *testing.T) {
	reg := newTestRegistry(&fakeGateway{})

	a := reg.GetOrCreate(context.Background(), "")
	b := reg.GetOrCreate(context.Background(), "")

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSessionStateSurvivesSnapshotLoss(t *testing.T) {
	api := &fakeGateway{
		loginFn: func(ctx context.Context, mode Mode, creds Credentials) (Identity, map[string]int, string, error) {
			return Identity{ID: "u1", Role: RoleUser}, map[string]int{"p1": 2}, "tok", nil
		},
	}
	reg := newTestRegistry(api)

	sess := reg.GetOrCreate(context.Background(), "cookie-id")
	_, err := sess.Login(context.Background(), ModeLogin, Credentials{Email: "a@b.c", Password: "pw"}, "")
	require.NoError(t, err)

	// the next request presents the same cookie; the snapshot store is
	// still unreachable, yet the login and the cart must still be there
	again := reg.GetOrCreate(context.Background(), "cookie-id")

	assert.Same(t, sess, again)
	assert.Equal(t, StateAuthenticated, again.State())
	assert.Equal(t, map[string]int{"p1": 2}, again.Cart.Items())
}

func TestCreateWithSameIDReturnsExistingSession(t *testing.T) {
	reg := newTestRegistry(&fakeGateway{})

	a := reg.createWithID("dup")
	b := reg.createWithID("dup")

	assert.Same(t, a, b)
}
