// internal/domain/session/registry.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linseaa/storefront-gateway/internal/config"
	"github.com/linseaa/storefront-gateway/internal/domain/catalog"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// snapshot is the Redis-persisted slice of a session: enough to restore
// identity, upstream auth, and the cart after a gateway restart
type snapshot struct {
	Identity      Identity       `json:"identity"`
	Authenticated bool           `json:"authenticated"`
	UpstreamToken string         `json:"upstream_token"`
	CartItems     map[string]int `json:"cart_items"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Registry owns the live sessions and their Redis snapshots
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	api         Gateway
	products    *catalog.Store
	redisClient *redis.Client
	config      *config.Config
	log         *logrus.Entry

	catalogOnce sync.Once
}

// NewRegistry creates a session registry
func NewRegistry(api Gateway, products *catalog.Store, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		api:         api,
		products:    products,
		redisClient: redisClient,
		config:      cfg,
		log:         logger.WithField("component", "session_registry"),
	}
}

// Create starts a fresh anonymous session
func (r *Registry) Create() *Session {
	return r.createWithID(uuid.NewString())
}

func (r *Registry) createWithID(id string) *Session {
	s := newSession(id, r.api, r.products, r.loadCatalogOnce, r.log)
	r.mu.Lock()
	if existing, ok := r.sessions[id]; ok {
		r.mu.Unlock()
		return existing
	}
	r.sessions[id] = s
	r.mu.Unlock()
	return s
}

// Get returns the live session with the given id, restoring it from its
// Redis snapshot if the gateway restarted since it was created
func (r *Registry) Get(ctx context.Context, id string) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		return s, true
	}

	snap, err := r.loadSnapshot(ctx, id)
	if err != nil {
		return nil, false
	}

	s = newSession(id, r.api, r.products, r.loadCatalogOnce, r.log)
	if snap.Authenticated {
		s.adopt(snap.Identity, snap.CartItems, snap.UpstreamToken)
	} else {
		s.Cart.Replace(snap.CartItems)
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return s, true
}

// GetOrCreate resolves the session for a request. A requested id whose
// snapshot cannot be loaded keeps that id for the fresh session, so the
// cookie the browser already holds stays valid across snapshot loss.
func (r *Registry) GetOrCreate(ctx context.Context, id string) *Session {
	if id == "" {
		return r.Create()
	}
	if s, ok := r.Get(ctx, id); ok {
		return s
	}
	return r.createWithID(id)
}

// Save persists the session snapshot with the configured TTL. Snapshot
// failures are logged only; the in-memory session stays authoritative.
func (r *Registry) Save(ctx context.Context, s *Session) {
	s.mu.Lock()
	snap := snapshot{
		Identity:      s.identity,
		Authenticated: s.state == StateAuthenticated,
		UpstreamToken: s.upstreamToken,
		UpdatedAt:     time.Now().UTC(),
	}
	s.mu.Unlock()
	snap.CartItems = s.Cart.Items()

	data, err := json.Marshal(snap)
	if err != nil {
		r.log.WithError(err).Error("Failed to encode session snapshot")
		return
	}

	key := sessionKey(s.ID())
	if err := r.redisClient.Set(ctx, key, data, r.config.Session.SnapshotTTL).Err(); err != nil {
		r.log.WithError(err).Warn("Failed to persist session snapshot")
	}
}

// Drop removes a session and its snapshot
func (r *Registry) Drop(ctx context.Context, id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	if err := r.redisClient.Del(ctx, sessionKey(id)).Err(); err != nil {
		r.log.WithError(err).Warn("Failed to delete session snapshot")
	}
}

// RefreshCatalog fetches the full product list and replaces the store
func (r *Registry) RefreshCatalog(ctx context.Context) error {
	products, err := r.api.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	r.products.Replace(products)
	r.log.WithField("count", len(products)).Info("Catalog loaded")
	return nil
}

// loadCatalogOnce performs the one-time bootstrap catalog fetch. Its
// failure never affects session validity.
func (r *Registry) loadCatalogOnce(ctx context.Context) {
	r.catalogOnce.Do(func() {
		if err := r.RefreshCatalog(ctx); err != nil {
			r.log.WithError(err).Warn("Bootstrap catalog fetch failed")
		}
	})
}

func (r *Registry) loadSnapshot(ctx context.Context, id string) (*snapshot, error) {
	data, err := r.redisClient.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, err
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
