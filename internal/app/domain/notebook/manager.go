package notebook

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/observability/metrics"
)

// Manager keeps one live session per user, expiring idle sessions so their
// timers are not leaked across lifetimes.
type Manager struct {
	sessions *gocache.Cache
	store    PersistenceClient
	debounce time.Duration
	logger   *zap.Logger
}

func NewManager(store PersistenceClient, debounce, sessionTTL time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	sessions := gocache.New(sessionTTL, sessionTTL/2)
	sessions.OnEvicted(func(_ string, value interface{}) {
		if session, ok := value.(*Session); ok {
			session.Close()
		}
		metrics.Get().ActiveSessionsGauge.Record(context.Background(), int64(sessions.ItemCount()))
	})
	return &Manager{
		sessions: sessions,
		store:    store,
		debounce: debounce,
		logger:   logger,
	}
}

// Get returns the user's session, creating one when absent. Touching a
// session resets its expiry.
func (m *Manager) Get(userID uuid.UUID) *Session {
	key := userID.String()
	if value, found := m.sessions.Get(key); found {
		if session, ok := value.(*Session); ok {
			m.sessions.SetDefault(key, session)
			return session
		}
	}

	session := NewSession(userID, m.store, m.debounce, m.logger.With(zap.String("user_id", key)))
	m.sessions.SetDefault(key, session)
	metrics.Get().ActiveSessionsGauge.Record(context.Background(), int64(m.sessions.ItemCount()))
	return session
}

// Remove drops the user's session, closing it via the eviction hook.
func (m *Manager) Remove(userID uuid.UUID) {
	m.sessions.Delete(userID.String())
}
