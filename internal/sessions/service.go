// Package sessions owns the independent customization sessions of every
// customer: one flow controller, one upsell sequencer and one notice buffer
// per session, expired after a period of inactivity.
package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/internal/cart"
	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	"github.com/cardapiohub/cardapio-backend/internal/flow"
	"github.com/cardapiohub/cardapio-backend/internal/flowconfig"
	"github.com/cardapiohub/cardapio-backend/internal/notify"
	"github.com/cardapiohub/cardapio-backend/internal/stores"
	"github.com/cardapiohub/cardapio-backend/internal/upsell"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
	"github.com/cardapiohub/cardapio-backend/pkg/logger"
	"github.com/cardapiohub/cardapio-backend/pkg/metrics"
)

const DefaultTTL = 30 * time.Minute

// StoreDirectory resolves stores and their opening state.
type StoreDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*stores.StoreDTO, error)
	EnsureOpen(ctx context.Context, id uuid.UUID) error
}

// Deps are shared by every session the service creates.
type Deps struct {
	Catalog          catalog.Reader
	Prices           catalog.PriceResolver
	FlowConfig       flowconfig.Source
	Stores           StoreDirectory
	Cart             cart.Sink
	Prompts          upsell.PromptSource
	QuickAdd         upsell.QuickAddSource
	Metrics          *metrics.FlowMetrics
	Logger           *logger.Logger
	MaxAdditionalQty int
	TTL              time.Duration
	Now              func() time.Time
}

// Service is the registry of live sessions. It is safe for concurrent use.
type Service struct {
	deps Deps

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewService(deps Deps) (*Service, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if deps.FlowConfig == nil {
		return nil, fmt.Errorf("flow config source required")
	}
	if deps.Stores == nil {
		return nil, fmt.Errorf("store directory required")
	}
	if deps.Cart == nil {
		return nil, fmt.Errorf("cart sink required")
	}
	if deps.Prompts == nil {
		return nil, fmt.Errorf("prompt source required")
	}
	if deps.QuickAdd == nil {
		return nil, fmt.Errorf("quick add source required")
	}
	if deps.Prices == nil {
		deps.Prices = catalog.NewResolver(deps.Catalog)
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewFlowMetrics(nil)
	}
	if deps.TTL <= 0 {
		deps.TTL = DefaultTTL
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{deps: deps, sessions: make(map[uuid.UUID]*Session)}, nil
}

// Create opens a new session for an existing store.
func (s *Service) Create(ctx context.Context, storeID uuid.UUID) (*Session, error) {
	if _, err := s.deps.Stores.GetByID(ctx, storeID); err != nil {
		return nil, err
	}
	id := uuid.New()
	recorder := notify.NewRecorder()
	notifier := notify.Fanout{recorder, notify.NewLogNotifier(s.deps.Logger)}

	ctrl, err := flow.NewController(flow.Deps{
		Catalog:          s.deps.Catalog,
		Prices:           s.deps.Prices,
		FlowConfig:       s.deps.FlowConfig,
		Stores:           s.deps.Stores,
		Cart:             s.deps.Cart,
		Notifier:         notifier,
		Metrics:          s.deps.Metrics,
		Logger:           s.deps.Logger,
		MaxAdditionalQty: s.deps.MaxAdditionalQty,
	}, id, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build flow controller")
	}
	seq, err := upsell.NewSequencer(upsell.Deps{
		Prompts:          s.deps.Prompts,
		QuickAdd:         s.deps.QuickAdd,
		Catalog:          s.deps.Catalog,
		Prices:           s.deps.Prices,
		Cart:             s.deps.Cart,
		Notifier:         notifier,
		Metrics:          s.deps.Metrics,
		Logger:           s.deps.Logger,
		MaxAdditionalQty: s.deps.MaxAdditionalQty,
	}, id, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upsell sequencer")
	}

	sess := &Session{
		id:       id,
		storeID:  storeID,
		flow:     ctrl,
		upsell:   seq,
		notices:  recorder,
		now:      s.deps.Now,
		lastSeen: s.deps.Now(),
	}
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	logCtx := s.deps.Logger.WithSessionID(s.deps.Logger.WithStoreID(ctx, storeID), id)
	s.deps.Logger.Info(logCtx, "sessions.created")
	return sess, nil
}

// Get returns a live session of the store. Unknown, foreign and idle-expired
// sessions are all reported as NOT_FOUND; a session busy with an operation is
// never idle.
func (s *Service) Get(ctx context.Context, storeID, id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.storeID != storeID {
		return nil, notFound(id)
	}
	if !sess.mu.TryLock() {
		return sess, nil
	}
	defer sess.mu.Unlock()
	if s.expireLocked(ctx, id, sess, s.deps.Now()) {
		return nil, notFound(id)
	}
	return sess, nil
}

// expireLocked drops sess when it has been idle past the TTL. Both s.mu and
// sess.mu must be held. An expiry is counted once, as expired, whether the
// sweep or a lookup finds it.
func (s *Service) expireLocked(ctx context.Context, id uuid.UUID, sess *Session, now time.Time) bool {
	if now.Sub(sess.lastSeen) <= s.deps.TTL {
		return false
	}
	sess.expireLocked(ctx)
	delete(s.sessions, id)
	s.deps.Metrics.IncSession("expired")
	s.deps.Logger.Info(s.deps.Logger.WithSessionID(s.deps.Logger.WithStoreID(ctx, sess.storeID), id), "sessions.expired")
	return true
}

// Close cancels any work in progress and forgets the session.
func (s *Service) Close(ctx context.Context, storeID, id uuid.UUID) error {
	sess, err := s.Get(ctx, storeID, id)
	if err != nil {
		return err
	}
	sess.Cancel(ctx)
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Sweep drops sessions idle for longer than the TTL, discarding their
// customization. Busy sessions are never idle and are skipped. It returns the
// number of sessions removed.
func (s *Service) Sweep(ctx context.Context) int {
	now := s.deps.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		if s.expireLocked(ctx, id, sess, now) {
			removed++
		}
		sess.mu.Unlock()
	}
	if removed > 0 {
		s.deps.Logger.Info(s.deps.Logger.WithFields(ctx, map[string]any{
			"expired": removed,
			"live":    len(s.sessions),
		}), "sessions.swept")
	}
	return removed
}

// Len reports the number of live sessions.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func notFound(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "session not found").
		WithDetails(map[string]any{"session_id": id.String()})
}
