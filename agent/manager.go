package agent

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/logging"
	"github.com/hupe1980/dialogmesh/model"
	"github.com/hupe1980/dialogmesh/prompt"
	"github.com/hupe1980/dialogmesh/tool"
)

const (
	// DefaultIdleTimeout is how long a session may sit untouched before the
	// sweeper evicts it.
	DefaultIdleTimeout = 300 * time.Second

	// DefaultSweepInterval is how often the sweeper scans for idle sessions.
	DefaultSweepInterval = 60 * time.Second
)

// session pairs an agent with its own lock and idle clock. The per-session
// mutex serializes turns within one session without blocking other sessions.
type session struct {
	mu         sync.Mutex
	agent      *Agent
	lastActive time.Time
}

// Manager owns the session table: it creates agents on first use, routes
// each turn to its session, serializes concurrent turns within a session,
// and evicts sessions that have been idle past the timeout.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session

	client  model.Client
	tools   *tool.Registry
	store   core.RecordStore
	users   core.UserContextProvider
	logger  logging.Logger
	now     func() time.Time

	patience      int
	historyWindow int
	idleTimeout   time.Duration
	sweepInterval time.Duration
	promptOpts    []prompt.Option

	done   chan struct{}
	closed sync.Once
}

// ManagerOption customizes Manager construction.
type ManagerOption func(*Manager)

// WithManagerLogger overrides the default NoOp logger.
func WithManagerLogger(l logging.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithIdleTimeout sets how long a session may be idle before eviction.
func WithIdleTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.idleTimeout = d
		}
	}
}

// WithSweepInterval sets how often idle sessions are scanned for.
func WithSweepInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.sweepInterval = d
		}
	}
}

// WithPatience sets the per-turn loop budget for new sessions.
func WithPatience(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.patience = n
		}
	}
}

// WithHistoryWindow sets how many past records new sessions replay.
func WithHistoryWindow(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.historyWindow = n
		}
	}
}

// WithUserContextProvider supplies per-user profiles for tool invocations.
func WithUserContextProvider(p core.UserContextProvider) ManagerOption {
	return func(m *Manager) {
		if p != nil {
			m.users = p
		}
	}
}

// WithPromptOptions forwards options to each session's prompt builder.
func WithPromptOptions(opts ...prompt.Option) ManagerOption {
	return func(m *Manager) { m.promptOpts = opts }
}

// WithManagerNow overrides the clock, for tests.
func WithManagerNow(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager constructs a Manager and starts its background sweeper. Call
// Close to stop it.
func NewManager(client model.Client, tools *tool.Registry, store core.RecordStore, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions:      make(map[string]*session),
		client:        client,
		tools:         tools,
		store:         store,
		users:         core.StaticUserContextProvider{},
		logger:        logging.NoOpLogger{},
		now:           time.Now,
		patience:      DefaultPatience,
		historyWindow: DefaultHistoryWindow,
		idleTimeout:   DefaultIdleTimeout,
		sweepInterval: DefaultSweepInterval,
		done:          make(chan struct{}),
	}
	for _, o := range opts {
		o(m)
	}

	go m.sweep()

	return m
}

// UseSession routes one turn to the session identified by sessionID,
// creating the session on first use. Turns within one session run strictly
// one at a time; turns in different sessions run concurrently.
func (m *Manager) UseSession(ctx context.Context, userID, sessionID, query string) (core.TurnResult, error) {
	s := m.getOrCreate(userID, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.agent.Run(ctx, query)

	m.mu.Lock()
	s.lastActive = m.now()
	m.mu.Unlock()

	return result, err
}

// SessionCount reports how many sessions are currently live.
func (m *Manager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

// Close stops the background sweeper and drops all sessions. It is safe to
// call more than once.
func (m *Manager) Close() {
	m.closed.Do(func() {
		close(m.done)

		m.mu.Lock()
		m.sessions = make(map[string]*session)
		m.mu.Unlock()
	})
}

// getOrCreate returns the live session for sessionID, building agent and
// state on first use. The manager lock covers only the map; it is never
// held across a turn.
func (m *Manager) getOrCreate(userID, sessionID string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[sessionID]; ok {
		s.lastActive = m.now()
		return s
	}

	state := NewState(userID, sessionID, m.store,
		WithStatePatience(m.patience),
		WithStateHistoryWindow(m.historyWindow),
	)
	builder := prompt.NewBuilder(m.tools.Describe(), m.tools.Names(), m.promptOpts...)

	user, err := m.users.UserContext(userID)
	if err != nil {
		m.logger.Warn("user context lookup failed", "user_id", userID, "error", err)
		user = core.UserContext{UserID: userID}
	}

	// The session id doubles as the conversation id for record lookups.
	sessionLogger := m.logger
	if dml, ok := m.logger.(*logging.DialogMeshLogger); ok {
		sessionLogger = dml.WithComponent("agent").WithSession(sessionID, sessionID)
	}

	s := &session{
		agent: New(state, m.client, m.tools, builder,
			WithLogger(sessionLogger),
			WithUserContext(user),
		),
		lastActive: m.now(),
	}
	m.sessions[sessionID] = s

	m.logger.Info("session created", "session_id", sessionID, "user_id", userID)

	return s
}

// sweep periodically evicts sessions idle past the timeout until Close.
func (m *Manager) sweep() {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

// evictIdle removes every session whose last activity is older than the
// idle timeout. A session mid-turn keeps its own lock, so eviction only
// forgets the routing entry; an in-flight turn still completes.
func (m *Manager) evictIdle() {
	cutoff := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if s.lastActive.Before(cutoff) {
			delete(m.sessions, id)
			m.logger.Info("session evicted", "session_id", id, "idle", m.now().Sub(s.lastActive))
		}
	}
}
