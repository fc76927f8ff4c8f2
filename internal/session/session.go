// Package session maps conversation session IDs to orchestrator instances.
// Each session owns an independent conversation context and orchestrator;
// nothing conversational is shared across sessions.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crimesight/crime-risk-service/internal/extract"
	"github.com/crimesight/crime-risk-service/internal/forecast"
	"github.com/crimesight/crime-risk-service/internal/observability"
	"github.com/crimesight/crime-risk-service/internal/rag"
)

// Session is one conversation: an orchestrator plus a mutex serializing its
// turns, since the conversation context is mutable single-owner state.
type Session struct {
	ID           string
	Orchestrator *rag.Orchestrator

	mu       sync.Mutex
	lastSeen time.Time
}

// Lock serializes turns within the session. Callers must Unlock when the turn
// completes.
func (s *Session) Lock() {
	s.mu.Lock()
	s.lastSeen = time.Now()
}

// Unlock releases the turn lock.
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// Manager creates and looks up sessions. The forecast engine is shared by all
// sessions; each session gets its own extraction pipeline context through its
// orchestrator.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	newPipeline func() *extract.Pipeline
	engine      *forecast.Engine
	logger      *zap.Logger
}

// NewManager creates a Manager. newPipeline is invoked once per session so
// tests can inject deterministic clocks; pass nil to use the default pipeline.
func NewManager(newPipeline func() *extract.Pipeline, engine *forecast.Engine, logger *zap.Logger) *Manager {
	if newPipeline == nil {
		newPipeline = extract.NewPipeline
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		newPipeline: newPipeline,
		engine:      engine,
		logger:      logger,
	}
}

// Get returns the session for id, creating it if absent. An empty id
// allocates a fresh session with a generated ID.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return s
		}
	} else {
		id = uuid.New().String()
	}

	s := &Session{
		ID:           id,
		Orchestrator: rag.NewOrchestrator(m.newPipeline(), m.engine, m.logger.With(zap.String("session_id", id))),
		lastSeen:     time.Now(),
	}
	m.sessions[id] = s
	observability.SessionsActive.Set(float64(len(m.sessions)))
	m.logger.Debug("session created", zap.String("session_id", id))
	return s
}

// Lookup returns the session for id without creating one.
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
