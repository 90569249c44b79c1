package session

import (
	"errors"
	"sync"
	"time"

	"guildbot/infrastructure/metrics"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrSessionExists is returned when the key already has an open session
	ErrSessionExists = errors.New("a game is already in progress")
	// ErrSessionNotFound is returned when the session finished or timed out
	ErrSessionNotFound = errors.New("this game is no longer active")
)

// TimeoutFunc settles a session that expired without input
type TimeoutFunc[T any] func(key string, value T)

// Manager tracks interactive game sessions. Every session ends exactly once: either an
// action reports it finished, or it expires and the timeout callback runs.
type Manager[T any] struct {
	game      string
	timeout   time.Duration
	onTimeout TimeoutFunc[T]

	mu       sync.Mutex
	sessions map[string]*entry[T]
}

type entry[T any] struct {
	mu     sync.Mutex
	value  T
	timer  *time.Timer
	gen    int
	closed bool
}

// NewManager creates a manager whose sessions expire after timeout of inactivity
func NewManager[T any](game string, timeout time.Duration, onTimeout TimeoutFunc[T]) *Manager[T] {
	return &Manager[T]{
		game:      game,
		timeout:   timeout,
		onTimeout: onTimeout,
		sessions:  make(map[string]*entry[T]),
	}
}

// Open registers a new session under key
func (m *Manager[T]) Open(key string, value T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[key]; ok {
		return ErrSessionExists
	}

	e := &entry[T]{value: value}
	e.mu.Lock()
	m.arm(key, e)
	e.mu.Unlock()
	m.sessions[key] = e

	metrics.ActiveGameSessions.WithLabelValues(m.game).Inc()
	return nil
}

// Has reports whether key has an open session
func (m *Manager[T]) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[key]
	return ok
}

// Len returns the number of open sessions
func (m *Manager[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Act runs fn against the session under its lock. When fn reports finished the session
// is closed and its timer stopped; otherwise the inactivity timer restarts. An error
// from fn leaves the session open.
func (m *Manager[T]) Act(key string, fn func(value T) (finished bool, err error)) (T, bool, error) {
	var zero T

	m.mu.Lock()
	e, ok := m.sessions[key]
	m.mu.Unlock()
	if !ok {
		return zero, false, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return zero, false, ErrSessionNotFound
	}

	finished, err := fn(e.value)
	if err != nil {
		return e.value, false, err
	}

	if finished {
		e.closed = true
		e.timer.Stop()
		m.remove(key, e)
		return e.value, true, nil
	}

	e.timer.Stop()
	m.arm(key, e)
	return e.value, false, nil
}

// Close ends every open session without running timeouts
func (m *Manager[T]) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*entry[T])
	m.mu.Unlock()

	for _, e := range sessions {
		e.mu.Lock()
		if !e.closed {
			e.closed = true
			e.timer.Stop()
			metrics.ActiveGameSessions.WithLabelValues(m.game).Dec()
		}
		e.mu.Unlock()
	}
}

// arm starts a new inactivity timer. Callers hold e.mu.
func (m *Manager[T]) arm(key string, e *entry[T]) {
	e.gen++
	gen := e.gen
	e.timer = time.AfterFunc(m.timeout, func() {
		m.expire(key, e, gen)
	})
}

func (m *Manager[T]) expire(key string, e *entry[T], gen int) {
	e.mu.Lock()
	if e.closed || e.gen != gen {
		e.mu.Unlock()
		return
	}
	e.closed = true
	value := e.value
	e.mu.Unlock()

	m.remove(key, e)

	log.WithFields(log.Fields{
		"game": m.game,
		"key":  key,
	}).Info("Game session timed out")

	if m.onTimeout != nil {
		m.onTimeout(key, value)
	}
}

func (m *Manager[T]) remove(key string, e *entry[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[key] == e {
		delete(m.sessions, key)
		metrics.ActiveGameSessions.WithLabelValues(m.game).Dec()
	}
}
