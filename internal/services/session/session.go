// Package session keeps one simulated portfolio per anonymous browser session
package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/findosh/fundsim/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionNotFound = errors.New("session not found")
)

// Session owns one portfolio. Access it through Do.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time

	mu        sync.Mutex
	portfolio *models.Portfolio
}

// Do runs fn with exclusive access to the session's portfolio
func (s *Session) Do(fn func(p *models.Portfolio)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.portfolio)
}

// Expired reports whether the session has expired at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Options configures a Manager
type Options struct {
	SecretKey         string
	Duration          time.Duration
	SweepInterval     time.Duration
	DefaultInvestment float64
}

// Manager creates, resolves and expires sessions
type Manager struct {
	opts Options
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	cron *cron.Cron
}

// NewManager creates a session manager
func NewManager(opts Options) (*Manager, error) {
	if opts.SecretKey == "" {
		return nil, errors.New("session secret key is required")
	}
	if opts.Duration <= 0 {
		return nil, fmt.Errorf("invalid session duration %s", opts.Duration)
	}
	return &Manager{
		opts:     opts,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}, nil
}

// Create starts a session with an empty portfolio and returns its token
func (m *Manager) Create() (*Session, string, error) {
	now := m.now().UTC()
	s := &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.opts.Duration),
		portfolio: models.NewPortfolio(m.opts.DefaultInvestment),
	}

	token, err := m.createToken(s)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create token: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Debug().Str("session_id", s.ID.String()).Msg("Session created")
	return s, token, nil
}

// Resolve validates a token and returns its live session
func (m *Manager) Resolve(tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.opts.SecretKey), nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.Expired(m.now()) {
		return nil, ErrSessionExpired
	}
	return s, nil
}

// Delete ends a session
func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of sessions held, expired or not
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops expired sessions and returns how many were removed
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Start schedules the periodic sweep
func (m *Manager) Start() error {
	if m.opts.SweepInterval <= 0 {
		return nil
	}

	m.cron = cron.New()
	_, err := m.cron.AddFunc(fmt.Sprintf("@every %s", m.opts.SweepInterval), func() {
		if n := m.Sweep(); n > 0 {
			log.Info().Int("removed", n).Int("active", m.Len()).Msg("Expired sessions swept")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	m.cron.Start()
	log.Info().Dur("interval", m.opts.SweepInterval).Msg("Session sweeper started")
	return nil
}

// Stop halts the sweeper and waits for a running sweep to finish
func (m *Manager) Stop() {
	if m.cron == nil {
		return
	}
	<-m.cron.Stop().Done()
}

// Duration returns the session lifetime
func (m *Manager) Duration() time.Duration {
	return m.opts.Duration
}

func (m *Manager) createToken(s *Session) (string, error) {
	claims := jwt.MapClaims{
		"sub": s.ID.String(),
		"exp": s.ExpiresAt.Unix(),
		"iat": s.CreatedAt.Unix(),
		"jti": generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.opts.SecretKey))
}

func generateJTI() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
