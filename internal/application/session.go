package application

import (
	"strings"
	"sync"

	"github.com/bnema/bbscapade/internal/domain"
	"github.com/google/uuid"
)

const profileKey = "profile"

// Session is the mutable state of one connection. Its caches exist from
// construction and live until the process exits.
type Session struct {
	id string

	mu       sync.RWMutex
	state    domain.SessionState
	handle   string
	loggedIn bool

	profiles *Cache[domain.Profile]
	boards   *Cache[domain.BoardMessage]
	files    *Cache[domain.FileEntry]
}

func NewSession() *Session {
	return &Session{
		id:       uuid.NewString(),
		state:    domain.SessionDisconnected,
		profiles: NewCache[domain.Profile](),
		boards:   NewCache[domain.BoardMessage](),
		files:    NewCache[domain.FileEntry](),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *Session) Handle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.handle
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loggedIn
}

// Visited lists the boards and file categories loaded during the session.
func (s *Session) Visited() (boards, categories []string) {
	return s.boards.Keys(), s.files.Keys()
}

func (s *Session) Connect() error {
	return s.transition(domain.SessionConnecting)
}

func (s *Session) AwaitLogin() error {
	return s.transition(domain.SessionAwaitingLogin)
}

// Login records the handle as typed, trimmed. Handles are not validated.
func (s *Session) Login(handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.Transition(domain.SessionLoggedIn)
	if err != nil {
		return err
	}
	s.state = next
	s.handle = strings.TrimSpace(handle)
	s.loggedIn = true
	return nil
}

// Disconnect is the single teardown path for logoff and interrupts. It reports
// whether the session was still connected.
func (s *Session) Disconnect() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.SessionDisconnected {
		return false
	}
	s.state = domain.SessionDisconnected
	s.loggedIn = false
	return true
}

func (s *Session) transition(to domain.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.Transition(to)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}
