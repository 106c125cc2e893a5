package domain

import "fmt"

type SessionState string

const (
	SessionDisconnected  SessionState = "disconnected"
	SessionConnecting    SessionState = "connecting"
	SessionAwaitingLogin SessionState = "awaiting_login"
	SessionLoggedIn      SessionState = "logged_in"
)

var sessionTransitions = map[SessionState][]SessionState{
	SessionDisconnected:  {SessionConnecting},
	SessionConnecting:    {SessionAwaitingLogin, SessionDisconnected},
	SessionAwaitingLogin: {SessionLoggedIn, SessionDisconnected},
	SessionLoggedIn:      {SessionDisconnected},
}

func (s SessionState) CanTransition(to SessionState) bool {
	for _, next := range sessionTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s SessionState) Transition(to SessionState) (SessionState, error) {
	if !s.CanTransition(to) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, to)
	}
	return to, nil
}
