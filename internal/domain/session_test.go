package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStateTransitions(t *testing.T) {
	t.Parallel()

	state := SessionDisconnected
	var err error
	for _, next := range []SessionState{SessionConnecting, SessionAwaitingLogin, SessionLoggedIn, SessionDisconnected} {
		state, err = state.Transition(next)
		require.NoError(t, err)
	}
	assert.Equal(t, SessionDisconnected, state)
}

func TestSessionStateRejectsSkippingLogin(t *testing.T) {
	t.Parallel()

	state, err := SessionConnecting.Transition(SessionLoggedIn)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, SessionConnecting, state)
}

func TestIsChatExit(t *testing.T) {
	t.Parallel()

	for _, word := range []string{"bye", " Goodbye ", "EXIT", "quit"} {
		assert.True(t, IsChatExit(word), word)
	}
	assert.False(t, IsChatExit("bye now"))
}

func TestNewSysopPersonaBuildsPrompt(t *testing.T) {
	t.Parallel()

	persona := NewSysopPersona(validProfile(), [2]string{"obsessed with aliens", "collects vintage floppy disks"}, "using way too many exclamation points!!!")

	assert.Equal(t, "BreadLord", persona.Name)
	assert.Contains(t, persona.Prompt, "You are roleplaying as BreadLord")
	assert.Contains(t, persona.Prompt, "Crumb Talk, Heating Elements, Bagel Conspiracies")
	assert.Contains(t, persona.Prompt, "- obsessed with aliens")
	assert.Contains(t, persona.Prompt, "Your speech style: using way too many exclamation points!!!")
}
