package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/bbscapade/internal/domain"
	"github.com/bnema/bbscapade/internal/ports"
	"go.uber.org/zap"
)

const (
	sysopMaxTokens   = 300
	sysopTemperature = 0.9
	chatHistoryLimit = 10

	greetingPrompt = "You are chatting with %s who just connected to your BBS. Give them a weird, quirky greeting that shows your strange personality. Keep it to 2-3 sentences."
	farewellPrompt = "The user %s is leaving the chat. Give a strange farewell message that's true to your weird character. Keep it brief."
)

// SysopService runs chats with the simulated system operator.
type SysopService struct {
	generator ports.Generator
	fallback  FallbackSource
	logger    *zap.Logger
}

func NewSysopService(generator ports.Generator, fallback FallbackSource, logger *zap.Logger) *SysopService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SysopService{
		generator: generator,
		fallback:  fallback,
		logger:    logger,
	}
}

// NewPersona rolls a fresh personality for the sysop of profile.
func (s *SysopService) NewPersona(profile domain.Profile) domain.SysopPersona {
	return domain.NewSysopPersona(profile, s.fallback.SysopTraits(), s.fallback.SpeechStyle())
}

// Open starts a chat between handle and the persona. The returned chat is not
// persisted anywhere.
func (s *SysopService) Open(persona domain.SysopPersona, handle string) *Chat {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		handle = "Guest"
	}

	return &Chat{
		service: s,
		persona: persona,
		handle:  handle,
	}
}

// Chat is one conversation. Only completed exchanges are kept in the history.
type Chat struct {
	service *SysopService
	persona domain.SysopPersona
	handle  string

	mu      sync.Mutex
	history []domain.ChatTurn
}

func (c *Chat) Persona() domain.SysopPersona {
	return c.persona
}

// Handle is the name the sysop addresses, "Guest" when none was given.
func (c *Chat) Handle() string {
	return c.handle
}

func (c *Chat) History() []domain.ChatTurn {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]domain.ChatTurn(nil), c.history...)
}

// Greet asks the sysop to open the conversation.
func (c *Chat) Greet(ctx context.Context) (string, error) {
	reply, err := c.respond(ctx, nil, fmt.Sprintf(greetingPrompt, c.handle))
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.history = append(c.history, domain.ChatTurn{Role: domain.ChatRoleSysop, Content: reply})
	c.mu.Unlock()
	return reply, nil
}

// Reply returns the sysop's answer to message. The message and the answer
// are added to the history together once the answer arrives.
func (c *Chat) Reply(ctx context.Context, message string) (string, error) {
	turn := domain.ChatTurn{Role: domain.ChatRoleUser, Content: strings.TrimSpace(message)}

	reply, err := c.respond(ctx, &turn, "")
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.history = append(c.history, turn, domain.ChatTurn{Role: domain.ChatRoleSysop, Content: reply})
	c.mu.Unlock()
	return reply, nil
}

// Farewell asks the sysop to close the conversation. It is not added to the
// history.
func (c *Chat) Farewell(ctx context.Context) (string, error) {
	return c.respond(ctx, nil, fmt.Sprintf(farewellPrompt, c.handle))
}

// respond makes one generation call over the last turns of history, an
// optional pending user turn and an optional instruction. Generation failures yield a canned reply; only
// cancellation is returned as an error.
func (c *Chat) respond(ctx context.Context, pending *domain.ChatTurn, instruction string) (string, error) {
	req := ports.GenerateRequest{
		System:      c.persona.Prompt,
		Messages:    c.messages(pending, instruction),
		MaxTokens:   sysopMaxTokens,
		Temperature: sysopTemperature,
	}

	reply, err := c.service.generator.Generate(ctx, req)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	reply = strings.TrimSpace(reply)
	if err == nil && reply != "" {
		return reply, nil
	}

	if err == nil {
		err = fmt.Errorf("%w: empty sysop reply", domain.ErrGenerationFailure)
	}
	c.service.logger.Warn("sysop reply fell back to canned text",
		zap.String("sysop", c.persona.Name),
		zap.Error(err))
	return c.service.fallback.SysopReply(), nil
}

func (c *Chat) messages(pending *domain.ChatTurn, instruction string) []ports.Message {
	c.mu.Lock()
	turns := append([]domain.ChatTurn(nil), c.history...)
	c.mu.Unlock()

	if pending != nil {
		turns = append(turns, *pending)
	}
	if len(turns) > chatHistoryLimit {
		turns = turns[len(turns)-chatHistoryLimit:]
	}

	messages := make([]ports.Message, 0, len(turns)+1)
	for _, turn := range turns {
		role := ports.RoleUser
		if turn.Role == domain.ChatRoleSysop {
			role = ports.RoleAssistant
		}
		messages = append(messages, ports.Message{Role: role, Content: turn.Content})
	}
	if instruction != "" {
		messages = append(messages, ports.Message{Role: ports.RoleUser, Content: instruction})
	}
	return messages
}
