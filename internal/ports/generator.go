package ports

import "context"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

type GenerateRequest struct {
	System      string
	Messages    []Message
	MaxTokens   int32
	Temperature float32
}

// Prompt builds a single-turn request.
func Prompt(system, user string, maxTokens int32, temperature float32) GenerateRequest {
	return GenerateRequest{
		System:      system,
		Messages:    []Message{{Role: RoleUser, Content: user}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// Generator performs one call to the remote text-generation service. Failures
// wrap domain.ErrGenerationFailure.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
