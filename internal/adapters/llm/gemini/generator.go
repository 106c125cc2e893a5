package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/bbscapade/internal/domain"
	"github.com/bnema/bbscapade/internal/ports"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	defaultTimeout = 60 * time.Second
)

// ContentGenerator is the part of genai.Models the generator calls.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ ports.Generator = (*Generator)(nil)

type Generator struct {
	models  ContentGenerator
	model   string
	timeout time.Duration
	logger  *zap.Logger

	// thinkingBudget counts against MaxOutputTokens on 2.5 models, so small
	// JSON requests run with thinking off unless configured otherwise.
	thinkingBudget int32
}

type Option func(*Generator)

func WithTimeout(timeout time.Duration) Option {
	return func(g *Generator) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// WithThinkingBudget sets the thinking token budget. 0 disables thinking and
// -1 lets the model decide.
func WithThinkingBudget(budget int) Option {
	return func(g *Generator) {
		if budget >= -1 {
			g.thinkingBudget = int32(budget)
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewClient builds a Gemini API client for apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: gemini api key is empty", domain.ErrConfiguration)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client, nil
}

func NewGenerator(models ContentGenerator, model string, opts ...Option) *Generator {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	g := &Generator{
		models:  models,
		model:   model,
		timeout: defaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Model() string {
	return g.model
}

// Generate makes a single GenerateContent call. Every failure, including an
// empty or blocked response, wraps domain.ErrGenerationFailure.
func (g *Generator) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("%w: request has no messages", domain.ErrGenerationFailure)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, contents(req.Messages), g.config(req))
	if err != nil {
		g.logger.Debug("gemini request failed",
			zap.String("model", g.model),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
	}

	g.logger.Debug("gemini request completed",
		zap.String("model", g.model),
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("chars", len(text)))
	return text, nil
}

func contents(messages []ports.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(messages))
	for _, message := range messages {
		role := genai.Role(genai.RoleUser)
		if message.Role == ports.RoleAssistant {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(message.Content, role))
	}
	return out
}

func (g *Generator) config(req ports.GenerateRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:    genai.Ptr(req.Temperature),
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(g.thinkingBudget)},
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = req.MaxTokens
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	return cfg
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("response has no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		reason := "unknown"
		if candidate != nil && candidate.FinishReason != "" {
			reason = string(candidate.FinishReason)
		}
		return "", fmt.Errorf("candidate has no content (finish reason %s)", reason)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("candidate text is empty")
	}
	return text, nil
}
