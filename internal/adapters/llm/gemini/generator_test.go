package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/bbscapade/internal/domain"
	"github.com/bnema/bbscapade/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: parts},
		}},
	}
}

func TestGeneratorMapsRequest(t *testing.T) {
	t.Parallel()

	models := &fakeModels{resp: textResponse(&genai.Part{Text: "  Hello from 1989  "})}
	generator := NewGenerator(models, "")

	text, err := generator.Generate(context.Background(), ports.GenerateRequest{
		System: "You are a sysop.",
		Messages: []ports.Message{
			{Role: ports.RoleAssistant, Content: "Welcome!"},
			{Role: ports.RoleUser, Content: "Hi"},
		},
		MaxTokens:   300,
		Temperature: 0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello from 1989", text)

	assert.Equal(t, DefaultModel, models.model)
	require.Len(t, models.contents, 2)
	assert.Equal(t, string(genai.RoleModel), string(models.contents[0].Role))
	assert.Equal(t, string(genai.RoleUser), string(models.contents[1].Role))
	assert.Equal(t, "Hi", models.contents[1].Parts[0].Text)

	require.NotNil(t, models.config)
	assert.Equal(t, int32(300), models.config.MaxOutputTokens)
	require.NotNil(t, models.config.Temperature)
	assert.InDelta(t, 0.9, *models.config.Temperature, 0.0001)
	require.NotNil(t, models.config.SystemInstruction)
	assert.Equal(t, "You are a sysop.", models.config.SystemInstruction.Parts[0].Text)
	require.NotNil(t, models.config.ThinkingConfig)
	require.NotNil(t, models.config.ThinkingConfig.ThinkingBudget)
	assert.Equal(t, int32(0), *models.config.ThinkingConfig.ThinkingBudget)
}

func TestGeneratorThinkingBudget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		budget int
		want   int32
	}{
		{name: "fixed budget", budget: 256, want: 256},
		{name: "dynamic", budget: -1, want: -1},
		{name: "out of range keeps default", budget: -7, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			models := &fakeModels{resp: textResponse(&genai.Part{Text: "ok"})}
			generator := NewGenerator(models, "", WithThinkingBudget(tc.budget))

			_, err := generator.Generate(context.Background(), ports.GenerateRequest{
				Messages:  []ports.Message{{Role: ports.RoleUser, Content: "Hi"}},
				MaxTokens: 300,
			})
			require.NoError(t, err)
			require.NotNil(t, models.config.ThinkingConfig)
			assert.Equal(t, tc.want, *models.config.ThinkingConfig.ThinkingBudget)
		})
	}
}

func TestGeneratorSkipsThoughtParts(t *testing.T) {
	t.Parallel()

	models := &fakeModels{resp: textResponse(
		&genai.Part{Text: "thinking about bagels", Thought: true},
		&genai.Part{Text: `[{"subject": "a",`},
		&genai.Part{Text: ` "content": "b"}]`},
	)}
	generator := NewGenerator(models, "gemini-test")

	text, err := generator.Generate(context.Background(), ports.Prompt("", "go", 800, 1))
	require.NoError(t, err)
	assert.Equal(t, `[{"subject": "a", "content": "b"}]`, text)
	assert.Equal(t, "gemini-test", models.model)
	assert.Nil(t, models.config.SystemInstruction)
}

func TestGeneratorWrapsFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		models *fakeModels
	}{
		{name: "transport error", models: &fakeModels{err: errors.New("429 resource exhausted")}},
		{name: "nil response", models: &fakeModels{}},
		{name: "no candidates", models: &fakeModels{resp: &genai.GenerateContentResponse{}}},
		{name: "blocked candidate", models: &fakeModels{resp: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		}}},
		{name: "blank text", models: &fakeModels{resp: textResponse(&genai.Part{Text: "   "})}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewGenerator(tc.models, "m").Generate(context.Background(), ports.Prompt("s", "u", 10, 1))
			require.ErrorIs(t, err, domain.ErrGenerationFailure)
		})
	}
}

func TestGeneratorRejectsEmptyRequest(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator(&fakeModels{}, "m").Generate(context.Background(), ports.GenerateRequest{})
	require.ErrorIs(t, err, domain.ErrGenerationFailure)
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(context.Background(), "  ")
	require.ErrorIs(t, err, domain.ErrConfiguration)
}
