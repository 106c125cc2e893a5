package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/bbscapade/internal/domain"
	"github.com/bnema/bbscapade/internal/ports"
	"github.com/bnema/bbscapade/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const fixedJitter = 100 * time.Millisecond

func fixedJitterFn(time.Duration) time.Duration { return fixedJitter }

func boardRequest() FetchRequest {
	return FetchRequest{
		System:      "system",
		User:        "give me posts",
		MaxTokens:   800,
		Temperature: 1.0,
		Shape:       messageShape,
	}
}

func TestFetcherReturnsFirstValidPayload(t *testing.T) {
	generator := mocks.NewMockGenerator(t)
	sleeper := mocks.NewMockSleeper(t)
	fetcher := NewFetcher(generator, DefaultFetcherConfig(), WithSleeper(sleeper))

	generator.EXPECT().Generate(mockAnyContext(), mock.MatchedBy(func(req ports.GenerateRequest) bool {
		return req.System == "system" &&
			req.MaxTokens == 800 &&
			len(req.Messages) == 1 &&
			req.Messages[0].Role == ports.RoleUser &&
			req.Messages[0].Content == "give me posts"
	})).Return("Sure thing! Here you go:\n[{\"subject\": \"Hi\", \"content\": \"Hello\"}]\nEnjoy.", nil).Once()

	payload, err := fetcher.Fetch(context.Background(), boardRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, payload.Attempts)
	require.Len(t, payload.Records, 1)
	assert.Equal(t, "Hi", StringField(payload.Records[0], "subject"))
}

func TestFetcherRetriesUpToBoundWithBackoff(t *testing.T) {
	generator := mocks.NewMockGenerator(t)
	sleeper := mocks.NewMockSleeper(t)

	var events []RetryEvent
	fetcher := NewFetcher(generator, DefaultFetcherConfig(),
		WithSleeper(sleeper),
		WithJitter(fixedJitterFn),
		WithRetryHook(func(e RetryEvent) { events = append(events, e) }),
	)

	cause := errors.New("rate limited")
	generator.EXPECT().Generate(mockAnyContext(), mock.Anything).
		Return("", errors.Join(domain.ErrGenerationFailure, cause)).Times(3)
	sleeper.EXPECT().Sleep(mockAnyContext(), time.Second+fixedJitter).Return(nil).Once()
	sleeper.EXPECT().Sleep(mockAnyContext(), 2*time.Second+fixedJitter).Return(nil).Once()

	_, err := fetcher.Fetch(context.Background(), boardRequest())
	require.ErrorIs(t, err, domain.ErrFetchExhausted)
	assert.ErrorIs(t, err, cause)

	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Attempt)
	assert.Equal(t, 2, events[1].Attempt)
	assert.Equal(t, 3, events[1].MaxRetries)
}

func TestFetcherRetriesParseFailures(t *testing.T) {
	generator := mocks.NewMockGenerator(t)
	sleeper := mocks.NewMockSleeper(t)
	fetcher := NewFetcher(generator, DefaultFetcherConfig(), WithSleeper(sleeper), WithJitter(fixedJitterFn))

	generator.EXPECT().Generate(mockAnyContext(), mock.Anything).Return("I'm sorry, I can't do JSON today.", nil).Once()
	generator.EXPECT().Generate(mockAnyContext(), mock.Anything).Return(`[{"subject": "S", "content": "C"}]`, nil).Once()
	sleeper.EXPECT().Sleep(mockAnyContext(), time.Second+fixedJitter).Return(nil).Once()

	payload, err := fetcher.Fetch(context.Background(), boardRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, payload.Attempts)
}

func TestFetcherStopsWhenCancelledDuringBackoff(t *testing.T) {
	generator := mocks.NewMockGenerator(t)
	sleeper := mocks.NewMockSleeper(t)
	fetcher := NewFetcher(generator, DefaultFetcherConfig(), WithSleeper(sleeper))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	generator.EXPECT().Generate(mockAnyContext(), mock.Anything).Return("", domain.ErrGenerationFailure).Once()
	sleeper.EXPECT().Sleep(mockAnyContext(), mock.Anything).RunAndReturn(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}).Once()

	_, err := fetcher.Fetch(ctx, boardRequest())
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrFetchExhausted)
}

func TestFetcherDoesNotCallGeneratorWithCancelledContext(t *testing.T) {
	generator := mocks.NewMockGenerator(t)
	fetcher := NewFetcher(generator, DefaultFetcherConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.Fetch(ctx, boardRequest())
	require.ErrorIs(t, err, context.Canceled)
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestFetcherBackoffDoublesPerAttempt(t *testing.T) {
	t.Parallel()

	fetcher := NewFetcher(nil, FetcherConfig{MaxRetries: 3, BaseDelay: time.Second, MaxJitter: 500 * time.Millisecond})
	for attempt, base := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second} {
		for range 20 {
			delay := fetcher.Backoff(attempt)
			assert.GreaterOrEqual(t, delay, base)
			assert.Less(t, delay, base+500*time.Millisecond)
		}
	}
}

func TestParsePayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		text        string
		shape       Shape
		wantErr     bool
		wantRecords int
		wantDropped int
	}{
		{
			name:  "object surrounded by prose",
			text:  "Here's your BBS!\n{\"name\": \"X\", \"tagline\": \"t\", \"sysop\": \"s\", \"established\": 1989, \"nodes\": 2, \"board_names\": [\"a\"]}\nHave fun.",
			shape: profileShape,
		},
		{
			name:    "object missing a field",
			text:    `{"name": "X", "tagline": "t"}`,
			shape:   profileShape,
			wantErr: true,
		},
		{
			name:    "list field is not a list",
			text:    `{"name": "X", "tagline": "t", "sysop": "s", "established": "1989", "nodes": "2", "board_names": "a, b"}`,
			shape:   profileShape,
			wantErr: true,
		},
		{
			name:    "no block at all",
			text:    "Sorry, I cannot help with that.",
			shape:   profileShape,
			wantErr: true,
		},
		{
			name:    "greedy span covering two objects",
			text:    `{"a": 1} and {"b": 2}`,
			shape:   Shape{Kind: ShapeObject},
			wantErr: true,
		},
		{
			name:        "array with invalid elements dropped",
			text:        `[{"subject": "a", "content": "b"}, {"subject": "only"}, 7, {"subject": "c", "content": "d"}]`,
			shape:       messageShape,
			wantRecords: 2,
			wantDropped: 2,
		},
		{
			name:    "array without valid elements",
			text:    `[{"title": "a"}, {"body": "b"}]`,
			shape:   messageShape,
			wantErr: true,
		},
		{
			name:    "malformed array",
			text:    `[{"subject": "a", "content": "b"},]`,
			shape:   messageShape,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			payload, err := ParsePayload(tc.text, tc.shape)
			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrParseFailure)
				return
			}
			require.NoError(t, err)
			assert.Len(t, payload.Records, tc.wantRecords)
			assert.Equal(t, tc.wantDropped, payload.Dropped)
		})
	}
}

func TestStringFieldAcceptsNumbers(t *testing.T) {
	t.Parallel()

	payload, err := ParsePayload(`{"nodes": 4, "established": "1991", "sysop": "  Zork  ", "extra": null}`, Shape{Kind: ShapeObject})
	require.NoError(t, err)

	assert.Equal(t, "4", StringField(payload.Object, "nodes"))
	assert.Equal(t, "1991", StringField(payload.Object, "established"))
	assert.Equal(t, "Zork", StringField(payload.Object, "sysop"))
	assert.Empty(t, StringField(payload.Object, "extra"))
	assert.Empty(t, StringField(payload.Object, "missing"))
}

func TestStringListFieldSkipsBlankEntries(t *testing.T) {
	t.Parallel()

	payload, err := ParsePayload(`{"board_names": ["Crumb Talk", "", "  Heating Elements "]}`, Shape{Kind: ShapeObject, ListField: "board_names"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Crumb Talk", "Heating Elements"}, StringListField(payload.Object, "board_names"))
}
