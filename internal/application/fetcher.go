package application

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/bnema/bbscapade/internal/domain"
	"github.com/bnema/bbscapade/internal/ports"
	"go.uber.org/zap"
)

type ShapeKind string

const (
	ShapeObject ShapeKind = "object"
	ShapeArray  ShapeKind = "array"
)

// Shape describes the structured block a response must contain. For objects,
// every Required key must be present and ListField, when set, must hold an
// array. For arrays, elements missing a Required key are dropped.
type Shape struct {
	Kind      ShapeKind
	Required  []string
	ListField string
}

type FetchRequest struct {
	System      string
	User        string
	MaxTokens   int32
	Temperature float32
	Shape       Shape
}

type Record = map[string]json.RawMessage

type Payload struct {
	Object   Record
	Records  []Record
	Dropped  int
	Attempts int
}

type RetryEvent struct {
	Attempt    int
	MaxRetries int
	Delay      time.Duration
	Err        error
}

type FetcherConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxJitter  time.Duration
}

func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxJitter:  500 * time.Millisecond,
	}
}

type Fetcher struct {
	generator ports.Generator
	sleeper   ports.Sleeper
	cfg       FetcherConfig
	jitter    func(limit time.Duration) time.Duration
	onRetry   func(RetryEvent)
	logger    *zap.Logger
}

type FetcherOption func(*Fetcher)

func WithSleeper(sleeper ports.Sleeper) FetcherOption {
	return func(f *Fetcher) {
		if sleeper != nil {
			f.sleeper = sleeper
		}
	}
}

func WithJitter(jitter func(limit time.Duration) time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if jitter != nil {
			f.jitter = jitter
		}
	}
}

func WithRetryHook(hook func(RetryEvent)) FetcherOption {
	return func(f *Fetcher) {
		f.onRetry = hook
	}
}

func WithFetcherLogger(logger *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func NewFetcher(generator ports.Generator, cfg FetcherConfig, opts ...FetcherOption) *Fetcher {
	defaults := DefaultFetcherConfig()
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.BaseDelay < 0 {
		cfg.BaseDelay = defaults.BaseDelay
	}
	if cfg.MaxJitter < 0 {
		cfg.MaxJitter = 0
	}

	f := &Fetcher{
		generator: generator,
		sleeper:   ports.SystemSleeper{},
		cfg:       cfg,
		jitter:    uniformJitter,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

func uniformJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	return rand.N(limit)
}

// Backoff is the delay after the given zero-based attempt fails:
// BaseDelay * 2^attempt plus jitter in [0, MaxJitter).
func (f *Fetcher) Backoff(attempt int) time.Duration {
	return f.cfg.BaseDelay*time.Duration(1<<attempt) + f.jitter(f.cfg.MaxJitter)
}

// Fetch runs up to MaxRetries sequential attempts and returns the first payload
// that matches req.Shape. Exhaustion returns an error wrapping
// domain.ErrFetchExhausted; cancellation returns the context error and stops
// retrying immediately.
func (f *Fetcher) Fetch(ctx context.Context, req FetchRequest) (Payload, error) {
	var lastErr error

	for attempt := 0; attempt < f.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return Payload{}, err
		}

		payload, err := f.attempt(ctx, req)
		if err == nil {
			payload.Attempts = attempt + 1
			f.logger.Debug("structured fetch succeeded",
				zap.Int("attempt", attempt+1),
				zap.String("shape", string(req.Shape.Kind)),
				zap.Int("dropped", payload.Dropped))
			return payload, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Payload{}, ctxErr
		}

		lastErr = err
		f.logger.Warn("structured fetch attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", f.cfg.MaxRetries),
			zap.Error(err))

		if attempt == f.cfg.MaxRetries-1 {
			break
		}

		delay := f.Backoff(attempt)
		if f.onRetry != nil {
			f.onRetry(RetryEvent{Attempt: attempt + 1, MaxRetries: f.cfg.MaxRetries, Delay: delay, Err: err})
		}
		if err := f.sleeper.Sleep(ctx, delay); err != nil {
			return Payload{}, err
		}
	}

	return Payload{}, fmt.Errorf("%w after %d attempts: %w", domain.ErrFetchExhausted, f.cfg.MaxRetries, lastErr)
}

func (f *Fetcher) attempt(ctx context.Context, req FetchRequest) (Payload, error) {
	text, err := f.generator.Generate(ctx, ports.Prompt(req.System, req.User, req.MaxTokens, req.Temperature))
	if err != nil {
		return Payload{}, err
	}

	return ParsePayload(text, req.Shape)
}

var (
	objectBlock = regexp.MustCompile(`(?s)\{.*\}`)
	arrayBlock  = regexp.MustCompile(`(?s)\[.*\]`)
)

// ExtractBlock returns the span from the first opening bracket of the given
// kind to the last closing one. It does not balance brackets.
func ExtractBlock(text string, kind ShapeKind) (string, bool) {
	pattern := objectBlock
	if kind == ShapeArray {
		pattern = arrayBlock
	}

	block := pattern.FindString(text)
	return block, block != ""
}

// ParsePayload extracts and validates a structured block from free-form text.
func ParsePayload(text string, shape Shape) (Payload, error) {
	block, ok := ExtractBlock(text, shape.Kind)
	if !ok {
		return Payload{}, fmt.Errorf("%w: no %s block in response", domain.ErrParseFailure, shape.Kind)
	}

	switch shape.Kind {
	case ShapeObject:
		return parseObject(block, shape)
	case ShapeArray:
		return parseArray(block, shape)
	default:
		return Payload{}, fmt.Errorf("%w: unsupported shape %q", domain.ErrParseFailure, shape.Kind)
	}
}

func parseObject(block string, shape Shape) (Payload, error) {
	var object Record
	if err := json.Unmarshal([]byte(block), &object); err != nil {
		return Payload{}, fmt.Errorf("%w: decode object: %w", domain.ErrParseFailure, err)
	}

	if missing := missingKeys(object, shape.Required); len(missing) > 0 {
		return Payload{}, fmt.Errorf("%w: missing fields %s", domain.ErrParseFailure, strings.Join(missing, ", "))
	}

	if shape.ListField != "" {
		var list []json.RawMessage
		if err := json.Unmarshal(object[shape.ListField], &list); err != nil || list == nil {
			return Payload{}, fmt.Errorf("%w: %s is not a list", domain.ErrParseFailure, shape.ListField)
		}
	}

	return Payload{Object: object}, nil
}

func parseArray(block string, shape Shape) (Payload, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(block), &elements); err != nil {
		return Payload{}, fmt.Errorf("%w: decode array: %w", domain.ErrParseFailure, err)
	}

	payload := Payload{Records: make([]Record, 0, len(elements))}
	for _, element := range elements {
		var record Record
		if err := json.Unmarshal(element, &record); err != nil || record == nil {
			payload.Dropped++
			continue
		}
		if len(missingKeys(record, shape.Required)) > 0 {
			payload.Dropped++
			continue
		}
		payload.Records = append(payload.Records, record)
	}

	if len(payload.Records) == 0 {
		return Payload{}, fmt.Errorf("%w: no valid records (%d dropped)", domain.ErrParseFailure, payload.Dropped)
	}

	return payload, nil
}

func missingKeys(record Record, required []string) []string {
	var missing []string
	for _, key := range required {
		if _, ok := record[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// StringField reads key as text. Numbers and booleans are kept verbatim so
// `"nodes": 4` and `"nodes": "4"` both yield "4".
func StringField(record Record, key string) string {
	raw, ok := record[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" || strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return ""
	}
	return trimmed
}

func StringListField(record Record, key string) []string {
	var raw []json.RawMessage
	if err := json.Unmarshal(record[key], &raw); err != nil {
		return nil
	}

	values := make([]string, 0, len(raw))
	for i := range raw {
		if value := StringField(Record{key: raw[i]}, key); value != "" {
			values = append(values, value)
		}
	}
	return values
}
