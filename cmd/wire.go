package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/bnema/bbscapade/internal/adapters/config"
	"github.com/bnema/bbscapade/internal/adapters/llm/gemini"
	"github.com/bnema/bbscapade/internal/adapters/render/screen"
	"github.com/bnema/bbscapade/internal/application"
	"github.com/bnema/bbscapade/internal/fallback"
	"github.com/bnema/bbscapade/internal/ports"
	"go.uber.org/zap"
)

const defaultMaxJitter = 500 * time.Millisecond

type generatorFactory func(ctx context.Context, cfg config.Config, logger *zap.Logger) (ports.Generator, error)

// deps are the collaborators swapped out by command tests.
type deps struct {
	newGenerator generatorFactory
	sleeper      ports.Sleeper
}

func defaultDeps() deps {
	return deps{
		newGenerator: newGeminiGenerator,
		sleeper:      ports.SystemSleeper{},
	}
}

func newGeminiGenerator(ctx context.Context, cfg config.Config, logger *zap.Logger) (ports.Generator, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	client, err := gemini.NewClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, err
	}

	return gemini.NewGenerator(client.Models, cfg.Model,
		gemini.WithThinkingBudget(cfg.ThinkingBudget),
		gemini.WithLogger(logger),
	), nil
}

type app struct {
	cfg     config.Config
	logger  *zap.Logger
	session *application.Session
	library *fallback.Library
	content *application.ContentService
	sysop   *application.SysopService
	view    *screen.Renderer
	status  *statusLine
}

func wireApp(ctx context.Context, c *cli, statusOut io.Writer) (*app, error) {
	generator, err := c.deps.newGenerator(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, fmt.Errorf("wire generator: %w", err)
	}

	seed := c.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	library, err := fallback.New(seed)
	if err != nil {
		return nil, fmt.Errorf("wire fallback library: %w", err)
	}

	session := application.NewSession()
	logger := c.logger.With(zap.String("session", session.ID()))
	view := screen.New(library.IntN)
	status := newStatusLine(statusOut)

	fetcher := application.NewFetcher(generator,
		application.FetcherConfig{
			MaxRetries: c.cfg.Fetch.MaxRetries,
			BaseDelay:  c.cfg.Fetch.BaseDelay,
			MaxJitter:  defaultMaxJitter,
		},
		application.WithSleeper(c.deps.sleeper),
		application.WithFetcherLogger(logger),
		application.WithRetryHook(func(event application.RetryEvent) {
			status.show(view.Retrying(event))
		}),
	)

	logger.Info("session wired", zap.Uint64("seed", seed), zap.String("model", c.cfg.Model))

	return &app{
		cfg:     c.cfg,
		logger:  logger,
		session: session,
		library: library,
		content: application.NewContentService(session, fetcher, library, logger),
		sysop:   application.NewSysopService(generator, library, logger),
		view:    view,
		status:  status,
	}, nil
}

// statusLine delivers transient notices such as retry announcements. While a
// loading spinner owns the terminal, notices are routed into it instead.
type statusLine struct {
	mu   sync.Mutex
	out  io.Writer
	send func(string)
}

func newStatusLine(out io.Writer) *statusLine {
	if out == nil {
		out = os.Stderr
	}
	return &statusLine{out: out}
}

func (s *statusLine) show(text string) {
	if text == "" {
		return
	}

	s.mu.Lock()
	send := s.send
	s.mu.Unlock()

	if send != nil {
		send(text)
		return
	}
	_, _ = fmt.Fprintln(s.out, text)
}

// route redirects notices to send until the returned func is called.
func (s *statusLine) route(send func(string)) func() {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.send = nil
		s.mu.Unlock()
	}
}
