package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/bbscapade/internal/domain"
	"go.uber.org/zap"
)

const (
	profileSystemPrompt = "You are generating content for a nostalgic BBS simulation. Create weird, absurd, and hilarious BBS details. Be creative, funny, and strange but keep it appropriate."
	profileUserPrompt   = "Generate a JSON-like structure for a fictional BBS with the following fields: name (short name, max 20 chars), tagline (funny/weird slogan), sysop (bizarre username), established (year between 1985-1995), nodes (number between 1-8), and a list of 3-5 bizarre board_names. Make it weird, absurd, and hilarious but appropriate. Return ONLY valid JSON."

	boardSystemPrompt = "You are a creative writer generating content for a nostalgic BBS simulation set in the late 1980s/early 1990s. Create weird, zany, and funny messages that might appear on a message board. The style should be reminiscent of old adventure games like Maniac Mansion, Space Quest, or Zork - full of strange scenarios, paranormal phenomena, and quirky humor. Keep each message between 3-6 sentences."
	boardUserPrompt   = `Generate %d bizarre, funny messages for a BBS board called '%s'. Each message should include a subject line and content. The messages should be weird, zany, and in the style of old 80s adventure games like Maniac Mansion. Return the results as JSON with this format: [{"subject": "...", "content": "..."}, ...]. Make the content appropriately weird for this specific board topic.`

	filesSystemPrompt = "You are generating content for a nostalgic BBS file section from the late 1980s/early 1990s. Create weird, amusing, and period-appropriate file listings for downloading. Files should match the category theme and include typical file types from that era (.zip, .arj, .exe, .txt, .gif, .bmp, .com, etc.). Be creative and quirky but appropriate."
	filesUserPrompt   = `Generate %d file listings for a BBS file section called '%s'. Each file should have a name (8.3 format preferred but not required) and a brief description. Make them weird, quirky, and appropriate for the late 80s/early 90s BBS era. The files should relate to the '%s' theme. Return the results as JSON in this format: [{"name": "FILENAME.EXT", "description": "...", "size": "XXX KB or X.XX MB"}, ...]. Size should be 25KB-3MB range, mostly smaller files.`

	minBoardMessages = 3
	maxBoardMessages = 7
	minCategoryFiles = 10
	maxCategoryFiles = 20

	localTaglinePercent = 40
)

var (
	profileShape = Shape{
		Kind:      ShapeObject,
		Required:  []string{"name", "tagline", "sysop", "established", "nodes", "board_names"},
		ListField: "board_names",
	}
	messageShape = Shape{Kind: ShapeArray, Required: []string{"subject", "content"}}
	fileShape    = Shape{Kind: ShapeArray, Required: []string{"name", "description", "size"}}
)

// FallbackSource supplies canned content and the random rolls that go with it.
type FallbackSource interface {
	Profile() domain.Profile
	Messages(board string, n int) []domain.BoardMessage
	Files(category string, n int) []domain.FileEntry
	Authors(n int) []string
	Dates(n int) []string
	Downloads(n int) []int
	Tagline() string
	SysopReply() string
	SysopTraits() [2]string
	SpeechStyle() string
	DoorGame() domain.DoorGame
	DoorError() string
	DownloadQuip() string
	Art() string
	IntN(n int) int
}

type ContentService struct {
	session  *Session
	fetcher  *Fetcher
	fallback FallbackSource
	logger   *zap.Logger
}

func NewContentService(session *Session, fetcher *Fetcher, fallback FallbackSource, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ContentService{
		session:  session,
		fetcher:  fetcher,
		fallback: fallback,
		logger:   logger,
	}
}

// Profile returns the session's BBS identity, generating it on first use.
func (s *ContentService) Profile(ctx context.Context) (domain.Profile, Outcome, error) {
	profiles, outcome, err := s.session.profiles.GetOrGenerate(ctx, profileKey, 1,
		s.generateProfile,
		func(int) []domain.Profile { return []domain.Profile{s.fallback.Profile()} },
	)
	if err != nil {
		return domain.Profile{}, Outcome{}, err
	}
	s.logOutcome("profile", profileKey, outcome)

	return profiles[0], outcome, nil
}

func (s *ContentService) generateProfile(ctx context.Context, _ int) ([]domain.Profile, error) {
	payload, err := s.fetcher.Fetch(ctx, FetchRequest{
		System:      profileSystemPrompt,
		User:        profileUserPrompt,
		MaxTokens:   300,
		Temperature: 1.0,
		Shape:       profileShape,
	})
	if err != nil {
		return nil, err
	}

	profile := domain.Profile{
		Name:        StringField(payload.Object, "name"),
		Tagline:     StringField(payload.Object, "tagline"),
		Sysop:       StringField(payload.Object, "sysop"),
		Established: StringField(payload.Object, "established"),
		Nodes:       StringField(payload.Object, "nodes"),
		BoardNames:  StringListField(payload.Object, "board_names"),
	}
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: generated profile: %w", domain.ErrParseFailure, err)
	}

	return []domain.Profile{profile}, nil
}

// WelcomeTagline usually returns the profile tagline but sometimes swaps in a
// local retro one.
func (s *ContentService) WelcomeTagline(profile domain.Profile) string {
	if s.fallback.IntN(100) < localTaglinePercent {
		return s.fallback.Tagline()
	}
	return profile.Tagline
}

// Boards lists the message boards of the session's BBS.
func (s *ContentService) Boards(ctx context.Context) ([]string, error) {
	profile, _, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return profile.BoardNames, nil
}

// Categories lists the file archive sections: the general section followed by
// one per board.
func (s *ContentService) Categories(ctx context.Context) ([]string, error) {
	profile, _, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return profile.FileCategories(), nil
}

func (s *ContentService) WelcomeArt() string {
	return s.fallback.Art()
}

// BoardMessages returns the posts of a board, oldest first. Generated and
// fallback posts share one chronological set of dates.
func (s *ContentService) BoardMessages(ctx context.Context, board string) ([]domain.BoardMessage, Outcome, error) {
	if messages, ok := s.session.boards.Get(board); ok {
		return messages, Outcome{Cached: true}, nil
	}

	n := minBoardMessages + s.fallback.IntN(maxBoardMessages-minBoardMessages+1)
	authors := s.fallback.Authors(n)
	dates := s.fallback.Dates(n)
	stamp := func(offset int, messages []domain.BoardMessage) []domain.BoardMessage {
		for i := range messages {
			messages[i].Author = authors[offset+i]
			messages[i].Date = dates[offset+i]
		}
		return messages
	}

	generate := func(ctx context.Context, n int) ([]domain.BoardMessage, error) {
		payload, err := s.fetcher.Fetch(ctx, FetchRequest{
			System:      boardSystemPrompt,
			User:        fmt.Sprintf(boardUserPrompt, n, board),
			MaxTokens:   800,
			Temperature: 1.0,
			Shape:       messageShape,
		})
		if err != nil {
			return nil, err
		}

		messages := make([]domain.BoardMessage, 0, n)
		for _, record := range payload.Records {
			message := domain.BoardMessage{
				Subject: StringField(record, "subject"),
				Content: StringField(record, "content"),
			}
			if !message.Valid() {
				continue
			}
			messages = append(messages, message)
			if len(messages) == n {
				break
			}
		}
		return stamp(0, messages), nil
	}
	fallback := func(count int) []domain.BoardMessage {
		return stamp(n-count, s.fallback.Messages(board, count))
	}

	messages, outcome, err := s.session.boards.GetOrGenerate(ctx, board, n, generate, fallback)
	if err != nil {
		return nil, Outcome{}, err
	}
	s.logOutcome("board", board, outcome)

	return messages, outcome, nil
}

// CategoryFiles returns the listings of an archive category, oldest first.
func (s *ContentService) CategoryFiles(ctx context.Context, category string) ([]domain.FileEntry, Outcome, error) {
	if files, ok := s.session.files.Get(category); ok {
		return files, Outcome{Cached: true}, nil
	}

	n := minCategoryFiles + s.fallback.IntN(maxCategoryFiles-minCategoryFiles+1)
	uploaders := s.fallback.Authors(n)
	dates := s.fallback.Dates(n)
	downloads := s.fallback.Downloads(n)
	stamp := func(offset int, files []domain.FileEntry) []domain.FileEntry {
		for i := range files {
			files[i].Uploader = uploaders[offset+i]
			files[i].Date = dates[offset+i]
			files[i].Downloads = downloads[offset+i]
		}
		return files
	}

	generate := func(ctx context.Context, n int) ([]domain.FileEntry, error) {
		payload, err := s.fetcher.Fetch(ctx, FetchRequest{
			System:      filesSystemPrompt,
			User:        fmt.Sprintf(filesUserPrompt, n, category, category),
			MaxTokens:   1000,
			Temperature: 1.0,
			Shape:       fileShape,
		})
		if err != nil {
			return nil, err
		}

		files := make([]domain.FileEntry, 0, n)
		for _, record := range payload.Records {
			size, err := domain.NormalizeSize(StringField(record, "size"))
			if err != nil {
				continue
			}
			file := domain.FileEntry{
				Name:        StringField(record, "name"),
				Description: StringField(record, "description"),
				Size:        size,
			}
			if file.Name == "" || file.Description == "" {
				continue
			}
			files = append(files, file)
			if len(files) == n {
				break
			}
		}
		return stamp(0, files), nil
	}
	fallback := func(count int) []domain.FileEntry {
		return stamp(n-count, s.fallback.Files(category, count))
	}

	files, outcome, err := s.session.files.GetOrGenerate(ctx, category, n, generate, fallback)
	if err != nil {
		return nil, Outcome{}, err
	}
	s.logOutcome("files", category, outcome)

	return files, outcome, nil
}

type DownloadResult struct {
	File   domain.FileEntry
	Chunks int
	Quip   string
}

// Download bumps the download counter of a listed file. index is zero-based.
func (s *ContentService) Download(category string, index int) (DownloadResult, error) {
	var file domain.FileEntry
	err := s.session.files.Update(category, func(files []domain.FileEntry) error {
		if index < 0 || index >= len(files) {
			return fmt.Errorf("%w: %s #%d", domain.ErrFileNotFound, category, index+1)
		}
		files[index].Downloads++
		file = files[index]
		return nil
	})
	if errors.Is(err, ErrNotCached) {
		return DownloadResult{}, fmt.Errorf("%w: category %q not loaded", domain.ErrFileNotFound, category)
	}
	if err != nil {
		return DownloadResult{}, err
	}

	s.logger.Info("file downloaded",
		zap.String("session", s.session.ID()),
		zap.String("category", category),
		zap.String("file", file.Name),
		zap.Int("downloads", file.Downloads))

	return DownloadResult{File: file, Chunks: file.TransferChunks(), Quip: s.fallback.DownloadQuip()}, nil
}

func (s *ContentService) DoorGame() domain.DoorGame {
	return s.fallback.DoorGame()
}

func (s *ContentService) DoorError() string {
	return s.fallback.DoorError()
}

func (s *ContentService) logOutcome(kind, key string, outcome Outcome) {
	fields := []zap.Field{
		zap.String("session", s.session.ID()),
		zap.String("kind", kind),
		zap.String("key", key),
		zap.Bool("cached", outcome.Cached),
		zap.Int("generated", outcome.Generated),
		zap.Int("fallback", outcome.Fallback),
	}
	if outcome.Cause != nil {
		fields = append(fields, zap.Error(outcome.Cause))
	}

	if outcome.Degraded() {
		s.logger.Warn("content served with fallback", fields...)
		return
	}
	s.logger.Debug("content served", fields...)
}
