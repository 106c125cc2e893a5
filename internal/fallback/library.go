// Package fallback serves canned BBS content when the remote generator is
// unavailable. The literal pools live in content.yaml; only the selection
// order and the synthetic metadata (authors, dates, download counts) are random,
// and both come from a seedable source.
package fallback

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"github.com/bnema/bbscapade/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var rawContent []byte

const (
	categoryPlaceholder   = "{category}"
	firstYear             = 85
	lastYear              = 95
	doorFirstYear         = 1987
	doorLastYear          = 1993
	maxBaseDownloads      = 50
	maxAgeBonusDownloads  = 150
	numberedAuthorPercent = 60
)

type content struct {
	Profiles []domain.Profile `yaml:"profiles"`
	Messages []struct {
		Subject string `yaml:"subject"`
		Content string `yaml:"content"`
	} `yaml:"messages"`
	Authors struct {
		Prefixes []string `yaml:"prefixes"`
		Suffixes []string `yaml:"suffixes"`
	} `yaml:"authors"`
	Files struct {
		Sizes []string   `yaml:"sizes"`
		Kinds []fileKind `yaml:"kinds"`
	} `yaml:"files"`
	Taglines []string `yaml:"taglines"`
	Sysop    struct {
		Replies      []string `yaml:"replies"`
		Traits       []string `yaml:"traits"`
		SpeechStyles []string `yaml:"speech_styles"`
	} `yaml:"sysop"`
	Doors struct {
		Prefixes        []string `yaml:"prefixes"`
		MainWords       []string `yaml:"main_words"`
		Suffixes        []string `yaml:"suffixes"`
		CompanyPrefixes []string `yaml:"company_prefixes"`
		CompanySuffixes []string `yaml:"company_suffixes"`
		Taglines        []string `yaml:"taglines"`
		Errors          []string `yaml:"errors"`
	} `yaml:"doors"`
	DownloadQuips []string   `yaml:"download_quips"`
	Art           [][]string `yaml:"art"`
}

type fileKind struct {
	Extensions  []string `yaml:"extensions"`
	Description string   `yaml:"description"`
}

func (c content) validate() error {
	pools := map[string]int{
		"profiles":               len(c.Profiles),
		"messages":               len(c.Messages),
		"authors.prefixes":       len(c.Authors.Prefixes),
		"authors.suffixes":       len(c.Authors.Suffixes),
		"files.sizes":            len(c.Files.Sizes),
		"files.kinds":            len(c.Files.Kinds),
		"taglines":               len(c.Taglines),
		"sysop.replies":          len(c.Sysop.Replies),
		"sysop.speech_styles":    len(c.Sysop.SpeechStyles),
		"doors.prefixes":         len(c.Doors.Prefixes),
		"doors.main_words":       len(c.Doors.MainWords),
		"doors.suffixes":         len(c.Doors.Suffixes),
		"doors.company_prefixes": len(c.Doors.CompanyPrefixes),
		"doors.company_suffixes": len(c.Doors.CompanySuffixes),
		"doors.taglines":         len(c.Doors.Taglines),
		"doors.errors":           len(c.Doors.Errors),
		"download_quips":         len(c.DownloadQuips),
		"art":                    len(c.Art),
	}

	var errs []error
	for name, size := range pools {
		if size == 0 {
			errs = append(errs, fmt.Errorf("%s pool is empty", name))
		}
	}
	if len(c.Sysop.Traits) < 2 {
		errs = append(errs, errors.New("sysop.traits needs at least two entries"))
	}
	for _, kind := range c.Files.Kinds {
		if len(kind.Extensions) == 0 {
			errs = append(errs, fmt.Errorf("file kind %q has no extensions", kind.Description))
		}
	}
	for _, profile := range c.Profiles {
		if err := profile.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("profile %q: %w", profile.Name, err))
		}
		if n := len(profile.BoardNames); n < domain.MinBoardNames || n > domain.MaxBoardNames {
			errs = append(errs, fmt.Errorf("profile %q has %d boards", profile.Name, n))
		}
	}

	return errors.Join(errs...)
}

// Library hands out fallback content. It is safe for concurrent use.
type Library struct {
	mu      sync.Mutex
	rng     *rand.Rand
	content content
}

// New loads the embedded pools. The same seed yields the same sequence of
// selections.
func New(seed uint64) (*Library, error) {
	var c content
	if err := yaml.Unmarshal(rawContent, &c); err != nil {
		return nil, fmt.Errorf("decode fallback content: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("validate fallback content: %w", err)
	}

	return &Library{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		content: c,
	}, nil
}

// cycle returns exactly n entries from pool in shuffled order, reshuffling each
// time the pool is exhausted.
func cycle[T any](rng *rand.Rand, pool []T, n int) []T {
	if n <= 0 || len(pool) == 0 {
		return []T{}
	}

	out := make([]T, n)
	var order []int
	for i := range n {
		if i%len(pool) == 0 {
			order = rng.Perm(len(pool))
		}
		out[i] = pool[order[i%len(pool)]]
	}
	return out
}

func choose[T any](rng *rand.Rand, pool []T) T {
	return pool[rng.IntN(len(pool))]
}

func (l *Library) Profile() domain.Profile {
	l.mu.Lock()
	defer l.mu.Unlock()

	profile := choose(l.rng, l.content.Profiles)
	profile.BoardNames = append([]string(nil), profile.BoardNames...)
	return profile
}

// Messages returns n canned posts with synthetic authors and chronological dates.
func (l *Library) Messages(board string, n int) []domain.BoardMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	picked := cycle(l.rng, l.content.Messages, n)
	authors := l.authors(n)
	dates := l.dates(n)

	messages := make([]domain.BoardMessage, len(picked))
	for i, m := range picked {
		messages[i] = domain.BoardMessage{
			Author:  authors[i],
			Date:    dates[i],
			Subject: m.Subject,
			Content: m.Content,
		}
	}
	return messages
}

// Files returns n generic listings named after the category initials.
func (l *Library) Files(category string, n int) []domain.FileEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 {
		return []domain.FileEntry{}
	}

	prefix := categoryPrefix(category)
	topic := strings.ToLower(strings.TrimSpace(category))
	uploaders := l.authors(n)
	dates := l.dates(n)
	downloads := l.downloads(n)

	files := make([]domain.FileEntry, n)
	for i := range files {
		kind := choose(l.rng, l.content.Files.Kinds)
		ext := choose(l.rng, kind.Extensions)
		files[i] = domain.FileEntry{
			Name:        fmt.Sprintf("%s%d.%s", prefix, l.rng.IntN(999)+1, ext),
			Description: strings.ReplaceAll(kind.Description, categoryPlaceholder, topic),
			Size:        choose(l.rng, l.content.Files.Sizes),
			Date:        dates[i],
			Uploader:    uploaders[i],
			Downloads:   downloads[i],
		}
	}
	return files
}

func categoryPrefix(category string) string {
	var b strings.Builder
	for _, word := range strings.Fields(category) {
		r := []rune(word)
		b.WriteRune(r[0])
		if b.Len() >= 3 {
			break
		}
	}

	prefix := strings.ToUpper(b.String())
	if prefix == "" {
		return "FIL"
	}
	return prefix
}

// Authors returns n BBS-style handles such as "ModemWizard42".
func (l *Library) Authors(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.authors(n)
}

func (l *Library) authors(n int) []string {
	if n <= 0 {
		return []string{}
	}

	authors := make([]string, n)
	for i := range authors {
		name := choose(l.rng, l.content.Authors.Prefixes) + choose(l.rng, l.content.Authors.Suffixes)
		if l.rng.IntN(100) < numberedAuthorPercent {
			name += strconv.Itoa(l.rng.IntN(99) + 1)
		}
		authors[i] = name
	}
	return authors
}

// Dates returns n MM-DD-YY dates between 1985 and 1995, oldest first.
func (l *Library) Dates(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.dates(n)
}

func (l *Library) dates(n int) []string {
	if n <= 0 {
		return []string{}
	}

	dates := make([]string, n)
	for i := range dates {
		month := l.rng.IntN(12) + 1
		day := l.rng.IntN(28) + 1
		year := firstYear + l.rng.IntN(lastYear-firstYear+1)
		dates[i] = fmt.Sprintf("%02d-%02d-%02d", month, day, year)
	}
	domain.SortDates(dates)
	return dates
}

// Downloads returns n download counts where earlier (older) entries tend to be
// larger.
func (l *Library) Downloads(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.downloads(n)
}

func (l *Library) downloads(n int) []int {
	if n <= 0 {
		return []int{}
	}

	counts := make([]int, n)
	for i := range counts {
		base := l.rng.IntN(maxBaseDownloads + 1)
		age := float64(n-i) / float64(n)
		counts[i] = base + int(age*float64(l.rng.IntN(maxAgeBonusDownloads+1)))
	}
	return counts
}

func (l *Library) Tagline() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return choose(l.rng, l.content.Taglines)
}

func (l *Library) SysopReply() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return choose(l.rng, l.content.Sysop.Replies)
}

// SysopTraits picks two different personality traits.
func (l *Library) SysopTraits() [2]string {
	l.mu.Lock()
	defer l.mu.Unlock()

	picked := cycle(l.rng, l.content.Sysop.Traits, 2)
	return [2]string{picked[0], picked[1]}
}

func (l *Library) SpeechStyle() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return choose(l.rng, l.content.Sysop.SpeechStyles)
}

func (l *Library) DoorGame() domain.DoorGame {
	l.mu.Lock()
	defer l.mu.Unlock()

	doors := l.content.Doors
	name := choose(l.rng, doors.Prefixes) + " " + choose(l.rng, doors.MainWords)
	if l.rng.IntN(2) == 0 {
		name += " " + choose(l.rng, doors.Suffixes)
	}

	return domain.DoorGame{
		Name:    name,
		Year:    doorFirstYear + l.rng.IntN(doorLastYear-doorFirstYear+1),
		Company: choose(l.rng, doors.CompanyPrefixes) + " " + choose(l.rng, doors.CompanySuffixes),
		Tagline: choose(l.rng, doors.Taglines),
	}
}

func (l *Library) DoorError() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return choose(l.rng, l.content.Doors.Errors)
}

func (l *Library) DownloadQuip() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return choose(l.rng, l.content.DownloadQuips)
}

func (l *Library) Art() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return strings.Join(choose(l.rng, l.content.Art), "\n")
}

// IntN rolls [0, n) on the library's source so callers stay reproducible under
// the same seed.
func (l *Library) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 {
		return 0
	}
	return l.rng.IntN(n)
}
