package fallback

import (
	"testing"

	"github.com/bnema/bbscapade/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLibrary(t *testing.T, seed uint64) *Library {
	t.Helper()

	lib, err := New(seed)
	require.NoError(t, err)
	return lib
}

func TestNewLoadsEmbeddedContent(t *testing.T) {
	t.Parallel()

	lib := newLibrary(t, 1)

	assert.Len(t, lib.content.Messages, 7)
	assert.NotEmpty(t, lib.content.Profiles)
	for _, profile := range lib.content.Profiles {
		assert.NoError(t, profile.Validate())
	}
}

func TestMessagesReturnsExactCountBeyondPool(t *testing.T) {
	t.Parallel()

	lib := newLibrary(t, 7)

	for _, n := range []int{0, 1, 7, 8, 25} {
		messages := lib.Messages("Crumb Talk", n)
		require.Len(t, messages, n)
		for _, m := range messages {
			assert.True(t, m.Valid())
			assert.NotEmpty(t, m.Author)
			assert.NotEmpty(t, m.Date)
		}
	}
}

func TestMessagesAvoidRepeatsWithinPool(t *testing.T) {
	t.Parallel()

	lib := newLibrary(t, 3)

	seen := map[string]struct{}{}
	for _, m := range lib.Messages("Board", 7) {
		seen[m.Subject] = struct{}{}
	}
	assert.Len(t, seen, 7)
}

func TestMessagesDatesAreChronological(t *testing.T) {
	t.Parallel()

	lib := newLibrary(t, 11)

	messages := lib.Messages("Board", 12)
	for i := 1; i < len(messages); i++ {
		assert.False(t, domain.DateBefore(messages[i].Date, messages[i-1].Date),
			"%s listed after %s", messages[i].Date, messages[i-1].Date)
	}
}

func TestSameSeedIsDeterministic(t *testing.T) {
	t.Parallel()

	left := newLibrary(t, 42)
	right := newLibrary(t, 42)

	if diff := cmp.Diff(left.Files("Bagel Conspiracies", 15), right.Files("Bagel Conspiracies", 15)); diff != "" {
		t.Fatalf("files differ for same seed (-left +right):\n%s", diff)
	}
	assert.Equal(t, left.Profile(), right.Profile())
	assert.Equal(t, left.DoorGame(), right.DoorGame())
}

func TestFilesAreWellFormed(t *testing.T) {
	t.Parallel()

	lib := newLibrary(t, 5)

	files := lib.Files("Bagel Conspiracies", 20)
	require.Len(t, files, 20)
	for _, f := range files {
		assert.Regexp(t, `^BC\d{1,3}\.[A-Z]{3}$`, f.Name)
		assert.Contains(t, f.Description, "bagel conspiracies")
		_, err := domain.ParseFileSize(f.Size)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, f.Downloads, 0)
		assert.NotEmpty(t, f.Uploader)
	}
}

func TestCategoryPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GS", categoryPrefix("General Software"))
	assert.Equal(t, "LNS", categoryPrefix("line noise seances and more"))
	assert.Equal(t, "FIL", categoryPrefix("   "))
}

func TestSysopTraitsAreDistinct(t *testing.T) {
	t.Parallel()

	lib := newLibrary(t, 9)

	for range 50 {
		traits := lib.SysopTraits()
		assert.NotEqual(t, traits[0], traits[1])
	}
}

func TestDoorGameYearInRange(t *testing.T) {
	t.Parallel()

	lib := newLibrary(t, 13)

	for range 30 {
		game := lib.DoorGame()
		assert.GreaterOrEqual(t, game.Year, 1987)
		assert.LessOrEqual(t, game.Year, 1993)
		assert.NotEmpty(t, game.Company)
		assert.NotEmpty(t, game.Tagline)
	}
}

func TestProfileReturnsIndependentBoards(t *testing.T) {
	t.Parallel()

	lib := newLibrary(t, 1)

	profile := lib.Profile()
	profile.BoardNames[0] = "mutated"

	for _, p := range lib.content.Profiles {
		assert.NotContains(t, p.BoardNames, "mutated")
	}
}
