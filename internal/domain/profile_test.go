package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProfile() Profile {
	return Profile{
		Name:        "Toaster Underground",
		Tagline:     "We Have Crumbs",
		Sysop:       "BreadLord",
		Established: "1989",
		Nodes:       "4",
		BoardNames:  []string{"Crumb Talk", "Heating Elements", "Bagel Conspiracies"},
	}
}

func TestProfileValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr string
	}{
		{name: "valid", mutate: func(*Profile) {}},
		{name: "missing name", mutate: func(p *Profile) { p.Name = " " }, wantErr: "name is required"},
		{name: "missing sysop", mutate: func(p *Profile) { p.Sysop = "" }, wantErr: "sysop is required"},
		{name: "missing nodes", mutate: func(p *Profile) { p.Nodes = "" }, wantErr: "nodes is required"},
		{name: "no boards", mutate: func(p *Profile) { p.BoardNames = nil }, wantErr: "board_names must not be empty"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			profile := validProfile()
			tc.mutate(&profile)
			err := profile.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestTruncateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "short", in: "ERROR BBS", want: "ERROR BBS"},
		{name: "exactly twenty", in: strings.Repeat("x", 20), want: strings.Repeat("x", 20)},
		{name: "too long", in: "The Extremely Long Name Of Doom", want: "The Extremely Long N"},
		{name: "multibyte", in: strings.Repeat("é", 25), want: strings.Repeat("é", 20)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := TruncateName(tc.in)
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, len([]rune(got)), MaxProfileNameLength)
		})
	}
}

func TestProfileNormalizeDeduplicatesBoardsAndTruncatesName(t *testing.T) {
	t.Parallel()

	profile := Profile{
		Name:       "  The Extremely Long Name Of Doom ",
		BoardNames: []string{"A", "", "B", "A", " C ", "D", "E", "F"},
	}
	profile.Normalize()

	assert.Equal(t, "The Extremely Long N", profile.Name)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, profile.BoardNames)
}

func TestProfileFileCategoriesStartWithGeneralSoftware(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"General Software", "Crumb Talk", "Heating Elements", "Bagel Conspiracies"},
		validProfile().FileCategories(),
	)
}
