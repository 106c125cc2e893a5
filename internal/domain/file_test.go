package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "canonical kb", in: "256 KB", want: "256 KB"},
		{name: "no space lowercase", in: "45kb", want: "45 KB"},
		{name: "fractional mb", in: "1.20 MB", want: "1.2 MB"},
		{name: "missing unit", in: "300", wantErr: true},
		{name: "gigabytes", in: "2 GB", wantErr: true},
		{name: "prose", in: "about a floppy", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeSize(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFileEntryTransferChunksIsClamped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size string
		want int
	}{
		{size: "12 KB", want: 5},
		{size: "128 KB", want: 26},
		{size: "512 KB", want: 30},
		{size: "1.2 MB", want: 25},
		{size: "3 MB", want: 30},
		{size: "garbage", want: 5},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.size, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, FileEntry{Size: tc.size}.TransferChunks())
		})
	}
}

func TestSortDatesIsChronological(t *testing.T) {
	t.Parallel()

	dates := []string{"03-01-95", "12-24-85", "01-15-90", "bogus", "07-04-90"}
	SortDates(dates)

	assert.Equal(t, []string{"12-24-85", "01-15-90", "07-04-90", "03-01-95", "bogus"}, dates)
}
