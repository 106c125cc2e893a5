package domain

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the MM-DD-YY layout used on boards and in the file archive.
const DateLayout = "01-02-06"

func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return parsed, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SortDates orders MM-DD-YY strings chronologically. Unparseable values sort last
// in their input order.
func SortDates(dates []string) {
	sort.SliceStable(dates, func(i, j int) bool {
		return DateBefore(dates[i], dates[j])
	})
}

func DateBefore(left, right string) bool {
	l, lerr := ParseDate(left)
	r, rerr := ParseDate(right)
	switch {
	case lerr != nil:
		return false
	case rerr != nil:
		return true
	default:
		return l.Before(r)
	}
}
