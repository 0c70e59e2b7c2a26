package site

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// dateLayouts are tried in order. The day/month/year form is kept for sites written
// before ISO dates were the norm.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
}

// ParseDate parses an ISO (2006-01-02, RFC 3339) or day/month/year (02/01/2006) date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// SortPages orders pages newest first. Pages without a valid date go last; equal dates
// keep their registration order.
func SortPages(pages []*Page) {
	sortByDate(pages, func(p *Page) time.Time { return p.Time })
}

func sortByDate[T any](items []T, date func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return date(items[i]).After(date(items[j]))
	})
}
