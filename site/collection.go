package site

import (
	"log/slog"
	"time"
)

// Entry is a page-like item of a custom collection.
type Entry struct {
	Title       string
	Description string
	URL         string
	Date        string
	Time        time.Time
}

// Collection is a named, ordered list of entries such as "posts" or "projects".
// Collections are filled by embedded code, usually from page front matter.
type Collection struct {
	Name    string
	Entries []Entry
}

// Add appends an entry, parsing its date if the time is not set.
func (c *Collection) Add(e Entry) {
	if e.Time.IsZero() && e.Date != "" {
		t, err := ParseDate(e.Date)
		if err != nil {
			slog.Warn("collection entry has an invalid date", "collection", c.Name, "title", e.Title, "error", err)
		}
		e.Time = t
	}
	c.Entries = append(c.Entries, e)
}

// AddPage appends the page as it is at the time of the call.
func (c *Collection) AddPage(p *Page) {
	c.Add(p.Entry())
}

func (c *Collection) Len() int {
	return len(c.Entries)
}

// Sort orders the entries newest first, see SortPages.
func (c *Collection) Sort() {
	sortByDate(c.Entries, func(e Entry) time.Time { return e.Time })
}
