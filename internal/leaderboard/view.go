package leaderboard

import (
	"strconv"
	"strings"

	"github.com/aurumfx/lbadmin/internal/model"
)

// PageInfo describes the visible window, for "Showing From to To of Total".
// From and To are 1-based and both zero when nothing matches.
type PageInfo struct {
	From  int
	To    int
	Total int
}

// Snapshot is a consistent view of the controller for rendering.
type Snapshot struct {
	Phase      Phase
	Err        error
	Term       string
	Page       int
	TotalPages int
	Info       PageInfo
	Rows       []model.Trader
	Count      int
	Dirty      bool
	Dragging   bool
	DraggedID  model.TraderID
}

// SetSearchTerm changes the filter and returns to the first page.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.term = term
	c.page = 1
}

// SearchTerm returns the current filter.
func (c *Controller) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term
}

// Filtered returns the traders matching the search term, in working order.
// While a drag is active the previewed order is used.
func (c *Controller) Filtered() []model.Trader {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filteredLocked()
}

// Page returns the current 1-based page number.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clampPage(c.page, c.totalPagesLocked())
}

// SetPage moves to page p, clamped to [1, TotalPages].
func (c *Controller) SetPage(p int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = clampPage(p, c.totalPagesLocked())
}

// NextPage advances one page, stopping at the last.
func (c *Controller) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.totalPagesLocked()
	c.page = clampPage(clampPage(c.page, total)+1, total)
}

// PrevPage goes back one page, stopping at the first.
func (c *Controller) PrevPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.totalPagesLocked()
	c.page = clampPage(clampPage(c.page, total)-1, total)
}

// TotalPages is the page count for the filtered list, at least 1.
func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPagesLocked()
}

// PageRows returns the filtered traders on the current page.
func (c *Controller) PageRows() []model.Trader {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, _ := c.pageLocked()
	return rows
}

// PageInfo describes the current page window.
func (c *Controller) PageInfo() PageInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, info := c.pageLocked()
	return info
}

// Snapshot returns everything a view needs under a single lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, info := c.pageLocked()
	dragged, dragging := c.drag.Dragged()
	return Snapshot{
		Phase:      c.phase,
		Err:        c.lastErr,
		Term:       c.term,
		Page:       clampPage(c.page, c.totalPagesLocked()),
		TotalPages: c.totalPagesLocked(),
		Info:       info,
		Rows:       rows,
		Count:      len(c.working),
		Dirty:      c.isDirtyLocked(),
		Dragging:   dragging,
		DraggedID:  dragged,
	}
}

func (c *Controller) sourceLocked() []model.Trader {
	if preview := c.drag.Preview(); preview != nil {
		return preview
	}
	return c.working
}

func (c *Controller) filteredLocked() []model.Trader {
	src := c.sourceLocked()
	term := strings.ToLower(strings.TrimSpace(c.term))

	out := make([]model.Trader, 0, len(src))
	for _, t := range src {
		if term == "" || c.matches(t, term) {
			out = append(out, t)
		}
	}
	return out
}

// matches reports whether term (lower-cased) occurs in the trader's name,
// platform, country name or rank.
func (c *Controller) matches(t model.Trader, term string) bool {
	fields := []string{t.Name, t.Platform, c.countryName(t.CountryCode)}
	if t.RankPosition > 0 {
		fields = append(fields, strconv.Itoa(t.RankPosition))
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func (c *Controller) countryName(code string) string {
	if code == "" {
		return ""
	}
	if c.countries == nil {
		return code
	}
	return c.countries.DisplayName(code)
}

func (c *Controller) totalPagesLocked() int {
	return totalPages(len(c.filteredLocked()), c.pageSize)
}

func (c *Controller) pageLocked() ([]model.Trader, PageInfo) {
	filtered := c.filteredLocked()
	total := totalPages(len(filtered), c.pageSize)
	page := clampPage(c.page, total)

	info := PageInfo{Total: len(filtered)}
	if len(filtered) == 0 {
		return nil, info
	}

	start := (page - 1) * c.pageSize
	end := min(start+c.pageSize, len(filtered))
	info.From = start + 1
	info.To = end

	rows := make([]model.Trader, end-start)
	copy(rows, filtered[start:end])
	return rows, info
}

func totalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

func clampPage(p, total int) int {
	if p < 1 {
		return 1
	}
	if p > total {
		return total
	}
	return p
}
