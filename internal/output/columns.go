package output

import (
	"strconv"
	"strings"

	"github.com/aurumfx/lbadmin/internal/model"
)

// ColumnKind tags what a column renders.
type ColumnKind int

const (
	// KindData columns show a field of the trader.
	KindData ColumnKind = iota
	// KindActions columns show the per-row commands.
	KindActions
)

// Action is a per-row command shown in an actions column.
type Action struct {
	Key   string
	Label string
}

// Column describes one table column. Value is used by data columns and
// Actions by action columns.
type Column struct {
	Kind    ColumnKind
	Title   string
	Width   int
	Value   func(model.Trader) string
	Actions []Action
}

// Cell renders the column for t.
func (c Column) Cell(t model.Trader) string {
	switch c.Kind {
	case KindData:
		if c.Value == nil {
			return ""
		}
		return c.Value(t)
	case KindActions:
		parts := make([]string, len(c.Actions))
		for i, a := range c.Actions {
			parts[i] = a.Key + ":" + a.Label
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// CountryNamer resolves a country code to a display name.
type CountryNamer interface {
	DisplayName(code string) string
}

// TraderColumns is the standard leaderboard layout. withActions appends the
// edit/delete column used by the interactive table.
func TraderColumns(countries CountryNamer, withActions bool) []Column {
	cols := []Column{
		{Kind: KindData, Title: "Rank", Width: 5, Value: func(t model.Trader) string {
			if t.RankPosition <= 0 {
				return "-"
			}
			return strconv.Itoa(t.RankPosition)
		}},
		{Kind: KindData, Title: "Name", Width: 20, Value: func(t model.Trader) string {
			return t.Name
		}},
		{Kind: KindData, Title: "Balance", Width: 14, Value: func(t model.Trader) string {
			return FormatUSD(t.AccountBalance)
		}},
		{Kind: KindData, Title: "Growth", Width: 9, Value: func(t model.Trader) string {
			return FormatGrowth(t.GrowthPercentage)
		}},
		{Kind: KindData, Title: "Platform", Width: 14, Value: func(t model.Trader) string {
			return t.Platform
		}},
		{Kind: KindData, Title: "Country", Width: 16, Value: func(t model.Trader) string {
			return FormatCountry(countries, t.CountryCode)
		}},
		{Kind: KindData, Title: "Created", Width: 13, Value: func(t model.Trader) string {
			return FormatDate(t.CreatedAt)
		}},
	}
	if withActions {
		cols = append(cols, Column{
			Kind:  KindActions,
			Title: "Actions",
			Width: 16,
			Actions: []Action{
				{Key: "e", Label: "edit"},
				{Key: "d", Label: "delete"},
			},
		})
	}
	return cols
}

// DataColumns drops action columns, for non-interactive output.
func DataColumns(cols []Column) []Column {
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if c.Kind == KindData {
			out = append(out, c)
		}
	}
	return out
}

// Headers returns the column titles.
func Headers(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Title
	}
	return out
}

// Rows renders every trader against cols.
func Rows(cols []Column, traders []model.Trader) [][]string {
	rows := make([][]string, len(traders))
	for i, t := range traders {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = c.Cell(t)
		}
		rows[i] = row
	}
	return rows
}
