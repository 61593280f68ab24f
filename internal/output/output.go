// Package output renders command results as aligned tables or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aurumfx/lbadmin/internal/model"
)

// Formatter handles output formatting (table or JSON).
type Formatter struct {
	Writer   io.Writer
	JSONMode bool
}

// New creates a new Formatter with the specified writer and JSON mode.
func New(w io.Writer, jsonMode bool) *Formatter {
	return &Formatter{
		Writer:   w,
		JSONMode: jsonMode,
	}
}

// Table outputs data as a formatted table or JSON array depending on mode.
// Headers define column names, rows contain the data.
func (f *Formatter) Table(headers []string, rows [][]string) error {
	if f.JSONMode {
		return f.tableAsJSON(headers, rows)
	}
	return f.tableAsText(headers, rows)
}

// Traders renders traders with the data columns of cols. In JSON mode the
// full records are emitted instead of formatted cells.
func (f *Formatter) Traders(traders []model.Trader, cols []Column) error {
	if f.JSONMode {
		out := make([]TraderJSON, len(traders))
		for i, t := range traders {
			out[i] = NewTraderJSON(t)
		}
		return f.Print(out)
	}

	data := DataColumns(cols)
	return f.tableAsText(Headers(data), Rows(data, traders))
}

// Message prints a status line. In JSON mode it is wrapped in an object.
func (f *Formatter) Message(msg string) error {
	if f.JSONMode {
		return f.Print(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(f.Writer, msg)
	return err
}

// tableAsText renders a table with aligned columns.
func (f *Formatter) tableAsText(headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return err
	}

	separators := make([]string, len(headers))
	for i, h := range headers {
		separators[i] = strings.Repeat("-", len(h))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(separators, "\t")); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// tableAsJSON renders a table as a JSON array of objects.
func (f *Formatter) tableAsJSON(headers []string, rows [][]string) error {
	result := make([]map[string]string, 0, len(rows))

	for _, row := range rows {
		obj := make(map[string]string)
		for i, header := range headers {
			if i < len(row) {
				obj[header] = row[i]
			} else {
				obj[header] = ""
			}
		}
		result = append(result, obj)
	}

	return f.Print(result)
}

// Print outputs data as formatted JSON (pretty-printed) or as a simple string representation.
func (f *Formatter) Print(data any) error {
	if f.JSONMode {
		encoder := json.NewEncoder(f.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}

	_, err := fmt.Fprintf(f.Writer, "%v\n", data)
	return err
}

// TraderJSON is the --json shape of a trader. Money stays a decimal string
// so no precision is lost.
type TraderJSON struct {
	ID               string `json:"id"`
	Rank             int    `json:"rank_id"`
	Name             string `json:"name"`
	AccountBalance   string `json:"account_balance"`
	GrowthPercentage string `json:"growth_percentage"`
	Platform         string `json:"platform"`
	CountryCode      string `json:"country_code,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// NewTraderJSON converts a trader for JSON output.
func NewTraderJSON(t model.Trader) TraderJSON {
	out := TraderJSON{
		ID:               t.ID.String(),
		Rank:             t.RankPosition,
		Name:             t.Name,
		AccountBalance:   t.AccountBalance.String(),
		GrowthPercentage: t.GrowthPercentage.String(),
		Platform:         t.Platform,
		CountryCode:      t.CountryCode,
	}
	if !t.CreatedAt.IsZero() {
		out.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}
