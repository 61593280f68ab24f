// Package model holds the leaderboard domain types shared by the API client,
// the list controller and the presentation layers.
package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPlatform is pre-filled into new trader forms.
const DefaultPlatform = "MetaTrader 4"

// TraderID is the opaque server identifier of a trader.
type TraderID string

// String returns the identifier as text.
func (id TraderID) String() string {
	return string(id)
}

// Trader is one row of the ranked collection as last returned by the server.
type Trader struct {
	ID               TraderID
	Name             string
	AccountBalance   decimal.Decimal
	GrowthPercentage decimal.Decimal
	Platform         string
	CountryCode      string
	RankPosition     int
	CreatedAt        time.Time
}

// Draft is the client-editable part of a trader. RankPosition 0 means unset.
type Draft struct {
	Name             string
	AccountBalance   decimal.Decimal
	GrowthPercentage decimal.Decimal
	Platform         string
	CountryCode      string
	RankPosition     int
}

// RankAssignment pairs a trader with its new 1-based rank.
type RankAssignment struct {
	ID   TraderID
	Rank int
}

// DraftInput is raw form text for a draft, before parsing.
type DraftInput struct {
	Name             string
	AccountBalance   string
	GrowthPercentage string
	Platform         string
	CountryCode      string
	RankPosition     string
}

var countryCodeRe = regexp.MustCompile(`^[A-Za-z]{2}$`)

// NewDraftInput returns the blank form used when adding a trader.
func NewDraftInput() DraftInput {
	return DraftInput{Platform: DefaultPlatform}
}

// InputFromTrader pre-fills a form with an existing trader's values.
func InputFromTrader(t Trader) DraftInput {
	in := DraftInput{
		Name:             t.Name,
		AccountBalance:   t.AccountBalance.String(),
		GrowthPercentage: t.GrowthPercentage.String(),
		Platform:         t.Platform,
		CountryCode:      t.CountryCode,
	}
	if t.RankPosition > 0 {
		in.RankPosition = strconv.Itoa(t.RankPosition)
	}
	return in
}

// ParseDraft converts form text into a Draft. The first problem found is
// returned as a *ValidationError.
func ParseDraft(in DraftInput) (Draft, error) {
	var d Draft

	d.Name = strings.TrimSpace(in.Name)
	d.Platform = strings.TrimSpace(in.Platform)
	d.CountryCode = strings.ToUpper(strings.TrimSpace(in.CountryCode))

	balance, err := decimal.NewFromString(strings.TrimSpace(in.AccountBalance))
	if err != nil {
		return Draft{}, &ValidationError{Field: "account_balance", Reason: "must be a number"}
	}
	d.AccountBalance = balance

	growth, err := decimal.NewFromString(strings.TrimSpace(in.GrowthPercentage))
	if err != nil {
		return Draft{}, &ValidationError{Field: "growth_percentage", Reason: "must be a number"}
	}
	d.GrowthPercentage = growth

	if rank := strings.TrimSpace(in.RankPosition); rank != "" {
		n, err := strconv.Atoi(rank)
		if err != nil {
			return Draft{}, &ValidationError{Field: "rank_id", Reason: "must be a whole number"}
		}
		if n <= 0 {
			return Draft{}, &ValidationError{Field: "rank_id", Reason: "must be positive"}
		}
		d.RankPosition = n
	}

	if err := d.Validate(); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// Validate checks the invariants a draft must satisfy before it is sent.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(d.Platform) == "" {
		return &ValidationError{Field: "platform", Reason: "is required"}
	}
	if d.AccountBalance.IsNegative() {
		return &ValidationError{Field: "account_balance", Reason: "must not be negative"}
	}
	if d.RankPosition < 0 {
		return &ValidationError{Field: "rank_id", Reason: "must be positive"}
	}
	if d.CountryCode != "" && !countryCodeRe.MatchString(d.CountryCode) {
		return &ValidationError{Field: "country_code", Reason: "must be a 2-letter code"}
	}
	return nil
}

// IDs returns the identifiers of traders in order.
func IDs(traders []Trader) []TraderID {
	ids := make([]TraderID, len(traders))
	for i, t := range traders {
		ids[i] = t.ID
	}
	return ids
}
