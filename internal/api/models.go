package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aurumfx/lbadmin/internal/model"
)

// =============================================================================
// Trader wire types
// =============================================================================

// traderPayload is a trader as the API encodes it.
type traderPayload struct {
	ID               flexID          `json:"id"`
	Name             string          `json:"name"`
	AccountBalance   decimal.Decimal `json:"account_balance"`
	GrowthPercentage decimal.Decimal `json:"growth_percentage"`
	Platform         string          `json:"platform"`
	CountryCode      *string         `json:"country_code"`
	RankID           flexInt         `json:"rank_id"`
	CreatedAt        flexTime        `json:"created_at"`
}

func (p traderPayload) toModel() model.Trader {
	t := model.Trader{
		ID:               model.TraderID(p.ID),
		Name:             p.Name,
		AccountBalance:   p.AccountBalance,
		GrowthPercentage: p.GrowthPercentage,
		Platform:         p.Platform,
		RankPosition:     int(p.RankID),
		CreatedAt:        time.Time(p.CreatedAt),
	}
	if p.CountryCode != nil {
		t.CountryCode = strings.ToUpper(strings.TrimSpace(*p.CountryCode))
	}
	return t
}

// draftPayload is the body of create and update requests.
type draftPayload struct {
	Name             string      `json:"name"`
	AccountBalance   json.Number `json:"account_balance"`
	GrowthPercentage json.Number `json:"growth_percentage"`
	Platform         string      `json:"platform"`
	CountryCode      string      `json:"country_code,omitempty"`
	RankID           int         `json:"rank_id,omitempty"`
}

func newDraftPayload(d model.Draft) draftPayload {
	return draftPayload{
		Name:             d.Name,
		AccountBalance:   json.Number(d.AccountBalance.String()),
		GrowthPercentage: json.Number(d.GrowthPercentage.String()),
		Platform:         d.Platform,
		CountryCode:      d.CountryCode,
		RankID:           d.RankPosition,
	}
}

// reorderPayload is the body of the bulk reorder request.
type reorderPayload struct {
	Orders []reorderEntry `json:"orders"`
}

type reorderEntry struct {
	ID     wireID `json:"id"`
	RankID int    `json:"rank_id"`
}

// =============================================================================
// Auth wire types
// =============================================================================

// LoginRequest is the body of the login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginData is the data field of a successful login response.
type LoginData struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

// =============================================================================
// Lenient scalar decoding
// =============================================================================

// flexID accepts an id encoded as a JSON string or number.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s", string(b))
	}
	*f = flexID(n.String())
	return nil
}

// wireID encodes canonical unsigned integers as JSON numbers, matching how
// the API hands them out. Anything else, including "007", stays a string.
type wireID string

func (w wireID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseUint(string(w), 10, 64); err == nil && strconv.FormatUint(n, 10) == string(w) {
		return []byte(w), nil
	}
	return json.Marshal(string(w))
}

// flexInt accepts an integer encoded as a number, a numeric string or null.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	v = math.Round(v)
	if v < math.MinInt32 || v > math.MaxInt32 {
		return fmt.Errorf("integer %q out of range", s)
	}
	*f = flexInt(v)
	return nil
}

// flexTime accepts the timestamp layouts the API has been seen to emit.
type flexTime time.Time

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// null or a non-string: treat as unknown
		*f = flexTime(time.Time{})
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*f = flexTime(time.Time{})
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*f = flexTime(t)
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}
