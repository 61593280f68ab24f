package output

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/aurumfx/lbadmin/internal/country"
	"github.com/aurumfx/lbadmin/internal/model"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0"},
		{"999.49", "$999"},
		{"999.5", "$1,000"},
		{"15000.50", "$15,001"},
		{"1234567", "$1,234,567"},
		{"100000", "$100,000"},
		{"-2500", "-$2,500"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUSD(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatGrowth(t *testing.T) {
	assert.Equal(t, "+12.50%", FormatGrowth(decimal.RequireFromString("12.5")))
	assert.Equal(t, "-3.25%", FormatGrowth(decimal.RequireFromString("-3.25")))
	assert.Equal(t, "0.00%", FormatGrowth(decimal.Zero))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Dec 9, 2023", FormatDate(time.Date(2023, 12, 9, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "-", FormatDate(time.Time{}))
}

func TestFormatCountry(t *testing.T) {
	assert.Equal(t, "France", FormatCountry(country.Default(), "FR"))
	assert.Equal(t, "ZZ", FormatCountry(country.Default(), "ZZ"))
	assert.Equal(t, "FR", FormatCountry(nil, "FR"))
	assert.Equal(t, "-", FormatCountry(country.Default(), ""))
}

func TestColumn_Cell(t *testing.T) {
	tr := model.Trader{Name: "Ana", RankPosition: 3}

	data := Column{Kind: KindData, Value: func(t model.Trader) string { return t.Name }}
	assert.Equal(t, "Ana", data.Cell(tr))

	actions := Column{Kind: KindActions, Actions: []Action{{Key: "e", Label: "edit"}, {Key: "d", Label: "delete"}}}
	assert.Equal(t, "e:edit d:delete", actions.Cell(tr))

	assert.Empty(t, Column{Kind: KindData}.Cell(tr))
	assert.Empty(t, Column{Kind: ColumnKind(9)}.Cell(tr))
}

func TestTraderColumns(t *testing.T) {
	cols := TraderColumns(country.Default(), true)

	assert.Equal(t, []string{"Rank", "Name", "Balance", "Growth", "Platform", "Country", "Created", "Actions"}, Headers(cols))
	assert.Equal(t, KindActions, cols[len(cols)-1].Kind)

	data := DataColumns(cols)
	assert.Len(t, data, 7)
	assert.Len(t, TraderColumns(nil, false), 7)

	rows := Rows(data, []model.Trader{{Name: "Bo"}})
	assert.Equal(t, []string{"-", "Bo", "$0", "0.00%", "", "-", "-"}, rows[0])
}
