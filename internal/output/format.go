package output

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is how creation dates are shown.
const DateLayout = "Jan 2, 2006"

// FormatUSD renders an amount as whole US dollars with thousands separators,
// e.g. "$15,001" or "-$3".
func FormatUSD(d decimal.Decimal) string {
	rounded := d.Round(0)
	neg := rounded.IsNegative()
	digits := rounded.Abs().StringFixed(0)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	b.WriteString(groupThousands(digits))
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatGrowth renders a percentage with an explicit sign and two decimals,
// e.g. "+12.50%".
func FormatGrowth(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.IsPositive() {
		s = "+" + s
	}
	return s + "%"
}

// FormatDate renders a creation time, or "-" when unknown.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DateLayout)
}

// FormatCountry renders a country name, falling back to the raw code.
func FormatCountry(countries CountryNamer, code string) string {
	if code == "" {
		return "-"
	}
	if countries == nil {
		return code
	}
	return countries.DisplayName(code)
}
