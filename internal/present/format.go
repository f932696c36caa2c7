package present

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const displayDate = "Jan 2, 2006 15:04"

// Formatter renders money, counts and timestamps for one locale.
type Formatter struct {
	printer *message.Printer
	loc     *time.Location
	group   string
	point   string
}

func NewFormatter(tag language.Tag, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	p := message.NewPrinter(tag)
	return &Formatter{
		printer: p,
		loc:     loc,
		group:   strings.Trim(p.Sprint(number.Decimal(1000)), "01"),
		point:   strings.Trim(p.Sprint(number.Decimal(1.5, number.Scale(1))), "15"),
	}
}

// Money prints the amount rounded to cents straight from its decimal digits,
// using the locale's separators.
func (f *Formatter) Money(d decimal.Decimal) string {
	r := d.Round(2)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Neg()
	}
	s := r.StringFixed(2)
	whole, cents := s[:len(s)-3], s[len(s)-2:]
	return sign + "$" + groupDigits(whole, f.group) + f.point + cents
}

func groupDigits(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func (f *Formatter) Count(n int) string {
	return f.printer.Sprint(number.Decimal(n))
}

// Date shows RFC 3339 timestamps in the formatter's zone; anything else is
// returned unchanged.
func (f *Formatter) Date(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.In(f.loc).Format(displayDate)
}
