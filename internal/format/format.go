package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Display formatters for the admin table and client cards. These are total
// functions: malformed input is echoed back best-effort, never rejected,
// because validation happens in the service layer, not here.

// Digits strips everything but 0-9.
func Digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TaxID formats an 11-digit CPF as XXX.XXX.XXX-XX. Anything else is returned
// stripped of punctuation but otherwise unchanged.
func TaxID(raw string) string {
	digits := Digits(raw)
	if len(digits) != 11 {
		return digits
	}
	return fmt.Sprintf("%s.%s.%s-%s", digits[0:3], digits[3:6], digits[6:9], digits[9:11])
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// Date renders a date as DD/MM/YYYY. Unparseable input is echoed back.
func Date(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("02/01/2006")
		}
	}
	return raw
}

// DateValue renders a time.Time as DD/MM/YYYY; zero time renders empty.
func DateValue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// Amount parses a decimal the way the original entry forms did: anything
// that does not parse cleanly is 0. Deliberate coercion rule, not an accident.
func Amount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Currency renders an amount in Brazilian real convention: R$ 1.234,56.
// Negative amounts carry a leading minus, as in -R$ 10,00.
func Currency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	cents := int64(amount*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	wholeStr := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, r := range wholeStr {
		if i > 0 && (len(wholeStr)-i)%3 == 0 {
			b.WriteRune('.')
		}
		b.WriteRune(r)
	}

	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), frac)
}
