package format

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

// Terminal palette used throughout the tool. These are the
// high-intensity ANSI colors (91-95).
var (
	Red     = color.New(color.FgHiRed)
	Green   = color.New(color.FgHiGreen)
	Yellow  = color.New(color.FgHiYellow)
	Magenta = color.New(color.FgHiMagenta)
)

// units maps each 1024-exponent to its label and the number of decimal
// places shown for it
var units = []struct {
	label    string
	decimals int
}{
	{"bytes", 0},
	{"kB", 0},
	{"MB", 1},
	{"GB", 1},
	{"TB", 1},
	{"PB", 1},
	{"EB", 1},
}

// Size renders a byte count in a human friendly form: the quotient
// right-aligned in a 5-character field, then the unit. Values below 1,
// including negative quota remainders, render as "0 bytes". The same
// routine is used for day counts, so large temporal quotas pick up the
// byte unit labels.
func Size(num int64) string {
	switch {
	case num > 1:
		quotient := float64(num)
		exponent := 0
		for quotient >= 1024 && exponent < len(units)-1 {
			quotient /= 1024
			exponent++
		}
		u := units[exponent]
		return fmt.Sprintf("%5.*f %s", u.decimals, quotient, u.label)
	case num == 1:
		return "1 byte"
	default:
		return "0 bytes"
	}
}

// Days renders a per-file temporal quota with one decimal place
func Days(d float64) string {
	return fmt.Sprintf("%.1f", d)
}

// timestampLayouts covers the ISO-8601 variants the server emits
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a server timestamp string
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// Date renders a timestamp as e.g. " 2 Jan 2020 15:04", with the day
// space-padded to two characters and a 3-letter month
func Date(t time.Time) string {
	return fmt.Sprintf("%2d %s %d %02d:%02d",
		t.Day(), t.Month().String()[:3], t.Year(), t.Hour(), t.Minute())
}
