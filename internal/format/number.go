package format

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumberString inserts thousands separators into a decimal integer
// string.
func FormatNumberString(s string) string {
	if s == "" {
		return s
	}
	sign := ""
	if s[0] == '-' || s[0] == '+' {
		sign, s = s[:1], s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/3)
	head := len(s) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(s[:head])
	for i := head; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

// FormatCount formats a step count with thousands separators.
func FormatCount(n int) string {
	return FormatNumberString(strconv.Itoa(n))
}

// FormatFloat renders a physical quantity with sig significant digits,
// switching to exponent notation outside [1e-3, 1e5). Infinities print as
// ∞ and NaN as "n/a".
func FormatFloat(v float64, sig int) string {
	switch {
	case math.IsNaN(v):
		return "n/a"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	case v == 0:
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e-3 && abs < 1e5 {
		return strconv.FormatFloat(v, 'g', sig, 64)
	}
	return strconv.FormatFloat(v, 'e', sig-1, 64)
}

// FormatPowerOfTen labels a log10 axis value: "1e-4", "1", "10", "1e3".
func FormatPowerOfTen(exp float64) string {
	e := int(math.Round(exp))
	switch e {
	case 0:
		return "1"
	case 1:
		return "10"
	}
	return "1e" + strconv.Itoa(e)
}

// FormatBytes renders a byte count with a binary unit: "512 B", "1.5 KiB".
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatUint(b, 10) + " B"
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
