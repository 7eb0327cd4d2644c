package numeric

import (
	"strings"

	"github.com/shopspring/decimal"
)

// The edit functions implement keystroke-level field editing with
// previous-value retention: a keystroke that would make the field
// unparseable is dropped and the previous text kept, while in-progress input
// such as a trailing dot survives verbatim. The previous value governing the
// decision is the one passed in, never a re-parse of the field, so decimal
// round-tripping cannot erase trailing zeros while the user is typing.

// ApplyEdit cleans a plain numeric field edit. Negative and non-numeric
// input reverts to prev.
func ApplyEdit(prev, next string) string {
	if next == "" {
		return next
	}
	probe := strings.TrimSpace(next)
	if strings.HasSuffix(probe, ".") {
		probe += "0"
	}
	value, err := decimal.NewFromString(probe)
	if err != nil || value.IsNegative() {
		return prev
	}
	return next
}

// ApplyEditOrPercent cleans a "value or percent" field edit: absent a
// percent sign it behaves like ApplyEdit; otherwise the numeric part is
// cleaned with percent signs stripped and a single trailing percent sign
// re-attached.
func ApplyEditOrPercent(prev, next string) string {
	if !strings.Contains(next, "%") {
		return ApplyEdit(prev, next)
	}
	cleaned := ApplyEdit(stripPercent(prev), stripPercent(next))
	if cleaned == "" {
		return ""
	}
	return cleaned + "%"
}

// ApplyPercent cleans a percent-only field edit; any non-empty value carries
// a trailing percent sign.
func ApplyPercent(prev, next string) string {
	if next == "" {
		return ""
	}
	cleaned := ApplyEdit(stripPercent(prev), stripPercent(next))
	if cleaned == "" {
		return ""
	}
	return cleaned + "%"
}

func stripPercent(s string) string {
	return strings.ReplaceAll(s, "%", "")
}
