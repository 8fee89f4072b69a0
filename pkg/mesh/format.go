package mesh

import (
	"strconv"
	"strings"
)

// numberPrecision is the number of decimals kept in document text.
const numberPrecision = 6

// FormatNumber renders v the way part documents write numbers: no
// trailing zeros, no decimal point on integers, and no leading zero
// before the point ("0.5" is ".5", "-0.5" is "-.5").
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', numberPrecision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	switch {
	case s == "-0" || s == "":
		return "0"
	case strings.HasPrefix(s, "0."):
		return s[1:]
	case strings.HasPrefix(s, "-0."):
		return "-" + s[2:]
	}
	return s
}
