package youtube

import (
	"fmt"
	"strings"
)

// FormatISODuration converts an ISO-8601 video duration such as "PT1H2M3S"
// into a compact display string ("1:02:03", "4:13"). Returns "" for
// anything it cannot parse.
func FormatISODuration(iso string) string {
	if !strings.HasPrefix(iso, "P") {
		return ""
	}

	var days, hours, minutes, seconds int
	num := 0
	inTime := false
	sawField := false

	for _, r := range iso[1:] {
		switch {
		case r == 'T':
			inTime = true
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
		case r == 'D' && !inTime:
			days, num, sawField = num, 0, true
		case r == 'H' && inTime:
			hours, num, sawField = num, 0, true
		case r == 'M' && inTime:
			minutes, num, sawField = num, 0, true
		case r == 'S' && inTime:
			seconds, num, sawField = num, 0, true
		default:
			return ""
		}
	}
	if !sawField {
		return ""
	}

	hours += days * 24
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
