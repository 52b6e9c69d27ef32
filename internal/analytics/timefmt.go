package analytics

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTime converts a "m:ss" or "h:mm:ss" duration string to seconds.
// Malformed input parses to 0 rather than failing the whole aggregation:
// time_spent is client-reported and historically unreliable.
func ParseTime(s string) int {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0
		}
		nums[i] = n
	}
	if len(nums) == 3 {
		return nums[0]*3600 + nums[1]*60 + nums[2]
	}
	return nums[0]*60 + nums[1]
}

// FormatTime renders seconds as "m:ss", or "h:mm:ss" once an hour is
// reached, so FormatTime(ParseTime(s)) round-trips for canonical input.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
