package render

import (
	"fmt"
	"time"
)

const (
	minute = 60
	hour   = 60 * minute
	day    = 24 * hour
	month  = 30 * day
	year   = 365 * day
)

// TimeAgo formats the time elapsed since t as a coarse relative label.
// Months are 30 days and years 365 days; the label is not calendar aware.
// A t in the future reads "just now".
func TimeAgo(t, now time.Time) string {
	secs := int64(now.Sub(t) / time.Second)
	switch {
	case secs < minute:
		return "just now"
	case secs < hour:
		return fmt.Sprintf("%d minutes ago", secs/minute)
	case secs < day:
		return fmt.Sprintf("%d hours ago", secs/hour)
	case secs < month:
		return fmt.Sprintf("%d days ago", secs/day)
	case secs < year:
		return fmt.Sprintf("%d months ago", secs/month)
	default:
		return fmt.Sprintf("%d years ago", secs/year)
	}
}
