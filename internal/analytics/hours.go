package analytics

import (
	"fmt"
	"sort"
)

// HourCount is one hour-of-day bucket of the listening clock.
type HourCount struct {
	Hour  int
	Label string
	Count int
}

// TopHours picks the n busiest hours of an hour histogram, busiest first
// with earlier hours winning ties. Returns nil when nothing has been
// played.
func TopHours(hourCounts [24]int, n int) []HourCount {
	if n <= 0 {
		n = 3
	}

	var hours []HourCount
	for h, count := range hourCounts {
		if count == 0 {
			continue
		}
		hours = append(hours, HourCount{Hour: h, Label: hourLabel(h), Count: count})
	}
	if hours == nil {
		return nil
	}

	sort.SliceStable(hours, func(i, j int) bool { return hours[i].Count > hours[j].Count })
	if len(hours) > n {
		hours = hours[:n]
	}
	return hours
}

// hourLabel renders an hour in 12-hour clock form, e.g. "12am", "3pm".
func hourLabel(h int) string {
	suffix := "am"
	display := h
	switch {
	case h == 0:
		display = 12
	case h == 12:
		suffix = "pm"
	case h > 12:
		display = h - 12
		suffix = "pm"
	}
	return fmt.Sprintf("%d%s", display, suffix)
}
