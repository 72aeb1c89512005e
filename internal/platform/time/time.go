// Package time contains time related helpers
package time

import "time"

// MonthStart returns midnight on the first day of t's month as seen in loc
// a nil loc means UTC
func MonthStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	n := t.In(loc)
	return time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, loc)
}
