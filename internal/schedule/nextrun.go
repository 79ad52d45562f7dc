// Package schedule computes reminder next-run snapshots. It never fires
// anything: the result is a timestamp persisted at write time.
package schedule

import "time"

// NextRun returns base + everyMinutes, where base is startAt when it parses
// as RFC 3339 and now otherwise. A malformed startAt is not an error; rows
// with unparseable stored bounds recover by falling back to now.
func NextRun(startAt string, everyMinutes int, now time.Time) time.Time {
	base := now.UTC()
	if startAt != "" {
		if t, err := time.Parse(time.RFC3339, startAt); err == nil {
			base = t.UTC()
		}
	}
	return base.Add(time.Duration(everyMinutes) * time.Minute)
}

// NextRunAt is NextRun for an already-parsed optional start bound.
func NextRunAt(startAt *time.Time, everyMinutes int, now time.Time) time.Time {
	if startAt == nil {
		return NextRun("", everyMinutes, now)
	}
	return NextRun(startAt.UTC().Format(time.RFC3339), everyMinutes, now)
}
