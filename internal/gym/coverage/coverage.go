// Package coverage aggregates the muscles trained over a week.
package coverage

import (
	"time"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/gym/muscles"
)

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// WeekWindow returns the week holding now: Monday 00:00 in loc up to the
// Monday after.
func WeekWindow(now time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	sinceMonday := (int(local.Weekday()) + 6) % 7
	start := time.Date(local.Year(), local.Month(), local.Day()-sinceMonday, 0, 0, 0, 0, loc)
	return Window{
		Start: start,
		End:   start.AddDate(0, 0, 7),
	}
}

// ShiftWeeks moves w by n weeks. Moving past the week holding now gives that
// week instead.
func ShiftWeeks(w Window, n int, now time.Time) Window {
	loc := w.Start.Location()
	current := WeekWindow(now, loc)
	start := w.Start.AddDate(0, 0, 7*n)
	if start.After(current.Start) {
		return current
	}
	return Window{
		Start: start,
		End:   start.AddDate(0, 0, 7),
	}
}

// Aggregate unions the musclesWorked of the sessions started in [start, end).
func Aggregate(sessions []gym.Session, start, end time.Time) []string {
	w := Window{Start: start, End: end}
	lists := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		if w.Contains(s.StartedAt) {
			lists = append(lists, s.MusclesWorked)
		}
	}
	return muscles.Union(lists...)
}

// Week is the coverage of one week window.
type Week struct {
	Window
	// Offset in weeks from the current one, never positive.
	Offset       int      `json:"offset"`
	Current      bool     `json:"current"`
	Slugs        []string `json:"slugs"`
	Groups       []string `json:"groups"`
	SessionCount int      `json:"sessionCount"`
}

func buildWeek(w Window, offset int, sessions []gym.Session) Week {
	slugs := Aggregate(sessions, w.Start, w.End)
	count := 0
	for _, s := range sessions {
		if w.Contains(s.StartedAt) {
			count++
		}
	}
	return Week{
		Window:       w,
		Offset:       offset,
		Current:      offset == 0,
		Slugs:        slugs,
		Groups:       muscles.SlugsToGroups(slugs),
		SessionCount: count,
	}
}
