// Package leaderboard ranks participants of one month by attendance.
package leaderboard

import (
	"sort"
	"time"

	"github.com/foxseedlab/bootcampbot/internal/calendar"
)

type Level struct {
	Participant string `json:"participant" yaml:"participant"`
	Attendances int    `json:"attendances" yaml:"attendances"`
	Level       int    `json:"level" yaml:"level"`
}

type Leaderboard struct {
	Month  time.Month `json:"month" yaml:"month"`
	Year   int        `json:"year" yaml:"year"`
	Levels []Level    `json:"levels" yaml:"levels"`
}

func New(month time.Month, year int) *Leaderboard {
	return &Leaderboard{Month: month, Year: year, Levels: []Level{}}
}

// AddAttendee counts one attendance for participant and recomputes the
// dense ranking: equal attendance shares a level, the next lower count gets
// the next level.
func (l *Leaderboard) AddAttendee(participant string) {
	found := false
	for i := range l.Levels {
		if l.Levels[i].Participant == participant {
			l.Levels[i].Attendances++
			found = true
			break
		}
	}
	if !found {
		l.Levels = append(l.Levels, Level{Participant: participant, Attendances: 1})
	}

	sort.SliceStable(l.Levels, func(i, j int) bool {
		return l.Levels[i].Attendances > l.Levels[j].Attendances
	})
	level := 0
	last := 0
	for i := range l.Levels {
		if l.Levels[i].Attendances != last {
			level++
			last = l.Levels[i].Attendances
		}
		l.Levels[i].Level = level
	}
}

func (l *Leaderboard) IsEmpty() bool {
	return len(l.Levels) == 0
}

// Attendance is one session's roster as seen by the leaderboard.
type Attendance struct {
	Date         calendar.Date
	Participants []string
}

// FromAttendances builds the board for month/year from every roster dated in
// that month and not after until. Rosters are counted in date order.
func FromAttendances(month time.Month, year int, attendances []Attendance, until calendar.Date) *Leaderboard {
	selected := make([]Attendance, 0, len(attendances))
	for _, a := range attendances {
		if a.Date.Month != month || a.Date.Year != year || until.Before(a.Date) {
			continue
		}
		selected = append(selected, a)
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Date.Before(selected[j].Date)
	})

	board := New(month, year)
	for _, a := range selected {
		for _, p := range a.Participants {
			board.AddAttendee(p)
		}
	}
	return board
}
