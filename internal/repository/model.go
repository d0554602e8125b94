package repository

import (
	"slices"
	"time"

	"github.com/foxseedlab/bootcampbot/internal/calendar"
)

type Session struct {
	ID           string        `json:"sessionId" yaml:"session_id"`
	Date         calendar.Date `json:"date" yaml:"date"`
	Participants []string      `json:"participants" yaml:"participants"`
	// Limit is the participant capacity; 0 means unlimited.
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`
	// MessageID references the rendered chat message, set by the presenter.
	MessageID string `json:"messageId,omitempty" yaml:"message_id,omitempty"`
}

func (s *Session) HasParticipant(user string) bool {
	return slices.Contains(s.Participants, user)
}

func (s *Session) IsFull() bool {
	return s.Limit > 0 && len(s.Participants) >= s.Limit
}

// AddParticipant appends user unless already present.
func (s *Session) AddParticipant(user string) bool {
	if s.HasParticipant(user) {
		return false
	}
	s.Participants = append(s.Participants, user)
	return true
}

func (s *Session) RemoveParticipant(user string) bool {
	idx := slices.Index(s.Participants, user)
	if idx < 0 {
		return false
	}
	s.Participants = slices.Delete(s.Participants, idx, idx+1)
	return true
}

func (s Session) Clone() Session {
	s.Participants = slices.Clone(s.Participants)
	if s.Participants == nil {
		s.Participants = []string{}
	}
	return s
}

type Schedule struct {
	User     string         `json:"user" yaml:"user"`
	Weekdays []time.Weekday `json:"weekdays" yaml:"weekdays"`
}

func (s *Schedule) Contains(weekday time.Weekday) bool {
	return slices.Contains(s.Weekdays, weekday)
}

// Add inserts weekday keeping Weekdays sorted and unique.
func (s *Schedule) Add(weekday time.Weekday) bool {
	idx, found := slices.BinarySearch(s.Weekdays, weekday)
	if found {
		return false
	}
	s.Weekdays = slices.Insert(s.Weekdays, idx, weekday)
	return true
}

func (s *Schedule) Remove(weekday time.Weekday) bool {
	idx := slices.Index(s.Weekdays, weekday)
	if idx < 0 {
		return false
	}
	s.Weekdays = slices.Delete(s.Weekdays, idx, idx+1)
	return true
}

func (s *Schedule) IsEmpty() bool {
	return len(s.Weekdays) == 0
}

// Normalize sorts and deduplicates Weekdays, e.g. after decoding stored data.
func (s *Schedule) Normalize() {
	slices.Sort(s.Weekdays)
	s.Weekdays = slices.Compact(s.Weekdays)
}

func (s Schedule) Clone() Schedule {
	s.Weekdays = slices.Clone(s.Weekdays)
	return s
}
