package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foxseedlab/bootcampbot/internal/calendar"
	"github.com/foxseedlab/bootcampbot/internal/presenter"
	"github.com/foxseedlab/bootcampbot/internal/repository"
)

type ScheduleRequest struct {
	User    string
	Weekday string
	Channel string
}

// JoinSchedule adds a weekday to the user's recurring schedule, creating the
// schedule when the user has none.
func (s *Scheduler) JoinSchedule(ctx context.Context, req ScheduleRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	weekday, ok := s.scheduleWeekday(ctx, req)
	if !ok {
		return nil
	}
	schedule, err := s.scheduleRepo.LoadScheduleByUser(ctx, req.User)
	if err != nil {
		slog.Error("failed to load schedule", "error", err, "user_id", req.User)
		return fmt.Errorf("failed to load schedule for %s: %w", req.User, err)
	}
	if schedule == nil {
		schedule = &repository.Schedule{User: req.User}
	}
	if schedule.Add(weekday) {
		slog.Info("weekday added to schedule", "user_id", req.User, "weekday", weekday.String())
	}

	if err := s.saveSchedule(ctx, schedule); err != nil {
		s.info(ctx, req.User, req.Channel, messageSaveFailed)
		return err
	}
	s.info(ctx, req.User, req.Channel, fmt.Sprintf(messageScheduleJoinedFormat, weekdayList(schedule.Weekdays)))
	return nil
}

// QuitSchedule removes a weekday from the user's schedule and deletes the
// schedule once no weekday is left.
func (s *Scheduler) QuitSchedule(ctx context.Context, req ScheduleRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	weekday, ok := s.scheduleWeekday(ctx, req)
	if !ok {
		return nil
	}
	schedule, err := s.scheduleRepo.LoadScheduleByUser(ctx, req.User)
	if err != nil {
		slog.Error("failed to load schedule", "error", err, "user_id", req.User)
		return fmt.Errorf("failed to load schedule for %s: %w", req.User, err)
	}
	if schedule == nil {
		s.info(ctx, req.User, req.Channel, messageNoSchedule)
		return nil
	}
	if !schedule.Remove(weekday) {
		s.info(ctx, req.User, req.Channel, fmt.Sprintf(messageNotScheduledFormat, weekday.String()))
		return nil
	}
	slog.Info("weekday removed from schedule", "user_id", req.User, "weekday", weekday.String())

	if schedule.IsEmpty() {
		err := s.withRetry(ctx, "delete schedule", func(ctx context.Context) error {
			return s.scheduleRepo.DeleteSchedule(ctx, req.User)
		})
		if err != nil {
			slog.Error("failed to delete schedule", "error", err, "user_id", req.User)
			s.info(ctx, req.User, req.Channel, messageSaveFailed)
			return fmt.Errorf("failed to delete schedule for %s: %w", req.User, err)
		}
		s.info(ctx, req.User, req.Channel, messageScheduleCleared)
		return nil
	}

	if err := s.saveSchedule(ctx, schedule); err != nil {
		s.info(ctx, req.User, req.Channel, messageSaveFailed)
		return err
	}
	s.info(ctx, req.User, req.Channel, fmt.Sprintf(messageScheduleUpdatedFormat, weekdayList(schedule.Weekdays)))
	return nil
}

// scheduleWeekday parses the requested weekday and checks it against the
// configured bootcamp days.
func (s *Scheduler) scheduleWeekday(ctx context.Context, req ScheduleRequest) (time.Weekday, bool) {
	weekday, ok := calendar.ParseWeekday(req.Weekday)
	if ok {
		if _, allowed := s.weekdays[weekday]; allowed {
			return weekday, true
		}
	}
	if strings.TrimSpace(req.Weekday) == "" {
		s.info(ctx, req.User, req.Channel, fmt.Sprintf(messageMissingWeekdayFormat, s.allowedWeekdayList()))
		return 0, false
	}
	s.info(ctx, req.User, req.Channel, fmt.Sprintf(messageInvalidWeekdayFormat, title(req.Weekday), s.allowedWeekdayList()))
	return 0, false
}

func (s *Scheduler) allowedWeekdayList() string {
	weekdays := make([]time.Weekday, 0, len(s.weekdays))
	for w := range s.weekdays {
		weekdays = append(weekdays, w)
	}
	schedule := repository.Schedule{Weekdays: weekdays}
	schedule.Normalize()
	return weekdayList(schedule.Weekdays)
}

func (s *Scheduler) saveSchedule(ctx context.Context, schedule *repository.Schedule) error {
	snapshot := schedule.Clone()
	err := s.withRetry(ctx, "save schedule", func(ctx context.Context) error {
		return s.scheduleRepo.SaveSchedule(ctx, snapshot)
	})
	if err != nil {
		slog.Error("failed to save schedule", "error", err, "user_id", schedule.User)
		return fmt.Errorf("failed to save schedule for %s: %w", schedule.User, err)
	}
	return nil
}

func weekdayList(weekdays []time.Weekday) string {
	names := make([]string, 0, len(weekdays))
	for _, w := range weekdays {
		names = append(names, w.String())
	}
	return presenter.List(names)
}
