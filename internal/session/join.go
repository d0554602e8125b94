package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foxseedlab/bootcampbot/internal/repository"
)

// SessionRequest addresses a session either by SessionID or, when that is
// empty, by a date selector such as "tomorrow" or "thursday".
type SessionRequest struct {
	SessionID string
	Selector  string
	User      string
	Channel   string
}

// JoinSession adds the user to the resolved session. Lookup failures and
// rejected joins are reported to the user and do not return an error.
func (s *Scheduler) JoinSession(ctx context.Context, req SessionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.resolve(ctx, req)
	if !ok {
		return nil
	}
	date := session.Date.Human()
	if session.HasParticipant(req.User) {
		s.info(ctx, req.User, req.Channel, fmt.Sprintf(messageAlreadyJoinedFormat, date))
		return nil
	}
	if session.IsFull() {
		s.info(ctx, req.User, req.Channel, fmt.Sprintf(messageSessionFullFormat, date, len(session.Participants), session.Limit))
		return nil
	}

	session.AddParticipant(req.User)
	slog.Info("user joined session", "session_id", session.ID, "user_id", req.User, "date", session.Date.String())
	return s.commit(ctx, session, req, fmt.Sprintf(messageJoinedFormat, date))
}

// QuitSession removes the user from the resolved session.
func (s *Scheduler) QuitSession(ctx context.Context, req SessionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.resolve(ctx, req)
	if !ok {
		return nil
	}
	date := session.Date.Human()
	if !session.RemoveParticipant(req.User) {
		s.info(ctx, req.User, req.Channel, fmt.Sprintf(messageNotJoinedFormat, date))
		return nil
	}
	slog.Info("user quit session", "session_id", session.ID, "user_id", req.User, "date", session.Date.String())
	return s.commit(ctx, session, req, fmt.Sprintf(messageQuitFormat, date))
}

func (s *Scheduler) resolve(ctx context.Context, req SessionRequest) (*repository.Session, bool) {
	session, err := s.findSession(req.Selector, req.SessionID)
	if err == nil {
		return session, true
	}
	slog.Info("session lookup failed", "error", err, "selector", req.Selector, "session_id", req.SessionID, "user_id", req.User)
	s.info(ctx, req.User, req.Channel, s.lookupFailureMessage(err, req))
	return nil, false
}

func (s *Scheduler) lookupFailureMessage(err error, req SessionRequest) string {
	if errors.Is(err, ErrInvalidDateSelector) {
		return fmt.Sprintf(messageInvalidSelectorFormat, req.Selector)
	}
	if req.SessionID != "" {
		return messageSessionGone
	}
	switch strings.ToLower(strings.TrimSpace(req.Selector)) {
	case "", "today", "next", "now":
		return messageNoUpcomingSession
	case "tomorrow":
		return messageNoSessionTomorrow
	}
	return fmt.Sprintf(messageNoSessionOnFormat, title(req.Selector))
}

// commit re-renders the session, persists it and confirms to the user. The
// in-memory change is kept when the save fails.
func (s *Scheduler) commit(ctx context.Context, session *repository.Session, req SessionRequest, confirmation string) error {
	if err := s.presenter.RepresentSession(ctx, session); err != nil {
		slog.Error("failed to re-render session", "error", err, "session_id", session.ID)
	}
	if err := s.saveSession(ctx, session); err != nil {
		s.info(ctx, req.User, req.Channel, messageSaveFailed)
		return err
	}
	s.info(ctx, req.User, req.Channel, confirmation)
	return nil
}
