package presenter

import (
	"context"

	"github.com/foxseedlab/bootcampbot/internal/leaderboard"
	"github.com/foxseedlab/bootcampbot/internal/repository"
)

// SessionPresenter owns the chat message of a session. PresentSession posts
// a new message when the session has none yet and records its id on the
// session; RepresentSession only refreshes an existing message.
type SessionPresenter interface {
	PresentSession(ctx context.Context, session *repository.Session) error
	RepresentSession(ctx context.Context, session *repository.Session) error
}

type HelpPrinter interface {
	PrintHelp(ctx context.Context, user, channel string) error
	PrintInfo(ctx context.Context, user, channel, message string) error
}

type LeaderboardPresenter interface {
	PresentLeaderboard(ctx context.Context, board *leaderboard.Leaderboard) error
	PresentLeaderboardForUser(ctx context.Context, board *leaderboard.Leaderboard, user, channel string) error
}
