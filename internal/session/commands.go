package session

import (
	"context"
	"fmt"
	"strings"
)

// Command is one of the events the scheduler reacts to.
type Command interface {
	isCommand()
}

type JoinCommand struct{ Request SessionRequest }

type QuitCommand struct{ Request SessionRequest }

type JoinScheduleCommand struct{ Request ScheduleRequest }

type QuitScheduleCommand struct{ Request ScheduleRequest }

type HelpCommand struct{ User, Channel string }

type LeaderboardCommand struct{ User, Channel string }

type TickCommand struct{}

func (JoinCommand) isCommand()         {}
func (QuitCommand) isCommand()         {}
func (JoinScheduleCommand) isCommand() {}
func (QuitScheduleCommand) isCommand() {}
func (HelpCommand) isCommand()         {}
func (LeaderboardCommand) isCommand()  {}
func (TickCommand) isCommand()         {}

const everyKeyword = "every"

// ParseCommand reads the command text surface:
//
//	join [<selector>|every <weekday>]
//	quit [<selector>|every <weekday>]
//	leaderboard
//	help
//
// Anything unrecognised is answered with help.
func ParseCommand(text, user, channel string) Command {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return HelpCommand{User: user, Channel: channel}
	}

	verb, args := fields[0], fields[1:]
	switch verb {
	case "join", "quit":
		if len(args) > 0 && args[0] == everyKeyword {
			req := ScheduleRequest{User: user, Weekday: strings.Join(args[1:], " "), Channel: channel}
			if verb == "join" {
				return JoinScheduleCommand{Request: req}
			}
			return QuitScheduleCommand{Request: req}
		}
		req := SessionRequest{Selector: strings.Join(args, " "), User: user, Channel: channel}
		if verb == "join" {
			return JoinCommand{Request: req}
		}
		return QuitCommand{Request: req}
	case "leaderboard":
		return LeaderboardCommand{User: user, Channel: channel}
	default:
		return HelpCommand{User: user, Channel: channel}
	}
}

// Dispatch routes a command to the matching scheduler operation.
func (s *Scheduler) Dispatch(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case JoinCommand:
		return s.JoinSession(ctx, c.Request)
	case QuitCommand:
		return s.QuitSession(ctx, c.Request)
	case JoinScheduleCommand:
		return s.JoinSchedule(ctx, c.Request)
	case QuitScheduleCommand:
		return s.QuitSchedule(ctx, c.Request)
	case HelpCommand:
		s.PrintHelp(ctx, c.User, c.Channel)
		return nil
	case LeaderboardCommand:
		s.ShowLeaderboard(ctx, c.User, c.Channel)
		return nil
	case TickCommand:
		return s.OnTick(ctx)
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}
