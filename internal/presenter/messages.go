package presenter

import (
	"fmt"
	"strings"

	"github.com/foxseedlab/bootcampbot/internal/leaderboard"
)

const (
	messageIntroToday         = "**Ready to sweat today?** :hot_face:"
	messageIntroFormat        = "Who joined on %s:"
	messageNobodyJoining      = "_Nobody is joining so far..._"
	messageOneJoiningFormat   = "%s is joining :muscle:%s"
	messageManyJoiningFormat  = "%s are joining%s"
	messageLimitFormat        = " (%d/%d)"
	messageLeaderboardIntro   = "**Here is the leaderboard for %s %d** :fire:"
	messageLeaderboardEmpty   = "_Nobody attended a session yet._"
	messageLeaderboardLineFmt = "• %s %s: %d %s"

	buttonLabelJoin = "Join Bootcamp"
	buttonLabelQuit = "Stay Home"
)

const messageHelp = "**Here's how to use the Bootcamp Bot**\n\n" +
	"To join the next session:\n" +
	"```/bootcamp join```\n" +
	"To remove yourself from the next session:\n" +
	"```/bootcamp quit```\n" +
	"You can also specify a date to join or quit a session. Here are a few examples:\n" +
	"```/bootcamp join thursday\n/bootcamp quit tomorrow\n/bootcamp join monday\n/bootcamp quit tuesday```\n" +
	"To join every week on a fixed day, use a schedule:\n" +
	"```/bootcamp join every monday\n/bootcamp quit every monday```\n" +
	"To see who attended the most this month:\n" +
	"```/bootcamp leaderboard```"

// Mention renders a user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// List joins items as English prose: "a", "a and b", "a, b and c".
func List(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func renderParticipants(participants []string, limit int) string {
	if len(participants) == 0 {
		return messageNobodyJoining
	}
	limitText := ""
	if limit > 0 {
		limitText = fmt.Sprintf(messageLimitFormat, len(participants), limit)
	}
	if len(participants) == 1 {
		return fmt.Sprintf(messageOneJoiningFormat, Mention(participants[0]), limitText)
	}
	mentions := make([]string, 0, len(participants))
	for _, p := range participants {
		mentions = append(mentions, Mention(p))
	}
	return fmt.Sprintf(messageManyJoiningFormat, List(mentions), limitText)
}

func renderLevelNumber(level int) string {
	switch level {
	case 1:
		return ":first_place_medal:"
	case 2:
		return ":second_place_medal:"
	case 3:
		return ":third_place_medal:"
	default:
		return fmt.Sprintf(":medal:%d)", level)
	}
}

func renderLeaderboard(board *leaderboard.Leaderboard) string {
	lines := []string{fmt.Sprintf(messageLeaderboardIntro, board.Month, board.Year), ""}
	if board.IsEmpty() {
		lines = append(lines, messageLeaderboardEmpty)
	}
	for _, l := range board.Levels {
		noun := "attendances"
		if l.Attendances == 1 {
			noun = "attendance"
		}
		lines = append(lines, fmt.Sprintf(messageLeaderboardLineFmt, renderLevelNumber(l.Level), Mention(l.Participant), l.Attendances, noun))
	}
	return strings.Join(lines, "\n")
}
