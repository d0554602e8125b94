package session

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	slashCommandDescription      = "Join or quit bootcamp sessions."
	slashOptionActionDescription = "join, quit, leaderboard or help"
	slashOptionWhenDescription   = "today, tomorrow, a weekday, or every <weekday>"

	messageJoinedFormat        = ":muscle: You joined the session on %s."
	messageAlreadyJoinedFormat = "You already joined the session on %s."
	messageSessionFullFormat   = ":no_entry: The session on %s is full (%d/%d)."
	messageQuitFormat          = "You are no longer joining the session on %s."
	messageNotJoinedFormat     = "You did not join the session on %s."

	messageNoUpcomingSession     = "There is no upcoming session."
	messageNoSessionTomorrow     = "There is no session tomorrow."
	messageNoSessionOnFormat     = "There is no session on %s."
	messageSessionGone           = "This session does not exist anymore."
	messageInvalidSelectorFormat = ":warning: I don't know which session %q is. Try today, tomorrow or a weekday like thursday."
	messageSaveFailed            = ":warning: Something went wrong and your change could not be saved. Please try again later."

	messageScheduleJoinedFormat  = ":calendar: You will join every %s."
	messageScheduleUpdatedFormat = ":calendar: You will now only join every %s."
	messageScheduleCleared       = "You are no longer on any schedule."
	messageNoSchedule            = "You are not on any schedule."
	messageNotScheduledFormat    = "You are not scheduled for %s."
	messageInvalidWeekdayFormat  = ":warning: %s is not a bootcamp day. Choose %s."
	messageMissingWeekdayFormat  = ":warning: Tell me which day, e.g. every monday. Choose %s."
)

func title(s string) string {
	return cases.Title(language.English).String(s)
}
