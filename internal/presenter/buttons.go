package presenter

import "strings"

const (
	ActionJoin = "bootcamp_join"
	ActionQuit = "bootcamp_quit"

	customIDSeparator = ":"
)

func buttonCustomID(action, sessionID string) string {
	return action + customIDSeparator + sessionID
}

// ParseButtonCustomID splits a custom id built for a session button into its
// action and session id.
func ParseButtonCustomID(customID string) (action, sessionID string, ok bool) {
	action, sessionID, found := strings.Cut(customID, customIDSeparator)
	if !found || sessionID == "" {
		return "", "", false
	}
	if action != ActionJoin && action != ActionQuit {
		return "", "", false
	}
	return action, sessionID, true
}
