package webhook

import "context"

const LeaderboardWebhookSchemaVersion = 1

type LeaderboardWebhookLevel struct {
	Participant string `json:"participant"`
	Attendances int    `json:"attendances"`
	Level       int    `json:"level"`
}

type LeaderboardWebhookPayload struct {
	SchemaVersion int                       `json:"schema_version"`
	Month         int                       `json:"month"`
	Year          int                       `json:"year"`
	Levels        []LeaderboardWebhookLevel `json:"levels"`
}

type Sender interface {
	SendLeaderboard(ctx context.Context, payload LeaderboardWebhookPayload) error
}
