package matchmaking

import (
	"fmt"
)

const (
	STATUS_PROCESSING = "Processing"
	STATUS_MATCHED    = "Matched"
)

// PlayerNotification is published to a player's own channel when
// matchmaking starts processing their cohort and again when they are
// matched
type PlayerNotification struct {
	Status       string   `json:"status"`
	MatchedUsers []string `json:"matchedUsers,omitempty"`
	Lobby        string   `json:"lobby,omitempty"`
	Opponent     string   `json:"opponent,omitempty"`
}

// LobbyAnnouncement is published on the freshly derived lobby channel
type LobbyAnnouncement struct {
	Status string `json:"status"`
}

// MatchReport is the per-match summary published to the reporting channel
type MatchReport struct {
	SessionID string  `json:"sessionId"`
	Player1   string  `json:"player1"`
	Player2   string  `json:"player2"`
	SkillGap  float64 `json:"skillGap"`
	AvgSkill  float64 `json:"avgSkill"`
}

// LobbyChannel derives the per-pair lobby channel name, deterministic for a
// given pairing order
func LobbyChannel(player1ID string, player2ID string) string {
	return fmt.Sprintf("game-lobby-%s-%s", player1ID, player2ID)
}
