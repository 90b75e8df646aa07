package events

import "time"

// Evento publicado no tópico "pledge_created" após persistir um pledge
type PledgeCreated struct {
	PledgeID  int64     `json:"pledge_id"`
	Username  string    `json:"username"`
	Selection string    `json:"selection"` // "home_team" | "away_team" | "draw"
	Amount    string    `json:"amount"`    // decimal serializado como string
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	CreatedAt time.Time `json:"created_at"`
	TsUnixMs  int64     `json:"ts_unix_ms"`
}
