package games

import "time"

const StatusUpcoming = "Upcoming"

// Game é uma partida cadastrada; odds e data chegam como texto livre do front
type Game struct {
	ID        int64     `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	League    string    `json:"league"`
	HomeWin   string    `json:"home_win"`
	AwayWin   string    `json:"away_win"`
	Draw      string    `json:"draw"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type NewGame struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	League   string `json:"league"`
	HomeWin  string `json:"home_win"`
	AwayWin  string `json:"away_win"`
	Draw     string `json:"draw"`
	Date     string `json:"date"`
}

// Filter: campos nil não filtram
type Filter struct {
	Status *string
	League *string
}
