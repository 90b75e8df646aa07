package pledges

import (
	"time"

	"github.com/shopspring/decimal"
)

// Selection é o resultado escolhido no pledge
type Selection string

const (
	SelectionHome Selection = "home_team"
	SelectionAway Selection = "away_team"
	SelectionDraw Selection = "draw"
)

// Valid informa se a seleção pertence ao conjunto permitido
func (s Selection) Valid() bool {
	switch s {
	case SelectionHome, SelectionAway, SelectionDraw:
		return true
	}
	return false
}

// Pledge é o modelo persistido no Postgres.
// Username/Phone/HomeTeam/AwayTeam são cópias, sem FK para users ou games.
type Pledge struct {
	ID        int64
	Username  string
	Phone     string
	Selection Selection
	Amount    decimal.Decimal
	Time      time.Time
	Fan       string
	HomeTeam  string
	AwayTeam  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPledge é a entrada de criação
type NewPledge struct {
	Username  string
	Phone     string
	Selection Selection
	Amount    decimal.Decimal
	Fan       string
	HomeTeam  string
	AwayTeam  string
}

// Filter traz os filtros opcionais da listagem; nil = ausente
type Filter struct {
	Username *string
	Phone    *string
	HomeTeam *string
	AwayTeam *string
	Status   *string // aceito por compatibilidade; pledges não têm status
}

// Match identifica uma partida pelos times
type Match struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// Breakdown conta pledges por seleção
type Breakdown struct {
	HomeTeam int64 `json:"home_team"`
	AwayTeam int64 `json:"away_team"`
	Draw     int64 `json:"draw"`
}

func (b Breakdown) Sum() int64 { return b.HomeTeam + b.AwayTeam + b.Draw }

// MatchStats agrega os pledges de uma partida
type MatchStats struct {
	TotalPledges int64           `json:"total_pledges"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Breakdown    Breakdown       `json:"selection_breakdown"`
	Match        Match           `json:"match"`
}

// StatsView é o formato público das estatísticas (total_amount numérico)
type StatsView struct {
	TotalPledges int64     `json:"total_pledges"`
	TotalAmount  float64   `json:"total_amount"`
	Breakdown    Breakdown `json:"selection_breakdown"`
	Match        Match     `json:"match"`
}

func (s MatchStats) View() StatsView {
	return StatsView{
		TotalPledges: s.TotalPledges,
		TotalAmount:  s.TotalAmount.InexactFloat64(),
		Breakdown:    s.Breakdown,
		Match:        s.Match,
	}
}
