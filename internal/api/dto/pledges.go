package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/radieske/p2p-pledge-backend/internal/pledges"
)

// CreatePledgeRequest aceita amount como número ou string decimal
type CreatePledgeRequest struct {
	Username  string          `json:"username"`
	Phone     string          `json:"phone"`
	Selection string          `json:"selection"`
	Amount    decimal.Decimal `json:"amount"`
	Fan       string          `json:"fan"`
	HomeTeam  string          `json:"home_team"`
	AwayTeam  string          `json:"away_team"`
}

func (r CreatePledgeRequest) ToModel() pledges.NewPledge {
	return pledges.NewPledge{
		Username:  r.Username,
		Phone:     r.Phone,
		Selection: pledges.Selection(r.Selection),
		Amount:    r.Amount,
		Fan:       r.Fan,
		HomeTeam:  r.HomeTeam,
		AwayTeam:  r.AwayTeam,
	}
}

type PledgeResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Phone     string    `json:"phone"`
	Selection string    `json:"selection"`
	Amount    float64   `json:"amount"`
	Time      time.Time `json:"time"`
	Fan       string    `json:"fan"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewPledgeResponse(p *pledges.Pledge) PledgeResponse {
	return PledgeResponse{
		ID:        p.ID,
		Username:  p.Username,
		Phone:     p.Phone,
		Selection: string(p.Selection),
		Amount:    p.Amount.InexactFloat64(),
		Time:      p.Time,
		Fan:       p.Fan,
		HomeTeam:  p.HomeTeam,
		AwayTeam:  p.AwayTeam,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewPledgeList(list []pledges.Pledge) []PledgeResponse {
	out := make([]PledgeResponse, 0, len(list))
	for i := range list {
		out = append(out, NewPledgeResponse(&list[i]))
	}
	return out
}
