package games

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radieske/p2p-pledge-backend/internal/shared/query"
)

const gameColumns = `id, home_team, away_team, league, home_win, away_win, draw, date, status, created_at`

type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// ListQuery monta o SELECT filtrado por status e liga, mais recentes primeiro
func ListQuery(f Filter) (string, []any) {
	return query.New(`SELECT `+gameColumns+` FROM games`).
		Eq("status", f.Status).
		Eq("league", f.League).
		OrderBy("created_at DESC, id DESC").
		Build()
}

func (p *Postgres) List(ctx context.Context, f Filter) ([]Game, error) {
	q, args := ListQuery(f)
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	out := []Game{}
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.HomeTeam, &g.AwayTeam, &g.League, &g.HomeWin,
			&g.AwayWin, &g.Draw, &g.Date, &g.Status, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (p *Postgres) Create(ctx context.Context, n NewGame) (*Game, error) {
	g := Game{
		HomeTeam: n.HomeTeam, AwayTeam: n.AwayTeam, League: n.League,
		HomeWin: n.HomeWin, AwayWin: n.AwayWin, Draw: n.Draw, Date: n.Date,
		Status: StatusUpcoming,
	}
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO games (home_team, away_team, league, home_win, away_win, draw, date, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at`,
		g.HomeTeam, g.AwayTeam, g.League, g.HomeWin, g.AwayWin, g.Draw, g.Date, g.Status,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	return &g, nil
}
