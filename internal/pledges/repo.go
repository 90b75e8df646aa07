package pledges

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// queryer é satisfeito por *sql.DB e *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres implementa a persistência e os agregados de pledges
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de pledges
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Create insere o pledge e devolve a linha gravada
func (p *Postgres) Create(ctx context.Context, n NewPledge) (*Pledge, error) {
	row := p.db.QueryRowContext(ctx, `
		INSERT INTO pledges (username, phone, selection, amount, time, fan, home_team, away_team, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),$5,$6,$7,NOW(),NOW())
		RETURNING `+pledgeColumns,
		n.Username, n.Phone, string(n.Selection), n.Amount, n.Fan, n.HomeTeam, n.AwayTeam,
	)
	pl, err := scanPledge(row)
	if err != nil {
		return nil, fmt.Errorf("insert pledge: %w", err)
	}
	return pl, nil
}

// List executa a consulta filtrada (mais recentes primeiro)
func (p *Postgres) List(ctx context.Context, f Filter) ([]Pledge, error) {
	q, args := ListQuery(f)
	return p.queryAll(ctx, q, args...)
}

// ByUser lista o histórico de um usuário
func (p *Postgres) ByUser(ctx context.Context, username string) ([]Pledge, error) {
	return p.List(ctx, Filter{Username: &username})
}

// Recent lista os últimos pledges registrados
func (p *Postgres) Recent(ctx context.Context) ([]Pledge, error) {
	q, args := RecentQuery()
	return p.queryAll(ctx, q, args...)
}

// ReadSnapshot executa fn numa transação READ ONLY / REPEATABLE READ,
// garantindo que todos os agregados enxerguem o mesmo snapshot
func (p *Postgres) ReadSnapshot(ctx context.Context, fn func(AggregateReader) error) error {
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if err := fn(aggregates{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *Postgres) queryAll(ctx context.Context, q string, args ...any) ([]Pledge, error) {
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query pledges: %w", err)
	}
	defer rows.Close()

	out := []Pledge{}
	for rows.Next() {
		pl, err := scanPledge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pledge: %w", err)
		}
		out = append(out, *pl)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPledge(s scanner) (*Pledge, error) {
	var pl Pledge
	var sel string
	if err := s.Scan(&pl.ID, &pl.Username, &pl.Phone, &sel, &pl.Amount, &pl.Time, &pl.Fan,
		&pl.HomeTeam, &pl.AwayTeam, &pl.CreatedAt, &pl.UpdatedAt); err != nil {
		return nil, err
	}
	pl.Selection = Selection(sel)
	return &pl, nil
}

// aggregates implementa AggregateReader sobre uma conexão ou transação
type aggregates struct{ q queryer }

func (a aggregates) CountPledges(ctx context.Context, m Match) (int64, error) {
	return a.count(ctx, m, nil)
}

func (a aggregates) CountBySelection(ctx context.Context, m Match, sel Selection) (int64, error) {
	return a.count(ctx, m, &sel)
}

// SumAmount devolve 0 quando a partida ainda não tem pledges
func (a aggregates) SumAmount(ctx context.Context, m Match) (decimal.Decimal, error) {
	q, args := matchQuery("COALESCE(SUM(amount), 0)", m, nil)
	var sum decimal.Decimal
	if err := a.q.QueryRowContext(ctx, q, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum pledges: %w", err)
	}
	return sum, nil
}

func (a aggregates) count(ctx context.Context, m Match, sel *Selection) (int64, error) {
	q, args := matchQuery("COUNT(*)", m, sel)
	var n int64
	if err := a.q.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pledges: %w", err)
	}
	return n, nil
}
