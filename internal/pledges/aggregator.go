package pledges

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
	"github.com/radieske/p2p-pledge-backend/internal/shared/metrics"
)

// AggregateReader expõe as leituras agregadas sobre os pledges de uma partida
type AggregateReader interface {
	CountPledges(ctx context.Context, m Match) (int64, error)
	SumAmount(ctx context.Context, m Match) (decimal.Decimal, error)
	CountBySelection(ctx context.Context, m Match, sel Selection) (int64, error)
}

// StatsStore entrega um AggregateReader preso a um único snapshot
type StatsStore interface {
	ReadSnapshot(ctx context.Context, fn func(AggregateReader) error) error
}

// StatsCache guarda estatísticas já calculadas por partida
type StatsCache interface {
	Get(ctx context.Context, m Match) (*MatchStats, bool, error)
	Set(ctx context.Context, m Match, s MatchStats) error
	Invalidate(ctx context.Context, m Match) error
}

// Aggregator calcula contagem, soma e distribuição por seleção de uma partida
type Aggregator struct {
	log   *zap.Logger
	store StatsStore
	cache StatsCache // opcional
}

func NewAggregator(log *zap.Logger, store StatsStore, cache StatsCache) *Aggregator {
	return &Aggregator{log: log, store: store, cache: cache}
}

// Stats devolve as estatísticas da partida, preferencialmente do cache.
// Falha com ErrInvalidRequest se algum dos times estiver vazio.
func (a *Aggregator) Stats(ctx context.Context, homeTeam, awayTeam string) (MatchStats, error) {
	m, err := matchOf(homeTeam, awayTeam)
	if err != nil {
		return MatchStats{}, err
	}

	if a.cache != nil {
		cached, ok, err := a.cache.Get(ctx, m)
		switch {
		case err != nil:
			metrics.StatsCacheLookups.WithLabelValues("error").Inc()
			a.log.Warn("stats cache get failed", zap.Error(err))
		case ok:
			metrics.StatsCacheLookups.WithLabelValues("hit").Inc()
			return *cached, nil
		default:
			metrics.StatsCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	return a.Refresh(ctx, m)
}

// Refresh recalcula no banco e regrava o cache
func (a *Aggregator) Refresh(ctx context.Context, m Match) (MatchStats, error) {
	if _, err := matchOf(m.HomeTeam, m.AwayTeam); err != nil {
		return MatchStats{}, err
	}

	st, err := a.compute(ctx, m)
	if err != nil {
		return MatchStats{}, err
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, m, st); err != nil {
			a.log.Warn("stats cache set failed", zap.Error(err))
		}
	}
	return st, nil
}

// Invalidate remove a partida do cache; erros são apenas registrados
func (a *Aggregator) Invalidate(ctx context.Context, m Match) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Invalidate(ctx, m); err != nil {
		a.log.Warn("stats cache invalidate failed", zap.Error(err),
			zap.String("home_team", m.HomeTeam), zap.String("away_team", m.AwayTeam))
	}
}

func (a *Aggregator) compute(ctx context.Context, m Match) (MatchStats, error) {
	st := MatchStats{Match: m}
	err := a.store.ReadSnapshot(ctx, func(r AggregateReader) error {
		var err error
		if st.TotalPledges, err = r.CountPledges(ctx, m); err != nil {
			return err
		}
		if st.TotalAmount, err = r.SumAmount(ctx, m); err != nil {
			return err
		}
		if st.Breakdown.HomeTeam, err = r.CountBySelection(ctx, m, SelectionHome); err != nil {
			return err
		}
		if st.Breakdown.AwayTeam, err = r.CountBySelection(ctx, m, SelectionAway); err != nil {
			return err
		}
		st.Breakdown.Draw, err = r.CountBySelection(ctx, m, SelectionDraw)
		return err
	})
	if err != nil {
		return MatchStats{}, fmt.Errorf("pledge stats: %w", err)
	}

	// invariantes: breakdown <= total; total_amount == 0 sse total == 0
	if st.Breakdown.Sum() > st.TotalPledges {
		return MatchStats{}, fmt.Errorf("pledge stats: breakdown %d exceeds total %d", st.Breakdown.Sum(), st.TotalPledges)
	}
	if uncategorized := st.TotalPledges - st.Breakdown.Sum(); uncategorized > 0 {
		a.log.Warn("pledges with unknown selection",
			zap.Int64("count", uncategorized),
			zap.String("home_team", m.HomeTeam), zap.String("away_team", m.AwayTeam))
	}
	if st.TotalPledges == 0 {
		st.TotalAmount = decimal.Zero
	}
	return st, nil
}

func matchOf(homeTeam, awayTeam string) (Match, error) {
	if homeTeam == "" || awayTeam == "" {
		return Match{}, errs.Invalid(errs.ErrInvalidRequest, "home_team and away_team are required")
	}
	return Match{HomeTeam: homeTeam, AwayTeam: awayTeam}, nil
}
