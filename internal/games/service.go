package games

import (
	"context"

	"go.uber.org/zap"

	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
)

type Repo interface {
	List(ctx context.Context, f Filter) ([]Game, error)
	Create(ctx context.Context, n NewGame) (*Game, error)
}

type Service struct {
	log  *zap.Logger
	repo Repo
}

func NewService(log *zap.Logger, repo Repo) *Service {
	return &Service{log: log, repo: repo}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Game, error) {
	return s.repo.List(ctx, f)
}

// Create exige times e liga; o status inicial é sempre Upcoming
func (s *Service) Create(ctx context.Context, n NewGame) (*Game, error) {
	if n.HomeTeam == "" || n.AwayTeam == "" || n.League == "" {
		return nil, errs.Invalid(errs.ErrInvalidRequest, "home_team, away_team and league are required")
	}
	g, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	s.log.Info("game created",
		zap.Int64("game_id", g.ID),
		zap.String("home_team", g.HomeTeam),
		zap.String("away_team", g.AwayTeam))
	return g, nil
}
