package pledges

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
	"github.com/radieske/p2p-pledge-backend/internal/shared/metrics"
	"github.com/radieske/p2p-pledge-backend/pkg/contracts/events"
)

// Repo define as operações de persistência usadas pelo serviço
type Repo interface {
	Create(ctx context.Context, n NewPledge) (*Pledge, error)
	List(ctx context.Context, f Filter) ([]Pledge, error)
	ByUser(ctx context.Context, username string) ([]Pledge, error)
	Recent(ctx context.Context) ([]Pledge, error)
}

// Publisher emite eventos de pledges criados
type Publisher interface {
	PublishPledgeCreated(ctx context.Context, e events.PledgeCreated) error
}

const publishTimeout = 2 * time.Second

// limites da coluna amount NUMERIC(18, 2)
const amountScale = 2

var maxAmount = decimal.New(1, 16)

// Service valida e registra pledges e responde às consultas
type Service struct {
	log  *zap.Logger
	repo Repo
	agg  *Aggregator
	publ Publisher // opcional
}

func NewService(log *zap.Logger, repo Repo, agg *Aggregator, publ Publisher) *Service {
	return &Service{log: log, repo: repo, agg: agg, publ: publ}
}

// Validate aplica as regras de criação sem tocar no banco
func Validate(n NewPledge) error {
	if n.Username == "" || n.Phone == "" || n.Selection == "" {
		return errs.Invalid(errs.ErrInvalidRequest, "username, phone and selection are required")
	}
	if !n.Selection.Valid() {
		return errs.Invalid(errs.ErrInvalidRequest, "selection %q not allowed", n.Selection)
	}
	if !n.Amount.IsPositive() {
		return errs.Invalid(errs.ErrInvalidRequest, "amount must be greater than zero")
	}
	if !n.Amount.Equal(n.Amount.Truncate(amountScale)) {
		return errs.Invalid(errs.ErrInvalidRequest, "amount must have at most %d decimal places", amountScale)
	}
	if n.Amount.GreaterThanOrEqual(maxAmount) {
		return errs.Invalid(errs.ErrInvalidRequest, "amount must be less than %s", maxAmount.String())
	}
	return nil
}

// Create persiste o pledge; cache e evento são efeitos best-effort
func (s *Service) Create(ctx context.Context, n NewPledge) (*Pledge, error) {
	if err := Validate(n); err != nil {
		return nil, err
	}

	pl, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	metrics.PledgesCreated.Inc()
	s.log.Info("pledge created",
		zap.Int64("pledge_id", pl.ID),
		zap.String("username", pl.Username),
		zap.String("amount", pl.Amount.String()))

	m := Match{HomeTeam: pl.HomeTeam, AwayTeam: pl.AwayTeam}
	if s.agg != nil && m.HomeTeam != "" && m.AwayTeam != "" {
		s.agg.Invalidate(ctx, m)
	}

	if s.publ != nil {
		pctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := s.publ.PublishPledgeCreated(pctx, events.PledgeCreated{
			PledgeID:  pl.ID,
			Username:  pl.Username,
			Selection: string(pl.Selection),
			Amount:    pl.Amount.String(),
			HomeTeam:  pl.HomeTeam,
			AwayTeam:  pl.AwayTeam,
			CreatedAt: pl.CreatedAt,
		}); err != nil {
			metrics.PledgeEventErrors.Inc()
			s.log.Warn("publish pledge_created failed", zap.Int64("pledge_id", pl.ID), zap.Error(err))
		}
	}

	return pl, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]Pledge, error) {
	return s.repo.List(ctx, f)
}

// ByUser exige o username
func (s *Service) ByUser(ctx context.Context, username string) ([]Pledge, error) {
	if username == "" {
		return nil, errs.Invalid(errs.ErrInvalidRequest, "username is required")
	}
	return s.repo.ByUser(ctx, username)
}

func (s *Service) Recent(ctx context.Context) ([]Pledge, error) {
	return s.repo.Recent(ctx)
}

func (s *Service) Stats(ctx context.Context, homeTeam, awayTeam string) (MatchStats, error) {
	if s.agg == nil {
		return MatchStats{}, fmt.Errorf("pledge stats: aggregator not configured")
	}
	return s.agg.Stats(ctx, homeTeam, awayTeam)
}
