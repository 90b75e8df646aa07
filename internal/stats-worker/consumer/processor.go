package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/p2p-pledge-backend/internal/pledges"
	"github.com/radieske/p2p-pledge-backend/pkg/contracts/events"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// StatsRefresher recalcula e regrava no cache as estatísticas da partida
type StatsRefresher interface {
	Refresh(ctx context.Context, m pledges.Match) (pledges.MatchStats, error)
}

type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// DeadLetter recebe mensagens que esgotaram as tentativas
type DeadLetter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

var errUndecodable = errors.New("undecodable message")

// Processor consome pledge_created, recalcula as estatísticas da partida e
// publica o resultado no canal Redis lido pela API
type Processor struct {
	Log         *zap.Logger
	Reader      MessageReader
	Stats       StatsRefresher
	Broadcaster Broadcaster
	Channel     string
	DLQ         DeadLetter // opcional

	Retries        int
	RetryBackoff   time.Duration
	PublishTimeout time.Duration

	OnConsumed  func()       // métricas
	OnCached    func()       // métricas
	OnBroadcast func()       // métricas
	OnError     func(string) // métricas por fase
}

// Run executa o loop de consumo até o contexto ser cancelado
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			if !sleep(ctx, 500*time.Millisecond) {
				return ctx.Err()
			}
			continue
		}

		if err := p.Handle(ctx, m); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Error("pledge_created not processed",
				zap.Int64("offset", m.Offset),
				zap.Error(err))
			p.deadLetter(ctx, m, err)
		}
	}
}

// Handle processa uma mensagem; refresh tem retry, broadcast é best-effort
func (p *Processor) Handle(ctx context.Context, m kafka.Message) error {
	if p.OnConsumed != nil {
		p.OnConsumed()
	}

	var ev events.PledgeCreated
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		p.fail("decode")
		return fmt.Errorf("%w: %v", errUndecodable, err)
	}
	if ev.HomeTeam == "" || ev.AwayTeam == "" {
		// pledge sem partida não entra em nenhuma estatística
		p.Log.Debug("pledge without match skipped", zap.Int64("pledge_id", ev.PledgeID))
		return nil
	}

	match := pledges.Match{HomeTeam: ev.HomeTeam, AwayTeam: ev.AwayTeam}
	st, err := p.refresh(ctx, match)
	if err != nil {
		p.fail("refresh")
		return err
	}
	if p.OnCached != nil {
		p.OnCached()
	}

	b, err := json.Marshal(events.StatsUpdate{
		Match:   events.MatchKey(match.HomeTeam, match.AwayTeam),
		Payload: st.View(),
	})
	if err != nil {
		p.fail("encode")
		return err
	}

	pctx, cancel := context.WithTimeout(ctx, p.publishTimeout())
	defer cancel()
	if err := p.Broadcaster.Publish(pctx, p.Channel, b); err != nil {
		p.Log.Warn("stats broadcast publish failed", zap.Error(err))
		p.fail("broadcast")
		return nil
	}
	if p.OnBroadcast != nil {
		p.OnBroadcast()
	}
	return nil
}

func (p *Processor) refresh(ctx context.Context, m pledges.Match) (pledges.MatchStats, error) {
	st, err := p.Stats.Refresh(ctx, m)
	for i := 0; err != nil && i < p.Retries; i++ {
		if !sleep(ctx, time.Duration(i+1)*p.RetryBackoff) {
			return pledges.MatchStats{}, ctx.Err()
		}
		st, err = p.Stats.Refresh(ctx, m)
	}
	return st, err
}

func (p *Processor) deadLetter(ctx context.Context, m kafka.Message, cause error) {
	if p.DLQ == nil {
		return
	}
	msg := kafka.Message{
		Key:   m.Key,
		Value: m.Value,
		Headers: append(m.Headers, kafka.Header{
			Key: "error", Value: []byte(cause.Error()),
		}),
		Time: time.Now(),
	}
	if err := p.DLQ.WriteMessages(ctx, msg); err != nil {
		p.Log.Error("dlq write failed", zap.Error(err))
		p.fail("dlq")
	}
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}

func (p *Processor) publishTimeout() time.Duration {
	if p.PublishTimeout > 0 {
		return p.PublishTimeout
	}
	return 500 * time.Millisecond
}

// sleep retorna false se o contexto terminou antes
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
