package pledges

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/p2p-pledge-backend/pkg/contracts/events"
)

// KafkaPublisher publica pledge_created; a chave é a partida, mantendo
// os eventos de um mesmo jogo na mesma partição
type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: w}
}

func (p *KafkaPublisher) PublishPledgeCreated(ctx context.Context, e events.PledgeCreated) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal pledge_created: %w", err)
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(events.MatchKey(e.HomeTeam, e.AwayTeam)),
		Value: b,
		Headers: []kafka.Header{
			{Key: "pledge_id", Value: []byte(strconv.FormatInt(e.PledgeID, 10))},
		},
	})
}
