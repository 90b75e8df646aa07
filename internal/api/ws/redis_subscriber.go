package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/p2p-pledge-backend/pkg/contracts/events"
)

// StartRedisSubscriber escuta o canal de estatísticas e repassa cada
// atualização ao Hub até o contexto ser cancelado
func StartRedisSubscriber(ctx context.Context, log *zap.Logger, r *redis.Client, channel string, hub *Hub) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				HandleMessage(log, hub, []byte(msg.Payload))
			}
		}
	}()
}

// HandleMessage decodifica um StatsUpdate e faz o broadcast
func HandleMessage(log *zap.Logger, hub *Hub, payload []byte) {
	var upd events.StatsUpdate
	if err := json.Unmarshal(payload, &upd); err != nil {
		log.Warn("ws subscriber unmarshal error", zap.Error(err))
		return
	}
	if upd.Match == "" {
		log.Warn("ws subscriber update without match")
		return
	}
	hub.Broadcast(upd)
}
