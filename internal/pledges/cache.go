package pledges

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStatsCache guarda MatchStats serializadas em JSON com TTL
type RedisStatsCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStatsCache(c *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{Client: c, TTL: ttl}
}

// statsKey gera a chave Redis das estatísticas de uma partida
// Times escapados: ':' no nome não colide com o separador
func statsKey(m Match) string {
	return "pledge_stats:" + url.QueryEscape(m.HomeTeam) + ":" + url.QueryEscape(m.AwayTeam)
}

func (c *RedisStatsCache) Get(ctx context.Context, m Match) (*MatchStats, bool, error) {
	b, err := c.Client.Get(ctx, statsKey(m)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var st MatchStats
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, false, err
	}
	return &st, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, m Match, st MatchStats) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, statsKey(m), b, c.TTL).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, m Match) error {
	return c.Client.Del(ctx, statsKey(m)).Err()
}
