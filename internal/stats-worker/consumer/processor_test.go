package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/p2p-pledge-backend/internal/pledges"
	"github.com/radieske/p2p-pledge-backend/pkg/contracts/events"
)

type mockRefresher struct{ mock.Mock }

func (m *mockRefresher) Refresh(ctx context.Context, match pledges.Match) (pledges.MatchStats, error) {
	args := m.Called(ctx, match)
	st, _ := args.Get(0).(pledges.MatchStats)
	return st, args.Error(1)
}

type recordBroadcaster struct {
	mu   sync.Mutex
	sent [][]byte
	err  error
}

func (b *recordBroadcaster) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.sent = append(b.sent, payload)
	return nil
}

type recordDLQ struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (d *recordDLQ) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.msgs = append(d.msgs, msgs...)
	return nil
}

// sliceReader entrega as mensagens e depois bloqueia até o contexto acabar
type sliceReader struct {
	msgs []kafka.Message
}

func (r *sliceReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func pledgeMsg(t *testing.T, home, away string) kafka.Message {
	t.Helper()
	b, err := json.Marshal(events.PledgeCreated{PledgeID: 1, Username: "alice", Selection: "home_team", Amount: "50", HomeTeam: home, AwayTeam: away})
	require.NoError(t, err)
	return kafka.Message{Key: []byte(events.MatchKey(home, away)), Value: b}
}

func newProcessor(ref StatsRefresher, b Broadcaster, dlq DeadLetter) (*Processor, map[string]int) {
	stages := map[string]int{}
	var mu sync.Mutex
	return &Processor{
		Log:          zap.NewNop(),
		Stats:        ref,
		Broadcaster:  b,
		Channel:      "pledge_stats_broadcast",
		DLQ:          dlq,
		Retries:      2,
		RetryBackoff: time.Millisecond,
		OnError: func(stage string) {
			mu.Lock()
			stages[stage]++
			mu.Unlock()
		},
	}, stages
}

func TestHandle_RefreshesAndBroadcasts(t *testing.T) {
	ref := new(mockRefresher)
	ref.On("Refresh", mock.Anything, pledges.Match{HomeTeam: "A", AwayTeam: "B"}).Return(pledges.MatchStats{
		TotalPledges: 2,
		TotalAmount:  decimal.NewFromInt(80),
		Breakdown:    pledges.Breakdown{HomeTeam: 1, AwayTeam: 1},
		Match:        pledges.Match{HomeTeam: "A", AwayTeam: "B"},
	}, nil).Once()
	br := &recordBroadcaster{}
	p, _ := newProcessor(ref, br, nil)

	require.NoError(t, p.Handle(context.Background(), pledgeMsg(t, "A", "B")))

	require.Len(t, br.sent, 1)
	assert.JSONEq(t, `{
		"match": "A|B",
		"payload": {
			"total_pledges": 2,
			"total_amount": 80,
			"selection_breakdown": {"home_team": 1, "away_team": 1, "draw": 0},
			"match": {"home_team": "A", "away_team": "B"}
		}
	}`, string(br.sent[0]))
	ref.AssertExpectations(t)
}

func TestHandle_RetriesRefresh(t *testing.T) {
	ref := new(mockRefresher)
	m := pledges.Match{HomeTeam: "A", AwayTeam: "B"}
	ref.On("Refresh", mock.Anything, m).Return(pledges.MatchStats{}, errors.New("db down")).Twice()
	ref.On("Refresh", mock.Anything, m).Return(pledges.MatchStats{Match: m}, nil).Once()
	br := &recordBroadcaster{}
	p, stages := newProcessor(ref, br, nil)

	require.NoError(t, p.Handle(context.Background(), pledgeMsg(t, "A", "B")))
	assert.Len(t, br.sent, 1)
	assert.Zero(t, stages["refresh"])
	ref.AssertNumberOfCalls(t, "Refresh", 3)
}

func TestHandle_BroadcastFailureIsNotFatal(t *testing.T) {
	ref := new(mockRefresher)
	ref.On("Refresh", mock.Anything, mock.Anything).Return(pledges.MatchStats{}, nil)
	p, stages := newProcessor(ref, &recordBroadcaster{err: errors.New("redis down")}, nil)

	assert.NoError(t, p.Handle(context.Background(), pledgeMsg(t, "A", "B")))
	assert.Equal(t, 1, stages["broadcast"])
}

func TestHandle_SkipsPledgeWithoutMatch(t *testing.T) {
	ref := new(mockRefresher)
	br := &recordBroadcaster{}
	p, _ := newProcessor(ref, br, nil)

	require.NoError(t, p.Handle(context.Background(), pledgeMsg(t, "A", "")))
	ref.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
	assert.Empty(t, br.sent)
}

func TestRun_SendsFailuresToDLQ(t *testing.T) {
	ref := new(mockRefresher)
	ref.On("Refresh", mock.Anything, pledges.Match{HomeTeam: "C", AwayTeam: "D"}).Return(pledges.MatchStats{}, errors.New("db down"))
	ref.On("Refresh", mock.Anything, pledges.Match{HomeTeam: "A", AwayTeam: "B"}).Return(pledges.MatchStats{}, nil)
	br := &recordBroadcaster{}
	dlq := &recordDLQ{}
	p, stages := newProcessor(ref, br, dlq)
	p.Reader = &sliceReader{msgs: []kafka.Message{
		{Value: []byte("garbage")},
		pledgeMsg(t, "C", "D"),
		pledgeMsg(t, "A", "B"),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		br.mu.Lock()
		defer br.mu.Unlock()
		return len(br.sent) == 1
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	dlq.mu.Lock()
	defer dlq.mu.Unlock()
	require.Len(t, dlq.msgs, 2)
	assert.Equal(t, "garbage", string(dlq.msgs[0].Value))
	assert.Equal(t, "error", dlq.msgs[1].Headers[len(dlq.msgs[1].Headers)-1].Key)
	assert.Equal(t, 1, stages["decode"])
	assert.Equal(t, 1, stages["refresh"])
}
