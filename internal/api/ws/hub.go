package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/p2p-pledge-backend/pkg/contracts/events"
)

const writeWait = 5 * time.Second

// SnapshotFunc devolve as estatísticas atuais de uma partida
type SnapshotFunc func(ctx context.Context, homeTeam, awayTeam string) (any, error)

// conn serializa escritas; gorilla não aceita escritores concorrentes
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *conn) writeRaw(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, b)
}

// Hub gerencia conexões WebSocket e assinaturas por partida
// subs: chave da partida (events.MatchKey) -> conexões inscritas
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader
	snapshot SnapshotFunc // opcional

	mu   sync.RWMutex
	subs map[string]map[*conn]struct{}
}

func NewHub(log *zap.Logger, allowOrigin func(r *http.Request) bool, snapshot SnapshotFunc) *Hub {
	return &Hub{
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		snapshot: snapshot,
		subs:     make(map[string]map[*conn]struct{}),
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) { h.HandleWS(w, r) }

// HandleWS mantém a conexão até o cliente desconectar.
// Um cliente pode assinar várias partidas.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("ws upgrade failed", zap.Error(err))
		return
	}
	c := &conn{ws: ws}
	defer func() {
		h.drop(c)
		_ = ws.Close()
	}()

	for {
		var msg ClientMsg
		if err := ws.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "subscribe":
			if msg.HomeTeam == "" || msg.AwayTeam == "" {
				_ = c.writeJSON(ServerMsg{Type: "error", Error: "home_team and away_team are required"})
				continue
			}
			h.add(events.MatchKey(msg.HomeTeam, msg.AwayTeam), c)
			h.sendSnapshot(r.Context(), c, msg)
		case "unsubscribe":
			h.remove(events.MatchKey(msg.HomeTeam, msg.AwayTeam), c)
		case "ping":
			_ = c.writeJSON(ServerMsg{Type: "pong"})
		default:
			_ = c.writeJSON(ServerMsg{Type: "error", Error: "unknown message type"})
		}
	}
}

func (h *Hub) sendSnapshot(ctx context.Context, c *conn, msg ClientMsg) {
	if h.snapshot == nil {
		return
	}
	st, err := h.snapshot(ctx, msg.HomeTeam, msg.AwayTeam)
	if err != nil {
		h.log.Warn("ws snapshot failed", zap.Error(err))
		return
	}
	_ = c.writeJSON(events.StatsUpdate{Match: events.MatchKey(msg.HomeTeam, msg.AwayTeam), Payload: st})
}

func (h *Hub) add(key string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[key]; !ok {
		h.subs[key] = make(map[*conn]struct{})
	}
	h.subs[key][c] = struct{}{}
}

func (h *Hub) remove(key string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.subs[key]; ok {
		delete(m, c)
		if len(m) == 0 {
			delete(h.subs, key)
		}
	}
}

// drop remove a conexão de todas as assinaturas
func (h *Hub) drop(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key, set := range h.subs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, key)
		}
	}
}

// Subscribers conta as conexões inscritas numa partida
func (h *Hub) Subscribers(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[key])
}

// Broadcast envia a atualização para os inscritos na partida
func (h *Hub) Broadcast(update events.StatsUpdate) {
	h.mu.RLock()
	set := h.subs[update.Match]
	conns := make([]*conn, 0, len(set))
	for c := range set {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	b, err := json.Marshal(update)
	if err != nil {
		h.log.Error("ws marshal update", zap.Error(err))
		return
	}
	for _, c := range conns {
		if err := c.writeRaw(b); err != nil {
			h.log.Debug("ws write failed", zap.Error(err))
		}
	}
}
