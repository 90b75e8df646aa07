package ws

// ClientMsg é a mensagem enviada pelo cliente WebSocket
// Type: subscribe | unsubscribe | ping
// HomeTeam/AwayTeam: obrigatórios em subscribe/unsubscribe
type ClientMsg struct {
	Type     string `json:"type"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// ServerMsg cobre as respostas que não são atualizações de estatística
type ServerMsg struct {
	Type  string `json:"type"` // pong | error
	Error string `json:"error,omitempty"`
}
