package events

import "net/url"

// StatsUpdate é o payload publicado no canal Redis de estatísticas
// Match segue o formato "<home_team>|<away_team>", cada time escapado com url.QueryEscape
type StatsUpdate struct {
	Match   string      `json:"match"`
	Payload interface{} `json:"payload"`
}

// MatchKey gera a chave canônica de uma partida
// O escape impede que um "|" dentro do nome confunda duas partidas
func MatchKey(homeTeam, awayTeam string) string {
	return url.QueryEscape(homeTeam) + "|" + url.QueryEscape(awayTeam)
}
