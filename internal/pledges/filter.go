package pledges

import "github.com/radieske/p2p-pledge-backend/internal/shared/query"

const pledgeColumns = `id, username, phone, selection, amount, time, fan, home_team, away_team, created_at, updated_at`

// mais recentes primeiro; id desempata pledges criados no mesmo instante
const newestFirst = "created_at DESC, id DESC"

// RecentLimit é o tamanho da lista de pledges recentes
const RecentLimit = 10

// ListQuery monta a consulta filtrada de pledges.
// Ordem fixa das cláusulas: username, phone, home_team, away_team.
// Status não gera cláusula.
func ListQuery(f Filter) (string, []any) {
	return query.New("SELECT "+pledgeColumns+" FROM pledges").
		Eq("username", f.Username).
		Eq("phone", f.Phone).
		Eq("home_team", f.HomeTeam).
		Eq("away_team", f.AwayTeam).
		OrderBy(newestFirst).
		Build()
}

// RecentQuery lista os últimos RecentLimit pledges
func RecentQuery() (string, []any) {
	return query.New("SELECT " + pledgeColumns + " FROM pledges").
		OrderBy(newestFirst).
		Limit(RecentLimit).
		Build()
}

// matchQuery restringe um agregado à partida e, opcionalmente, à seleção
func matchQuery(aggregate string, m Match, sel *Selection) (string, []any) {
	b := query.New("SELECT "+aggregate+" FROM pledges").
		EqValue("home_team", m.HomeTeam).
		EqValue("away_team", m.AwayTeam)
	if sel != nil {
		b.EqValue("selection", string(*sel))
	}
	return b.Build()
}
