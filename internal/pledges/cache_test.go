package pledges

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsKey(t *testing.T) {
	assert.Equal(t, "pledge_stats:Arsenal:Chelsea", statsKey(Match{HomeTeam: "Arsenal", AwayTeam: "Chelsea"}))

	a := statsKey(Match{HomeTeam: "Real:B", AwayTeam: "C"})
	b := statsKey(Match{HomeTeam: "Real", AwayTeam: "B:C"})
	assert.NotEqual(t, a, b, "separator inside a team name must not merge matches")

	assert.NotEqual(t,
		statsKey(Match{HomeTeam: "Real Madrid", AwayTeam: "X"}),
		statsKey(Match{HomeTeam: "Real+Madrid", AwayTeam: "X"}))
}
