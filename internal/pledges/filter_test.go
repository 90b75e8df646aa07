package pledges

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func str(s string) *string { return &s }

func TestListQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "no filters",
			filter:   Filter{},
			wantSQL:  "SELECT " + pledgeColumns + " FROM pledges WHERE 1=1 ORDER BY created_at DESC, id DESC",
			wantArgs: []any{},
		},
		{
			name:     "all filters keep fixed order",
			filter:   Filter{AwayTeam: str("B"), HomeTeam: str("A"), Phone: str("+1"), Username: str("alice")},
			wantSQL:  "SELECT " + pledgeColumns + " FROM pledges WHERE 1=1 AND username = $1 AND phone = $2 AND home_team = $3 AND away_team = $4 ORDER BY created_at DESC, id DESC",
			wantArgs: []any{"alice", "+1", "A", "B"},
		},
		{
			name:     "sparse filters",
			filter:   Filter{Phone: str("+1"), AwayTeam: str("B")},
			wantSQL:  "SELECT " + pledgeColumns + " FROM pledges WHERE 1=1 AND phone = $1 AND away_team = $2 ORDER BY created_at DESC, id DESC",
			wantArgs: []any{"+1", "B"},
		},
		{
			name:     "status contributes nothing",
			filter:   Filter{Status: str("open")},
			wantSQL:  "SELECT " + pledgeColumns + " FROM pledges WHERE 1=1 ORDER BY created_at DESC, id DESC",
			wantArgs: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := ListQuery(tt.filter)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestListQuery_Deterministic(t *testing.T) {
	f := Filter{Username: str("alice"), HomeTeam: str("A")}
	sql1, args1 := ListQuery(f)
	for i := 0; i < 50; i++ {
		sql, args := ListQuery(f)
		assert.Equal(t, sql1, sql)
		assert.Equal(t, args1, args)
	}
}

func TestRecentQuery(t *testing.T) {
	sql, args := RecentQuery()
	assert.Equal(t, "SELECT "+pledgeColumns+" FROM pledges WHERE 1=1 ORDER BY created_at DESC, id DESC LIMIT $1", sql)
	assert.Equal(t, []any{RecentLimit}, args)
}

func TestMatchQuery(t *testing.T) {
	draw := SelectionDraw
	sql, args := matchQuery("COUNT(*)", Match{HomeTeam: "A", AwayTeam: "B"}, &draw)
	assert.Equal(t, "SELECT COUNT(*) FROM pledges WHERE 1=1 AND home_team = $1 AND away_team = $2 AND selection = $3", sql)
	assert.Equal(t, []any{"A", "B", "draw"}, args)
}
