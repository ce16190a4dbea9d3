package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/MarcEnDev/trackanddecker/internal/bracket"
	"github.com/MarcEnDev/trackanddecker/internal/group"
	"github.com/MarcEnDev/trackanddecker/internal/middleware"
	users "github.com/MarcEnDev/trackanddecker/internal/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keepOrder struct{}

func (keepOrder) Shuffle(int, func(i, j int)) {}

func newGroup(t *testing.T, groupType group.Type, names ...string) *group.Group {
	t.Helper()
	g := &group.Group{ID: uuid.New(), Name: "Cup", Slug: "cup", Type: groupType}
	for _, n := range names {
		_, err := g.AddMember(n)
		require.NoError(t, err)
	}
	if groupType == group.Eliminatory {
		b, err := bracket.Seed(g.MemberIDs(), keepOrder{})
		require.NoError(t, err)
		g.Bracket = &b
	}
	return g
}

func render(t *testing.T, data GroupPageData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, GroupPage(data).Render(context.Background(), &buf))
	return buf.String()
}

func TestPrepareBracketData(t *testing.T) {
	g := newGroup(t, group.Eliminatory, "A", "B", "C")

	data := PrepareBracketData(g)
	require.Len(t, data.Rounds, 1)
	matches := data.Rounds[0].Matches
	require.Len(t, matches, 2)

	bye := matches[0]
	assert.True(t, bye.IsBye)
	assert.Equal(t, "C", bye.Seats[0].Name)
	assert.True(t, bye.Seats[0].IsWinner)
	assert.True(t, bye.Seats[1].Empty)
	assert.False(t, bye.Seats[0].Selectable)
	assert.False(t, bye.Next)
	assert.Equal(t, bracket.MatchFinished, bye.Status)

	assert.Equal(t, "A", matches[1].Seats[0].Name)
	assert.True(t, matches[1].Seats[0].Selectable)
	assert.True(t, matches[1].Next)
	assert.Nil(t, data.Champion)
}

func TestPrepareBracketData_League(t *testing.T) {
	g := newGroup(t, group.League, "A", "B")
	assert.Empty(t, PrepareBracketData(g).Rounds)
}

func TestNewGroupPageData_Editable(t *testing.T) {
	g := newGroup(t, group.League, "Ana", "Bo")
	ana, bo := g.Members[0].ID, g.Members[1].ID

	assert.True(t, NewGroupPageData(g, ana, ana, nil, nil).Editable)
	assert.False(t, NewGroupPageData(g, ana, bo, nil, nil).Editable)
	assert.False(t, NewGroupPageData(g, uuid.Nil, ana, nil, nil).Editable)

	require.NoError(t, g.Finish())
	assert.False(t, NewGroupPageData(g, ana, ana, nil, nil).Editable)
}

func TestGroupPage_League(t *testing.T) {
	g := newGroup(t, group.League, "Ana", "Bo")
	require.NoError(t, g.AddWin(g.Members[1].ID))
	ana := g.Members[0].ID
	decks := []group.Deck{{ID: "edgar", Name: "Edgar Markov"}}
	alerts := []group.MatchAlert{{User1: "Ana", User2: "Bo", SharedDecks: []string{"Edgar Markov", "Atraxa"}}}

	html := render(t, NewGroupPageData(g, ana, ana, decks, alerts))

	assert.Contains(t, html, "Signed in as: <strong>Ana</strong>")
	assert.Contains(t, html, "Score: 1")
	assert.Contains(t, html, "Ana's Profile")
	assert.Contains(t, html, `name="add_want"`)
	assert.Contains(t, html, "Edgar Markov, Atraxa")
	assert.NotContains(t, html, "This is me")
}

func TestGroupPage_Bracket(t *testing.T) {
	g := newGroup(t, group.Eliminatory, "A", "B")
	require.NoError(t, g.RecordWinner(g.Bracket.Matches[0].ID, g.Members[1].ID))

	html := render(t, NewGroupPageData(g, uuid.Nil, uuid.Nil, nil, nil))

	assert.Contains(t, html, "Tournament Winner")
	assert.Contains(t, html, "Round 1")
	assert.NotContains(t, html, "Set as Winner")
	assert.Contains(t, html, `class="seat loser"`)
}

func TestPagesShowSignedInUser(t *testing.T) {
	g := newGroup(t, group.League, "Ana", "Bo")
	ctx := middleware.WithUser(context.Background(), &users.User{ID: uuid.New(), Username: "marc"})

	var buf bytes.Buffer
	require.NoError(t, GroupPage(NewGroupPageData(g, uuid.Nil, uuid.Nil, nil, nil)).Render(ctx, &buf))
	assert.Contains(t, buf.String(), `<span class="user">marc</span>`)

	assert.NotContains(t, render(t, NewGroupPageData(g, uuid.Nil, uuid.Nil, nil, nil)), "Log out")
}
