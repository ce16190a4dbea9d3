package views

import (
	"github.com/MarcEnDev/trackanddecker/internal/bracket"
	"github.com/MarcEnDev/trackanddecker/internal/group"
	"github.com/google/uuid"
)

type Seat struct {
	MemberID uuid.UUID
	Name     string
	Empty    bool
	IsWinner bool
	IsLoser  bool
	// Selectable seats get a "Set as Winner" button
	Selectable bool
}

type MatchView struct {
	ID     uuid.UUID
	Number int
	IsBye  bool
	Status bracket.MatchStatus
	// Next marks the first match still waiting for a result
	Next  bool
	Seats []Seat
}

type RoundView struct {
	Number  int
	Matches []MatchView
}

type BracketData struct {
	Rounds   []RoundView
	Champion *group.Member
}

// PrepareBracketData groups the bracket matches by round and resolves member
// names for display.
func PrepareBracketData(g *group.Group) BracketData {
	var data BracketData
	if g.Bracket == nil {
		return data
	}

	names := make(map[uuid.UUID]string, len(g.Members))
	for _, m := range g.Members {
		names[m.ID] = m.Name
	}

	next, hasNext := g.Bracket.NextPending()
	for _, r := range g.Bracket.Rounds() {
		round := RoundView{Number: r}
		for _, m := range g.Bracket.Round(r) {
			mv := matchView(m, names, g.Finished)
			mv.Next = hasNext && !g.Finished && m.ID == next.ID
			round.Matches = append(round.Matches, mv)
		}
		data.Rounds = append(data.Rounds, round)
	}

	if champion, ok := g.Champion(); ok {
		data.Champion = champion
	}
	return data
}

func matchView(m bracket.Match, names map[uuid.UUID]string, finished bool) MatchView {
	mv := MatchView{ID: m.ID, Number: m.Number, IsBye: m.IsBye, Status: m.Status()}
	for i, slot := range m.Slots {
		if slot == nil {
			mv.Seats = append(mv.Seats, Seat{Name: "BYE", Empty: true})
			continue
		}
		name, ok := names[*slot]
		if !ok {
			name = "Unknown player"
		}
		mv.Seats = append(mv.Seats, Seat{
			MemberID:   *slot,
			Name:       name,
			IsWinner:   m.IsWinner(i),
			IsLoser:    m.IsLoser(i),
			Selectable: !finished && !m.Decided(),
		})
	}
	return mv
}
