package group

import (
	"errors"
	"time"

	"github.com/MarcEnDev/trackanddecker/internal/bracket"
	"github.com/google/uuid"
)

type Type string

const (
	League      Type = "league"
	Eliminatory Type = "eliminatory"
)

func (t Type) Valid() bool {
	return t == League || t == Eliminatory
}

var (
	ErrGroupFinished   = errors.New("group is finished")
	ErrMemberNotFound  = errors.New("member not found")
	ErrWrongGroupType  = errors.New("operation not supported for this group type")
	ErrMemberInBracket = errors.New("member is part of the bracket")
	ErrNoBracket       = errors.New("group has no bracket")
)

type Deck struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Member is a participant of a group together with their deck profile.
type Member struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Score         int       `json:"score"`
	PreferredDeck *Deck     `json:"preferredDeck"`
	DecksIHave    []Deck    `json:"decksIHave"`
	DecksIWant    []Deck    `json:"decksIWant"`
}

func NewMember(name string) Member {
	return Member{
		ID:         uuid.New(),
		Name:       name,
		DecksIHave: []Deck{},
		DecksIWant: []Deck{},
	}
}

type Group struct {
	ID        uuid.UUID        `json:"id"`
	OwnerID   uuid.UUID        `json:"ownerId"`
	Name      string           `json:"name"`
	Slug      string           `json:"slug"`
	Type      Type             `json:"type"`
	Members   []Member         `json:"members"`
	Bracket   *bracket.Bracket `json:"bracket,omitempty"`
	Finished  bool             `json:"isFinished"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (g *Group) Member(id uuid.UUID) (*Member, bool) {
	for i := range g.Members {
		if g.Members[i].ID == id {
			return &g.Members[i], true
		}
	}
	return nil, false
}

func (g *Group) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// Leaders returns the league members sharing the highest positive score.
func (g *Group) Leaders() []Member {
	if g.Type != League {
		return nil
	}
	best := 0
	for _, m := range g.Members {
		if m.Score > best {
			best = m.Score
		}
	}
	if best == 0 {
		return nil
	}
	var leaders []Member
	for _, m := range g.Members {
		if m.Score == best {
			leaders = append(leaders, m)
		}
	}
	return leaders
}

// Champion returns the bracket winner of a finished eliminatory group.
func (g *Group) Champion() (*Member, bool) {
	if g.Bracket == nil {
		return nil, false
	}
	id, ok := g.Bracket.Champion()
	if !ok {
		return nil, false
	}
	return g.Member(id)
}

func (g *Group) AddMember(name string) (Member, error) {
	if g.Finished {
		return Member{}, ErrGroupFinished
	}
	m := NewMember(name)
	g.Members = append(g.Members, m)
	return m, nil
}

// RemoveMember drops a member from the roster. Members holding a bracket
// slot cannot be removed; the bracket would be left pointing at nobody.
func (g *Group) RemoveMember(id uuid.UUID) error {
	if g.Finished {
		return ErrGroupFinished
	}
	if _, ok := g.Member(id); !ok {
		return ErrMemberNotFound
	}
	if g.Bracket != nil && g.Bracket.Participants()[id] {
		return ErrMemberInBracket
	}
	members := make([]Member, 0, len(g.Members)-1)
	for _, m := range g.Members {
		if m.ID != id {
			members = append(members, m)
		}
	}
	g.Members = members
	return nil
}

func (g *Group) AddWin(memberID uuid.UUID) error {
	if g.Finished {
		return ErrGroupFinished
	}
	if g.Type != League {
		return ErrWrongGroupType
	}
	m, ok := g.Member(memberID)
	if !ok {
		return ErrMemberNotFound
	}
	m.Score++
	return nil
}

// Finish closes a league. Eliminatory groups finish through their bracket.
func (g *Group) Finish() error {
	if g.Finished {
		return ErrGroupFinished
	}
	if g.Type != League {
		return ErrWrongGroupType
	}
	g.Finished = true
	return nil
}

func (g *Group) RecordWinner(matchID, winnerID uuid.UUID) error {
	if g.Finished {
		return ErrGroupFinished
	}
	if g.Type != Eliminatory {
		return ErrWrongGroupType
	}
	if g.Bracket == nil {
		return ErrNoBracket
	}
	next, err := bracket.RecordWinner(*g.Bracket, matchID, winnerID)
	if err != nil {
		return err
	}
	g.Bracket = &next
	g.Finished = next.Finished
	return nil
}
