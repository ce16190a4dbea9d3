package bracket

import (
	"sort"

	"github.com/google/uuid"
)

// Bracket is the full set of matches of a single elimination tournament,
// ordered by round and then by match number.
type Bracket struct {
	Matches  []Match `json:"matches"`
	Finished bool    `json:"finished"`
}

// Rounds returns the round numbers present in the bracket in ascending order.
func (b Bracket) Rounds() []int {
	seen := make(map[int]bool)
	var rounds []int
	for _, m := range b.Matches {
		if !seen[m.Round] {
			seen[m.Round] = true
			rounds = append(rounds, m.Round)
		}
	}
	sort.Ints(rounds)
	return rounds
}

// LastRound returns the highest round number, or 0 for an empty bracket.
func (b Bracket) LastRound() int {
	last := 0
	for _, m := range b.Matches {
		if m.Round > last {
			last = m.Round
		}
	}
	return last
}

// Round returns the matches of round r sorted by match number.
func (b Bracket) Round(r int) []Match {
	var matches []Match
	for _, m := range b.Matches {
		if m.Round == r {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Number < matches[j].Number
	})
	return matches
}

func (b Bracket) Match(id uuid.UUID) (Match, bool) {
	if i := b.indexOf(id); i >= 0 {
		return b.Matches[i], true
	}
	return Match{}, false
}

// Champion returns the winner of the tournament once the bracket is finished.
func (b Bracket) Champion() (uuid.UUID, bool) {
	if !b.Finished {
		return uuid.Nil, false
	}
	final := b.Round(b.LastRound())
	if len(final) != 1 || final[0].Winner == nil {
		return uuid.Nil, false
	}
	return *final[0].Winner, true
}

// Participants returns every participant that holds a slot anywhere in the bracket.
func (b Bracket) Participants() map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool)
	for _, m := range b.Matches {
		for _, id := range m.Occupants() {
			ids[id] = true
		}
	}
	return ids
}

// NextPending returns the first undecided match in round/match order.
func (b Bracket) NextPending() (Match, bool) {
	for _, r := range b.Rounds() {
		for _, m := range b.Round(r) {
			if !m.Decided() {
				return m, true
			}
		}
	}
	return Match{}, false
}

// Clone returns a deep copy so callers can never alias another bracket's slots.
func (b Bracket) Clone() Bracket {
	c := Bracket{Finished: b.Finished}
	if b.Matches != nil {
		c.Matches = make([]Match, len(b.Matches))
		for i, m := range b.Matches {
			c.Matches[i] = m.clone()
		}
	}
	return c
}

func (b Bracket) indexOf(id uuid.UUID) int {
	for i := range b.Matches {
		if b.Matches[i].ID == id {
			return i
		}
	}
	return -1
}
