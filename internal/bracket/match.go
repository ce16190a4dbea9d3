package bracket

import "github.com/google/uuid"

type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchFinished MatchStatus = "finished"
)

type Match struct {
	ID uuid.UUID `json:"id"`

	// Position in the bracket for reconstructing the view
	Round  int `json:"round"`
	Number int `json:"match"`

	// A nil slot is an empty seat, which only happens on byes
	Slots [2]*uuid.UUID `json:"participants"`

	Winner *uuid.UUID `json:"winner"`
	IsBye  bool       `json:"isBye"`
}

func (m *Match) Status() MatchStatus {
	if m.Winner != nil {
		return MatchFinished
	}
	return MatchPending
}

func (m *Match) Decided() bool {
	return m.Winner != nil
}

// Has reports whether the participant occupies one of the match slots.
func (m *Match) Has(participantID uuid.UUID) bool {
	for _, s := range m.Slots {
		if s != nil && *s == participantID {
			return true
		}
	}
	return false
}

// Occupants returns the populated slots in slot order.
func (m *Match) Occupants() []uuid.UUID {
	ids := make([]uuid.UUID, 0, 2)
	for _, s := range m.Slots {
		if s != nil {
			ids = append(ids, *s)
		}
	}
	return ids
}

func (m *Match) IsWinner(slot int) bool {
	if slot < 0 || slot > 1 || m.Winner == nil || m.Slots[slot] == nil {
		return false
	}
	return *m.Slots[slot] == *m.Winner
}

func (m *Match) IsLoser(slot int) bool {
	if slot < 0 || slot > 1 || m.Winner == nil || m.Slots[slot] == nil {
		return false
	}
	return *m.Slots[slot] != *m.Winner
}

func (m Match) clone() Match {
	c := m
	for i, s := range m.Slots {
		if s != nil {
			id := *s
			c.Slots[i] = &id
		}
	}
	if m.Winner != nil {
		w := *m.Winner
		c.Winner = &w
	}
	return c
}
