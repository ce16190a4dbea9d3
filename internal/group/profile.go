package group

import "github.com/google/uuid"

// ProfileUpdate carries a single edit of a member's deck profile. Empty
// fields are left alone.
type ProfileUpdate struct {
	PreferredDeck *Deck
	AddHave       *Deck
	RemoveHave    string
	AddWant       *Deck
	RemoveWant    string
}

// MatchAlert tells two members that they want the same decks.
type MatchAlert struct {
	User1       string   `json:"user1"`
	User2       string   `json:"user2"`
	SharedDecks []string `json:"sharedDecks"`
}

// UpdateProfile applies the edit and reports members who also want a newly
// wanted deck.
func (g *Group) UpdateProfile(memberID uuid.UUID, u ProfileUpdate) ([]MatchAlert, error) {
	if g.Finished {
		return nil, ErrGroupFinished
	}
	m, ok := g.Member(memberID)
	if !ok {
		return nil, ErrMemberNotFound
	}

	if u.PreferredDeck != nil {
		d := *u.PreferredDeck
		m.PreferredDeck = &d
	}
	if u.AddHave != nil {
		m.DecksIHave = addDeck(m.DecksIHave, *u.AddHave)
	}
	if u.RemoveHave != "" {
		m.DecksIHave = removeDeck(m.DecksIHave, u.RemoveHave)
	}
	if u.RemoveWant != "" {
		m.DecksIWant = removeDeck(m.DecksIWant, u.RemoveWant)
	}

	var alerts []MatchAlert
	if u.AddWant != nil && !hasDeck(m.DecksIWant, u.AddWant.ID) {
		m.DecksIWant = append(m.DecksIWant, *u.AddWant)
		alerts = g.wantAlerts(*m, *u.AddWant)
	}
	return alerts, nil
}

func (g *Group) wantAlerts(updated Member, deck Deck) []MatchAlert {
	var alerts []MatchAlert
	for _, other := range g.Members {
		if other.ID == updated.ID || !hasDeck(other.DecksIWant, deck.ID) {
			continue
		}
		alerts = append(alerts, MatchAlert{
			User1:       updated.Name,
			User2:       other.Name,
			SharedDecks: sharedDeckNames(updated.DecksIWant, other.DecksIWant),
		})
	}
	return alerts
}

func sharedDeckNames(a, b []Deck) []string {
	var names []string
	for _, d := range a {
		if hasDeck(b, d.ID) {
			names = append(names, d.Name)
		}
	}
	return names
}

func hasDeck(decks []Deck, id string) bool {
	for _, d := range decks {
		if d.ID == id {
			return true
		}
	}
	return false
}

func addDeck(decks []Deck, d Deck) []Deck {
	if hasDeck(decks, d.ID) {
		return decks
	}
	return append(decks, d)
}

func removeDeck(decks []Deck, id string) []Deck {
	kept := make([]Deck, 0, len(decks))
	for _, d := range decks {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	return kept
}
