package catalog

import (
	"net/url"
	"strings"
)

// ScryfallURL links a deck to an exact-name card search. Decks are named
// after their commander, so this lands on the card.
func ScryfallURL(deckName string) string {
	name := strings.TrimSpace(deckName)
	if name == "" {
		return ""
	}
	return "https://scryfall.com/search?q=" + url.QueryEscape(`!"`+name+`"`)
}
