// Package catalog serves the list of decks members can pick from. The list
// comes from a decks.json file and is reloaded periodically.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/MarcEnDev/trackanddecker/internal/group"
	"github.com/MarcEnDev/trackanddecker/internal/metrics"
)

type Catalog struct {
	path string

	mu    sync.RWMutex
	decks []group.Deck
	byID  map[string]group.Deck
}

// Load reads the catalog file. A catalog that fails to load is an error at
// start-up; later reloads keep the previous list instead.
func Load(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// New builds an in-memory catalog, mostly for tests.
func New(decks []group.Deck) *Catalog {
	c := &Catalog{}
	c.set(decks)
	return c
}

func (c *Catalog) Reload() error {
	if c.path == "" {
		return nil
	}
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("failed to read deck catalog: %w", err)
	}
	decks, err := Parse(raw)
	if err != nil {
		return err
	}
	c.set(decks)
	slog.Debug("deck catalog loaded", "path", c.path, "decks", len(decks))
	return nil
}

// Parse decodes a decks.json document, dropping entries without id or name
// and duplicate ids.
func Parse(raw []byte) ([]group.Deck, error) {
	var decks []group.Deck
	if err := json.Unmarshal(raw, &decks); err != nil {
		return nil, fmt.Errorf("failed to parse deck catalog: %w", err)
	}

	seen := make(map[string]bool, len(decks))
	valid := decks[:0]
	for _, d := range decks {
		d.ID = strings.TrimSpace(d.ID)
		d.Name = strings.TrimSpace(d.Name)
		if d.ID == "" || d.Name == "" || seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		valid = append(valid, d)
	}
	return valid, nil
}

func (c *Catalog) set(decks []group.Deck) {
	sorted := make([]group.Deck, len(decks))
	copy(sorted, decks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	byID := make(map[string]group.Deck, len(sorted))
	for _, d := range sorted {
		byID[d.ID] = d
	}

	c.mu.Lock()
	c.decks = sorted
	c.byID = byID
	c.mu.Unlock()

	metrics.CatalogDecks.Set(float64(len(sorted)))
}

// All returns the decks sorted by name.
func (c *Catalog) All() []group.Deck {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]group.Deck, len(c.decks))
	copy(out, c.decks)
	return out
}

func (c *Catalog) Lookup(id string) (group.Deck, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.byID[id]
	return d, ok
}

// Search matches the query as a case-insensitive substring of the deck name.
func (c *Catalog) Search(query string) []group.Deck {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []group.Deck
	for _, d := range c.decks {
		if strings.Contains(strings.ToLower(d.Name), q) {
			out = append(out, d)
		}
	}
	return out
}
