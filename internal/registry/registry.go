package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"character-chat/internal/models"
)

// Registry is an immutable catalog of shows and their characters.
// It is constructed once at startup and injected into every component
// that needs character lookup.
type Registry struct {
	shows []models.Show
	byID  map[string]models.Character
	order []models.Character
}

// New creates a registry from a list of shows.
// Show order and per-show character order are preserved for lookups.
func New(shows []models.Show) (*Registry, error) {
	r := &Registry{
		shows: shows,
		byID:  make(map[string]models.Character),
	}

	for _, show := range shows {
		for _, ch := range show.Characters {
			if ch.ID == "" {
				return nil, fmt.Errorf("character %q in show %q has no id", ch.Name, show.ID)
			}
			if _, exists := r.byID[ch.ID]; exists {
				return nil, fmt.Errorf("duplicate character id %q", ch.ID)
			}
			r.byID[ch.ID] = ch
			r.order = append(r.order, ch)
		}
	}

	return r, nil
}

// LoadFile creates a registry from a YAML catalog file
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read show catalog: %w", err)
	}

	var catalog struct {
		Shows []models.Show `yaml:"shows"`
	}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse show catalog: %w", err)
	}

	return New(catalog.Shows)
}

// Shows returns all shows in declaration order
func (r *Registry) Shows() []models.Show {
	return r.shows
}

// ShowByID returns a show by its id
func (r *Registry) ShowByID(id string) (models.Show, bool) {
	for _, show := range r.shows {
		if show.ID == id {
			return show, true
		}
	}
	return models.Show{}, false
}

// All returns every character, shows in declaration order,
// characters in per-show declaration order
func (r *Registry) All() []models.Character {
	return r.order
}

// FindByID returns the character with the exact given id
func (r *Registry) FindByID(id string) (models.Character, bool) {
	ch, ok := r.byID[id]
	return ch, ok
}

// FindByName matches a character by name, case-insensitively.
// An exact name match always wins. Among substring matches the shortest
// name wins, with declaration order breaking remaining ties.
func (r *Registry) FindByName(name string) (models.Character, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return models.Character{}, false
	}

	var best models.Character
	found := false
	for _, ch := range r.order {
		lower := strings.ToLower(ch.Name)
		if lower == needle {
			return ch, true
		}
		if strings.Contains(lower, needle) {
			if !found || len(ch.Name) < len(best.Name) {
				best = ch
				found = true
			}
		}
	}

	return best, found
}
