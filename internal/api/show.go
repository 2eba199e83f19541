package api

import (
	"encoding/json"
	"net/http"

	"character-chat/internal/models"
	"character-chat/internal/registry"
)

// ShowHandler serves the show and character catalog
type ShowHandler struct {
	registry *registry.Registry
}

// NewShowHandler creates a new show handler
func NewShowHandler(reg *registry.Registry) *ShowHandler {
	return &ShowHandler{registry: reg}
}

// ShowResponse represents a show in API responses, without the character
// persona prompts
type ShowResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Image       string              `json:"image,omitempty"`
	Characters  []CharacterResponse `json:"characters"`
}

// CharacterResponse represents a character in API responses. Persona
// prompts stay server-side.
type CharacterResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar,omitempty"`
	BaseModel string `json:"base_model"`
}

func toCharacterResponse(ch models.Character) CharacterResponse {
	return CharacterResponse{
		ID:        ch.ID,
		Name:      ch.Name,
		Role:      ch.Role,
		Avatar:    ch.Avatar,
		BaseModel: ch.BaseModel,
	}
}

func toShowResponse(show models.Show) ShowResponse {
	resp := ShowResponse{
		ID:          show.ID,
		Name:        show.Name,
		Description: show.Description,
		Image:       show.Image,
		Characters:  make([]CharacterResponse, len(show.Characters)),
	}
	for i, ch := range show.Characters {
		resp.Characters[i] = toCharacterResponse(ch)
	}
	return resp
}

// List handles GET /api/shows
func (h *ShowHandler) List(w http.ResponseWriter, r *http.Request) {
	shows := h.registry.Shows()
	response := make([]ShowResponse, len(shows))
	for i, show := range shows {
		response[i] = toShowResponse(show)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Get handles GET /api/shows/{id}
func (h *ShowHandler) Get(w http.ResponseWriter, r *http.Request) {
	show, ok := h.registry.ShowByID(r.PathValue("id"))
	if !ok {
		http.Error(w, "Show not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toShowResponse(show))
}

// ListCharacters handles GET /api/characters
func (h *ShowHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	all := h.registry.All()
	response := make([]CharacterResponse, len(all))
	for i, ch := range all {
		response[i] = toCharacterResponse(ch)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetCharacter handles GET /api/characters/{id}
func (h *ShowHandler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.registry.FindByID(r.PathValue("id"))
	if !ok {
		http.Error(w, "Character not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toCharacterResponse(ch))
}
