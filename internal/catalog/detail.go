package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dtroode/pokedex-client/internal/model"
)

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type detailPayload struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Height         int    `json:"height"`
	Weight         int    `json:"weight"`
	BaseExperience *int   `json:"base_experience"`
	Sprites        struct {
		FrontDefault *string `json:"front_default"`
		BackDefault  *string `json:"back_default"`
		FrontShiny   *string `json:"front_shiny"`
		BackShiny    *string `json:"back_shiny"`
	} `json:"sprites"`
	Abilities []struct {
		Ability  namedResource `json:"ability"`
		IsHidden bool          `json:"is_hidden"`
		Slot     int           `json:"slot"`
	} `json:"abilities"`
	Types []struct {
		Slot int           `json:"slot"`
		Type namedResource `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int           `json:"base_stat"`
		Effort   int           `json:"effort"`
		Stat     namedResource `json:"stat"`
	} `json:"stats"`
}

// artworkPath locates the official artwork nested under sprites.other.
const artworkPath = "sprites.other.official-artwork.front_default"

func decodeDetail(body []byte) (model.Detail, error) {
	var p detailPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return model.Detail{}, fmt.Errorf("failed to decode pokemon detail: %w", err)
	}

	d := model.Detail{
		ID:     p.ID,
		Name:   p.Name,
		Height: p.Height,
		Weight: p.Weight,
		Sprites: model.Sprites{
			FrontDefault: deref(p.Sprites.FrontDefault),
			BackDefault:  deref(p.Sprites.BackDefault),
			FrontShiny:   deref(p.Sprites.FrontShiny),
			BackShiny:    deref(p.Sprites.BackShiny),
			Artwork:      gjson.GetBytes(body, artworkPath).String(),
		},
		Abilities: make([]model.Ability, 0, len(p.Abilities)),
		Types:     make([]model.Type, 0, len(p.Types)),
		Stats:     make([]model.Stat, 0, len(p.Stats)),
	}
	if p.BaseExperience != nil {
		d.BaseExperience = *p.BaseExperience
	}

	for _, a := range p.Abilities {
		d.Abilities = append(d.Abilities, model.Ability{Name: a.Ability.Name, IsHidden: a.IsHidden, Slot: a.Slot})
	}
	for _, t := range p.Types {
		d.Types = append(d.Types, model.Type{Name: t.Type.Name, Slot: t.Slot})
	}
	for _, s := range p.Stats {
		d.Stats = append(d.Stats, model.Stat{Name: s.Stat.Name, BaseStat: s.BaseStat, Effort: s.Effort})
	}

	return d, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
