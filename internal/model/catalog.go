package model

import (
	"context"
	"strings"
)

// CatalogClient fetches creature pages and details from the remote catalog.
type CatalogClient interface {
	ListPage(ctx context.Context, offset, limit int) (Page, error)
	GetDetail(ctx context.Context, idOrName string) (Detail, error)
}

// Summary is one catalog entry as it appears in a list page.
type Summary struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ID returns the stable identifier encoded as the last path segment of URL.
func (s Summary) ID() string {
	trimmed := strings.TrimRight(s.URL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// Page is a single list response.
type Page struct {
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []Summary `json:"results"`
}

// Detail is the full description of a single catalog entry.
type Detail struct {
	ID             int
	Name           string
	Height         int
	Weight         int
	BaseExperience int
	Sprites        Sprites
	Abilities      []Ability
	Types          []Type
	Stats          []Stat
}

// Sprites holds image URLs. Any of them may be empty.
type Sprites struct {
	FrontDefault string
	BackDefault  string
	FrontShiny   string
	BackShiny    string
	Artwork      string
}

type Ability struct {
	Name     string
	IsHidden bool
	Slot     int
}

type Type struct {
	Name string
	Slot int
}

type Stat struct {
	Name     string
	BaseStat int
	Effort   int
}
