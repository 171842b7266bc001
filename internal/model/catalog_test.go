package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummary_ID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "trailing slash", url: "https://pokeapi.co/api/v2/pokemon/25/", want: "25"},
		{name: "no trailing slash", url: "https://pokeapi.co/api/v2/pokemon/4", want: "4"},
		{name: "bare id", url: "7", want: "7"},
		{name: "empty", url: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary{Name: "x", URL: tt.url}.ID())
		})
	}
}

func TestSessionFlag_Present(t *testing.T) {
	assert.True(t, SessionFlag{Email: "a@b.c", Token: "t"}.Present())
	assert.False(t, SessionFlag{Email: "a@b.c"}.Present())
	assert.False(t, SessionFlag{Token: "t"}.Present())
	assert.False(t, SessionFlag{}.Present())
}
