package receipt

import (
	"testing"

	"contas/internal/core"
)

func TestMatchCard(t *testing.T) {
	cards := []core.Card{
		{ID: "card-1", Name: "Nubank", LastFour: "4821"},
		{ID: "card-2", Name: "Inter", LastFour: "9077"},
	}

	tests := []struct {
		name     string
		lastFour string
		wantID   string
		wantOK   bool
	}{
		{"exact match", "4821", "card-1", true},
		{"second card", "9077", "card-2", true},
		{"with spaces", " 4821 ", "card-1", true},
		{"unknown digits", "0000", "", false},
		{"too short", "21", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := MatchCard(tt.lastFour, cards)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("MatchCard(%q) = (%q, %v), want (%q, %v)", tt.lastFour, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestSuggestCategory(t *testing.T) {
	history := []core.Transaction{
		{Description: "Mercado Pão de Açúcar", CategoryID: "cat-mercado"},
		{Description: "Uber centro", CategoryID: "cat-transporte"},
		{Description: "Farmácia São João", CategoryID: "cat-saude"},
	}

	if id, ok := SuggestCategory("Mercado Pão de Açucar", history); !ok || id != "cat-mercado" {
		t.Errorf("near-identical description = (%q, %v), want cat-mercado", id, ok)
	}
	if id, ok := SuggestCategory("uber centro", history); !ok || id != "cat-transporte" {
		t.Errorf("case-insensitive match = (%q, %v), want cat-transporte", id, ok)
	}
	if _, ok := SuggestCategory("xyz", history); ok {
		t.Error("unrelated description should not match")
	}
	if _, ok := SuggestCategory("", history); ok {
		t.Error("empty description should not match")
	}
	if _, ok := SuggestCategory("Mercado", nil); ok {
		t.Error("empty history should not match")
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading prose", "Here you go: {\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.in); got != tt.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
