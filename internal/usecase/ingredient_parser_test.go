package usecase

import (
	"reflect"
	"testing"
)

func TestParseIngredientText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple comma list",
			text: "Sugar, Salt, Water",
			want: []string{"Sugar", "Salt", "Water"},
		},
		{
			name: "mixed delimiters",
			text: "Sugar, Salt; Water.",
			want: []string{"Sugar", "Salt", "Water"},
		},
		{
			name: "ingredients prefix stripped",
			text: "INGREDIENTS: Oats, Honey",
			want: []string{"Oats", "Honey"},
		},
		{
			name: "parentheticals removed",
			text: "Enriched Flour (bleached), Water",
			want: []string{"Enriched Flour", "Water"},
		},
		{
			name: "percentage annotations removed",
			text: "Tomatoes 80%, Basil 5%",
			want: []string{"Tomatoes", "Basil"},
		},
		{
			name: "percent-or-less boilerplate dropped",
			text: "Water, Contains 2% or less of: Salt, Yeast",
			want: []string{"Water", "Yeast"},
		},
		{
			name: "pipe and bullet delimiters",
			text: "Oats | Honey • Almonds",
			want: []string{"Oats", "Honey", "Almonds"},
		},
		{
			name: "hyphenated ingredient names survive",
			text: "Omega-3 Oil, Sea Salt",
			want: []string{"Omega-3 Oil", "Sea Salt"},
		},
		{
			name: "empty input",
			text: "   ",
			want: nil,
		},
		{
			name: "asterisk markers stripped",
			text: "Organic Oats*, Organic Honey*",
			want: []string{"Organic Oats", "Organic Honey"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIngredientText(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseIngredientText(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsNonIngredient(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"contains 2% or less of", true},
		{"CONTAINS 2% OR LESS OF", true},
		{"May Contain traces of peanuts", true},
		{"for color", true},
		{"as a preservative", true},
		{"Sugar", false},
		{"Organic Spinach", false},
		{"Sea Salt", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsNonIngredient(tt.text); got != tt.want {
				t.Errorf("IsNonIngredient(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsLikelyIngredient(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain ingredient", "Sugar", true},
		{"multi word ingredient", "High Fructose Corn Syrup", true},
		{"facility notice", "manufactured in a facility that also processes peanuts", false},
		{"nutrition facts fragment", "Serving Size 2 tbsp", false},
		{"storage instruction", "Keep Refrigerated", false},
		{"website", "visit www.example.com for recipes", false},
		{"unit of measure", "12 oz", false},
		{"pure number", "42", false},
		{"pure percentage", "15%", false},
		{"overlong sentence", "this token is far too long to be an actual ingredient name on any label", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLikelyIngredient(tt.text); got != tt.want {
				t.Errorf("IsLikelyIngredient(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCleanIngredientText(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Enriched Flour (wheat, barley)", "Enriched Flour"},
		{"Organic Oats*", "Organic Oats"},
		{"Tomatoes 80%", "Tomatoes"},
		{"  Sea   Salt  ", "Sea Salt"},
	}

	for _, tt := range tests {
		if got := CleanIngredientText(tt.text); got != tt.want {
			t.Errorf("CleanIngredientText(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
