package usecase

import (
	"reflect"
	"testing"

	"github.com/petfit/backend/internal/domain"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Chicken Meal", "chicken meal"},
		{"  brown   rice\n\tpeas ", "brown rice peas"},
		{"닭고기,  쌀", "닭고기, 쌀"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizeText(tt.input); got != tt.want {
				t.Errorf("normalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIngredientText(t *testing.T) {
	c := &domain.ProductCandidate{
		IngredientsText: "Salmon, OATS",
		Parsed: domain.ParsedIngredients{
			IngredientsOrdered: []string{"Salmon", "Oats"},
		},
	}
	if got, want := ingredientText(c), "salmon oats salmon, oats"; got != want {
		t.Errorf("ingredientText() = %q, want %q", got, want)
	}
}

func TestSignificantTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"drops short tokens", "an ox Salmon", []string{"salmon"}},
		{"counts runes not bytes", "연어 오일 소고기", []string{"소고기"}},
		{"keeps three letter tokens", "pea soy", []string{"pea", "soy"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := significantTokens(tt.input, otherAllergyMinRunes); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("significantTokens(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDistinctFold(t *testing.T) {
	got := distinctFold([]string{"BHA", "bha", " ", "MSG", "Bha ", "msg"})
	if want := []string{"BHA", "MSG"}; !reflect.DeepEqual(got, want) {
		t.Errorf("distinctFold() = %q, want %q", got, want)
	}
}

func TestUnion(t *testing.T) {
	got := union([]string{"BEEF", "CHICKEN", ""}, []string{"CHICKEN", "CORN"})
	if want := []string{"BEEF", "CHICKEN", "CORN"}; !reflect.DeepEqual(got, want) {
		t.Errorf("union() = %v, want %v", got, want)
	}
	if got := union(nil, nil); len(got) != 0 {
		t.Errorf("union(nil, nil) = %v, want empty", got)
	}
}

func TestFirstMatch(t *testing.T) {
	text := normalizeText("Chicken, Corn Gluten, Wheat")

	if got, ok := firstMatch(text, []string{"soy", "WHEAT", "corn"}); !ok || got != "WHEAT" {
		t.Errorf("firstMatch() = %q, %v, want WHEAT, true", got, ok)
	}
	if _, ok := firstMatch(text, []string{"soy", ""}); ok {
		t.Error("firstMatch() matched an absent or blank needle")
	}
	if _, ok := firstMatch(text, nil); ok {
		t.Error("firstMatch(nil) should not match")
	}
}

func TestIntersects(t *testing.T) {
	if !intersects([]string{"BEEF"}, []string{"CHICKEN", "BEEF"}) {
		t.Error("expected intersection")
	}
	if intersects([]string{"BEEF"}, []string{"beef"}) {
		t.Error("codes are compared exactly")
	}
	if intersects(nil, []string{"BEEF"}) {
		t.Error("nil list should not intersect")
	}
}
