package usecase

import (
	"math"
	"reflect"
	"testing"

	"github.com/petfit/backend/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func speciesPtr(s domain.Species) *domain.Species { return &s }

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

// testPet is a 10kg intact adult dog with no concerns or allergies
func testPet() *domain.PetProfile {
	return &domain.PetProfile{
		ID:       "pet-1",
		Species:  domain.SpeciesDog,
		AgeStage: domain.AgeStageAdult,
		WeightKg: 10,
	}
}

// testCandidate declares an empty allergen list so no keyword hints are added
func testCandidate() *domain.ProductCandidate {
	return &domain.ProductCandidate{
		ProductName: "Plain Kibble",
		Parsed: domain.ParsedIngredients{
			PotentialAllergens: []string{},
			LifeStage:          domain.LifeStageAdult,
		},
	}
}

func assertReasons(t *testing.T, got, want []string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reasons = %q, want %q", got, want)
	}
}

func hasReason(reasons []string, want string) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}
