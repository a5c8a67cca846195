package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/petfit/backend/internal/domain"
)

// Scenario is one pet, its preferences and the products to rank, read from YAML
type Scenario struct {
	Pet                domain.PetProfile      `yaml:"pet"`
	Preferences        domain.Preferences     `yaml:"preferences"`
	Limit              int                    `yaml:"limit"`
	HarmfulIngredients []string               `yaml:"harmful_ingredients"`
	AllergenKeywords   map[string][]string    `yaml:"allergen_keywords"`
	Candidates         []domain.CandidateItem `yaml:"candidates"`
}

// LoadScenario reads and checks a scenario file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes YAML and checks the fields scoring depends on
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	switch s.Pet.Species {
	case domain.SpeciesDog, domain.SpeciesCat:
	default:
		return fmt.Errorf("pet.species must be DOG or CAT, got %q", s.Pet.Species)
	}
	if s.Pet.AgeStage != "" && !s.Pet.AgeStage.Valid() {
		return fmt.Errorf("pet.age_stage must be PUPPY, ADULT or SENIOR, got %q", s.Pet.AgeStage)
	}
	if s.Pet.WeightKg <= 0 {
		return fmt.Errorf("pet.weight_kg must be positive")
	}
	if len(s.Candidates) == 0 {
		return fmt.Errorf("at least one candidate is required")
	}
	seen := make(map[string]bool, len(s.Candidates))
	for i, c := range s.Candidates {
		if c.ProductID == "" {
			return fmt.Errorf("candidates[%d].product_id is required", i)
		}
		if seen[c.ProductID] {
			return fmt.Errorf("duplicate product_id %q", c.ProductID)
		}
		seen[c.ProductID] = true
	}
	if s.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	return nil
}

// Request converts the scenario into a scoring request
func (s *Scenario) Request() *domain.ScoringRequest {
	return &domain.ScoringRequest{
		Pet:         s.Pet,
		Candidates:  s.Candidates,
		Preferences: s.Preferences,
		Limit:       s.Limit,
	}
}
