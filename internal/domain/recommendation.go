package domain

import "time"

// RecommendationStrategy identifies the algorithm that produced a run
type RecommendationStrategy string

const StrategyRuleV1 RecommendationStrategy = "RULE_V1"

// ScoringRequest is one pet scored against a batch of candidates
type ScoringRequest struct {
	Pet         PetProfile      `json:"pet" binding:"required"`
	Candidates  []CandidateItem `json:"candidates" binding:"required,min=1,dive"`
	Preferences Preferences     `json:"preferences"`
	Limit       int             `json:"limit,omitempty" binding:"omitempty,gte=1"`
}

// CandidateItem is a product in a scoring batch
type CandidateItem struct {
	ProductID      string           `json:"product_id" yaml:"product_id" binding:"required"`
	Candidate      ProductCandidate `json:"candidate" yaml:"candidate"`
	NutritionFacts *NutritionFacts  `json:"nutrition_facts,omitempty" yaml:"nutrition_facts"`
}

// RecommendationRun is the ranked output of one batch, kept for later auditing
type RecommendationRun struct {
	ID        string                 `json:"id"`
	PetID     string                 `json:"pet_id,omitempty"`
	Strategy  RecommendationStrategy `json:"strategy"`
	Context   RunContext             `json:"context"`
	Items     []RecommendationItem   `json:"items"`
	Excluded  int                    `json:"excluded"`
	CreatedAt time.Time              `json:"created_at"`
}

// RunContext snapshots the inputs that shaped a run
type RunContext struct {
	Preferences        Preferences `json:"preferences"`
	ExcludedAllergens  []string    `json:"excluded_allergens"`
	HarmfulIngredients int         `json:"harmful_ingredients"`
	CandidateCount     int         `json:"candidate_count"`
}

// RecommendationItem is a ranked product with its explanation trail
type RecommendationItem struct {
	ProductID       string          `json:"product_id"`
	Rank            int             `json:"rank"`
	Score           float64         `json:"score"`
	SafetyScore     float64         `json:"safety_score"`
	FitnessScore    float64         `json:"fitness_score"`
	Reasons         []string        `json:"reasons"`
	ScoreComponents ScoreComponents `json:"score_components"`
}
