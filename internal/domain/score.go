package domain

// ExcludedScore is the total score sentinel for candidates that must not be ranked
const ExcludedScore = -1.0

// ScoreResult is the outcome of scoring one candidate for one pet
type ScoreResult struct {
	SafetyScore  float64         `json:"safety_score"`
	FitnessScore float64         `json:"fitness_score"`
	AgePenalty   float64         `json:"age_penalty"`
	TotalScore   float64         `json:"total_score"`
	Reasons      []string        `json:"reasons"`
	Components   ScoreComponents `json:"score_components"`
}

// Excluded reports whether the candidate carries the exclusion sentinel
func (r *ScoreResult) Excluded() bool {
	return r.TotalScore == ExcludedScore
}

// ScoreComponents is the per-rule breakdown persisted with a recommendation item
type ScoreComponents struct {
	Preset WeightsPreset `json:"preset"`

	// Safety
	HardExcluded      bool    `json:"hard_excluded"`
	Allergy           float64 `json:"allergy"`
	SoftAvoidPenalty  float64 `json:"soft_avoid_penalty"`
	Harmful           float64 `json:"harmful"`
	HarmfulMatches    int     `json:"harmful_matches"`
	SafePresetPenalty float64 `json:"safe_preset_penalty"`
	Quality           float64 `json:"quality"`

	// Fitness
	SpeciesMismatch bool    `json:"species_mismatch"`
	Species         float64 `json:"species"`
	AgeStage        float64 `json:"age_stage"`
	AgePenalty      float64 `json:"age_penalty"`
	HealthConcern   float64 `json:"health_concern"`
	Breed           float64 `json:"breed"`
	Nutrition       float64 `json:"nutrition"`

	// Energy model
	DER          float64  `json:"der"`
	KcalPerKg    *float64 `json:"kcal_per_kg,omitempty"`
	DailyAmountG *float64 `json:"daily_amount_g,omitempty"`
	MinAmountG   float64  `json:"min_amount_g"`
	MaxAmountG   float64  `json:"max_amount_g"`
}
