package domain

// LifeStage is the target age category printed on a product label
type LifeStage string

const (
	LifeStagePuppy   LifeStage = "puppy"
	LifeStageAdult   LifeStage = "adult"
	LifeStageSenior  LifeStage = "senior"
	LifeStageAll     LifeStage = "all_life_stages"
	LifeStageUnknown LifeStage = ""
)

// ProteinQuality grades the protein sources found by ingredient analysis
type ProteinQuality string

const (
	ProteinQualityLow    ProteinQuality = "low"
	ProteinQualityMedium ProteinQuality = "medium"
	ProteinQualityHigh   ProteinQuality = "high"
)

// Allergen confidence levels reported by ingredient analysis
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Benefit tags referenced directly by the breed rules
const (
	TagWeightManagement = "weight_management"
	TagHypoallergenic   = "hypoallergenic"
	TagJointSupport     = "joint_support"
)

// ProductCandidate is a product considered for recommendation.
// A nil Species means the product is suitable for every species.
type ProductCandidate struct {
	Species         *Species          `json:"species,omitempty" yaml:"species"`
	ProductName     string            `json:"product_name" yaml:"product_name"`
	IngredientsText string            `json:"ingredients_text,omitempty" yaml:"ingredients_text"`
	Parsed          ParsedIngredients `json:"parsed" yaml:"parsed"`
}

// ParsedIngredients is the structured output of the ingredient-analysis pipeline.
// Every field is optional; zero values are the documented defaults.
type ParsedIngredients struct {
	// PotentialAllergens is nil when the analysis did not report the field
	// and empty when it reported no allergens.
	PotentialAllergens    []string            `json:"potential_allergens" yaml:"potential_allergens"`
	AllergenConfidence    map[string]string   `json:"allergen_confidence,omitempty" yaml:"allergen_confidence"`
	IngredientsOrdered    []string            `json:"ingredients_ordered,omitempty" yaml:"ingredients_ordered"`
	FirstIngredientIsMeat bool                `json:"first_ingredient_is_meat,omitempty" yaml:"first_ingredient_is_meat"`
	IsGrainFree           bool                `json:"is_grain_free,omitempty" yaml:"is_grain_free"`
	ProteinSourceQuality  ProteinQuality      `json:"protein_source_quality,omitempty" yaml:"protein_source_quality"`
	QualityScore          float64             `json:"quality_score,omitempty" yaml:"quality_score"`
	BenefitsTags          []string            `json:"benefits_tags,omitempty" yaml:"benefits_tags"`
	LifeStage             LifeStage           `json:"life_stage,omitempty" yaml:"life_stage"`
	NutritionalProfile    *NutritionalProfile `json:"nutritional_profile,omitempty" yaml:"nutritional_profile"`
	Notes                 string              `json:"notes,omitempty" yaml:"notes"`
}

// HasTag reports whether the parsed record carries the given benefit tag
func (p *ParsedIngredients) HasTag(tag string) bool {
	for _, t := range p.BenefitsTags {
		if t == tag {
			return true
		}
	}
	return false
}

// NutritionalProfile carries caloric density when the analysis extracted it
type NutritionalProfile struct {
	KcalPerKg   *float64 `json:"kcal_per_kg,omitempty" yaml:"kcal_per_kg"`
	KcalPer100g *float64 `json:"kcal_per_100g,omitempty" yaml:"kcal_per_100g"`
}

// NutritionFacts is the persisted nutrition label of a product
type NutritionFacts struct {
	KcalPer100g *float64 `json:"kcal_per_100g,omitempty" yaml:"kcal_per_100g"`
}
