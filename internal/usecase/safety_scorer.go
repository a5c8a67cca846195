package usecase

import (
	"fmt"
	"math"

	"github.com/petfit/backend/internal/domain"
)

// Safety sub-score budgets and penalties
const (
	allergyBudget          = 50.0
	harmfulBudget          = 20.0
	commonAllergenPenalty  = 20.0
	softAvoidPenalty       = 20.0
	harmfulPenaltyPerMatch = 5.0
	safePresetFactor       = 0.2

	meatFirstBonus       = 10.0
	proteinHighBonus     = 10.0
	proteinMediumBonus   = 5.0
	qualityScoreScale    = 10.0
	highQualityThreshold = 70.0

	otherAllergyMinRunes = 2
)

// Reasons for the two hard-exclude paths and for unusable input
const (
	ReasonAllergenExcluded     = "excluded: allergen match"
	ReasonOtherAllergyExcluded = "excluded: other allergy text match"
	ReasonMissingInput         = "missing pet or product input"
)

// reasonUndeclaredAllergen flags an excluded allergen whose keywords appear in the text
// of a product that did not report its allergens. It never excludes on its own.
const reasonUndeclaredAllergen = "possible %s in ingredient text (not declared)"

// ScoreSafety computes the 0-100 safety score and its reason trail.
// A score of 0 means the candidate is hard-excluded.
func (s *ScoringService) ScoreSafety(
	pet *domain.PetProfile,
	candidate *domain.ProductCandidate,
	prefs *domain.Preferences,
	harmfulIngredients []string,
) (float64, []string) {
	var comp domain.ScoreComponents
	return s.scoreSafety(pet, candidate, prefs, harmfulIngredients, &comp)
}

func (s *ScoringService) scoreSafety(
	pet *domain.PetProfile,
	candidate *domain.ProductCandidate,
	prefs *domain.Preferences,
	harmfulIngredients []string,
	comp *domain.ScoreComponents,
) (float64, []string) {
	if pet == nil || candidate == nil {
		comp.HardExcluded = true
		return 0, []string{ReasonMissingInput}
	}
	if prefs == nil {
		prefs = &domain.Preferences{}
	}

	var reasons []string
	text := ingredientText(candidate)

	// 1. Hard exclude on declared allergies and user exclusions.
	// An absent allergen list is the empty set.
	excluded := union(pet.FoodAllergies, prefs.HardExcludeAllergens)
	if intersects(excluded, candidate.Parsed.PotentialAllergens) {
		comp.HardExcluded = true
		return 0, []string{ReasonAllergenExcluded}
	}
	for _, code := range s.undeclaredAllergens(candidate, text, excluded) {
		reasons = append(reasons, fmt.Sprintf(reasonUndeclaredAllergen, code))
	}

	// 2. Allergy sub-score
	allergy := allergyBudget
	for _, code := range s.tables.commonAllergensFor(pet.Species) {
		if candidate.Parsed.AllergenConfidence[code] == domain.ConfidenceHigh {
			allergy -= commonAllergenPenalty
			reasons = append(reasons, fmt.Sprintf("common allergen (%s) present", code))
			break
		}
	}

	if matchesOtherAllergy(pet.OtherAllergies, text) {
		comp.HardExcluded = true
		return 0, []string{ReasonOtherAllergyExcluded}
	}

	if allergy == allergyBudget {
		reasons = append(reasons, "no allergy risk")
	}

	// 3. Soft avoid
	if avoid, ok := firstMatch(text, prefs.SoftAvoidIngredients); ok {
		allergy -= softAvoidPenalty
		comp.SoftAvoidPenalty = softAvoidPenalty
		reasons = append(reasons, fmt.Sprintf("soft avoid: %s (-20)", avoid))
	}

	// 4. Harmful ingredients
	harmful, matches := harmfulScore(text, harmfulIngredients)
	comp.HarmfulMatches = matches
	if matches > 0 {
		reasons = append(reasons, fmt.Sprintf("%d harmful ingredients found", matches))
	} else {
		reasons = append(reasons, "no harmful ingredients")
	}

	// 5. SAFE preset reinforcement
	if prefs.Preset() == domain.PresetSafe {
		if allergy < allergyBudget {
			penalty := (allergyBudget - allergy) * safePresetFactor
			allergy -= penalty
			comp.SafePresetPenalty += penalty
			reasons = append(reasons, "safe preset: allergy penalty reinforced")
		}
		if harmful < harmfulBudget {
			penalty := (harmfulBudget - harmful) * safePresetFactor
			harmful -= penalty
			comp.SafePresetPenalty += penalty
			reasons = append(reasons, "safe preset: harmful ingredient penalty reinforced")
		}
	}

	// 6. Quality
	quality, qualityReasons := qualityScore(&candidate.Parsed)
	reasons = append(reasons, qualityReasons...)

	comp.Allergy = floorZero(allergy)
	comp.Harmful = floorZero(harmful)
	comp.Quality = quality

	total := comp.Allergy + comp.Harmful + comp.Quality
	if total == 0 {
		comp.HardExcluded = true
	}
	return total, reasons
}

// undeclaredAllergens returns the excluded codes whose keywords occur in the ingredient
// text, only when the analysis omitted potential_allergens entirely.
func (s *ScoringService) undeclaredAllergens(candidate *domain.ProductCandidate, text string, excluded []string) []string {
	if candidate.Parsed.PotentialAllergens != nil || len(excluded) == 0 {
		return nil
	}

	var found []string
	for _, code := range s.tables.allergenCodes() {
		if !containsExact(excluded, code) {
			continue
		}
		if _, ok := firstMatch(text, s.tables.AllergenKeywords[code]); ok {
			found = append(found, code)
		}
	}
	return found
}

// matchesOtherAllergy checks the pet's free-text allergy note against the ingredient text,
// first verbatim, then token by token.
func matchesOtherAllergy(otherAllergies, text string) bool {
	note := normalizeText(otherAllergies)
	if note == "" {
		return false
	}
	if containsFold(text, note) {
		return true
	}
	for _, tok := range significantTokens(note, otherAllergyMinRunes) {
		if containsFold(text, tok) {
			return true
		}
	}
	return false
}

// harmfulScore deducts per distinct harmful ingredient found, floored at 0
func harmfulScore(text string, harmfulIngredients []string) (float64, int) {
	score := harmfulBudget
	matches := 0
	for _, h := range distinctFold(harmfulIngredients) {
		if containsFold(text, h) {
			matches++
			score -= harmfulPenaltyPerMatch
		}
	}
	return floorZero(score), matches
}

func qualityScore(parsed *domain.ParsedIngredients) (float64, []string) {
	var score float64
	var reasons []string

	if parsed.FirstIngredientIsMeat {
		score += meatFirstBonus
		reasons = append(reasons, "first ingredient is meat")
	}

	switch parsed.ProteinSourceQuality {
	case domain.ProteinQualityHigh:
		score += proteinHighBonus
		reasons = append(reasons, "high quality protein")
	case domain.ProteinQualityMedium:
		score += proteinMediumBonus
		reasons = append(reasons, "medium quality protein")
	}

	q := clamp(parsed.QualityScore, 0, 100)
	score += q / 100 * qualityScoreScale
	if q >= highQualityThreshold {
		reasons = append(reasons, "high quality score")
	}

	return score, reasons
}

func floorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// clamp maps NaN to lo
func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v), v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
