package usecase

import (
	"fmt"

	"github.com/petfit/backend/internal/domain"
)

// Fitness sub-score budgets
const (
	speciesScore          = 20.0
	noAgeInfoScore        = 20.0
	healthConcernCap      = 30.0
	breedBase             = 10.0
	breedCap              = 15.0
	nutritionBase         = 10.0
	fitnessCap            = 100.0
	tagMultiplier         = 1.5
	keywordMultiplier     = 1.0
	emphasizedMultiplier  = 2.0
	priorityMultiplier    = 1.5
	valuePresetMultiplier = 0.8
)

// ReasonSpeciesMismatch is the sole reason returned when the species gate fails
const ReasonSpeciesMismatch = "species mismatch"

// ageCell is one entry of the pet age stage × product life stage policy
type ageCell struct {
	score   float64
	penalty float64
	reason  string
}

// ageStageMatrix holds the policy; the LifeStageUnknown column applies when neither the
// label nor the product name signals a stage.
var ageStageMatrix = map[domain.AgeStage]map[domain.LifeStage]ageCell{
	domain.AgeStagePuppy: {
		domain.LifeStagePuppy:   {25, 0, "puppy food"},
		domain.LifeStageAdult:   {15, 0, "adult food (suitable for puppies)"},
		domain.LifeStageSenior:  {0, 20, "senior food (unsuitable for puppies)"},
		domain.LifeStageAll:     {20, 0, "all life stages food"},
		domain.LifeStageUnknown: {15, 0, ""},
	},
	domain.AgeStageAdult: {
		domain.LifeStagePuppy:   {10, 0, "puppy food (suitable for adults)"},
		domain.LifeStageAdult:   {25, 0, "adult food"},
		domain.LifeStageSenior:  {20, 0, "senior food (suitable for adults)"},
		domain.LifeStageAll:     {22, 0, "all life stages food"},
		domain.LifeStageUnknown: {20, 0, ""},
	},
	domain.AgeStageSenior: {
		domain.LifeStagePuppy:   {0, 15, "puppy food (unsuitable for seniors)"},
		domain.LifeStageAdult:   {20, 0, "adult food (suitable for seniors)"},
		domain.LifeStageSenior:  {25, 0, "senior food"},
		domain.LifeStageAll:     {20, 0, "all life stages food"},
		domain.LifeStageUnknown: {15, 0, ""},
	},
}

// nameStageOrder is the keyword lookup order used when the label has no life stage
var nameStageOrder = map[domain.AgeStage][]domain.LifeStage{
	domain.AgeStagePuppy:  {domain.LifeStagePuppy, domain.LifeStageAdult, domain.LifeStageSenior},
	domain.AgeStageAdult:  {domain.LifeStageAdult, domain.LifeStagePuppy, domain.LifeStageSenior},
	domain.AgeStageSenior: {domain.LifeStageSenior, domain.LifeStageAdult, domain.LifeStagePuppy},
}

// ScoreFitness computes the 0-100 fitness score, its reason trail, and the age-stage
// penalty that is later subtracted from the total score.
func (s *ScoringService) ScoreFitness(
	pet *domain.PetProfile,
	candidate *domain.ProductCandidate,
	facts *domain.NutritionFacts,
	prefs *domain.Preferences,
) (float64, []string, float64) {
	var comp domain.ScoreComponents
	return s.scoreFitness(pet, candidate, facts, prefs, &comp)
}

func (s *ScoringService) scoreFitness(
	pet *domain.PetProfile,
	candidate *domain.ProductCandidate,
	facts *domain.NutritionFacts,
	prefs *domain.Preferences,
	comp *domain.ScoreComponents,
) (float64, []string, float64) {
	if pet == nil || candidate == nil {
		return 0, []string{ReasonMissingInput}, 0
	}
	if prefs == nil {
		prefs = &domain.Preferences{}
	}

	// 1. Species gate
	if candidate.Species != nil && *candidate.Species != pet.Species {
		comp.SpeciesMismatch = true
		return 0, []string{ReasonSpeciesMismatch}, 0
	}

	var reasons []string
	if candidate.Species == nil {
		reasons = append(reasons, "all-species product")
	} else {
		reasons = append(reasons, fmt.Sprintf("%s-specific product", pet.Species))
	}
	comp.Species = speciesScore

	// 2. Age stage
	age, penalty, ageReasons := s.matchAgeStage(pet, candidate)
	reasons = append(reasons, ageReasons...)
	comp.AgeStage = age
	comp.AgePenalty = penalty

	// 3. Health concerns
	health, healthReasons := s.matchHealthConcerns(pet, &candidate.Parsed, prefs)
	reasons = append(reasons, healthReasons...)

	// 4. Breed
	breed, breedReasons := s.matchBreed(pet, candidate)
	reasons = append(reasons, breedReasons...)

	// 5. VALUE preset de-weighting
	if prefs.Preset() == domain.PresetValue {
		health *= valuePresetMultiplier
		breed *= valuePresetMultiplier
		reasons = append(reasons, "value preset: health and breed weight reduced")
	}
	comp.HealthConcern = health
	comp.Breed = breed

	// 6. Nutrition
	nutrition, nutritionReasons := s.nutritionalFitness(pet, &candidate.Parsed, facts, prefs, comp)
	reasons = append(reasons, nutritionReasons...)
	comp.Nutrition = nutrition

	total := speciesScore + age + health + breed + nutrition
	if total > fitnessCap {
		total = fitnessCap
	}
	return total, reasons, penalty
}

// matchAgeStage applies the age policy matrix
func (s *ScoringService) matchAgeStage(pet *domain.PetProfile, candidate *domain.ProductCandidate) (float64, float64, []string) {
	row, ok := ageStageMatrix[pet.AgeStage]
	if !ok {
		return noAgeInfoScore, 0, []string{"no age information"}
	}

	cell := row[s.productLifeStage(pet.AgeStage, candidate)]
	if cell.reason == "" {
		return cell.score, cell.penalty, nil
	}
	return cell.score, cell.penalty, []string{cell.reason}
}

// productLifeStage prefers the labelled life stage and falls back to product-name keywords
func (s *ScoringService) productLifeStage(petStage domain.AgeStage, candidate *domain.ProductCandidate) domain.LifeStage {
	switch ls := candidate.Parsed.LifeStage; ls {
	case domain.LifeStagePuppy, domain.LifeStageAdult, domain.LifeStageSenior, domain.LifeStageAll:
		return ls
	}

	name := normalizeText(candidate.ProductName)
	for _, stage := range nameStageOrder[petStage] {
		if _, ok := firstMatch(name, s.tables.stageKeywords(stage)); ok {
			return stage
		}
	}
	return domain.LifeStageUnknown
}

// matchHealthConcerns scores benefit-tag matches first and falls back to keywords
func (s *ScoringService) matchHealthConcerns(
	pet *domain.PetProfile,
	parsed *domain.ParsedIngredients,
	prefs *domain.Preferences,
) (float64, []string) {
	var reasons []string

	concerns := pet.HealthConcerns
	emphasized := len(prefs.EmphasizedConcerns) > 0
	if emphasized {
		concerns = prefs.EmphasizedConcerns
		reasons = append(reasons, "emphasized health concerns applied")
	}
	if len(concerns) == 0 {
		return 0, reasons
	}

	priority := 1.0
	if prefs.HealthConcernPriority {
		priority = priorityMultiplier
	}

	suffix := ""
	if emphasized {
		suffix = " - emphasized"
	}

	searchText := keywordSearchText(parsed)
	var score float64

	for _, concern := range concerns {
		weight, ok := s.tables.ConcernWeights[concern]
		if !ok {
			continue
		}

		if tag, ok := s.tables.ConcernTags[concern]; ok && parsed.HasTag(tag) {
			mult := tagMultiplier
			if emphasized {
				mult = emphasizedMultiplier
			}
			score += weight * mult
			reasons = append(reasons, fmt.Sprintf("%s health concern matched (tag)%s", concern, suffix))
			continue
		}

		if _, ok := firstMatch(searchText, s.tables.ConcernKeywords[concern]); ok {
			mult := keywordMultiplier
			if emphasized {
				mult = emphasizedMultiplier
			}
			score += weight * mult
			reasons = append(reasons, fmt.Sprintf("%s health concern matched (keyword)%s", concern, suffix))
		}
	}

	score *= priority
	if score > healthConcernCap {
		score = healthConcernCap
	}

	if prefs.HealthConcernPriority && score > 0 {
		reasons = append(reasons, "health concern priority: weight x1.5")
	}
	if emphasized && score > 0 {
		reasons = append(reasons, "emphasized concerns: weight x2.0")
	}

	return score, reasons
}

// matchBreed adds group-specific bonuses on top of the base breed score
func (s *ScoringService) matchBreed(pet *domain.PetProfile, candidate *domain.ProductCandidate) (float64, []string) {
	score := breedBase
	var reasons []string

	group := s.tables.BreedGroupOf(pet.BreedCode)
	if group == BreedGroupNone {
		return score, nil
	}

	parsed := &candidate.Parsed
	name := normalizeText(candidate.ProductName)
	_, nameSmall := firstMatch(name, s.tables.SmallBreedKeywords)
	_, nameLarge := firstMatch(name, s.tables.LargeBreedKeywords)
	_, nameLight := firstMatch(name, s.tables.LightKeywords)

	switch group {
	case BreedGroupSmall:
		if parsed.IsGrainFree {
			score += 5
			reasons = append(reasons, "grain free (small breed)")
		}
		if nameSmall {
			score += 5
			reasons = append(reasons, "small breed formula")
		}
		if parsed.HasTag(domain.TagHypoallergenic) {
			score += 3
			reasons = append(reasons, "hypoallergenic (small breed)")
		}

	case BreedGroupLarge:
		if nameLarge {
			score += 5
			reasons = append(reasons, "large breed formula")
		}
		if parsed.HasTag(domain.TagJointSupport) {
			score += 5
			reasons = append(reasons, "joint support (large breed)")
		} else if _, ok := firstMatch(keywordSearchText(parsed), s.tables.ConcernKeywords[ConcernJoint]); ok {
			score += 3.5
			reasons = append(reasons, "joint support (large breed)")
		}

	case BreedGroupBrachycephalic:
		if nameLight {
			score += 5
			reasons = append(reasons, "light formula (brachycephalic)")
		}
		if parsed.HasTag(domain.TagWeightManagement) {
			score += 5
			reasons = append(reasons, "weight management (brachycephalic)")
		}
	}

	if score > breedCap {
		score = breedCap
	}
	return score, reasons
}

// nutritionalFitness scores the expected daily feeding amount against the acceptable band
func (s *ScoringService) nutritionalFitness(
	pet *domain.PetProfile,
	parsed *domain.ParsedIngredients,
	facts *domain.NutritionFacts,
	prefs *domain.Preferences,
	comp *domain.ScoreComponents,
) (float64, []string) {
	der := DailyEnergyRequirement(pet)
	comp.DER = der

	kcalPerKg, ok := caloricDensity(parsed, facts)
	if !ok {
		return nutritionBase, []string{"no calorie data"}
	}

	var reasons []string
	daily := DailyFeedingAmount(der, kcalPerKg)
	minAmount, maxAmount, custom := FeedingBand(pet.WeightKg, prefs)
	if custom {
		reasons = append(reasons, "custom feeding range applied")
	}

	comp.KcalPerKg = &kcalPerKg
	comp.DailyAmountG = &daily
	comp.MinAmountG = minAmount
	comp.MaxAmountG = maxAmount

	var score float64
	switch {
	case minAmount <= daily && daily <= maxAmount:
		score = 20
		reasons = append(reasons, "daily amount within range")
	case minAmount*0.8 <= daily && daily <= maxAmount*1.2:
		score = 15
		reasons = append(reasons, "daily amount slightly out of range")
	case minAmount*0.6 <= daily && daily <= maxAmount*1.4:
		score = 10
		reasons = append(reasons, "daily amount out of range")
	default:
		score = 5
		reasons = append(reasons, "daily amount far out of range")
	}

	if pet.Neutered() {
		if daily > maxAmount {
			score -= 3
			reasons = append(reasons, "calorie dense for a neutered pet")
		}
		if parsed.HasTag(domain.TagWeightManagement) {
			score += 2
			reasons = append(reasons, "weight management food (neutered pet)")
		}
	}

	if s.enableDebugLogging {
		s.logger.Debug().
			Float64("der", der).
			Float64("kcal_per_kg", kcalPerKg).
			Float64("daily_amount_g", daily).
			Float64("min_g", minAmount).
			Float64("max_g", maxAmount).
			Msg("feeding amount")
	}

	return floorZero(score), reasons
}
