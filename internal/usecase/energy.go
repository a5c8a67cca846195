package usecase

import (
	"math"

	"github.com/petfit/backend/internal/domain"
)

// Energy model constants
const (
	rerCoefficient = 70.0
	rerExponent    = 0.75

	multiplierPuppy         = 2.5
	multiplierAdultNeutered = 1.6
	multiplierAdultIntact   = 1.8
	multiplierSenior        = 1.5
	multiplierDefault       = 1.6
)

// RestingEnergyRequirement returns RER = 70 × weight^0.75 kcal/day.
// Non-positive weights yield 0.
func RestingEnergyRequirement(weightKg float64) float64 {
	weightKg = sanitizeWeight(weightKg)
	if weightKg == 0 {
		return 0
	}
	return rerCoefficient * math.Pow(weightKg, rerExponent)
}

// sanitizeWeight maps negative, NaN and infinite weights to 0
func sanitizeWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

// EnergyMultiplier returns the life-stage factor applied to RER
func EnergyMultiplier(stage domain.AgeStage, neutered bool) float64 {
	switch stage {
	case domain.AgeStagePuppy:
		return multiplierPuppy
	case domain.AgeStageAdult:
		if neutered {
			return multiplierAdultNeutered
		}
		return multiplierAdultIntact
	case domain.AgeStageSenior:
		return multiplierSenior
	default:
		return multiplierDefault
	}
}

// DailyEnergyRequirement returns DER = RER × life-stage multiplier
func DailyEnergyRequirement(pet *domain.PetProfile) float64 {
	return RestingEnergyRequirement(pet.WeightKg) * EnergyMultiplier(pet.AgeStage, pet.Neutered())
}

// DailyFeedingAmount converts DER and caloric density into grams per day
func DailyFeedingAmount(der, kcalPerKg float64) float64 {
	if kcalPerKg <= 0 {
		return 0
	}
	return der / kcalPerKg * 1000
}

// FeedingBand returns the acceptable daily amount in grams. Custom bounds win only
// when both are set; otherwise the band is derived from body weight.
func FeedingBand(weightKg float64, prefs *domain.Preferences) (minAmount, maxAmount float64, custom bool) {
	if prefs != nil && prefs.MinDailyAmount != nil && prefs.MaxDailyAmount != nil {
		return *prefs.MinDailyAmount, *prefs.MaxDailyAmount, true
	}

	weightKg = sanitizeWeight(weightKg)

	switch {
	case weightKg < 10:
		return weightKg * 20, weightKg * 40, false
	case weightKg < 25:
		return weightKg * 18, weightKg * 35, false
	default:
		return weightKg * 15, weightKg * 30, false
	}
}

// caloricDensity resolves kcal/kg from the parsed profile, then the nutrition label
func caloricDensity(parsed *domain.ParsedIngredients, facts *domain.NutritionFacts) (float64, bool) {
	if np := parsed.NutritionalProfile; np != nil {
		if np.KcalPerKg != nil && *np.KcalPerKg > 0 {
			return *np.KcalPerKg, true
		}
		if np.KcalPer100g != nil && *np.KcalPer100g > 0 {
			return *np.KcalPer100g * 10, true
		}
	}
	if facts != nil && facts.KcalPer100g != nil && *facts.KcalPer100g > 0 {
		return *facts.KcalPer100g * 10, true
	}
	return 0, false
}
