package usecase

import "github.com/petfit/backend/internal/domain"

// safetyFloor is the safety score below which every preset uses its conservative blend
const safetyFloor = 40.0

// blendWeights are the safety and fitness coefficients of one preset
type blendWeights struct {
	safety  float64
	fitness float64
}

// presetWeights maps each preset to its {below floor, at or above floor} blend
var presetWeights = map[domain.WeightsPreset][2]blendWeights{
	domain.PresetSafe:     {{0.4, 0.1}, {0.7, 0.3}},
	domain.PresetValue:    {{0.25, 0.15}, {0.5, 0.5}},
	domain.PresetBalanced: {{0.3, 0.1}, {0.6, 0.4}},
}

// CombineScores blends safety and fitness under the preferred preset, subtracts the
// age penalty and floors at 0. A safety score of 0 yields domain.ExcludedScore.
func CombineScores(safety, fitness, agePenalty float64, prefs *domain.Preferences) float64 {
	if safety == 0 {
		return domain.ExcludedScore
	}

	weights := presetWeights[prefs.Preset()]
	w := weights[1]
	if safety < safetyFloor {
		w = weights[0]
	}

	total := safety*w.safety + fitness*w.fitness - agePenalty
	return floorZero(total)
}
