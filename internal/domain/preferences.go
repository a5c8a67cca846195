package domain

import "strings"

// WeightsPreset names how safety and fitness are blended into the total score
type WeightsPreset string

const (
	PresetBalanced WeightsPreset = "BALANCED"
	PresetSafe     WeightsPreset = "SAFE"
	PresetValue    WeightsPreset = "VALUE"
)

// ParseWeightsPreset maps any unknown or empty value to BALANCED
func ParseWeightsPreset(s string) WeightsPreset {
	switch WeightsPreset(strings.ToUpper(strings.TrimSpace(s))) {
	case PresetSafe:
		return PresetSafe
	case PresetValue:
		return PresetValue
	default:
		return PresetBalanced
	}
}

// Preferences are the user-controlled overrides applied to one scoring pass
type Preferences struct {
	HardExcludeAllergens  []string      `json:"hard_exclude_allergens,omitempty" yaml:"hard_exclude_allergens"`
	SoftAvoidIngredients  []string      `json:"soft_avoid_ingredients,omitempty" yaml:"soft_avoid_ingredients"`
	WeightsPreset         WeightsPreset `json:"weights_preset,omitempty" yaml:"weights_preset"`
	HealthConcernPriority bool          `json:"health_concern_priority,omitempty" yaml:"health_concern_priority"`
	EmphasizedConcerns    []string      `json:"emphasized_concerns,omitempty" yaml:"emphasized_concerns"`
	MinDailyAmount        *float64      `json:"min_daily_amount,omitempty" yaml:"min_daily_amount" binding:"omitempty,gte=0"`
	MaxDailyAmount        *float64      `json:"max_daily_amount,omitempty" yaml:"max_daily_amount" binding:"omitempty,gte=0"`
}

// Preset returns the effective preset, defaulting to BALANCED
func (p *Preferences) Preset() WeightsPreset {
	if p == nil {
		return PresetBalanced
	}
	return ParseWeightsPreset(string(p.WeightsPreset))
}
