package domain

// Species identifies the animal a pet profile or product is for
type Species string

const (
	SpeciesDog Species = "DOG"
	SpeciesCat Species = "CAT"
)

// AgeStage is the life stage recorded on a pet profile
type AgeStage string

const (
	AgeStagePuppy  AgeStage = "PUPPY"
	AgeStageAdult  AgeStage = "ADULT"
	AgeStageSenior AgeStage = "SENIOR"
)

// Valid reports whether the age stage is one of the known stages
func (a AgeStage) Valid() bool {
	switch a {
	case AgeStagePuppy, AgeStageAdult, AgeStageSenior:
		return true
	}
	return false
}

// PetProfile is the pet being matched against candidate products.
// It is read-only for the duration of a scoring call.
type PetProfile struct {
	ID             string   `json:"id,omitempty" yaml:"id"`
	Species        Species  `json:"species" yaml:"species" binding:"required,oneof=DOG CAT"`
	AgeStage       AgeStage `json:"age_stage,omitempty" yaml:"age_stage" binding:"omitempty,oneof=PUPPY ADULT SENIOR"`
	WeightKg       float64  `json:"weight_kg" yaml:"weight_kg" binding:"required,gt=0"`
	IsNeutered     *bool    `json:"is_neutered,omitempty" yaml:"is_neutered"`
	BreedCode      string   `json:"breed_code,omitempty" yaml:"breed_code"`
	HealthConcerns []string `json:"health_concerns,omitempty" yaml:"health_concerns"`
	FoodAllergies  []string `json:"food_allergies,omitempty" yaml:"food_allergies"`
	OtherAllergies string   `json:"other_allergies,omitempty" yaml:"other_allergies"`
}

// Neutered treats an unknown neuter status as intact
func (p *PetProfile) Neutered() bool {
	return p.IsNeutered != nil && *p.IsNeutered
}
