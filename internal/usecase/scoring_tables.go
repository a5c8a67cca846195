package usecase

import (
	"sort"

	"github.com/petfit/backend/internal/domain"
)

// Health concern codes
const (
	ConcernObesity     = "OBESITY"
	ConcernDiabetes    = "DIABETES"
	ConcernSkinAllergy = "SKIN_ALLERGY"
	ConcernJoint       = "JOINT"
	ConcernDigestive   = "DIGESTIVE"
	ConcernUrinary     = "URINARY"
	ConcernDental      = "DENTAL"
	ConcernSkinCoat    = "SKIN_COAT"
	ConcernImmune      = "IMMUNE"
)

// BreedGroup is the physiological group a breed code belongs to
type BreedGroup string

const (
	BreedGroupNone           BreedGroup = ""
	BreedGroupSmall          BreedGroup = "small"
	BreedGroupLarge          BreedGroup = "large"
	BreedGroupBrachycephalic BreedGroup = "brachycephalic"
)

// ScoringTables holds every lookup table the scorers read. A value is never
// mutated after construction; use WithDynamicLists to derive a batch copy.
type ScoringTables struct {
	ConcernWeights  map[string]float64
	ConcernTags     map[string]string
	ConcernKeywords map[string][]string

	SmallBreeds          []string
	LargeBreeds          []string
	BrachycephalicBreeds []string

	// CommonAllergens lists are scanned in order; the first high-confidence hit wins.
	CommonAllergens map[domain.Species][]string

	// Product-name keywords, Korean label first
	PuppyKeywords      []string
	AdultKeywords      []string
	SeniorKeywords     []string
	SmallBreedKeywords []string
	LargeBreedKeywords []string
	LightKeywords      []string

	HarmfulIngredients []string
	AllergenKeywords   map[string][]string
}

// DefaultHarmfulIngredients is the fallback list used when no admin-managed list is available
var DefaultHarmfulIngredients = []string{
	"인공색소", "인공향료", "BHA", "BHT", "에톡시퀸",
	"옥수수 시럽", "설탕", "소금 과다",
	"artificial color", "artificial flavor", "ethoxyquin", "corn syrup",
}

// DefaultAllergenKeywords maps allergen codes to ingredient words that reveal them
var DefaultAllergenKeywords = map[string][]string{
	"BEEF":    {"소고기", "beef"},
	"CHICKEN": {"닭고기", "치킨", "chicken"},
	"DAIRY":   {"우유", "유제품", "치즈", "milk", "cheese", "whey"},
	"WHEAT":   {"밀", "wheat"},
	"SOY":     {"대두", "콩", "soy"},
	"EGG":     {"계란", "달걀", "egg"},
	"LAMB":    {"양고기", "lamb"},
	"CORN":    {"옥수수", "corn"},
	"FISH":    {"생선", "연어", "참치", "fish", "salmon", "tuna"},
}

// DefaultScoringTables returns the built-in tables with the fallback dynamic lists
func DefaultScoringTables() ScoringTables {
	return ScoringTables{
		ConcernWeights: map[string]float64{
			ConcernObesity:     10,
			ConcernDiabetes:    10,
			ConcernSkinAllergy: 8,
			ConcernJoint:       8,
			ConcernDigestive:   7,
			ConcernUrinary:     7,
			ConcernDental:      6,
			ConcernSkinCoat:    6,
			ConcernImmune:      6,
		},
		ConcernTags: map[string]string{
			ConcernObesity:     domain.TagWeightManagement,
			ConcernDiabetes:    domain.TagWeightManagement,
			ConcernSkinAllergy: domain.TagHypoallergenic,
			ConcernJoint:       domain.TagJointSupport,
			ConcernDigestive:   "digestive",
			ConcernUrinary:     "urinary",
			ConcernDental:      "dental",
			ConcernSkinCoat:    "skin_coat",
			ConcernImmune:      "immune_support",
		},
		ConcernKeywords: map[string][]string{
			ConcernObesity:     {"저칼로리", "다이어트", "light", "weight", "weight management"},
			ConcernSkinAllergy: {"저알레르기", "hypoallergenic", "단일단백질", "limited ingredient"},
			ConcernJoint:       {"글루코사민", "콘드로이틴", "glucosamine", "chondroitin", "joint"},
			ConcernDigestive:   {"섬유질", "프로바이오틱스", "probiotic", "fiber", "digestive"},
			ConcernUrinary:     {"저인", "저마그네슘", "urinary", "low phosphorus"},
			ConcernDiabetes:    {"저탄수화물", "low carb", "grain free", "diabetic"},
			ConcernDental:      {"dental", "구강", "치아", "tartar"},
			ConcernSkinCoat:    {"skin", "coat", "피모", "오메가"},
			ConcernImmune:      {"immune", "면역", "antioxidant"},
		},
		SmallBreeds:          []string{"말티즈", "푸들", "요크셔테리어", "치와와", "포메라니안", "MALTESE", "POODLE", "YORKSHIRE_TERRIER", "CHIHUAHUA", "POMERANIAN"},
		LargeBreeds:          []string{"골든리트리버", "래브라도리트리버", "하스키", "세인트버나드", "GOLDEN_RETRIEVER", "LABRADOR_RETRIEVER", "HUSKY", "SAINT_BERNARD"},
		BrachycephalicBreeds: []string{"퍼그", "프렌치불독", "보스턴테리어", "불독", "PUG", "FRENCH_BULLDOG", "BOSTON_TERRIER", "BULLDOG"},
		CommonAllergens: map[domain.Species][]string{
			domain.SpeciesDog: {"BEEF", "DAIRY", "CHICKEN", "WHEAT", "SOY", "EGG", "LAMB", "CORN"},
			domain.SpeciesCat: {"BEEF", "FISH", "DAIRY", "CHICKEN"},
		},
		PuppyKeywords:      []string{"퍼피", "puppy"},
		AdultKeywords:      []string{"어덜트", "adult"},
		SeniorKeywords:     []string{"시니어", "senior"},
		SmallBreedKeywords: []string{"소형견", "small"},
		LargeBreedKeywords: []string{"대형견", "large"},
		LightKeywords:      []string{"다이어트", "light", "diet"},
		HarmfulIngredients: DefaultHarmfulIngredients,
		AllergenKeywords:   DefaultAllergenKeywords,
	}
}

// WithDynamicLists returns a copy carrying a batch snapshot of the admin-managed lists.
// A nil list keeps the current one so the harmful check always has something to scan.
func (t ScoringTables) WithDynamicLists(harmful []string, allergenKeywords map[string][]string) ScoringTables {
	if harmful != nil {
		t.HarmfulIngredients = append([]string(nil), harmful...)
	}
	if allergenKeywords != nil {
		copied := make(map[string][]string, len(allergenKeywords))
		for code, kws := range allergenKeywords {
			copied[code] = append([]string(nil), kws...)
		}
		t.AllergenKeywords = copied
	}
	return t
}

// BreedGroupOf classifies a breed code, returning BreedGroupNone when unknown
func (t *ScoringTables) BreedGroupOf(breedCode string) BreedGroup {
	switch {
	case breedCode == "":
		return BreedGroupNone
	case containsExact(t.SmallBreeds, breedCode):
		return BreedGroupSmall
	case containsExact(t.LargeBreeds, breedCode):
		return BreedGroupLarge
	case containsExact(t.BrachycephalicBreeds, breedCode):
		return BreedGroupBrachycephalic
	}
	return BreedGroupNone
}

// commonAllergensFor falls back to the cat list for any non-dog species
func (t *ScoringTables) commonAllergensFor(species domain.Species) []string {
	if species == domain.SpeciesDog {
		return t.CommonAllergens[domain.SpeciesDog]
	}
	return t.CommonAllergens[domain.SpeciesCat]
}

// allergenCodes returns the keyword table's codes in sorted order
func (t *ScoringTables) allergenCodes() []string {
	codes := make([]string, 0, len(t.AllergenKeywords))
	for code := range t.AllergenKeywords {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// stageKeywords returns the product-name keywords signalling a life stage
func (t *ScoringTables) stageKeywords(stage domain.LifeStage) []string {
	switch stage {
	case domain.LifeStagePuppy:
		return t.PuppyKeywords
	case domain.LifeStageAdult:
		return t.AdultKeywords
	case domain.LifeStageSenior:
		return t.SeniorKeywords
	}
	return nil
}
