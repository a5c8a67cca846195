package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/petfit/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockConfigSource is a mock implementation of domain.ConfigTableSource
type MockConfigSource struct {
	harmful  []string
	keywords map[string][]string
	err      error
	calls    int
}

func (m *MockConfigSource) HarmfulIngredients(ctx context.Context) ([]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.harmful, nil
}

func (m *MockConfigSource) AllergenKeywords(ctx context.Context) (map[string][]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.keywords, nil
}

func newMockSource() *MockConfigSource {
	return &MockConfigSource{
		harmful:  []string{"BHA", "BHT", "msg"},
		keywords: DefaultAllergenKeywords,
	}
}

func candidateItem(id string, mutate func(c *domain.ProductCandidate)) domain.CandidateItem {
	c := testCandidate()
	if mutate != nil {
		mutate(c)
	}
	return domain.CandidateItem{ProductID: id, Candidate: *c}
}

// rankingRequest holds two tied plain products, one premium product, one allergen
// hit and one cat food for an adult dog allergic to beef.
func rankingRequest() *domain.ScoringRequest {
	pet := testPet()
	pet.FoodAllergies = []string{"BEEF"}

	return &domain.ScoringRequest{
		Pet: *pet,
		Candidates: []domain.CandidateItem{
			candidateItem("b-plain", nil),
			candidateItem("c-beef", func(c *domain.ProductCandidate) {
				c.Parsed.PotentialAllergens = []string{"BEEF"}
			}),
			candidateItem("a-plain", nil),
			candidateItem("d-cat", func(c *domain.ProductCandidate) {
				c.Species = speciesPtr(domain.SpeciesCat)
			}),
			candidateItem("e-premium", func(c *domain.ProductCandidate) {
				c.Parsed.FirstIngredientIsMeat = true
				c.Parsed.ProteinSourceQuality = domain.ProteinQualityHigh
			}),
		},
		Preferences: domain.Preferences{HardExcludeAllergens: []string{"CORN"}},
	}
}

func itemIDs(items []domain.RecommendationItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return ids
}

func TestNewRecommendationService(t *testing.T) {
	t.Run("creates service with default values", func(t *testing.T) {
		svc := NewRecommendationService(nil, nil, nil, RecommendationServiceConfig{})
		if svc == nil {
			t.Fatal("expected service to be created")
		}
		if svc.cacheTTL != 10*time.Minute {
			t.Errorf("cacheTTL = %v, want 10m", svc.cacheTTL)
		}
		if svc.maxConcurrency != 8 {
			t.Errorf("maxConcurrency = %d, want 8", svc.maxConcurrency)
		}
		if svc.defaultPreset != domain.PresetBalanced {
			t.Errorf("defaultPreset = %s, want BALANCED", svc.defaultPreset)
		}
		if svc.scorer == nil {
			t.Error("expected a default scorer")
		}
	})

	t.Run("creates service with custom values", func(t *testing.T) {
		svc := NewRecommendationService(nil, nil, nil, RecommendationServiceConfig{
			CacheTTL:       time.Minute,
			MaxConcurrency: 2,
			DefaultPreset:  "safe",
		})
		if svc.cacheTTL != time.Minute {
			t.Errorf("cacheTTL = %v, want 1m", svc.cacheTTL)
		}
		if svc.maxConcurrency != 2 {
			t.Errorf("maxConcurrency = %d, want 2", svc.maxConcurrency)
		}
		if svc.defaultPreset != domain.PresetSafe {
			t.Errorf("defaultPreset = %s, want SAFE", svc.defaultPreset)
		}
	})
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for nil request", func(t *testing.T) {
		svc := NewRecommendationService(NewMockCacheRepository(), newMockSource(), nil, RecommendationServiceConfig{})
		_, err := svc.Recommend(ctx, nil)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("returns error for empty candidates", func(t *testing.T) {
		svc := NewRecommendationService(NewMockCacheRepository(), newMockSource(), nil, RecommendationServiceConfig{})
		_, err := svc.Recommend(ctx, &domain.ScoringRequest{Pet: *testPet()})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("ranks candidates and drops excluded ones", func(t *testing.T) {
		svc := NewRecommendationService(NewMockCacheRepository(), newMockSource(), nil, RecommendationServiceConfig{})

		run, err := svc.Recommend(ctx, rankingRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got, want := itemIDs(run.Items), []string{"e-premium", "a-plain", "b-plain"}; !reflect.DeepEqual(got, want) {
			t.Errorf("order = %v, want %v", got, want)
		}
		for i, item := range run.Items {
			if item.Rank != i+1 {
				t.Errorf("item %s rank = %d, want %d", item.ProductID, item.Rank, i+1)
			}
		}
		if !approxEqual(run.Items[0].Score, 80) {
			t.Errorf("top score = %v, want 80", run.Items[0].Score)
		}
		if !approxEqual(run.Items[1].Score, 68) || !approxEqual(run.Items[2].Score, 68) {
			t.Errorf("tied scores = %v, %v, want 68", run.Items[1].Score, run.Items[2].Score)
		}
		if run.Excluded != 2 {
			t.Errorf("Excluded = %d, want 2", run.Excluded)
		}
		if run.ID == "" {
			t.Error("expected a run ID")
		}
		if run.PetID != "pet-1" {
			t.Errorf("PetID = %q, want pet-1", run.PetID)
		}
		if run.Strategy != domain.StrategyRuleV1 {
			t.Errorf("Strategy = %s, want RULE_V1", run.Strategy)
		}
		if !reflect.DeepEqual(run.Context.ExcludedAllergens, []string{"BEEF", "CORN"}) {
			t.Errorf("ExcludedAllergens = %v", run.Context.ExcludedAllergens)
		}
		if run.Context.HarmfulIngredients != 3 {
			t.Errorf("HarmfulIngredients = %d, want 3", run.Context.HarmfulIngredients)
		}
		if run.Context.CandidateCount != 5 {
			t.Errorf("CandidateCount = %d, want 5", run.Context.CandidateCount)
		}
	})

	t.Run("applies the limit after sorting", func(t *testing.T) {
		svc := NewRecommendationService(NewMockCacheRepository(), newMockSource(), nil, RecommendationServiceConfig{})
		req := rankingRequest()
		req.Limit = 2

		run, err := svc.Recommend(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, want := itemIDs(run.Items), []string{"e-premium", "a-plain"}; !reflect.DeepEqual(got, want) {
			t.Errorf("order = %v, want %v", got, want)
		}
		if run.Excluded != 2 {
			t.Errorf("Excluded = %d, want 2", run.Excluded)
		}
	})

	t.Run("uses the source harmful list", func(t *testing.T) {
		svc := NewRecommendationService(NewMockCacheRepository(), newMockSource(), nil, RecommendationServiceConfig{})
		req := &domain.ScoringRequest{
			Pet: *testPet(),
			Candidates: []domain.CandidateItem{
				candidateItem("msg", func(c *domain.ProductCandidate) {
					c.IngredientsText = "chicken meal, MSG, 인공색소"
				}),
			},
		}

		run, err := svc.Recommend(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 인공색소 is only on the fallback list
		if got := run.Items[0].ScoreComponents.HarmfulMatches; got != 1 {
			t.Errorf("HarmfulMatches = %d, want 1", got)
		}
	})

	t.Run("resolves the snapshot once per cache lifetime", func(t *testing.T) {
		cache := NewMockCacheRepository()
		source := newMockSource()
		svc := NewRecommendationService(cache, source, nil, RecommendationServiceConfig{})

		for i := 0; i < 2; i++ {
			if _, err := svc.Recommend(ctx, rankingRequest()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if source.calls != 1 {
			t.Errorf("source calls = %d, want 1", source.calls)
		}
		if !cache.setCalled {
			t.Error("expected snapshot to be cached")
		}
	})

	t.Run("applies the configured default preset", func(t *testing.T) {
		svc := NewRecommendationService(nil, newMockSource(), nil, RecommendationServiceConfig{DefaultPreset: domain.PresetSafe})

		run, err := svc.Recommend(ctx, rankingRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Context.Preferences.WeightsPreset != domain.PresetSafe {
			t.Errorf("preset = %s, want SAFE", run.Context.Preferences.WeightsPreset)
		}
		if run.Items[0].ScoreComponents.Preset != domain.PresetSafe {
			t.Errorf("item preset = %s, want SAFE", run.Items[0].ScoreComponents.Preset)
		}
	})

	t.Run("normalizes a request preset", func(t *testing.T) {
		svc := NewRecommendationService(nil, newMockSource(), nil, RecommendationServiceConfig{DefaultPreset: domain.PresetSafe})
		req := rankingRequest()
		req.Preferences.WeightsPreset = "value"

		run, err := svc.Recommend(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Context.Preferences.WeightsPreset != domain.PresetValue {
			t.Errorf("preset = %s, want VALUE", run.Context.Preferences.WeightsPreset)
		}
	})

	t.Run("returns context error when cancelled", func(t *testing.T) {
		svc := NewRecommendationService(nil, newMockSource(), nil, RecommendationServiceConfig{})
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := svc.Recommend(cctx, rankingRequest())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("returns cached snapshot", func(t *testing.T) {
		cache := NewMockCacheRepository()
		source := newMockSource()
		cache.data[snapshotCacheKey] = &domain.ConfigSnapshot{HarmfulIngredients: []string{"cached"}}
		svc := NewRecommendationService(cache, source, nil, RecommendationServiceConfig{})

		snap := svc.Snapshot(ctx)
		if !reflect.DeepEqual(snap.HarmfulIngredients, []string{"cached"}) {
			t.Errorf("HarmfulIngredients = %v, want [cached]", snap.HarmfulIngredients)
		}
		if source.calls != 0 {
			t.Errorf("source calls = %d, want 0", source.calls)
		}
	})

	t.Run("decodes the generic cached form", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.data[snapshotCacheKey] = map[string]interface{}{
			"harmful_ingredients": []interface{}{"msg"},
			"allergen_keywords": map[string]interface{}{
				"BEEF": []interface{}{"beef", "소고기"},
			},
		}
		svc := NewRecommendationService(cache, newMockSource(), nil, RecommendationServiceConfig{})

		snap := svc.Snapshot(ctx)
		if !reflect.DeepEqual(snap.HarmfulIngredients, []string{"msg"}) {
			t.Errorf("HarmfulIngredients = %v, want [msg]", snap.HarmfulIngredients)
		}
		if !reflect.DeepEqual(snap.AllergenKeywords["BEEF"], []string{"beef", "소고기"}) {
			t.Errorf("AllergenKeywords = %v", snap.AllergenKeywords)
		}
	})

	t.Run("falls back when the source fails", func(t *testing.T) {
		cache := NewMockCacheRepository()
		source := &MockConfigSource{err: domain.ErrConfigSourceFailure}
		svc := NewRecommendationService(cache, source, nil, RecommendationServiceConfig{})

		snap := svc.Snapshot(ctx)
		if !reflect.DeepEqual(snap.HarmfulIngredients, DefaultHarmfulIngredients) {
			t.Errorf("HarmfulIngredients = %v, want fallback list", snap.HarmfulIngredients)
		}
		if cache.setCalled {
			t.Error("fallback snapshot should not be cached")
		}
	})

	t.Run("falls back when the source has no harmful ingredients", func(t *testing.T) {
		cache := NewMockCacheRepository()
		source := &MockConfigSource{harmful: []string{}, keywords: map[string][]string{}}
		svc := NewRecommendationService(cache, source, nil, RecommendationServiceConfig{})

		snap := svc.Snapshot(ctx)
		if !reflect.DeepEqual(snap.HarmfulIngredients, DefaultHarmfulIngredients) {
			t.Errorf("HarmfulIngredients = %v, want fallback list", snap.HarmfulIngredients)
		}
		if cache.setCalled {
			t.Error("fallback snapshot should not be cached")
		}

		candidate := testCandidate()
		candidate.IngredientsText = "chicken, BHA, ethoxyquin"
		result := svc.scorer.WithSnapshot(snap).Score(testPet(), candidate, nil, nil)
		if result.Components.HarmfulMatches != 2 {
			t.Errorf("HarmfulMatches = %d, want 2", result.Components.HarmfulMatches)
		}
	})

	t.Run("falls back without a source", func(t *testing.T) {
		svc := NewRecommendationService(NewMockCacheRepository(), nil, nil, RecommendationServiceConfig{})

		snap := svc.Snapshot(ctx)
		if len(snap.HarmfulIngredients) != len(DefaultHarmfulIngredients) {
			t.Errorf("HarmfulIngredients = %v, want fallback list", snap.HarmfulIngredients)
		}
	})

	t.Run("ignores cache write errors", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.setError = errors.New("cache full")
		svc := NewRecommendationService(cache, newMockSource(), nil, RecommendationServiceConfig{})

		snap := svc.Snapshot(ctx)
		if len(snap.HarmfulIngredients) != 3 {
			t.Errorf("HarmfulIngredients = %v, want source list", snap.HarmfulIngredients)
		}
	})
}

func TestScoreOne(t *testing.T) {
	ctx := context.Background()
	svc := NewRecommendationService(NewMockCacheRepository(), newMockSource(), nil, RecommendationServiceConfig{})

	t.Run("returns error for nil input", func(t *testing.T) {
		if _, err := svc.ScoreOne(ctx, nil, &domain.CandidateItem{}, nil); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
		if _, err := svc.ScoreOne(ctx, testPet(), nil, nil); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("scores a single candidate", func(t *testing.T) {
		item := candidateItem("plain", nil)
		result, err := svc.ScoreOne(ctx, testPet(), &item, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !approxEqual(result.TotalScore, 68) {
			t.Errorf("TotalScore = %v, want 68", result.TotalScore)
		}
	})

	t.Run("reports exclusion", func(t *testing.T) {
		pet := testPet()
		pet.FoodAllergies = []string{"CHICKEN"}
		item := candidateItem("chicken", func(c *domain.ProductCandidate) {
			c.Parsed.PotentialAllergens = []string{"CHICKEN"}
		})
		result, err := svc.ScoreOne(ctx, pet, &item, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Excluded() {
			t.Errorf("TotalScore = %v, want %v", result.TotalScore, domain.ExcludedScore)
		}
	})
}
