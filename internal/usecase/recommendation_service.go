package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/petfit/backend/internal/domain"
	"github.com/petfit/backend/internal/logging"
	"github.com/petfit/backend/internal/metrics"
)

const snapshotCacheKey = "config:snapshot"

// RecommendationServiceConfig holds configuration for the recommendation service
type RecommendationServiceConfig struct {
	CacheTTL       time.Duration
	MaxConcurrency int
	DefaultPreset  domain.WeightsPreset
}

// RecommendationService scores a batch of candidates for one pet and ranks them
type RecommendationService struct {
	cache          domain.CacheRepository
	source         domain.ConfigTableSource
	scorer         *ScoringService
	cacheTTL       time.Duration
	maxConcurrency int
	defaultPreset  domain.WeightsPreset
	logger         zerolog.Logger
	now            func() time.Time
}

// NewRecommendationService creates a new recommendation service with dependencies.
// A nil source scores with the built-in fallback lists.
func NewRecommendationService(
	cache domain.CacheRepository,
	source domain.ConfigTableSource,
	scorer *ScoringService,
	config RecommendationServiceConfig,
) *RecommendationService {
	if scorer == nil {
		scorer = NewScoringService(ScoringConfig{})
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	maxConcurrency := config.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}

	return &RecommendationService{
		cache:          cache,
		source:         source,
		scorer:         scorer,
		cacheTTL:       cacheTTL,
		maxConcurrency: maxConcurrency,
		defaultPreset:  domain.ParseWeightsPreset(string(config.DefaultPreset)),
		logger:         logging.Component("recommendation"),
		now:            time.Now,
	}
}

// Recommend scores every candidate, drops excluded ones and returns the ranked run.
// Flow: resolve config snapshot once -> score concurrently -> filter -> sort -> rank
func (s *RecommendationService) Recommend(
	ctx context.Context,
	request *domain.ScoringRequest,
) (*domain.RecommendationRun, error) {
	if request == nil || len(request.Candidates) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	start := s.now()
	prefs := s.effectivePreferences(&request.Preferences)

	snapshot := s.Snapshot(ctx)
	scorer := s.scorer.WithSnapshot(snapshot)

	results, err := s.scoreAll(ctx, scorer, &request.Pet, request.Candidates, prefs)
	if err != nil {
		return nil, err
	}

	run := &domain.RecommendationRun{
		ID:       uuid.NewString(),
		PetID:    request.Pet.ID,
		Strategy: domain.StrategyRuleV1,
		Context: domain.RunContext{
			Preferences:        *prefs,
			ExcludedAllergens:  union(request.Pet.FoodAllergies, prefs.HardExcludeAllergens),
			HarmfulIngredients: len(scorer.tables.HarmfulIngredients),
			CandidateCount:     len(request.Candidates),
		},
		CreatedAt: start,
	}

	var hardExcluded, mismatched int
	items := make([]domain.RecommendationItem, 0, len(results))
	for i, res := range results {
		switch {
		case res.Excluded():
			hardExcluded++
			continue
		case res.Components.SpeciesMismatch:
			mismatched++
			continue
		}
		items = append(items, domain.RecommendationItem{
			ProductID:       request.Candidates[i].ProductID,
			Score:           res.TotalScore,
			SafetyScore:     res.SafetyScore,
			FitnessScore:    res.FitnessScore,
			Reasons:         res.Reasons,
			ScoreComponents: res.Components,
		})
	}

	sortItems(items)
	if request.Limit > 0 && len(items) > request.Limit {
		items = items[:request.Limit]
	}
	for i := range items {
		items[i].Rank = i + 1
	}

	run.Items = items
	run.Excluded = hardExcluded + mismatched

	elapsed := s.now().Sub(start)
	metrics.RecordBatch(len(results)-hardExcluded-mismatched, hardExcluded, mismatched, elapsed)

	s.logger.Info().
		Str("run_id", run.ID).
		Str("pet_id", run.PetID).
		Int("candidates", len(results)).
		Int("ranked", len(items)).
		Int("excluded", run.Excluded).
		Dur("elapsed", elapsed).
		Msg("recommendation run complete")

	return run, nil
}

// ScoreOne scores a single candidate against the current config snapshot
func (s *RecommendationService) ScoreOne(
	ctx context.Context,
	pet *domain.PetProfile,
	item *domain.CandidateItem,
	prefs *domain.Preferences,
) (*domain.ScoreResult, error) {
	if pet == nil || item == nil {
		return nil, domain.ErrInvalidRequest
	}

	scorer := s.scorer.WithSnapshot(s.Snapshot(ctx))
	result := scorer.Score(pet, &item.Candidate, item.NutritionFacts, s.effectivePreferences(prefs))
	return &result, nil
}

// scoreAll scores candidates in parallel; each goroutine writes only its own slot
func (s *RecommendationService) scoreAll(
	ctx context.Context,
	scorer *ScoringService,
	pet *domain.PetProfile,
	candidates []domain.CandidateItem,
	prefs *domain.Preferences,
) ([]domain.ScoreResult, error) {
	results := make([]domain.ScoreResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c := &candidates[i]
			results[i] = scorer.Score(pet, &c.Candidate, c.NutritionFacts, prefs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Snapshot resolves the dynamic config lists once for a batch.
// Flow: cache -> source -> built-in fallback. It never fails; a source error or an
// empty harmful list degrades to the fallback lists so the harmful check still runs.
func (s *RecommendationService) Snapshot(ctx context.Context) *domain.ConfigSnapshot {
	if cached, err := s.getFromCache(ctx); err == nil && cached != nil {
		metrics.ConfigSnapshots.WithLabelValues(metrics.SnapshotCache).Inc()
		return cached
	}

	snapshot, err := s.fetchSnapshot(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("config tables unavailable, using fallback lists")
		metrics.ConfigSnapshots.WithLabelValues(metrics.SnapshotFallback).Inc()
		fallback := DefaultScoringTables()
		return &domain.ConfigSnapshot{
			HarmfulIngredients: fallback.HarmfulIngredients,
			AllergenKeywords:   fallback.AllergenKeywords,
			FetchedAt:          s.now(),
		}
	}

	metrics.ConfigSnapshots.WithLabelValues(metrics.SnapshotSource).Inc()
	if err := s.setInCache(ctx, snapshot); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache config snapshot")
	}
	return snapshot
}

func (s *RecommendationService) fetchSnapshot(ctx context.Context) (*domain.ConfigSnapshot, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: no source configured", domain.ErrConfigSourceFailure)
	}

	harmful, err := s.source.HarmfulIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("harmful ingredients: %w", err)
	}
	// an empty list would turn the harmful check off
	if len(harmful) == 0 {
		return nil, fmt.Errorf("%w: harmful ingredient list is empty", domain.ErrConfigSourceFailure)
	}
	keywords, err := s.source.AllergenKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("allergen keywords: %w", err)
	}

	return &domain.ConfigSnapshot{
		HarmfulIngredients: harmful,
		AllergenKeywords:   keywords,
		FetchedAt:          s.now(),
	}, nil
}

// getFromCache retrieves the snapshot, decoding the generic form a JSON-backed cache returns
func (s *RecommendationService) getFromCache(ctx context.Context) (*domain.ConfigSnapshot, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	value, err := s.cache.Get(ctx, snapshotCacheKey)
	if err != nil {
		return nil, err
	}

	if snapshot, ok := value.(*domain.ConfigSnapshot); ok {
		return snapshot, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	var snapshot domain.ConfigSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &snapshot, nil
}

func (s *RecommendationService) setInCache(ctx context.Context, snapshot *domain.ConfigSnapshot) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, snapshotCacheKey, snapshot, s.cacheTTL)
}

// effectivePreferences fills in the configured default preset
func (s *RecommendationService) effectivePreferences(prefs *domain.Preferences) *domain.Preferences {
	out := domain.Preferences{}
	if prefs != nil {
		out = *prefs
	}
	if out.WeightsPreset == "" {
		out.WeightsPreset = s.defaultPreset
	} else {
		out.WeightsPreset = out.Preset()
	}
	return &out
}

// sortItems orders by score descending, breaking ties by product ID
func sortItems(items []domain.RecommendationItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ProductID < items[j].ProductID
	})
}
