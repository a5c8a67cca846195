package usecase

import (
	"github.com/rs/zerolog"

	"github.com/petfit/backend/internal/domain"
	"github.com/petfit/backend/internal/logging"
)

// ScoringConfig holds configuration for the scoring service
type ScoringConfig struct {
	Tables             *ScoringTables
	EnableDebugLogging bool
}

// ScoringService scores products for a pet. It holds no mutable state and is safe
// for concurrent use; every call reads only its arguments and the immutable tables.
type ScoringService struct {
	tables             ScoringTables
	enableDebugLogging bool
	logger             zerolog.Logger
}

// NewScoringService creates a scoring service, using the built-in tables when none are given
func NewScoringService(config ScoringConfig) *ScoringService {
	tables := DefaultScoringTables()
	if config.Tables != nil {
		tables = *config.Tables
	}

	return &ScoringService{
		tables:             tables,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logging.Component("scoring"),
	}
}

// WithSnapshot returns a service bound to one batch's dynamic lists
func (s *ScoringService) WithSnapshot(snapshot *domain.ConfigSnapshot) *ScoringService {
	if snapshot == nil {
		return s
	}
	clone := *s
	clone.tables = s.tables.WithDynamicLists(snapshot.HarmfulIngredients, snapshot.AllergenKeywords)
	return &clone
}

// Tables returns the tables the service scores with
func (s *ScoringService) Tables() ScoringTables {
	return s.tables
}

// Score runs the full pipeline for one candidate: safety, fitness, then the combined total.
// Hard-excluded candidates skip the fitness step and carry domain.ExcludedScore.
func (s *ScoringService) Score(
	pet *domain.PetProfile,
	candidate *domain.ProductCandidate,
	facts *domain.NutritionFacts,
	prefs *domain.Preferences,
) domain.ScoreResult {
	if prefs == nil {
		prefs = &domain.Preferences{}
	}

	comp := domain.ScoreComponents{Preset: prefs.Preset()}

	safety, reasons := s.scoreSafety(pet, candidate, prefs, s.tables.HarmfulIngredients, &comp)
	if safety == 0 {
		return domain.ScoreResult{
			TotalScore: domain.ExcludedScore,
			Reasons:    reasons,
			Components: comp,
		}
	}

	fitness, fitnessReasons, agePenalty := s.scoreFitness(pet, candidate, facts, prefs, &comp)
	reasons = append(reasons, fitnessReasons...)

	total := CombineScores(safety, fitness, agePenalty, prefs)

	if s.enableDebugLogging {
		s.logger.Debug().
			Str("product", candidate.ProductName).
			Float64("safety", safety).
			Float64("fitness", fitness).
			Float64("age_penalty", agePenalty).
			Float64("total", total).
			Msg("candidate scored")
	}

	return domain.ScoreResult{
		SafetyScore:  safety,
		FitnessScore: fitness,
		AgePenalty:   agePenalty,
		TotalScore:   total,
		Reasons:      reasons,
		Components:   comp,
	}
}
