// Package advisor turns a user's measurements into a complete workout recommendation.
package advisor

import (
	"context"
	"log/slog"
	"math"

	"github.com/myrjola/fitrec/internal/body"
	"github.com/myrjola/fitrec/internal/catalog"
	"github.com/myrjola/fitrec/internal/errors"
	"github.com/myrjola/fitrec/internal/pattern"
	"github.com/myrjola/fitrec/internal/recommend"
	"github.com/myrjola/fitrec/internal/summary"
)

var ErrInvalidProfile = errors.NewSentinel("age, height and weight must be positive numbers")

// Result is the recommendation document returned to clients.
type Result struct {
	BMI             float64          `json:"bmi"`
	BMICategory     body.BMICategory `json:"bmi_category"`
	AgeCategory     body.AgeBracket  `json:"age_category"`
	DifficultyLevel string           `json:"difficulty_level"`
	// Summary is the narrative as HTML paragraphs.
	Summary string `json:"summary"`
	recommend.Recommendation
}

// Service recommends workouts from a catalog and, when available, historical patterns.
//
// A Service is read-only after construction and safe for concurrent use.
type Service struct {
	catalog  *catalog.Catalog
	patterns pattern.Patterns
	logger   *slog.Logger
}

// New creates a Service. A nil patterns disables the data-driven recommender.
func New(c *catalog.Catalog, patterns pattern.Patterns, logger *slog.Logger) *Service {
	return &Service{
		catalog:  c,
		patterns: patterns,
		logger:   logger,
	}
}

// DataAvailable reports whether recommendations are mined from historical patterns.
func (s *Service) DataAvailable() bool {
	return s.patterns != nil
}

// Recommend classifies the profile and recommends workouts for it.
func (s *Service) Recommend(ctx context.Context, p body.Profile) (Result, error) {
	if !positive(p.Age) || !positive(p.HeightCm) || !positive(p.WeightKg) {
		return Result{}, errors.Wrap(ErrInvalidProfile, "validate profile",
			slog.Float64("age", p.Age), slog.Float64("height", p.HeightCm), slog.Float64("weight", p.WeightKg))
	}

	bmi := body.ClassifyBMI(p.WeightKg, p.HeightCm)
	bracket := body.ClassifyAge(p.Age)
	difficulty := body.DifficultyLevel(bmi.Category, p.Age)

	var (
		rec   recommend.Recommendation
		found *pattern.Pattern
	)
	if s.patterns != nil {
		rec = recommend.DataDriven(bmi.Category, bracket, p.Age, s.patterns, s.catalog)
		if pat, ok := s.patterns.Lookup(bmi.Category, bracket); ok {
			found = &pat
		}
	} else {
		rec = recommend.RuleBased(bmi.Category, p.Age, s.catalog)
	}

	narrative, err := summary.Generate(summary.Input{
		Category:   bmi.Category,
		Bracket:    bracket,
		Difficulty: difficulty,
		Pattern:    found,
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "generate summary")
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "recommended workouts",
		slog.String("bmi_category", string(bmi.Category)),
		slog.String("age_category", string(bracket)),
		slog.Bool("data_driven", rec.DataDriven),
		slog.Int("endurance", len(rec.Endurance)),
		slog.Int("strength", len(rec.Strength)))

	return Result{
		BMI:             bmi.Value,
		BMICategory:     bmi.Category,
		AgeCategory:     bracket,
		DifficultyLevel: difficulty,
		Summary:         narrative,
		Recommendation:  rec,
	}, nil
}

// Browse lists catalog workouts, see [catalog.Catalog.Browse].
func (s *Service) Browse(workoutType, level string) ([]catalog.Definition, error) {
	workouts, err := s.catalog.Browse(workoutType, level)
	if err != nil {
		return nil, errors.Wrap(err, "browse catalog")
	}
	return workouts, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
