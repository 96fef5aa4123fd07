package recommend

import (
	"math"
	"slices"

	"github.com/myrjola/fitrec/internal/body"
	"github.com/myrjola/fitrec/internal/catalog"
	"github.com/myrjola/fitrec/internal/pattern"
)

// DataDriven recommends the workouts most popular among historical users with the same BMI category and age
// bracket, falling back to [RuleBased] when the dataset has no such group.
//
// As many workouts as the group's rounded average workout count are taken from the ranked history; names missing
// from the catalog are skipped. A shortfall is filled from the rule-based endurance list and then its strength list.
// Finally, a workout type left without any workout gets the rule-based list for that type.
func DataDriven(
	category body.BMICategory,
	bracket body.AgeBracket,
	age float64,
	patterns pattern.Patterns,
	c *catalog.Catalog,
) Recommendation {
	p, ok := patterns.Lookup(category, bracket)
	if !ok {
		return RuleBased(category, age, c)
	}

	target := targetCount(p)
	combined := make([]catalog.Definition, 0, target)
	for _, nc := range p.Ranked() {
		if len(combined) >= target {
			break
		}
		if w, found := c.Lookup(nc.Name); found && !containsName(combined, w.Name) {
			combined = append(combined, w)
		}
	}

	fallback := RuleBased(category, age, c)
	if len(combined) < target {
		for _, w := range slices.Concat(fallback.Endurance, fallback.Strength) {
			if len(combined) >= target {
				break
			}
			if !containsName(combined, w.Name) {
				combined = append(combined, w)
			}
		}
	}

	rec := Recommendation{
		Endurance:  make([]catalog.Definition, 0, MaxPerType),
		Strength:   make([]catalog.Definition, 0, MaxPerType),
		DataDriven: true,
	}
	for _, w := range combined {
		switch w.Type {
		case catalog.TypeEndurance:
			rec.Endurance = append(rec.Endurance, w)
		case catalog.TypeStrength:
			rec.Strength = append(rec.Strength, w)
		}
	}
	if len(rec.Endurance) == 0 {
		rec.Endurance = fallback.Endurance
	}
	if len(rec.Strength) == 0 {
		rec.Strength = fallback.Strength
	}

	rec.Endurance = truncate(rec.Endurance)
	rec.Strength = truncate(rec.Strength)
	return rec
}

// targetCount is the group's average workout count rounded half to even. Groups without a recorded count, or a
// negative average, target no historical workouts.
func targetCount(p pattern.Pattern) int {
	if !p.HasAverage() || p.AvgWorkouts <= 0 {
		return 0
	}
	return int(math.RoundToEven(p.AvgWorkouts))
}
