// Package recommend picks endurance and strength workouts for a classified profile.
package recommend

import (
	"slices"
	"strings"

	"github.com/myrjola/fitrec/internal/body"
	"github.com/myrjola/fitrec/internal/catalog"
)

// MaxPerType is the maximum number of workouts recommended per workout type.
const MaxPerType = 3

// Recommendation holds the chosen workouts. The lists hold at most [MaxPerType] workouts each and never repeat a name.
type Recommendation struct {
	Endurance []catalog.Definition `json:"endurance_workouts"`
	Strength  []catalog.Definition `json:"strength_workouts"`
	// DataDriven is true when the recommendation came from historical patterns rather than the rule table.
	DataDriven bool `json:"data_driven"`
}

// policy is the rule table entry of a BMI category.
type policy struct {
	strengthDifficulty  []catalog.Difficulty
	enduranceDifficulty []catalog.Difficulty
	// Targets are case-sensitive substrings of the workout names that are picked before any other workout.
	strengthTargets  []string
	enduranceTargets []string
}

// lowImpactEndurance is appended to the endurance targets of seniors.
//
//nolint:gochecknoglobals // read-only rule table.
var lowImpactEndurance = []string{"Brisk Walking", "Berenang"}

func policyFor(category body.BMICategory, age float64) policy {
	var p policy
	switch category {
	case body.CategoryUnderweight:
		p = policy{
			strengthDifficulty:  []catalog.Difficulty{catalog.DifficultyEasy, catalog.DifficultyMedium},
			enduranceDifficulty: []catalog.Difficulty{catalog.DifficultyEasy},
			strengthTargets:     []string{"Push-up", "Squat", "Dips", "Pull-ups"},
			enduranceTargets:    []string{"Jogging", "Berenang"},
		}
	case body.CategoryNormal:
		p = policy{
			strengthDifficulty:  []catalog.Difficulty{catalog.DifficultyMedium, catalog.DifficultyHard},
			enduranceDifficulty: []catalog.Difficulty{catalog.DifficultyMedium, catalog.DifficultyHard},
			strengthTargets:     []string{"Push-up", "Squat", "Dips", "Pull-ups"},
			enduranceTargets:    []string{"Jogging", "Bersepeda", "Berenang"},
		}
	case body.CategoryOverweight:
		p = policy{
			strengthDifficulty:  []catalog.Difficulty{catalog.DifficultyMedium},
			enduranceDifficulty: []catalog.Difficulty{catalog.DifficultyMedium, catalog.DifficultyHard},
			strengthTargets:     []string{"Push-up", "Squat"},
			enduranceTargets:    []string{"Jogging", "Berenang", "Bersepeda"},
		}
	default:
		p = policy{
			strengthDifficulty:  []catalog.Difficulty{catalog.DifficultyEasy},
			enduranceDifficulty: []catalog.Difficulty{catalog.DifficultyEasy, catalog.DifficultyMedium},
			strengthTargets:     []string{"Assisted", "Wall"},
			enduranceTargets:    []string{"Jogging", "Berenang", "Brisk Walking"},
		}
	}

	if age >= body.SeniorMinAge {
		p.strengthDifficulty = []catalog.Difficulty{catalog.DifficultyEasy}
		p.enduranceDifficulty = slices.DeleteFunc(p.enduranceDifficulty, func(d catalog.Difficulty) bool {
			return d == catalog.DifficultyHard
		})
		p.enduranceTargets = append(p.enduranceTargets, lowImpactEndurance...)
	}
	return p
}

// RuleBased recommends workouts from the fixed rule table of the BMI category, adjusted for seniors.
//
// Workouts whose names contain one of the category's targets come first, in catalog order. Lists shorter than
// [MaxPerType] are topped up with any other workout of the allowed difficulty. RuleBased never fails; a catalog
// without suitable workouts leaves the affected list short or empty.
func RuleBased(category body.BMICategory, age float64, c *catalog.Catalog) Recommendation {
	p := policyFor(category, age)
	return Recommendation{
		Endurance:  pick(c.OfType(catalog.TypeEndurance), p.enduranceTargets, p.enduranceDifficulty),
		Strength:   pick(c.OfType(catalog.TypeStrength), p.strengthTargets, p.strengthDifficulty),
		DataDriven: false,
	}
}

func pick(workouts []catalog.Definition, targets []string, allowed []catalog.Difficulty) []catalog.Definition {
	picked := make([]catalog.Definition, 0, MaxPerType)
	for _, w := range workouts {
		if slices.Contains(allowed, w.Difficulty) && matchesAny(w.Name, targets) && !containsName(picked, w.Name) {
			picked = append(picked, w)
		}
	}

	for _, w := range workouts {
		if len(picked) >= MaxPerType {
			break
		}
		if slices.Contains(allowed, w.Difficulty) && !containsName(picked, w.Name) {
			picked = append(picked, w)
		}
	}

	return truncate(picked)
}

func matchesAny(name string, targets []string) bool {
	return slices.ContainsFunc(targets, func(target string) bool {
		return strings.Contains(name, target)
	})
}

func containsName(workouts []catalog.Definition, name string) bool {
	return slices.ContainsFunc(workouts, func(w catalog.Definition) bool {
		return w.Name == name
	})
}

func truncate(workouts []catalog.Definition) []catalog.Definition {
	if len(workouts) > MaxPerType {
		return workouts[:MaxPerType]
	}
	return workouts
}
