package catalog

import (
	"log/slog"

	"github.com/myrjola/fitrec/internal/errors"
)

// AllTypes selects workouts of every type in [Catalog.Browse].
const AllTypes = "semua"

// AllLevels disables difficulty filtering in [Catalog.Browse], as does an empty level.
const AllLevels = "all"

//nolint:gochecknoglobals // read-only lookup table.
var levelDifficulty = map[string]Difficulty{
	"beginner":     DifficultyEasy,
	"intermediate": DifficultyMedium,
	"advanced":     DifficultyHard,
}

// Browse lists the workouts of workoutType, which is strength, endurance or [AllTypes], optionally restricted to
// the difficulty of an experience level: beginner, intermediate or advanced. A level that is none of these matches
// no workout.
func (c *Catalog) Browse(workoutType, level string) ([]Definition, error) {
	var workouts []Definition
	switch t := Type(workoutType); {
	case workoutType == AllTypes:
		workouts = c.All()
	case t.valid() && c.hasType(t):
		workouts = c.OfType(t)
	default:
		return nil, errors.Wrap(ErrUnknownType, "browse", slog.String("type", workoutType))
	}

	if level == "" || level == AllLevels {
		return workouts, nil
	}

	want, ok := levelDifficulty[level]
	filtered := make([]Definition, 0, len(workouts))
	for _, w := range workouts {
		if ok && w.Difficulty == want {
			filtered = append(filtered, w)
		}
	}
	return filtered, nil
}

func (c *Catalog) hasType(t Type) bool {
	for _, g := range c.groups {
		if g.Type == t {
			return true
		}
	}
	return false
}
