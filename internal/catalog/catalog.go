// Package catalog holds the workout definitions recommendations are drawn from.
//
// A catalog is ordered: types contain subtypes which contain workouts, and every scan walks them in the order they
// were declared. Name lookups go through an index built once when the catalog is created; when a name is declared
// more than once the first declaration wins.
package catalog

import (
	"log/slog"
	"slices"

	"github.com/myrjola/fitrec/internal/errors"
)

// Difficulty is how demanding a workout is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (d Difficulty) valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Type is the training focus of a workout.
type Type string

const (
	TypeStrength  Type = "strength"
	TypeEndurance Type = "endurance"
)

func (t Type) valid() bool {
	return t == TypeStrength || t == TypeEndurance
}

// Definition describes a single workout.
type Definition struct {
	Name          string     `json:"name"        yaml:"name"`
	Description   string     `json:"description" yaml:"description"`
	TargetMuscles string     `json:"target"      yaml:"target"`
	Difficulty    Difficulty `json:"difficulty"  yaml:"difficulty"`
	Type          Type       `json:"type"        yaml:"type"`
	Subtype       string     `json:"subtype"     yaml:"subtype"`
}

// Subtype is a named list of workouts within a type, e.g. upper_body.
type Subtype struct {
	Name     string
	Workouts []Definition
}

// Group is all subtypes declared under one type.
type Group struct {
	Type     Type
	Subtypes []Subtype
}

// Catalog is a read-only, ordered collection of workout definitions.
type Catalog struct {
	groups []Group
	byName map[string]Definition
}

var (
	ErrMalformed   = errors.NewSentinel("malformed catalog")
	ErrUnknownType = errors.NewSentinel("unknown workout type")
)

// New validates groups and builds a catalog from them.
//
// Workouts inherit the type of their group and, when they declare none, the name of their subtype. A workout that
// declares a type other than its group's is rejected.
func New(groups []Group) (*Catalog, error) {
	c := &Catalog{
		groups: make([]Group, 0, len(groups)),
		byName: make(map[string]Definition),
	}
	for _, g := range groups {
		if !g.Type.valid() {
			return nil, errors.Wrap(ErrMalformed, "invalid type", slog.String("type", string(g.Type)))
		}
		group := Group{Type: g.Type, Subtypes: make([]Subtype, 0, len(g.Subtypes))}
		for _, sub := range g.Subtypes {
			workouts := make([]Definition, 0, len(sub.Workouts))
			for _, w := range sub.Workouts {
				if err := normalize(&w, g.Type, sub.Name); err != nil {
					return nil, err
				}
				workouts = append(workouts, w)
				if _, ok := c.byName[w.Name]; !ok {
					c.byName[w.Name] = w
				}
			}
			group.Subtypes = append(group.Subtypes, Subtype{Name: sub.Name, Workouts: workouts})
		}
		c.groups = append(c.groups, group)
	}
	return c, nil
}

func normalize(w *Definition, groupType Type, subtype string) error {
	if w.Name == "" {
		return errors.Wrap(ErrMalformed, "workout without name", slog.String("subtype", subtype))
	}
	if !w.Difficulty.valid() {
		return errors.Wrap(ErrMalformed, "invalid difficulty",
			slog.String("workout", w.Name), slog.String("difficulty", string(w.Difficulty)))
	}
	if w.Type == "" {
		w.Type = groupType
	}
	if w.Type != groupType {
		return errors.Wrap(ErrMalformed, "workout type differs from its group",
			slog.String("workout", w.Name), slog.String("type", string(w.Type)),
			slog.String("group", string(groupType)))
	}
	if w.Subtype == "" {
		w.Subtype = subtype
	}
	return nil
}

// Groups returns the catalog structure in declaration order.
func (c *Catalog) Groups() []Group {
	return slices.Clone(c.groups)
}

// All returns every workout in declaration order.
func (c *Catalog) All() []Definition {
	var all []Definition
	for _, g := range c.groups {
		for _, sub := range g.Subtypes {
			all = append(all, sub.Workouts...)
		}
	}
	return all
}

// OfType returns the workouts of type t in declaration order.
func (c *Catalog) OfType(t Type) []Definition {
	var workouts []Definition
	for _, g := range c.groups {
		if g.Type != t {
			continue
		}
		for _, sub := range g.Subtypes {
			workouts = append(workouts, sub.Workouts...)
		}
	}
	return workouts
}

// Lookup returns the first workout declared with the given name.
func (c *Catalog) Lookup(name string) (Definition, bool) {
	w, ok := c.byName[name]
	return w, ok
}

// Len returns the number of declared workouts, counting repeated names.
func (c *Catalog) Len() int {
	n := 0
	for _, g := range c.groups {
		for _, sub := range g.Subtypes {
			n += len(sub.Workouts)
		}
	}
	return n
}
