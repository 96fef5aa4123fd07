// Package pattern aggregates historical workout logs into per-profile workout frequencies.
package pattern

import (
	"math"
	"slices"

	"github.com/myrjola/fitrec/internal/body"
	"github.com/myrjola/fitrec/internal/history"
)

// Key identifies a group of historical records by the category labels stored in the dataset.
type Key struct {
	BMICategory string
	AgeBracket  string
}

// KeyFor builds the key a freshly classified profile is looked up with.
func KeyFor(category body.BMICategory, bracket body.AgeBracket) Key {
	return Key{BMICategory: string(category), AgeBracket: string(bracket)}
}

// NameCount is a workout name and how often it occurs in a group.
type NameCount struct {
	Name  string
	Count int
}

// Pattern is the workout distribution of one group of records.
type Pattern struct {
	// Counts maps workout name to the number of slots it fills across the group.
	Counts map[string]int
	// Probabilities maps workout name to its share of all filled slots. It is empty when Counts is.
	Probabilities map[string]float64
	// AvgWorkouts is the mean workout count over the rows that record one, NaN when none does.
	AvgWorkouts float64
	// Records is the number of rows in the group.
	Records int
	// order lists names in the order they were first seen, scanning slot by slot across the rows.
	order []string
}

// HasAverage reports whether any row of the group recorded a workout count.
func (p Pattern) HasAverage() bool {
	return !math.IsNaN(p.AvgWorkouts)
}

// Ranked returns the workout names by descending count. Equal counts keep the order the names were first seen in
// when reading the group one workout slot at a time.
func (p Pattern) Ranked() []NameCount {
	ranked := make([]NameCount, 0, len(p.order))
	for _, name := range p.order {
		ranked = append(ranked, NameCount{Name: name, Count: p.Counts[name]})
	}
	slices.SortStableFunc(ranked, func(a, b NameCount) int {
		return b.Count - a.Count
	})
	return ranked
}

// Top returns at most n of the highest ranked workouts.
func (p Pattern) Top(n int) []NameCount {
	ranked := p.Ranked()
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Patterns maps each group found in the dataset to its pattern.
type Patterns map[Key]Pattern

// Lookup returns the pattern for a classified profile.
func (ps Patterns) Lookup(category body.BMICategory, bracket body.AgeBracket) (Pattern, bool) {
	p, ok := ps[KeyFor(category, bracket)]
	return p, ok
}

type accumulator struct {
	counts  map[string]int
	rows    [][]string
	slots   int
	records int
	// sum and counted cover the rows that record a workout count.
	sum     float64
	counted int
}

// Extract groups records by their dataset labels and computes every group's pattern.
func Extract(records []history.Record) Patterns {
	groups := make(map[Key]*accumulator)
	for _, r := range records {
		key := Key{BMICategory: r.BMICategory, AgeBracket: r.AgeBracket}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{counts: make(map[string]int)} //nolint:exhaustruct // zero values are the start state.
			groups[key] = acc
		}

		acc.records++
		acc.rows = append(acc.rows, r.Workouts)
		for _, name := range r.Workouts {
			if name == "" {
				continue
			}
			acc.counts[name]++
			acc.slots++
		}
		if r.TotalWorkouts != nil && !math.IsNaN(*r.TotalWorkouts) {
			acc.sum += *r.TotalWorkouts
			acc.counted++
		}
	}

	patterns := make(Patterns, len(groups))
	for key, acc := range groups {
		probs := make(map[string]float64, len(acc.counts))
		for name, count := range acc.counts {
			probs[name] = float64(count) / float64(acc.slots)
		}
		avg := math.NaN()
		if acc.counted > 0 {
			avg = acc.sum / float64(acc.counted)
		}
		patterns[key] = Pattern{
			Counts:        acc.counts,
			Probabilities: probs,
			AvgWorkouts:   avg,
			Records:       acc.records,
			order:         firstSeen(acc.rows),
		}
	}
	return patterns
}

// firstSeen lists the distinct names of rows column by column: every row's first slot, then every row's second
// slot, and so on.
func firstSeen(rows [][]string) []string {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	seen := make(map[string]struct{})
	var order []string
	for slot := range width {
		for _, row := range rows {
			if slot >= len(row) || row[slot] == "" {
				continue
			}
			if _, ok := seen[row[slot]]; !ok {
				seen[row[slot]] = struct{}{}
				order = append(order, row[slot])
			}
		}
	}
	return order
}
