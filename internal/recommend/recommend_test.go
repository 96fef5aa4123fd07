package recommend_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fitrec/internal/body"
	"github.com/myrjola/fitrec/internal/catalog"
	"github.com/myrjola/fitrec/internal/history"
	"github.com/myrjola/fitrec/internal/pattern"
	"github.com/myrjola/fitrec/internal/recommend"
)

func names(defs []catalog.Definition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Name)
	}
	return out
}

func TestRuleBased(t *testing.T) {
	c := catalog.Default()
	tests := []struct {
		name          string
		category      body.BMICategory
		age           float64
		wantEndurance []string
		wantStrength  []string
	}{
		{
			name:          "normal adult",
			category:      body.CategoryNormal,
			age:           30,
			wantEndurance: []string{"Jogging", "Berenang", "Bersepeda"},
			wantStrength:  []string{"Push-up", "Pull-ups", "Dips"},
		},
		{
			name:          "normal senior is limited to easy strength",
			category:      body.CategoryNormal,
			age:           50,
			wantEndurance: []string{"Jogging", "Berenang", "Bersepeda"},
			wantStrength:  []string{"Assisted Squats", "Assisted push up"},
		},
		{
			name:          "obese senior",
			category:      body.CategoryObese,
			age:           50,
			wantEndurance: []string{"Jogging", "Berenang", "Brisk Walking"},
			wantStrength:  []string{"Assisted push up", "Assisted Squats"},
		},
		{
			name:          "underweight child backfills endurance by difficulty",
			category:      body.CategoryUnderweight,
			age:           10,
			wantEndurance: []string{"Brisk Walking"},
			wantStrength:  []string{"Push-up", "Squat", "Assisted Squats"},
		},
		{
			name:          "overweight adult backfills strength by difficulty",
			category:      body.CategoryOverweight,
			age:           30,
			wantEndurance: []string{"Jogging", "Berenang", "Bersepeda"},
			wantStrength:  []string{"Push-up", "Squat", "Plank"},
		},
		{
			name:          "age adjustment starts exactly at 45",
			category:      body.CategoryOverweight,
			age:           45,
			wantEndurance: []string{"Jogging", "Berenang", "Bersepeda"},
			wantStrength:  []string{"Assisted Squats", "Assisted push up"},
		},
		{
			name:          "no age adjustment before 45",
			category:      body.CategoryOverweight,
			age:           44.9,
			wantEndurance: []string{"Jogging", "Berenang", "Bersepeda"},
			wantStrength:  []string{"Push-up", "Squat", "Plank"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recommend.RuleBased(tt.category, tt.age, c)
			if got.DataDriven {
				t.Error("DataDriven = true, want false")
			}
			if diff := cmp.Diff(tt.wantEndurance, names(got.Endurance)); diff != "" {
				t.Errorf("Endurance mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantStrength, names(got.Strength)); diff != "" {
				t.Errorf("Strength mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRuleBased_invariants(t *testing.T) {
	catalogs := map[string]*catalog.Catalog{"default": catalog.Default()}
	if duplicated, err := catalog.New([]catalog.Group{{
		Type: catalog.TypeStrength,
		Subtypes: []catalog.Subtype{
			{Name: "a", Workouts: []catalog.Definition{
				{Name: "Wall Push-up", Difficulty: catalog.DifficultyEasy},
				{Name: "Squat", Difficulty: catalog.DifficultyMedium},
			}},
			{Name: "b", Workouts: []catalog.Definition{
				{Name: "Wall Push-up", Difficulty: catalog.DifficultyEasy},
				{Name: "Squat", Difficulty: catalog.DifficultyMedium},
			}},
		},
	}}); err == nil {
		catalogs["duplicated names"] = duplicated
	} else {
		t.Fatalf("catalog.New() error = %v", err)
	}

	for catalogName, c := range catalogs {
		for _, category := range body.Categories() {
			for _, age := range []float64{10, 30, 50, 70} {
				rec := recommend.RuleBased(category, age, c)
				for typ, list := range map[string][]catalog.Definition{"endurance": rec.Endurance, "strength": rec.Strength} {
					if len(list) > recommend.MaxPerType {
						t.Errorf("%s/%s/%v: %d %s workouts, want at most %d",
							catalogName, category, age, len(list), typ, recommend.MaxPerType)
					}
					got := names(list)
					sorted := slices.Clone(got)
					slices.Sort(sorted)
					if len(slices.Compact(sorted)) != len(got) {
						t.Errorf("%s/%s/%v: duplicate %s workouts %v", catalogName, category, age, typ, got)
					}
				}
				if c != catalogs["default"] {
					continue
				}
				if len(rec.Endurance) == 0 || len(rec.Strength) == 0 {
					t.Errorf("%s/%v: empty recommendation from the built-in catalog: %+v", category, age, rec)
				}
				if age >= body.SeniorMinAge {
					for _, w := range rec.Strength {
						if w.Difficulty != catalog.DifficultyEasy {
							t.Errorf("%s/%v: senior got %s strength workout %q", category, age, w.Difficulty, w.Name)
						}
					}
					for _, w := range rec.Endurance {
						if w.Difficulty == catalog.DifficultyHard {
							t.Errorf("%s/%v: senior got hard endurance workout %q", category, age, w.Name)
						}
					}
				}
			}
		}
	}
}

func TestRuleBased_emptyCatalog(t *testing.T) {
	c, err := catalog.New(nil)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	rec := recommend.RuleBased(body.CategoryNormal, 30, c)
	if len(rec.Endurance) != 0 || len(rec.Strength) != 0 {
		t.Errorf("RuleBased() = %+v, want empty lists", rec)
	}
}

func record(bmiCategory, ageBracket string, total float64, workouts ...string) history.Record {
	return history.Record{
		WeightKg:      0,
		HeightCm:      0,
		BMI:           0,
		BMICategory:   bmiCategory,
		AgeBracket:    ageBracket,
		Workouts:      workouts,
		TotalWorkouts: new(total),
	}
}

func TestDataDriven(t *testing.T) {
	c := catalog.Default()
	tests := []struct {
		name          string
		records       []history.Record
		wantEndurance []string
		wantStrength  []string
	}{
		{
			name: "most popular workouts split by type",
			records: []history.Record{
				record("Normal", "Dewasa", 3, "Jogging", "Push-up", "Squat"),
				record("Normal", "Dewasa", 3, "Push-up", "Jogging", "Berenang"),
			},
			wantEndurance: []string{"Jogging"},
			wantStrength:  []string{"Push-up", "Squat"},
		},
		{
			name: "equal counts rank by the earliest workout slot",
			records: []history.Record{
				record("Normal", "Dewasa", 2, "Push-up", "Squat"),
				record("Normal", "Dewasa", 2, "Jogging", "Push-up"),
			},
			wantEndurance: []string{"Jogging"},
			wantStrength:  []string{"Push-up"},
		},
		{
			name: "unknown names are skipped and the shortfall comes from the rules",
			records: []history.Record{
				record("Normal", "Dewasa", 4, "Yoga", "Squat"),
				record("Normal", "Dewasa", 4, "Yoga"),
				record("Normal", "Dewasa", 4, "Yoga"),
			},
			wantEndurance: []string{"Jogging", "Berenang", "Bersepeda"},
			wantStrength:  []string{"Squat"},
		},
		{
			name: "missing type is replaced by the rule-based list",
			records: []history.Record{
				record("Normal", "Dewasa", 2, "Push-up", "Dips"),
				record("Normal", "Dewasa", 2, "Push-up"),
			},
			wantEndurance: []string{"Jogging", "Berenang", "Bersepeda"},
			wantStrength:  []string{"Push-up", "Dips"},
		},
		{
			name: "lists are truncated",
			records: []history.Record{
				record("Normal", "Dewasa", 5, "Push-up", "Pull-ups", "Dips", "Squat", "Plank"),
				record("Normal", "Dewasa", 5, "Push-up", "Pull-ups", "Dips", "Squat"),
				record("Normal", "Dewasa", 5, "Push-up", "Pull-ups", "Dips"),
			},
			wantEndurance: []string{"Jogging", "Berenang", "Bersepeda"},
			wantStrength:  []string{"Push-up", "Pull-ups", "Dips"},
		},
		{
			name: "average rounds half to even",
			records: []history.Record{
				record("Normal", "Dewasa", 2, "Burpees", "Jogging", "Plank"),
				record("Normal", "Dewasa", 3, "Burpees", "Jogging"),
			},
			wantEndurance: []string{"Jogging"},
			wantStrength:  []string{"Burpees"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recommend.DataDriven(body.CategoryNormal, body.BracketAdult, 30, pattern.Extract(tt.records), c)
			if !got.DataDriven {
				t.Error("DataDriven = false, want true")
			}
			if diff := cmp.Diff(tt.wantEndurance, names(got.Endurance)); diff != "" {
				t.Errorf("Endurance mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantStrength, names(got.Strength)); diff != "" {
				t.Errorf("Strength mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDataDriven_withoutAverageUsesRulesForBothTypes(t *testing.T) {
	c := catalog.Default()
	records := []history.Record{{
		WeightKg: 0, HeightCm: 0, BMI: 0, BMICategory: "Normal", AgeBracket: "Dewasa",
		Workouts: []string{"Burpees", "Plank"}, TotalWorkouts: nil,
	}}
	got := recommend.DataDriven(body.CategoryNormal, body.BracketAdult, 30, pattern.Extract(records), c)
	want := recommend.RuleBased(body.CategoryNormal, 30, c)
	want.DataDriven = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DataDriven() mismatch (-want +got):\n%s", diff)
	}
}

func TestDataDriven_averageRoundingToZeroTakesNoHistory(t *testing.T) {
	c := catalog.Default()
	records := []history.Record{record("Normal", "Dewasa", 0.4, "Burpees", "Plank")}
	got := recommend.DataDriven(body.CategoryNormal, body.BracketAdult, 30, pattern.Extract(records), c)
	want := recommend.RuleBased(body.CategoryNormal, 30, c)
	want.DataDriven = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DataDriven() mismatch (-want +got):\n%s", diff)
	}
}

func TestDataDriven_absentGroupMatchesRuleBased(t *testing.T) {
	c := catalog.Default()
	patterns := pattern.Extract([]history.Record{record("Normal", "Dewasa", 3, "Burpees")})

	for _, category := range body.Categories() {
		for _, age := range []float64{10, 30, 50, 70} {
			bracket := body.ClassifyAge(age)
			if category == body.CategoryNormal && bracket == body.BracketAdult {
				continue
			}
			got := recommend.DataDriven(category, bracket, age, patterns, c)
			want := recommend.RuleBased(category, age, c)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("%s/%v: DataDriven() mismatch (-want +got):\n%s", category, age, diff)
			}
		}
	}
}

func TestDataDriven_invariants(t *testing.T) {
	c := catalog.Default()
	all := names(c.All())
	reversed := slices.Clone(all)
	slices.Reverse(reversed)
	var records []history.Record
	for _, category := range body.Categories() {
		for _, bracket := range []body.AgeBracket{body.BracketYoung, body.BracketAdult, body.BracketSenior} {
			records = append(records,
				record(string(category), string(bracket), 6, all...),
				record(string(category), string(bracket), 7, reversed...),
			)
		}
	}
	patterns := pattern.Extract(records)

	for _, category := range body.Categories() {
		for _, age := range []float64{10, 30, 50, 70} {
			rec := recommend.DataDriven(category, body.ClassifyAge(age), age, patterns, c)
			if len(rec.Endurance) == 0 || len(rec.Endurance) > recommend.MaxPerType ||
				len(rec.Strength) == 0 || len(rec.Strength) > recommend.MaxPerType {
				t.Errorf("%s/%v: list sizes %d/%d out of range", category, age, len(rec.Endurance), len(rec.Strength))
			}
			for _, w := range rec.Endurance {
				if w.Type != catalog.TypeEndurance {
					t.Errorf("%s/%v: %q in endurance list", category, age, w.Name)
				}
			}
			for _, w := range rec.Strength {
				if w.Type != catalog.TypeStrength {
					t.Errorf("%s/%v: %q in strength list", category, age, w.Name)
				}
			}
		}
	}
}
