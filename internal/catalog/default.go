package catalog

// Default returns the built-in catalog used when no catalog file can be loaded.
// It covers every workout name the recommendation rules target.
func Default() *Catalog {
	c, err := New(defaultGroups())
	if err != nil {
		panic("built-in catalog is invalid: " + err.Error())
	}
	return c
}

func defaultGroups() []Group {
	return []Group{
		{
			Type: TypeStrength,
			Subtypes: []Subtype{
				{
					Name: "upper_body",
					Workouts: []Definition{
						{Name: "Push-up", Description: "Basic upper body exercise", TargetMuscles: "Dada, Triceps",
							Difficulty: DifficultyMedium, Type: TypeStrength, Subtype: "upper_body"},
						{Name: "Pull-ups", Description: "Upper back and biceps builder", TargetMuscles: "Punggung, Biceps",
							Difficulty: DifficultyHard, Type: TypeStrength, Subtype: "upper_body"},
						{Name: "Dips", Description: "Triceps builder", TargetMuscles: "Triceps, Dada",
							Difficulty: DifficultyHard, Type: TypeStrength, Subtype: "upper_body"},
						{Name: "Assisted push up", Description: "Modified push-up for beginners",
							TargetMuscles: "Dada, Triceps", Difficulty: DifficultyEasy, Type: TypeStrength,
							Subtype: "upper_body"},
					},
				},
				{
					Name: "lower_body",
					Workouts: []Definition{
						{Name: "Squat", Description: "Basic lower body exercise", TargetMuscles: "Quadriceps, Glutes",
							Difficulty: DifficultyMedium, Type: TypeStrength, Subtype: "lower_body"},
						{Name: "Assisted Squats", Description: "Supported squat for beginners",
							TargetMuscles: "Quadriceps, Glutes", Difficulty: DifficultyEasy, Type: TypeStrength,
							Subtype: "lower_body"},
						{Name: "Burpees", Description: "Full body conditioning", TargetMuscles: "Full Body",
							Difficulty: DifficultyHard, Type: TypeStrength, Subtype: "full_body"},
						{Name: "Tuck Jumps", Description: "Explosive leg exercise", TargetMuscles: "Legs, Core",
							Difficulty: DifficultyHard, Type: TypeStrength, Subtype: "lower_body"},
						{Name: "Plank", Description: "Core stabilizer", TargetMuscles: "Core",
							Difficulty: DifficultyMedium, Type: TypeStrength, Subtype: "core"},
					},
				},
			},
		},
		{
			Type: TypeEndurance,
			Subtypes: []Subtype{
				{
					Name: "cardio",
					Workouts: []Definition{
						{Name: "Jogging", Description: "Basic cardio workout", TargetMuscles: "Kardiovaskular",
							Difficulty: DifficultyMedium, Type: TypeEndurance, Subtype: "cardio"},
						{Name: "Berenang", Description: "Full body cardio", TargetMuscles: "Kardiovaskular, Full Body",
							Difficulty: DifficultyMedium, Type: TypeEndurance, Subtype: "cardio"},
						{Name: "Bersepeda", Description: "Lower impact cardio", TargetMuscles: "Kardiovaskular, Legs",
							Difficulty: DifficultyMedium, Type: TypeEndurance, Subtype: "cardio"},
						{Name: "Brisk Walking", Description: "Low impact cardio", TargetMuscles: "Kardiovaskular",
							Difficulty: DifficultyEasy, Type: TypeEndurance, Subtype: "cardio"},
					},
				},
			},
		},
	}
}
