package domain

// ExerciseTier ranks an exercise inside a workout day.
type ExerciseTier string

const (
	ExerciseAnchor    ExerciseTier = "Anchor"
	ExercisePrimary   ExerciseTier = "Primary"
	ExerciseSecondary ExerciseTier = "Secondary"
	ExerciseAccessory ExerciseTier = "Accessory"
)

// TrainingProgram is the generated multi-week program.
// Validate tags describe the shape the guardian requires before any rule is checked.
type TrainingProgram struct {
	Name               string         `bson:"name" json:"name" validate:"required"`
	Description        string         `bson:"description,omitempty" json:"description,omitempty"`
	PeriodizationModel string         `bson:"periodizationModel,omitempty" json:"periodizationModel,omitempty"`
	DurationWeeksTotal int            `bson:"durationWeeksTotal" json:"durationWeeksTotal" validate:"required,min=1"`
	Phases             []ProgramPhase `bson:"phases" json:"phases" validate:"required,min=1,dive"`
}

// ProgramPhase is an ordered block of weeks.
type ProgramPhase struct {
	Name          string          `bson:"name" json:"name" validate:"required"`
	DurationWeeks int             `bson:"durationWeeks" json:"durationWeeks" validate:"min=1"`
	Adaptation    Adaptation      `bson:"adaptation,omitempty" json:"adaptation,omitempty" validate:"omitempty,oneof=hypertrophy strength peaking recovery"`
	Progression   ProgressionMode `bson:"progression,omitempty" json:"progression,omitempty" validate:"omitempty,oneof=ramping stable linear"`
	Intensity     IntensityRange  `bson:"intensity" json:"intensity"`
	Weeks         []ProgramWeek   `bson:"weeks" json:"weeks" validate:"required,min=1,dive"`
}

// ProgramWeek numbers run 1..N across the whole program.
type ProgramWeek struct {
	WeekNumber int          `bson:"weekNumber" json:"weekNumber" validate:"gte=0"`
	Days       []WorkoutDay `bson:"days" json:"days" validate:"required,min=1,dive"`
}

// WorkoutDay is a single session, or a rest day.
type WorkoutDay struct {
	DayNumber int               `bson:"dayNumber" json:"dayNumber" validate:"gte=0"`
	Name      string            `bson:"name,omitempty" json:"name,omitempty"`
	IsRestDay bool              `bson:"isRestDay" json:"isRestDay"`
	Exercises []ProgramExercise `bson:"exercises" json:"exercises" validate:"omitempty,dive"`
}

// ProgramExercise is one prescribed movement.
type ProgramExercise struct {
	Name        string       `bson:"name" json:"name" validate:"required"`
	Tier        ExerciseTier `bson:"tier" json:"tier" validate:"required,oneof=Anchor Primary Secondary Accessory"`
	Sets        int          `bson:"sets" json:"sets" validate:"gte=0"`
	Reps        string       `bson:"reps" json:"reps" validate:"required"` // "5", "8-12", "AMRAP"
	RestSeconds int          `bson:"restSeconds" json:"restSeconds" validate:"gte=0"`
	Equipment   string       `bson:"equipment,omitempty" json:"equipment,omitempty"`
	MuscleGroup string       `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"`
	Notes       string       `bson:"notes,omitempty" json:"notes,omitempty"`
}

// IsAnchor reports whether the exercise is the day's anchor lift.
func (e ProgramExercise) IsAnchor() bool {
	return e.Tier == ExerciseAnchor
}

// WeekSets sums the sets of every exercise in the week.
func (w ProgramWeek) WeekSets() int {
	total := 0
	for _, d := range w.Days {
		for _, ex := range d.Exercises {
			total += ex.Sets
		}
	}
	return total
}
