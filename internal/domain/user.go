package domain

// Role type to distinguish between user roles carried in access tokens
type Role string

// Define constants for roles
const (
	RoleTrainer Role = "trainer" // Operators: may inspect pipeline artifacts
	RoleClient  Role = "client"
)

// ExperienceTier is the self-reported training experience from onboarding.
type ExperienceTier string

const (
	TierBeginner     ExperienceTier = "Beginner"
	TierIntermediate ExperienceTier = "Intermediate"
	TierAdvanced     ExperienceTier = "Advanced"
)

// GoalCategory is the stated primary goal used to pick a periodization model.
type GoalCategory string

const (
	GoalHypertrophy    GoalCategory = "hypertrophy"
	GoalStrength       GoalCategory = "strength"
	GoalGeneralFitness GoalCategory = "general_fitness"
)

// UserProfile holds the onboarding answers for one generation run.
// It is snapshotted onto the GenerationRecord and never mutated by the pipeline.
type UserProfile struct {
	UserID          string           `bson:"userId" json:"userId"`
	Age             int              `bson:"age" json:"age"`
	Experience      ExperienceTier   `bson:"experience" json:"experience"`
	Goal            GoalCategory     `bson:"goal,omitempty" json:"goal,omitempty"`
	DaysPerWeek     int              `bson:"daysPerWeek" json:"daysPerWeek"`
	SessionDuration string           `bson:"sessionDuration" json:"sessionDuration"` // e.g. "45-60 minutes", "90+ minutes"
	Equipment       []string         `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Limitations     string           `bson:"limitations,omitempty" json:"limitations,omitempty"` // Free text, parsed for injuries
	OneRepMaxes     *StrengthProfile `bson:"oneRepMaxes,omitempty" json:"oneRepMaxes,omitempty"`
}

// StrengthProfile holds estimated 1RMs (kg) for the four compound lifts.
// A nil field means the user did not provide that lift.
type StrengthProfile struct {
	Squat         *float64 `bson:"squat,omitempty" json:"squat,omitempty"`
	Bench         *float64 `bson:"bench,omitempty" json:"bench,omitempty"`
	Deadlift      *float64 `bson:"deadlift,omitempty" json:"deadlift,omitempty"`
	OverheadPress *float64 `bson:"overheadPress,omitempty" json:"overheadPress,omitempty"`
}

// IsComplete reports whether all four lifts are present.
func (s *StrengthProfile) IsComplete() bool {
	return s != nil && s.Squat != nil && s.Bench != nil && s.Deadlift != nil && s.OverheadPress != nil
}
