package domain

// VolumeParameters are the quantitative training parameters derived from a UserProfile.
type VolumeParameters struct {
	TrainingAge      float64 `bson:"trainingAge" json:"trainingAge"`           // Years
	RecoveryCapacity int     `bson:"recoveryCapacity" json:"recoveryCapacity"` // 1-10
	StressLevel      int     `bson:"stressLevel" json:"stressLevel"`           // 1-10
	VolumeTolerance  float64 `bson:"volumeTolerance" json:"volumeTolerance"`   // Multiplier
}

// InjurySummary is the result of scanning the free-text limitations field.
type InjurySummary struct {
	Areas             []string `bson:"areas" json:"areas"`
	Contraindications []string `bson:"contraindications" json:"contraindications"`
	Notes             string   `bson:"notes,omitempty" json:"notes,omitempty"` // Original text, trimmed
}

// HasRestrictions reports whether any anatomical area was identified.
func (s InjurySummary) HasRestrictions() bool {
	return len(s.Areas) > 0
}

// EnrichedProfile is the ProfileEnricher output consumed by every later stage.
type EnrichedProfile struct {
	Profile    UserProfile      `bson:"profile" json:"profile"`
	Parameters VolumeParameters `bson:"parameters" json:"parameters"`
	Injuries   InjurySummary    `bson:"injuries" json:"injuries"`
}

// MuscleGroup names a row of the base volume table.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleQuads      MuscleGroup = "quads"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleCalves     MuscleGroup = "calves"
	MuscleAbs        MuscleGroup = "abs"
	MuscleTraps      MuscleGroup = "traps"
)

// VolumeLandmarks are weekly set-count thresholds for one muscle group.
// MEV <= MAV <= MRV always holds.
type VolumeLandmarks struct {
	MEV int `bson:"mev" json:"mev"` // Minimum effective volume
	MAV int `bson:"mav" json:"mav"` // Maximum adaptive volume
	MRV int `bson:"mrv" json:"mrv"` // Maximum recoverable volume
}

// LandmarkMap holds landmarks for every known muscle group.
type LandmarkMap map[MuscleGroup]VolumeLandmarks
