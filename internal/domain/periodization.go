package domain

// ProgressionMode controls how target volume moves across the weeks of a phase.
type ProgressionMode string

const (
	ProgressionRamping ProgressionMode = "ramping" // 80% -> 110% of baseline
	ProgressionStable  ProgressionMode = "stable"  // Baseline held
	ProgressionLinear  ProgressionMode = "linear"  // Volume down up to 10% while intensity rises
)

// Adaptation is the primary training adaptation a phase targets.
type Adaptation string

const (
	AdaptationHypertrophy Adaptation = "hypertrophy"
	AdaptationStrength    Adaptation = "strength"
	AdaptationPeaking     Adaptation = "peaking"
	AdaptationRecovery    Adaptation = "recovery"
)

// IntensityRange is a load range in percent of 1RM.
type IntensityRange struct {
	Low  float64 `bson:"low" json:"low" validate:"gte=0,lte=100"`
	High float64 `bson:"high" json:"high" validate:"gte=0,lte=100"`
}

// PeriodizationPhase is one block of a periodization model.
type PeriodizationPhase struct {
	Name          string          `bson:"name" json:"name"`
	DurationWeeks int             `bson:"durationWeeks" json:"durationWeeks"`
	Intensity     IntensityRange  `bson:"intensity" json:"intensity"`
	Progression   ProgressionMode `bson:"progression" json:"progression"`
	Adaptation    Adaptation      `bson:"adaptation" json:"adaptation"`
}

// PeriodizationModel is a named, ordered phase sequence.
type PeriodizationModel struct {
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Phases      []PeriodizationPhase `bson:"phases" json:"phases"`
}

// TotalWeeks sums the phase durations.
func (m PeriodizationModel) TotalWeeks() int {
	total := 0
	for _, p := range m.Phases {
		total += p.DurationWeeks
	}
	return total
}

// WeekTarget is the planned load for a single week inside a phase.
type WeekTarget struct {
	Week            int     `bson:"week" json:"week"` // 1-based within the phase
	VolumeFactor    float64 `bson:"volumeFactor" json:"volumeFactor"`
	TargetSets      float64 `bson:"targetSets" json:"targetSets"`           // Weekly sets per muscle group
	TargetIntensity float64 `bson:"targetIntensity" json:"targetIntensity"` // Percent of 1RM
}

// RecoveryProfile describes how much fatigue a lifter tolerates and how fast it clears.
type RecoveryProfile struct {
	FatigueThreshold float64 `bson:"fatigueThreshold" json:"fatigueThreshold"`
	RecoveryRate     float64 `bson:"recoveryRate" json:"recoveryRate"`
}

// DeloadType distinguishes full rest from reduced training.
type DeloadType string

const (
	DeloadPassive DeloadType = "passive"
	DeloadActive  DeloadType = "active"
)

// DeloadPrescription reductions are percentages of normal volume and intensity.
type DeloadPrescription struct {
	Type               DeloadType `bson:"type" json:"type"`
	VolumeReduction    float64    `bson:"volumeReduction" json:"volumeReduction"`
	IntensityReduction float64    `bson:"intensityReduction" json:"intensityReduction"`
	DurationDays       int        `bson:"durationDays" json:"durationDays"`
}

// PhasePlan is a phase placed on the program calendar with its weekly targets.
type PhasePlan struct {
	Phase           PeriodizationPhase  `bson:"phase" json:"phase"`
	StartWeek       int                 `bson:"startWeek" json:"startWeek"`
	Targets         []WeekTarget        `bson:"targets" json:"targets"`
	CumulativeLoad  float64             `bson:"cumulativeLoad" json:"cumulativeLoad"`
	DeloadAfterward *DeloadPrescription `bson:"deloadAfterward,omitempty" json:"deloadAfterward,omitempty"`
}

// PeriodizationPlan is the PeriodizationPlanner output handed to the generator.
type PeriodizationPlan struct {
	Model          string          `bson:"model" json:"model"`
	Description    string          `bson:"description" json:"description"`
	TotalWeeks     int             `bson:"totalWeeks" json:"totalWeeks"`
	BaselineVolume float64         `bson:"baselineVolume" json:"baselineVolume"`
	Recovery       RecoveryProfile `bson:"recovery" json:"recovery"`
	Phases         []PhasePlan     `bson:"phases" json:"phases"`
}
