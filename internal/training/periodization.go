package training

import (
	"strings"

	"alcyxob/program-pipeline/internal/domain"
)

// Periodization model names.
const (
	ModelLinearHypertrophy = "linear_hypertrophy"
	ModelBlockHypertrophy  = "block_hypertrophy"
	ModelLinearStrength    = "linear_strength"
	ModelBlockStrength     = "block_strength"
	ModelGeneralFitness    = "general_fitness"
	ModelBalanced          = "balanced"
)

// Phase names the guardian keys its rules on.
const (
	PhaseFoundation      = "Foundation"
	PhaseAccumulation    = "Accumulation"
	PhaseIntensification = "Intensification"
	PhaseRealization     = "Realization"
	PhaseDeload          = "Deload"
)

var deloadPhase = domain.PeriodizationPhase{
	Name: PhaseDeload, DurationWeeks: 1,
	Intensity:   domain.IntensityRange{Low: 50, High: 60},
	Progression: domain.ProgressionStable, Adaptation: domain.AdaptationRecovery,
}

// PeriodizationModels are the named phase sequences the planner can pick from.
var PeriodizationModels = map[string]domain.PeriodizationModel{
	ModelLinearHypertrophy: {
		Name:        ModelLinearHypertrophy,
		Description: "Technique-first hypertrophy with a single ramping block",
		Phases: []domain.PeriodizationPhase{
			{Name: PhaseFoundation, DurationWeeks: 4, Intensity: domain.IntensityRange{Low: 60, High: 70}, Progression: domain.ProgressionStable, Adaptation: domain.AdaptationHypertrophy},
			{Name: PhaseAccumulation, DurationWeeks: 4, Intensity: domain.IntensityRange{Low: 65, High: 75}, Progression: domain.ProgressionRamping, Adaptation: domain.AdaptationHypertrophy},
			deloadPhase,
		},
	},
	ModelBlockHypertrophy: {
		Name:        ModelBlockHypertrophy,
		Description: "Accumulation into intensification with a closing deload",
		Phases: []domain.PeriodizationPhase{
			{Name: PhaseAccumulation, DurationWeeks: 4, Intensity: domain.IntensityRange{Low: 65, High: 75}, Progression: domain.ProgressionRamping, Adaptation: domain.AdaptationHypertrophy},
			{Name: PhaseIntensification, DurationWeeks: 3, Intensity: domain.IntensityRange{Low: 72, High: 82}, Progression: domain.ProgressionLinear, Adaptation: domain.AdaptationStrength},
			deloadPhase,
		},
	},
	ModelLinearStrength: {
		Name:        ModelLinearStrength,
		Description: "Steady linear loading on the main lifts",
		Phases: []domain.PeriodizationPhase{
			{Name: PhaseFoundation, DurationWeeks: 4, Intensity: domain.IntensityRange{Low: 65, High: 75}, Progression: domain.ProgressionStable, Adaptation: domain.AdaptationStrength},
			{Name: PhaseIntensification, DurationWeeks: 4, Intensity: domain.IntensityRange{Low: 75, High: 85}, Progression: domain.ProgressionLinear, Adaptation: domain.AdaptationStrength},
			deloadPhase,
		},
	},
	ModelBlockStrength: {
		Name:        ModelBlockStrength,
		Description: "Accumulation, intensification and realization blocks ending in a peak",
		Phases: []domain.PeriodizationPhase{
			{Name: PhaseAccumulation, DurationWeeks: 3, Intensity: domain.IntensityRange{Low: 70, High: 78}, Progression: domain.ProgressionRamping, Adaptation: domain.AdaptationHypertrophy},
			{Name: PhaseIntensification, DurationWeeks: 3, Intensity: domain.IntensityRange{Low: 80, High: 88}, Progression: domain.ProgressionLinear, Adaptation: domain.AdaptationStrength},
			{Name: PhaseRealization, DurationWeeks: 2, Intensity: domain.IntensityRange{Low: 88, High: 95}, Progression: domain.ProgressionLinear, Adaptation: domain.AdaptationPeaking},
			deloadPhase,
		},
	},
	ModelGeneralFitness: {
		Name:        ModelGeneralFitness,
		Description: "Moderate loading for general fitness",
		Phases: []domain.PeriodizationPhase{
			{Name: PhaseFoundation, DurationWeeks: 4, Intensity: domain.IntensityRange{Low: 60, High: 70}, Progression: domain.ProgressionStable, Adaptation: domain.AdaptationHypertrophy},
			{Name: PhaseAccumulation, DurationWeeks: 3, Intensity: domain.IntensityRange{Low: 65, High: 75}, Progression: domain.ProgressionRamping, Adaptation: domain.AdaptationHypertrophy},
			deloadPhase,
		},
	},
	ModelBalanced: {
		Name:        ModelBalanced,
		Description: "Generic balanced sequence",
		Phases: []domain.PeriodizationPhase{
			{Name: PhaseAccumulation, DurationWeeks: 4, Intensity: domain.IntensityRange{Low: 65, High: 75}, Progression: domain.ProgressionRamping, Adaptation: domain.AdaptationHypertrophy},
			{Name: PhaseIntensification, DurationWeeks: 3, Intensity: domain.IntensityRange{Low: 75, High: 85}, Progression: domain.ProgressionLinear, Adaptation: domain.AdaptationStrength},
			deloadPhase,
		},
	},
}

// modelRule selects a model. An empty Tier matches any tier.
type modelRule struct {
	Tier  domain.ExperienceTier
	Goal  domain.GoalCategory
	Model string
}

var modelRules = []modelRule{
	{Tier: domain.TierBeginner, Goal: domain.GoalHypertrophy, Model: ModelLinearHypertrophy},
	{Tier: domain.TierIntermediate, Goal: domain.GoalHypertrophy, Model: ModelBlockHypertrophy},
	{Tier: domain.TierAdvanced, Goal: domain.GoalHypertrophy, Model: ModelBlockHypertrophy},
	{Tier: domain.TierBeginner, Goal: domain.GoalStrength, Model: ModelLinearStrength},
	{Tier: domain.TierIntermediate, Goal: domain.GoalStrength, Model: ModelBlockStrength},
	{Tier: domain.TierAdvanced, Goal: domain.GoalStrength, Model: ModelBlockStrength},
	{Goal: domain.GoalGeneralFitness, Model: ModelGeneralFitness},
}

// SelectModel looks up the model for a tier and goal, defaulting to ModelBalanced.
func SelectModel(tier domain.ExperienceTier, goal domain.GoalCategory) domain.PeriodizationModel {
	t := normalizeTier(tier)
	if _, ok := trainingAgeByTier[t]; !ok {
		t = domain.TierBeginner
	}
	g := domain.GoalCategory(strings.ToLower(strings.TrimSpace(string(goal))))

	for _, rule := range modelRules {
		if rule.Goal != g {
			continue
		}
		if rule.Tier == "" || rule.Tier == t {
			return PeriodizationModels[rule.Model]
		}
	}
	return PeriodizationModels[ModelBalanced]
}

// Progression bounds as fractions of baseline volume.
const (
	rampStartFactor  = 0.80
	rampEndFactor    = 1.10
	linearDropFactor = 0.10
)

// WeeklyTargets computes per-week volume and intensity targets for a phase.
func WeeklyTargets(phase domain.PeriodizationPhase, baselineVolume float64) []domain.WeekTarget {
	n := phase.DurationWeeks
	if n <= 0 {
		return []domain.WeekTarget{}
	}
	targets := make([]domain.WeekTarget, 0, n)
	for i := 0; i < n; i++ {
		progress := 0.0
		if n > 1 {
			progress = float64(i) / float64(n-1)
		}
		factor := volumeFactor(phase.Progression, progress)
		targets = append(targets, domain.WeekTarget{
			Week:            i + 1,
			VolumeFactor:    factor,
			TargetSets:      baselineVolume * factor,
			TargetIntensity: phase.Intensity.Low + (phase.Intensity.High-phase.Intensity.Low)*progress,
		})
	}
	return targets
}

func volumeFactor(mode domain.ProgressionMode, progress float64) float64 {
	switch mode {
	case domain.ProgressionRamping:
		return rampStartFactor + (rampEndFactor-rampStartFactor)*progress
	case domain.ProgressionLinear:
		return 1.0 - linearDropFactor*progress
	default:
		return 1.0
	}
}

// Deload decision thresholds.
const (
	passiveFatigueRatio = 1.2
	passiveRecoveryRate = 0.8

	fatigueUnitsPerWeek = 10.0
)

// ComputeDeload decides between full passive rest and an active deload.
// precedingAdaptation is the adaptation of the phase that just finished.
func ComputeDeload(cumulativeFatigue float64, recovery domain.RecoveryProfile, precedingAdaptation domain.Adaptation) domain.DeloadPrescription {
	threshold := recovery.FatigueThreshold
	if threshold <= 0 {
		threshold = 1
	}
	if cumulativeFatigue/threshold > passiveFatigueRatio || recovery.RecoveryRate < passiveRecoveryRate {
		return domain.DeloadPrescription{
			Type:               domain.DeloadPassive,
			VolumeReduction:    100,
			IntensityReduction: 100,
			DurationDays:       3,
		}
	}
	if precedingAdaptation == domain.AdaptationPeaking {
		return domain.DeloadPrescription{
			Type:               domain.DeloadActive,
			VolumeReduction:    60,
			IntensityReduction: 50,
			DurationDays:       7,
		}
	}
	return domain.DeloadPrescription{
		Type:               domain.DeloadActive,
		VolumeReduction:    50,
		IntensityReduction: 40,
		DurationDays:       7,
	}
}

// RecoveryProfileFor estimates a recovery profile from enriched parameters.
// Capacity 3/6/9 maps to a threshold of 30/60/90 fatigue units; stress 3/6/8 to a rate of 1.2/0.9/0.7.
func RecoveryProfileFor(params domain.VolumeParameters) domain.RecoveryProfile {
	return domain.RecoveryProfile{
		FatigueThreshold: fatigueUnitsPerWeek * float64(params.RecoveryCapacity),
		RecoveryRate:     1.0 - float64(params.StressLevel-5)/10.0,
	}
}

// BuildPlan lays the model's phases on the calendar with weekly targets and
// a deload prescription after every non-recovery phase.
func BuildPlan(model domain.PeriodizationModel, params domain.VolumeParameters, landmarks domain.LandmarkMap) domain.PeriodizationPlan {
	baseline := MeanMAV(landmarks)
	recovery := RecoveryProfileFor(params)

	plan := domain.PeriodizationPlan{
		Model:          model.Name,
		Description:    model.Description,
		TotalWeeks:     model.TotalWeeks(),
		BaselineVolume: baseline,
		Recovery:       recovery,
		Phases:         make([]domain.PhasePlan, 0, len(model.Phases)),
	}

	week := 1
	for _, phase := range model.Phases {
		targets := WeeklyTargets(phase, baseline)
		load := 0.0
		for _, t := range targets {
			load += t.VolumeFactor * fatigueUnitsPerWeek
		}
		pp := domain.PhasePlan{
			Phase:          phase,
			StartWeek:      week,
			Targets:        targets,
			CumulativeLoad: load,
		}
		if phase.Adaptation != domain.AdaptationRecovery {
			deload := ComputeDeload(load, recovery, phase.Adaptation)
			pp.DeloadAfterward = &deload
		}
		plan.Phases = append(plan.Phases, pp)
		week += phase.DurationWeeks
	}
	return plan
}
