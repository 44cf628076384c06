package training

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"alcyxob/program-pipeline/internal/domain"
)

// ErrUnknownMuscleGroup is returned for a group missing from BaseVolumeTable.
var ErrUnknownMuscleGroup = errors.New("unknown muscle group")

// BaseVolumeTable holds untrained-baseline weekly set landmarks.
// Every row satisfies MEV <= MAV <= MRV.
var BaseVolumeTable = map[domain.MuscleGroup]domain.VolumeLandmarks{
	domain.MuscleChest:      {MEV: 8, MAV: 14, MRV: 20},
	domain.MuscleBack:       {MEV: 8, MAV: 16, MRV: 22},
	domain.MuscleQuads:      {MEV: 6, MAV: 12, MRV: 18},
	domain.MuscleHamstrings: {MEV: 4, MAV: 10, MRV: 16},
	domain.MuscleGlutes:     {MEV: 2, MAV: 8, MRV: 14},
	domain.MuscleShoulders:  {MEV: 6, MAV: 14, MRV: 22},
	domain.MuscleBiceps:     {MEV: 6, MAV: 12, MRV: 20},
	domain.MuscleTriceps:    {MEV: 4, MAV: 10, MRV: 16},
	domain.MuscleCalves:     {MEV: 6, MAV: 10, MRV: 16},
	domain.MuscleAbs:        {MEV: 4, MAV: 12, MRV: 20},
	domain.MuscleTraps:      {MEV: 2, MAV: 8, MRV: 16},
}

// stressStep is one row of the stress multiplier table.
type stressStep struct {
	MaxStress  int
	Multiplier float64
}

var stressSteps = []stressStep{
	{MaxStress: 2, Multiplier: 1.1},
	{MaxStress: 4, Multiplier: 1.0},
	{MaxStress: 6, Multiplier: 0.9},
	{MaxStress: 8, Multiplier: 0.75},
	{MaxStress: math.MaxInt, Multiplier: 0.6},
}

const (
	maxAgeYears      = 2.0
	ageGainPerYear   = 0.4 // 1.0 at zero experience, 1.8 at the cap
	lowRecoveryBound = 3
	midRecoveryBound = 7
	lowRecoveryMult  = 0.7
	midRecoveryMult  = 1.0
	highRecoveryMult = 1.3
)

// CalculateLandmarks scales the base landmarks of one muscle group.
func CalculateLandmarks(params domain.VolumeParameters, group domain.MuscleGroup) (domain.VolumeLandmarks, error) {
	base, ok := BaseVolumeTable[group]
	if !ok {
		return domain.VolumeLandmarks{}, fmt.Errorf("%w: %q", ErrUnknownMuscleGroup, group)
	}
	factor := VolumeMultiplier(params)
	return domain.VolumeLandmarks{
		MEV: scaleSets(base.MEV, factor),
		MAV: scaleSets(base.MAV, factor),
		MRV: scaleSets(base.MRV, factor),
	}, nil
}

// CalculateAllLandmarks runs CalculateLandmarks for every group in the base table.
func CalculateAllLandmarks(params domain.VolumeParameters) domain.LandmarkMap {
	out := make(domain.LandmarkMap, len(BaseVolumeTable))
	for group := range BaseVolumeTable {
		lm, _ := CalculateLandmarks(params, group)
		out[group] = lm
	}
	return out
}

// VolumeMultiplier combines the age, recovery, stress and tolerance multipliers.
func VolumeMultiplier(params domain.VolumeParameters) float64 {
	tolerance := params.VolumeTolerance
	if tolerance <= 0 {
		tolerance = defaultVolumeTolerance
	}
	return ageMultiplier(params.TrainingAge) *
		recoveryMultiplier(params.RecoveryCapacity) *
		stressMultiplier(params.StressLevel) *
		tolerance
}

func ageMultiplier(trainingAge float64) float64 {
	years := math.Max(0, math.Min(trainingAge, maxAgeYears))
	return 1.0 + ageGainPerYear*years
}

func recoveryMultiplier(capacity int) float64 {
	switch {
	case capacity <= lowRecoveryBound:
		return lowRecoveryMult
	case capacity <= midRecoveryBound:
		return midRecoveryMult
	default:
		return highRecoveryMult
	}
}

func stressMultiplier(stress int) float64 {
	for _, step := range stressSteps {
		if stress <= step.MaxStress {
			return step.Multiplier
		}
	}
	return stressSteps[len(stressSteps)-1].Multiplier
}

func scaleSets(sets int, factor float64) int {
	return int(math.Round(float64(sets) * factor))
}

// MeanMAV averages MAV across the map; used as the planner's baseline volume.
func MeanMAV(landmarks domain.LandmarkMap) float64 {
	if len(landmarks) == 0 {
		return 0
	}
	total := 0
	for _, lm := range landmarks {
		total += lm.MAV
	}
	return float64(total) / float64(len(landmarks))
}

// SortedGroups returns the map keys in a stable order for prompts and reports.
func SortedGroups(landmarks domain.LandmarkMap) []domain.MuscleGroup {
	groups := make([]domain.MuscleGroup, 0, len(landmarks))
	for g := range landmarks {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
	return groups
}
