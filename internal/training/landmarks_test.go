package training

import (
	"errors"
	"math"
	"testing"

	"alcyxob/program-pipeline/internal/domain"
)

func TestCalculateLandmarks(t *testing.T) {
	tests := []struct {
		name   string
		params domain.VolumeParameters
		group  domain.MuscleGroup
		want   domain.VolumeLandmarks
	}{
		{
			name:   "neutral multipliers keep the base table",
			params: domain.VolumeParameters{TrainingAge: 0, RecoveryCapacity: 6, StressLevel: 4, VolumeTolerance: 1.0},
			group:  domain.MuscleChest,
			want:   domain.VolumeLandmarks{MEV: 8, MAV: 14, MRV: 20},
		},
		{
			name:   "advanced high recovery low stress",
			params: domain.VolumeParameters{TrainingAge: 3.0, RecoveryCapacity: 9, StressLevel: 3, VolumeTolerance: 1.0},
			group:  domain.MuscleChest,
			want:   domain.VolumeLandmarks{MEV: 19, MAV: 33, MRV: 47}, // x2.34
		},
		{
			name:   "beginner low recovery high stress",
			params: domain.VolumeParameters{TrainingAge: 0.25, RecoveryCapacity: 3, StressLevel: 8, VolumeTolerance: 1.0},
			group:  domain.MuscleChest,
			want:   domain.VolumeLandmarks{MEV: 5, MAV: 8, MRV: 12}, // x0.5775
		},
		{
			name:   "zero tolerance falls back to 1.0",
			params: domain.VolumeParameters{TrainingAge: 0, RecoveryCapacity: 6, StressLevel: 4, VolumeTolerance: 0},
			group:  domain.MuscleBack,
			want:   domain.VolumeLandmarks{MEV: 8, MAV: 16, MRV: 22},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateLandmarks(tt.params, tt.group)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CalculateLandmarks() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCalculateLandmarks_UnknownGroup(t *testing.T) {
	_, err := CalculateLandmarks(domain.VolumeParameters{}, "forearms")
	if !errors.Is(err, ErrUnknownMuscleGroup) {
		t.Fatalf("expected ErrUnknownMuscleGroup, got %v", err)
	}
}

func TestVolumeMultiplier_AgeCap(t *testing.T) {
	base := domain.VolumeParameters{RecoveryCapacity: 6, StressLevel: 4, VolumeTolerance: 1.0}
	for _, age := range []float64{2.0, 3.0, 10.0} {
		base.TrainingAge = age
		if got := VolumeMultiplier(base); math.Abs(got-1.8) > 1e-9 {
			t.Errorf("age %v: multiplier = %v, want 1.8", age, got)
		}
	}
}

func TestCalculateAllLandmarks_Ordering(t *testing.T) {
	ages := []float64{0, 0.25, 1.25, 2, 3, 10}
	capacities := []int{1, 3, 6, 9, 10}
	stresses := []int{1, 3, 5, 6, 8, 10}
	tolerances := []float64{0, 0.5, 1.0, 1.37}

	for _, age := range ages {
		for _, c := range capacities {
			for _, s := range stresses {
				for _, tol := range tolerances {
					params := domain.VolumeParameters{TrainingAge: age, RecoveryCapacity: c, StressLevel: s, VolumeTolerance: tol}
					all := CalculateAllLandmarks(params)
					if len(all) != len(BaseVolumeTable) {
						t.Fatalf("got %d groups, want %d", len(all), len(BaseVolumeTable))
					}
					for g, lm := range all {
						if lm.MEV > lm.MAV || lm.MAV > lm.MRV {
							t.Fatalf("%s with %+v: landmarks out of order %+v", g, params, lm)
						}
					}
				}
			}
		}
	}
}

func TestBaseVolumeTableOrdering(t *testing.T) {
	for g, lm := range BaseVolumeTable {
		if lm.MEV > lm.MAV || lm.MAV > lm.MRV {
			t.Errorf("base row %s out of order: %+v", g, lm)
		}
	}
}
