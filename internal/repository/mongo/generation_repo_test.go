package mongo

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/program-pipeline/internal/domain"
)

func completedRecord() *domain.GenerationRecord {
	squat, bench, deadlift, ohp := 140.0, 100.0, 180.0, 60.0
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.GenerationRecord{
		ID:     primitive.NewObjectID(),
		UserID: "user-1",
		Status: domain.GenerationCompleted,
		Profile: domain.UserProfile{
			UserID:          "user-1",
			Experience:      domain.TierIntermediate,
			Goal:            domain.GoalStrength,
			DaysPerWeek:     4,
			SessionDuration: "45-60 minutes",
			Equipment:       []string{"barbell", "rack"},
			OneRepMaxes:     &domain.StrengthProfile{Squat: &squat, Bench: &bench, Deadlift: &deadlift, OverheadPress: &ohp},
		},
		Program: &domain.TrainingProgram{
			Name:               "Strength Block",
			Description:        "Three blocks",
			PeriodizationModel: "block_strength",
			DurationWeeksTotal: 1,
			Phases: []domain.ProgramPhase{{
				Name:          "Accumulation",
				DurationWeeks: 1,
				Adaptation:    domain.AdaptationHypertrophy,
				Progression:   domain.ProgressionRamping,
				Intensity:     domain.IntensityRange{Low: 70, High: 78},
				Weeks: []domain.ProgramWeek{{
					WeekNumber: 1,
					Days: []domain.WorkoutDay{{
						DayNumber: 1,
						Name:      "Lower",
						Exercises: []domain.ProgramExercise{
							{Name: "Back Squat", Tier: domain.ExerciseAnchor, Sets: 5, Reps: "5", RestSeconds: 180, Equipment: "barbell", MuscleGroup: "quads", Notes: "RPE 8"},
							{Name: "Leg Curl", Tier: domain.ExerciseAccessory, Sets: 3, Reps: "10-12", RestSeconds: 60, Equipment: "machine", MuscleGroup: "hamstrings"},
						},
					}},
				}},
			}},
		},
		Artifacts: &domain.GenerationArtifacts{
			Parameters: &domain.VolumeParameters{TrainingAge: 1.25, RecoveryCapacity: 6, StressLevel: 6, VolumeTolerance: 1},
			Landmarks:  domain.LandmarkMap{domain.MuscleChest: {MEV: 7, MAV: 13, MRV: 18}},
			Metadata:   &domain.GenerationMetadata{RunID: "run-1", Model: "m", Attempts: 1, StartedAt: now, FinishedAt: &now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestGenerationRecord_BSONRoundTrip(t *testing.T) {
	in := completedRecord()

	data, err := bson.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out domain.GenerationRecord
	if err := bson.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(in.Program, out.Program) {
		t.Errorf("program changed in round trip:\n in: %+v\nout: %+v", in.Program, out.Program)
	}
	if !reflect.DeepEqual(in.Profile, out.Profile) {
		t.Errorf("profile changed in round trip:\n in: %+v\nout: %+v", in.Profile, out.Profile)
	}
	if !reflect.DeepEqual(in.Artifacts.Landmarks, out.Artifacts.Landmarks) {
		t.Errorf("landmarks changed: %+v", out.Artifacts.Landmarks)
	}
	if out.ID != in.ID || out.Status != domain.GenerationCompleted || !out.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("envelope fields changed: %+v", out)
	}
}

func TestClaimFilter(t *testing.T) {
	id := primitive.NewObjectID()
	filter := claimFilter(id)

	if filter["_id"] != id {
		t.Errorf("_id = %v", filter["_id"])
	}
	in := filter["status"].(bson.M)["$in"].(bson.A)
	want := bson.A{domain.GenerationPending, domain.GenerationFailed}
	if !reflect.DeepEqual(in, want) {
		t.Errorf("claimable statuses = %v, want %v", in, want)
	}

	update := claimUpdate(time.Now())
	set := update["$set"].(bson.M)
	if set["status"] != domain.GenerationProcessing {
		t.Errorf("claim sets status %v", set["status"])
	}
	if _, ok := update["$unset"].(bson.M)["error"]; !ok {
		t.Error("claim must clear the previous error")
	}
}
