package guardian

import (
	"encoding/json"
	"strings"
	"testing"

	"alcyxob/program-pipeline/internal/domain"
	"alcyxob/program-pipeline/internal/logger"
)

func exercise(name string, tier domain.ExerciseTier, sets int, equipment string) domain.ProgramExercise {
	return domain.ProgramExercise{Name: name, Tier: tier, Sets: sets, Reps: "8-10", RestSeconds: 90, Equipment: equipment}
}

func trainingDay(n int) domain.WorkoutDay {
	return domain.WorkoutDay{
		DayNumber: n,
		Name:      "Full Body",
		Exercises: []domain.ProgramExercise{
			exercise("Back Squat", domain.ExerciseAnchor, 4, "barbell"),
			exercise("Romanian Deadlift", domain.ExercisePrimary, 3, "barbell"),
			exercise("Cable Row", domain.ExerciseAccessory, 3, "cable"),
		},
	}
}

func programWeek(number int) domain.ProgramWeek {
	return domain.ProgramWeek{
		WeekNumber: number,
		Days: []domain.WorkoutDay{
			trainingDay(1),
			{DayNumber: 2, Name: "Rest", IsRestDay: true},
			trainingDay(3),
			trainingDay(5),
		},
	}
}

// validProgram is a 4-week accumulation followed by a 1-week deload.
func validProgram() *domain.TrainingProgram {
	return &domain.TrainingProgram{
		Name:               "Block Hypertrophy",
		PeriodizationModel: "block_hypertrophy",
		DurationWeeksTotal: 5,
		Phases: []domain.ProgramPhase{
			{
				Name: "Accumulation", DurationWeeks: 4,
				Adaptation: domain.AdaptationHypertrophy, Progression: domain.ProgressionRamping,
				Intensity: domain.IntensityRange{Low: 65, High: 75},
				Weeks:     []domain.ProgramWeek{programWeek(1), programWeek(2), programWeek(3), programWeek(4)},
			},
			{
				Name: "Deload", DurationWeeks: 1,
				Adaptation: domain.AdaptationRecovery, Progression: domain.ProgressionStable,
				Intensity: domain.IntensityRange{Low: 50, High: 60},
				Weeks:     []domain.ProgramWeek{programWeek(5)},
			},
		},
	}
}

func newValidator() *Validator { return New(logger.Nop()) }

func findKind(findings []domain.Finding, kind domain.FindingKind) *domain.Finding {
	for i := range findings {
		if findings[i].Kind == kind {
			return &findings[i]
		}
	}
	return nil
}

func countKind(findings []domain.Finding, kind domain.FindingKind) int {
	n := 0
	for _, f := range findings {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

func assertConsistent(t *testing.T, res domain.ValidationResult) {
	t.Helper()
	if res.IsValid != (len(res.Errors) == 0) {
		t.Fatalf("IsValid=%v with %d errors", res.IsValid, len(res.Errors))
	}
}

func TestValidate_ValidProgramAllInputForms(t *testing.T) {
	p := validProgram()
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var asMap map[string]any
	if err := json.Unmarshal(data, &asMap); err != nil {
		t.Fatal(err)
	}

	inputs := map[string]any{
		"pointer":     p,
		"value":       *p,
		"bytes":       data,
		"raw message": json.RawMessage(data),
		"string":      string(data),
		"map":         asMap,
	}
	v := newValidator()
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			res := v.Validate(in)
			assertConsistent(t, res)
			if !res.IsValid {
				t.Fatalf("expected valid, got errors %+v", res.Errors)
			}
			if len(res.Warnings) != 0 {
				t.Errorf("expected no warnings, got %+v", res.Warnings)
			}
		})
	}
}

func TestCheck_ReturnsDecodedProgram(t *testing.T) {
	data, _ := json.Marshal(validProgram())
	program, res := newValidator().Check(data)
	if !res.IsValid || program == nil {
		t.Fatalf("expected a decoded valid program, got %v %+v", program, res.Errors)
	}
	if program.Name != "Block Hypertrophy" || len(program.Phases) != 2 {
		t.Errorf("decoded program mismatch: %+v", program)
	}
}

func TestValidate_DurationTotalMismatch(t *testing.T) {
	p := &domain.TrainingProgram{
		Name:               "Mismatch",
		DurationWeeksTotal: 9,
		Phases: []domain.ProgramPhase{
			{Name: "Accumulation", DurationWeeks: 4, Weeks: []domain.ProgramWeek{programWeek(1), programWeek(2), programWeek(3), programWeek(4)}},
			{Name: "Intensification", DurationWeeks: 4, Weeks: []domain.ProgramWeek{programWeek(5), programWeek(6), programWeek(7), programWeek(8)}},
		},
	}
	data, _ := json.Marshal(p)

	res := newValidator().Validate(data)
	assertConsistent(t, res)
	if res.IsValid {
		t.Fatal("expected invalid program")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %+v", res.Errors)
	}
	f := res.Errors[0]
	if f.Kind != domain.KindDurationMismatch || f.Severity != domain.SeverityHigh {
		t.Errorf("unexpected finding %+v", f)
	}
	if !strings.Contains(res.Summary(), "[HIGH] duration_mismatch") {
		t.Errorf("summary = %q", res.Summary())
	}
}

func TestValidate_Anchors(t *testing.T) {
	t.Run("missing anchor is a HIGH error", func(t *testing.T) {
		p := validProgram()
		p.Phases[0].Weeks[1].Days[0].Exercises[0].Tier = domain.ExercisePrimary

		res := newValidator().Validate(p)
		assertConsistent(t, res)
		f := findKind(res.Errors, domain.KindAnchorMissing)
		if f == nil || f.Severity != domain.SeverityHigh {
			t.Fatalf("expected HIGH anchor_missing, got %+v", res.Errors)
		}
		want := domain.Location{Phase: "Accumulation", Week: 2, Day: 1}
		if f.Location != want {
			t.Errorf("location = %+v, want %+v", f.Location, want)
		}
	})

	t.Run("training day with no exercises", func(t *testing.T) {
		p := validProgram()
		p.Phases[0].Weeks[0].Days[0].Exercises = nil

		res := newValidator().Validate(p)
		if countKind(res.Errors, domain.KindAnchorMissing) != 1 {
			t.Fatalf("expected one anchor_missing, got %+v", res.Errors)
		}
	})

	t.Run("single anchor first has no anchor findings", func(t *testing.T) {
		res := newValidator().Validate(validProgram())
		for _, kind := range []domain.FindingKind{domain.KindAnchorMissing, domain.KindAnchorMultiple, domain.KindAnchorPosition} {
			if findKind(res.Errors, kind) != nil || findKind(res.Warnings, kind) != nil {
				t.Errorf("unexpected %s finding", kind)
			}
		}
	})

	t.Run("two anchors is a warning", func(t *testing.T) {
		p := validProgram()
		p.Phases[0].Weeks[0].Days[0].Exercises[1].Tier = domain.ExerciseAnchor

		res := newValidator().Validate(p)
		if !res.IsValid {
			t.Fatalf("expected valid, got %+v", res.Errors)
		}
		if countKind(res.Warnings, domain.KindAnchorMultiple) != 1 {
			t.Errorf("expected one anchor_multiple warning, got %+v", res.Warnings)
		}
	})

	t.Run("anchor not first is a warning", func(t *testing.T) {
		p := validProgram()
		ex := p.Phases[0].Weeks[0].Days[0].Exercises
		ex[0], ex[1] = ex[1], ex[0]

		res := newValidator().Validate(p)
		if !res.IsValid {
			t.Fatalf("expected valid, got %+v", res.Errors)
		}
		f := findKind(res.Warnings, domain.KindAnchorPosition)
		if f == nil || f.Severity != domain.SeverityLow || f.Location.Exercise != "Romanian Deadlift" {
			t.Errorf("unexpected warning %+v", f)
		}
	})

	t.Run("rest days are skipped", func(t *testing.T) {
		p := validProgram()
		p.Phases[0].Weeks[0].Days[0] = domain.WorkoutDay{DayNumber: 1, IsRestDay: true}

		if res := newValidator().Validate(p); !res.IsValid {
			t.Errorf("rest day should not need an anchor: %+v", res.Errors)
		}
	})
}

func TestValidate_SetCounts(t *testing.T) {
	tests := []struct {
		name      string
		idx       int
		sets      int
		wantValid bool
		wantKind  domain.FindingKind
		asWarning bool
	}{
		{"too many sets", 0, 10, true, domain.KindSetCountHigh, true},
		{"primary below two sets", 1, 1, false, domain.KindSetCountLow, false},
		{"accessory single set is fine", 2, 1, true, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProgram()
			p.Phases[1].Weeks[0].Days[0].Exercises[tt.idx].Sets = tt.sets

			res := newValidator().Validate(p)
			assertConsistent(t, res)
			if res.IsValid != tt.wantValid {
				t.Fatalf("IsValid = %v, errors %+v", res.IsValid, res.Errors)
			}
			if tt.wantKind == "" {
				if len(res.Warnings) != 0 {
					t.Errorf("unexpected warnings %+v", res.Warnings)
				}
				return
			}
			list := res.Errors
			if tt.asWarning {
				list = res.Warnings
			}
			f := findKind(list, tt.wantKind)
			if f == nil {
				t.Fatalf("missing %s in %+v", tt.wantKind, list)
			}
			if !tt.asWarning && f.Severity != domain.SeverityMedium {
				t.Errorf("severity = %s, want MEDIUM", f.Severity)
			}
		})
	}
}

func TestValidate_AccumulationVolumeDrop(t *testing.T) {
	p := validProgram()
	p.Phases[0].Weeks[2].Days = p.Phases[0].Weeks[2].Days[:3] // drop one training day in week 3

	res := newValidator().Validate(p)
	if !res.IsValid {
		t.Fatalf("a volume drop is only a warning: %+v", res.Errors)
	}
	f := findKind(res.Warnings, domain.KindAccumulationVolumeDrop)
	if f == nil || f.Location.Week != 3 {
		t.Fatalf("expected drop warning at week 3, got %+v", res.Warnings)
	}
	// week 4 goes back up, so only one warning
	if countKind(res.Warnings, domain.KindAccumulationVolumeDrop) != 1 {
		t.Errorf("expected exactly one drop warning, got %+v", res.Warnings)
	}
}

func TestValidate_DeloadCeiling(t *testing.T) {
	p := validProgram()
	for d := range p.Phases[1].Weeks[0].Days {
		for e := range p.Phases[1].Weeks[0].Days[d].Exercises {
			p.Phases[1].Weeks[0].Days[d].Exercises[e].Sets = 7 // 3 days x 3 exercises x 7 = 63
		}
	}

	res := newValidator().Validate(p)
	if !res.IsValid {
		t.Fatalf("deload ceiling is only a warning: %+v", res.Errors)
	}
	if f := findKind(res.Warnings, domain.KindDeloadVolumeCeiling); f == nil || f.Location.Phase != "Deload" {
		t.Fatalf("expected deload ceiling warning, got %+v", res.Warnings)
	}
}

func TestValidate_WeekSequence(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int // accumulation weeks then the deload week
		want    int
	}{
		{"gap", []int{1, 2, 3, 4, 7}, 1},
		{"duplicate", []int{1, 2, 2, 3, 4}, 1},
		{"restart per phase", []int{1, 2, 3, 4, 1}, 1},
		{"starts at zero", []int{0, 1, 2, 3, 4}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProgram()
			for i, n := range tt.numbers[:4] {
				p.Phases[0].Weeks[i].WeekNumber = n
			}
			p.Phases[1].Weeks[0].WeekNumber = tt.numbers[4]

			res := newValidator().Validate(p)
			assertConsistent(t, res)
			if got := countKind(res.Errors, domain.KindWeekSequence); got != tt.want {
				t.Fatalf("week_sequence errors = %d, want %d: %+v", got, tt.want, res.Errors)
			}
			if f := findKind(res.Errors, domain.KindWeekSequence); f.Severity != domain.SeverityMedium {
				t.Errorf("severity = %s, want MEDIUM", f.Severity)
			}
		})
	}
}

func TestValidate_PhaseWeekCount(t *testing.T) {
	p := validProgram()
	p.Phases[1].Weeks = append(p.Phases[1].Weeks, programWeek(6))

	res := newValidator().Validate(p)
	f := findKind(res.Errors, domain.KindPhaseWeekCount)
	if f == nil || f.Severity != domain.SeverityHigh || f.Location.Phase != "Deload" {
		t.Fatalf("expected HIGH phase_week_count on Deload, got %+v", res.Errors)
	}
	if findKind(res.Errors, domain.KindWeekSequence) != nil {
		t.Errorf("week 6 follows 5, no sequence error expected")
	}
}

func TestValidate_EquipmentMix(t *testing.T) {
	p := validProgram()
	day := &p.Phases[0].Weeks[0].Days[0]
	day.Exercises = append(day.Exercises,
		exercise("Leg Press", domain.ExerciseSecondary, 3, "machine"),
		exercise("Curl", domain.ExerciseAccessory, 2, "dumbbell"),
		exercise("Pushdown", domain.ExerciseAccessory, 2, "Cable"),
		exercise("Calf Raise", domain.ExerciseAccessory, 2, "machine"),
	)

	res := newValidator().Validate(p)
	if !res.IsValid {
		t.Fatalf("equipment mix is only a warning: %+v", res.Errors)
	}
	if countKind(res.Warnings, domain.KindEquipmentMix) != 1 {
		t.Fatalf("expected one equipment warning, got %+v", res.Warnings)
	}
}

func TestValidate_EquipmentSpellingsShareCategory(t *testing.T) {
	p := validProgram()
	day := &p.Phases[0].Weeks[0].Days[0]
	day.Exercises = []domain.ProgramExercise{
		exercise("Back Squat", domain.ExerciseAnchor, 4, "barbell"),
		exercise("Romanian Deadlift", domain.ExercisePrimary, 3, "Barbell"),
		exercise("Bent Row", domain.ExercisePrimary, 3, "BB"),
		exercise("Incline Press", domain.ExerciseAccessory, 3, "dumbbell"),
		exercise("Lateral Raise", domain.ExerciseAccessory, 2, "Dumbbells"),
		exercise("Hammer Curl", domain.ExerciseAccessory, 2, "DB"),
		exercise("Skull Crusher", domain.ExerciseAccessory, 2, "EZ bar"),
	}

	res := newValidator().Validate(p)
	if n := countKind(res.Warnings, domain.KindEquipmentMix); n != 0 {
		t.Fatalf("two equipment categories should not warn, got %+v", res.Warnings)
	}
}

func TestEquipmentCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"barbell", "barbell"},
		{" Barbell ", "barbell"},
		{"BB", "barbell"},
		{"EZ bar", "barbell"},
		{"trap bar", "barbell"},
		{"dumbbell", "dumbbell"},
		{"Dumbbells", "dumbbell"},
		{"DB", "dumbbell"},
		{"kettlebell", "kettlebell"},
		{"Cable", "cable"},
		{"cable machine", "cable"},
		{"Smith machine", "machine"},
		{"leg press machine", "machine"},
		{"resistance band", "band"},
		{"bodyweight", "bodyweight"},
		{"none", "bodyweight"},
		{"pull-up bar", "bodyweight"},
		{"sandbag", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := equipmentCategory(tt.in); got != tt.want {
				t.Errorf("equipmentCategory(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate_SchemaShortCircuits(t *testing.T) {
	valid, _ := json.Marshal(validProgram())

	tests := []struct {
		name     string
		in       any
		wantPath string
	}{
		{"nil", nil, ""},
		{"nil pointer", (*domain.TrainingProgram)(nil), ""},
		{"unsupported type", 42, ""},
		{"empty string", "  ", ""},
		{"not json", "this is not json", ""},
		{"unknown field", strings.Replace(string(valid), `"name":"Block Hypertrophy"`, `"name":"Block Hypertrophy","coach":"x"`, 1), ""},
		{"type mismatch", strings.Replace(string(valid), `"sets":4`, `"sets":"four"`, 1), "sets"},
		{"bad tier", strings.Replace(string(valid), `"tier":"Anchor"`, `"tier":"Main"`, 1), "exercises[0].tier"},
		{"no phases", `{"name":"x","durationWeeksTotal":9,"phases":[]}`, "phases"},
		{"null", "null", ""},
		{"trailing data", string(valid) + ` {"x":1}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, res := newValidator().Check(tt.in)
			assertConsistent(t, res)
			if program != nil {
				t.Error("program should be nil after a schema failure")
			}
			if res.IsValid || len(res.Errors) == 0 {
				t.Fatal("expected schema errors")
			}
			for _, f := range res.Errors {
				if f.Kind != domain.KindSchema || f.Severity != domain.SeverityCritical {
					t.Errorf("non-schema finding after schema failure: %+v", f)
				}
			}
			if len(res.Warnings) != 0 {
				t.Errorf("later passes must not run: %+v", res.Warnings)
			}
			if tt.wantPath != "" && findPath(res.Errors, tt.wantPath) == nil {
				t.Errorf("no finding at path %q: %+v", tt.wantPath, res.Errors)
			}
		})
	}
}

func findPath(findings []domain.Finding, path string) *domain.Finding {
	for i := range findings {
		if strings.HasSuffix(findings[i].Location.Path, path) {
			return &findings[i]
		}
	}
	return nil
}
