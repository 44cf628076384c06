package guardian

import (
	"fmt"
	"strings"

	"alcyxob/program-pipeline/internal/domain"
	"alcyxob/program-pipeline/internal/training"
)

// --- Scientific principles ---

func checkScientific(p *domain.TrainingProgram, r *report) {
	for _, phase := range p.Phases {
		for _, week := range phase.Weeks {
			for _, day := range week.Days {
				if day.IsRestDay {
					continue
				}
				loc := domain.Location{Phase: phase.Name, Week: week.WeekNumber, Day: day.DayNumber}
				checkAnchor(day, loc, r)
				checkSetCounts(day, loc, r)
			}
		}

		switch {
		case isPhase(phase, training.PhaseAccumulation):
			checkAccumulation(phase, r)
		case isPhase(phase, training.PhaseDeload):
			checkDeload(phase, r)
		}
	}
}

func checkAnchor(day domain.WorkoutDay, loc domain.Location, r *report) {
	anchors := 0
	for _, ex := range day.Exercises {
		if ex.IsAnchor() {
			anchors++
		}
	}
	switch {
	case anchors == 0:
		r.fail(domain.KindAnchorMissing, domain.SeverityHigh, loc, "training day has no anchor exercise")
		return
	case anchors > 1:
		r.warn(domain.KindAnchorMultiple, loc, fmt.Sprintf("training day has %d anchor exercises", anchors))
	}
	if !day.Exercises[0].IsAnchor() {
		first := loc
		first.Exercise = day.Exercises[0].Name
		r.warn(domain.KindAnchorPosition, first, "anchor exercise is not scheduled first")
	}
}

func checkSetCounts(day domain.WorkoutDay, loc domain.Location, r *report) {
	for _, ex := range day.Exercises {
		exLoc := loc
		exLoc.Exercise = ex.Name
		switch {
		case ex.Sets > maxSetsPerExercise:
			r.warn(domain.KindSetCountHigh, exLoc, fmt.Sprintf("%d sets exceeds %d", ex.Sets, maxSetsPerExercise))
		case ex.Sets < minSetsNonAccessory && ex.Tier != domain.ExerciseAccessory:
			r.fail(domain.KindSetCountLow, domain.SeverityMedium, exLoc,
				fmt.Sprintf("%s exercise has %d set(s), minimum is %d", ex.Tier, ex.Sets, minSetsNonAccessory))
		}
	}
}

// checkAccumulation warns whenever weekly volume drops inside the phase.
func checkAccumulation(phase domain.ProgramPhase, r *report) {
	for i := 1; i < len(phase.Weeks); i++ {
		prev, cur := phase.Weeks[i-1].WeekSets(), phase.Weeks[i].WeekSets()
		if cur < prev {
			loc := domain.Location{Phase: phase.Name, Week: phase.Weeks[i].WeekNumber}
			r.warn(domain.KindAccumulationVolumeDrop, loc,
				fmt.Sprintf("weekly sets drop from %d to %d during accumulation", prev, cur))
		}
	}
}

func checkDeload(phase domain.ProgramPhase, r *report) {
	if len(phase.Weeks) == 0 {
		return
	}
	total := 0
	for _, w := range phase.Weeks {
		total += w.WeekSets()
	}
	avg := float64(total) / float64(len(phase.Weeks))
	if avg > DeloadWeeklySetCeiling {
		r.warn(domain.KindDeloadVolumeCeiling, domain.Location{Phase: phase.Name},
			fmt.Sprintf("deload averages %.1f sets per week, ceiling is %d", avg, DeloadWeeklySetCeiling))
	}
}

func isPhase(phase domain.ProgramPhase, name string) bool {
	return strings.Contains(strings.ToLower(phase.Name), strings.ToLower(name))
}

// --- Structural integrity ---

func checkStructure(p *domain.TrainingProgram, r *report) {
	declared := 0
	for _, phase := range p.Phases {
		declared += phase.DurationWeeks
	}
	if declared != p.DurationWeeksTotal {
		r.fail(domain.KindDurationMismatch, domain.SeverityHigh, domain.Location{},
			fmt.Sprintf("phase durations sum to %d weeks but durationWeeksTotal is %d", declared, p.DurationWeeksTotal))
	}

	prev := 0
	for _, phase := range p.Phases {
		if phase.DurationWeeks != len(phase.Weeks) {
			r.fail(domain.KindPhaseWeekCount, domain.SeverityHigh, domain.Location{Phase: phase.Name},
				fmt.Sprintf("phase declares %d weeks but lists %d", phase.DurationWeeks, len(phase.Weeks)))
		}
		for _, week := range phase.Weeks {
			if week.WeekNumber != prev+1 {
				r.fail(domain.KindWeekSequence, domain.SeverityMedium, domain.Location{Phase: phase.Name, Week: week.WeekNumber},
					fmt.Sprintf("week %d follows week %d", week.WeekNumber, prev))
			}
			prev = week.WeekNumber
		}
	}
}

// --- Equipment ---

// Shorthand the model uses for common equipment.
var equipmentAliases = map[string]string{
	"bb":   "barbell",
	"db":   "dumbbell",
	"dbs":  "dumbbell",
	"kb":   "kettlebell",
	"bw":   "bodyweight",
	"none": "bodyweight",
}

// Checked in order: "smith machine" is a machine, "cable machine" is a cable.
var equipmentKeywords = []struct {
	keyword  string
	category string
}{
	{"dumbbell", "dumbbell"},
	{"kettlebell", "kettlebell"},
	{"cable", "cable"},
	{"pulley", "cable"},
	{"smith", "machine"},
	{"pull-up bar", "bodyweight"},
	{"pullup bar", "bodyweight"},
	{"barbell", "barbell"},
	{"ez bar", "barbell"},
	{"ez-bar", "barbell"},
	{"trap bar", "barbell"},
	{"machine", "machine"},
	{"band", "band"},
	{"bodyweight", "bodyweight"},
	{"body weight", "bodyweight"},
}

// equipmentCategory maps a free-text equipment value to the setup it needs.
// Empty input returns "".
func equipmentCategory(raw string) string {
	eq := strings.ToLower(strings.TrimSpace(raw))
	if eq == "" {
		return ""
	}
	if cat, ok := equipmentAliases[eq]; ok {
		return cat
	}
	for _, k := range equipmentKeywords {
		if strings.Contains(eq, k.keyword) {
			return k.category
		}
	}
	return "other"
}

func checkEquipment(p *domain.TrainingProgram, r *report) {
	for _, phase := range p.Phases {
		for _, week := range phase.Weeks {
			for _, day := range week.Days {
				if day.IsRestDay || len(day.Exercises) <= equipmentMixExercises {
					continue
				}
				kinds := make(map[string]bool)
				for _, ex := range day.Exercises {
					if cat := equipmentCategory(ex.Equipment); cat != "" {
						kinds[cat] = true
					}
				}
				if len(kinds) >= equipmentMixCategories {
					loc := domain.Location{Phase: phase.Name, Week: week.WeekNumber, Day: day.DayNumber}
					r.warn(domain.KindEquipmentMix, loc,
						fmt.Sprintf("%d exercises across %d equipment types; expect long changeovers", len(day.Exercises), len(kinds)))
				}
			}
		}
	}
}
