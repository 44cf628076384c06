package generator

import (
	"fmt"
	"strings"

	"alcyxob/program-pipeline/internal/domain"
	"alcyxob/program-pipeline/internal/training"
)

const systemPrompt = "You are an experienced strength and conditioning coach. " +
	"You write complete, periodized training programs and answer with a single JSON object and nothing else."

// programSchema is the document shape the guardian decodes.
const programSchema = `{
  "name": "string",
  "description": "string",
  "periodizationModel": "string",
  "durationWeeksTotal": 0,
  "phases": [
    {
      "name": "string",
      "durationWeeks": 0,
      "adaptation": "hypertrophy|strength|peaking|recovery",
      "progression": "ramping|stable|linear",
      "intensity": {"low": 0, "high": 0},
      "weeks": [
        {
          "weekNumber": 0,
          "days": [
            {
              "dayNumber": 0,
              "name": "string",
              "isRestDay": false,
              "exercises": [
                {
                  "name": "string",
                  "tier": "Anchor|Primary|Secondary|Accessory",
                  "sets": 0,
                  "reps": "string",
                  "restSeconds": 0,
                  "equipment": "string",
                  "muscleGroup": "string",
                  "notes": "string"
                }
              ]
            }
          ]
        }
      ]
    }
  ]
}`

// BuildPrompt renders the generation request for one run.
func BuildPrompt(in Input) string {
	var sb strings.Builder
	p := in.Profile.Profile
	params := in.Profile.Parameters

	sb.WriteString("Create a complete training program for the athlete below.\n\n")

	sb.WriteString("ATHLETE\n")
	fmt.Fprintf(&sb, "- Experience: %s\n", p.Experience)
	fmt.Fprintf(&sb, "- Goal: %s\n", p.Goal)
	fmt.Fprintf(&sb, "- Training days per week: %d\n", p.DaysPerWeek)
	fmt.Fprintf(&sb, "- Session duration: %s\n", p.SessionDuration)
	if len(p.Equipment) > 0 {
		fmt.Fprintf(&sb, "- Available equipment: %s\n", strings.Join(p.Equipment, ", "))
	}
	if p.Age > 0 {
		fmt.Fprintf(&sb, "- Age: %d\n", p.Age)
	}
	fmt.Fprintf(&sb, "- Training age: %.2f years, recovery capacity %d/10, stress level %d/10\n",
		params.TrainingAge, params.RecoveryCapacity, params.StressLevel)

	if in.Profile.Injuries.HasRestrictions() {
		sb.WriteString("\nINJURY RESTRICTIONS\n")
		fmt.Fprintf(&sb, "- Affected areas: %s\n", strings.Join(in.Profile.Injuries.Areas, ", "))
		sb.WriteString("- Do not program any of the following:\n")
		for _, c := range in.Profile.Injuries.Contraindications {
			fmt.Fprintf(&sb, "  * %s\n", c)
		}
	}

	sb.WriteString("\nWEEKLY VOLUME LANDMARKS (sets per muscle group per week)\n")
	for _, g := range training.SortedGroups(in.Landmarks) {
		lm := in.Landmarks[g]
		fmt.Fprintf(&sb, "- %s: MEV %d, MAV %d, MRV %d\n", g, lm.MEV, lm.MAV, lm.MRV)
	}
	sb.WriteString("Keep every muscle group between its MEV and MRV; aim near MAV in hard weeks.\n")

	if in.WeakPoints.Analyzed && len(in.WeakPoints.PrimaryWeakPoints) > 0 {
		sb.WriteString("\nWEAK POINTS\n")
		for _, tag := range in.WeakPoints.PrimaryWeakPoints {
			fmt.Fprintf(&sb, "- %s\n", tag)
		}
		fmt.Fprintf(&sb, "Include some of these corrective exercises: %s\n", strings.Join(in.WeakPoints.CorrectiveExercises, ", "))
	}

	writePlan(&sb, in.Plan)

	sb.WriteString("\nSTRUCTURE RULES\n")
	sb.WriteString("- Every training day starts with exactly one exercise of tier \"Anchor\".\n")
	sb.WriteString("- After the anchor: 2-3 exercises of tier \"Primary\" or \"Secondary\", then 2-4 of tier \"Accessory\".\n")
	sb.WriteString("- Anchor, Primary and Secondary exercises have 2-8 sets.\n")
	fmt.Fprintf(&sb, "- Produce exactly %d training days per week; rest days may be listed with \"isRestDay\": true and no exercises.\n", p.DaysPerWeek)
	sb.WriteString("- Use one phase per planned phase, with the same name and durationWeeks.\n")
	sb.WriteString("- Each phase lists one week entry per week of its duration.\n")
	sb.WriteString("- Week numbers run 1, 2, 3, ... across the whole program without gaps or restarts.\n")
	sb.WriteString("- durationWeeksTotal equals the sum of all phase durations.\n")
	sb.WriteString("- In Accumulation phases total weekly sets never decrease from one week to the next.\n")

	sb.WriteString("\nRespond with JSON only, exactly in this shape:\n")
	sb.WriteString(programSchema)
	sb.WriteString("\n")
	return sb.String()
}

func writePlan(sb *strings.Builder, plan domain.PeriodizationPlan) {
	if len(plan.Phases) == 0 {
		return
	}
	fmt.Fprintf(sb, "\nPERIODIZATION: %s (%d weeks)\n", plan.Model, plan.TotalWeeks)
	if plan.Description != "" {
		fmt.Fprintf(sb, "%s\n", plan.Description)
	}
	for _, pp := range plan.Phases {
		ph := pp.Phase
		fmt.Fprintf(sb, "- %s: weeks %d-%d, %s, %s progression, intensity %.0f-%.0f%% 1RM\n",
			ph.Name, pp.StartWeek, pp.StartWeek+ph.DurationWeeks-1, ph.Adaptation, ph.Progression,
			ph.Intensity.Low, ph.Intensity.High)
		for _, t := range pp.Targets {
			fmt.Fprintf(sb, "  week %d: about %.0f sets per muscle group, %.0f%% intensity\n",
				pp.StartWeek+t.Week-1, t.TargetSets, t.TargetIntensity)
		}
	}
}
