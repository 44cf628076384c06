package training

import (
	"alcyxob/program-pipeline/internal/domain"
)

// ratioStandard is a minimum acceptable strength ratio and the weak point it signals.
type ratioStandard struct {
	Name    domain.RatioName
	Minimum float64
	Tag     domain.WeakPointTag
}

// RatioStandards are checked in order; issue order follows this table.
var RatioStandards = []ratioStandard{
	{Name: domain.RatioBenchToDeadlift, Minimum: 0.60, Tag: domain.WeakHorizontalPress},
	{Name: domain.RatioSquatToDeadlift, Minimum: 0.75, Tag: domain.WeakQuadStrength},
	{Name: domain.RatioOverheadToBench, Minimum: 0.60, Tag: domain.WeakVerticalPress},
}

// CorrectiveProtocols lists corrective exercises per weak point.
var CorrectiveProtocols = map[domain.WeakPointTag][]string{
	domain.WeakHorizontalPress: {
		"Paused Bench Press",
		"Close-Grip Bench Press",
		"Dumbbell Bench Press",
		"Weighted Dips",
	},
	domain.WeakQuadStrength: {
		"Front Squat",
		"High-Bar Pause Squat",
		"Bulgarian Split Squat",
		"Leg Press",
	},
	domain.WeakVerticalPress: {
		"Seated Dumbbell Shoulder Press",
		"Push Press",
		"Close-Grip Bench Press",
		"Lateral Raise",
	},
}

const (
	highSeverityFraction = 0.9 // Below 90% of the minimum is High

	reassessHighWeeks     = 8
	reassessModerateWeeks = 12
	reassessNoIssueWeeks  = 16
)

// AnalyzeWeakPoints compares strength ratios against RatioStandards.
// Returns Analyzed=false when the profile is missing any of the four lifts.
func AnalyzeWeakPoints(profile *domain.StrengthProfile) domain.WeakPointProtocol {
	if !profile.IsComplete() {
		return domain.WeakPointProtocol{Analyzed: false}
	}

	measured := map[domain.RatioName]float64{
		domain.RatioBenchToDeadlift: safeRatio(*profile.Bench, *profile.Deadlift),
		domain.RatioSquatToDeadlift: safeRatio(*profile.Squat, *profile.Deadlift),
		domain.RatioOverheadToBench: safeRatio(*profile.OverheadPress, *profile.Bench),
	}

	out := domain.WeakPointProtocol{
		Analyzed:            true,
		Issues:              []domain.RatioIssue{},
		CorrectiveExercises: []string{},
		PrimaryWeakPoints:   []domain.WeakPointTag{},
	}

	tags := make(map[domain.WeakPointTag]bool)
	for _, std := range RatioStandards {
		ratio := measured[std.Name]
		if ratio >= std.Minimum {
			continue
		}
		severity := domain.IssueModerate
		if ratio < std.Minimum*highSeverityFraction {
			severity = domain.IssueHigh
		}
		out.Issues = append(out.Issues, domain.RatioIssue{
			Ratio:    std.Name,
			Measured: ratio,
			Minimum:  std.Minimum,
			Severity: severity,
			Tag:      std.Tag,
		})
		if !tags[std.Tag] {
			tags[std.Tag] = true
			out.PrimaryWeakPoints = append(out.PrimaryWeakPoints, std.Tag)
		}
	}

	seen := make(map[string]bool)
	for _, tag := range out.PrimaryWeakPoints {
		for _, ex := range CorrectiveProtocols[tag] {
			if seen[ex] {
				continue
			}
			seen[ex] = true
			out.CorrectiveExercises = append(out.CorrectiveExercises, ex)
		}
	}

	out.ReassessmentWeeks = reassessmentHorizon(out.Issues)
	return out
}

func reassessmentHorizon(issues []domain.RatioIssue) int {
	hasModerate := false
	for _, issue := range issues {
		if issue.Severity == domain.IssueHigh {
			return reassessHighWeeks
		}
		if issue.Severity == domain.IssueModerate {
			hasModerate = true
		}
	}
	if hasModerate {
		return reassessModerateWeeks
	}
	return reassessNoIssueWeeks
}

// safeRatio treats a zero denominator as 1.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		den = 1
	}
	return num / den
}
