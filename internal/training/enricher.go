package training

import (
	"regexp"
	"strconv"
	"strings"

	"alcyxob/program-pipeline/internal/domain"
)

// Training age in years per experience tier. Unknown tiers fall back to Beginner.
var trainingAgeByTier = map[domain.ExperienceTier]float64{
	domain.TierBeginner:     0.25,
	domain.TierIntermediate: 1.25,
	domain.TierAdvanced:     3.0,
}

const defaultVolumeTolerance = 1.0

var leadingMinutes = regexp.MustCompile(`\d+`)

// EnrichProfile derives quantitative training parameters from onboarding answers.
// It has no error path: every branch has a default.
func EnrichProfile(profile domain.UserProfile) domain.EnrichedProfile {
	return domain.EnrichedProfile{
		Profile: profile,
		Parameters: domain.VolumeParameters{
			TrainingAge:      TrainingAge(profile.Experience),
			RecoveryCapacity: RecoveryCapacity(profile.DaysPerWeek, profile.SessionDuration),
			StressLevel:      StressLevel(profile.DaysPerWeek),
			VolumeTolerance:  defaultVolumeTolerance,
		},
		Injuries: ParseLimitations(profile.Limitations),
	}
}

// TrainingAge maps an experience tier to years of training.
func TrainingAge(tier domain.ExperienceTier) float64 {
	if age, ok := trainingAgeByTier[normalizeTier(tier)]; ok {
		return age
	}
	return trainingAgeByTier[domain.TierBeginner]
}

// RecoveryCapacity scores frequency and session length, then buckets the total into 3, 6 or 9.
func RecoveryCapacity(daysPerWeek int, sessionDuration string) int {
	score := frequencyScore(daysPerWeek) + durationScore(sessionDuration)
	switch {
	case score >= 5:
		return 9
	case score >= 3:
		return 6
	default:
		return 3
	}
}

// StressLevel treats a higher frequency commitment as better stress tolerance.
func StressLevel(daysPerWeek int) int {
	switch {
	case daysPerWeek >= 6:
		return 3
	case daysPerWeek >= 4:
		return 6
	default:
		return 8
	}
}

func frequencyScore(daysPerWeek int) int {
	switch {
	case daysPerWeek >= 6:
		return 3
	case daysPerWeek >= 4:
		return 2
	default:
		return 1
	}
}

// durationScore reads the lower bound of a category like "45-60 minutes" or "90+ minutes".
func durationScore(sessionDuration string) int {
	minutes, ok := SessionLowerBound(sessionDuration)
	if !ok {
		return 1
	}
	switch {
	case minutes >= 75:
		return 3
	case minutes >= 45:
		return 2
	default:
		return 1
	}
}

// SessionLowerBound extracts the first number in a session-duration answer.
func SessionLowerBound(sessionDuration string) (int, bool) {
	m := leadingMinutes.FindString(sessionDuration)
	if m == "" {
		return 0, false
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return minutes, true
}

func normalizeTier(tier domain.ExperienceTier) domain.ExperienceTier {
	switch strings.ToLower(strings.TrimSpace(string(tier))) {
	case "beginner":
		return domain.TierBeginner
	case "intermediate":
		return domain.TierIntermediate
	case "advanced":
		return domain.TierAdvanced
	default:
		return tier
	}
}
