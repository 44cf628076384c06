package training

import (
	"strings"

	"alcyxob/program-pipeline/internal/domain"
)

// injuryRule maps a group of anatomical keywords to an area and the movement
// patterns the program must avoid for it.
type injuryRule struct {
	Area              string
	Keywords          []string
	Contraindications []string
}

var injuryRules = []injuryRule{
	{
		Area:     "knee",
		Keywords: []string{"knee", "patella", "patellar", "meniscus"},
		Contraindications: []string{
			"deep loaded knee flexion",
			"high-impact jumping",
			"loaded walking lunges",
		},
	},
	{
		Area:     "lower_back",
		Keywords: []string{"back", "spine", "spinal", "disc", "lumbar"},
		Contraindications: []string{
			"loaded spinal flexion",
			"heavy axial loading",
			"ballistic hip hinge",
		},
	},
	{
		Area:     "shoulder",
		Keywords: []string{"shoulder", "rotator cuff", "rotator-cuff", "labrum"},
		Contraindications: []string{
			"behind-the-neck pressing",
			"deep dips",
			"upright rows",
		},
	},
}

// ParseLimitations scans free-text injury notes. Unmatched text yields an empty summary.
func ParseLimitations(text string) domain.InjurySummary {
	summary := domain.InjurySummary{
		Areas:             []string{},
		Contraindications: []string{},
	}
	summary.Notes = strings.TrimSpace(text)
	if summary.Notes == "" {
		return summary
	}
	lower := strings.ToLower(summary.Notes)

	seen := make(map[string]bool)
	for _, rule := range injuryRules {
		if !containsAny(lower, rule.Keywords) {
			continue
		}
		summary.Areas = append(summary.Areas, rule.Area)
		for _, c := range rule.Contraindications {
			if !seen[c] {
				seen[c] = true
				summary.Contraindications = append(summary.Contraindications, c)
			}
		}
	}
	return summary
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
