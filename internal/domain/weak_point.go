package domain

// IssueSeverity grades a strength-ratio shortfall.
type IssueSeverity string

const (
	IssueModerate IssueSeverity = "moderate"
	IssueHigh     IssueSeverity = "high"
)

// RatioName identifies one of the analysed strength ratios.
type RatioName string

const (
	RatioBenchToDeadlift RatioName = "bench_to_deadlift"
	RatioSquatToDeadlift RatioName = "squat_to_deadlift"
	RatioOverheadToBench RatioName = "overhead_to_bench"
)

// WeakPointTag names a weak point that has a corrective protocol.
type WeakPointTag string

const (
	WeakHorizontalPress WeakPointTag = "horizontal_press"
	WeakQuadStrength    WeakPointTag = "quad_strength"
	WeakVerticalPress   WeakPointTag = "vertical_press"
)

// RatioIssue records a measured ratio that fell below its standard.
type RatioIssue struct {
	Ratio    RatioName     `bson:"ratio" json:"ratio"`
	Measured float64       `bson:"measured" json:"measured"`
	Minimum  float64       `bson:"minimum" json:"minimum"`
	Severity IssueSeverity `bson:"severity" json:"severity"`
	Tag      WeakPointTag  `bson:"tag" json:"tag"`
}

// WeakPointProtocol is the WeakPointAnalyzer output.
type WeakPointProtocol struct {
	Analyzed            bool           `bson:"analyzed" json:"analyzed"` // False when the strength profile was incomplete
	Issues              []RatioIssue   `bson:"issues" json:"issues"`
	CorrectiveExercises []string       `bson:"correctiveExercises" json:"correctiveExercises"`
	PrimaryWeakPoints   []WeakPointTag `bson:"primaryWeakPoints" json:"primaryWeakPoints"`
	ReassessmentWeeks   int            `bson:"reassessmentWeeks,omitempty" json:"reassessmentWeeks,omitempty"`
}
