package domain

import (
	"fmt"
	"strings"
)

// FindingSeverity grades a guardian finding. Warnings carry SeverityLow.
type FindingSeverity string

const (
	SeverityCritical FindingSeverity = "CRITICAL"
	SeverityHigh     FindingSeverity = "HIGH"
	SeverityMedium   FindingSeverity = "MEDIUM"
	SeverityLow      FindingSeverity = "LOW"
)

// FindingKind identifies which rule produced a finding.
type FindingKind string

const (
	KindSchema                 FindingKind = "schema"
	KindAnchorMissing          FindingKind = "anchor_missing"
	KindAnchorMultiple         FindingKind = "anchor_multiple"
	KindAnchorPosition         FindingKind = "anchor_position"
	KindAccumulationVolumeDrop FindingKind = "accumulation_volume_drop"
	KindDeloadVolumeCeiling    FindingKind = "deload_volume_ceiling"
	KindSetCountHigh           FindingKind = "set_count_high"
	KindSetCountLow            FindingKind = "set_count_low"
	KindDurationMismatch       FindingKind = "duration_mismatch"
	KindWeekSequence           FindingKind = "week_sequence"
	KindPhaseWeekCount         FindingKind = "phase_week_count"
	KindEquipmentMix           FindingKind = "equipment_mix"
)

// Location points at the part of a program a finding refers to.
// Zero values mean "not applicable"; indexes are 1-based.
type Location struct {
	Phase    string `bson:"phase,omitempty" json:"phase,omitempty"`
	Week     int    `bson:"week,omitempty" json:"week,omitempty"`
	Day      int    `bson:"day,omitempty" json:"day,omitempty"`
	Exercise string `bson:"exercise,omitempty" json:"exercise,omitempty"`
	Path     string `bson:"path,omitempty" json:"path,omitempty"` // Field path for schema findings
}

func (l Location) String() string {
	parts := make([]string, 0, 5)
	if l.Path != "" {
		parts = append(parts, l.Path)
	}
	if l.Phase != "" {
		parts = append(parts, "phase "+l.Phase)
	}
	if l.Week > 0 {
		parts = append(parts, fmt.Sprintf("week %d", l.Week))
	}
	if l.Day > 0 {
		parts = append(parts, fmt.Sprintf("day %d", l.Day))
	}
	if l.Exercise != "" {
		parts = append(parts, l.Exercise)
	}
	if len(parts) == 0 {
		return "program"
	}
	return strings.Join(parts, ", ")
}

// Finding is a single guardian error or warning.
type Finding struct {
	Kind     FindingKind     `bson:"kind" json:"kind"`
	Severity FindingSeverity `bson:"severity" json:"severity"`
	Message  string          `bson:"message" json:"message"`
	Location Location        `bson:"location" json:"location"`
}

// ValidationResult is the GuardianValidator output. IsValid is true iff Errors is empty.
type ValidationResult struct {
	IsValid  bool      `bson:"isValid" json:"isValid"`
	Errors   []Finding `bson:"errors" json:"errors"`
	Warnings []Finding `bson:"warnings" json:"warnings"`
}

// Summary renders the error list as a single human-readable message.
func (r ValidationResult) Summary() string {
	if len(r.Errors) == 0 {
		return "program passed validation"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("program failed validation with %d error(s): ", len(r.Errors)))
	for i, f := range r.Errors {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fmt.Sprintf("[%s] %s at %s: %s", f.Severity, f.Kind, f.Location, f.Message))
	}
	return sb.String()
}
