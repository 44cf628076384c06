package guardian

import (
	"github.com/go-playground/validator/v10"

	"alcyxob/program-pipeline/internal/domain"
	"alcyxob/program-pipeline/internal/logger"
)

// DeloadWeeklySetCeiling is the highest average weekly set count a deload phase may carry.
const DeloadWeeklySetCeiling = 60

// Set count bounds per exercise.
const (
	maxSetsPerExercise  = 8
	minSetsNonAccessory = 2
)

// Equipment mix thresholds per day.
const (
	equipmentMixExercises  = 6
	equipmentMixCategories = 3
)

// Validator gates acceptance of generated programs.
type Validator struct {
	validate *validator.Validate
	log      *logger.Logger
}

// New creates a Validator.
func New(log *logger.Logger) *Validator {
	return &Validator{
		validate: newStructValidator(),
		log:      log.With("component", "guardian"),
	}
}

// Validate checks a candidate program and returns every finding.
func (v *Validator) Validate(candidate any) domain.ValidationResult {
	_, result := v.Check(candidate)
	return result
}

// Check is Validate that also returns the decoded program. The program is nil
// when the candidate did not pass the schema check.
func (v *Validator) Check(candidate any) (*domain.TrainingProgram, domain.ValidationResult) {
	r := &report{
		errors:   []domain.Finding{},
		warnings: []domain.Finding{},
	}

	// 1. Schema. Everything after assumes a well-shaped program.
	program := v.checkSchema(candidate, r)
	if program == nil || len(r.errors) > 0 {
		result := r.result()
		v.log.Debug("candidate rejected by schema check", "errors", len(result.Errors))
		return nil, result
	}

	// 2-4. Remaining passes always run together.
	checkScientific(program, r)
	checkStructure(program, r)
	checkEquipment(program, r)

	result := r.result()
	v.log.Debug("candidate validated",
		"valid", result.IsValid,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
	)
	return program, result
}

// report accumulates findings across passes.
type report struct {
	errors   []domain.Finding
	warnings []domain.Finding
}

func (r *report) fail(kind domain.FindingKind, sev domain.FindingSeverity, loc domain.Location, msg string) {
	r.errors = append(r.errors, domain.Finding{Kind: kind, Severity: sev, Message: msg, Location: loc})
}

func (r *report) warn(kind domain.FindingKind, loc domain.Location, msg string) {
	r.warnings = append(r.warnings, domain.Finding{Kind: kind, Severity: domain.SeverityLow, Message: msg, Location: loc})
}

func (r *report) result() domain.ValidationResult {
	return domain.ValidationResult{
		IsValid:  len(r.errors) == 0,
		Errors:   r.errors,
		Warnings: r.warnings,
	}
}
