package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"alcyxob/program-pipeline/internal/domain"
	"alcyxob/program-pipeline/internal/logger"
)

var (
	ErrServiceFailure  = errors.New("generative service failure")
	ErrMalformedOutput = errors.New("malformed generative output")
)

// ServiceError wraps a failure of the text generation service itself.
type ServiceError struct {
	Cause error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%v: %v", ErrServiceFailure, e.Cause)
}

func (e *ServiceError) Unwrap() []error {
	return []error{ErrServiceFailure, e.Cause}
}

// MalformedOutputError is returned when the response holds no parseable JSON object.
// Raw keeps the full response for operators.
type MalformedOutputError struct {
	Raw   string
	Cause error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMalformedOutput, e.Cause)
}

func (e *MalformedOutputError) Unwrap() []error {
	return []error{ErrMalformedOutput, e.Cause}
}

// Options are passed through to the text generation service.
type Options struct {
	System           string
	StructuredOutput bool // Ask the service for a bare JSON object
}

// TextGenerator is the external generative text capability.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Input is everything the earlier stages derived for one run.
type Input struct {
	Profile    domain.EnrichedProfile
	Landmarks  domain.LandmarkMap
	WeakPoints domain.WeakPointProtocol
	Plan       domain.PeriodizationPlan
}

// Candidate is an unvalidated program document.
type Candidate struct {
	Raw         string          // Full service response
	Document    json.RawMessage // The extracted JSON object
	Attempts    int
	Model       string
	PromptChars int
}

// ProgramGenerator turns stage outputs into a candidate program.
type ProgramGenerator interface {
	Generate(ctx context.Context, in Input) (*Candidate, error)
}

type llmProgramGenerator struct {
	text  TextGenerator
	model string
	log   *logger.Logger
}

// NewProgramGenerator creates a generator backed by a text service.
// model is informational and is copied onto each candidate.
func NewProgramGenerator(text TextGenerator, model string, log *logger.Logger) ProgramGenerator {
	return &llmProgramGenerator{
		text:  text,
		model: model,
		log:   log.With("component", "program_generator"),
	}
}

// Generate builds the prompt, calls the service once and extracts the JSON document.
func (g *llmProgramGenerator) Generate(ctx context.Context, in Input) (*Candidate, error) {
	prompt := BuildPrompt(in)
	g.log.Debug("requesting program", "model", g.model, "prompt_chars", len(prompt), "periodization", in.Plan.Model)

	raw, err := g.text.Generate(ctx, prompt, Options{System: systemPrompt, StructuredOutput: true})
	if err != nil {
		return nil, &ServiceError{Cause: err}
	}

	doc, err := ExtractDocument(raw)
	if err != nil {
		g.log.Warn("unparseable program response", "response_chars", len(raw), "error", err)
		return nil, &MalformedOutputError{Raw: raw, Cause: err}
	}

	return &Candidate{
		Raw:         raw,
		Document:    doc,
		Attempts:    1,
		Model:       g.model,
		PromptChars: len(prompt),
	}, nil
}
