package guardian

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"alcyxob/program-pipeline/internal/domain"
)

func newStructValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field paths instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkSchema decodes the candidate into a TrainingProgram and applies the struct rules.
// Every problem is a CRITICAL finding.
func (v *Validator) checkSchema(candidate any, r *report) *domain.TrainingProgram {
	program, err := decodeCandidate(candidate)
	if err != nil {
		r.fail(domain.KindSchema, domain.SeverityCritical, domain.Location{Path: schemaPath(err)}, err.Error())
		return nil
	}

	if err := v.validate.Struct(program); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			r.fail(domain.KindSchema, domain.SeverityCritical, domain.Location{}, err.Error())
			return nil
		}
		for _, fe := range fieldErrs {
			r.fail(domain.KindSchema, domain.SeverityCritical, domain.Location{Path: fieldPath(fe)}, constraintMessage(fe))
		}
		return nil
	}
	return program
}

func decodeCandidate(candidate any) (*domain.TrainingProgram, error) {
	switch c := candidate.(type) {
	case nil:
		return nil, errors.New("candidate is empty")
	case *domain.TrainingProgram:
		if c == nil {
			return nil, errors.New("candidate is empty")
		}
		return c, nil
	case domain.TrainingProgram:
		return &c, nil
	case json.RawMessage:
		return decodeStrict(c)
	case []byte:
		return decodeStrict(c)
	case string:
		return decodeStrict([]byte(c))
	case map[string]any:
		data, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("candidate is not serializable: %w", err)
		}
		return decodeStrict(data)
	default:
		return nil, fmt.Errorf("unsupported candidate type %T", candidate)
	}
}

// decodeStrict rejects unknown fields, type mismatches and trailing data.
func decodeStrict(data []byte) (*domain.TrainingProgram, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("candidate is empty")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var program domain.TrainingProgram
	if err := dec.Decode(&program); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after program object")
	}
	return &program, nil
}

func schemaPath(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field
	}
	return ""
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", fe.Field(), fe.Param(), fe.Value())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s needs at least %s item(s)", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "gte", "lte":
		return fmt.Sprintf("%s must satisfy %s=%s, got %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q constraint", fe.Field(), fe.Tag())
	}
}
