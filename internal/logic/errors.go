package logic

import (
	"errors"
	"fmt"
)

// Validation failure kinds, matched with errors.Is
var (
	ErrMissingField  = errors.New("missing field")
	ErrNotANumber    = errors.New("not a number")
	ErrOutOfRange    = errors.New("out of range")
	ErrInvalidChoice = errors.New("invalid choice")
)

// MissingFieldsMessage is shown whenever a numeric field is left empty
const MissingFieldsMessage = "Error: Please fill out all the score and overs fields."

// ValidationError reports a form field that cannot be turned into a feature
type ValidationError struct {
	Field  string
	Kind   error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Detail)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// PredictionError wraps any failure raised by the model
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return "prediction failed: " + e.Err.Error()
}

func (e *PredictionError) Unwrap() error { return e.Err }

// UserMessage renders err for the prediction slot of the page or API body
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrMissingField) {
		return MissingFieldsMessage
	}
	return fmt.Sprintf("Error: %v. Please check all your inputs are valid.", err)
}
