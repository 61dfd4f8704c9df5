package yplus

import (
	"fmt"
	"strings"
)

// FieldError reports one input that could not be used.
type FieldError struct {
	Field  string `json:"field"`
	Label  string `json:"label"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("please enter a valid number for %s: %s", e.Label, e.Reason)
}

// ValidationErrors collects every bad field of one submission.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Field returns the error for the named field, if any.
func (v ValidationErrors) Field(name string) *FieldError {
	for _, e := range v {
		if e.Field == name {
			return e
		}
	}
	return nil
}

// ComputationError names the derived quantity whose evaluation failed.
type ComputationError struct {
	Quantity string `json:"quantity"`
	Reason   string `json:"reason"`
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("error in calculation: cannot derive %s: %s", e.Quantity, e.Reason)
}
