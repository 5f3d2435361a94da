package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse means the model answered without any text. It is not
// retried.
var ErrEmptyResponse = errors.New("llm: empty response from model")

// ConfigurationError means no usable model could be selected.
type ConfigurationError struct {
	Provider string
	Tried    []string
	Err      error
}

func (e *ConfigurationError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("llm: %s not configured: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("llm: no usable %s model (tried %s): %v", e.Provider, strings.Join(e.Tried, ", "), e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ModelError means every attempt to call the selected model failed.
type ModelError struct {
	Model    string
	Attempts int
	Err      error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("llm: model %s failed after %d attempt(s): %v", e.Model, e.Attempts, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}
