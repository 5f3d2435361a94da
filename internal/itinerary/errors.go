package itinerary

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyText        = errors.New("response text is empty")
	ErrNoJSONObject     = errors.New("no JSON object found")
	ErrNoDaysArray      = errors.New("truncated before the days array")
	ErrNoCompleteDay    = errors.New("truncated before the first complete day")
	ErrMissingDays      = errors.New("itinerary has no usable days")
	ErrUnrepairableJSON = errors.New("JSON could not be repaired")
)

// Parse stages, reported in ParseError.Stage.
const (
	StageExtract  = "extract"
	StageRepair   = "repair"
	StageDecode   = "decode"
	StageValidate = "validate"
)

const snippetLength = 240

// ParseError means model text could not be turned into an Itinerary.
// Snippet holds the start of the raw text for logs.
type ParseError struct {
	Stage   string
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse itinerary (%s): %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(stage, raw string, err error) *ParseError {
	snippet := raw
	if len(snippet) > snippetLength {
		snippet = strings.ToValidUTF8(snippet[:snippetLength], "")
	}
	return &ParseError{Stage: stage, Snippet: snippet, Err: err}
}
