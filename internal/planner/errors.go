package planner

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrIndexOutOfRange = errors.New("day or exercise index out of range")
	ErrUnknownField    = errors.New("unknown exercise field")
	ErrSaveInProgress  = errors.New("a save for this plan is already in progress")
)

// ValidationError reports why a plan cannot be saved. Fields maps a field path
// (e.g. "name", "days[1].exercises") to a user-facing message.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error: " + e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation error: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if e.Message == "" {
		e.Message = msg
	}
	e.Fields[field] = msg
}
