package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON matches every extraction failure via errors.Is.
var ErrNoJSON = errors.New("no JSON object could be decoded")

const (
	ReasonEmpty     = "empty input"
	ReasonNoBraces  = "no brace pair found"
	ReasonMalformed = "malformed after all strategies"
)

type ExtractError struct {
	Reason string
	Err    error // last decode error, if any
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return "extract json: " + e.Reason + ": " + e.Err.Error()
	}
	return "extract json: " + e.Reason
}

func (e *ExtractError) Is(target error) bool { return target == ErrNoJSON }

func (e *ExtractError) Unwrap() error { return e.Err }

// ExtractObject recovers one JSON object from free-form generator output.
// Strategies, first success wins: the raw text; the text with code fences
// stripped; the slice from the first '{' to the last '}', as written and
// then with quotes normalized.
func ExtractObject(raw string) (json.RawMessage, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, &ExtractError{Reason: ReasonEmpty}
	}

	if obj, err := decodeObject(text); err == nil {
		return obj, nil
	}

	cleaned := StripCodeFences(text)
	if cleaned != text {
		if obj, err := decodeObject(cleaned); err == nil {
			return obj, nil
		}
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, &ExtractError{Reason: ReasonNoBraces}
	}
	slice := cleaned[start : end+1]
	obj, err := decodeObject(slice)
	if err == nil {
		return obj, nil
	}
	// Curly quotes inside string values are valid JSON; only rewrite them
	// when the slice does not decode as is.
	if norm := NormalizeQuotes(slice); norm != slice {
		if obj, err = decodeObject(norm); err == nil {
			return obj, nil
		}
	}
	return nil, &ExtractError{Reason: ReasonMalformed, Err: err}
}

var errNotObject = errors.New("top-level value is not an object")

func decodeObject(s string) (json.RawMessage, error) {
	b := []byte(s)
	if !json.Valid(b) {
		var v any
		return nil, json.Unmarshal(b, &v)
	}
	if t := bytes.TrimSpace(b); len(t) == 0 || t[0] != '{' {
		return nil, errNotObject
	}
	return json.RawMessage(b), nil
}
