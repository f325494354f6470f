package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformedOutput is returned by Parse when the text holds no usable MCQ.
var ErrMalformedOutput = errors.New("malformed generator output")

// candidatePattern spans the leftmost '{' to the rightmost '}'.
var candidatePattern = regexp.MustCompile(`(?s)\{.*\}`)

// requiredKeys only checks presence. Value types are repaired afterwards.
var requiredKeys = mustSchema(`{
	"type": "object",
	"required": ["question", "options", "correct"]
}`)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic("quiz: invalid schema: " + err.Error())
	}
	return schema
}

// Parse extracts an MCQ from free-form generator output and normalizes it.
// It has no side effects. Any failure wraps ErrMalformedOutput.
func Parse(raw string) (MCQ, error) {
	candidate := strings.TrimSpace(candidatePattern.FindString(raw))
	if candidate == "" {
		return MCQ{}, fmt.Errorf("%w: no JSON object found", ErrMalformedOutput)
	}

	doc, err := decodeObject(candidate)
	if err != nil {
		return MCQ{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	result, err := requiredKeys.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return MCQ{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if !result.Valid() {
		msgs := lo.Map(result.Errors(), func(e gojsonschema.ResultError, _ int) string {
			return e.String()
		})
		return MCQ{}, fmt.Errorf("%w: %s", ErrMalformedOutput, strings.Join(msgs, "; "))
	}

	obj := doc.(map[string]any)

	var options []string
	if arr, ok := obj["options"].([]any); ok {
		options = lo.Map(arr, func(v any, _ int) string { return stringify(v) })
	} else {
		options = []string{stringify(obj["options"])}
	}

	return Normalize(stringify(obj["question"]), options, stringify(obj["correct"])), nil
}

// decodeObject parses exactly one JSON value, keeping numbers as written.
func decodeObject(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid JSON: trailing data after object")
	}
	return doc, nil
}

// stringify renders a decoded JSON value as option text.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
