// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package mcpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Unwrap extracts the text payload from a tool response envelope.
//
// The envelope is a JSON array of objects; the payload is the "text" string of
// the first element, returned verbatim.
func Unwrap(raw string) (string, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return "", fmt.Errorf("%w: expected a JSON array", ErrMalformedToolResponse)
	}
	var elements []map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedToolResponse, err)
	}
	if len(elements) == 0 {
		return "", ErrEmptyToolResponse
	}
	for i, el := range elements {
		if el == nil {
			return "", fmt.Errorf("%w: element %d is not an object", ErrMalformedToolResponse, i)
		}
	}

	field, ok := elements[0]["text"]
	if !ok || bytes.Equal(bytes.TrimSpace(field), []byte("null")) {
		return "", ErrMissingTextField
	}
	var text string
	if err := json.Unmarshal(field, &text); err != nil {
		return "", fmt.Errorf("%w: text is not a string", ErrMissingTextField)
	}
	return text, nil
}

// UnwrapInto extracts the text payload and decodes it as JSON into target.
// Fields of the payload that target does not declare are ignored.
func UnwrapInto(raw string, target any) error {
	text, err := Unwrap(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), target); err != nil {
		return fmt.Errorf("%w: %w", ErrStructuredPayloadDecodeFailed, err)
	}
	return nil
}

// EncodeArguments renders a tool argument object as JSON.
// User content such as a Cypher statement is escaped by the encoder, never
// spliced into a string by hand.
func EncodeArguments(args any) (string, error) {
	if args == nil {
		return "{}", nil
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(args); err != nil {
		return "", fmt.Errorf("failed to encode tool arguments: %w", err)
	}
	encoded := bytes.TrimSpace(buf.Bytes())
	if err := checkObject(encoded); err != nil {
		return "", err
	}
	return string(encoded), nil
}

var errNotAnObject = errors.New("tool arguments must be a JSON object")

func checkObject(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return errNotAnObject
	}
	return nil
}
