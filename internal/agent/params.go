// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Params is a map of Cypher query parameters whose JSON decoding keeps
// integers as int64, so Neo4j does not receive 42 as 42.0.
//
//   - Whole numbers (e.g., 1, 42, -10) become int64
//   - Numbers written with a decimal point or exponent (e.g., 1.5, 10.0) become float64
//   - Other types (strings, booleans, null) are preserved as-is
type Params map[string]any

func (p *Params) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var temp map[string]any
	if err := decoder.Decode(&temp); err != nil {
		return err
	}
	if temp == nil {
		*p = nil
		return nil
	}
	converted, ok := ConvertNumbers(temp).(map[string]any)
	if !ok {
		return fmt.Errorf("error during Unmarshaling of Params")
	}
	*p = converted
	return nil
}

// ConvertNumbers replaces every json.Number inside input, recursively.
func ConvertNumbers(input any) any {
	switch v := input.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()

	case map[string]any:
		for k, val := range v {
			v[k] = ConvertNumbers(val)
		}
		return v

	case []any:
		for i, val := range v {
			v[i] = ConvertNumbers(val)
		}
		return v
	}
	return input
}
