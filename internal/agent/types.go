// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package agent

// QueryRequest is a generated statement and its parameters.
type QueryRequest struct {
	Cypher string `json:"cypher"`
	Params Params `json:"params"`
}

// ValidationResult is what one validation tool reports about a statement.
// IsValid and Score are nil when the tool omits them.
type ValidationResult struct {
	ValidationType string           `json:"validation_type"`
	Query          string           `json:"query"`
	IsValid        *bool            `json:"is_valid"`
	Score          *float64         `json:"score"`
	Metadata       []map[string]any `json:"metadata"`
}

// Passed is true only for an explicit is_valid of true.
func (r *ValidationResult) Passed() bool {
	return r != nil && r.IsValid != nil && *r.IsValid
}

// ValidationReport collects the three checks. Schema and Properties are both
// nil when the syntax check did not pass.
type ValidationReport struct {
	Syntax     *ValidationResult `json:"syntax"`
	Schema     *ValidationResult `json:"schema"`
	Properties *ValidationResult `json:"properties"`
}

// Valid reports whether all three checks ran and passed.
func (r *ValidationReport) Valid() bool {
	return r != nil && r.Syntax.Passed() && r.Schema.Passed() && r.Properties.Passed()
}

// Checks returns how many checks ran.
func (r *ValidationReport) Checks() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, result := range []*ValidationResult{r.Syntax, r.Schema, r.Properties} {
		if result != nil {
			n++
		}
	}
	return n
}

// Answer is the outcome of a full question round trip.
type Answer struct {
	RequestID     string            `json:"request_id"`
	Question      string            `json:"question"`
	Request       QueryRequest      `json:"request"`
	Report        *ValidationReport `json:"report"`
	RecordsJSON   string            `json:"records_json,omitempty"`
	Executed      bool              `json:"executed"`
	SkippedReason string            `json:"skipped_reason,omitempty"`
}
