package model

import "encoding/json"

// Language selects the summarization language
type Language string

const (
	LangRussian Language = "ru"
	LangEnglish Language = "en"
)

// Format selects how the final summary is laid out
type Format string

const (
	FormatBullets    Format = "bullets"
	FormatParagraph  Format = "paragraph"
	FormatStructured Format = "structured"
)

// Method identifies which pipeline path produced the summary
type Method string

const (
	MethodTwoPhase             Method = "llm_two_phase"
	MethodFallback             Method = "fallback"
	MethodFallbackAfterFailure Method = "fallback_after_failure"
	MethodFallbackOnError      Method = "fallback_on_error"
)

// FactsHeading returns the label of the trailing facts block. Phase B's
// trailer and the fallback summarizer use the same heading so downstream
// consumers can locate the block uniformly.
func FactsHeading(lang Language) string {
	if lang == LangEnglish {
		return "🔢 Numbers and facts"
	}
	return "🔢 Цифры и факты"
}

// KeyFact is one fact carried through the structured intermediate
// representation. Only value_raw is contractual; value_norm is whatever
// the model sent back (number, string, range) and is passed through
// untouched rather than validated.
type KeyFact struct {
	ValueRaw  string          `json:"value_raw"`
	ValueNorm json.RawMessage `json:"value_norm,omitempty"`
	Unit      string          `json:"unit,omitempty"`
}

// IntermediateSummary is the schema-validated Phase A output for one chunk,
// and the merged representation handed to Phase B.
type IntermediateSummary struct {
	Bullets       []string                `json:"bullets"`
	KeyFacts      []KeyFact               `json:"key_facts"`
	Entities      map[EntityType][]string `json:"entities"`
	Uncertainties []string                `json:"uncertainties,omitempty"`
}

// QualityReport scores a summary against its source
type QualityReport struct {
	NumbersPreserved  bool     `json:"numbers_preserved"`
	MissingNumbers    []string `json:"missing_numbers,omitempty"`
	LanguageCorrect   bool     `json:"language_correct"`
	LengthAppropriate bool     `json:"length_appropriate"`
	ActualLength      int      `json:"actual_length"`
	TargetLength      int      `json:"target_length"`
	QualityScore      float64  `json:"quality_score"` // Always within [0,1]
}

// SummaryResult is the outward contract of the pipeline. The pipeline
// always terminates successfully; Err carries the message of an internal
// fault that forced the fallback path, never an unhandled failure.
type SummaryResult struct {
	Success         bool          `json:"success"`
	Summary         string        `json:"summary"`
	Quality         QualityReport `json:"quality_report"`
	Method          Method        `json:"method"`
	ChunksProcessed int           `json:"chunks_processed,omitempty"`
	SourceFacts     int           `json:"source_facts,omitempty"`
	Err             string        `json:"error,omitempty"`
}
