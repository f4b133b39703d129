package model

// NumberKind classifies the pattern that matched a numeric fact
type NumberKind string

const (
	KindPercentage  NumberKind = "percentage"   // "38%"
	KindCurrencyRUB NumberKind = "currency_rub" // "3 000 рублей", "₽500"
	KindCurrencyUSD NumberKind = "currency_usd" // "$150"
	KindCurrencyEUR NumberKind = "currency_eur" // "€200"
	KindThousands   NumberKind = "thousands"    // "5 тыс.", "5 thousand"
	KindMillions    NumberKind = "millions"     // "150 млн", "150 million"
	KindBillions    NumberKind = "billions"     // "3 млрд", "3 billion"
	KindRange       NumberKind = "range"        // "10-15"
	KindBasisPoints NumberKind = "basis_points" // "+25 б.п."
	KindDecimal     NumberKind = "decimal"      // "3.14"
)

// Fact is a verbatim numeric span extracted from the source text
type Fact struct {
	Raw      string     `json:"raw"`                 // Verbatim substring of the source
	Value    float64    `json:"value"`               // Normalized numeric value
	RangeEnd *float64   `json:"range_end,omitempty"` // Set only for KindRange
	Unit     string     `json:"unit,omitempty"`      // "%", "RUB", "USD", "EUR", "bp", "count"
	Kind     NumberKind `json:"kind"`
	Start    int        `json:"start"` // Byte offset of the match in the source
	End      int        `json:"end"`
}

// IsCurrency reports whether the fact carries a currency unit
func (f Fact) IsCurrency() bool {
	switch f.Unit {
	case "RUB", "USD", "EUR":
		return true
	}
	return false
}

// DateFact is a calendar expression found in the source text
type DateFact struct {
	Raw        string `json:"raw"`                  // Verbatim substring of the source
	Normalized string `json:"normalized,omitempty"` // ISO date (YYYY-MM-DD) or empty if normalization failed
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

// MoneyFact is a currency amount tagged with its owning sentence
type MoneyFact struct {
	Raw      string  `json:"raw"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency"` // "RUB", "USD", "EUR"
	Sentence int     `json:"sentence"` // Owning sentence index (0-based)
}

// SentenceFacts attributes numeric facts to a sentence
type SentenceFacts struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Numbers []Fact `json:"numbers"`
}

// EntityType is the kind of named entity the extractor recognizes
type EntityType string

const (
	EntityOrg    EntityType = "ORG"
	EntityPerson EntityType = "PERSON"
	EntityGPE    EntityType = "GPE"
)

// FactSet holds everything extracted from one source text.
// Built once per request and never mutated afterwards.
type FactSet struct {
	Numbers              []Fact                     `json:"numbers"`
	Dates                []DateFact                 `json:"dates"`
	Entities             map[EntityType][]string    `json:"entities"`
	SentencesWithNumbers []SentenceFacts            `json:"sentences_with_numbers"`
	Money                []MoneyFact                `json:"money"`
}

// EmptyEntities returns an entity map with all recognized types present
// and empty. Degraded extraction hands this back instead of nil.
func EmptyEntities() map[EntityType][]string {
	return map[EntityType][]string{
		EntityOrg:    {},
		EntityPerson: {},
		EntityGPE:    {},
	}
}
