package extract

import (
	"fmt"
	"os"

	"github.com/akulenkov/konspekt/internal/model"
)

// FactExtractor builds the immutable FactSet for one source text.
// The entity recognizer is an injected resource handle; a nil recognizer
// simply disables entity extraction.
type FactExtractor struct {
	recognizer EntityRecognizer
	verbose    bool
}

// NewFactExtractor creates an extractor with the given recognizer.
// Pass nil to run without entity extraction.
func NewFactExtractor(recognizer EntityRecognizer) *FactExtractor {
	return &FactExtractor{recognizer: recognizer}
}

// SetVerbose enables degradation warnings on stderr
func (e *FactExtractor) SetVerbose(v bool) {
	e.verbose = v
}

// Extract gathers numbers, dates, entities and sentence attributions.
// No sub-extractor failure aborts the request; each degrades to an empty
// result on its own.
func (e *FactExtractor) Extract(text string, lang model.Language) *model.FactSet {
	numbers := ExtractNumbers(text)
	dates := ExtractDates(text, lang)
	sentences := SplitSentences(text)

	entities := model.EmptyEntities()
	if e.recognizer != nil {
		found, err := e.recognizer.Recognize(text, lang)
		if err != nil {
			if e.verbose {
				fmt.Fprintf(os.Stderr, "Warning: entity recognition failed: %v\n", err)
			}
		} else if found != nil {
			entities = found
		}
	}

	fs := &model.FactSet{
		Numbers:  numbers,
		Dates:    dates,
		Entities: entities,
	}

	// Attribute each numeric fact to the sentence whose span contains its
	// start offset. Sentences are ordered, so one forward scan suffices.
	for i, s := range sentences {
		end := len(text)
		if i+1 < len(sentences) {
			end = sentences[i+1].Start
		}

		var owned []model.Fact
		for _, n := range numbers {
			if n.Start >= s.Start && n.Start < end {
				owned = append(owned, n)
				if n.IsCurrency() {
					fs.Money = append(fs.Money, model.MoneyFact{
						Raw:      n.Raw,
						Value:    n.Value,
						Currency: n.Unit,
						Sentence: s.Index,
					})
				}
			}
		}
		if len(owned) > 0 {
			fs.SentencesWithNumbers = append(fs.SentencesWithNumbers, model.SentenceFacts{
				Index:   s.Index,
				Text:    s.Text,
				Numbers: owned,
			})
		}
	}

	return fs
}

// SelectMustKeep returns the sentence indices that any non-generative
// summary must retain: sentences carrying at least minFacts numeric facts
// plus every sentence owning a money fact.
func SelectMustKeep(fs *model.FactSet, minFacts int) map[int]struct{} {
	if minFacts <= 0 {
		minFacts = 1
	}

	keep := make(map[int]struct{})
	for _, s := range fs.SentencesWithNumbers {
		if len(s.Numbers) >= minFacts {
			keep[s.Index] = struct{}{}
		}
	}
	for _, m := range fs.Money {
		keep[m.Sentence] = struct{}{}
	}
	return keep
}
