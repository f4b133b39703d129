package extract

import (
	"sort"
	"strings"
	"unicode"

	"github.com/akulenkov/konspekt/internal/model"
)

// EntityRecognizer finds named entities in text. Implementations may wrap
// an external model; the pipeline only requires that recognition degrades
// to empty sets instead of failing the request.
type EntityRecognizer interface {
	Recognize(text string, lang model.Language) (map[model.EntityType][]string, error)
}

// HeuristicRecognizer is the built-in recognizer. It works from
// capitalization and a small gazetteer, which is enough to seed the
// Phase A entity lists; the generation step refines them.
type HeuristicRecognizer struct{}

// NewHeuristicRecognizer creates the built-in recognizer
func NewHeuristicRecognizer() *HeuristicRecognizer {
	return &HeuristicRecognizer{}
}

var orgMarkers = []string{
	"ооо", "оао", "пао", "зао", "ао", "банк", "группа", "корпорация",
	"компания", "фонд", "министерство", "агентство",
	"inc", "inc.", "ltd", "ltd.", "llc", "corp", "corp.", "co.", "group",
	"bank", "university", "agency", "ministry", "holdings",
}

var gpeGazetteer = map[string]bool{
	"россия": true, "россии": true, "москва": true, "москве": true,
	"петербург": true, "сша": true, "китай": true, "китае": true,
	"европа": true, "европе": true, "германия": true, "франция": true,
	"украина": true, "казахстан": true, "лондон": true, "лондоне": true,
	"russia": true, "moscow": true, "usa": true, "china": true,
	"europe": true, "germany": true, "france": true, "london": true,
	"ukraine": true, "kazakhstan": true, "washington": true,
}

// Recognize classifies capitalized token runs into ORG / PERSON / GPE.
// Tokens at sentence starts are skipped unless the run continues, which
// keeps ordinary sentence-initial words out of the entity sets.
func (r *HeuristicRecognizer) Recognize(text string, lang model.Language) (map[model.EntityType][]string, error) {
	entities := model.EmptyEntities()
	seen := map[string]bool{}

	for _, sentence := range SplitSentences(text) {
		words := strings.Fields(sentence.Text)
		for i := 0; i < len(words); i++ {
			if !isCapitalized(words[i]) {
				continue
			}
			// Collect the full run of capitalized words.
			j := i
			for j < len(words) && isCapitalized(words[j]) {
				j++
			}
			run := make([]string, j-i)
			for k := i; k < j; k++ {
				run[k-i] = strings.Trim(words[k], ",.;:!?»«\"'()")
			}
			atSentenceStart := i == 0

			candidate := strings.Join(run, " ")
			if candidate == "" || seen[strings.ToLower(candidate)] {
				i = j
				continue
			}

			etype, ok := classifyRun(run, atSentenceStart)
			if ok {
				seen[strings.ToLower(candidate)] = true
				entities[etype] = append(entities[etype], candidate)
			}
			i = j
		}
	}

	for _, t := range []model.EntityType{model.EntityOrg, model.EntityPerson, model.EntityGPE} {
		sort.Strings(entities[t])
	}
	return entities, nil
}

func classifyRun(run []string, atSentenceStart bool) (model.EntityType, bool) {
	lowerLast := strings.ToLower(run[len(run)-1])
	lowerFirst := strings.ToLower(run[0])

	for _, marker := range orgMarkers {
		if lowerLast == marker || lowerFirst == marker {
			return model.EntityOrg, true
		}
	}
	for _, w := range run {
		if gpeGazetteer[strings.ToLower(w)] {
			return model.EntityGPE, true
		}
	}
	// Two or more capitalized words mid-sentence read like a person name.
	if len(run) >= 2 && !atSentenceStart {
		return model.EntityPerson, true
	}
	if len(run) >= 2 && atSentenceStart && allCapitalized(run) {
		return model.EntityPerson, true
	}
	return "", false
}

func allCapitalized(run []string) bool {
	for _, w := range run {
		if !isCapitalized(w) {
			return false
		}
	}
	return true
}

func isCapitalized(word string) bool {
	word = strings.TrimLeft(word, "«\"'(")
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}
