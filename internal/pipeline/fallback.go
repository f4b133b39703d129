package pipeline

import (
	"sort"
	"strings"

	"github.com/akulenkov/konspekt/internal/extract"
	"github.com/akulenkov/konspekt/internal/model"
	"github.com/akulenkov/konspekt/internal/quality"
)

// maxFactsBlockLines caps the deterministic facts block.
const maxFactsBlockLines = 10

// maxFallbackBullets caps bullet-format fallback output.
const maxFallbackBullets = 8

// BuildFallback constructs a summary without any generation call: the
// must-keep sentences, then leading sentences until 70% of the target
// length, then the labeled facts block. Used whenever generation is
// unavailable or exhausted.
func BuildFallback(text string, facts *model.FactSet, lang model.Language, format model.Format, targetChars int) string {
	sentences := extract.SplitSentences(text)
	mustKeep := extract.SelectMustKeep(facts, 1)

	keepOrder := make([]int, 0, len(mustKeep))
	for i := range mustKeep {
		keepOrder = append(keepOrder, i)
	}
	sort.Ints(keepOrder)

	var selected []string
	currentLen := 0
	for _, i := range keepOrder {
		if i < len(sentences) {
			selected = append(selected, sentences[i].Text)
			currentLen += len([]rune(sentences[i].Text))
		}
	}
	for _, s := range sentences {
		if _, kept := mustKeep[s.Index]; kept {
			continue
		}
		if currentLen >= targetChars*7/10 {
			break
		}
		selected = append(selected, s.Text)
		currentLen += len([]rune(s.Text))
	}

	var mainText string
	if format == model.FormatBullets {
		n := len(selected)
		if n > maxFallbackBullets {
			n = maxFallbackBullets
		}
		lines := make([]string, n)
		for i := 0; i < n; i++ {
			lines[i] = "• " + selected[i]
		}
		mainText = strings.Join(lines, "\n")
	} else {
		mainText = strings.Join(selected, ". ")
		if mainText != "" {
			mainText += "."
		}
	}

	block := FactsBlock(facts, lang)

	// The facts block carries the preservation guarantee; only the prose
	// part is trimmed to honor the length budget.
	budget := targetChars - len([]rune(block)) - 2
	if budget < targetChars*3/10 {
		budget = targetChars * 3 / 10
	}
	mainText = quality.TrimToLength(mainText, budget)

	if mainText == "" {
		return block
	}
	return mainText + "\n\n" + block
}

// FactsBlock renders the deterministic trailing facts block: money facts
// first, then other numbers, then dates, capped and labeled with the same
// heading Phase B uses.
func FactsBlock(facts *model.FactSet, lang model.Language) string {
	heading := model.FactsHeading(lang)

	var lines []string
	seen := make(map[string]bool)
	add := func(raw string) {
		if raw == "" || seen[raw] || len(lines) >= maxFactsBlockLines {
			return
		}
		seen[raw] = true
		lines = append(lines, "— "+raw)
	}

	for _, m := range facts.Money {
		add(m.Raw)
	}
	for _, s := range facts.SentencesWithNumbers {
		for _, n := range s.Numbers {
			if !n.IsCurrency() {
				add(n.Raw)
			}
		}
	}
	for _, d := range facts.Dates {
		add(d.Raw)
	}

	if len(lines) == 0 {
		if lang == model.LangEnglish {
			return heading + ": none found"
		}
		return heading + ": не обнаружены"
	}
	return heading + ":\n" + strings.Join(lines, "\n")
}
