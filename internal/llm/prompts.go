package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/akulenkov/konspekt/internal/model"
)

// Prompt builders for the two-phase pipeline. The system contracts forbid
// dropping numbers, dates, currencies and names; Phase A additionally
// forces a JSON-object response validated by the schema parser.

const phaseASystemRU = `Ты — педантичный редактор-саммаризатор. Твоя задача — структурировать фрагмент текста без потери фактов.

СТРОГИЕ ПРАВИЛА:
1. НЕЛЬЗЯ терять числа, даты, проценты, денежные суммы и имена.
2. Каждое число из текста должно попасть в key_facts в исходном виде (value_raw).
3. Отвечай ТОЛЬКО валидным JSON-объектом с полями:
   - bullets: список из минимум 3 тезисов
   - key_facts: список объектов {value_raw, value_norm, unit}
   - entities: объект {ORG: [...], PERSON: [...], GPE: [...]}
   - uncertainties: список неясных мест (может быть пустым)
4. Никакого текста вне JSON.`

const phaseASystemEN = `You are a meticulous summarization editor. Structure the given text fragment without losing facts.

STRICT RULES:
1. You MUST NOT drop numbers, dates, percentages, money amounts or names.
2. Every number from the text must appear in key_facts verbatim (value_raw).
3. Respond ONLY with a valid JSON object with fields:
   - bullets: a list of at least 3 key points
   - key_facts: a list of objects {value_raw, value_norm, unit}
   - entities: an object {ORG: [...], PERSON: [...], GPE: [...]}
   - uncertainties: a list of unclear points (may be empty)
4. No text outside the JSON.`

const phaseBSystemRU = `Создай финальное читабельное изложение из структурированных данных на русском языке в формате %s, примерно %d символов.
Включи ВСЕ факты из key_facts дословно. В конце обязательно добавь блок "%s:" с перечислением каждого факта.`

const phaseBSystemEN = `Render the structured data into a final readable summary in English, format %s, about %d characters.
Include EVERY key_facts entry verbatim. Always append a trailing block "%s:" enumerating each fact.`

const recoverySystemRU = `В тексте ниже потеряны важные числа и факты: %s.
Встрой их обратно в текст, не меняя остальное содержание. Верни только исправленный текст.`

const recoverySystemEN = `The text below is missing important numbers and facts: %s.
Weave them back into the text without otherwise changing it. Return only the corrected text.`

// BuildPhaseAPrompts returns the system contract and user message for one
// Phase A structuring call.
func BuildPhaseAPrompts(chunkText string, lang model.Language, format model.Format, targetChars int, mustKeep map[int]struct{}) (system, user string) {
	system = phaseASystemRU
	if lang == model.LangEnglish {
		system = phaseASystemEN
	}

	user = fmt.Sprintf("LANGUAGE=%s\nFORMAT=%s\nTARGET_CHARS=%d\nMUST_KEEP_SENTENCES=%s\nTEXT=<<<\n%s\n>>>",
		lang, format, targetChars, formatIndexes(mustKeep), chunkText)
	return system, user
}

// BuildPhaseBPrompts returns the prompts for the rendering call.
func BuildPhaseBPrompts(mergedJSON string, lang model.Language, format model.Format, targetChars int) (system, user string) {
	heading := model.FactsHeading(lang)
	if lang == model.LangEnglish {
		system = fmt.Sprintf(phaseBSystemEN, format, targetChars, heading)
	} else {
		system = fmt.Sprintf(phaseBSystemRU, format, targetChars, heading)
	}

	user = fmt.Sprintf("JSON_DATA=<<<\n%s\n>>>\nFORMAT=%s\nLANGUAGE=%s\nTARGET_CHARS=%d",
		mergedJSON, format, lang, targetChars)
	return system, user
}

// BuildRecoveryPrompts returns the prompts for the single corrective call
// that weaves missing facts back into a summary.
func BuildRecoveryPrompts(summary string, missing []string, lang model.Language) (system, user string) {
	joined := strings.Join(missing, ", ")
	if lang == model.LangEnglish {
		system = fmt.Sprintf(recoverySystemEN, joined)
	} else {
		system = fmt.Sprintf(recoverySystemRU, joined)
	}
	return system, summary
}

func formatIndexes(set map[int]struct{}) string {
	if len(set) == 0 {
		return "[]"
	}
	indexes := make([]int, 0, len(set))
	for i := range set {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	parts := make([]string, len(indexes))
	for i, n := range indexes {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
