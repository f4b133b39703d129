// Test program to demonstrate fact extraction on mixed RU/EN text.
// Shows which numbers, dates and entities the pipeline treats as
// must-keep before any summarization happens.
package main

import (
	"fmt"
	"strings"

	"github.com/akulenkov/konspekt/internal/extract"
	"github.com/akulenkov/konspekt/internal/model"
)

func main() {
	samples := []struct {
		lang model.Language
		text string
	}{
		{
			lang: model.LangRussian,
			text: `Выручка ООО "Ромашка" выросла на 38% и достигла 3 млрд рублей.
Сделку с Газпромом на $150 млн закроют 15 сентября 2025 года.
Ставка снижена на 25 б.п., диапазон прогноза 5-7%.`,
		},
		{
			lang: model.LangEnglish,
			text: `Acme Inc reported revenue of $2.4 billion, up 12% year over year.
The Berlin office opens on March 3, 2026 with 150 employees.`,
		},
	}

	extractor := extract.NewFactExtractor(extract.NewHeuristicRecognizer())

	for _, sample := range samples {
		fmt.Printf("Language: %s\n", sample.lang)
		fmt.Println(strings.Repeat("-", 60))

		facts := extractor.Extract(sample.text, sample.lang)

		fmt.Printf("Numbers (%d):\n", len(facts.Numbers))
		for _, n := range facts.Numbers {
			fmt.Printf("  %-12s %q (value %.4g)\n", n.Kind, n.Raw, n.Value)
		}

		fmt.Printf("Dates (%d):\n", len(facts.Dates))
		for _, d := range facts.Dates {
			fmt.Printf("  %q -> %s\n", d.Raw, d.Normalized)
		}

		for entityType, names := range facts.Entities {
			if len(names) > 0 {
				fmt.Printf("%s: %s\n", entityType, strings.Join(names, ", "))
			}
		}

		mustKeep := extract.SelectMustKeep(facts, 1)
		fmt.Printf("Must-keep sentences: %d of %d\n\n", len(mustKeep), len(facts.SentencesWithNumbers))
	}
}
