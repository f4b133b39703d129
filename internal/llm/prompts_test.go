package llm

import (
	"strings"
	"testing"

	"github.com/akulenkov/konspekt/internal/model"
)

func TestBuildPhaseAPrompts_Russian(t *testing.T) {
	mustKeep := map[int]struct{}{2: {}, 0: {}}
	system, user := BuildPhaseAPrompts("Выручка выросла на 38%.", model.LangRussian, model.FormatBullets, 500, mustKeep)

	if !strings.Contains(system, "JSON") {
		t.Error("system prompt must demand JSON output")
	}
	if !strings.Contains(system, "НЕЛЬЗЯ терять числа") {
		t.Error("system prompt must carry the fact-preservation contract")
	}
	for _, part := range []string{
		"LANGUAGE=ru",
		"FORMAT=bullets",
		"TARGET_CHARS=500",
		"MUST_KEEP_SENTENCES=[0,2]",
		"TEXT=<<<\nВыручка выросла на 38%.\n>>>",
	} {
		if !strings.Contains(user, part) {
			t.Errorf("user prompt missing %q:\n%s", part, user)
		}
	}
}

func TestBuildPhaseAPrompts_English(t *testing.T) {
	system, user := BuildPhaseAPrompts("Revenue grew 38%.", model.LangEnglish, model.FormatParagraph, 300, nil)

	if !strings.Contains(system, "MUST NOT drop numbers") {
		t.Error("English system prompt must carry the fact-preservation contract")
	}
	if !strings.Contains(user, "MUST_KEEP_SENTENCES=[]") {
		t.Errorf("empty must-keep set must render as []:\n%s", user)
	}
	if !strings.Contains(user, "LANGUAGE=en") {
		t.Errorf("user prompt missing language:\n%s", user)
	}
}

func TestBuildPhaseBPrompts(t *testing.T) {
	system, user := BuildPhaseBPrompts(`{"bullets":[]}`, model.LangRussian, model.FormatBullets, 1500)

	if !strings.Contains(system, model.FactsHeading(model.LangRussian)) {
		t.Error("system prompt must demand the trailing facts block")
	}
	if !strings.Contains(system, "1500") {
		t.Error("system prompt must carry the length target")
	}
	if !strings.Contains(user, "JSON_DATA=<<<\n{\"bullets\":[]}\n>>>") {
		t.Errorf("user prompt must embed the merged JSON:\n%s", user)
	}
}

func TestBuildPhaseBPrompts_EnglishHeading(t *testing.T) {
	system, _ := BuildPhaseBPrompts("{}", model.LangEnglish, model.FormatParagraph, 800)

	if !strings.Contains(system, model.FactsHeading(model.LangEnglish)) {
		t.Error("English rendering must demand the English facts heading")
	}
}

func TestBuildRecoveryPrompts(t *testing.T) {
	system, user := BuildRecoveryPrompts("краткое изложение", []string{"38%", "3 млрд"}, model.LangRussian)

	if !strings.Contains(system, "38%, 3 млрд") {
		t.Errorf("system prompt must list the missing facts:\n%s", system)
	}
	if user != "краткое изложение" {
		t.Errorf("user prompt must be the summary itself, got %q", user)
	}
}

func TestFormatIndexes_Sorted(t *testing.T) {
	got := formatIndexes(map[int]struct{}{5: {}, 1: {}, 3: {}})
	if got != "[1,3,5]" {
		t.Errorf("expected [1,3,5], got %s", got)
	}
}
