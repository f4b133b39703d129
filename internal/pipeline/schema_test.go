package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/akulenkov/konspekt/internal/model"
)

const validIntermediate = `{
	"bullets": ["Выручка выросла на 38%", "Сделка закрыта", "Прогноз сохранен"],
	"key_facts": [
		{"value_raw": "38%", "value_norm": 0.38, "unit": "%"},
		{"value_raw": "3 млрд рублей", "value_norm": 3000000000, "unit": "RUB"}
	],
	"entities": {"ORG": ["Банк ВТБ"], "PERSON": [], "GPE": ["Москва"]},
	"uncertainties": ["точная дата неизвестна"]
}`

func TestParseIntermediate_Valid(t *testing.T) {
	out, err := ParseIntermediate(validIntermediate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Bullets) != 3 {
		t.Errorf("expected 3 bullets, got %d", len(out.Bullets))
	}
	if len(out.KeyFacts) != 2 || out.KeyFacts[0].ValueRaw != "38%" {
		t.Errorf("unexpected key facts: %+v", out.KeyFacts)
	}
	if got := out.Entities[model.EntityOrg]; len(got) != 1 || got[0] != "Банк ВТБ" {
		t.Errorf("unexpected ORG entities: %v", got)
	}
	if len(out.Uncertainties) != 1 {
		t.Errorf("expected 1 uncertainty, got %v", out.Uncertainties)
	}
}

func TestParseIntermediate_CodeFence(t *testing.T) {
	fenced := "```json\n" + validIntermediate + "\n```"
	out, err := ParseIntermediate(fenced)
	if err != nil {
		t.Fatalf("unexpected error for fenced JSON: %v", err)
	}
	if len(out.Bullets) != 3 {
		t.Errorf("expected 3 bullets, got %d", len(out.Bullets))
	}
}

func TestParseIntermediate_NotJSON(t *testing.T) {
	_, err := ParseIntermediate("Вот краткое содержание текста...")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestParseIntermediate_MissingFields(t *testing.T) {
	_, err := ParseIntermediate(`{"bullets": ["a", "b", "c"]}`)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	joined := strings.Join(schemaErr.Violations, "; ")
	if !strings.Contains(joined, "key_facts") || !strings.Contains(joined, "entities") {
		t.Errorf("expected violations naming missing fields, got %v", schemaErr.Violations)
	}
}

func TestParseIntermediate_TooFewBullets(t *testing.T) {
	raw := `{
		"bullets": ["один", "два"],
		"key_facts": [],
		"entities": {}
	}`
	_, err := ParseIntermediate(raw)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if !strings.Contains(schemaErr.Error(), "at least 3") {
		t.Errorf("expected bullet count violation, got %v", schemaErr)
	}
}

func TestParseIntermediate_EmptyValueRaw(t *testing.T) {
	raw := `{
		"bullets": ["один", "два", "три"],
		"key_facts": [{"value_raw": "  "}],
		"entities": {}
	}`
	_, err := ParseIntermediate(raw)
	if err == nil {
		t.Fatal("expected error for empty value_raw")
	}
}

func TestParseIntermediate_MalformedUncertaintiesTolerated(t *testing.T) {
	raw := `{
		"bullets": ["один", "два", "три"],
		"key_facts": [],
		"entities": {},
		"uncertainties": 42
	}`
	out, err := ParseIntermediate(raw)
	if err != nil {
		t.Fatalf("malformed uncertainties must not be fatal: %v", err)
	}
	if len(out.Uncertainties) != 0 {
		t.Errorf("expected dropped uncertainties, got %v", out.Uncertainties)
	}
}

func TestParseIntermediate_UnknownEntityTypesIgnored(t *testing.T) {
	raw := `{
		"bullets": ["один", "два", "три"],
		"key_facts": [],
		"entities": {"ORG": ["ООО Ромашка"], "PRODUCT": ["Виджет"]}
	}`
	out, err := ParseIntermediate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Entities[model.EntityOrg]) != 1 {
		t.Errorf("expected ORG kept, got %v", out.Entities)
	}
	if len(out.Entities) != 3 {
		t.Errorf("expected exactly the three known entity types, got %v", out.Entities)
	}
}

func TestParseIntermediate_NonNumericValueNormTolerated(t *testing.T) {
	raw := `{
		"bullets": ["один", "два", "три"],
		"key_facts": [
			{"value_raw": "10-15%", "value_norm": "10-15", "unit": "%"},
			{"value_raw": "3 млрд", "value_norm": 3000000000}
		],
		"entities": {}
	}`
	out, err := ParseIntermediate(raw)
	if err != nil {
		t.Fatalf("string value_norm must not fail the chunk: %v", err)
	}
	if len(out.KeyFacts) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(out.KeyFacts))
	}
	if out.KeyFacts[0].ValueRaw != "10-15%" {
		t.Errorf("value_raw lost: %+v", out.KeyFacts[0])
	}
	if string(out.KeyFacts[0].ValueNorm) != `"10-15"` {
		t.Errorf("value_norm must pass through verbatim, got %s", out.KeyFacts[0].ValueNorm)
	}
}
