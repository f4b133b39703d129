package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akulenkov/konspekt/internal/model"
)

// SchemaError describes why a Phase A response failed structural
// validation. A malformed structure is never partially used; the chunk is
// treated as a failed call.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("intermediate summary schema: %s", strings.Join(e.Violations, "; "))
}

// ParseIntermediate validates and decodes a raw Phase A response at the
// parse boundary. The loosely-typed JSON coming back from generation
// becomes a typed record here or not at all.
func ParseIntermediate(raw string) (*model.IntermediateSummary, error) {
	raw = stripCodeFence(raw)

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil, &SchemaError{Violations: []string{fmt.Sprintf("not a JSON object: %v", err)}}
	}

	var violations []string
	for _, field := range []string{"bullets", "key_facts", "entities"} {
		if _, ok := top[field]; !ok {
			violations = append(violations, "missing required field: "+field)
		}
	}
	if len(violations) > 0 {
		return nil, &SchemaError{Violations: violations}
	}

	out := &model.IntermediateSummary{
		Entities: model.EmptyEntities(),
	}

	if err := json.Unmarshal(top["bullets"], &out.Bullets); err != nil {
		violations = append(violations, "field bullets should be a list of strings")
	} else if len(out.Bullets) < 3 {
		violations = append(violations, fmt.Sprintf("field bullets should contain at least 3 items, got %d", len(out.Bullets)))
	}

	if err := json.Unmarshal(top["key_facts"], &out.KeyFacts); err != nil {
		violations = append(violations, "field key_facts should be a list of objects")
	} else {
		for i, f := range out.KeyFacts {
			if strings.TrimSpace(f.ValueRaw) == "" {
				violations = append(violations, fmt.Sprintf("key_facts[%d] missing value_raw", i))
			}
		}
	}

	var entities map[string][]string
	if err := json.Unmarshal(top["entities"], &entities); err != nil {
		violations = append(violations, "field entities should be a map of lists")
	} else {
		for _, t := range []model.EntityType{model.EntityOrg, model.EntityPerson, model.EntityGPE} {
			if list, ok := entities[string(t)]; ok {
				out.Entities[t] = list
			}
		}
	}

	if rawUnc, ok := top["uncertainties"]; ok {
		// Informational only; a malformed list is dropped, not fatal.
		_ = json.Unmarshal(rawUnc, &out.Uncertainties)
	}

	if len(violations) > 0 {
		return nil, &SchemaError{Violations: violations}
	}
	return out, nil
}

// stripCodeFence removes a surrounding markdown code fence that some
// models emit despite JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
