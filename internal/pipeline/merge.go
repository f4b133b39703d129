package pipeline

import (
	"sort"
	"strings"

	"github.com/akulenkov/konspekt/internal/model"
)

// maxMergedBullets caps the combined bullet list; earliest chunks win.
const maxMergedBullets = 12

// Merge combines per-chunk intermediate summaries into one. The inputs
// must be in original chunk order: the bullet cap gives priority to
// earlier chunks regardless of which Phase A call finished first.
// Callers never pass an empty list; total Phase A failure short-circuits
// to the fallback path before merging.
func Merge(chunks []*model.IntermediateSummary) *model.IntermediateSummary {
	merged := &model.IntermediateSummary{
		Entities: model.EmptyEntities(),
	}

	seenFacts := make(map[string]bool)
	seenEntities := make(map[model.EntityType]map[string]bool)
	for _, t := range []model.EntityType{model.EntityOrg, model.EntityPerson, model.EntityGPE} {
		seenEntities[t] = make(map[string]bool)
	}

	for _, c := range chunks {
		merged.Bullets = append(merged.Bullets, c.Bullets...)

		// First occurrence wins on duplicate facts.
		for _, f := range c.KeyFacts {
			key := strings.ToLower(strings.TrimSpace(f.ValueRaw))
			if key == "" || seenFacts[key] {
				continue
			}
			seenFacts[key] = true
			merged.KeyFacts = append(merged.KeyFacts, f)
		}

		for t, list := range c.Entities {
			set, ok := seenEntities[t]
			if !ok {
				continue
			}
			for _, e := range list {
				if e == "" || set[e] {
					continue
				}
				set[e] = true
				merged.Entities[t] = append(merged.Entities[t], e)
			}
		}

		// Uncertainties are informational; no deduplication.
		merged.Uncertainties = append(merged.Uncertainties, c.Uncertainties...)
	}

	if len(merged.Bullets) > maxMergedBullets {
		merged.Bullets = merged.Bullets[:maxMergedBullets]
	}
	for t := range merged.Entities {
		sort.Strings(merged.Entities[t])
	}

	return merged
}
