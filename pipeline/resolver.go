package pipeline

import (
	"github.com/brandon99-hub/Medibridge2/taxonomy"
	"github.com/brandon99-hub/Medibridge2/types"
)

// Resolve looks one extracted entity up in the dictionary. The mention goes
// through the same normalization the table keys were built with. A miss keeps
// nil code and description at confidence 0; a hit carries confidence 1.
// Confidence is a binary hit indicator here, not a probability.
func Resolve(entity types.ExtractedEntity, table taxonomy.Table) types.ResolvedEntity {
	entry, ok := table.Lookup(entity.Text)
	if !ok {
		return types.ResolvedEntity{
			Text:       entity.Text,
			Label:      entity.Label,
			Confidence: 0.0,
		}
	}
	code := entry.Code
	description := entry.Description
	return types.ResolvedEntity{
		Text:        entity.Text,
		Label:       entity.Label,
		Code:        &code,
		Description: &description,
		Confidence:  1.0,
	}
}
