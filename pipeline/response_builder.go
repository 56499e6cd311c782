package pipeline

import (
	"github.com/brandon99-hub/Medibridge2/types"
)

// NewAnalyzeResult assembles the two-tier response from the resolved entities
// of one request. The entity list keeps one item per extracted span in
// extraction order, misses included. The code list is deduplicated by code;
// the first span that produced a code wins and lends it its original text.
func NewAnalyzeResult(resolved []types.ResolvedEntity) types.AnalyzeResult {
	result := types.AnalyzeResult{
		Entities: make([]types.ResolvedEntity, 0, len(resolved)),
		Codes:    make([]types.CodeResult, 0),
	}

	seen := make(map[string]bool)
	for _, entity := range resolved {
		result.Entities = append(result.Entities, entity)
		if !entity.Matched() || seen[*entity.Code] {
			continue
		}
		seen[*entity.Code] = true
		result.Codes = append(result.Codes, types.CodeResult{
			Entity:      entity.Text,
			Code:        *entity.Code,
			Description: entity.Description,
			Confidence:  entity.Confidence,
		})
	}
	return result
}
