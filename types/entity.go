package types

// ExtractedEntity is one labeled span returned by the NER collaborator.
type ExtractedEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// ResolvedEntity is an extracted entity after the dictionary lookup.
// Code and Description stay nil when the mention is not in the dictionary;
// a miss is a regular outcome, not an error.
type ResolvedEntity struct {
	Text        string  `json:"text"`
	Label       string  `json:"label"`
	Code        *string `json:"icd_code"`
	Description *string `json:"icd_description"`
	Confidence  float64 `json:"confidence"`
}

// Matched reports whether the lookup produced a code.
func (ent ResolvedEntity) Matched() bool {
	return ent.Code != nil && *ent.Code != ""
}
