package types

// CodeResult is one distinct matched code within a request. Entity carries
// the original text of the first span that produced the code.
type CodeResult struct {
	Entity      string  `json:"entity"`
	Code        string  `json:"icd_code"`
	Description *string `json:"icd_description"`
	Confidence  float64 `json:"confidence"`
}

type AnalyzeResult struct {
	Entities []ResolvedEntity `json:"entities"`
	Codes    []CodeResult     `json:"icd_codes"`
}
