package pipeline

import (
	"errors"
	"strings"
)

// ErrEmptyRequest marks a request whose three note fields are all empty after
// trimming. It is a client fault and is raised before the extractor is called.
var ErrEmptyRequest = errors.New("no text provided")

type Request struct {
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription"`
	Treatment    string `json:"treatment"`
	Tid          string `json:"tid"`
}

// CombinedText joins the non-empty note fields with a single space.
func (request Request) CombinedText() string {
	var parts []string
	for _, field := range []string{request.Diagnosis, request.Prescription, request.Treatment} {
		if field != "" {
			parts = append(parts, field)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
