package linkminer

import (
	"encoding/json"
	"strings"
)

// FormatText formats the discovered links one per line.
// Returns an empty string when no links were discovered.
func FormatText(r *Result) string {
	if len(r.Links) == 0 {
		return ""
	}
	return strings.Join(r.Links, "\n") + "\n"
}

type jsonFailure struct {
	URL     string `json:"url"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type jsonResult struct {
	*Result
	Duration string        `json:"duration"`
	Complete bool          `json:"complete"`
	Failures []jsonFailure `json:"failures"`
}

// FormatJSON formats the result as an indented JSON document,
// including fetch failures so partial crawls can be told apart.
func FormatJSON(r *Result) (string, error) {
	out := jsonResult{
		Result:   r,
		Duration: r.Duration.String(),
		Complete: r.Complete(),
		Failures: make([]jsonFailure, 0, len(r.Failures)),
	}
	if out.Links == nil {
		cp := *r
		cp.Links = []string{}
		out.Result = &cp
	}
	for _, f := range r.Failures {
		out.Failures = append(out.Failures, jsonFailure{
			URL:     f.URL,
			Code:    ErrorCode(f),
			Message: f.Error(),
		})
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", Errorf(EINTERNAL, "encoding result: %v", err)
	}
	return string(b) + "\n", nil
}
