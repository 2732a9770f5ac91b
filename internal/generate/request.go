package generate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/mendel-gtm/gtm-api/internal/prompt"
)

// Strings accepts either a single JSON string or a list of scalars.
type Strings []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Strings) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var one string
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*s = Strings{one}
		return nil
	}
	var many []any
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("expected a string or a list: %w", err)
	}
	out := make(Strings, 0, len(many))
	for _, v := range many {
		if v != nil {
			out = append(out, fmt.Sprint(v))
		}
	}
	*s = out
	return nil
}

// Join renders the list as one comma-separated value.
func (s Strings) Join() string {
	return strings.Join(s.clean(), ", ")
}

// clean drops blank entries and trims the rest.
func (s Strings) clean() []string {
	out := make([]string, 0, len(s))
	for _, v := range s {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Text accepts a JSON string or number. Company sizes arrive both ways.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected a string or a number: %w", err)
		}
		*t = Text(n.String())
	}
	return nil
}

func (t Text) String() string { return strings.TrimSpace(string(t)) }

// Prospect holds the prospect fields shared by email, free-form and snippet
// requests. CustomFields is the only passthrough for caller-defined data;
// undeclared top-level keys are ignored.
type Prospect struct {
	Client            string         `json:"client"`
	Persona           string         `json:"persona"`
	Country           string         `json:"country"`
	Industry          string         `json:"industry"`
	CompanyName       string         `json:"company_name"`
	ContactName       string         `json:"contact_name"`
	CompanySize       Text           `json:"company_size"`
	Signal            string         `json:"signal"`
	Signals           Strings        `json:"signals"`
	AdditionalContext string         `json:"additional_context"`
	CustomFields      map[string]any `json:"custom_fields"`
	Language          string         `json:"language"`
	DryRun            bool           `json:"dry_run"`
}

// AllSignals merges signal and signals, dropping blanks.
func (p Prospect) AllSignals() []string {
	return append(Strings{p.Signal}, p.Signals...).clean()
}

// AllCustomFields returns a copy of custom_fields, or nil when it is empty.
func (p Prospect) AllCustomFields() map[string]any {
	if len(p.CustomFields) == 0 {
		return nil
	}
	return maps.Clone(p.CustomFields)
}

func (p Prospect) prompt() prompt.Prospect {
	return prompt.Prospect{
		ContactName:       strings.TrimSpace(p.ContactName),
		CompanyName:       strings.TrimSpace(p.CompanyName),
		Persona:           strings.TrimSpace(p.Persona),
		Country:           strings.TrimSpace(p.Country),
		Industry:          strings.TrimSpace(p.Industry),
		CompanySize:       p.CompanySize.String(),
		Signals:           p.AllSignals(),
		AdditionalContext: strings.TrimSpace(p.AdditionalContext),
		CustomFields:      p.AllCustomFields(),
	}
}

// EmailRequest asks for a cold email.
type EmailRequest struct {
	Prospect
}

// ResearchRequest asks for an account research brief.
type ResearchRequest struct {
	Client             string  `json:"client"`
	CompanyName        string  `json:"company_name"`
	Country            string  `json:"country"`
	Industry           string  `json:"industry"`
	CompanySize        Text    `json:"company_size"`
	CompanyDescription string  `json:"company_description"`
	RecentNews         string  `json:"recent_news"`
	Technologies       Strings `json:"technologies"`
	KeyContacts        any     `json:"key_contacts"`
	Language           string  `json:"language"`
	DryRun             bool    `json:"dry_run"`
}

// ScoreRequest asks for a lead score.
type ScoreRequest struct {
	Client             string  `json:"client"`
	CompanyName        string  `json:"company_name"`
	Country            string  `json:"country"`
	Industry           string  `json:"industry"`
	CompanySize        Text    `json:"company_size"`
	CompanyDescription string  `json:"company_description"`
	Persona            string  `json:"persona"`
	Seniority          string  `json:"seniority"`
	Technologies       Strings `json:"technologies"`
	Signals            Strings `json:"signals"`
	Language           string  `json:"language"`
	DryRun             bool    `json:"dry_run"`
}

// GenerateRequest asks for free-form output driven by Task.
type GenerateRequest struct {
	Prospect
	Task         string `json:"task"`
	OutputFormat string `json:"output_format"`
	MaxTokens    int    `json:"max_tokens"`
	// IncludeContext defaults to true when omitted.
	IncludeContext *bool `json:"include_context"`
}

// SnippetRequest asks for a short snippet to insert in an email.
type SnippetRequest struct {
	Prospect
	SnippetType string `json:"snippet_type"`
	Task        string `json:"task"`
}
