package prompt

import (
	"fmt"
	"strings"

	"github.com/mendel-gtm/gtm-api/internal/store"
)

const snippetContextLimit = 3

// BareOutputInstruction closes every snippet prompt.
const BareOutputInstruction = "Devuelve SOLO el snippet en texto plano: sin comillas, sin saludo, sin firma y sin explicaciones."

// SnippetInput is everything a snippet prompt is rendered from.
type SnippetInput struct {
	Prospect
	Type     string
	Task     string
	Language Language
	// Context lookups are nil when the request did not ask for them.
	PersonaContext  *store.Persona
	IndustrySnippet *store.IndustrySnippet
	ValueProps      store.ValueProps
	CaseStudies     []store.CaseStudy
	SignalData      []store.Signal
}

// relevantSignals picks up to limit signal records, those matching a
// supplied signal first.
func relevantSignals(data []store.Signal, supplied []string, limit int) []store.Signal {
	matches := func(s store.Signal) bool {
		for _, want := range supplied {
			if containsEither(s.Name, want) || containsEither(s.Category, want) {
				return true
			}
		}
		return false
	}
	out := make([]store.Signal, 0, limit)
	for _, pass := range []bool{true, false} {
		for _, s := range data {
			if len(out) == limit {
				return out
			}
			if matches(s) == pass {
				out = append(out, s)
			}
		}
	}
	return out
}

func containsEither(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

var snippetSections = []section[SnippetInput]{
	{"intro", func(in SnippetInput) string {
		return fmt.Sprintf("Eres un copywriter de outbound de %s. Escribe un snippet corto para insertar dentro de un cold email.",
			companyIntro(in.ValueProps.Global))
	}},
	{"archetype", func(in SnippetInput) string {
		return "## TIPO DE SNIPPET: " + LookupArchetype(in.Type).Label
	}},
	{"prospect", func(in SnippetInput) string {
		if in.Prospect.empty() {
			return ""
		}
		country := ""
		if in.Country != "" {
			country = countryName(in.Country, in.ValueProps)
		}
		return "## CONTEXTO DEL PROSPECTO\n" + prospectLines(in.Prospect, country)
	}},
	{"persona", func(in SnippetInput) string {
		if in.PersonaContext == nil || len(in.PersonaContext.Pains) == 0 {
			return ""
		}
		return fmt.Sprintf("## DOLORES DE LA PERSONA (%s)\n%s",
			orDefault(in.Persona, in.PersonaContext.Role), bullets(in.PersonaContext.Pains))
	}},
	{"industry", func(in SnippetInput) string {
		if in.IndustrySnippet == nil || len(in.IndustrySnippet.Pains) == 0 {
			return ""
		}
		return fmt.Sprintf("## DOLORES DE LA INDUSTRIA (%s)\n%s",
			orDefault(in.Industry, "General"), bullets(in.IndustrySnippet.Pains))
	}},
	{"cases", func(in SnippetInput) string {
		if len(in.CaseStudies) == 0 {
			return ""
		}
		var l lines
		l.add("## CASOS DE EXITO")
		for i, c := range in.CaseStudies {
			if i == snippetContextLimit {
				break
			}
			line := fmt.Sprintf("- %s (%s, %s)", c.ClientName, c.Industry, c.Country)
			if len(c.Results) > 0 {
				line += ": " + strings.Join(c.Results, "; ")
			}
			l.add("%s", line)
		}
		return l.String()
	}},
	{"signals", func(in SnippetInput) string {
		picked := relevantSignals(in.SignalData, in.Signals, snippetContextLimit)
		if len(picked) == 0 {
			return ""
		}
		var l lines
		l.add("## SENALES Y DOLOR ASOCIADO")
		for _, s := range picked {
			l.add("- %s: %s", s.Name, orDefault(s.PainMapping, s.Description))
		}
		return l.String()
	}},
	{"task", func(in SnippetInput) string {
		task := strings.TrimSpace(in.Task)
		if task == "" {
			task = LookupArchetype(in.Type).Instruction
		}
		return "## TAREA\n" + task
	}},
	{"limits", func(in SnippetInput) string {
		var l lines
		l.add("## RESTRICCIONES")
		l.add("- Maximo %d palabras.", SnippetWordLimit)
		l.add("- Escribe en %s.", in.Language.Name())
		l.add("")
		l.add("%s", BareOutputInstruction)
		return l.String()
	}},
}

// Snippet renders a short snippet prompt. The word ceiling is an
// instruction only; callers report the generated word count.
func Snippet(in SnippetInput) string {
	return render(in, snippetSections)
}
