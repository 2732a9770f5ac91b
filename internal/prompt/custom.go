package prompt

import (
	"fmt"
	"strings"

	"github.com/mendel-gtm/gtm-api/internal/store"
)

// Output formats for free-form tasks.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// CustomInput is everything a free-form task prompt is rendered from.
type CustomInput struct {
	Prospect
	Task           string
	OutputFormat   string
	IncludeContext bool
	Language       Language
	// PersonaContext is nil when the request named no persona.
	PersonaContext *store.Persona
	ValueProps     store.ValueProps
}

var customSections = []section[CustomInput]{
	{"intro", func(in CustomInput) string {
		return fmt.Sprintf("Eres un experto en GTM (Go-To-Market) para %s.", companyIntro(in.ValueProps.Global))
	}},
	{"prospect", func(in CustomInput) string {
		if in.Prospect.empty() {
			return ""
		}
		p := in.Prospect
		var l lines
		l.add("## DATOS DEL PROSPECTO")
		l.opt("- Nombre", p.ContactName)
		l.opt("- Empresa", p.CompanyName)
		l.opt("- Cargo/Persona", p.Persona)
		if p.Country != "" {
			l.add("- Pais: %s", countryName(p.Country, in.ValueProps))
		}
		l.opt("- Industria", p.Industry)
		if p.CompanySize != "" {
			l.add("- Tamano: %s empleados", p.CompanySize)
		}
		l.opt("- Senales detectadas", strings.Join(p.Signals, ", "))
		l.opt("- Contexto adicional", p.AdditionalContext)
		if cf := customFields(p.CustomFields, "  "); cf != "" {
			l.add("- Datos extra:")
			l.add("%s", cf)
		}
		return l.String()
	}},
	{"company", func(in CustomInput) string {
		if !in.IncludeContext {
			return ""
		}
		var l lines
		l.add("## CONTEXTO DE %s", strings.ToUpper(companyName(in.ValueProps.Global)))
		if refs := referenceClients(in.ValueProps); len(refs) > 0 {
			l.add("")
			l.add("### Clientes referencia")
			l.add("%s", strings.Join(refs, ", "))
		}
		if g := in.ValueProps.Global; g != nil && len(g.CoreValueProps) > 0 {
			l.add("")
			l.add("### Value props principales")
			l.add("%s", bullets(g.CoreValueProps))
		}
		if in.Country != "" {
			if market := marketBlock("### VALUE PROPS PARA", in.Country, in.ValueProps); market != "" {
				l.add("")
				l.add("%s", market)
			}
		}
		if in.PersonaContext != nil && len(in.PersonaContext.Pains) > 0 {
			pains := in.PersonaContext.Pains
			if len(pains) > 3 {
				pains = pains[:3]
			}
			l.add("")
			l.add("### Dolor tipico de %s", orDefault(in.Persona, in.PersonaContext.Role))
			l.add("%s", bullets(pains))
		}
		return l.String()
	}},
	{"task", func(in CustomInput) string {
		var l lines
		l.add("---")
		l.add("")
		l.add("## TU TAREA")
		l.add("")
		l.add("%s", in.Task)
		switch in.OutputFormat {
		case FormatJSON:
			l.add("")
			l.add("IMPORTANTE: Responde ÚNICAMENTE con JSON válido, sin texto adicional antes o después.")
		case FormatMarkdown:
			l.add("")
			l.add("Formatea la respuesta en Markdown.")
		}
		return l.String()
	}},
	{"language", func(in CustomInput) string {
		return fmt.Sprintf("Responde en %s.", in.Language.Name())
	}},
}

// Custom renders a free-form task prompt.
func Custom(in CustomInput) string {
	return render(in, customSections)
}
