package prompt

import (
	"fmt"
	"strings"

	"github.com/mendel-gtm/gtm-api/internal/store"
)

// EmailInput is everything a cold email prompt is rendered from.
type EmailInput struct {
	Prospect
	Language        Language
	PersonaContext  store.Persona
	ValueProps      store.ValueProps
	Framework       store.EmailFramework
	IndustrySnippet store.IndustrySnippet
}

var emailSections = []section[EmailInput]{
	{"intro", func(in EmailInput) string {
		return fmt.Sprintf("Eres un SDR senior de %s.", companyIntro(in.ValueProps.Global))
	}},
	{"rules", func(in EmailInput) string {
		if len(in.Framework.Principles) == 0 {
			return ""
		}
		var l lines
		l.add("## REGLAS DE EMAIL (OBLIGATORIAS)")
		for _, p := range in.Framework.Principles {
			l.add("- %s: %s", p.Name, p.Rule)
		}
		return l.String()
	}},
	{"structure", func(in EmailInput) string {
		s := in.Framework.Structure
		if s.MaxWords == 0 && s.OneIdea == "" && s.CTA == "" {
			return ""
		}
		var l lines
		l.add("### Estructura")
		if s.MaxWords > 0 {
			l.add("- Maximo %d palabras en el cuerpo", s.MaxWords)
		}
		if s.OneIdea != "" {
			l.add("- %s", s.OneIdea)
		}
		l.opt("- CTA", s.CTA)
		return l.String()
	}},
	{"never", func(in EmailInput) string {
		if len(in.Framework.DontDo) == 0 {
			return ""
		}
		return "### NUNCA hagas esto\n" + bullets(in.Framework.DontDo)
	}},
	{"prospect", func(in EmailInput) string {
		p := in.Prospect
		p.Industry = orDefault(p.Industry, "No especificada")
		return "## CONTEXTO DEL PROSPECTO\n" + prospectLines(p, countryName(in.Country, in.ValueProps))
	}},
	{"pains", func(in EmailInput) string {
		if len(in.PersonaContext.Pains) == 0 {
			return ""
		}
		return fmt.Sprintf("## DOLOR DE ESTA PERSONA (%s)\n%s", in.Persona, bullets(in.PersonaContext.Pains))
	}},
	{"cares", func(in EmailInput) string {
		if len(in.PersonaContext.CaresAbout) == 0 {
			return ""
		}
		return "## LO QUE LE IMPORTA\n" + bullets(in.PersonaContext.CaresAbout)
	}},
	{"questions", func(in EmailInput) string {
		if len(in.PersonaContext.Questions) == 0 {
			return ""
		}
		quoted := make([]string, len(in.PersonaContext.Questions))
		for i, q := range in.PersonaContext.Questions {
			quoted[i] = `"` + q + `"`
		}
		return "## PREGUNTAS QUE FUNCIONAN CON ESTA PERSONA\n" + bullets(quoted)
	}},
	{"market", func(in EmailInput) string {
		return marketBlock("## VALUE PROPS PARA", in.Country, in.ValueProps)
	}},
	{"industry", func(in EmailInput) string {
		if len(in.IndustrySnippet.Pains) == 0 && in.IndustrySnippet.Reference == "" {
			return ""
		}
		var l lines
		l.add("## SNIPPETS DE INDUSTRIA (%s)", orDefault(in.Industry, "General"))
		l.opt("- Dolores tipicos", strings.Join(in.IndustrySnippet.Pains, ", "))
		l.opt("- Clientes referencia", in.IndustrySnippet.Reference)
		return l.String()
	}},
	{"references", func(in EmailInput) string {
		refs := referenceClients(in.ValueProps)
		if len(refs) == 0 {
			return ""
		}
		return "## CLIENTES REFERENCIA GLOBAL\n" + strings.Join(refs, ", ")
	}},
	{"closing", func(in EmailInput) string {
		company := companyName(in.ValueProps.Global)
		switch len(in.Signals) {
		case 0:
			return "---\n\nTIPO DE EMAIL: Pregunta abierta\n" +
				"Escribe un email que haga una pregunta relevante al dolor de esta persona, sin asumir que tienen el problema."
		case 1:
			return fmt.Sprintf("---\n\nTIPO DE EMAIL: Con senal/trigger\n"+
				"Escribe un email que conecte la senal \"%s\" con el valor que %s puede aportar. Usa la senal mas relevante como gancho.",
				in.Signals[0], company)
		default:
			return fmt.Sprintf("---\n\nTIPO DE EMAIL: Con senal/trigger\n"+
				"Escribe un email que conecte las senales detectadas (%s) con el valor que %s puede aportar. Usa la senal mas relevante como gancho.",
				strings.Join(in.Signals, ", "), company)
		}
	}},
	{"language", func(in EmailInput) string {
		return fmt.Sprintf("Genera el cold email en %s. Solo devuelve el email, sin explicaciones adicionales.", in.Language.Name())
	}},
}

// Email renders the cold email prompt.
func Email(in EmailInput) string {
	return render(in, emailSections)
}
