package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mendel-gtm/gtm-api/internal/store"
)

// ResearchInput is everything an account research brief prompt is rendered from.
type ResearchInput struct {
	CompanyName        string
	Country            string
	Industry           string
	CompanySize        string
	CompanyDescription string
	RecentNews         string
	Technologies       string
	KeyContacts        any
	Language           Language
	ValueProps         store.ValueProps
	ICP                store.ICP
}

const researchOutline = `---

## FORMATO DEL BRIEF

Genera un research brief con las siguientes secciones:

### 1. Resumen Ejecutivo (2-3 oraciones)
Que hace la empresa y por que podria ser buen fit para %[1]s.

### 2. Fit con ICP (Alto/Medio/Bajo)
Evalua que tan bien encaja con nuestro perfil de cliente ideal.

### 3. Angulos de Entrada
Lista 2-3 angulos especificos para iniciar la conversacion basados en:
- Industria y sus dolores tipicos
- Tamano y complejidad probable
- Noticias o senales detectadas (si hay)

### 4. Personas a Contactar
Sugiere 2-3 roles a contactar en orden de prioridad, con razon.

### 5. Preguntas de Discovery Sugeridas
3-4 preguntas especificas para la primera llamada.

### 6. Riesgos / Banderas Rojas
Cualquier razon por la que podrian NO ser buen fit.`

func industryNames(in []store.ICPIndustry) string {
	names := make([]string, len(in))
	for i, ind := range in {
		names[i] = ind.Name
	}
	return strings.Join(names, ", ")
}

var researchSections = []section[ResearchInput]{
	{"intro", func(in ResearchInput) string {
		return fmt.Sprintf("Eres un analista de cuentas de %s.", companyIntro(in.ValueProps.Global))
	}},
	{"task", func(in ResearchInput) string {
		return fmt.Sprintf("## TU TAREA\nGenera un research brief de la cuenta %s para que el equipo de ventas tenga contexto antes de contactar.", in.CompanyName)
	}},
	{"company", func(in ResearchInput) string {
		var l lines
		l.add("## INFORMACION DE LA EMPRESA")
		l.add("- Nombre: %s", in.CompanyName)
		l.add("- Pais: %s", countryName(in.Country, in.ValueProps))
		l.add("- Industria: %s", orDefault(in.Industry, "No especificada"))
		if in.CompanySize != "" {
			l.add("- Tamano: %s empleados", in.CompanySize)
		}
		l.opt("- Descripcion", in.CompanyDescription)
		l.opt("- Noticias recientes", in.RecentNews)
		l.opt("- Tecnologias detectadas", in.Technologies)
		if in.KeyContacts != nil {
			if b, err := json.Marshal(in.KeyContacts); err == nil && string(b) != "null" {
				l.add("- Contactos clave: %s", b)
			}
		}
		return l.String()
	}},
	{"icp", func(in ResearchInput) string {
		icp := in.ICP
		var l lines
		l.add("## ICP DE %s", strings.ToUpper(companyName(in.ValueProps.Global)))
		l.opt("- Tamano ideal", icp.Firmographics.Size.SweetSpot+suffix(icp.Firmographics.Size.SweetSpot, " empleados"))
		l.opt("- Industrias Tier 1", industryNames(icp.Industries.Tier1))
		l.opt("- Industrias Tier 2", industryNames(icp.Industries.Tier2))
		l.opt("- Senales de calificacion", strings.Join(icp.QualifyingSignals.Include, ", "))
		return l.String()
	}},
	{"market", func(in ResearchInput) string {
		return marketBlock("## VALUE PROPS PARA", in.Country, in.ValueProps)
	}},
	{"references", func(in ResearchInput) string {
		refs := referenceClients(in.ValueProps)
		if len(refs) == 0 {
			return ""
		}
		return "## CLIENTES REFERENCIA\n" + strings.Join(refs, ", ")
	}},
	{"outline", func(in ResearchInput) string {
		return fmt.Sprintf(researchOutline, companyName(in.ValueProps.Global))
	}},
	{"language", func(in ResearchInput) string {
		return fmt.Sprintf("---\n\nGenera el brief en %s. Se conciso y accionable.", in.Language.Name())
	}},
}

// suffix returns sfx when s is not blank.
func suffix(s, sfx string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return sfx
}

// Research renders the account research brief prompt. The six-part outline
// is an instruction to the provider; the brief itself is generated there.
func Research(in ResearchInput) string {
	return render(in, researchSections)
}
