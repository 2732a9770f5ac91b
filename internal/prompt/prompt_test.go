package prompt_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mendel-gtm/gtm-api/internal/fallback"
	"github.com/mendel-gtm/gtm-api/internal/gtmctx"
	"github.com/mendel-gtm/gtm-api/internal/prompt"
	"github.com/mendel-gtm/gtm-api/internal/store"
)

type bundle struct {
	src  *gtmctx.StaticSource
	data *fallback.Dataset
}

func newBundle(t *testing.T) bundle {
	t.Helper()
	data, err := fallback.Load()
	require.NoError(t, err)
	return bundle{src: gtmctx.NewStaticSource(data, "MX", "MX"), data: data}
}

func (b bundle) valueProps(t *testing.T, country string) store.ValueProps {
	t.Helper()
	vp, err := b.src.ValueProps(context.Background(), "", country)
	require.NoError(t, err)
	return vp
}

func (b bundle) persona(t *testing.T, name string) store.Persona {
	t.Helper()
	p, err := b.src.Persona(context.Background(), "", name)
	require.NoError(t, err)
	return p
}

func (b bundle) email(t *testing.T, p prompt.Prospect) string {
	t.Helper()
	snippet, err := b.src.IndustrySnippet(context.Background(), "", p.Industry)
	require.NoError(t, err)
	return prompt.Email(prompt.EmailInput{
		Prospect:        p,
		Language:        prompt.Spanish,
		PersonaContext:  b.persona(t, p.Persona),
		ValueProps:      b.valueProps(t, p.Country),
		Framework:       b.data.EmailFramework,
		IndustrySnippet: snippet,
	})
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	return s[strings.LastIndex(s, "\n")+1:]
}

func TestEmail_ArgentinaForbidsTaxClaims(t *testing.T) {
	b := newBundle(t)
	out := b.email(t, prompt.Prospect{
		ContactName: "Juan",
		CompanyName: "Acme",
		Persona:     "CFO",
		Country:     "AR",
		Industry:    "retail",
	})

	assert.Contains(t, out, "## VALUE PROPS PARA ARGENTINA")
	assert.Contains(t, out, "IMPORTANTE: En Argentina NO existe recupero automatico de facturas tipo SAT.")
	assert.NotContains(t, out, "SÍ puedes mencionar")
	assert.NotContains(t, out, "Recupero automatico de facturas SAT")
	assert.NotContains(t, out, "FUNCIONALIDAD CLAVE")
	assert.Contains(t, out, "Control de gastos en contexto inflacionario")
}

func TestEmail_MexicoAllowsTaxClaims(t *testing.T) {
	b := newBundle(t)
	out := b.email(t, prompt.Prospect{CompanyName: "Acme", Persona: "CFO", Country: "MX"})

	assert.Contains(t, out, "### Mexico - FUNCIONALIDAD CLAVE")
	assert.Contains(t, out, "Recupero automatico de facturas SAT")
	assert.Contains(t, out, "IMPORTANTE: En Mexico SÍ puedes mencionar recupero de facturas SAT y deducibilidad.")
	assert.NotContains(t, out, "NO existe recupero")
}

func TestEmail_UnknownCountryServesDefaultMarketWithoutTaxClaims(t *testing.T) {
	b := newBundle(t)
	out := b.email(t, prompt.Prospect{CompanyName: "Acme", Persona: "CFO", Country: "BR"})

	assert.Contains(t, out, "- Pais: BR")
	assert.Contains(t, out, "IMPORTANTE: En BR NO existe recupero automatico")
	assert.NotContains(t, out, "Validacion CFDI automatica")
	assert.NotContains(t, out, "no deducibles")
}

func TestEmail_Sections(t *testing.T) {
	b := newBundle(t)
	out := b.email(t, prompt.Prospect{
		ContactName: "Ana",
		CompanyName: "Acme",
		Persona:     "Director Financiero",
		Country:     "MX",
		Industry:    "retail",
	})

	assert.True(t, strings.HasPrefix(out, "Eres un SDR senior de Mendel, una plataforma de gestion de gastos corporativos"))
	for _, want := range []string{
		"## REGLAS DE EMAIL (OBLIGATORIAS)",
		"- tone: Conversacional + Directo",
		"- Maximo 100 palabras en el cuerpo",
		"### NUNCA hagas esto",
		"## CONTEXTO DEL PROSPECTO",
		"- Nombre: Ana",
		"## DOLOR DE ESTA PERSONA (Director Financiero)",
		"## LO QUE LE IMPORTA",
		"## PREGUNTAS QUE FUNCIONAN CON ESTA PERSONA",
		"## SNIPPETS DE INDUSTRIA (retail)",
		"- Clientes referencia: Mercado Libre, FEMSA",
		"## CLIENTES REFERENCIA GLOBAL",
		"TIPO DE EMAIL: Pregunta abierta",
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, "Genera el cold email en espanol. Solo devuelve el email, sin explicaciones adicionales.", lastLine(out))
}

func TestEmail_Signals(t *testing.T) {
	b := newBundle(t)

	one := b.email(t, prompt.Prospect{CompanyName: "Acme", Persona: "CFO", Signals: []string{"Nuevo CFO"}})
	assert.Contains(t, one, "- Senal/Trigger: Nuevo CFO")
	assert.Contains(t, one, "TIPO DE EMAIL: Con senal/trigger")
	assert.Contains(t, one, `conecte la senal "Nuevo CFO"`)

	many := b.email(t, prompt.Prospect{CompanyName: "Acme", Persona: "CFO", Signals: []string{"Ronda", "Expansion"}})
	assert.Contains(t, many, "- Senales detectadas:\n  - Ronda\n  - Expansion")
	assert.Contains(t, many, "(Ronda, Expansion)")
}

func TestEmail_MissingIndustryAndCustomFields(t *testing.T) {
	b := newBundle(t)
	out := b.email(t, prompt.Prospect{
		CompanyName:  "Acme",
		Persona:      "CFO",
		CustomFields: map[string]any{"erp": "SAP", "blank": "", "headcount": 1200},
	})

	assert.Contains(t, out, "- Industria: No especificada")
	assert.Contains(t, out, "- Datos adicionales:\n  - erp: SAP\n  - headcount: 1200")
	assert.NotContains(t, out, "blank")
}

func TestEmail_Language(t *testing.T) {
	b := newBundle(t)
	in := prompt.EmailInput{
		Prospect:   prompt.Prospect{CompanyName: "Acme"},
		Language:   prompt.English,
		ValueProps: b.valueProps(t, "CL"),
	}
	out := prompt.Email(in)
	assert.Contains(t, out, "Genera el cold email en ingles.")
	assert.Contains(t, out, "## CONTEXTO DEL PROSPECTO")
}

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		code, def string
		want      prompt.Language
	}{
		{"en", "es", prompt.English},
		{" PT ", "es", prompt.Portuguese},
		{"fr", "en", prompt.English},
		{"", "", prompt.Spanish},
		{"fr", "de", prompt.Spanish},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, prompt.ResolveLanguage(tt.code, tt.def), "code=%q def=%q", tt.code, tt.def)
	}
	assert.Equal(t, "espanol", prompt.Language("xx").Name())
}

func TestResearch_Outline(t *testing.T) {
	b := newBundle(t)
	out := prompt.Research(prompt.ResearchInput{
		CompanyName: "Acme",
		Country:     "CO",
		Industry:    "logistica",
		CompanySize: "1200",
		KeyContacts: []map[string]string{{"name": "Ana", "title": "CFO"}},
		Language:    prompt.Spanish,
		ValueProps:  b.valueProps(t, "CO"),
		ICP:         b.data.ICP,
	})

	for _, heading := range []string{
		"### 1. Resumen Ejecutivo",
		"### 2. Fit con ICP",
		"### 3. Angulos de Entrada",
		"### 4. Personas a Contactar",
		"### 5. Preguntas de Discovery Sugeridas",
		"### 6. Riesgos / Banderas Rojas",
	} {
		assert.Contains(t, out, heading)
	}
	assert.Contains(t, out, "por que podria ser buen fit para Mendel.")
	assert.Contains(t, out, "- Pais: Colombia")
	assert.Contains(t, out, "- Tamano: 1200 empleados")
	assert.Contains(t, out, `- Contactos clave: [{"name":"Ana","title":"CFO"}]`)
	assert.Contains(t, out, "## ICP DE MENDEL")
	assert.Contains(t, out, "IMPORTANTE: En Colombia NO existe recupero")
	assert.Equal(t, "Genera el brief en espanol. Se conciso y accionable.", lastLine(out))
}

func TestScoring_EndsWithJSONOnlyInstruction(t *testing.T) {
	b := newBundle(t)
	for _, lang := range []prompt.Language{prompt.Spanish, prompt.English, prompt.Portuguese} {
		out := prompt.Scoring(prompt.ScoringInput{
			CompanyName: "Acme",
			Country:     "mx",
			CompanySize: "800",
			Signals:     []string{"Ronda de inversion"},
			Language:    lang,
			Company:     &b.data.Global,
			ICP:         b.data.ICP,
		})
		assert.Equal(t, prompt.JSONOnlyInstruction, lastLine(out), "language %s", lang)
		assert.Contains(t, out, `"tier": "<A|B|C|D>"`)
		assert.Contains(t, out, "- A (80-100)")
		assert.Contains(t, out, "- Pais: MX")
		assert.Contains(t, out, `- Senales detectadas: ["Ronda de inversion"]`)
		assert.Contains(t, out, "## CRITERIOS DE SCORING DE MENDEL")
	}
	en := prompt.Scoring(prompt.ScoringInput{CompanyName: "Acme", Language: prompt.English})
	assert.Contains(t, en, "Redacta los textos del JSON en ingles.")
	assert.Contains(t, en, "- Industria: No especificada")
}

func TestCustom_Formats(t *testing.T) {
	b := newBundle(t)
	base := prompt.CustomInput{
		Task:       "Resume los dolores del CFO",
		Language:   prompt.Spanish,
		ValueProps: b.valueProps(t, ""),
	}

	text := prompt.Custom(base)
	assert.Contains(t, text, "Eres un experto en GTM (Go-To-Market) para Mendel")
	assert.Contains(t, text, "## TU TAREA\n\nResume los dolores del CFO")
	assert.NotContains(t, text, "## DATOS DEL PROSPECTO")
	assert.NotContains(t, text, "## CONTEXTO DE MENDEL")
	assert.NotContains(t, text, "JSON")

	js := base
	js.OutputFormat = prompt.FormatJSON
	assert.Contains(t, prompt.Custom(js), "IMPORTANTE: Responde ÚNICAMENTE con JSON válido")

	md := base
	md.OutputFormat = prompt.FormatMarkdown
	md.Language = prompt.Portuguese
	out := prompt.Custom(md)
	assert.Contains(t, out, "Formatea la respuesta en Markdown.")
	assert.Equal(t, "Responde en portugues.", lastLine(out))
}

func TestCustom_IncludeContext(t *testing.T) {
	b := newBundle(t)
	persona := b.persona(t, "CFO")
	out := prompt.Custom(prompt.CustomInput{
		Prospect:       prompt.Prospect{CompanyName: "Acme", Persona: "CFO", Country: "AR"},
		Task:           "Escribe un mensaje de LinkedIn",
		IncludeContext: true,
		Language:       prompt.Spanish,
		PersonaContext: &persona,
		ValueProps:     b.valueProps(t, "AR"),
	})

	assert.Contains(t, out, "## DATOS DEL PROSPECTO\n- Empresa: Acme")
	assert.Contains(t, out, "## CONTEXTO DE MENDEL")
	assert.Contains(t, out, "### Clientes referencia\nMercado Libre, FEMSA, McDonald's, Unilever, Adecco")
	assert.Contains(t, out, "### VALUE PROPS PARA ARGENTINA")
	assert.Contains(t, out, "### Dolor tipico de CFO")
	assert.NotContains(t, out, "SÍ puedes mencionar")
}

func TestSnippet_CTA(t *testing.T) {
	b := newBundle(t)
	out := prompt.Snippet(prompt.SnippetInput{
		Prospect:   prompt.Prospect{CompanyName: "Acme", Persona: "CFO"},
		Type:       prompt.SnippetCTA,
		Language:   prompt.Spanish,
		ValueProps: b.valueProps(t, "MX"),
	})

	assert.Contains(t, out, "## TIPO DE SNIPPET: Llamado a la accion")
	assert.Contains(t, out, "## TAREA\n"+prompt.LookupArchetype(prompt.SnippetCTA).Instruction)
	assert.Contains(t, out, "- Maximo 30 palabras.")
	assert.Equal(t, prompt.BareOutputInstruction, lastLine(out))
}

func TestSnippet_Context(t *testing.T) {
	b := newBundle(t)
	persona := b.persona(t, "CFO")
	industry, err := b.src.IndustrySnippet(context.Background(), "", "consumo")
	require.NoError(t, err)

	out := prompt.Snippet(prompt.SnippetInput{
		Prospect:        prompt.Prospect{CompanyName: "Acme", Industry: "consumo", Signals: []string{"Migracion de ERP"}},
		Type:            "unknown",
		Task:            "Conecta la migracion con el cierre contable",
		Language:        prompt.English,
		PersonaContext:  &persona,
		IndustrySnippet: &industry,
		ValueProps:      b.valueProps(t, "MX"),
		CaseStudies:     b.data.CaseStudies,
		SignalData:      b.data.Signals,
	})

	assert.Contains(t, out, "## TIPO DE SNIPPET: Snippet personalizado")
	assert.Contains(t, out, "## DOLORES DE LA PERSONA")
	assert.Contains(t, out, "## DOLORES DE LA INDUSTRIA (consumo)")
	assert.Contains(t, out, "## TAREA\nConecta la migracion con el cierre contable")
	assert.Contains(t, out, "- Escribe en ingles.")

	cases := out[strings.Index(out, "## CASOS DE EXITO"):]
	cases = cases[:strings.Index(cases, "\n\n")]
	assert.Equal(t, 4, strings.Count(cases, "\n")+1, "heading plus three case studies")

	signals := out[strings.Index(out, "## SENALES Y DOLOR ASOCIADO"):]
	signals = signals[:strings.Index(signals, "\n\n")]
	first := strings.Split(signals, "\n")[1]
	assert.True(t, strings.HasPrefix(first, "- Migracion de ERP:"), "matching signal first, got %q", first)
	assert.Equal(t, 3, strings.Count(signals, "\n"))
}

func TestLookupArchetype(t *testing.T) {
	for _, typ := range []string{"standard", "opener", "signal_hook", "case_study", "cta", "ps_line"} {
		a := prompt.LookupArchetype(typ)
		assert.Equal(t, typ, a.Type)
		assert.NotEmpty(t, a.Instruction)
	}
	assert.Equal(t, prompt.SnippetStandard, prompt.LookupArchetype("").Type)
	assert.Equal(t, prompt.SnippetCTA, prompt.LookupArchetype(" CTA ").Type)
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"  ", 0},
		{"Te hace sentido\nhablar  esta semana?", 6},
		{"\n\tTe hace sentido\thablarlo?\n\n", 4},
		{"P.D.: vimos su expansion a Monterrey.", 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, prompt.WordCount(tt.in), "WordCount(%q)", tt.in)
	}
}

func TestSnippet_ProspectWithoutIdentity(t *testing.T) {
	b := newBundle(t)
	out := prompt.Snippet(prompt.SnippetInput{
		Prospect: prompt.Prospect{
			CompanySize:       "2500",
			AdditionalContext: "abrieron 40 sucursales este ano",
			CustomFields:      map[string]any{"erp": "SAP"},
		},
		Language:   prompt.Spanish,
		ValueProps: b.valueProps(t, ""),
	})

	assert.Contains(t, out, "## CONTEXTO DEL PROSPECTO")
	assert.Contains(t, out, "- Tamano: 2500 empleados")
	assert.Contains(t, out, "- Contexto adicional: abrieron 40 sucursales este ano")
	assert.Contains(t, out, "  - erp: SAP")
}

func TestSnippet_EmptyProspectSkipsSection(t *testing.T) {
	b := newBundle(t)
	out := prompt.Snippet(prompt.SnippetInput{Language: prompt.Spanish, ValueProps: b.valueProps(t, "")})
	assert.NotContains(t, out, "## CONTEXTO DEL PROSPECTO")
}
