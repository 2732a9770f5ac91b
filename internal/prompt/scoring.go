package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mendel-gtm/gtm-api/internal/store"
)

// ScoringInput is everything a lead scoring prompt is rendered from.
type ScoringInput struct {
	CompanyName        string
	Country            string
	Industry           string
	CompanySize        string
	CompanyDescription string
	Persona            string
	Seniority          string
	Technologies       string
	Signals            []string
	Language           Language
	Company            *store.GlobalValueProps
	ICP                store.ICP
}

// JSONOnlyInstruction closes every prompt whose answer is parsed as JSON.
const JSONOnlyInstruction = "Responde SOLO con el JSON, sin texto adicional."

const scoringSchema = `## FORMATO DE RESPUESTA

Responde UNICAMENTE con un JSON valido con esta estructura:

{
  "score": <numero del 1 al 100>,
  "tier": "<A|B|C|D>",
  "fit_summary": "<resumen de 1-2 oraciones del fit>",
  "scoring_breakdown": {
    "company_size": <pts>,
    "country": <pts>,
    "industry": <pts>,
    "erp": <pts>,
    "field_teams": <pts>,
    "signals": <pts>
  },
  "strengths": ["<fortaleza 1>", "<fortaleza 2>"],
  "weaknesses": ["<debilidad 1>", "<debilidad 2>"],
  "recommended_action": "<accion recomendada: contact_now | nurture | disqualify>",
  "best_persona_to_contact": "<CFO | Controller | Tesoreria | etc>",
  "reasoning": "<explicacion breve del scoring>"
}

Tiers:
- A (80-100): Fit excelente, contactar inmediatamente
- B (60-79): Buen fit, prioridad media
- C (40-59): Fit moderado, requiere validacion
- D (0-39): Fit bajo, considerar descalificar`

func bands(in []store.ScoreBand) string {
	var l lines
	for _, b := range in {
		l.add("- %s: %d pts", b.Label, b.Points)
	}
	return l.String()
}

func maxPoints(in []store.ScoreBand) int {
	m := 0
	for _, b := range in {
		m = max(m, b.Points)
	}
	return m
}

var scoringSections = []section[ScoringInput]{
	{"intro", func(in ScoringInput) string {
		return fmt.Sprintf("Eres un analista de calificacion de leads de %s.", companyIntro(in.Company))
	}},
	{"task", func(in ScoringInput) string {
		return fmt.Sprintf("## TU TAREA\nEvalua y puntua este lead segun el ICP de %s.", companyName(in.Company))
	}},
	{"lead", func(in ScoringInput) string {
		var l lines
		l.add("## INFORMACION DEL LEAD")
		l.add("- Empresa: %s", in.CompanyName)
		l.add("- Pais: %s", strings.ToUpper(in.Country))
		l.add("- Industria: %s", orDefault(in.Industry, "No especificada"))
		l.add("- Tamano: %s empleados", orDefault(in.CompanySize, "No especificado"))
		l.opt("- Descripcion", in.CompanyDescription)
		l.opt("- Contacto - Rol", in.Persona)
		l.opt("- Contacto - Seniority", in.Seniority)
		l.opt("- Tecnologias", in.Technologies)
		if len(in.Signals) > 0 {
			b, _ := json.Marshal(in.Signals)
			l.add("- Senales detectadas: %s", b)
		}
		return l.String()
	}},
	{"criteria", func(in ScoringInput) string {
		c := in.ICP.ScoringCriteria
		var l lines
		l.add("## CRITERIOS DE SCORING DE %s", strings.ToUpper(companyName(in.Company)))
		l.add("")
		l.add("### Tamano de Empresa (Max %d pts)", maxPoints(c.CompanySize))
		l.add("%s", bands(c.CompanySize))
		l.add("")
		l.add("### Pais (Max %d pts)", maxPoints(c.Country))
		l.add("%s", bands(c.Country))
		l.add("")
		l.add("### Industria")
		l.add("- Tier 1 (%s): %d pts", industryNames(in.ICP.Industries.Tier1), c.IndustryTier1)
		l.add("- Tier 2 (%s): %d pts", industryNames(in.ICP.Industries.Tier2), c.IndustryTier2)
		l.add("- Otra: %d pts", c.IndustryOther)
		l.add("")
		l.add("### Otros Factores")
		l.add("- Tiene ERP (SAP, Oracle, NetSuite): +%d pts", c.HasERP)
		l.add("- Tiene equipos de campo: +%d pts", c.HasFieldTeams)
		l.add("- Senal de crecimiento: +%d pts", c.GrowthSignal)
		l.add("- Senal de funding: +%d pts", c.FundingSignal)
		return l.String()
	}},
	{"exclusions", func(in ScoringInput) string {
		if len(in.ICP.QualifyingSignals.Exclude) == 0 {
			return ""
		}
		return "### Exclusiones (Descalifica)\n" + bullets(in.ICP.QualifyingSignals.Exclude)
	}},
	{"schema", func(ScoringInput) string {
		return "---\n\n" + scoringSchema
	}},
	{"language", func(in ScoringInput) string {
		if in.Language == "" || in.Language == DefaultLanguage {
			return JSONOnlyInstruction
		}
		return fmt.Sprintf("Redacta los textos del JSON en %s.\n\n%s", in.Language.Name(), JSONOnlyInstruction)
	}},
}

// Scoring renders the lead scoring prompt. The answer must be a single JSON
// object, so JSONOnlyInstruction is always the final line.
func Scoring(in ScoringInput) string {
	return render(in, scoringSections)
}
