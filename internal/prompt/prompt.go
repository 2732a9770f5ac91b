// Package prompt renders sales context and request fields into prompts for
// the generation provider. Every prompt type is an ordered list of section
// renderers over a typed input; empty sections are dropped and the rest are
// joined by blank lines. Rendering is pure and never fails.
package prompt

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mendel-gtm/gtm-api/internal/store"
)

type section[T any] struct {
	name   string
	render func(T) string
}

func render[T any](in T, sections []section[T]) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if out := strings.TrimSpace(s.render(in)); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Language is an output language code.
type Language string

const (
	Spanish    Language = "es"
	English    Language = "en"
	Portuguese Language = "pt"
)

// DefaultLanguage is used when neither the request nor the configuration
// names a supported language.
const DefaultLanguage = Spanish

var languageNames = map[Language]string{
	Spanish:    "espanol",
	English:    "ingles",
	Portuguese: "portugues",
}

// ResolveLanguage returns code when supported, else def when supported,
// else DefaultLanguage.
func ResolveLanguage(code, def string) Language {
	for _, c := range []string{code, def} {
		l := Language(strings.ToLower(strings.TrimSpace(c)))
		if _, ok := languageNames[l]; ok {
			return l
		}
	}
	return DefaultLanguage
}

// Name is the language name used inside prompt instructions.
func (l Language) Name() string {
	if n, ok := languageNames[l]; ok {
		return n
	}
	return languageNames[DefaultLanguage]
}

// Prospect holds the request fields describing who the output is for.
// Any of them may be blank.
type Prospect struct {
	ContactName       string
	CompanyName       string
	Persona           string
	Country           string
	Industry          string
	CompanySize       string
	Signals           []string
	AdditionalContext string
	CustomFields      map[string]any
}

// empty reports whether no prospect field carries a value.
func (p Prospect) empty() bool {
	return p.ContactName == "" && p.CompanyName == "" && p.Persona == "" && p.Country == "" &&
		p.Industry == "" && p.CompanySize == "" && len(p.Signals) == 0 &&
		p.AdditionalContext == "" && len(p.CustomFields) == 0
}

// lines accumulates prompt lines, skipping optional ones that are blank.
type lines struct {
	b strings.Builder
}

func (l *lines) add(format string, args ...any) {
	if l.b.Len() > 0 {
		l.b.WriteByte('\n')
	}
	fmt.Fprintf(&l.b, format, args...)
}

// opt adds "label: value" only when value is not blank.
func (l *lines) opt(label, value string) {
	if strings.TrimSpace(value) != "" {
		l.add("%s: %s", label, value)
	}
}

func (l *lines) String() string { return l.b.String() }

func bullets(items []string) string {
	var l lines
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			l.add("- %s", it)
		}
	}
	return l.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// customFields renders the passthrough map in key order, skipping blank values.
func customFields(fields map[string]any, indent string) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if v == nil || strings.TrimSpace(fmt.Sprint(v)) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var l lines
	for _, k := range keys {
		l.add("%s- %s: %v", indent, k, fields[k])
	}
	return l.String()
}

// companyIntro is "<name>, <description>" for role-play intros.
func companyIntro(g *store.GlobalValueProps) string {
	if g == nil || g.CompanyName == "" {
		return "una plataforma de gestion de gastos corporativos"
	}
	if g.CompanyDescription == "" {
		return g.CompanyName
	}
	return g.CompanyName + ", " + g.CompanyDescription
}

func companyName(g *store.GlobalValueProps) string {
	if g == nil || g.CompanyName == "" {
		return "nuestra plataforma"
	}
	return g.CompanyName
}

var taxClaim = regexp.MustCompile(`(?i)\b(sat|cfdi)\b|deducib`)

// allowedClaims drops tax recovery and deductibility claims unless the
// market is eligible for them.
func allowedClaims(items []string, eligible bool) []string {
	if eligible {
		return items
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !taxClaim.MatchString(it) {
			out = append(out, it)
		}
	}
	return out
}

// countryName is the display name of the prospect's market. When the
// requested code was not a known market the code itself is shown.
func countryName(requested string, vp store.ValueProps) string {
	if vp.Country == nil {
		return orDefault(strings.ToUpper(requested), "No especificado")
	}
	if requested == "" || strings.EqualFold(requested, vp.Country.CountryCode) {
		return vp.Country.CountryName
	}
	return strings.ToUpper(requested)
}

// taxNotice is the gating statement appended to every market block.
func taxNotice(name string, eligible bool) string {
	if eligible {
		return fmt.Sprintf("IMPORTANTE: En %s SÍ puedes mencionar recupero de facturas SAT y deducibilidad.", name)
	}
	return fmt.Sprintf("IMPORTANTE: En %s NO existe recupero automatico de facturas tipo SAT. NO menciones deducibilidad ni facturas SAT.", name)
}

// marketBlock renders the value props of the served market with the tax
// gating rule applied.
func marketBlock(heading string, requested string, vp store.ValueProps) string {
	if vp.Country == nil {
		return ""
	}
	name := countryName(requested, vp)
	var l lines
	l.add("%s %s", heading, strings.ToUpper(name))
	if vp.TaxRecoveryEligible {
		l.add("### %s - FUNCIONALIDAD CLAVE", name)
	} else {
		l.add("### %s", name)
	}
	if props := bullets(allowedClaims(vp.Country.SpecificValueProps, vp.TaxRecoveryEligible)); props != "" {
		l.add("%s", props)
	}
	l.add("")
	l.add("%s", taxNotice(name, vp.TaxRecoveryEligible))
	return l.String()
}

func referenceClients(vp store.ValueProps) []string {
	if vp.Global == nil {
		return nil
	}
	return vp.Global.ReferenceClients
}

func signalLines(signals []string) string {
	switch len(signals) {
	case 0:
		return ""
	case 1:
		return "- Senal/Trigger: " + signals[0]
	default:
		var l lines
		l.add("- Senales detectadas:")
		for _, s := range signals {
			l.add("  - %s", s)
		}
		return l.String()
	}
}

// prospectLines renders the shared prospect facts.
func prospectLines(p Prospect, country string) string {
	var l lines
	l.opt("- Nombre", p.ContactName)
	l.opt("- Empresa", p.CompanyName)
	l.opt("- Cargo/Persona", p.Persona)
	l.opt("- Pais", country)
	l.opt("- Industria", p.Industry)
	if p.CompanySize != "" {
		l.add("- Tamano: %s empleados", p.CompanySize)
	}
	if s := signalLines(p.Signals); s != "" {
		l.add("%s", s)
	}
	l.opt("- Contexto adicional", p.AdditionalContext)
	if cf := customFields(p.CustomFields, "  "); cf != "" {
		l.add("- Datos adicionales:")
		l.add("%s", cf)
	}
	return l.String()
}
