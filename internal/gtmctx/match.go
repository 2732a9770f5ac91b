package gtmctx

import (
	"slices"
	"strings"
	"unicode"

	"github.com/mendel-gtm/gtm-api/internal/store"
)

// personaRules rewrite common spellings to persona slugs. A rule is skipped
// when its replacement is already present, which keeps normalization
// idempotent ("travel" -> "travelrrhh" is not rewritten again by "rrhh").
var personaRules = []struct{ pattern, canonical string }{
	{"finanzas", "finanzasoperativas"},
	{"fp&a", "fpa"},
	{"travel", "travelrrhh"},
	{"rrhh", "travelrrhh"},
	{"contralor", "controller"},
}

// NormalizePersonaName lower-cases name, strips all whitespace and applies
// the persona spelling rules in order.
func NormalizePersonaName(name string) string {
	s := compact(name)
	for _, r := range personaRules {
		if strings.Contains(s, r.canonical) {
			continue
		}
		s = strings.Replace(s, r.pattern, r.canonical, 1)
	}
	return s
}

// NormalizeCountry upper-cases code and substitutes def when it is blank.
func NormalizeCountry(code, def string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return strings.ToUpper(def)
	}
	return code
}

func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// matchPersona finds the persona whose slug equals normalized or one of
// whose titles contains it.
func matchPersona(personas []store.Persona, normalized string) (store.Persona, bool) {
	if normalized == "" {
		return store.Persona{}, false
	}
	for _, p := range personas {
		if strings.ToLower(p.Slug) == normalized {
			return p, true
		}
		for _, title := range p.Titles {
			if strings.Contains(compact(title), normalized) {
				return p, true
			}
		}
	}
	return store.Persona{}, false
}

// matchCountry returns the market for code, else the market for def.
func matchCountry(countries []store.CountryValueProps, code, def string) (store.CountryValueProps, bool) {
	for _, want := range []string{code, strings.ToUpper(def)} {
		for _, c := range countries {
			if strings.EqualFold(c.CountryCode, want) {
				return c, true
			}
		}
	}
	return store.CountryValueProps{}, false
}

// matchIndustry returns the first snippet whose slug occurs in industry.
func matchIndustry(snippets []store.IndustrySnippet, industry string) (store.IndustrySnippet, bool) {
	industry = strings.ToLower(industry)
	if industry == "" {
		return store.IndustrySnippet{}, false
	}
	for _, s := range snippets {
		if s.Slug != "" && strings.Contains(industry, strings.ToLower(s.Slug)) {
			return s, true
		}
	}
	return store.IndustrySnippet{}, false
}

// filter returns the items keep accepts. An empty want keeps everything.
func filter[T any](items []T, want string, keep func(T, string) bool) []T {
	if want == "" {
		return slices.Clone(items)
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it, want) {
			out = append(out, it)
		}
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func competitorNamed(c store.Competitor, name string) bool  { return containsFold(c.Name, name) }
func objectionIn(o store.Objection, cat string) bool        { return strings.EqualFold(o.Category, cat) }
func caseStudyIn(c store.CaseStudy, industry string) bool   { return containsFold(c.Industry, industry) }
func signalIn(s store.Signal, cat string) bool              { return strings.EqualFold(s.Category, cat) }
func featureSlug(f store.ProductFeature, slug string) bool  { return strings.EqualFold(f.Slug, slug) }
func templateOfType(t store.EmailTemplate, typ string) bool { return strings.EqualFold(t.Type, typ) }
