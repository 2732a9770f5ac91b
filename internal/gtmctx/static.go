package gtmctx

import (
	"context"
	"slices"
	"strings"

	"github.com/mendel-gtm/gtm-api/internal/fallback"
	"github.com/mendel-gtm/gtm-api/internal/store"
)

// StaticSource serves the bundled dataset. It ignores the tenant and never
// reports a miss: unknown personas get the generic persona, unknown markets
// the default market and unknown industries the generic snippet.
type StaticSource struct {
	data           *fallback.Dataset
	defaultCountry string
	taxCountry     string
}

// NewStaticSource creates a StaticSource over data. An empty defaultCountry
// selects the dataset's own default market.
func NewStaticSource(data *fallback.Dataset, defaultCountry, taxCountry string) *StaticSource {
	if defaultCountry == "" {
		defaultCountry = data.DefaultCountry
	}
	return &StaticSource{
		data:           data,
		defaultCountry: strings.ToUpper(defaultCountry),
		taxCountry:     strings.ToUpper(taxCountry),
	}
}

func (s *StaticSource) Persona(_ context.Context, _, name string) (store.Persona, error) {
	if p, ok := matchPersona(s.data.Personas, NormalizePersonaName(name)); ok {
		return p, nil
	}
	p := s.data.GenericPersona
	p.Role = name
	return p, nil
}

func (s *StaticSource) ValueProps(_ context.Context, _, country string) (store.ValueProps, error) {
	code := NormalizeCountry(country, s.defaultCountry)
	c, ok := s.data.Country(code)
	if !ok {
		c, ok = s.data.Country(s.defaultCountry)
	}
	if !ok {
		c, _ = s.data.Country(s.data.DefaultCountry)
	}
	global := s.data.Global
	return store.ValueProps{Global: &global, Country: &c, TaxRecoveryEligible: code == s.taxCountry}, nil
}

func (s *StaticSource) ICP(context.Context, string) (store.ICP, error) {
	return s.data.ICP, nil
}

func (s *StaticSource) IndustrySnippet(_ context.Context, _, industry string) (store.IndustrySnippet, error) {
	if snippet, ok := matchIndustry(s.data.Industries, industry); ok {
		return snippet, nil
	}
	return s.data.GenericIndustry, nil
}

func (s *StaticSource) EmailFramework(context.Context, string) (store.EmailFramework, error) {
	return s.data.EmailFramework, nil
}

func (s *StaticSource) Competitors(_ context.Context, _, name string) ([]store.Competitor, error) {
	return filter(s.data.Competitors, name, competitorNamed), nil
}

func (s *StaticSource) Objections(_ context.Context, _, category string) ([]store.Objection, error) {
	return filter(s.data.Objections, category, objectionIn), nil
}

func (s *StaticSource) CaseStudies(_ context.Context, _, industry string) ([]store.CaseStudy, error) {
	return filter(s.data.CaseStudies, industry, caseStudyIn), nil
}

func (s *StaticSource) Signals(_ context.Context, _, category string) ([]store.Signal, error) {
	return filter(s.data.Signals, category, signalIn), nil
}

func (s *StaticSource) Playbook(context.Context, string) ([]store.PlaybookEntry, error) {
	return slices.Clone(s.data.Playbook), nil
}

func (s *StaticSource) Features(_ context.Context, _, slug string) ([]store.ProductFeature, error) {
	return filter(s.data.Features, slug, featureSlug), nil
}

func (s *StaticSource) Templates(_ context.Context, _, typ string) ([]store.EmailTemplate, error) {
	return filter(s.data.Templates, typ, templateOfType), nil
}

var _ Source = (*StaticSource)(nil)
