package gtmctx

import (
	"context"
	"slices"
	"strings"

	"github.com/mendel-gtm/gtm-api/internal/cache"
	"github.com/mendel-gtm/gtm-api/internal/store"
)

// RemoteSource serves context from the SQL store through the shared cache.
// Only matched results are cached; a miss is reported as store.ErrNotFound.
type RemoteSource struct {
	dir            *Directory
	store          ContextStore
	cache          *cache.Cache
	defaultCountry string
	taxCountry     string
}

// NewRemoteSource creates a RemoteSource. defaultCountry is served for
// unknown market codes and taxCountry is the only market eligible for tax
// recovery claims.
func NewRemoteSource(dir *Directory, cs ContextStore, c *cache.Cache, defaultCountry, taxCountry string) *RemoteSource {
	return &RemoteSource{
		dir:            dir,
		store:          cs,
		cache:          c,
		defaultCountry: strings.ToUpper(defaultCountry),
		taxCountry:     strings.ToUpper(taxCountry),
	}
}

// fetch resolves tenant and runs query through the cache under
// kind:<tenant key>:discriminator.
func fetch[T any](ctx context.Context, r *RemoteSource, tenant, kind, discriminator string, query func(tenantID string) (T, error)) (T, error) {
	var zero T
	if r.store == nil {
		return zero, store.ErrNotFound
	}
	id, ok := r.dir.Resolve(ctx, tenant)
	if !ok {
		return zero, store.ErrNotFound
	}
	return cache.GetOrCompute(r.cache, kind+":"+id+":"+discriminator, func() (T, error) {
		return query(id)
	})
}

// nonEmpty turns an empty list into store.ErrNotFound.
func nonEmpty[T any](rows []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return rows, nil
}

func (r *RemoteSource) Persona(ctx context.Context, tenant, name string) (store.Persona, error) {
	normalized := NormalizePersonaName(name)
	return fetch(ctx, r, tenant, "persona", normalized, func(id string) (store.Persona, error) {
		personas, err := nonEmpty(r.store.Personas(ctx, id))
		if err != nil {
			return store.Persona{}, err
		}
		p, ok := matchPersona(personas, normalized)
		if !ok {
			return store.Persona{}, store.ErrNotFound
		}
		return p, nil
	})
}

func (r *RemoteSource) ValueProps(ctx context.Context, tenant, country string) (store.ValueProps, error) {
	code := NormalizeCountry(country, r.defaultCountry)
	return fetch(ctx, r, tenant, "valueprops", code, func(id string) (store.ValueProps, error) {
		global, err := r.store.GlobalValueProps(ctx, id)
		if err != nil {
			return store.ValueProps{}, err
		}
		countries, err := nonEmpty(r.store.CountryValueProps(ctx, id))
		if err != nil {
			return store.ValueProps{}, err
		}
		c, ok := matchCountry(countries, code, r.defaultCountry)
		if !ok {
			return store.ValueProps{}, store.ErrNotFound
		}
		return store.ValueProps{Global: global, Country: &c, TaxRecoveryEligible: code == r.taxCountry}, nil
	})
}

func (r *RemoteSource) ICP(ctx context.Context, tenant string) (store.ICP, error) {
	return fetch(ctx, r, tenant, "icp", "", func(id string) (store.ICP, error) {
		icp, err := r.store.ICP(ctx, id)
		if err != nil {
			return store.ICP{}, err
		}
		return *icp, nil
	})
}

func (r *RemoteSource) IndustrySnippet(ctx context.Context, tenant, industry string) (store.IndustrySnippet, error) {
	return fetch(ctx, r, tenant, "industry", strings.ToLower(industry), func(id string) (store.IndustrySnippet, error) {
		snippets, err := nonEmpty(r.store.IndustrySnippets(ctx, id))
		if err != nil {
			return store.IndustrySnippet{}, err
		}
		s, ok := matchIndustry(snippets, industry)
		if !ok {
			return store.IndustrySnippet{}, store.ErrNotFound
		}
		return s, nil
	})
}

func (r *RemoteSource) EmailFramework(ctx context.Context, tenant string) (store.EmailFramework, error) {
	return fetch(ctx, r, tenant, "emailframework", "", func(id string) (store.EmailFramework, error) {
		fw, err := r.store.EmailFramework(ctx, id)
		if err != nil {
			return store.EmailFramework{}, err
		}
		return *fw, nil
	})
}

// List kinds cache the full tenant list and filter after retrieval.

func (r *RemoteSource) Competitors(ctx context.Context, tenant, name string) ([]store.Competitor, error) {
	all, err := fetch(ctx, r, tenant, "competitors", "all", func(id string) ([]store.Competitor, error) {
		return nonEmpty(r.store.Competitors(ctx, id))
	})
	if err != nil {
		return nil, err
	}
	return filter(all, name, competitorNamed), nil
}

func (r *RemoteSource) Objections(ctx context.Context, tenant, category string) ([]store.Objection, error) {
	all, err := fetch(ctx, r, tenant, "objections", "all", func(id string) ([]store.Objection, error) {
		return nonEmpty(r.store.Objections(ctx, id))
	})
	if err != nil {
		return nil, err
	}
	return filter(all, category, objectionIn), nil
}

func (r *RemoteSource) CaseStudies(ctx context.Context, tenant, industry string) ([]store.CaseStudy, error) {
	all, err := fetch(ctx, r, tenant, "casestudies", "all", func(id string) ([]store.CaseStudy, error) {
		return nonEmpty(r.store.CaseStudies(ctx, id))
	})
	if err != nil {
		return nil, err
	}
	return filter(all, industry, caseStudyIn), nil
}

func (r *RemoteSource) Signals(ctx context.Context, tenant, category string) ([]store.Signal, error) {
	all, err := fetch(ctx, r, tenant, "signals", "all", func(id string) ([]store.Signal, error) {
		return nonEmpty(r.store.Signals(ctx, id))
	})
	if err != nil {
		return nil, err
	}
	return filter(all, category, signalIn), nil
}

func (r *RemoteSource) Playbook(ctx context.Context, tenant string) ([]store.PlaybookEntry, error) {
	all, err := fetch(ctx, r, tenant, "playbook", "all", func(id string) ([]store.PlaybookEntry, error) {
		return nonEmpty(r.store.Playbook(ctx, id))
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(all), nil
}

func (r *RemoteSource) Features(ctx context.Context, tenant, slug string) ([]store.ProductFeature, error) {
	all, err := fetch(ctx, r, tenant, "features", "all", func(id string) ([]store.ProductFeature, error) {
		return nonEmpty(r.store.Features(ctx, id))
	})
	if err != nil {
		return nil, err
	}
	return filter(all, slug, featureSlug), nil
}

func (r *RemoteSource) Templates(ctx context.Context, tenant, typ string) ([]store.EmailTemplate, error) {
	all, err := fetch(ctx, r, tenant, "templates", "all", func(id string) ([]store.EmailTemplate, error) {
		return nonEmpty(r.store.Templates(ctx, id))
	})
	if err != nil {
		return nil, err
	}
	return filter(all, typ, templateOfType), nil
}

var _ Source = (*RemoteSource)(nil)
