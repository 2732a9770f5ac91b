// Package fallback holds the bundled sales context served when the remote
// store is unconfigured, unreachable or missing a record. Every entity kind
// is a versioned JSON document under data/ with the same field names as the
// remote projection.
package fallback

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mendel-gtm/gtm-api/internal/store"
)

//go:embed data/*.json
var files embed.FS

// Dataset is the decoded bundle. Values are shared; callers must not mutate them.
type Dataset struct {
	// Versions maps each document name to the version it declares.
	Versions map[string]string

	Tenants         []store.Tenant
	Personas        []store.Persona
	GenericPersona  store.Persona
	Global          store.GlobalValueProps
	Countries       []store.CountryValueProps
	DefaultCountry  string
	Industries      []store.IndustrySnippet
	GenericIndustry store.IndustrySnippet
	ICP             store.ICP
	EmailFramework  store.EmailFramework
	Competitors     []store.Competitor
	Objections      []store.Objection
	CaseStudies     []store.CaseStudy
	Signals         []store.Signal
	Playbook        []store.PlaybookEntry
	Features        []store.ProductFeature
	Templates       []store.EmailTemplate
}

// Load decodes every embedded document.
func Load() (*Dataset, error) {
	d := &Dataset{Versions: make(map[string]string)}

	var personas struct {
		Generic  store.Persona   `json:"generic"`
		Personas []store.Persona `json:"personas"`
	}
	var valueProps struct {
		DefaultCountry string                    `json:"default_country"`
		Global         store.GlobalValueProps    `json:"global"`
		Countries      []store.CountryValueProps `json:"countries"`
	}
	var industries struct {
		Generic    store.IndustrySnippet   `json:"generic"`
		Industries []store.IndustrySnippet `json:"industries"`
	}
	var (
		tenants     struct{ Tenants []store.Tenant }
		icp         struct{ ICP store.ICP }
		framework   struct{ Framework store.EmailFramework }
		competitors struct{ Competitors []store.Competitor }
		objections  struct{ Objections []store.Objection }
		caseStudies struct {
			CaseStudies []store.CaseStudy `json:"case_studies"`
		}
		signals   struct{ Signals []store.Signal }
		playbook  struct{ Playbook []store.PlaybookEntry }
		features  struct{ Features []store.ProductFeature }
		templates struct{ Templates []store.EmailTemplate }
	)

	docs := []struct {
		name string
		dest any
	}{
		{"tenants", &tenants},
		{"personas", &personas},
		{"value-props", &valueProps},
		{"industries", &industries},
		{"icp", &icp},
		{"email-framework", &framework},
		{"competitors", &competitors},
		{"objections", &objections},
		{"case-studies", &caseStudies},
		{"signals", &signals},
		{"playbook", &playbook},
		{"features", &features},
		{"templates", &templates},
	}
	for _, doc := range docs {
		version, err := decode(doc.name, doc.dest)
		if err != nil {
			return nil, err
		}
		d.Versions[doc.name] = version
	}

	d.Tenants = tenants.Tenants
	d.Personas = personas.Personas
	d.GenericPersona = personas.Generic
	d.Global = valueProps.Global
	d.Countries = valueProps.Countries
	d.DefaultCountry = strings.ToUpper(valueProps.DefaultCountry)
	d.Industries = industries.Industries
	d.GenericIndustry = industries.Generic
	d.ICP = icp.ICP
	d.EmailFramework = framework.Framework
	d.Competitors = competitors.Competitors
	d.Objections = objections.Objections
	d.CaseStudies = caseStudies.CaseStudies
	d.Signals = signals.Signals
	d.Playbook = playbook.Playbook
	d.Features = features.Features
	d.Templates = templates.Templates

	if d.DefaultCountry == "" {
		return nil, fmt.Errorf("value-props: default_country is required")
	}
	return d, nil
}

// MustLoad is Load for program start-up, where a broken bundle is a build defect.
func MustLoad() *Dataset {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

// Country returns the bundled market for code, compared case-insensitively,
// or false.
func (d *Dataset) Country(code string) (store.CountryValueProps, bool) {
	for _, c := range d.Countries {
		if strings.EqualFold(c.CountryCode, code) {
			return c, true
		}
	}
	return store.CountryValueProps{}, false
}

func decode(name string, dest any) (string, error) {
	raw, err := files.ReadFile("data/" + name + ".json")
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	var header struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	if header.Version == "" {
		return "", fmt.Errorf("decode %s: missing version", name)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return header.Version, nil
}
