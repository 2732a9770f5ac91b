package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a list column persisted as a JSON array in a text column.
// NULL and empty text scan to an empty list.
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan StringList: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan StringList: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Tenant is a row in the tenants table.
type Tenant struct {
	ID     string `db:"id" json:"-"`
	Slug   string `db:"slug" json:"slug"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}

// Persona describes a buyer role and what resonates with it.
type Persona struct {
	Slug             string     `db:"slug" json:"slug"`
	Role             string     `db:"role" json:"role"`
	Titles           StringList `db:"titles" json:"titles"`
	Pains            StringList `db:"pains" json:"pains"`
	CaresAbout       StringList `db:"cares_about" json:"cares_about"`
	Questions        StringList `db:"questions" json:"questions"`
	Objections       StringList `db:"objections" json:"objections"`
	Responsibilities StringList `db:"responsibilities" json:"responsibilities"`
	ReportsTo        string     `db:"reports_to" json:"reports_to"`
}

// CountryValueProps is the per-market pitch.
type CountryValueProps struct {
	CountryCode        string     `db:"country_code" json:"country_code"`
	CountryName        string     `db:"country_name" json:"country_name"`
	SpecificValueProps StringList `db:"specific_value_props" json:"specific_value_props"`
	UniqueFeatures     StringList `db:"unique_features" json:"unique_features"`
	ComplianceNotes    StringList `db:"compliance_notes" json:"compliance_notes"`
	Metrics            StringList `db:"metrics" json:"metrics"`
}

// GlobalValueProps is the tenant-wide pitch. There is one per tenant.
type GlobalValueProps struct {
	CompanyName        string     `db:"company_name" json:"company_name"`
	CompanyDescription string     `db:"company_description" json:"company_description"`
	CoreValueProps     StringList `db:"core_value_props" json:"core_value_props"`
	Differentiators    StringList `db:"differentiators" json:"differentiators"`
	ReferenceClients   StringList `db:"reference_clients" json:"reference_clients"`
	Features           StringList `db:"features" json:"features"`
}

// ValueProps is the view handed to prompt rendering: the tenant-wide props,
// the resolved market and whether that market allows tax-recovery claims.
type ValueProps struct {
	Global              *GlobalValueProps  `json:"global"`
	Country             *CountryValueProps `json:"country"`
	TaxRecoveryEligible bool               `json:"tax_recovery_eligible"`
}

// IndustrySnippet holds industry pains and reference clients.
type IndustrySnippet struct {
	Slug      string     `db:"slug" json:"slug"`
	Pains     StringList `db:"pains" json:"pains"`
	Reference string     `db:"reference" json:"reference"`
}

// ICP is the ideal customer profile and lead-scoring rubric.
type ICP struct {
	Firmographics struct {
		Size struct {
			SweetSpot string `json:"sweet_spot"`
			Min       int    `json:"min"`
			Max       int    `json:"max"`
		} `json:"size"`
		Countries []string `json:"countries"`
	} `json:"firmographics"`
	Industries struct {
		Tier1 []ICPIndustry `json:"tier1_best_fit"`
		Tier2 []ICPIndustry `json:"tier2_good_fit"`
	} `json:"industries"`
	QualifyingSignals struct {
		Include []string `json:"include"`
		Exclude []string `json:"exclude"`
	} `json:"qualifying_signals"`
	ScoringCriteria ScoringCriteria `json:"scoring_criteria"`
}

// ICPIndustry is one industry entry of an ICP tier.
type ICPIndustry struct {
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

// ScoringCriteria is the numeric rubric used by lead scoring.
type ScoringCriteria struct {
	CompanySize   []ScoreBand `json:"company_size"`
	Country       []ScoreBand `json:"country"`
	IndustryTier1 int         `json:"industry_tier1"`
	IndustryTier2 int         `json:"industry_tier2"`
	IndustryOther int         `json:"industry_other"`
	HasERP        int         `json:"has_erp"`
	HasFieldTeams int         `json:"has_field_teams"`
	GrowthSignal  int         `json:"growth_signal"`
	FundingSignal int         `json:"funding_signal"`
}

// ScoreBand maps a bucket label (a size range, a country) to points.
type ScoreBand struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// EmailFramework carries the tenant's cold-email writing rules.
type EmailFramework struct {
	Principles []Principle `json:"principles"`
	Structure  struct {
		MaxWords int    `json:"max_words"`
		OneIdea  string `json:"one_idea"`
		CTA      string `json:"cta"`
	} `json:"structure"`
	DontDo    []string          `json:"dont_do"`
	Templates map[string]string `json:"templates"`
}

// Principle is one named writing rule.
type Principle struct {
	Name string `json:"name"`
	Rule string `json:"rule"`
}

// Competitor is a battlecard entry.
type Competitor struct {
	Name        string     `db:"name" json:"name"`
	Tier        string     `db:"tier" json:"tier"`
	Description string     `db:"description" json:"description"`
	Strengths   StringList `db:"strengths" json:"strengths"`
	Weaknesses  StringList `db:"weaknesses" json:"weaknesses"`
	Positioning string     `db:"positioning" json:"positioning"`
	WhenWeWin   string     `db:"when_we_win" json:"when_we_win"`
	SortOrder   int        `db:"sort_order" json:"sort_order"`
}

// Objection is a common pushback and how to handle it.
type Objection struct {
	Category  string `db:"category" json:"category"`
	Objection string `db:"objection" json:"objection"`
	Response  string `db:"response" json:"response"`
	Priority  int    `db:"priority" json:"priority"`
}

// CaseStudy is a customer success story.
type CaseStudy struct {
	ClientName string     `db:"client_name" json:"client_name"`
	Industry   string     `db:"industry" json:"industry"`
	Country    string     `db:"country" json:"country"`
	Challenge  string     `db:"challenge" json:"challenge"`
	Solution   string     `db:"solution" json:"solution"`
	Results    StringList `db:"results" json:"results"`
	Quote      string     `db:"quote" json:"quote"`
	SortOrder  int        `db:"sort_order" json:"sort_order"`
}

// Signal is a buying trigger and the pain it usually points to.
type Signal struct {
	Name        string `db:"name" json:"name"`
	Category    string `db:"category" json:"category"`
	Description string `db:"description" json:"description"`
	PainMapping string `db:"pain_mapping" json:"pain_mapping"`
	TalkTrack   string `db:"talk_track" json:"talk_track"`
	Priority    int    `db:"priority" json:"priority"`
}

// PlaybookEntry is one section of the sales playbook.
type PlaybookEntry struct {
	Section   string `db:"section" json:"section"`
	Title     string `db:"title" json:"title"`
	Content   string `db:"content" json:"content"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
}

// ProductFeature describes one capability of the product.
type ProductFeature struct {
	Slug        string     `db:"slug" json:"slug"`
	Name        string     `db:"name" json:"name"`
	Category    string     `db:"category" json:"category"`
	Description string     `db:"description" json:"description"`
	Benefits    StringList `db:"benefits" json:"benefits"`
	SortOrder   int        `db:"sort_order" json:"sort_order"`
}

// EmailTemplate is a reusable email or follow-up step.
type EmailTemplate struct {
	Slug         string `db:"slug" json:"slug"`
	Type         string `db:"type" json:"type"`
	Name         string `db:"name" json:"name"`
	Subject      string `db:"subject" json:"subject"`
	Body         string `db:"body" json:"body"`
	SequenceStep int    `db:"sequence_step" json:"sequence_step"`
}
