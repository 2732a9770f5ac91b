// Package generate validates generation requests, gathers tenant context in
// parallel, assembles the prompt and calls the generation provider.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mendel-gtm/gtm-api/internal/config"
	"github.com/mendel-gtm/gtm-api/internal/gtmctx"
	"github.com/mendel-gtm/gtm-api/internal/llm"
	"github.com/mendel-gtm/gtm-api/internal/metrics"
	"github.com/mendel-gtm/gtm-api/internal/prompt"
	"github.com/mendel-gtm/gtm-api/internal/store"
)

// Task names, used as metric labels and by the prompt command.
const (
	TaskEmail    = "email"
	TaskResearch = "research"
	TaskScoring  = "scoring"
	TaskGenerate = "generate"
	TaskSnippet  = "snippet"
)

// Tasks lists every task name.
var Tasks = []string{TaskEmail, TaskResearch, TaskScoring, TaskGenerate, TaskSnippet}

// Metadata describes the request a result was produced for.
type Metadata struct {
	RequestID    string `json:"request_id"`
	Client       string `json:"client"`
	Language     string `json:"language"`
	Persona      string `json:"persona,omitempty"`
	Country      string `json:"country,omitempty"`
	Industry     string `json:"industry,omitempty"`
	CompanyName  string `json:"company_name,omitempty"`
	CompanySize  string `json:"company_size,omitempty"`
	Task         string `json:"task,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
	SnippetType  string `json:"snippet_type,omitempty"`
	WordCount    int    `json:"word_count,omitempty"`
	WordLimit    int    `json:"word_limit,omitempty"`
	DryRun       bool   `json:"dry_run,omitempty"`
}

// Prompted is a rendered prompt with the metadata of its request.
type Prompted struct {
	Prompt    string
	Metadata  Metadata
	MaxTokens int
}

// EmailResult is a generated cold email. Prompt is set on dry runs only.
type EmailResult struct {
	Email    string   `json:"email,omitempty"`
	Prompt   string   `json:"prompt,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// ResearchResult is a generated research brief.
type ResearchResult struct {
	Brief    string   `json:"brief,omitempty"`
	Prompt   string   `json:"prompt,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// ScoreResult holds the scoring object found in the generated text, or
// {"raw_analysis": text} when none could be parsed.
type ScoreResult struct {
	Scoring  json.RawMessage `json:"scoring,omitempty"`
	Prompt   string          `json:"prompt,omitempty"`
	Metadata Metadata        `json:"metadata"`
}

// GenerateResult holds free-form output. For json output it is the parsed
// value when one could be found, else the raw text.
type GenerateResult struct {
	Output   any      `json:"output,omitempty"`
	Prompt   string   `json:"prompt,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// SnippetResult is a generated snippet, trimmed.
type SnippetResult struct {
	Snippet  string   `json:"snippet,omitempty"`
	Prompt   string   `json:"prompt,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// Options configures a Service.
type Options struct {
	MaxTokens       config.MaxTokens
	DefaultLanguage string
}

// Service runs generation tasks. A nil generator disables generation; prompt
// assembly and dry runs keep working.
type Service struct {
	contexts *gtmctx.Provider
	gen      llm.Generator
	opts     Options
	log      *zap.Logger
}

// NewService creates a Service.
func NewService(contexts *gtmctx.Provider, gen llm.Generator, opts Options, log *zap.Logger) *Service {
	return &Service{contexts: contexts, gen: gen, opts: opts, log: log.Named("generate")}
}

// Enabled reports whether a generation provider is configured.
func (s *Service) Enabled() bool { return s.gen != nil }

func (s *Service) metadata(client, language string) Metadata {
	return Metadata{
		RequestID: uuid.NewString(),
		Client:    s.contexts.Tenant(strings.TrimSpace(client)),
		Language:  string(prompt.ResolveLanguage(language, s.opts.DefaultLanguage)),
	}
}

// fetch runs the context lookups concurrently. Provider lookups never fail,
// so no lookup cancels another.
func fetch(lookups ...func()) {
	var g errgroup.Group
	for _, lookup := range lookups {
		g.Go(func() error {
			lookup()
			return nil
		})
	}
	_ = g.Wait()
}

// EmailPrompt validates req and renders the cold email prompt.
func (s *Service) EmailPrompt(ctx context.Context, req EmailRequest) (*Prompted, error) {
	if err := require(
		field{"persona", req.Persona},
		field{"country", req.Country},
		field{"company_name", req.CompanyName},
		field{"contact_name", req.ContactName},
	); err != nil {
		return nil, err
	}
	md := s.metadata(req.Client, req.Language)
	p := req.prompt()

	var in prompt.EmailInput
	fetch(
		func() { in.PersonaContext = s.contexts.Persona(ctx, md.Client, p.Persona) },
		func() { in.ValueProps = s.contexts.ValueProps(ctx, md.Client, p.Country) },
		func() { in.Framework = s.contexts.EmailFramework(ctx, md.Client) },
		func() { in.IndustrySnippet = s.contexts.IndustrySnippet(ctx, md.Client, p.Industry) },
	)
	in.Prospect = p
	in.Language = prompt.Language(md.Language)

	md.Persona, md.Country, md.Industry, md.CompanyName = p.Persona, p.Country, p.Industry, p.CompanyName
	md.DryRun = req.DryRun
	return &Prompted{Prompt: prompt.Email(in), Metadata: md, MaxTokens: s.opts.MaxTokens.Email}, nil
}

// Email generates a cold email, or returns the prompt on a dry run.
func (s *Service) Email(ctx context.Context, req EmailRequest) (*EmailResult, error) {
	pr, err := s.EmailPrompt(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.DryRun {
		return &EmailResult{Prompt: pr.Prompt, Metadata: pr.Metadata}, nil
	}
	out, err := s.run(ctx, TaskEmail, pr)
	if err != nil {
		return nil, err
	}
	return &EmailResult{Email: out, Metadata: pr.Metadata}, nil
}

// ResearchPrompt validates req and renders the research brief prompt.
func (s *Service) ResearchPrompt(ctx context.Context, req ResearchRequest) (*Prompted, error) {
	if err := require(
		field{"company_name", req.CompanyName},
		field{"country", req.Country},
	); err != nil {
		return nil, err
	}
	md := s.metadata(req.Client, req.Language)
	country := strings.TrimSpace(req.Country)

	in := prompt.ResearchInput{
		CompanyName:        strings.TrimSpace(req.CompanyName),
		Country:            country,
		Industry:           strings.TrimSpace(req.Industry),
		CompanySize:        req.CompanySize.String(),
		CompanyDescription: strings.TrimSpace(req.CompanyDescription),
		RecentNews:         strings.TrimSpace(req.RecentNews),
		Technologies:       req.Technologies.Join(),
		KeyContacts:        req.KeyContacts,
		Language:           prompt.Language(md.Language),
	}
	fetch(
		func() { in.ValueProps = s.contexts.ValueProps(ctx, md.Client, country) },
		func() { in.ICP = s.contexts.ICP(ctx, md.Client) },
	)

	md.Country, md.Industry, md.CompanyName = in.Country, in.Industry, in.CompanyName
	md.DryRun = req.DryRun
	return &Prompted{Prompt: prompt.Research(in), Metadata: md, MaxTokens: s.opts.MaxTokens.Research}, nil
}

// Research generates an account research brief.
func (s *Service) Research(ctx context.Context, req ResearchRequest) (*ResearchResult, error) {
	pr, err := s.ResearchPrompt(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.DryRun {
		return &ResearchResult{Prompt: pr.Prompt, Metadata: pr.Metadata}, nil
	}
	out, err := s.run(ctx, TaskResearch, pr)
	if err != nil {
		return nil, err
	}
	return &ResearchResult{Brief: out, Metadata: pr.Metadata}, nil
}

// ScorePrompt validates req and renders the lead scoring prompt.
func (s *Service) ScorePrompt(ctx context.Context, req ScoreRequest) (*Prompted, error) {
	if err := require(
		field{"company_name", req.CompanyName},
		field{"country", req.Country},
		field{"company_size", req.CompanySize.String()},
	); err != nil {
		return nil, err
	}
	md := s.metadata(req.Client, req.Language)
	country := strings.TrimSpace(req.Country)

	in := prompt.ScoringInput{
		CompanyName:        strings.TrimSpace(req.CompanyName),
		Country:            country,
		Industry:           strings.TrimSpace(req.Industry),
		CompanySize:        req.CompanySize.String(),
		CompanyDescription: strings.TrimSpace(req.CompanyDescription),
		Persona:            strings.TrimSpace(req.Persona),
		Seniority:          strings.TrimSpace(req.Seniority),
		Technologies:       req.Technologies.Join(),
		Signals:            req.Signals.clean(),
		Language:           prompt.Language(md.Language),
	}
	var vp store.ValueProps
	fetch(
		func() { vp = s.contexts.ValueProps(ctx, md.Client, country) },
		func() { in.ICP = s.contexts.ICP(ctx, md.Client) },
	)
	in.Company = vp.Global

	md.Country, md.Industry, md.CompanyName, md.CompanySize = in.Country, in.Industry, in.CompanyName, in.CompanySize
	md.DryRun = req.DryRun
	return &Prompted{Prompt: prompt.Scoring(in), Metadata: md, MaxTokens: s.opts.MaxTokens.Scoring}, nil
}

// Score scores a lead. Output that holds no JSON object is wrapped as
// {"raw_analysis": text} rather than failing.
func (s *Service) Score(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	pr, err := s.ScorePrompt(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.DryRun {
		return &ScoreResult{Prompt: pr.Prompt, Metadata: pr.Metadata}, nil
	}
	out, err := s.run(ctx, TaskScoring, pr)
	if err != nil {
		return nil, err
	}
	scoring := ParseScoring(out)
	metrics.LeadTiersTotal.WithLabelValues(tierLabel(scoring)).Inc()
	return &ScoreResult{Scoring: scoring, Metadata: pr.Metadata}, nil
}

// ParseScoring returns the first JSON object in text, or a raw_analysis
// wrapper around text.
func ParseScoring(text string) json.RawMessage {
	if obj, ok := llm.ExtractObject(text); ok {
		return json.RawMessage(obj)
	}
	b, _ := json.Marshal(map[string]string{"raw_analysis": text})
	return b
}

func tierLabel(scoring json.RawMessage) string {
	switch tier := strings.ToUpper(gjson.GetBytes(scoring, "tier").String()); tier {
	case "A", "B", "C", "D":
		return tier
	default:
		return "unknown"
	}
}

func (r GenerateRequest) format() string {
	switch f := strings.ToLower(strings.TrimSpace(r.OutputFormat)); f {
	case prompt.FormatJSON, prompt.FormatMarkdown:
		return f
	default:
		return prompt.FormatText
	}
}

// GeneratePrompt validates req and renders the free-form prompt.
func (s *Service) GeneratePrompt(ctx context.Context, req GenerateRequest) (*Prompted, error) {
	if err := require(field{"task", req.Task}); err != nil {
		return nil, err
	}
	md := s.metadata(req.Client, req.Language)
	p := req.prompt()

	in := prompt.CustomInput{
		Prospect:       p,
		Task:           strings.TrimSpace(req.Task),
		OutputFormat:   req.format(),
		IncludeContext: req.IncludeContext == nil || *req.IncludeContext,
		Language:       prompt.Language(md.Language),
	}
	lookups := []func(){
		func() { in.ValueProps = s.contexts.ValueProps(ctx, md.Client, p.Country) },
	}
	if p.Persona != "" {
		lookups = append(lookups, func() {
			persona := s.contexts.Persona(ctx, md.Client, p.Persona)
			in.PersonaContext = &persona
		})
	}
	fetch(lookups...)

	maxTokens := s.opts.MaxTokens.Generate
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}
	md.Task, md.OutputFormat = in.Task, in.OutputFormat
	md.Persona, md.Country, md.CompanyName = p.Persona, p.Country, p.CompanyName
	md.DryRun = req.DryRun
	return &Prompted{Prompt: prompt.Custom(in), Metadata: md, MaxTokens: maxTokens}, nil
}

// Generate runs a free-form task.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	pr, err := s.GeneratePrompt(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.DryRun {
		return &GenerateResult{Prompt: pr.Prompt, Metadata: pr.Metadata}, nil
	}
	out, err := s.run(ctx, TaskGenerate, pr)
	if err != nil {
		return nil, err
	}
	var output any = out
	if pr.Metadata.OutputFormat == prompt.FormatJSON {
		if v, ok := llm.ExtractJSON(out); ok {
			output = json.RawMessage(v)
		}
	}
	return &GenerateResult{Output: output, Metadata: pr.Metadata}, nil
}

// SnippetPrompt renders the snippet prompt. Snippets have no required fields.
func (s *Service) SnippetPrompt(ctx context.Context, req SnippetRequest) (*Prompted, error) {
	md := s.metadata(req.Client, req.Language)
	p := req.prompt()
	archetype := prompt.LookupArchetype(req.SnippetType)

	in := prompt.SnippetInput{
		Prospect: p,
		Type:     archetype.Type,
		Task:     strings.TrimSpace(req.Task),
		Language: prompt.Language(md.Language),
	}
	lookups := []func(){
		func() { in.ValueProps = s.contexts.ValueProps(ctx, md.Client, p.Country) },
		func() { in.CaseStudies = s.contexts.CaseStudies(ctx, md.Client, p.Industry) },
	}
	if p.Persona != "" {
		lookups = append(lookups, func() {
			persona := s.contexts.Persona(ctx, md.Client, p.Persona)
			in.PersonaContext = &persona
		})
	}
	if p.Industry != "" {
		lookups = append(lookups, func() {
			snippet := s.contexts.IndustrySnippet(ctx, md.Client, p.Industry)
			in.IndustrySnippet = &snippet
		})
	}
	if len(p.Signals) > 0 {
		lookups = append(lookups, func() { in.SignalData = s.contexts.Signals(ctx, md.Client, "") })
	}
	fetch(lookups...)

	md.SnippetType = archetype.Type
	md.Persona, md.Country, md.Industry, md.CompanyName = p.Persona, p.Country, p.Industry, p.CompanyName
	md.WordLimit = prompt.SnippetWordLimit
	md.DryRun = req.DryRun
	return &Prompted{Prompt: prompt.Snippet(in), Metadata: md, MaxTokens: s.opts.MaxTokens.Snippet}, nil
}

// Snippet generates a snippet. The word limit is not enforced; the word
// count is reported in the metadata.
func (s *Service) Snippet(ctx context.Context, req SnippetRequest) (*SnippetResult, error) {
	pr, err := s.SnippetPrompt(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.DryRun {
		return &SnippetResult{Prompt: pr.Prompt, Metadata: pr.Metadata}, nil
	}
	out, err := s.run(ctx, TaskSnippet, pr)
	if err != nil {
		return nil, err
	}
	snippet := strings.TrimSpace(out)
	pr.Metadata.WordCount = prompt.WordCount(snippet)
	if pr.Metadata.WordCount > prompt.SnippetWordLimit {
		s.log.Debug("snippet over word limit",
			zap.String("request_id", pr.Metadata.RequestID),
			zap.Int("words", pr.Metadata.WordCount))
	}
	return &SnippetResult{Snippet: snippet, Metadata: pr.Metadata}, nil
}

// Prompt decodes body as the request of task and renders its prompt
// without generating.
func (s *Service) Prompt(ctx context.Context, task string, body []byte) (*Prompted, error) {
	switch task {
	case TaskEmail:
		var req EmailRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, fmt.Errorf("decode %s request: %w", task, err)
		}
		return s.EmailPrompt(ctx, req)
	case TaskResearch:
		var req ResearchRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, fmt.Errorf("decode %s request: %w", task, err)
		}
		return s.ResearchPrompt(ctx, req)
	case TaskScoring:
		var req ScoreRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, fmt.Errorf("decode %s request: %w", task, err)
		}
		return s.ScorePrompt(ctx, req)
	case TaskGenerate:
		var req GenerateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, fmt.Errorf("decode %s request: %w", task, err)
		}
		return s.GeneratePrompt(ctx, req)
	case TaskSnippet:
		var req SnippetRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, fmt.Errorf("decode %s request: %w", task, err)
		}
		return s.SnippetPrompt(ctx, req)
	default:
		return nil, fmt.Errorf("unknown task %q (want one of %s)", task, strings.Join(Tasks, ", "))
	}
}

// run calls the generator with the task's token limit.
func (s *Service) run(ctx context.Context, task string, pr *Prompted) (string, error) {
	if s.gen == nil {
		return "", ErrGeneratorDisabled
	}
	log := s.log.With(zap.String("task", task), zap.String("request_id", pr.Metadata.RequestID))

	start := time.Now()
	out, err := s.gen.Generate(ctx, pr.Prompt, pr.MaxTokens)
	elapsed := time.Since(start)
	metrics.GenerationDuration.WithLabelValues(task).Observe(elapsed.Seconds())
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(task, "error").Inc()
		log.Error("generation failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	metrics.GenerationsTotal.WithLabelValues(task, "ok").Inc()
	log.Info("generated",
		zap.Int("max_tokens", pr.MaxTokens),
		zap.Duration("duration", elapsed))
	return out, nil
}
