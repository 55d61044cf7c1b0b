package reports

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/cogniscreen/internal/llm"
	"github.com/abhisek/cogniscreen/internal/store"
)

// Config holds narrative generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the narrative generation defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 600, Temperature: 0.3}
}

// Result is delivered when a narrative request finishes. Narrative is
// always set; Err reports why the LLM draft was replaced by the template.
type Result struct {
	ReportID  string
	Narrative *Narrative
	Err       error
}

// Service drafts report narratives. Each request runs in its own goroutine;
// at most one request per report is in flight.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// NewService creates a narrative service. A nil provider means every
// narrative comes from the template.
func NewService(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		cfg:      cfg,
		logger:   logger.Named("reports"),
		inflight: make(map[string]bool),
	}
}

// UsesLLM reports whether narratives are drafted by a model.
func (s *Service) UsesLLM() bool { return s.provider != nil }

// Request starts drafting the narrative of r. The channel receives exactly
// one Result. ok is false when a request for the same report is running.
func (s *Service) Request(ctx context.Context, r *Report) (results <-chan Result, ok bool) {
	s.mu.Lock()
	if s.inflight[r.ID] {
		s.mu.Unlock()
		return nil, false
	}
	s.inflight[r.ID] = true
	s.mu.Unlock()

	ch := make(chan Result, 1)
	go func() {
		n, err := s.Generate(ctx, r)
		s.mu.Lock()
		delete(s.inflight, r.ID)
		s.mu.Unlock()
		ch <- Result{ReportID: r.ID, Narrative: n, Err: err}
	}()
	return ch, true
}

// Pending reports whether a narrative for reportID is being drafted.
func (s *Service) Pending(reportID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[reportID]
}

type narrativeOutput struct {
	Summary         string   `json:"summary"`
	Observations    []string `json:"observations"`
	Recommendations []string `json:"recommendations"`
}

// Generate drafts the narrative synchronously. On LLM failure the template
// narrative is returned together with the error.
func (s *Service) Generate(ctx context.Context, r *Report) (*Narrative, error) {
	if s.provider == nil {
		return TemplateNarrative(r), nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeReportNarrative)
	req := llm.UserPrompt(narrativeSystemPrompt, buildNarrativeUserMessage(r), NarrativeSchema, s.cfg.MaxTokens)
	req.Temperature = s.cfg.Temperature

	var out narrativeOutput
	if _, err := llm.GenerateInto(ctx, s.provider, req, &out); err != nil {
		s.logger.Warn("narrative generation failed, using template",
			zap.String("report_id", r.ID), zap.Error(err))
		return TemplateNarrative(r), fmt.Errorf("narrative for report %s: %w", r.ID, err)
	}

	s.logger.Info("narrative generated", zap.String("report_id", r.ID))
	return &Narrative{
		Summary:         out.Summary,
		Observations:    out.Observations,
		Recommendations: out.Recommendations,
		Source:          SourceLLM,
	}, nil
}

// weakThreshold is the category percentage below which a domain is
// mentioned in the template narrative.
const weakThreshold = 70.0

// TemplateNarrative writes a fixed-form narrative from the scores alone.
func TemplateNarrative(r *Report) *Narrative {
	n := &Narrative{
		Summary: fmt.Sprintf("Puntuación total en %s de %d sobre %d (%.0f%%), evaluación del %s.",
			r.Test, r.Score, r.MaxScore, r.Percent(), r.Date),
		Source: SourceTemplate,
	}

	weak := make([]store.Category, 0, len(r.Categories))
	for _, c := range r.Categories {
		if c.MaxScore > 0 && 100*float64(c.Score)/float64(c.MaxScore) < weakThreshold {
			weak = append(weak, c)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return weak[i].Score*weak[j].MaxScore < weak[j].Score*weak[i].MaxScore
	})
	for _, c := range weak {
		n.Observations = append(n.Observations,
			fmt.Sprintf("Rendimiento reducido en %s (%d/%d).", c.Name, c.Score, c.MaxScore))
	}
	if len(r.Categories) > 0 && len(weak) == 0 {
		n.Observations = append(n.Observations, "Ningún dominio por debajo del 70% de su puntuación máxima.")
	}

	if prev, ok := r.Previous(); ok {
		n.Observations = append(n.Observations,
			fmt.Sprintf("Cambio de %+d puntos respecto a la evaluación del %s.", r.Score-prev.Score, prev.Date))
	}

	n.Recommendations = []string{"Revisar el resultado junto con la historia clínica del paciente."}
	if len(weak) > 0 {
		n.Recommendations = append(n.Recommendations, "Valorar una exploración neuropsicológica de los dominios señalados.")
	}
	n.Recommendations = append(n.Recommendations, "Repetir la prueba en la próxima revisión para seguimiento.")
	return n
}

// Source is the store access needed to load reports.
type Source interface {
	Reports() store.ReportRepo
	Results() store.ResultRepo
}

// Load fetches report id with the patient's history of the same test.
func Load(ctx context.Context, src Source, id string) (*Report, error) {
	rec, err := src.Reports().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", id, err)
	}
	results, err := src.Results().ListByPatient(ctx, rec.PatientID)
	if err != nil {
		return nil, fmt.Errorf("load history of %s: %w", rec.PatientID, err)
	}
	return Build(rec, results), nil
}

// Save stores n on r, marks it generated under t and updates r in place.
func Save(ctx context.Context, repo store.ReportRepo, r *Report, n *Narrative, t Template) error {
	if err := repo.MarkGenerated(ctx, r.ID, n.Encode(), t.ID); err != nil {
		return fmt.Errorf("save report %s: %w", r.ID, err)
	}
	r.Narrative = n
	r.Template = t.ID
	r.Status = store.ReportGenerated
	return nil
}
