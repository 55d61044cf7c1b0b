package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/llm"
	"github.com/abhisek/cogniscreen/internal/runner"
	"github.com/abhisek/cogniscreen/internal/store"
)

func openSeeded(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// followUpReport is a MMSE report with two earlier administrations.
func followUpReport() *Report {
	rec := &store.Report{
		ID: "42", PatientID: "P008", PatientName: "Antonio Moreno", DefinitionID: "mmse",
		Test: "MMSE", Date: "2025-06-02", Score: 18, MaxScore: 30, Doctor: "Dr. Martínez",
		Status: store.ReportPending,
		Categories: []store.Category{
			{Name: "Orientación", Score: 7, MaxScore: 10},
			{Name: "Registro", Score: 3, MaxScore: 3},
			{Name: "Recuerdo", Score: 0, MaxScore: 3},
			{Name: "Lenguaje", Score: 5, MaxScore: 9},
		},
	}
	results := []store.Result{
		{PatientID: "P008", Test: "MMSE", Date: "2025-06-02", Score: 18, MaxScore: 30},
		{PatientID: "P008", Test: "MoCA", Date: "2025-04-18", Score: 19, MaxScore: 30},
		{PatientID: "P008", Test: "MMSE", Date: "2025-03-30", Score: 20, MaxScore: 30},
		{PatientID: "P008", Test: "MMSE", Date: "2025-01-14", Score: 21, MaxScore: 30},
	}
	return Build(rec, results)
}

func TestBuild_History(t *testing.T) {
	r := followUpReport()

	require.Len(t, r.History, 3)
	assert.Equal(t, "2025-01-14", r.History[0].Date)
	assert.Equal(t, "2025-06-02", r.History[2].Date)

	prev, ok := r.Previous()
	require.True(t, ok)
	assert.Equal(t, "2025-03-30", prev.Date)
	assert.InDelta(t, 60.0, r.Percent(), 0.001)
	assert.Nil(t, r.Narrative)
}

func TestLoad_SeededReport(t *testing.T) {
	s := openSeeded(t)

	r, err := Load(context.Background(), s, "1")
	require.NoError(t, err)
	assert.Equal(t, "María García", r.PatientName)
	assert.Len(t, r.Categories, 5)
	require.Len(t, r.History, 1)
	_, ok := r.Previous()
	assert.False(t, ok)

	_, err = Load(context.Background(), s, "999")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestParseNarrative(t *testing.T) {
	assert.Nil(t, ParseNarrative("  "))

	plain := ParseNarrative("Texto libre")
	require.NotNil(t, plain)
	assert.Equal(t, "Texto libre", plain.Summary)

	n := &Narrative{Summary: "s", Observations: []string{"o"}, Source: SourceLLM}
	back := ParseNarrative(n.Encode())
	assert.Equal(t, n, back)
}

func TestTemplates(t *testing.T) {
	ids := make([]string, 0)
	for _, tpl := range Templates() {
		ids = append(ids, tpl.ID)
	}
	assert.Equal(t, []string{"standard", "detailed-mmse", "moca-graphs", "executive"}, ids)

	_, err := LookupTemplate("fancy")
	assert.Error(t, err)

	mmse, err := LookupTemplate("detailed-mmse")
	require.NoError(t, err)
	assert.True(t, mmse.Applies("mmse-self"))
	assert.False(t, mmse.Applies("moca"))

	r := followUpReport()
	assert.Equal(t, "detailed-mmse", TemplateFor("detailed-mmse", r).ID)
	assert.Equal(t, DefaultTemplate, TemplateFor("moca-graphs", r).ID)
	assert.Equal(t, DefaultTemplate, TemplateFor("nope", r).ID)
}

func TestRender(t *testing.T) {
	r := followUpReport()
	r.Clinic = "Unidad de Memoria"
	r.Narrative = TemplateNarrative(r)

	detailed, _ := LookupTemplate("detailed-mmse")
	out := Render(r, detailed, 60)
	assert.Contains(t, out, "Unidad de Memoria · Informe Detallado MMSE")
	assert.Contains(t, out, "Puntuación: 18/30 (60%)")
	assert.Contains(t, out, "Recuerdo")
	assert.Contains(t, out, "Evolución")
	assert.Contains(t, out, "Cambio desde 2025-03-30: -2 puntos")
	assert.Contains(t, out, "No hay notas disponibles")
	assert.Contains(t, out, "Recomendaciones")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 60, line)
	}

	exec, _ := LookupTemplate("executive")
	short := Render(r, exec, 60)
	assert.Contains(t, short, r.Narrative.Summary)
	assert.NotContains(t, short, "Categorías")
	assert.NotContains(t, short, "Observaciones")
}

func TestRender_PendingNarrative(t *testing.T) {
	r := followUpReport()
	std, _ := LookupTemplate("standard")
	assert.Contains(t, Render(r, std, 10), "Pendiente de generar.")
}

func TestBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", Bar(15, 30, 10))
	assert.Equal(t, "░░░░", Bar(0, 0, 4))
	assert.Equal(t, "████", Bar(9, 3, 4))
	assert.Equal(t, "", Bar(1, 1, 0))
}

func TestExport_Markdown(t *testing.T) {
	r := followUpReport()
	r.Narrative = &Narrative{Summary: "Descenso leve.", Observations: []string{"Recuerdo 0/3"}, Recommendations: []string{"Control en 3 meses"}}
	std, _ := LookupTemplate("standard")

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, r, std, FormatMarkdown))
	md := buf.String()
	assert.True(t, strings.HasPrefix(md, "# Informe Estándar"))
	assert.Contains(t, md, "| Paciente | Antonio Moreno (P008) |")
	assert.Contains(t, md, "- **Recuerdo**: 0/3")
	assert.Contains(t, md, "### Observaciones")
	assert.NotContains(t, md, "## Evolución")
}

func TestExport_YAML(t *testing.T) {
	r := followUpReport()
	r.Narrative = &Narrative{Summary: "Descenso leve.", Observations: []string{"x"}}
	exec, _ := LookupTemplate("executive")

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, r, exec, FormatYAML))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "42", doc["id"])
	assert.Equal(t, "executive", doc["template"])
	assert.Equal(t, 18, doc["score"])
	assert.NotContains(t, doc, "categories")
	narrative := doc["narrative"].(map[string]any)
	assert.Equal(t, "Descenso leve.", narrative["summary"])
	assert.NotContains(t, narrative, "observations")

	moca, _ := LookupTemplate("moca-graphs")
	buf.Reset()
	require.NoError(t, Export(&buf, r, moca, FormatYAML))
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Len(t, doc["history"], 3)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"md": FormatMarkdown, "Markdown": FormatMarkdown, "yml": FormatYAML, " yaml ": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestFileNameAndWriteFile(t *testing.T) {
	r := followUpReport()
	r.PatientName = "José Fernández"
	assert.Equal(t, "informe-42-jose-fernandez.yaml", FileName(r, FormatYAML))

	dir := filepath.Join(t.TempDir(), "exports")
	std, _ := LookupTemplate("standard")
	path, err := WriteFile(dir, r, std, FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "informe-42-jose-fernandez.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "José Fernández")
}

func TestTemplateNarrative(t *testing.T) {
	n := TemplateNarrative(followUpReport())

	assert.Equal(t, SourceTemplate, n.Source)
	assert.Contains(t, n.Summary, "18 sobre 30 (60%)")
	// Orientación sits exactly at 70% and is not mentioned.
	require.Len(t, n.Observations, 3)
	assert.Equal(t, "Rendimiento reducido en Recuerdo (0/3).", n.Observations[0])
	assert.Contains(t, n.Observations[1], "Lenguaje")
	assert.Contains(t, n.Observations[2], "-2 puntos")
	assert.Len(t, n.Recommendations, 3)

	good := &Report{Test: "MoCA", Score: 28, MaxScore: 30, Categories: []store.Category{{Name: "Memoria", Score: 5, MaxScore: 5}}}
	gn := TemplateNarrative(good)
	assert.Equal(t, []string{"Ningún dominio por debajo del 70% de su puntuación máxima."}, gn.Observations)
	assert.Len(t, gn.Recommendations, 2)
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("narrative not delivered")
	}
	return Result{}
}

func TestService_LLMNarrative(t *testing.T) {
	content, _ := json.Marshal(map[string]any{
		"summary":         "Rendimiento por debajo de evaluaciones previas.",
		"observations":    []string{"Recuerdo diferido ausente."},
		"recommendations": []string{"Control en tres meses."},
	})
	mock := llm.NewMockProvider(llm.MockResponse{Content: content})
	svc := NewService(mock, DefaultConfig(), nil)
	assert.True(t, svc.UsesLLM())

	r := followUpReport()
	ch, ok := svc.Request(context.Background(), r)
	require.True(t, ok)
	res := waitResult(t, ch)

	require.NoError(t, res.Err)
	assert.Equal(t, "42", res.ReportID)
	assert.Equal(t, SourceLLM, res.Narrative.Source)
	assert.Equal(t, []string{"Control en tres meses."}, res.Narrative.Recommendations)
	assert.False(t, svc.Pending("42"))

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Equal(t, NarrativeSchema, call.Schema)
	prompt := call.Messages[0].Content
	assert.Contains(t, prompt, "Puntuación total: 18/30")
	assert.Contains(t, prompt, "- 2025-03-30: 20/30")
	assert.NotContains(t, prompt, "Antonio")
}

func TestService_FallsBackToTemplate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	svc := NewService(mock, DefaultConfig(), nil)

	n, err := svc.Generate(context.Background(), followUpReport())
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	require.NotNil(t, n)
	assert.Equal(t, SourceTemplate, n.Source)
}

func TestService_WithoutProvider(t *testing.T) {
	svc := NewService(nil, DefaultConfig(), nil)
	assert.False(t, svc.UsesLLM())
	n, err := svc.Generate(context.Background(), followUpReport())
	require.NoError(t, err)
	assert.Equal(t, SourceTemplate, n.Source)
}

// gatedProvider blocks until released so a request stays in flight.
type gatedProvider struct {
	*llm.MockProvider
	release chan struct{}
}

func (g gatedProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	<-g.release
	return g.MockProvider.Generate(ctx, req)
}

func TestService_OneRequestPerReport(t *testing.T) {
	gate := gatedProvider{MockProvider: llm.NewMockProvider(), release: make(chan struct{})}
	svc := NewService(gate, DefaultConfig(), nil)
	r := followUpReport()

	ch, ok := svc.Request(context.Background(), r)
	require.True(t, ok)
	assert.True(t, svc.Pending(r.ID))

	_, again := svc.Request(context.Background(), r)
	assert.False(t, again)

	close(gate.release)
	res := waitResult(t, ch)
	assert.Error(t, res.Err)
	assert.Equal(t, SourceTemplate, res.Narrative.Source)
}

func TestSave(t *testing.T) {
	s := openSeeded(t)
	ctx := context.Background()

	r, err := Load(ctx, s, "3")
	require.NoError(t, err)
	require.False(t, r.Generated())

	exec, _ := LookupTemplate("executive")
	require.NoError(t, Save(ctx, s.Reports(), r, TemplateNarrative(r), exec))
	assert.True(t, r.Generated())

	reloaded, err := Load(ctx, s, "3")
	require.NoError(t, err)
	assert.Equal(t, store.ReportGenerated, reloaded.Status)
	require.NotNil(t, reloaded.Narrative)
	assert.Equal(t, SourceTemplate, reloaded.Narrative.Source)

	missing := &Report{ID: "999"}
	assert.ErrorIs(t, Save(ctx, s.Reports(), missing, TemplateNarrative(r), exec), store.ErrNotFound)
}

func TestNewCompletion(t *testing.T) {
	catalog, err := assessment.DefaultCatalog(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	def := catalog.MustLookup(assessment.MoCAID)

	run := runner.New(def, runner.Options{PatientID: "P002"})
	run.Finish()
	o, err := run.Outcome()
	require.NoError(t, err)

	c := NewCompletion(o, def, "Dr. Martínez")
	assert.Equal(t, "P002", c.PatientID)
	assert.Equal(t, "MoCA", c.Test)
	assert.Equal(t, 30, c.MaxScore)
	assert.Equal(t, "manual", c.Reason)
	assert.Equal(t, o.RunID, c.RunID)
	total := 0
	for _, cat := range c.Categories {
		assert.NotZero(t, cat.MaxScore)
		total += cat.MaxScore
	}
	assert.Equal(t, 30, total)
}

func TestDeliverer(t *testing.T) {
	r := followUpReport()
	std, _ := LookupTemplate("standard")
	d := Deliverer{ExportDir: t.TempDir(), Format: FormatYAML}

	path, err := d.Download(r, std)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, ".yaml", filepath.Ext(path))

	assert.NoError(t, d.Email(r, "maria.garcia@ejemplo.com"))
	assert.ErrorIs(t, d.Email(r, ""), ErrNoRecipient)
	assert.Error(t, d.Email(r, "not an address"))
}
