package reports

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/cogniscreen/internal/assessment"
)

// Format is an export file format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

// ParseFormat accepts "markdown", "md", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want markdown or yaml)", s)
}

// Ext returns the file extension for f.
func (f Format) Ext() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".md"
}

// exportDoc is the YAML shape of an exported report.
type exportDoc struct {
	ID         string           `yaml:"id"`
	Template   string           `yaml:"template"`
	Clinic     string           `yaml:"clinic,omitempty"`
	Patient    exportPatient    `yaml:"patient"`
	Test       string           `yaml:"test"`
	Definition string           `yaml:"definition"`
	Date       string           `yaml:"date"`
	Score      int              `yaml:"score"`
	MaxScore   int              `yaml:"maxScore"`
	Doctor     string           `yaml:"doctor"`
	Status     string           `yaml:"status"`
	Categories []categoryExport `yaml:"categories,omitempty"`
	History    []historyExport  `yaml:"history,omitempty"`
	Notes      string           `yaml:"notes,omitempty"`
	Narrative  *Narrative       `yaml:"narrative,omitempty"`
}

type exportPatient struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type categoryExport struct {
	Name     string `yaml:"name"`
	Score    int    `yaml:"score"`
	MaxScore int    `yaml:"maxScore"`
}

type historyExport struct {
	Date     string `yaml:"date"`
	Score    int    `yaml:"score"`
	MaxScore int    `yaml:"maxScore"`
}

// Export writes r through template t in the given format.
func Export(w io.Writer, r *Report, t Template, format Format) error {
	switch format {
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r, t))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newExportDoc(r, t)); err != nil {
			return fmt.Errorf("encode report %s: %w", r.ID, err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown export format %q", format)
}

func newExportDoc(r *Report, t Template) exportDoc {
	doc := exportDoc{
		ID:         r.ID,
		Template:   t.ID,
		Clinic:     r.Clinic,
		Patient:    exportPatient{ID: r.PatientID, Name: r.PatientName},
		Test:       r.Test,
		Definition: r.DefinitionID,
		Date:       r.Date,
		Score:      r.Score,
		MaxScore:   r.MaxScore,
		Doctor:     r.Doctor,
		Status:     r.Status,
	}
	if t.Has(BlockCategories) {
		for _, c := range r.Categories {
			doc.Categories = append(doc.Categories, categoryExport(c))
		}
	}
	if t.Has(BlockHistory) {
		for _, h := range r.History {
			doc.History = append(doc.History, historyExport{Date: h.Date, Score: h.Score, MaxScore: h.MaxScore})
		}
	}
	if t.Has(BlockNotes) {
		doc.Notes = r.Notes
	}
	if r.Narrative != nil {
		n := *r.Narrative
		if !t.Has(BlockNarrative) {
			n.Observations, n.Recommendations = nil, nil
		}
		if t.Has(BlockNarrative) || t.Has(BlockSummary) {
			doc.Narrative = &n
		}
	}
	return doc
}

// Markdown renders r through t as a Markdown document.
func Markdown(r *Report, t Template) string {
	var b strings.Builder
	title := t.Name
	if r.Clinic != "" {
		title = r.Clinic + ": " + title
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, blk := range t.Blocks {
		switch blk {
		case BlockHeader:
			b.WriteString("| Campo | Valor |\n|---|---|\n")
			fmt.Fprintf(&b, "| Informe | %s |\n", r.ID)
			fmt.Fprintf(&b, "| Paciente | %s (%s) |\n", r.PatientName, r.PatientID)
			fmt.Fprintf(&b, "| Prueba | %s |\n", r.Test)
			fmt.Fprintf(&b, "| Fecha | %s |\n", r.Date)
			fmt.Fprintf(&b, "| Puntuación | %d/%d |\n", r.Score, r.MaxScore)
			fmt.Fprintf(&b, "| Médico | %s |\n", r.Doctor)
			fmt.Fprintf(&b, "| Estado | %s |\n\n", r.Status)
		case BlockCategories:
			if len(r.Categories) == 0 {
				continue
			}
			b.WriteString("## Categorías\n\n")
			for _, c := range r.Categories {
				fmt.Fprintf(&b, "- **%s**: %d/%d\n", c.Name, c.Score, c.MaxScore)
			}
			b.WriteString("\n")
		case BlockHistory:
			if len(r.History) < 2 {
				continue
			}
			b.WriteString("## Evolución\n\n")
			for _, h := range r.History {
				fmt.Fprintf(&b, "- %s: %d/%d `%s`\n", h.Date, h.Score, h.MaxScore, Bar(h.Score, h.MaxScore, 10))
			}
			b.WriteString("\n")
		case BlockNotes:
			notes := r.Notes
			if notes == "" {
				notes = "No hay notas disponibles para este informe."
			}
			fmt.Fprintf(&b, "## Notas\n\n%s\n\n", notes)
		case BlockSummary, BlockNarrative:
			b.WriteString("## Interpretación\n\n")
			if r.Narrative == nil {
				b.WriteString("_Pendiente de generar._\n\n")
				continue
			}
			fmt.Fprintf(&b, "%s\n\n", r.Narrative.Summary)
			if blk == BlockSummary {
				continue
			}
			writeMarkdownList(&b, "Observaciones", r.Narrative.Observations)
			writeMarkdownList(&b, "Recomendaciones", r.Narrative.Recommendations)
		case BlockSignature:
			if r.Doctor != "" {
				fmt.Fprintf(&b, "---\n\n%s\n", r.Doctor)
			}
		}
	}
	return b.String()
}

func writeMarkdownList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

// FileName returns the export file name of r, e.g. "informe-1-maria-garcia.md".
func FileName(r *Report, format Format) string {
	return fmt.Sprintf("informe-%s-%s%s", r.ID, slug(r.PatientName), format.Ext())
}

// WriteFile exports r into dir and returns the written path.
func WriteFile(dir string, r *Report, t Template, format Format) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(r, format))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := Export(f, r, t, format); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range assessment.FoldAccents(strings.ToLower(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
