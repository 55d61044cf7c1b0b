package reports

import "fmt"

// Block is a part of a rendered report.
type Block int

const (
	BlockHeader Block = iota
	BlockCategories
	BlockHistory
	BlockNotes
	BlockSummary
	BlockNarrative
	BlockSignature
)

// Template selects the blocks a report renders.
type Template struct {
	ID          string
	Name        string
	Description string
	Blocks      []Block

	// Definitions restricts the template to some assessments. Empty means all.
	Definitions []string
}

// DefaultTemplate is used when none is chosen.
const DefaultTemplate = "standard"

var templates = []Template{
	{
		ID:          "standard",
		Name:        "Informe Estándar",
		Description: "Plantilla general para todos los tipos de pruebas",
		Blocks:      []Block{BlockHeader, BlockCategories, BlockNotes, BlockNarrative, BlockSignature},
	},
	{
		ID:          "detailed-mmse",
		Name:        "Informe Detallado MMSE",
		Description: "Análisis detallado de resultados MMSE",
		Blocks:      []Block{BlockHeader, BlockCategories, BlockHistory, BlockNotes, BlockNarrative, BlockSignature},
		Definitions: []string{"mmse", "mmse-self"},
	},
	{
		ID:          "moca-graphs",
		Name:        "Informe MoCA con Gráficos",
		Description: "Incluye gráficos comparativos",
		Blocks:      []Block{BlockHeader, BlockCategories, BlockHistory, BlockNarrative, BlockSignature},
		Definitions: []string{"moca"},
	},
	{
		ID:          "executive",
		Name:        "Reporte Ejecutivo",
		Description: "Versión resumida para revisión rápida",
		Blocks:      []Block{BlockHeader, BlockSummary},
	},
}

// Templates returns the report templates in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// LookupTemplate returns the template with the given ID.
func LookupTemplate(id string) (Template, error) {
	for _, t := range templates {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("unknown report template %q", id)
}

// Has reports whether the template renders b.
func (t Template) Has(b Block) bool {
	for _, x := range t.Blocks {
		if x == b {
			return true
		}
	}
	return false
}

// Applies reports whether the template suits reports of definitionID.
func (t Template) Applies(definitionID string) bool {
	if len(t.Definitions) == 0 {
		return true
	}
	for _, d := range t.Definitions {
		if d == definitionID {
			return true
		}
	}
	return false
}

// TemplateFor returns id when it applies to r, else the default template.
func TemplateFor(id string, r *Report) Template {
	if t, err := LookupTemplate(id); err == nil && t.Applies(r.DefinitionID) {
		return t
	}
	t, _ := LookupTemplate(DefaultTemplate)
	return t
}
