package reports

import (
	"fmt"
	"strings"
)

const narrativeSystemPrompt = `Eres un neuropsicólogo que redacta la interpretación de una prueba de cribado cognitivo para la historia clínica. Escribe en español, con tono profesional y prudente. No establezcas diagnósticos: describe el rendimiento observado y sugiere pasos de seguimiento.`

func buildNarrativeUserMessage(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Prueba: %s\n", r.Test)
	fmt.Fprintf(&b, "Fecha: %s\n", r.Date)
	fmt.Fprintf(&b, "Puntuación total: %d/%d (%.0f%%)\n", r.Score, r.MaxScore, r.Percent())

	b.WriteString("\nCategorías:\n")
	if len(r.Categories) == 0 {
		b.WriteString("Sin desglose\n")
	}
	for _, c := range r.Categories {
		fmt.Fprintf(&b, "- %s: %d/%d\n", c.Name, c.Score, c.MaxScore)
	}

	if len(r.History) > 1 {
		b.WriteString("\nEvaluaciones anteriores de la misma prueba:\n")
		for _, h := range r.History[:len(r.History)-1] {
			fmt.Fprintf(&b, "- %s: %d/%d\n", h.Date, h.Score, h.MaxScore)
		}
	}

	if r.Notes != "" {
		fmt.Fprintf(&b, "\nNotas del clínico:\n%s\n", r.Notes)
	}

	b.WriteString(`
Instrucciones:
1. Resume el resultado en 2-4 frases.
2. Señala los dominios con menor rendimiento y, si hay evaluaciones anteriores, la evolución.
3. Propón de 1 a 3 recomendaciones de seguimiento.
No incluyas el nombre del paciente.`)

	return b.String()
}
