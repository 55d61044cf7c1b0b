package reportview

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/cogniscreen/internal/reports"
	"github.com/abhisek/cogniscreen/internal/screen"
)

// GeneratedMsg is delivered when a narrative request finished and the
// report was saved as generated.
type GeneratedMsg struct {
	ReportID  string
	Template  string
	Narrative *reports.Narrative

	// Err is set when the LLM draft failed and the template narrative was
	// used instead.
	Err error

	// SaveErr is set when the report could not be stored.
	SaveErr error
}

// Notification announces the outcome in a toast.
func (m GeneratedMsg) Notification() screen.ToastMsg {
	switch {
	case m.SaveErr != nil:
		return screen.ToastMsg{Level: screen.ToastError, Text: fmt.Sprintf("No se pudo guardar el informe %s", m.ReportID)}
	case m.Err != nil:
		return screen.ToastMsg{Level: screen.ToastInfo, Text: fmt.Sprintf("Informe %s generado con la plantilla automática", m.ReportID)}
	}
	return screen.ToastMsg{Level: screen.ToastSuccess, Text: fmt.Sprintf("Informe %s generado", m.ReportID)}
}

// Generate drafts the narrative of r in the background and saves the report
// under t. At most one request per report runs at a time.
func Generate(deps screen.Deps, r *reports.Report, t reports.Template) tea.Cmd {
	rc := *r
	ch, ok := deps.Reports.Request(context.Background(), &rc)
	if !ok {
		return screen.Toast(screen.ToastInfo, fmt.Sprintf("El informe %s ya se está generando", r.ID))
	}
	repo := deps.Store.Reports()
	return func() tea.Msg {
		res := <-ch
		msg := GeneratedMsg{ReportID: res.ReportID, Template: t.ID, Narrative: res.Narrative, Err: res.Err}
		msg.SaveErr = reports.Save(context.Background(), repo, &rc, res.Narrative, t)
		return msg
	}
}

// Download exports r into the configured directory.
func Download(deps screen.Deps, r *reports.Report, t reports.Template) tea.Cmd {
	rc := *r
	return func() tea.Msg {
		path, err := deps.Deliverer.Download(&rc, t)
		if err != nil {
			return screen.ToastMsg{Level: screen.ToastError, Text: "No se pudo descargar: " + err.Error()}
		}
		return screen.ToastMsg{Level: screen.ToastSuccess, Text: "Descargado en " + path}
	}
}

// Email sends r to the given address.
func Email(deps screen.Deps, r *reports.Report, to string) tea.Cmd {
	rc := *r
	return func() tea.Msg {
		if err := deps.Deliverer.Email(&rc, to); err != nil {
			return screen.ToastMsg{Level: screen.ToastError, Text: "Dirección de correo no válida"}
		}
		return screen.ToastMsg{Level: screen.ToastSuccess, Text: "Informe enviado a " + to}
	}
}

// NextTemplate returns the template after current that applies to r,
// wrapping around.
func NextTemplate(r *reports.Report, current reports.Template) reports.Template {
	var applicable []reports.Template
	for _, t := range reports.Templates() {
		if t.Applies(r.DefinitionID) {
			applicable = append(applicable, t)
		}
	}
	for i, t := range applicable {
		if t.ID == current.ID {
			return applicable[(i+1)%len(applicable)]
		}
	}
	if len(applicable) > 0 {
		return applicable[0]
	}
	return current
}
