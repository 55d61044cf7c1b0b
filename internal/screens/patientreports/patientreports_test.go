package patientreports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cogniscreen/internal/router"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/screens/reportview"
	st "github.com/abhisek/cogniscreen/internal/screens/screentest"
)

func newList(t *testing.T) *PatientReportsScreen {
	t.Helper()
	s := New(st.Deps(t).WithSession(st.Patient()))
	st.Start(s)
	return s
}

func TestListsOnlyOwnReports(t *testing.T) {
	s := newList(t)

	require.Len(t, s.rows, 3)
	for _, r := range s.rows {
		assert.Equal(t, "P001", r.PatientID)
	}
	assert.Contains(t, s.View(120, 30), "deterioro cognitivo leve")
}

func TestRequestCopy(t *testing.T) {
	s := newList(t)

	_, cmd := s.Update(st.Key("c"))

	toast, ok := st.Find[screen.ToastMsg](cmd)
	require.True(t, ok)
	assert.Equal(t, screen.ToastSuccess, toast.Level)
	assert.Contains(t, toast.Text, s.rows[0].ID)
}

func TestEnterOpensReadOnlyViewer(t *testing.T) {
	s := newList(t)

	_, cmd := s.Update(st.Key("enter"))

	push, ok := st.Find[router.PushScreenMsg](cmd)
	require.True(t, ok)
	viewer, ok := push.Screen.(*reportview.ReportViewScreen)
	require.True(t, ok)
	for _, h := range viewer.KeyHints() {
		assert.NotEqual(t, "Generar", h.Description)
	}
}

func TestNoSession(t *testing.T) {
	deps := st.Deps(t)
	deps.Session = nil
	s := New(deps)
	st.Start(s)

	assert.Contains(t, s.View(100, 30), "Error")
}
