package patienthome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	asmt "github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/router"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/screens/assessment"
	"github.com/abhisek/cogniscreen/internal/screens/patientreports"
	st "github.com/abhisek/cogniscreen/internal/screens/screentest"
)

func newHome(t *testing.T) *PatientHomeScreen {
	t.Helper()
	s := New(st.Deps(t).WithSession(st.Patient()))
	st.Start(s)
	return s
}

func TestLoadsOwnData(t *testing.T) {
	s := newHome(t)

	require.NotNil(t, s.patient)
	assert.Equal(t, "P001", s.patient.ID)
	assert.Len(t, s.results, 3)
	assert.Contains(t, s.View(120, 30), "Hola, María García")
	assert.True(t, s.HandlesEscape())
}

func TestStartSelfAssessment(t *testing.T) {
	s := newHome(t)

	_, cmd := s.Update(st.Key("enter"))

	push, ok := st.Find[router.PushScreenMsg](cmd)
	require.True(t, ok)
	run, ok := push.Screen.(*assessment.AssessmentScreen)
	require.True(t, ok)
	assert.Equal(t, asmt.SelfMMSEID, run.Runner().Definition().ID)
	assert.Equal(t, "P001", run.Runner().PatientID())
}

func TestMyReports(t *testing.T) {
	s := newHome(t)

	_, cmds := st.Send(s, st.Key("down"), st.Key("enter"))

	push, ok := st.Find[router.PushScreenMsg](cmds...)
	require.True(t, ok)
	assert.IsType(t, &patientreports.PatientReportsScreen{}, push.Screen)
}

func TestUnknownPatient(t *testing.T) {
	deps := st.Deps(t)
	sess := st.Patient()
	sess.PatientID = "P999"
	s := New(deps.WithSession(sess))
	st.Start(s)

	assert.Nil(t, s.patient)
	_, cmd := s.Update(st.Key("enter"))
	toast, ok := st.Find[screen.ToastMsg](cmd)
	require.True(t, ok)
	assert.Equal(t, screen.ToastError, toast.Level)
}
