package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	asmt "github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/router"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/screens/assessment"
	"github.com/abhisek/cogniscreen/internal/screens/patients"
	st "github.com/abhisek/cogniscreen/internal/screens/screentest"
)

func TestCatalogLoads(t *testing.T) {
	s := New(st.Deps(t))
	st.Start(s)

	require.Len(t, s.rows, 5)
	assert.Contains(t, s.View(120, 30), "Trail Making Test")
}

func TestAvailableTestPicksPatient(t *testing.T) {
	s := New(st.Deps(t))
	st.Start(s)

	_, cmds := st.Send(s, st.Key("enter"))

	msg, ok := st.Find[router.PushScreenMsg](cmds...)
	require.True(t, ok)
	assert.IsType(t, &patients.PatientsScreen{}, msg.Screen)
}

func TestForPatientStartsDirectly(t *testing.T) {
	deps := st.Deps(t)
	p, err := deps.Store.Patients().Get(context.Background(), "P003")
	require.NoError(t, err)

	s := ForPatient(deps, *p)
	st.Start(s)
	assert.Contains(t, s.Title(), "Ana Martínez")

	_, cmds := st.Send(s, st.Key("down"), st.Key("enter"))

	msg, ok := st.Find[router.ReplaceScreenMsg](cmds...)
	require.True(t, ok)
	run, ok := msg.Screen.(*assessment.AssessmentScreen)
	require.True(t, ok)
	assert.Equal(t, asmt.MoCAID, run.Runner().Definition().ID)
	assert.Equal(t, "P003", run.Runner().PatientID())
}

func TestUnavailableTestCannotBeApplied(t *testing.T) {
	s := New(st.Deps(t))
	st.Start(s)

	_, cmds := st.Send(s, st.Key("down"), st.Key("down"), st.Key("down"), st.Key("enter"))

	_, pushed := st.Find[router.PushScreenMsg](cmds...)
	assert.False(t, pushed)
	toast, ok := st.Find[screen.ToastMsg](cmds...)
	require.True(t, ok)
	assert.Contains(t, toast.Text, "Test de Fluidez Verbal")
	assert.Contains(t, s.View(120, 30), "en desarrollo")
}

func TestSearch(t *testing.T) {
	s := New(st.Deps(t))
	st.Start(s)

	_, cmds := st.Send(s, st.Key("/"), st.Key("r"), st.Key("e"), st.Key("l"))
	st.Send(s, st.Msgs(cmds...)...)

	require.Len(t, s.rows, 1)
	assert.Equal(t, "Prueba del Reloj", s.rows[0].Name)
}
