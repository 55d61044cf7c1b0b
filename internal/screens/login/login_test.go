package login

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cogniscreen/internal/auth"
	"github.com/abhisek/cogniscreen/internal/screen"
	st "github.com/abhisek/cogniscreen/internal/screens/screentest"
)

func newTestLogin(t *testing.T) *LoginScreen {
	t.Helper()
	dir, err := auth.DefaultDirectory()
	require.NoError(t, err)
	return New(dir, "Clínica Memoria")
}

func TestDoctorLogin(t *testing.T) {
	s := newTestLogin(t)

	var sc screen.Screen = s
	sc = st.Type(sc, "doctor@ejemplo.com")
	sc, _ = sc.Update(st.Key("enter")) // moves to password
	sc = st.Type(sc, "doctor123")
	_, cmd := sc.Update(st.Key("enter"))

	msg, ok := st.Find[screen.LoginMsg](cmd)
	require.True(t, ok)
	assert.Equal(t, auth.RoleDoctor, msg.Session.Role)
	assert.Equal(t, "Dr. Martínez · Neurología", msg.Session.Profile())
	assert.Empty(t, s.password.Value(), "password is cleared after login")
}

func TestDoctorLogin_WrongPassword(t *testing.T) {
	s := newTestLogin(t)

	var sc screen.Screen = s
	sc = st.Type(sc, "doctor@ejemplo.com")
	sc, _ = sc.Update(st.Key("tab"))
	sc = st.Type(sc, "nope")
	_, cmd := sc.Update(st.Key("enter"))

	assert.Nil(t, cmd)
	assert.Equal(t, "Correo o contraseña incorrectos", s.errMsg)
	assert.Contains(t, s.View(100, 30), "Correo o contraseña incorrectos")
}

func TestDoctorLogin_MissingFields(t *testing.T) {
	s := newTestLogin(t)

	s.Update(st.Key("tab"))
	_, cmd := s.Update(st.Key("enter"))

	assert.Nil(t, cmd)
	assert.Equal(t, "Por favor complete todos los campos", s.errMsg)
}

func TestPatientLogin(t *testing.T) {
	s := newTestLogin(t)

	// Focus the role selector and switch to the patient form.
	s.Update(st.Key("shift+tab"))
	require.Equal(t, focusRole, s.focus)
	s.Update(st.Key("right"))
	require.True(t, s.patient())
	s.Update(st.Key("tab"))

	var sc screen.Screen = s
	sc = st.Type(sc, "12a3456")
	assert.Equal(t, "123456", s.code.Value(), "letters are dropped from the code")

	_, cmd := sc.Update(st.Key("enter"))
	msg, ok := st.Find[screen.LoginMsg](cmd)
	require.True(t, ok)
	assert.Equal(t, auth.RolePatient, msg.Session.Role)
	assert.Equal(t, "P001", msg.Session.PatientID)
}

func TestPatientLogin_ShortCode(t *testing.T) {
	s := newTestLogin(t)
	s.Update(st.Key("shift+tab"))
	s.Update(st.Key("space"))
	s.Update(st.Key("tab"))

	st.Type(s, "123")
	_, cmd := s.Update(st.Key("enter"))

	assert.Nil(t, cmd)
	assert.Equal(t, "El código debe tener 6 dígitos", s.errMsg)
}

func TestSwitchingRoleClearsError(t *testing.T) {
	s := newTestLogin(t)
	s.Update(st.Key("tab"))
	s.Update(st.Key("enter"))
	require.NotEmpty(t, s.errMsg)

	s.Update(st.Key("tab")) // wraps to the role selector
	require.Equal(t, focusRole, s.focus)
	s.Update(st.Key("left"))

	assert.Empty(t, s.errMsg)
	assert.Contains(t, s.View(100, 30), "Código de acceso")
}
