package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginDoctor(t *testing.T) {
	dir, err := DefaultDirectory()
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "doctor@ejemplo.com", "doctor123", nil},
		{"email case and padding", "  Doctor@Ejemplo.com ", "doctor123", nil},
		{"wrong password", "doctor@ejemplo.com", "doctor124", ErrInvalidCredentials},
		{"unknown email", "otro@ejemplo.com", "doctor123", ErrInvalidCredentials},
		{"missing password", "doctor@ejemplo.com", "", ErrMissingFields},
		{"missing email", "", "doctor123", ErrMissingFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := dir.LoginDoctor(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, RoleDoctor, s.Role)
			assert.Equal(t, "Dr. Martínez · Neurología", s.Profile())
			assert.True(t, s.IsDoctor())
		})
	}
}

func TestLoginPatient(t *testing.T) {
	dir, err := DefaultDirectory()
	require.NoError(t, err)

	s, err := dir.LoginPatient("123456")
	require.NoError(t, err)
	assert.Equal(t, RolePatient, s.Role)
	assert.Equal(t, "P001", s.PatientID)
	assert.False(t, s.IsDoctor())

	_, err = dir.LoginPatient("")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = dir.LoginPatient("12345")
	assert.ErrorIs(t, err, ErrCodeLength)

	_, err = dir.LoginPatient("12345a")
	assert.ErrorIs(t, err, ErrCodeLength)

	_, err = dir.LoginPatient("654321")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestAddPatientCode_RejectsMalformed(t *testing.T) {
	dir := NewDirectory()
	assert.ErrorIs(t, dir.AddPatientCode("1234567", "P002"), ErrCodeLength)
}

func TestNilSession(t *testing.T) {
	var s *Session
	assert.False(t, s.IsDoctor())
	assert.Empty(t, s.Profile())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "El código debe tener 6 dígitos", Message(ErrCodeLength))
	assert.Equal(t, "Por favor complete todos los campos", Message(ErrMissingFields))
	assert.Empty(t, Message(nil))
}
