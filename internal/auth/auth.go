// Package auth holds the demo credential directory and the explicit session
// value that replaces ambient login flags.
package auth

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// CodeLength is the number of digits in a patient access code.
const CodeLength = 6

// Advisory login errors. None of them block a retry.
var (
	ErrMissingFields      = errors.New("auth: missing fields")
	ErrCodeLength         = errors.New("auth: access code must be 6 digits")
	ErrInvalidCode        = errors.New("auth: invalid access code")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// Message returns the text shown to the user for a login error.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingFields):
		return "Por favor complete todos los campos"
	case errors.Is(err, ErrCodeLength):
		return "El código debe tener 6 dígitos"
	case errors.Is(err, ErrInvalidCode):
		return "Código de acceso no válido"
	case errors.Is(err, ErrInvalidCredentials):
		return "Correo o contraseña incorrectos"
	}
	return "No se pudo iniciar sesión"
}

// Role distinguishes clinicians from patients.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Session is the logged-in identity. It lives as long as the root model
// holds it; logging out drops it.
type Session struct {
	Role      Role
	Email     string
	Name      string
	Specialty string
	PatientID string
	StartedAt time.Time
}

// IsDoctor reports whether the session belongs to a clinician.
func (s *Session) IsDoctor() bool { return s != nil && s.Role == RoleDoctor }

// Profile returns the display line for the header.
func (s *Session) Profile() string {
	if s == nil {
		return ""
	}
	if s.Specialty != "" {
		return s.Name + " · " + s.Specialty
	}
	return s.Name
}

// Doctor is a clinician account.
type Doctor struct {
	Email        string
	PasswordHash []byte
	Name         string
	Specialty    string
}

// Directory resolves credentials to sessions.
type Directory struct {
	doctors map[string]Doctor
	codes   map[string]string
	now     func() time.Time
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		doctors: make(map[string]Doctor),
		codes:   make(map[string]string),
		now:     time.Now,
	}
}

// DefaultDirectory returns the demo accounts.
func DefaultDirectory() (*Directory, error) {
	d := NewDirectory()
	if err := d.AddDoctor("doctor@ejemplo.com", "doctor123", "Dr. Martínez", "Neurología"); err != nil {
		return nil, err
	}
	if err := d.AddPatientCode("123456", "P001"); err != nil {
		return nil, err
	}
	return d, nil
}

// AddDoctor registers a clinician, hashing the password.
func (d *Directory) AddDoctor(email, password, name, specialty string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	d.doctors[normalizeEmail(email)] = Doctor{
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Name:         name,
		Specialty:    specialty,
	}
	return nil
}

// AddPatientCode maps an access code to a patient.
func (d *Directory) AddPatientCode(code, patientID string) error {
	if err := checkCode(code); err != nil {
		return err
	}
	d.codes[code] = patientID
	return nil
}

// LoginDoctor checks clinician credentials.
func (d *Directory) LoginDoctor(email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}
	doc, ok := d.doctors[email]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(doc.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Session{
		Role:      RoleDoctor,
		Email:     doc.Email,
		Name:      doc.Name,
		Specialty: doc.Specialty,
		StartedAt: d.now(),
	}, nil
}

// LoginPatient checks a patient access code.
func (d *Directory) LoginPatient(code string) (*Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrMissingFields
	}
	if err := checkCode(code); err != nil {
		return nil, err
	}
	patientID, ok := d.codes[code]
	if !ok {
		return nil, ErrInvalidCode
	}
	return &Session{
		Role:      RolePatient,
		Name:      "Paciente",
		PatientID: patientID,
		StartedAt: d.now(),
	}, nil
}

func checkCode(code string) error {
	if len(code) != CodeLength {
		return ErrCodeLength
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return ErrCodeLength
		}
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
