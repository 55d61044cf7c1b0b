package screen

import (
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/auth"
	"github.com/abhisek/cogniscreen/internal/reports"
	"github.com/abhisek/cogniscreen/internal/store"
)

// Deps carries the services screens are built with. The app fills Session
// after login; screens never read a session from anywhere else.
type Deps struct {
	Store     *store.Store
	Catalog   *assessment.Catalog
	Directory *auth.Directory
	Reports   *reports.Service
	Deliverer reports.Deliverer
	Logger    *zap.Logger

	// TimeLimit overrides every definition's countdown when positive.
	TimeLimit time.Duration

	// Template is the default report template ID.
	Template string

	// Clinic is printed in headers and reports.
	Clinic string

	Session *auth.Session

	// Now defaults to time.Now.
	Now func() time.Time
}

// WithSession returns a copy of d bound to s.
func (d Deps) WithSession(s *auth.Session) Deps {
	d.Session = s
	return d
}

// Clock returns d.Now, or time.Now when unset.
func (d Deps) Clock() func() time.Time {
	if d.Now != nil {
		return d.Now
	}
	return time.Now
}

// Log returns the logger, or a no-op logger when unset.
func (d Deps) Log() *zap.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return zap.NewNop()
}

// Doctor returns the signed-in clinician's display name, empty for patients.
func (d Deps) Doctor() string {
	if d.Session.IsDoctor() {
		return d.Session.Name
	}
	return ""
}
