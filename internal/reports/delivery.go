package reports

import (
	"errors"
	"net/mail"

	"go.uber.org/zap"
)

// ErrNoRecipient is returned when a report is emailed without an address.
var ErrNoRecipient = errors.New("reports: no recipient address")

// Deliverer carries out the download and email actions. Email delivery is
// simulated: the action is validated and logged, nothing leaves the process.
type Deliverer struct {
	ExportDir string
	Format    Format
	Logger    *zap.Logger
}

func (d Deliverer) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Download writes r into the export directory and returns the file path.
func (d Deliverer) Download(r *Report, t Template) (string, error) {
	format := d.Format
	if format == "" {
		format = FormatMarkdown
	}
	dir := d.ExportDir
	if dir == "" {
		dir = "."
	}
	path, err := WriteFile(dir, r, t, format)
	if err != nil {
		return "", err
	}
	d.logger().Info("report downloaded",
		zap.String("report_id", r.ID), zap.String("template", t.ID), zap.String("path", path))
	return path, nil
}

// Email simulates sending r to the given address.
func (d Deliverer) Email(r *Report, to string) error {
	if to == "" {
		return ErrNoRecipient
	}
	addr, err := mail.ParseAddress(to)
	if err != nil {
		return err
	}
	d.logger().Info("report emailed",
		zap.String("report_id", r.ID), zap.String("to", addr.Address), zap.Bool("simulated", true))
	return nil
}
