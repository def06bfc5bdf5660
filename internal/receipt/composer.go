// internal/receipt/composer.go
package receipt

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"printer-service/pkg/driver"
)

// Composer drives a PrinterDriver through a template
type Composer struct {
	template Template
	logger   *zap.Logger
	now      func() time.Time
}

// NewComposer creates a composer for template
func NewComposer(template Template, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		template: template,
		logger:   logger.With(zap.String("component", "receipt"), zap.String("template", template.Name)),
		now:      time.Now,
	}
}

// Template returns the template the composer prints
func (c *Composer) Template() Template {
	return c.template
}

// Compose encodes one complete receipt into d: init, every template line,
// then a cut where the model supports one. The first driver error stops
// the job.
func (c *Composer) Compose(d driver.PrinterDriver, fields Fields) error {
	now := c.now()

	if err := d.InitPrinter(); err != nil {
		return fmt.Errorf("init printer: %w", err)
	}

	for i, line := range c.template.Lines {
		if err := c.emit(d, line, fields, now); err != nil {
			return fmt.Errorf("receipt line %d: %w", i, err)
		}
	}

	if err := d.Cut(); err != nil && !errors.Is(err, driver.ErrNotSupported) {
		return fmt.Errorf("cut: %w", err)
	}

	c.logger.Debug("Receipt composed",
		zap.String("printer_model", string(d.Model())),
		zap.Int("lines", len(c.template.Lines)),
		zap.Int("fields", fields.Len()),
	)
	return nil
}

func (c *Composer) emit(d driver.PrinterDriver, line Line, fields Fields, now time.Time) error {
	col := func(i int) string {
		if i >= len(line.Columns) {
			return ""
		}
		return expand(line.Columns[i], fields, now)
	}

	switch line.Kind {
	case KindText:
		return d.AddAlignedString(col(0), line.Text)
	case KindTwoColumns:
		return d.AddTwoAlignedStrings(col(0), col(1), line.Row)
	case KindThreeColumns:
		return d.AddThreeAlignedStrings(col(0), col(1), col(2), line.Row)
	case KindSeparator:
		return d.AddSeparatorLine(line.Align)
	case KindBitmap:
		return d.AddBitmap(col(0), line.Align)
	case KindLineFeeds:
		return d.AddLineFeeds(line.Feeds)
	default:
		return fmt.Errorf("unknown line kind %d", line.Kind)
	}
}
