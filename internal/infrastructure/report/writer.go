package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateWriter produces guardian report narratives from fixed phrase bands.
// It stands in for an external narrative service; swapping in one only
// requires another assessment.ReportWriter implementation.
type TemplateWriter struct {
	logger *zap.Logger
	titler cases.Caser
}

// NewTemplateWriter creates a new template-based report writer
func NewTemplateWriter(logger *zap.Logger) *TemplateWriter {
	return &TemplateWriter{
		logger: logger,
		titler: cases.Title(language.English, cases.NoLower),
	}
}

var hundred = decimal.NewFromInt(100)

// WriteReport composes a short narrative for a result. The comment, when
// present, is appended verbatim as the teacher's remark.
func (w *TemplateWriter) WriteReport(ctx context.Context, studentName string, score, maxScore decimal.Decimal, comment string) (string, error) {
	if maxScore.IsZero() {
		return "", fmt.Errorf("max score must be positive")
	}

	// Kiosk-entered names arrive in whatever casing the pad produced.
	studentName = w.titler.String(studentName)

	pct := score.Div(maxScore).Mul(hundred).Round(1)

	var band string
	switch {
	case pct.GreaterThanOrEqual(decimal.NewFromInt(90)):
		band = "an excellent result"
	case pct.GreaterThanOrEqual(decimal.NewFromInt(75)):
		band = "a strong result"
	case pct.GreaterThanOrEqual(decimal.NewFromInt(60)):
		band = "a solid result with room to grow"
	default:
		band = "a result we will work on together"
	}

	text := fmt.Sprintf("%s scored %s out of %s (%s%%), %s.",
		studentName, score.String(), maxScore.String(), pct.String(), band)
	if comment != "" {
		text += " Teacher's note: " + comment
	}

	w.logger.Debug("Generated guardian report",
		zap.String("student", studentName),
		zap.String("percentage", pct.String()),
	)
	return text, nil
}
