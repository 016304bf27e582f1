// Package report renders the downloadable patient risk report.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/terraincognita07/fetalrisk/internal/models"
)

const trendChartImage = "risk-trend"

type Input struct {
	Patient     models.Patient
	Evaluations []models.RiskEvaluation
	GeneratedAt time.Time
	Location    *time.Location
}

func Filename(patientID uint) string {
	return fmt.Sprintf("fetal_risk_report_patient_%d.pdf", patientID)
}

// Render builds the PDF. Evaluations are expected oldest first.
func Render(input Input) ([]byte, error) {
	location := input.Location
	if location == nil {
		location = time.UTC
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Fetal Risk Report", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	line := func(style string, size float64, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.MultiCell(0, size*0.5, tr(text), "", "L", false)
	}

	line("B", 20, "Fetal Risk Report")
	pdf.Ln(4)

	patient := input.Patient
	line("", 12, "Patient: "+patient.Name)
	line("", 12, "Age: "+optionalInt(patient.Age))
	line("", 12, fmt.Sprintf("Gestation: %s weeks", optionalInt(patient.GestationWeeks)))
	pdf.Ln(2)
	line("I", 9, "Generated at: "+input.GeneratedAt.In(location).Format("2006-01-02 15:04:05 MST"))
	pdf.Ln(6)

	if len(input.Evaluations) == 0 {
		line("I", 12, "No risk evaluations yet for this patient.")
		return output(pdf)
	}

	chart, err := RenderTrendChart(input.Evaluations)
	if err != nil {
		return nil, err
	}
	options := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(trendChartImage, options, bytes.NewReader(chart))
	pdf.ImageOptions(trendChartImage, pdf.GetX(), pdf.GetY(), 180, 64, true, options, 0, "")
	pdf.Ln(4)

	line("B", 14, "Risk Evaluations")
	pdf.Ln(3)

	for index, evaluation := range input.Evaluations {
		line("B", 12, fmt.Sprintf("#%d", index+1))
		line("", 11, "Time:   "+evaluation.CreatedAt.In(location).Format("2006-01-02 15:04:05 MST"))
		line("", 11, "Level:  "+strings.ToUpper(evaluation.RiskLevel))
		line("", 11, fmt.Sprintf("Score:  %.3f", evaluation.ScoreOr(0)))
		line("", 11, "Reason: "+evaluation.Reason)

		if reading := evaluation.Reading; reading != nil {
			line("B", 11, "Vitals:")
			line("", 11, fmt.Sprintf("  Maternal HR: %s bpm", optionalInt(reading.MaternalHR)))
			line("", 11, fmt.Sprintf("  BP: %s/%s mmHg", optionalInt(reading.SystolicBP), optionalInt(reading.DiastolicBP)))
			line("", 11, fmt.Sprintf("  Fetal HR: %s bpm", optionalInt(reading.FetalHR)))
			line("", 11, "  Movements: "+optionalInt(reading.FetalMovementCount))
			line("", 11, fmt.Sprintf("  SpO2: %s%%", optionalInt(reading.SpO2)))
			line("", 11, fmt.Sprintf("  Temperature: %s °C", optionalFloat(reading.Temperature)))
		}
		pdf.Ln(4)
	}

	return output(pdf)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buffer.Bytes(), nil
}

func optionalInt(value *int) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%d", *value)
}

func optionalFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *value)
}
