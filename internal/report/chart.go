package report

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/terraincognita07/fetalrisk/internal/models"
)

const (
	chartWidth   = 900
	chartHeight  = 320
	chartPadding = 48.0

	warningThreshold  = 0.35
	criticalThreshold = 0.7
)

var levelColors = map[string]color.RGBA{
	models.RiskLevelNormal:   {R: 46, G: 160, B: 67, A: 255},
	models.RiskLevelWarning:  {R: 230, G: 150, B: 20, A: 255},
	models.RiskLevelCritical: {R: 210, G: 40, B: 40, A: 255},
}

// RenderTrendChart draws evaluation scores in chronological order as a PNG.
// Missing scores are plotted as 0.1.
func RenderTrendChart(evaluations []models.RiskEvaluation) ([]byte, error) {
	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	left, right := chartPadding, float64(chartWidth)-chartPadding/2
	top, bottom := chartPadding/2, float64(chartHeight)-chartPadding
	plotHeight := bottom - top

	scoreY := func(score float64) float64 {
		return bottom - score*plotHeight
	}

	dc.SetRGB(0.85, 0.85, 0.85)
	dc.SetLineWidth(1)
	for _, threshold := range []float64{warningThreshold, criticalThreshold} {
		dc.DrawLine(left, scoreY(threshold), right, scoreY(threshold))
		dc.Stroke()
	}

	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(1.5)
	dc.DrawLine(left, top, left, bottom)
	dc.DrawLine(left, bottom, right, bottom)
	dc.Stroke()
	for _, tick := range []float64{0, 0.5, 1} {
		dc.DrawStringAnchored(fmt.Sprintf("%.1f", tick), left-8, scoreY(tick), 1, 0.5)
	}
	dc.DrawStringAnchored("Risk score trend", (left+right)/2, top/2+4, 0.5, 0.5)

	if len(evaluations) == 0 {
		dc.DrawStringAnchored("No evaluations", (left+right)/2, (top+bottom)/2, 0.5, 0.5)
		return encodePNG(dc)
	}

	step := 0.0
	if len(evaluations) > 1 {
		step = (right - left - 20) / float64(len(evaluations)-1)
	}
	pointX := func(index int) float64 {
		if len(evaluations) == 1 {
			return (left + right) / 2
		}
		return left + 10 + float64(index)*step
	}

	dc.SetRGB(0.25, 0.4, 0.8)
	dc.SetLineWidth(2)
	for index := 1; index < len(evaluations); index++ {
		dc.DrawLine(
			pointX(index-1), scoreY(evaluations[index-1].ScoreOr(0.1)),
			pointX(index), scoreY(evaluations[index].ScoreOr(0.1)),
		)
	}
	dc.Stroke()

	for index, evaluation := range evaluations {
		fill, ok := levelColors[evaluation.RiskLevel]
		if !ok {
			fill = color.RGBA{R: 120, G: 120, B: 120, A: 255}
		}
		dc.SetColor(fill)
		dc.DrawCircle(pointX(index), scoreY(evaluation.ScoreOr(0.1)), 4)
		dc.Fill()
	}

	return encodePNG(dc)
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buffer bytes.Buffer
	if err := dc.EncodePNG(&buffer); err != nil {
		return nil, fmt.Errorf("encode chart png: %w", err)
	}
	return buffer.Bytes(), nil
}
