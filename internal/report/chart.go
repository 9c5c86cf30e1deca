package report

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/findosh/fundsim/internal/models"
	"github.com/findosh/fundsim/internal/services/simulation"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToChart is returned when the metrics carry no projection
var ErrNothingToChart = errors.New("no projection to chart")

// ProjectionChart renders the optimistic and pessimistic value paths up to
// the longest projected horizon as a PNG.
func ProjectionChart(m *models.DerivedMetrics) ([]byte, error) {
	years := 0
	for _, p := range m.Projections {
		if p.Years > years {
			years = p.Years
		}
	}
	if years < 1 {
		return nil, ErrNothingToChart
	}

	xValues := make([]float64, years+1)
	optimistic := make([]float64, years+1)
	pessimistic := make([]float64, years+1)
	lo, hi := math.Inf(1), math.Inf(-1)

	for y := 0; y <= years; y++ {
		p := simulation.Project(m.TotalInvestment, m.ExpectedReturn, m.Volatility, y)
		xValues[y] = float64(y)
		optimistic[y] = p.Optimistic
		pessimistic[y] = p.Pessimistic
		lo = math.Min(lo, math.Min(p.Optimistic, p.Pessimistic))
		hi = math.Max(hi, math.Max(p.Optimistic, p.Pessimistic))
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, ErrNothingToChart
	}

	optimisticSeries := chart.ContinuousSeries{
		Name: "Optimistic",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("16a34a"), // green-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: optimistic,
	}

	pessimisticSeries := chart.ContinuousSeries{
		Name: "Pessimistic",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("dc2626"), // red-600
			StrokeWidth:     2,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: pessimistic,
	}

	yAxis := chart.YAxis{
		ValueFormatter: func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%.0f", f)
			}
			return ""
		},
	}
	if hi-lo < 1 {
		yAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	graph := chart.Chart{
		Title:  "Projected value",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "Years",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		YAxis: yAxis,
		Series: []chart.Series{
			optimisticSeries,
			pessimisticSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
