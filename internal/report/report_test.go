package report

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/findosh/fundsim/internal/models"
	"github.com/findosh/fundsim/internal/services/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simulate(t *testing.T, amount float64) (*models.Portfolio, *models.DerivedMetrics) {
	t.Helper()
	svc, err := simulation.NewService()
	require.NoError(t, err)

	p := models.NewPortfolio(amount)
	p.AddFund(&models.FundSummary{ID: "1", Name: "BMCE | Actions", Type: models.FundTypeEquity, ExpectedReturn: 12.5, Volatility: 15.2})
	p.AddFund(&models.FundSummary{ID: "2", Name: "Attijariwafa Monétaire", Type: models.FundTypeMoneyMarket, ExpectedReturn: 3.2, Volatility: 0.8})
	return p, svc.Calculate(p)
}

func TestRiskLevelOf(t *testing.T) {
	tests := []struct {
		vol  float64
		want RiskLevel
	}{
		{0, RiskLow},
		{4.99, RiskLow},
		{5, RiskModerate},
		{11.9, RiskModerate},
		{12, RiskHigh},
		{19.99, RiskHigh},
		{20, RiskVeryHigh},
		{55, RiskVeryHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelOf(tt.vol), "volatility %v", tt.vol)
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+7.85%", FormatPercent(7.85, true))
	assert.Equal(t, "7.85%", FormatPercent(7.85, false))
	assert.Equal(t, "-2.50%", FormatPercent(-2.5, true))
	assert.Equal(t, "0.00%", FormatPercent(0, true))
	assert.Equal(t, "n/a", FormatPercent(math.NaN(), true))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,234.57", FormatMoney(1234.567, "USD"))
	assert.Contains(t, FormatMoney(10000, "MAD"), "10,000.00")
	assert.Equal(t, "12.50 XYZ", FormatMoney(12.5, "XYZ"))
	assert.Equal(t, "n/a", FormatMoney(math.Inf(1), "MAD"))
	assert.Equal(t, "100000000000000000000.00 USD", FormatMoney(1e20, "USD"), "beyond int64 minor units")
}

func TestMarkdown(t *testing.T) {
	p, m := simulate(t, 10000)

	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, p, m, "USD"))
	out := buf.String()

	assert.Contains(t, out, "# Portfolio simulation")
	assert.Contains(t, out, "$10,000.00")
	assert.Contains(t, out, `BMCE \| Actions`)
	assert.Contains(t, out, "| Money Market |")
	assert.Contains(t, out, "$1,000.00", "10% of the investment placed in each fund")
	assert.Contains(t, out, "**Total allocation:** 20.00% (under)")
	assert.Contains(t, out, "Expected return: +7.85%")
	assert.Contains(t, out, "Volatility: 7.61% (Moderate risk)")
	assert.Contains(t, out, "Max drawdown estimate: -19.03%")
	assert.Contains(t, out, "| 5 years |")
	assert.Contains(t, out, "## Advisories")
}

func TestMarkdown_Empty(t *testing.T) {
	svc, err := simulation.NewService()
	require.NoError(t, err)
	p := models.NewPortfolio(10000)

	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, p, svc.Calculate(p), "MAD"))

	assert.Contains(t, buf.String(), "No funds selected.")
	assert.NotContains(t, buf.String(), "## Advisories")
}

func TestHTML(t *testing.T) {
	p, m := simulate(t, 10000)
	var md bytes.Buffer
	require.NoError(t, Markdown(&md, p, m, "MAD"))

	var out bytes.Buffer
	require.NoError(t, HTML(&out, "Simulation <1>", md.Bytes()))
	page := out.String()

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Simulation &lt;1&gt;</title>")
	assert.Contains(t, page, "<h1")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "width: 100%;")
}

func TestProjectionChart(t *testing.T) {
	_, m := simulate(t, 10000)

	data, err := ProjectionChart(m)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 900, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestProjectionChart_FlatLine(t *testing.T) {
	_, m := simulate(t, 0)

	_, err := ProjectionChart(m)
	assert.NoError(t, err)
}

func TestProjectionChart_NoProjection(t *testing.T) {
	_, m := simulate(t, -5)

	_, err := ProjectionChart(m)
	assert.ErrorIs(t, err, ErrNothingToChart)
}
