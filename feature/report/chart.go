package report

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"
)

// WriteChart renders the exception counts as a PNG bar chart.
func WriteChart(path string, counts []Count) error {
	if len(counts) == 0 {
		return fmt.Errorf("no exception counts to chart")
	}

	bars := make([]chart.Value, 0, len(counts))
	maxCount := 0
	for _, c := range counts {
		bars = append(bars, chart.Value{Label: string(c.Reason), Value: float64(c.Count)})
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}

	barChart := chart.BarChart{
		Title: "Exceptions by Type",
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:    1200,
		Height:   675,
		BarWidth: 80,
		Bars:     bars,
		YAxis: chart.YAxis{
			// A fixed range keeps single-valued charts renderable.
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount) * 1.1},
			ValueFormatter: func(v interface{}) string {
				if vf, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", vf)
				}
				return ""
			},
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := barChart.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return f.Close()
}
