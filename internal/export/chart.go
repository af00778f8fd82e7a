package export

import (
	"github.com/polysent/polysent/internal/models"
)

// ChartPoint is one labeled value in a series.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSeries is a named sequence of points.
type ChartSeries struct {
	Name string       `json:"name"`
	Data []ChartPoint `json:"data"`
}

// ChartConfig is a renderer-agnostic chart description the UI feeds to its
// charting library. Colors align with the points of the first series.
type ChartConfig struct {
	ChartType  string        `json:"chart_type"`
	Title      string        `json:"title"`
	XAxis      string        `json:"x_axis,omitempty"`
	YAxis      string        `json:"y_axis,omitempty"`
	ShowLegend bool          `json:"show_legend"`
	ShowGrid   bool          `json:"show_grid"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors"`
}

var sentimentColors = map[models.SentimentLabel]string{
	models.SentimentPositive: "#10B981",
	models.SentimentNeutral:  "#F59E0B",
	models.SentimentNegative: "#EF4444",
	models.SentimentUnknown:  "#6B7280",
}

var languageColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
}

// BuildDistributionChart turns a distribution summary into a chart.
// chartType may be "pie" or "bar"; blank means pie. Returns nil when the
// summary covers no records.
func BuildDistributionChart(summary models.DistributionSummary, chartType string) *ChartConfig {
	if summary.TotalRecords == 0 {
		return nil
	}
	if chartType == "" {
		chartType = "pie"
	}

	points := make([]ChartPoint, 0, len(models.AllSentimentLabels))
	colors := make([]string, 0, len(models.AllSentimentLabels))
	for _, label := range models.AllSentimentLabels {
		points = append(points, ChartPoint{
			Label: string(label),
			Value: float64(summary.CountsByLabel[label]),
		})
		colors = append(colors, sentimentColors[label])
	}

	return &ChartConfig{
		ChartType:  chartType,
		Title:      "Sentiment Distribution",
		YAxis:      "Records",
		ShowLegend: true,
		ShowGrid:   chartType != "pie",
		Series:     []ChartSeries{{Name: "Sentiment", Data: points}},
		Colors:     colors,
	}
}

// BuildLanguageChart turns language stats into a bar chart, supported
// languages first. Returns nil when the stats cover no records.
func BuildLanguageChart(stats models.LanguageStats) *ChartConfig {
	if stats.UniqueLanguages == 0 {
		return nil
	}

	order := append([]models.Language{}, models.SupportedLanguages...)
	order = append(order, models.LanguageOther)

	points := make([]ChartPoint, 0, stats.UniqueLanguages)
	for _, lang := range order {
		count, ok := stats.CountsByLanguage[lang]
		if !ok {
			continue
		}
		points = append(points, ChartPoint{
			Label: lang.DisplayName(),
			Value: float64(count),
		})
	}

	return &ChartConfig{
		ChartType:  "bar",
		Title:      "Detected Languages",
		XAxis:      "Language",
		YAxis:      "Records",
		ShowLegend: false,
		ShowGrid:   true,
		Series:     []ChartSeries{{Name: "Languages", Data: points}},
		Colors:     languageColors[:min(len(points), len(languageColors))],
	}
}
