// Package chart renders the analysis charts as PNG images. A chart with no
// data to draw is a render failure that names the affected artifact; the
// pipeline never writes an empty image.
package chart

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"sentimentcli/internal/analysis"
	apperrors "sentimentcli/internal/errors"
)

// Chart artifact file names under the output directory
const (
	ScatterFile = "scatter_pnl_vs_sentiment.png"
	BoxPlotFile = "boxplot_pnl_by_sentiment_class.png"
	BarFile     = "bar_win_rate_by_sentiment_class.png"
)

// Renderer draws the analysis charts into the output directory
type Renderer struct {
	outputDir string
	logger    *slog.Logger
}

// NewRenderer creates a chart renderer rooted at outputDir
func NewRenderer(outputDir string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{outputDir: outputDir, logger: logger}
}

// RenderAll draws the three charts of one analysis run
func (r *Renderer) RenderAll(rows []analysis.JoinedDay) error {
	if err := r.ScatterPnLVsSentiment(rows); err != nil {
		return err
	}
	if err := r.BoxPlotPnLByClass(rows); err != nil {
		return err
	}
	return r.BarWinRateByClass(rows)
}

// ScatterPnLVsSentiment plots daily total PnL against the fear & greed value
// for every day that has a sentiment record.
func (r *Renderer) ScatterPnLVsSentiment(rows []analysis.JoinedDay) error {
	points := make(plotter.XYs, 0, len(rows))
	for _, row := range rows {
		if !row.HasSentiment() {
			continue
		}
		points = append(points, plotter.XY{X: row.SentimentValue, Y: row.TotalPnL})
	}
	if len(points) == 0 {
		return apperrors.NewRenderError(ScatterFile,
			fmt.Errorf("no days with sentiment values to plot"))
	}

	p := plot.New()
	p.Title.Text = "Daily PnL vs Fear & Greed Index"
	p.X.Label.Text = "Fear & Greed Index (higher = greed)"
	p.Y.Label.Text = "Total Daily PnL (USD)"
	p.Add(plotter.NewGrid())

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return apperrors.NewRenderError(ScatterFile, err)
	}
	p.Add(scatter)

	return r.save(p, ScatterFile)
}

// BoxPlotPnLByClass draws the distribution of daily total PnL per sentiment
// class, classes sorted alphabetically.
func (r *Renderer) BoxPlotPnLByClass(rows []analysis.JoinedDay) error {
	classes, pnlByClass := groupPnLByClass(rows)
	if len(classes) == 0 {
		return apperrors.NewRenderError(BoxPlotFile,
			fmt.Errorf("no days with a sentiment class to plot"))
	}

	p := plot.New()
	p.Title.Text = "Distribution of Daily PnL by Sentiment Regime"
	p.X.Label.Text = "Sentiment Class"
	p.Y.Label.Text = "Total Daily PnL (USD)"

	for i, class := range classes {
		box, err := plotter.NewBoxPlot(vg.Points(20), float64(i), pnlByClass[class])
		if err != nil {
			return apperrors.NewRenderError(BoxPlotFile, err)
		}
		p.Add(box)
	}
	p.NominalX(classes...)

	return r.save(p, BoxPlotFile)
}

// BarWinRateByClass draws the mean daily win rate per sentiment class
func (r *Renderer) BarWinRateByClass(rows []analysis.JoinedDay) error {
	summaries := analysis.SummarizeByClass(rows)
	if len(summaries) == 0 {
		return apperrors.NewRenderError(BarFile,
			fmt.Errorf("no days with a sentiment class to plot"))
	}

	classes := make([]string, 0, len(summaries))
	winRates := make(plotter.Values, 0, len(summaries))
	for _, s := range summaries {
		classes = append(classes, s.Class)
		winRates = append(winRates, s.AvgWinRate)
	}

	p := plot.New()
	p.Title.Text = "Average Daily Win Rate by Sentiment Regime"
	p.X.Label.Text = "Sentiment Class"
	p.Y.Label.Text = "Average Win Rate"
	p.Y.Min = 0
	p.Y.Max = 1

	bars, err := plotter.NewBarChart(winRates, vg.Points(30))
	if err != nil {
		return apperrors.NewRenderError(BarFile, err)
	}
	p.Add(bars)
	p.NominalX(classes...)

	return r.save(p, BarFile)
}

func (r *Renderer) save(p *plot.Plot, filename string) error {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return apperrors.NewRenderError(filename, err)
	}
	fullPath := filepath.Join(r.outputDir, filename)
	if err := p.Save(8*vg.Inch, 5*vg.Inch, fullPath); err != nil {
		return apperrors.NewRenderError(filename, err)
	}
	r.logger.Info("rendered chart", slog.String("path", fullPath))
	return nil
}

func groupPnLByClass(rows []analysis.JoinedDay) ([]string, map[string]plotter.Values) {
	byClass := make(map[string]plotter.Values)
	for _, row := range rows {
		if row.SentimentClass == "" {
			continue
		}
		byClass[row.SentimentClass] = append(byClass[row.SentimentClass], row.TotalPnL)
	}

	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes, byClass
}
