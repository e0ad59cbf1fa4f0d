package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/zengjun200211-svg/douyindata/internal/analytics"
	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

// Artifact filenames, stable across runs so regeneration overwrites in
// place.
const (
	OverviewFile   = "overview_pie.png"
	TopPostsFile   = "top_posts.png"
	ComparisonFile = "comparison.png"
)

// DetailFile returns the per-account detail chart filename.
func DetailFile(account string) string {
	return "detail_" + sanitize(account) + ".png"
}

// Renderer draws the report charts into an output directory. It holds the
// parsed style so one configuration serves all charts of a session.
type Renderer struct {
	style  Style
	font   *truetype.Font
	colors []drawing.Color
	logger *slog.Logger
}

// NewRenderer builds a renderer from an explicit style.
func NewRenderer(style Style, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	font, err := style.loadFont()
	if err != nil {
		return nil, err
	}
	if style.DPI <= 0 {
		style.DPI = DefaultStyle().DPI
	}
	return &Renderer{
		style:  style,
		font:   font,
		colors: style.colors(),
		logger: logger.With(slog.String("component", "chart_renderer")),
	}, nil
}

func (r *Renderer) background() chart.Style {
	if r.style.TransparentBackground {
		return chart.Style{FillColor: drawing.ColorTransparent}
	}
	return chart.Style{}
}

func (r *Renderer) color(i int) drawing.Color {
	return r.colors[i%len(r.colors)]
}

// Overview renders the follower-share pie across accounts, using each
// account's latest follower count in the filtered range.
func (r *Renderer) Overview(records []domain.Record, outDir string) (string, error) {
	latest := analytics.LatestPerAccount(records)
	if len(latest) == 0 {
		return "", &apperrors.EmptyInputError{Op: "overview chart"}
	}

	values := make([]chart.Value, 0, len(latest))
	for i, rec := range latest {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %d", rec.Account, rec.Followers),
			Value: float64(rec.Followers),
			Style: chart.Style{FillColor: r.color(i), Font: r.font},
		})
	}

	pie := chart.PieChart{
		Title:      "各账号粉丝占比",
		Width:      800,
		Height:     800,
		DPI:        r.style.DPI,
		Background: r.background(),
		Canvas:     r.background(),
		Font:       r.font,
		Values:     values,
	}

	path := filepath.Join(outDir, OverviewFile)
	if err := r.renderToFile(&pie, path); err != nil {
		return "", err
	}
	return path, nil
}

// AccountDetail renders one account's follower trend (with its peak
// annotated) stacked above its daily engagement series, composited into a
// single image the way the upstream subplot figure was laid out.
func (r *Renderer) AccountDetail(records []domain.Record, account, outDir string) (string, error) {
	followers := analytics.Series(records, account, analytics.Followers)
	engagement := analytics.Series(records, account, analytics.EngagementCount)
	if len(followers) == 0 {
		return "", &apperrors.EmptyInputError{Op: "detail chart for account " + account}
	}

	peak, err := analytics.Peak(records, account, analytics.Followers)
	if err != nil {
		return "", err
	}

	followerChart := r.timeSeriesChart(
		fmt.Sprintf("%s - 粉丝趋势", account), "粉丝量", followers, r.color(0),
		[]chart.Value2{{
			XValue: chart.TimeToFloat64(peak.Date),
			YValue: float64(peak.Followers),
			Label:  fmt.Sprintf("峰值: %d", peak.Followers),
		}},
	)
	engagementChart := r.timeSeriesChart(
		fmt.Sprintf("%s - 每日互动", account), "互动数", engagement, r.color(1), nil,
	)

	top, err := r.renderToImage(followerChart)
	if err != nil {
		return "", &apperrors.RenderingError{Artifact: DetailFile(account), Err: err}
	}
	bottom, err := r.renderToImage(engagementChart)
	if err != nil {
		return "", &apperrors.RenderingError{Artifact: DetailFile(account), Err: err}
	}

	path := filepath.Join(outDir, DetailFile(account))
	if err := r.writeComposite(path, [][]image.Image{{top}, {bottom}}); err != nil {
		return "", err
	}
	return path, nil
}

// TopPosts renders the top ten posts by engagement count as a bar chart
// with truncated titles for labels.
func (r *Renderer) TopPosts(records []domain.Record, outDir string) (string, error) {
	top := analytics.TopN(records, analytics.EngagementCount, 10)
	if len(top) == 0 {
		return "", &apperrors.EmptyInputError{Op: "top posts chart"}
	}

	bars := make([]chart.Value, 0, len(top))
	values := make([]float64, 0, len(top))
	for _, rec := range top {
		bars = append(bars, chart.Value{
			Label: TruncateTitle(rec.Title, 12),
			Value: float64(rec.EngagementCount),
			Style: chart.Style{FillColor: r.color(0), Font: r.font},
		})
		values = append(values, float64(rec.EngagementCount))
	}

	bar := chart.BarChart{
		Title:      "Top 10 爆款作品（按互动量）",
		Width:      1200,
		Height:     600,
		DPI:        r.style.DPI,
		Background: r.background(),
		Canvas:     r.background(),
		Font:       r.font,
		BarWidth:   60,
		Bars:       bars,
		XAxis:      chart.Style{Font: r.font},
		YAxis: chart.YAxis{
			Style:          chart.Style{Font: r.font},
			ValueFormatter: chart.IntValueFormatter,
			Range:          padRange(values, true),
		},
	}

	path := filepath.Join(outDir, TopPostsFile)
	if err := r.renderToFile(&bar, path); err != nil {
		return "", err
	}
	return path, nil
}

// comparisonMetric pairs a chart title with the latest-per-account field it
// compares.
type comparisonMetric struct {
	title  string
	field  analytics.Field
	format chart.ValueFormatter
}

// Comparison renders the four cross-account bar charts (growth, engagement
// rate, views, followers over latest-per-account values) and composites
// them into one 2x2 image.
func (r *Renderer) Comparison(records []domain.Record, outDir string) (string, error) {
	latest := analytics.LatestPerAccount(records)
	if len(latest) == 0 {
		return "", &apperrors.EmptyInputError{Op: "comparison chart"}
	}

	metrics := []comparisonMetric{
		{"各账号涨粉对比", analytics.FollowerDelta, chart.IntValueFormatter},
		{"各账号互动率对比", analytics.EngagementRate, chart.FloatValueFormatter},
		{"各账号播放量对比", analytics.Views, chart.IntValueFormatter},
		{"各账号粉丝总量对比", analytics.Followers, chart.IntValueFormatter},
	}

	images := make([]image.Image, 0, len(metrics))
	for _, m := range metrics {
		bars := make([]chart.Value, 0, len(latest))
		values := make([]float64, 0, len(latest))
		for i, rec := range latest {
			bars = append(bars, chart.Value{
				Label: rec.Account,
				Value: m.field(rec),
				Style: chart.Style{FillColor: r.color(i), Font: r.font},
			})
			values = append(values, m.field(rec))
		}
		bar := chart.BarChart{
			Title:        m.title,
			Width:        800,
			Height:       600,
			DPI:          r.style.DPI,
			Background:   r.background(),
			Canvas:       r.background(),
			Font:         r.font,
			BarWidth:     48,
			Bars:         bars,
			UseBaseValue: true,
			BaseValue:    0,
			XAxis:        chart.Style{Font: r.font},
			YAxis: chart.YAxis{
				Style:          chart.Style{Font: r.font},
				ValueFormatter: m.format,
				Range:          padRange(values, true),
			},
		}
		img, err := r.renderToImage(&bar)
		if err != nil {
			return "", &apperrors.RenderingError{Artifact: ComparisonFile, Err: err}
		}
		images = append(images, img)
	}

	path := filepath.Join(outDir, ComparisonFile)
	grid := [][]image.Image{{images[0], images[1]}, {images[2], images[3]}}
	if err := r.writeComposite(path, grid); err != nil {
		return "", err
	}
	return path, nil
}

func (r *Renderer) timeSeriesChart(title, yName string, points []analytics.Point, color drawing.Color, annotations []chart.Value2) *chart.Chart {
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		xs = append(xs, chart.TimeToFloat64(p.Date))
		ys = append(ys, p.Value)
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    title,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 2},
		},
	}
	if len(annotations) > 0 {
		series = append(series, chart.AnnotationSeries{
			Annotations: annotations,
			Style: chart.Style{
				StrokeColor: chart.ColorRed,
				Font:        r.font,
			},
		})
	}

	return &chart.Chart{
		Title:      title,
		Width:      1200,
		Height:     500,
		DPI:        r.style.DPI,
		Background: r.background(),
		Canvas:     r.background(),
		Font:       r.font,
		XAxis: chart.XAxis{
			Style:          chart.Style{Font: r.font},
			ValueFormatter: chart.TimeDateValueFormatter,
			Range:          padRange(xs, false),
		},
		YAxis: chart.YAxis{
			Name:           yName,
			Style:          chart.Style{Font: r.font},
			ValueFormatter: chart.IntValueFormatter,
			Range:          padRange(ys, true),
		},
		Series: series,
	}
}

// padRange builds an explicit axis range with headroom above the data.
// go-chart derives ranges from the data and rejects a zero span, which
// equal values (a single account in the comparison, a flat series) would
// otherwise produce. includeZero anchors the range at zero for bar-style
// axes.
func padRange(values []float64, includeZero bool) *chart.ContinuousRange {
	if len(values) == 0 {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if includeZero {
		if min > 0 {
			min = 0
		}
		if max < 0 {
			max = 0
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}
	r := &chart.ContinuousRange{Min: min, Max: max + span*0.1}
	if min < 0 {
		r.Min = min - span*0.1
	}
	return r
}

// renderable is the common surface of go-chart's chart types.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func (r *Renderer) renderToImage(c renderable) (image.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rendered chart: %w", err)
	}
	return img, nil
}

func (r *Renderer) renderToFile(c renderable, path string) error {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return &apperrors.RenderingError{Artifact: filepath.Base(path), Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &apperrors.RenderingError{Artifact: filepath.Base(path), Err: err}
	}
	r.logger.Info("rendered chart",
		slog.String("path", path),
		slog.Int("bytes", buf.Len()))
	return nil
}

// writeComposite tiles the given image grid onto one canvas and writes it
// as PNG. Rows are stacked top to bottom; cells within a row left to
// right. This replaces the subplot grids of the upstream figures, which
// go-chart does not provide.
func (r *Renderer) writeComposite(path string, grid [][]image.Image) error {
	var width, height int
	rowHeights := make([]int, len(grid))
	for i, row := range grid {
		var w int
		for _, img := range row {
			w += img.Bounds().Dx()
			if img.Bounds().Dy() > rowHeights[i] {
				rowHeights[i] = img.Bounds().Dy()
			}
		}
		if w > width {
			width = w
		}
		height += rowHeights[i]
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	if !r.style.TransparentBackground {
		draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	}

	y := 0
	for i, row := range grid {
		x := 0
		for _, img := range row {
			target := image.Rect(x, y, x+img.Bounds().Dx(), y+img.Bounds().Dy())
			draw.Draw(canvas, target, img, img.Bounds().Min, draw.Over)
			x += img.Bounds().Dx()
		}
		y += rowHeights[i]
	}

	f, err := os.Create(path)
	if err != nil {
		return &apperrors.RenderingError{Artifact: filepath.Base(path), Err: err}
	}
	defer f.Close()
	if err := png.Encode(f, canvas); err != nil {
		return &apperrors.RenderingError{Artifact: filepath.Base(path), Err: err}
	}
	r.logger.Info("rendered composite chart", slog.String("path", path))
	return nil
}

// TruncateTitle shortens a post title to max runes, appending an ellipsis
// when something was cut.
func TruncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max]) + "..."
}

func sanitize(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_", "..", "_")
	return replacer.Replace(name)
}
