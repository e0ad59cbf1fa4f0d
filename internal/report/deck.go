package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/common"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/presentation"

	"github.com/zengjun200211-svg/douyindata/internal/analytics"
	"github.com/zengjun200211-svg/douyindata/internal/chart"
	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

var (
	brandColor = color.RGB(0x00, 0x77, 0xB6)
	whiteColor = color.RGB(0xFF, 0xFF, 0xFF)
)

// DeckBuilder assembles the pptx report. All slides are built on blank
// layouts with explicitly positioned text boxes and images, so the output
// does not depend on template placeholders.
type DeckBuilder struct {
	logger *slog.Logger
}

// NewDeckBuilder creates a deck builder.
func NewDeckBuilder(logger *slog.Logger) *DeckBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckBuilder{logger: logger.With(slog.String("component", "deck_builder"))}
}

// Build writes report.pptx into outDir from the filtered records and the
// chart images rendered earlier into the same directory. Chart files that
// are missing are skipped rather than failing the whole deck, matching the
// upstream behavior of checking existence before embedding.
func (b *DeckBuilder) Build(records []domain.Record, outDir string) (string, error) {
	sum, err := analytics.Overview(records)
	if err != nil {
		return "", err
	}

	ppt := presentation.New()
	defer ppt.Close()

	b.titleSlide(ppt, sum)
	b.agendaSlide(ppt)
	if err := b.overviewSlide(ppt, sum, outDir); err != nil {
		return "", err
	}
	for _, account := range analytics.Accounts(records) {
		if err := b.accountSlide(ppt, account, outDir); err != nil {
			return "", err
		}
	}
	if err := b.topPostsSlide(ppt, records, outDir); err != nil {
		return "", err
	}
	if err := b.comparisonSlide(ppt, outDir); err != nil {
		return "", err
	}
	b.summarySlide(ppt)

	path := filepath.Join(outDir, DeckFile)
	if err := ppt.SaveToFile(path); err != nil {
		return "", &apperrors.RenderingError{Artifact: DeckFile, Err: err}
	}
	b.logger.Info("built slide deck",
		slog.String("path", path),
		slog.Int("accounts", sum.Accounts))
	return path, nil
}

func (b *DeckBuilder) titleSlide(ppt *presentation.Presentation, sum analytics.Summary) {
	slide := ppt.AddSlide()

	title := slide.AddTextBox()
	title.Properties().SetPosition(0.5*measurement.Inch, 2.2*measurement.Inch)
	title.Properties().SetSize(9*measurement.Inch, 1.2*measurement.Inch)
	run := title.AddParagraph().AddRun()
	run.SetText(ReportTitle)
	run.Properties().SetSize(36 * measurement.Point)
	run.Properties().SetBold(true)
	run.Properties().SetSolidFill(brandColor)

	subtitle := slide.AddTextBox()
	subtitle.Properties().SetPosition(0.5*measurement.Inch, 3.6*measurement.Inch)
	subtitle.Properties().SetSize(9*measurement.Inch, 0.6*measurement.Inch)
	sub := subtitle.AddParagraph().AddRun()
	sub.SetText(PeriodLabel(sum))
	sub.Properties().SetSize(18 * measurement.Point)
}

func (b *DeckBuilder) agendaSlide(ppt *presentation.Presentation) {
	slide := ppt.AddSlide()
	b.slideTitle(slide, "目录")

	body := slide.AddTextBox()
	body.Properties().SetPosition(1*measurement.Inch, 2*measurement.Inch)
	body.Properties().SetSize(8*measurement.Inch, 4*measurement.Inch)
	for _, line := range agendaLines {
		run := body.AddParagraph().AddRun()
		run.SetText(line)
		run.Properties().SetSize(20 * measurement.Point)
	}
}

func (b *DeckBuilder) overviewSlide(ppt *presentation.Presentation, sum analytics.Summary, outDir string) error {
	slide := ppt.AddSlide()
	b.slideTitle(slide, "整体概览")

	for i, kpi := range KPIs(sum) {
		col := i % 3
		row := i / 3
		box := slide.AddTextBox()
		box.Properties().SetPosition(
			measurement.Distance(0.5+float64(col)*3)*measurement.Inch,
			measurement.Distance(1.5+float64(row)*1.5)*measurement.Inch)
		box.Properties().SetSize(2.8*measurement.Inch, 1.2*measurement.Inch)
		box.Properties().SetSolidFill(brandColor)

		label := box.AddParagraph().AddRun()
		label.SetText(kpi.Label)
		label.Properties().SetSize(14 * measurement.Point)
		label.Properties().SetBold(true)
		label.Properties().SetSolidFill(whiteColor)

		value := box.AddParagraph().AddRun()
		value.SetText(kpi.Value)
		value.Properties().SetSize(14 * measurement.Point)
		value.Properties().SetBold(true)
		value.Properties().SetSolidFill(whiteColor)
	}

	return b.embedImage(ppt, slide, filepath.Join(outDir, chart.OverviewFile),
		3.5*measurement.Inch, 4.5*measurement.Inch, 2.5*measurement.Inch, 2.5*measurement.Inch)
}

func (b *DeckBuilder) accountSlide(ppt *presentation.Presentation, account, outDir string) error {
	slide := ppt.AddSlide()
	b.slideTitle(slide, "账号详情 - "+account)
	return b.embedImage(ppt, slide, filepath.Join(outDir, chart.DetailFile(account)),
		0.5*measurement.Inch, 1.5*measurement.Inch, 9*measurement.Inch, 5.5*measurement.Inch)
}

func (b *DeckBuilder) topPostsSlide(ppt *presentation.Presentation, records []domain.Record, outDir string) error {
	slide := ppt.AddSlide()
	b.slideTitle(slide, "爆款作品")

	if err := b.embedImage(ppt, slide, filepath.Join(outDir, chart.TopPostsFile),
		0.5*measurement.Inch, 1.4*measurement.Inch, 9*measurement.Inch, 3*measurement.Inch); err != nil {
		return err
	}

	// The top-10 table is laid out as one text box per column; unioffice
	// has no native slide table shape.
	rows := TopPostRows(records, 10)
	widths := []measurement.Distance{4, 1.8, 1.5, 1.7}
	x := measurement.Distance(0.5 * measurement.Inch)
	for col, header := range topPostHeaders {
		box := slide.AddTextBox()
		box.Properties().SetPosition(x, 4.6*measurement.Inch)
		box.Properties().SetSize(widths[col]*measurement.Inch, 2.6*measurement.Inch)

		head := box.AddParagraph().AddRun()
		head.SetText(header)
		head.Properties().SetSize(11 * measurement.Point)
		head.Properties().SetBold(true)
		head.Properties().SetSolidFill(brandColor)

		for _, row := range rows {
			cells := []string{row.Title, row.Account, row.Engagement, row.Rate}
			run := box.AddParagraph().AddRun()
			run.SetText(cells[col])
			run.Properties().SetSize(10 * measurement.Point)
		}
		x += widths[col] * measurement.Inch
	}
	return nil
}

func (b *DeckBuilder) comparisonSlide(ppt *presentation.Presentation, outDir string) error {
	slide := ppt.AddSlide()
	b.slideTitle(slide, "账号对比")
	return b.embedImage(ppt, slide, filepath.Join(outDir, chart.ComparisonFile),
		0.5*measurement.Inch, 1.5*measurement.Inch, 9*measurement.Inch, 5.5*measurement.Inch)
}

func (b *DeckBuilder) summarySlide(ppt *presentation.Presentation) {
	slide := ppt.AddSlide()
	b.slideTitle(slide, "建议与总结")

	body := slide.AddTextBox()
	body.Properties().SetPosition(0.5*measurement.Inch, 1.5*measurement.Inch)
	body.Properties().SetSize(9*measurement.Inch, 5.5*measurement.Inch)
	for _, section := range summarySections {
		head := body.AddParagraph().AddRun()
		head.SetText(section.Heading)
		head.Properties().SetSize(14 * measurement.Point)
		head.Properties().SetBold(true)
		for _, line := range section.Lines {
			run := body.AddParagraph().AddRun()
			run.SetText(line)
			run.Properties().SetSize(12 * measurement.Point)
		}
	}
}

func (b *DeckBuilder) slideTitle(slide presentation.Slide, text string) {
	box := slide.AddTextBox()
	box.Properties().SetPosition(0.5*measurement.Inch, 0.4*measurement.Inch)
	box.Properties().SetSize(9*measurement.Inch, 0.9*measurement.Inch)
	run := box.AddParagraph().AddRun()
	run.SetText(text)
	run.Properties().SetSize(28 * measurement.Point)
	run.Properties().SetBold(true)
	run.Properties().SetSolidFill(brandColor)
}

// embedImage places a chart image on the slide if the file exists; a
// missing chart is logged and skipped.
func (b *DeckBuilder) embedImage(ppt *presentation.Presentation, slide presentation.Slide, path string, x, y, w, h measurement.Distance) error {
	if _, err := os.Stat(path); err != nil {
		b.logger.Warn("chart image missing, skipping embed", slog.String("path", path))
		return nil
	}
	img, err := common.ImageFromFile(path)
	if err != nil {
		return &apperrors.RenderingError{Artifact: DeckFile, Err: fmt.Errorf("failed to load image %s: %w", path, err)}
	}
	iref, err := ppt.AddImage(img)
	if err != nil {
		return &apperrors.RenderingError{Artifact: DeckFile, Err: fmt.Errorf("failed to add image %s: %w", path, err)}
	}
	pic := slide.AddImage(iref)
	pic.Properties().SetPosition(x, y)
	pic.Properties().SetSize(w, h)
	return nil
}
