package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/common"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/wml"

	"github.com/zengjun200211-svg/douyindata/internal/analytics"
	"github.com/zengjun200211-svg/douyindata/internal/chart"
	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

// DocBuilder assembles the docx report.
type DocBuilder struct {
	logger *slog.Logger
}

// NewDocBuilder creates a word document builder.
func NewDocBuilder(logger *slog.Logger) *DocBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocBuilder{logger: logger.With(slog.String("component", "doc_builder"))}
}

// Build writes report.docx into outDir. It embeds the same chart images
// and top-10 table as the deck; missing chart files are skipped.
func (b *DocBuilder) Build(records []domain.Record, outDir string) (string, error) {
	sum, err := analytics.Overview(records)
	if err != nil {
		return "", err
	}

	doc := document.New()
	defer doc.Close()

	title := doc.AddParagraph()
	title.SetStyle("Title")
	title.AddRun().AddText(ReportTitle)

	doc.AddParagraph().AddRun().AddText("报告期间：" + PeriodLabel(sum))

	heading := doc.AddParagraph()
	heading.SetStyle("Heading1")
	heading.AddRun().AddText("整体概览")
	for _, kpi := range KPIs(sum) {
		doc.AddParagraph().AddRun().AddText(fmt.Sprintf("%s数：%s", kpi.Label, kpi.Value))
	}
	if err := b.embedImage(doc, filepath.Join(outDir, chart.OverviewFile), 3.5); err != nil {
		return "", err
	}

	heading = doc.AddParagraph()
	heading.SetStyle("Heading1")
	heading.AddRun().AddText("账号详情")
	for _, account := range analytics.Accounts(records) {
		sub := doc.AddParagraph()
		sub.SetStyle("Heading2")
		sub.AddRun().AddText(account)
		if err := b.embedImage(doc, filepath.Join(outDir, chart.DetailFile(account)), 5.5); err != nil {
			return "", err
		}
	}

	heading = doc.AddParagraph()
	heading.SetStyle("Heading1")
	heading.AddRun().AddText("爆款作品")
	if err := b.embedImage(doc, filepath.Join(outDir, chart.TopPostsFile), 5.5); err != nil {
		return "", err
	}
	b.topPostsTable(doc, records)

	heading = doc.AddParagraph()
	heading.SetStyle("Heading1")
	heading.AddRun().AddText("账号对比")
	if err := b.embedImage(doc, filepath.Join(outDir, chart.ComparisonFile), 5.5); err != nil {
		return "", err
	}

	heading = doc.AddParagraph()
	heading.SetStyle("Heading1")
	heading.AddRun().AddText("建议与总结")
	for _, section := range summarySections {
		head := doc.AddParagraph().AddRun()
		head.AddText(section.Heading)
		head.Properties().SetBold(true)
		for _, line := range section.Lines {
			doc.AddParagraph().AddRun().AddText(line)
		}
	}

	path := filepath.Join(outDir, DocFile)
	if err := doc.SaveToFile(path); err != nil {
		return "", &apperrors.RenderingError{Artifact: DocFile, Err: err}
	}
	b.logger.Info("built word report",
		slog.String("path", path),
		slog.Int("accounts", sum.Accounts))
	return path, nil
}

func (b *DocBuilder) topPostsTable(doc *document.Document, records []domain.Record) {
	table := doc.AddTable()
	table.Properties().SetWidthPercent(100)
	table.Properties().Borders().SetAll(wml.ST_BorderSingle, color.Auto, measurement.Point*1)

	hdr := table.AddRow()
	for _, h := range topPostHeaders {
		cell := hdr.AddCell()
		run := cell.AddParagraph().AddRun()
		run.AddText(h)
		run.Properties().SetBold(true)
	}

	for _, row := range TopPostRows(records, 10) {
		tr := table.AddRow()
		for _, text := range []string{row.Title, row.Account, row.Engagement, row.Rate} {
			tr.AddCell().AddParagraph().AddRun().AddText(text)
		}
	}
}

// embedImage inserts a chart image as an inline drawing scaled to the
// given width in inches (4:3-ish charts keep their aspect via fixed
// heights chosen per call site).
func (b *DocBuilder) embedImage(doc *document.Document, path string, widthInches float64) error {
	if _, err := os.Stat(path); err != nil {
		b.logger.Warn("chart image missing, skipping embed", slog.String("path", path))
		return nil
	}
	img, err := common.ImageFromFile(path)
	if err != nil {
		return &apperrors.RenderingError{Artifact: DocFile, Err: fmt.Errorf("failed to load image %s: %w", path, err)}
	}
	iref, err := doc.AddImage(img)
	if err != nil {
		return &apperrors.RenderingError{Artifact: DocFile, Err: fmt.Errorf("failed to add image %s: %w", path, err)}
	}
	para := doc.AddParagraph()
	inline, err := para.AddRun().AddDrawingInline(iref)
	if err != nil {
		return &apperrors.RenderingError{Artifact: DocFile, Err: fmt.Errorf("failed to place image %s: %w", path, err)}
	}

	width := measurement.Distance(widthInches) * measurement.Inch
	height := width * measurement.Distance(img.Size.Y) / measurement.Distance(img.Size.X)
	inline.SetSize(width, height)
	return nil
}
