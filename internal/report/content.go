// Package report assembles the slide deck and word document from the
// filtered dataset and the rendered chart images. Both builders consume
// the same aggregates so the two artifacts never disagree.
package report

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zengjun200211-svg/douyindata/internal/analytics"
	"github.com/zengjun200211-svg/douyindata/internal/chart"
	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

// Artifact filenames, stable across runs.
const (
	DeckFile = "report.pptx"
	DocFile  = "report.docx"
)

// ReportTitle heads both documents.
const ReportTitle = "抖音运营月度分析报告"

// agendaLines is the deck's table of contents.
var agendaLines = []string{
	"1. 整体概览",
	"2. 账号详情",
	"3. 爆款作品",
	"4. 账号对比",
	"5. 建议与总结",
}

// summarySections holds the fixed closing commentary carried over from the
// upstream report.
var summarySections = []struct {
	Heading string
	Lines   []string
}{
	{"【亮点】", []string{
		"1. 整体粉丝增长趋势良好，各账号均有稳定表现",
		"2. 爆款作品互动率突出，内容质量得到用户认可",
		"3. 账号矩阵布局合理，覆盖多个垂直领域",
	}},
	{"【问题】", []string{
		"1. 部分账号涨粉波动较大，稳定性有待提升",
		"2. 评论互动率相对较低，需加强用户引导",
		"3. 内容发布频率不均衡，建议优化发布策略",
	}},
	{"【建议】", []string{
		"1. 针对爆款作品内容特点，持续产出同类型优质内容",
		"2. 增加评论区互动，积极回复用户留言",
		"3. 制定固定发布计划，保持内容更新频率",
	}},
}

var countPrinter = message.NewPrinter(language.English)

// FormatCount renders an integer metric with thousands grouping.
func FormatCount(v int64) string {
	return countPrinter.Sprintf("%d", v)
}

// FormatRate renders an engagement rate as a percentage with two decimals.
func FormatRate(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// KPI is one headline metric block on the overview slide/section.
type KPI struct {
	Label string
	Value string
}

// KPIs lays out the six headline totals in display order.
func KPIs(sum analytics.Summary) []KPI {
	return []KPI{
		{"总粉丝", FormatCount(sum.TotalFans)},
		{"总涨粉", FormatCount(sum.TotalGrowth)},
		{"总点赞", FormatCount(sum.TotalLikes)},
		{"总评论", FormatCount(sum.TotalComments)},
		{"总收藏", FormatCount(sum.TotalFavorites)},
		{"总播放", FormatCount(sum.TotalViews)},
	}
}

// PeriodLabel formats the covered date range.
func PeriodLabel(sum analytics.Summary) string {
	return fmt.Sprintf("%s 至 %s",
		sum.From.Format(domain.DateLayout),
		sum.To.Format(domain.DateLayout))
}

// TopPostRow is one formatted line of the top-posts table.
type TopPostRow struct {
	Title      string
	Account    string
	Engagement string
	Rate       string
}

// topPostHeaders are the table's column headings.
var topPostHeaders = []string{"作品标题", "账号", "互动数", "互动率"}

// TopPostRows formats the top-n posts by engagement count for tabular
// display, titles truncated to keep the table legible.
func TopPostRows(records []domain.Record, n int) []TopPostRow {
	top := analytics.TopN(records, analytics.EngagementCount, n)
	rows := make([]TopPostRow, 0, len(top))
	for _, rec := range top {
		rows = append(rows, TopPostRow{
			Title:      chart.TruncateTitle(rec.Title, 30),
			Account:    rec.Account,
			Engagement: FormatCount(rec.EngagementCount),
			Rate:       FormatRate(rec.EngagementRate),
		})
	}
	return rows
}
