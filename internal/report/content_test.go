package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zengjun200211-svg/douyindata/internal/analytics"
	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCount(tt.in))
	}
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "0.00%", FormatRate(0))
	assert.Equal(t, "12.34%", FormatRate(0.1234))
	assert.Equal(t, "100.00%", FormatRate(1))
	assert.Equal(t, "0.10%", FormatRate(0.001))
}

func TestKPIs(t *testing.T) {
	sum := analytics.Summary{
		TotalFans:      1500000,
		TotalGrowth:    23000,
		TotalLikes:     88000,
		TotalComments:  4200,
		TotalFavorites: 9100,
		TotalViews:     3200000,
	}
	kpis := KPIs(sum)
	require.Len(t, kpis, 6)
	assert.Equal(t, "总粉丝", kpis[0].Label)
	assert.Equal(t, "1,500,000", kpis[0].Value)
	assert.Equal(t, "总播放", kpis[5].Label)
	assert.Equal(t, "3,200,000", kpis[5].Value)
}

func TestPeriodLabel(t *testing.T) {
	sum := analytics.Summary{
		From: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "2024-05-01 至 2024-05-31", PeriodLabel(sum))
}

func TestTopPostRows(t *testing.T) {
	longTitle := "这是一个非常非常非常非常非常非常非常非常非常非常非常非常非常非常长的标题"
	records := []domain.Record{
		{Account: "A", Title: "普通标题", Likes: 10, Views: 100},
		{Account: "B", Title: longTitle, Likes: 500, Views: 1000},
	}
	for i := range records {
		records[i].ComputeDerived()
	}

	rows := TopPostRows(records, 10)
	require.Len(t, rows, 2)

	assert.Equal(t, "B", rows[0].Account, "rows sorted by engagement descending")
	assert.Equal(t, "500", rows[0].Engagement)
	assert.Equal(t, "50.00%", rows[0].Rate)
	assert.LessOrEqual(t, len([]rune(rows[0].Title)), 33, "long titles are truncated")

	assert.Equal(t, "普通标题", rows[1].Title)
}

func TestTopPostRowsLimit(t *testing.T) {
	records := make([]domain.Record, 15)
	for i := range records {
		records[i] = domain.Record{Account: "A", Title: "t", Likes: int64(i), Views: 1}
		records[i].ComputeDerived()
	}
	assert.Len(t, TopPostRows(records, 10), 10)
}
