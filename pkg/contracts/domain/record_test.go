package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDerived(t *testing.T) {
	tests := []struct {
		name      string
		record    Record
		wantCount int64
		wantRate  float64
	}{
		{
			name:      "shares excluded",
			record:    Record{Likes: 10, Comments: 5, Shares: 100, Favorites: 5, Views: 100},
			wantCount: 20,
			wantRate:  0.2,
		},
		{
			name:      "zero views substituted with one",
			record:    Record{Likes: 3, Views: 0},
			wantCount: 3,
			wantRate:  3,
		},
		{
			name:      "all zero",
			record:    Record{},
			wantCount: 0,
			wantRate:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.record.ComputeDerived()
			assert.Equal(t, tt.wantCount, tt.record.EngagementCount)
			assert.InDelta(t, tt.wantRate, tt.record.EngagementRate, 1e-9)
		})
	}
}

func TestComputeDerivedOverwrites(t *testing.T) {
	r := Record{Likes: 1, Views: 1, EngagementCount: 999, EngagementRate: 999}
	r.ComputeDerived()
	assert.Equal(t, int64(1), r.EngagementCount)
	assert.Equal(t, float64(1), r.EngagementRate)
}

func TestCanonicalColumns(t *testing.T) {
	cols := CanonicalColumns()
	assert.Len(t, cols, 10)
	assert.Equal(t, ColAccount, cols[0])
	assert.Equal(t, ColViews, cols[9])
}

func TestHeaderAliasesCoverEveryColumn(t *testing.T) {
	targets := map[string]bool{}
	for _, canonical := range HeaderAliases() {
		targets[canonical] = true
	}
	for _, col := range CanonicalColumns() {
		assert.True(t, targets[col], "no alias maps to %s", col)
	}
}
