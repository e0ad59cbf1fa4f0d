package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

func day(d int) time.Time {
	return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
}

func rec(account string, d int, followers, likes, views int64) domain.Record {
	r := domain.Record{
		Account:   account,
		Date:      day(d),
		Title:     account + " post",
		Followers: followers,
		Likes:     likes,
		Views:     views,
	}
	r.ComputeDerived()
	return r
}

func fixture() []domain.Record {
	return []domain.Record{
		rec("A", 1, 1000, 10, 100),
		rec("A", 2, 1020, 20, 100),
		rec("B", 2, 500, 5, 50),
		rec("B", 1, 490, 8, 50),
	}
}

func TestLatestPerAccount(t *testing.T) {
	latest := LatestPerAccount(fixture())
	require.Len(t, latest, 2)

	assert.Equal(t, "A", latest[0].Account)
	assert.Equal(t, day(2), latest[0].Date)
	assert.Equal(t, int64(1020), latest[0].Followers)

	assert.Equal(t, "B", latest[1].Account)
	assert.Equal(t, day(2), latest[1].Date)
	assert.Equal(t, int64(500), latest[1].Followers)
}

func TestLatestPerAccountDoesNotMutateInput(t *testing.T) {
	records := fixture()
	LatestPerAccount(records)
	assert.Equal(t, fixture(), records)
}

func TestTotal(t *testing.T) {
	records := fixture()
	assert.Equal(t, float64(43), Total(records, Likes))
	assert.Equal(t, float64(0), Total(nil, Likes), "empty total is zero, not an error")

	// Totals are additive over a partition of the records.
	half := Total(records[:2], Likes) + Total(records[2:], Likes)
	assert.Equal(t, Total(records, Likes), half)
}

func TestTotalFans(t *testing.T) {
	// Each account counts once, at its latest date.
	assert.Equal(t, int64(1020+500), TotalFans(fixture()))
}

func TestTopN(t *testing.T) {
	records := fixture()
	top := TopN(records, Likes, 2)
	require.Len(t, top, 2)
	assert.Equal(t, int64(20), top[0].Likes)
	assert.Equal(t, int64(10), top[1].Likes)
}

func TestTopNShorterThanN(t *testing.T) {
	top := TopN(fixture(), Likes, 10)
	assert.Len(t, top, 4, "fewer records than n returns everything")
}

func TestTopNStableTies(t *testing.T) {
	records := []domain.Record{
		rec("A", 1, 1, 5, 10),
		rec("B", 1, 1, 5, 10),
		rec("C", 1, 1, 5, 10),
	}
	top := TopN(records, Likes, 3)
	assert.Equal(t, []string{"A", "B", "C"},
		[]string{top[0].Account, top[1].Account, top[2].Account},
		"ties keep input order")
}

func TestSeries(t *testing.T) {
	points := Series(fixture(), "B", Followers)
	require.Len(t, points, 2)
	assert.Equal(t, day(1), points[0].Date)
	assert.Equal(t, float64(490), points[0].Value)
	assert.Equal(t, day(2), points[1].Date)
	assert.Equal(t, float64(500), points[1].Value)
}

func TestPeak(t *testing.T) {
	peak, err := Peak(fixture(), "A", Likes)
	require.NoError(t, err)
	assert.Equal(t, day(2), peak.Date)
	assert.Equal(t, int64(20), peak.Likes)
}

func TestPeakTieResolvesEarliest(t *testing.T) {
	records := []domain.Record{
		rec("A", 3, 1, 9, 10),
		rec("A", 1, 1, 9, 10),
	}
	peak, err := Peak(records, "A", Likes)
	require.NoError(t, err)
	assert.Equal(t, day(1), peak.Date)
}

func TestPeakUnknownAccount(t *testing.T) {
	_, err := Peak(fixture(), "missing", Likes)
	var emptyErr *apperrors.EmptyInputError
	assert.ErrorAs(t, err, &emptyErr)
}

func TestFilterRange(t *testing.T) {
	records := fixture()

	filtered := FilterRange(records, day(2), day(2))
	require.Len(t, filtered, 2, "bounds are inclusive")
	for _, r := range filtered {
		assert.Equal(t, day(2), r.Date)
	}

	assert.Empty(t, FilterRange(records, day(10), day(20)))
}

func TestDateBounds(t *testing.T) {
	min, max, err := DateBounds(fixture())
	require.NoError(t, err)
	assert.Equal(t, day(1), min)
	assert.Equal(t, day(2), max)

	_, _, err = DateBounds(nil)
	var emptyErr *apperrors.EmptyInputError
	assert.ErrorAs(t, err, &emptyErr)
}

func TestAccountsFirstAppearanceOrder(t *testing.T) {
	records := []domain.Record{
		rec("B", 1, 1, 1, 1),
		rec("A", 1, 1, 1, 1),
		rec("B", 2, 1, 1, 1),
	}
	assert.Equal(t, []string{"B", "A"}, Accounts(records))
}

func TestOverview(t *testing.T) {
	summary, err := Overview(fixture())
	require.NoError(t, err)

	assert.Equal(t, day(1), summary.From)
	assert.Equal(t, day(2), summary.To)
	assert.Equal(t, 2, summary.Accounts)
	assert.Equal(t, 4, summary.Records)
	assert.Equal(t, int64(1520), summary.TotalFans)
	assert.Equal(t, int64(43), summary.TotalLikes)
	assert.Equal(t, int64(300), summary.TotalViews)

	_, err = Overview(nil)
	assert.Error(t, err)
}

// Two posts by one account, likes 10 and 20 at 100 views each: rates are
// 0.10 and 0.20, the total is 30 likes, and the latest row is day 2.
func TestEngagementScenario(t *testing.T) {
	records := []domain.Record{
		rec("A", 1, 1000, 10, 100),
		rec("A", 2, 1000, 20, 100),
	}
	assert.InDelta(t, 0.10, records[0].EngagementRate, 1e-9)
	assert.InDelta(t, 0.20, records[1].EngagementRate, 1e-9)
	assert.Equal(t, float64(30), Total(records, Likes))

	latest := LatestPerAccount(records)
	require.Len(t, latest, 1)
	assert.Equal(t, day(2), latest[0].Date)
}
