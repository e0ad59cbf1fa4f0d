// Package analytics holds the pure aggregation functions the chart and
// document builders share. The upstream tooling repeated the same
// sort/group/last pattern inline in every builder; centralizing it here
// gives the tie-break and zero-division policies a single home.
//
// Every function takes records by value slice and never mutates or reorders
// the caller's data. Sorts are stable throughout, so equal values keep
// their input order and results are deterministic. The order of same-day
// duplicate records for one account is not defined by the schema;
// latest-per-account picks whichever row sorts last.
package analytics

import (
	"sort"
	"time"

	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

// Field projects one metric out of a record, letting aggregations run over
// any column.
type Field func(domain.Record) float64

// Field selectors for every canonical and derived metric.
var (
	Followers       Field = func(r domain.Record) float64 { return float64(r.Followers) }
	FollowerDelta   Field = func(r domain.Record) float64 { return float64(r.FollowerDelta) }
	Likes           Field = func(r domain.Record) float64 { return float64(r.Likes) }
	Comments        Field = func(r domain.Record) float64 { return float64(r.Comments) }
	Shares          Field = func(r domain.Record) float64 { return float64(r.Shares) }
	Favorites       Field = func(r domain.Record) float64 { return float64(r.Favorites) }
	Views           Field = func(r domain.Record) float64 { return float64(r.Views) }
	EngagementCount Field = func(r domain.Record) float64 { return float64(r.EngagementCount) }
	EngagementRate  Field = func(r domain.Record) float64 { return r.EngagementRate }
)

// sortedByDate returns a copy of records stably sorted by date ascending.
func sortedByDate(records []domain.Record) []domain.Record {
	out := make([]domain.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// LatestPerAccount returns the most recent record of every account, one
// row per distinct account, ordered by account name ascending.
func LatestPerAccount(records []domain.Record) []domain.Record {
	latest := make(map[string]domain.Record)
	for _, r := range sortedByDate(records) {
		latest[r.Account] = r
	}
	accounts := make([]string, 0, len(latest))
	for account := range latest {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	out := make([]domain.Record, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, latest[account])
	}
	return out
}

// Total sums f across all records. The total of an empty set is 0.
func Total(records []domain.Record, f Field) float64 {
	var sum float64
	for _, r := range records {
		sum += f(r)
	}
	return sum
}

// TotalFans sums the latest follower count of every account. Unlike the
// row-wise totals this counts each account once, at its most recent date.
func TotalFans(records []domain.Record) int64 {
	var sum int64
	for _, r := range LatestPerAccount(records) {
		sum += r.Followers
	}
	return sum
}

// TopN returns the n records with the highest value of f, descending.
// Ties keep input order; fewer than n records returns everything.
func TopN(records []domain.Record, f Field, n int) []domain.Record {
	out := make([]domain.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return f(out[i]) > f(out[j])
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Point is one (date, value) sample of a per-account time series.
type Point struct {
	Date  time.Time
	Value float64
}

// Series projects one account's records, date ascending, onto f.
func Series(records []domain.Record, account string, f Field) []Point {
	var points []Point
	for _, r := range sortedByDate(records) {
		if r.Account != account {
			continue
		}
		points = append(points, Point{Date: r.Date, Value: f(r)})
	}
	return points
}

// Peak returns the record where f is maximal for the given account. Ties
// resolve to the earliest occurrence in date order. An account with no
// records yields an EmptyInputError.
func Peak(records []domain.Record, account string, f Field) (domain.Record, error) {
	var (
		best  domain.Record
		found bool
	)
	for _, r := range sortedByDate(records) {
		if r.Account != account {
			continue
		}
		if !found || f(r) > f(best) {
			best = r
			found = true
		}
	}
	if !found {
		return domain.Record{}, &apperrors.EmptyInputError{Op: "peak for account " + account}
	}
	return best, nil
}

// FilterRange keeps records whose date falls within [from, to], both
// bounds inclusive at day granularity.
func FilterRange(records []domain.Record, from, to time.Time) []domain.Record {
	var out []domain.Record
	for _, r := range records {
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DateBounds returns the minimum and maximum dates present.
func DateBounds(records []domain.Record) (time.Time, time.Time, error) {
	if len(records) == 0 {
		return time.Time{}, time.Time{}, &apperrors.EmptyInputError{Op: "date bounds"}
	}
	min, max := records[0].Date, records[0].Date
	for _, r := range records[1:] {
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max, nil
}

// Accounts lists the distinct account identifiers in first-appearance
// order.
func Accounts(records []domain.Record) []string {
	seen := make(map[string]bool)
	var accounts []string
	for _, r := range records {
		if !seen[r.Account] {
			seen[r.Account] = true
			accounts = append(accounts, r.Account)
		}
	}
	return accounts
}

// Summary carries the headline totals both document builders display.
// TotalFans counts each account once at its latest date; the remaining
// totals sum across every row in the filtered range.
type Summary struct {
	From           time.Time
	To             time.Time
	Accounts       int
	Records        int
	TotalFans      int64
	TotalGrowth    int64
	TotalLikes     int64
	TotalComments  int64
	TotalFavorites int64
	TotalViews     int64
}

// Overview reduces the filtered dataset into its headline summary.
func Overview(records []domain.Record) (Summary, error) {
	from, to, err := DateBounds(records)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		From:           from,
		To:             to,
		Accounts:       len(Accounts(records)),
		Records:        len(records),
		TotalFans:      TotalFans(records),
		TotalGrowth:    int64(Total(records, FollowerDelta)),
		TotalLikes:     int64(Total(records, Likes)),
		TotalComments:  int64(Total(records, Comments)),
		TotalFavorites: int64(Total(records, Favorites)),
		TotalViews:     int64(Total(records, Views)),
	}, nil
}
