package dataset

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

// SampleOptions controls the synthetic demo dataset. A zero Seed seeds
// from the clock, so two unseeded runs may differ; structural properties
// (row count, column set, non-negativity) hold either way.
type SampleOptions struct {
	Accounts int
	Days     int
	Seed     int64
}

// DefaultSampleOptions mirrors the upstream demo: six accounts over the
// last 30 days ending today.
func DefaultSampleOptions() SampleOptions {
	return SampleOptions{Accounts: 6, Days: 30}
}

var sampleAccountNames = []string{
	"美食探店达人",
	"旅行记录家",
	"职场小能手",
	"宠物日记",
	"健身教练小王",
	"科技测评官",
}

var sampleTopics = []string{"美食", "旅行", "职场", "宠物", "健身", "科技"}

var sampleHooks = []string{"超实用", "必看", "干货满满"}

// GenerateSample produces a schema-valid demo dataset with no external
// input. Follower counts follow a bounded random walk per account;
// engagement metrics are drawn from bounded uniform ranges. The result
// satisfies every dataset invariant, derived columns included, and
// round-trips through Normalize with an identity mapping.
func GenerateSample(opts SampleOptions) []domain.Record {
	if opts.Accounts <= 0 {
		opts.Accounts = 6
	}
	if opts.Days <= 0 {
		opts.Days = 30
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	accounts := make([]string, opts.Accounts)
	for i := range accounts {
		if i < len(sampleAccountNames) {
			accounts[i] = sampleAccountNames[i]
		} else {
			accounts[i] = fmt.Sprintf("创作者%02d", i+1)
		}
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -(opts.Days - 1))

	records := make([]domain.Record, 0, opts.Accounts*opts.Days)
	for _, account := range accounts {
		followers := int64(50000 + rng.Intn(450000))
		for d := 0; d < opts.Days; d++ {
			followers += int64(rng.Intn(2501) - 500) // walk step in [-500, 2000]

			rec := domain.Record{
				Account:       account,
				Date:          start.AddDate(0, 0, d),
				Title:         sampleTitle(rng, account),
				Followers:     followers,
				FollowerDelta: int64(rng.Intn(1801) - 300), // [-300, 1500]
				Likes:         int64(100 + rng.Intn(49901)),
				Comments:      int64(10 + rng.Intn(4991)),
				Shares:        int64(5 + rng.Intn(1996)),
				Favorites:     int64(20 + rng.Intn(9981)),
				Views:         int64(1000 + rng.Intn(999001)),
			}
			rec.ComputeDerived()
			records = append(records, rec)
		}
	}

	slog.Info("generated sample dataset",
		slog.Int("accounts", opts.Accounts),
		slog.Int("days", opts.Days),
		slog.Int("records", len(records)))
	return records
}

func sampleTitle(rng *rand.Rand, account string) string {
	switch rng.Intn(3) {
	case 0:
		return fmt.Sprintf("%s的精彩内容 - 第%d期", account, 1+rng.Intn(99))
	case 1:
		return fmt.Sprintf("今日分享：%s小技巧", sampleTopics[rng.Intn(len(sampleTopics))])
	default:
		return fmt.Sprintf("%s！%s教你一招", sampleHooks[rng.Intn(len(sampleHooks))], account)
	}
}
