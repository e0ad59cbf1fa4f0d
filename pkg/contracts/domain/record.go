package domain

import (
	"time"
)

// Record is one row of per-account, per-day, per-post performance data in
// its normalized typed form. Everything downstream of the normalizer
// operates on Records only; loose string tables never leave the ingestion
// layer.
type Record struct {
	Account         string    `json:"account" validate:"required"`
	Date            time.Time `json:"date"`
	Title           string    `json:"title"`
	Followers       int64     `json:"followers" validate:"min=0"`
	FollowerDelta   int64     `json:"follower_delta"`
	Likes           int64     `json:"likes" validate:"min=0"`
	Comments        int64     `json:"comments" validate:"min=0"`
	Shares          int64     `json:"shares" validate:"min=0"`
	Favorites       int64     `json:"favorites" validate:"min=0"`
	Views           int64     `json:"views" validate:"min=0"`
	EngagementCount int64     `json:"engagement_count"`
	EngagementRate  float64   `json:"engagement_rate"`
}

// ComputeDerived fills in the two derived fields. Engagement deliberately
// excludes shares. A zero view count is substituted with 1 so the rate stays
// defined; this deflates the rate for zero-view rows and is kept for
// compatibility with the upstream exports.
func (r *Record) ComputeDerived() {
	r.EngagementCount = r.Likes + r.Comments + r.Favorites
	views := r.Views
	if views == 0 {
		views = 1
	}
	r.EngagementRate = float64(r.EngagementCount) / float64(views)
}

// DateLayout is the canonical day-granularity date format used in input
// files, filenames and API payloads.
const DateLayout = "2006-01-02"

// Canonical column names required after normalization, in schema order.
const (
	ColAccount       = "account"
	ColDate          = "date"
	ColTitle         = "title"
	ColFollowers     = "followers"
	ColFollowerDelta = "follower_delta"
	ColLikes         = "likes"
	ColComments      = "comments"
	ColShares        = "shares"
	ColFavorites     = "favorites"
	ColViews         = "views"
)

// CanonicalColumns lists the ten required input columns in order. The two
// derived columns (engagement_count, engagement_rate) are appended by the
// normalizer and are never expected in uploads.
func CanonicalColumns() []string {
	return []string{
		ColAccount,
		ColDate,
		ColTitle,
		ColFollowers,
		ColFollowerDelta,
		ColLikes,
		ColComments,
		ColShares,
		ColFavorites,
		ColViews,
	}
}

// HeaderAliases maps known upstream export headers to canonical column
// names. The short-video platform exports Chinese headers; accepting them
// directly saves the user a manual remap for the common case.
func HeaderAliases() map[string]string {
	return map[string]string{
		"账号名称": ColAccount,
		"日期":   ColDate,
		"作品标题": ColTitle,
		"粉丝量":  ColFollowers,
		"涨粉量":  ColFollowerDelta,
		"点赞数":  ColLikes,
		"评论数":  ColComments,
		"分享数":  ColShares,
		"收藏数":  ColFavorites,
		"播放量":  ColViews,
	}
}
