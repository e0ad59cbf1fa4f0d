package dataset

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

// dateLayouts are the accepted input date formats, tried in order.
var dateLayouts = []string{
	domain.DateLayout,
	"2006/01/02",
	"2006-01-02 15:04:05",
}

// Normalize validates a loose table against the canonical schema and
// parses it into typed records with derived fields appended. mapping
// renames source columns to canonical names and may be empty when the
// table already matches. The input table is not modified.
//
// Failure is all-or-nothing: a missing column yields a SchemaError naming
// every absent column, and an unparseable cell yields a ValueError for the
// first offending row. No partial dataset is returned.
func Normalize(t Table, mapping map[string]string) ([]domain.Record, error) {
	if missing := MissingColumns(t, mapping); len(missing) > 0 {
		return nil, apperrors.NewSchemaError(missing)
	}

	resolved := resolveHeaders(t.Headers, mapping)
	index := make(map[string]int, len(resolved))
	for i, name := range resolved {
		// First occurrence wins for duplicate headers.
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	records := make([]domain.Record, 0, len(t.Rows))
	for i, row := range t.Rows {
		rec, err := parseRow(row, index, i+1)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	slog.Info("normalized dataset",
		slog.Int("records", len(records)),
		slog.Int("mapped_columns", len(mapping)))
	return records, nil
}

func parseRow(row []string, index map[string]int, rowNum int) (domain.Record, error) {
	cell := func(col string) string {
		return strings.TrimSpace(row[index[col]])
	}

	var rec domain.Record

	rec.Account = cell(domain.ColAccount)
	if rec.Account == "" {
		return domain.Record{}, &apperrors.ValueError{
			Row: rowNum, Column: domain.ColAccount,
			Cause: fmt.Errorf("account identifier is empty"),
		}
	}
	rec.Title = cell(domain.ColTitle)

	date, err := parseDate(cell(domain.ColDate))
	if err != nil {
		return domain.Record{}, &apperrors.ValueError{Row: rowNum, Column: domain.ColDate, Cause: err}
	}
	rec.Date = date

	counts := []struct {
		col      string
		dst      *int64
		negative bool
	}{
		{domain.ColFollowers, &rec.Followers, false},
		{domain.ColFollowerDelta, &rec.FollowerDelta, true},
		{domain.ColLikes, &rec.Likes, false},
		{domain.ColComments, &rec.Comments, false},
		{domain.ColShares, &rec.Shares, false},
		{domain.ColFavorites, &rec.Favorites, false},
		{domain.ColViews, &rec.Views, false},
	}
	for _, c := range counts {
		v, err := parseCount(cell(c.col))
		if err != nil {
			return domain.Record{}, &apperrors.ValueError{Row: rowNum, Column: c.col, Cause: err}
		}
		if v < 0 && !c.negative {
			return domain.Record{}, &apperrors.ValueError{
				Row: rowNum, Column: c.col,
				Cause: fmt.Errorf("negative value %d", v),
			}
		}
		*c.dst = v
	}

	rec.ComputeDerived()
	return rec, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// parseCount parses an integer cell. Spreadsheet tools format large counts
// with separators or as floats, so both are tolerated as long as the value
// is integral.
func parseCount(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("value is empty")
	}
	cleaned := strings.ReplaceAll(s, ",", "")
	if v, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable number %q", s)
	}
	v := int64(f)
	if float64(v) != f {
		return 0, fmt.Errorf("non-integer value %q", s)
	}
	return v, nil
}
