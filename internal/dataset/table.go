// Package dataset turns uploaded spreadsheets and CSV files into the typed
// record form the rest of the pipeline consumes, and produces synthetic
// demo data in the same shape. It is the only place loose string tables
// exist; normalization is the single point translating external schemas
// into domain.Record.
package dataset

import (
	"strconv"
	"strings"

	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

// Table is a loose tabular payload as read from an upload: a header row
// and string cells, column names and order arbitrary.
type Table struct {
	Headers []string
	Rows    [][]string
}

// resolveHeaders applies the user mapping and the built-in header aliases,
// returning the canonical name for each column position. Unmapped columns
// keep their original name and are ignored by the normalizer.
func resolveHeaders(headers []string, mapping map[string]string) []string {
	aliases := domain.HeaderAliases()
	resolved := make([]string, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if mapped, ok := mapping[name]; ok {
			resolved[i] = mapped
			continue
		}
		if alias, ok := aliases[name]; ok {
			resolved[i] = alias
			continue
		}
		resolved[i] = strings.ToLower(name)
	}
	return resolved
}

// MissingColumns reports which canonical columns a table lacks after alias
// resolution and the given mapping. An empty result means the table can be
// normalized as-is.
func MissingColumns(t Table, mapping map[string]string) []string {
	resolved := resolveHeaders(t.Headers, mapping)
	present := make(map[string]bool, len(resolved))
	for _, name := range resolved {
		present[name] = true
	}
	var missing []string
	for _, col := range domain.CanonicalColumns() {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// TableFromRecords projects typed records back into a canonical loose
// table. Used for previews and for feeding generated data through the same
// normalization path uploads take.
func TableFromRecords(records []domain.Record) Table {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Account,
			r.Date.Format(domain.DateLayout),
			r.Title,
			strconv.FormatInt(r.Followers, 10),
			strconv.FormatInt(r.FollowerDelta, 10),
			strconv.FormatInt(r.Likes, 10),
			strconv.FormatInt(r.Comments, 10),
			strconv.FormatInt(r.Shares, 10),
			strconv.FormatInt(r.Favorites, 10),
			strconv.FormatInt(r.Views, 10),
		})
	}
	return Table{Headers: domain.CanonicalColumns(), Rows: rows}
}
