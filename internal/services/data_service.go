// Package services holds the session state and pipeline orchestration
// between the HTTP transport and the dataset/chart/report packages.
package services

import (
	"io"
	"log/slog"
	"sync"

	"github.com/zengjun200211-svg/douyindata/internal/analytics"
	"github.com/zengjun200211-svg/douyindata/internal/dataset"
	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

// previewRows caps how many rows the status preview carries.
const previewRows = 10

// DataService owns the session dataset. One dataset exists per process:
// it is created by an upload or the sample generator, optionally replaced
// once by a remapped version when the upload's columns did not match, and
// is read-only afterwards. Loading again simply starts a new session.
type DataService struct {
	mu     sync.Mutex
	logger *slog.Logger

	pending *dataset.Table // upload awaiting a column mapping
	missing []string
	records []domain.Record
}

// NewDataService creates the session data service.
func NewDataService(logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{logger: logger.With(slog.String("component", "data_service"))}
}

// Status describes the session dataset for the orchestrating UI.
type Status struct {
	Loaded       bool       `json:"loaded"`
	NeedsMapping bool       `json:"needs_mapping"`
	Missing      []string   `json:"missing_columns,omitempty"`
	Headers      []string   `json:"headers,omitempty"`
	Records      int        `json:"records"`
	Accounts     []string   `json:"accounts,omitempty"`
	From         string     `json:"from,omitempty"`
	To           string     `json:"to,omitempty"`
	Preview      [][]string `json:"preview,omitempty"`
}

// LoadSample replaces the session dataset with generated demo data.
func (s *DataService) LoadSample(opts dataset.SampleOptions) Status {
	records := dataset.GenerateSample(opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.pending = nil
	s.missing = nil
	s.logger.Info("sample dataset loaded", slog.Int("records", len(records)))
	return s.statusLocked()
}

// LoadRecords replaces the session dataset with records normalized
// elsewhere. The CLI path uses it so the HTTP and CLI pipelines stay one
// code path from the filter stage onward.
func (s *DataService) LoadRecords(records []domain.Record) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.pending = nil
	s.missing = nil
	return s.statusLocked()
}

// LoadUpload ingests an uploaded file. When every canonical column is
// present (directly or via header aliases) the table is normalized
// immediately; otherwise it is held for a one-shot column remap and the
// status lists what is missing.
func (s *DataService) LoadUpload(r io.Reader, filename string) (Status, error) {
	table, err := dataset.LoadReader(r, filename)
	if err != nil {
		return Status{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	missing := dataset.MissingColumns(table, nil)
	if len(missing) > 0 {
		s.pending = &table
		s.missing = missing
		s.records = nil
		s.logger.Info("upload needs column mapping",
			slog.String("filename", filename),
			slog.Any("missing", missing))
		return s.statusLocked(), nil
	}

	records, err := dataset.Normalize(table, nil)
	if err != nil {
		return Status{}, err
	}
	s.records = records
	s.pending = nil
	s.missing = nil
	s.logger.Info("upload normalized",
		slog.String("filename", filename),
		slog.Int("records", len(records)))
	return s.statusLocked(), nil
}

// ApplyMapping normalizes the pending upload with the user's column
// mapping (source column name -> canonical name). On success the loose
// table is discarded; the typed dataset replaces it for the rest of the
// session.
func (s *DataService) ApplyMapping(mapping map[string]string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return Status{}, apperrors.ErrNoDataset
	}
	records, err := dataset.Normalize(*s.pending, mapping)
	if err != nil {
		return Status{}, err
	}
	s.records = records
	s.pending = nil
	s.missing = nil
	s.logger.Info("mapping applied", slog.Int("records", len(records)))
	return s.statusLocked(), nil
}

// Records returns the normalized session dataset.
func (s *DataService) Records() ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		return nil, apperrors.ErrNoDataset
	}
	return s.records, nil
}

// Status reports the current session state.
func (s *DataService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *DataService) statusLocked() Status {
	if s.pending != nil {
		return Status{
			NeedsMapping: true,
			Missing:      s.missing,
			Headers:      s.pending.Headers,
			Records:      len(s.pending.Rows),
		}
	}
	if s.records == nil {
		return Status{}
	}

	st := Status{
		Loaded:   true,
		Records:  len(s.records),
		Accounts: analytics.Accounts(s.records),
	}
	if from, to, err := analytics.DateBounds(s.records); err == nil {
		st.From = from.Format(domain.DateLayout)
		st.To = to.Format(domain.DateLayout)
	}
	preview := dataset.TableFromRecords(s.records)
	st.Headers = preview.Headers
	if len(preview.Rows) > previewRows {
		preview.Rows = preview.Rows[:previewRows]
	}
	st.Preview = preview.Rows
	return st
}
