package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/zengjun200211-svg/douyindata/internal/analytics"
	"github.com/zengjun200211-svg/douyindata/internal/config"
	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

// ChartRenderer is the rendering sink the pipeline drives. It consumes the
// date-filtered dataset and an output directory and produces named image
// files, returning their paths.
type ChartRenderer interface {
	Overview(records []domain.Record, outDir string) (string, error)
	AccountDetail(records []domain.Record, account, outDir string) (string, error)
	TopPosts(records []domain.Record, outDir string) (string, error)
	Comparison(records []domain.Record, outDir string) (string, error)
}

// DocumentBuilder consumes the same filtered dataset plus the chart images
// already present in outDir and produces one document file.
type DocumentBuilder interface {
	Build(records []domain.Record, outDir string) (string, error)
}

// ProgressFunc receives pipeline progress for the orchestrating UI.
// Implementations must not block; nil is allowed.
type ProgressFunc func(stage string, percent int)

// Artifacts lists everything one generation run produced.
type Artifacts struct {
	ID     string   `json:"id"`
	Dir    string   `json:"-"`
	Charts []string `json:"charts"`
	Deck   string   `json:"deck"`
	Doc    string   `json:"doc"`
}

// ReportService runs the report pipeline: filter by date range, render the
// chart batch, then build both documents. Stages run sequentially; a
// failure aborts the rest and nothing partial is returned.
type ReportService struct {
	data     *DataService
	renderer ChartRenderer
	deck     DocumentBuilder
	doc      DocumentBuilder
	paths    *config.Paths
	logger   *slog.Logger
}

// NewReportService wires the pipeline dependencies.
func NewReportService(data *DataService, renderer ChartRenderer, deck, doc DocumentBuilder, paths *config.Paths, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		data:     data,
		renderer: renderer,
		deck:     deck,
		doc:      doc,
		paths:    paths,
		logger:   logger.With(slog.String("component", "report_service")),
	}
}

// Generate runs the full pipeline over the session dataset restricted to
// [from, to]. An empty filtered range fails with an EmptyInputError before
// any rendering is attempted. Artifacts for one run share a session
// directory; re-running with the same inputs overwrites the same
// filenames.
func (s *ReportService) Generate(ctx context.Context, from, to time.Time, progress ProgressFunc) (*Artifacts, error) {
	if progress == nil {
		progress = func(string, int) {}
	}

	records, err := s.data.Records()
	if err != nil {
		return nil, err
	}

	progress("processing", 10)
	filtered := analytics.FilterRange(records, from, to)
	if len(filtered) == 0 {
		return nil, &apperrors.EmptyInputError{Op: "generate report"}
	}

	id := uuid.New().String()
	outDir, err := s.paths.SessionDir(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	s.logger.InfoContext(ctx, "report generation started",
		slog.String("session", id),
		slog.Int("records", len(filtered)),
		slog.Time("from", from),
		slog.Time("to", to))

	artifacts := &Artifacts{ID: id, Dir: outDir}

	progress("rendering charts", 20)
	path, err := s.renderer.Overview(filtered, outDir)
	if err != nil {
		return nil, err
	}
	artifacts.Charts = append(artifacts.Charts, filepath.Base(path))

	accounts := analytics.Accounts(filtered)
	for i, account := range accounts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, err := s.renderer.AccountDetail(filtered, account, outDir)
		if err != nil {
			return nil, err
		}
		artifacts.Charts = append(artifacts.Charts, filepath.Base(path))
		progress("rendering charts", 20+(i+1)*40/len(accounts))
	}

	path, err = s.renderer.TopPosts(filtered, outDir)
	if err != nil {
		return nil, err
	}
	artifacts.Charts = append(artifacts.Charts, filepath.Base(path))
	progress("rendering charts", 75)

	path, err = s.renderer.Comparison(filtered, outDir)
	if err != nil {
		return nil, err
	}
	artifacts.Charts = append(artifacts.Charts, filepath.Base(path))
	progress("building slide deck", 85)

	deckPath, err := s.deck.Build(filtered, outDir)
	if err != nil {
		return nil, err
	}
	artifacts.Deck = filepath.Base(deckPath)
	progress("building word report", 92)

	docPath, err := s.doc.Build(filtered, outDir)
	if err != nil {
		return nil, err
	}
	artifacts.Doc = filepath.Base(docPath)
	progress("done", 100)

	s.logger.InfoContext(ctx, "report generation finished",
		slog.String("session", id),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("charts", len(artifacts.Charts)))
	return artifacts, nil
}

// ArtifactPath resolves a generated artifact for download, refusing names
// that escape the session directory.
func (s *ReportService) ArtifactPath(id, name string) (string, error) {
	if id == "" || name == "" || name != filepath.Base(name) {
		return "", apperrors.ErrNotFound
	}
	if id != filepath.Base(id) {
		return "", apperrors.ErrNotFound
	}
	return filepath.Join(s.paths.ReportsDir, id, name), nil
}
