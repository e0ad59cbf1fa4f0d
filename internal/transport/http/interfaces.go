// Package http exposes the orchestration surface: dataset loading, column
// remapping, report generation and artifact downloads.
package http

import (
	"context"
	"io"
	"time"

	"github.com/zengjun200211-svg/douyindata/internal/dataset"
	"github.com/zengjun200211-svg/douyindata/internal/services"
)

// DataServiceInterface is the session-dataset surface the data handler
// depends on.
type DataServiceInterface interface {
	LoadSample(opts dataset.SampleOptions) services.Status
	LoadUpload(r io.Reader, filename string) (services.Status, error)
	ApplyMapping(mapping map[string]string) (services.Status, error)
	Status() services.Status
}

// ReportServiceInterface is the pipeline surface the report handler
// depends on.
type ReportServiceInterface interface {
	Generate(ctx context.Context, from, to time.Time, progress services.ProgressFunc) (*services.Artifacts, error)
	ArtifactPath(id, name string) (string, error)
}
