package http

import (
	"context"
	"io"

	"tasklens/internal/dataset"
	"tasklens/internal/services"
)

// SessionServiceInterface defines the session operations the handlers need
type SessionServiceInterface interface {
	UploadFile(ctx context.Context, filename string, data []byte) (*dataset.FileResult, error)
	RemoveFile(ctx context.Context, filename string) error
	Reset(ctx context.Context)
	Files(ctx context.Context) []services.FileInfo
	Records(ctx context.Context, criteria dataset.FilterCriteria) (dataset.Dataset, error)
	Aggregates(ctx context.Context, criteria dataset.FilterCriteria) (dataset.Aggregates, error)
	Facets(ctx context.Context) (dataset.Facets, error)
	ExportCSV(ctx context.Context, w io.Writer, criteria dataset.FilterCriteria) error
	ExportXLSX(ctx context.Context, w io.Writer, criteria dataset.FilterCriteria) error
	Summarize(ctx context.Context, criteria dataset.FilterCriteria) (string, error)
}
