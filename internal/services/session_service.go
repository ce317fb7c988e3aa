package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"tasklens/internal/config"
	"tasklens/internal/dataset"
	"tasklens/internal/exporter"
	"tasklens/internal/metrics"
	"tasklens/internal/summary"
)

// Summarizer is the outbound text-generation contract consumed by the
// session service. Implemented by summary.Client.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// FileInfo describes one uploaded file in the session inventory
type FileInfo struct {
	SourceFile  string         `json:"source_file"`
	RowsRead    int            `json:"rows_read"`
	RowsKept    int            `json:"rows_kept"`
	RowsDropped int            `json:"rows_dropped"`
	DropReasons map[string]int `json:"drop_reasons,omitempty"`
}

// SessionService owns the single in-memory session Dataset and drives the
// full pipeline: normalize on upload, combine, filter, aggregate, export,
// summarize. The Dataset is rebuilt whenever files change and never
// persisted across sessions.
type SessionService struct {
	mu         sync.RWMutex
	files      []*dataset.FileResult
	combined   dataset.Dataset
	normalizer *dataset.Normalizer
	summarizer Summarizer
	limits     config.LimitsConfig
	logger     *slog.Logger
}

// NewSessionService creates the session service
func NewSessionService(limits config.LimitsConfig, summarizer Summarizer, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		normalizer: dataset.NewNormalizer(logger),
		summarizer: summarizer,
		limits:     limits,
		logger:     logger.With(slog.String("component", "session_service")),
	}
}

// UploadFile normalizes one CSV file into the session. Re-uploading a
// filename already in the session replaces that file's rows in place.
func (s *SessionService) UploadFile(ctx context.Context, filename string, data []byte) (*dataset.FileResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptyUpload)
	}
	if int64(len(data)) > s.limits.MaxUploadBytes {
		return nil, fmt.Errorf("%s: %w", filename, ErrUploadTooLarge)
	}

	result, err := s.normalizer.Normalize(data, filename)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i, f := range s.files {
		if f.SourceFile == filename {
			s.files[i] = result
			replaced = true
			break
		}
	}
	if !replaced {
		if len(s.files) >= s.limits.MaxFiles {
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			return nil, fmt.Errorf("%s: %w", filename, ErrTooManyFiles)
		}
		s.files = append(s.files, result)
	}
	s.rebuild()

	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	metrics.RowsIngestedTotal.Add(float64(result.RowsKept))
	for reason, count := range result.DropReasons {
		metrics.RowsDroppedTotal.WithLabelValues(reason).Add(float64(count))
	}

	s.logger.InfoContext(ctx, "file uploaded",
		slog.String("file", filename),
		slog.Bool("replaced", replaced),
		slog.Int("rows_kept", result.RowsKept),
		slog.Int("rows_dropped", result.RowsDropped),
		slog.Int("dataset_size", len(s.combined)))

	return result, nil
}

// RemoveFile drops one file's rows from the session
func (s *SessionService) RemoveFile(ctx context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.files {
		if f.SourceFile == filename {
			s.files = append(s.files[:i], s.files[i+1:]...)
			s.rebuild()
			s.logger.InfoContext(ctx, "file removed",
				slog.String("file", filename),
				slog.Int("dataset_size", len(s.combined)))
			return nil
		}
	}
	return fmt.Errorf("%s: %w", filename, ErrFileNotFound)
}

// Reset clears the whole session
func (s *SessionService) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
	s.combined = nil
	s.logger.InfoContext(ctx, "session reset")
}

// rebuild recomputes the combined dataset; callers hold the write lock
func (s *SessionService) rebuild() {
	s.combined = dataset.Combine(s.files)
}

// Files returns the upload inventory in upload order
func (s *SessionService) Files(ctx context.Context) []FileInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]FileInfo, 0, len(s.files))
	for _, f := range s.files {
		infos = append(infos, FileInfo{
			SourceFile:  f.SourceFile,
			RowsRead:    f.RowsRead,
			RowsKept:    f.RowsKept,
			RowsDropped: f.RowsDropped,
			DropReasons: f.DropReasons,
		})
	}
	return infos
}

// Records returns the filtered subsequence in stable order
func (s *SessionService) Records(ctx context.Context, criteria dataset.FilterCriteria) (dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.files) == 0 {
		return nil, ErrNoData
	}
	return dataset.Filter(s.combined, criteria), nil
}

// Aggregates computes every chart view over the filtered subsequence
func (s *SessionService) Aggregates(ctx context.Context, criteria dataset.FilterCriteria) (dataset.Aggregates, error) {
	records, err := s.Records(ctx, criteria)
	if err != nil {
		return dataset.Aggregates{}, err
	}
	return dataset.Aggregate(records), nil
}

// Facets lists distinct filter values over the full dataset
func (s *SessionService) Facets(ctx context.Context) (dataset.Facets, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.files) == 0 {
		return dataset.Facets{}, ErrNoData
	}
	return dataset.CollectFacets(s.combined), nil
}

// ExportCSV writes the filtered view to w as CSV
func (s *SessionService) ExportCSV(ctx context.Context, w io.Writer, criteria dataset.FilterCriteria) error {
	records, err := s.Records(ctx, criteria)
	if err != nil {
		return err
	}
	if err := exporter.WriteCSV(w, records, exporter.CSVOptions{BOMPrefix: true}); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues("csv").Inc()
	return nil
}

// ExportXLSX writes the filtered view to w as an Excel workbook
func (s *SessionService) ExportXLSX(ctx context.Context, w io.Writer, criteria dataset.FilterCriteria) error {
	records, err := s.Records(ctx, criteria)
	if err != nil {
		return err
	}
	if err := exporter.WriteXLSX(w, records); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues("xlsx").Inc()
	return nil
}

// Summarize aggregates the filtered view and asks the text-generation API
// for prose. The call blocks until the upstream responds or ctx expires;
// upstream errors come back unwrapped for verbatim display.
func (s *SessionService) Summarize(ctx context.Context, criteria dataset.FilterCriteria) (string, error) {
	agg, err := s.Aggregates(ctx, criteria)
	if err != nil {
		return "", err
	}

	prompt := summary.BuildPrompt(agg, criteria)
	text, err := s.summarizer.Summarize(ctx, prompt)
	if err != nil {
		metrics.SummaryRequestsTotal.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.SummaryRequestsTotal.WithLabelValues("ok").Inc()

	s.logger.InfoContext(ctx, "summary generated",
		slog.Int("tasks", agg.Metrics.TaskCount),
		slog.Int("summary_bytes", len(text)))
	return text, nil
}
