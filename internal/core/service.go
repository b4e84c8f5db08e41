// Package core implements the reference-data validation engine, the load
// calculator, and the project persistence workflow on top of an abstract
// project store.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"coolingcore/internal/ingest"
	"coolingcore/pkg/domain"
)

// Operation names used for metrics, tracing, and audit entries.
const (
	opLoadDataset    = "load_dataset"
	opReplaceDataset = "replace_dataset"
	opCompute        = "compute_results"
	opComputeRange   = "compute_range_results"
	opSaveProject    = "save_project"
	opLoadProject    = "load_project"
	opDeleteProject  = "delete_project"
	opListProjects   = "list_projects"
)

// Service exposes the computation and persistence surface consumed by the
// presentation layer: dataset ingestion/override, per-tier and range
// computation, and project save/load/delete/list against a ProjectStore.
type Service struct {
	catalog *Catalog
	store   domain.ProjectStore

	logger  ServiceLogger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	nowFn   func() time.Time
}

// NewService constructs a service over the supplied project store.
func NewService(store domain.ProjectStore, opts ...ServiceOption) *Service {
	s := &Service{
		catalog: NewCatalog(),
		store:   store,
		logger:  NopLogger{},
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the dataset catalog for direct inspection.
func (s *Service) Catalog() *Catalog { return s.catalog }

// BuildingTypes lists the building types of the current dataset in source
// order. Empty before any successful load.
func (s *Service) BuildingTypes() []string {
	return s.catalog.Dataset().BuildingTypes()
}

// LoadDataset performs the initial dataset load from raw rows. Row
// failures are reported alongside a successful load; the load only fails
// when zero rows validate.
func (s *Service) LoadDataset(ctx context.Context, rows []map[string]string) ([]domain.RowError, error) {
	return s.ingest(ctx, opLoadDataset, rows)
}

// ReplaceDataset swaps the working dataset for a custom upload with the
// same row-failure reporting. A replacement in which nothing validates
// leaves the working dataset untouched.
func (s *Service) ReplaceDataset(ctx context.Context, rows []map[string]string) ([]domain.RowError, error) {
	return s.ingest(ctx, opReplaceDataset, rows)
}

// LoadDatasetCSV decodes CSV from r and performs the initial load.
func (s *Service) LoadDatasetCSV(ctx context.Context, r io.Reader) ([]domain.RowError, error) {
	return s.ingestCSV(ctx, opLoadDataset, r)
}

// ReplaceDatasetCSV decodes CSV from r and replaces the working dataset.
func (s *Service) ReplaceDatasetCSV(ctx context.Context, r io.Reader) ([]domain.RowError, error) {
	return s.ingestCSV(ctx, opReplaceDataset, r)
}

func (s *Service) ingestCSV(ctx context.Context, op string, r io.Reader) ([]domain.RowError, error) {
	rows, err := ingest.ParseCSV(r)
	if err != nil {
		// Decode failures never touch the working dataset.
		_ = s.instrument(ctx, op, "", "", func(context.Context) error { return err })
		return nil, err
	}
	return s.ingest(ctx, op, rows)
}

func (s *Service) ingest(ctx context.Context, op string, rows []map[string]string) ([]domain.RowError, error) {
	var failures []domain.RowError
	err := s.instrument(ctx, op, "", "", func(context.Context) error {
		var err error
		failures, err = s.catalog.Replace(rows)
		return err
	})
	if err == nil {
		for _, f := range failures {
			s.logger.Warnf("invalid data in row %d: %v", f.Row, f.Err)
		}
		accepted := s.catalog.Dataset().Len()
		if obs, ok := s.metrics.(IngestObserver); ok {
			obs.ObserveIngest(accepted, len(failures))
		}
		s.logger.Infof("dataset loaded: %d building types, %d rows rejected", accepted, len(failures))
	}
	return failures, err
}

// ComputeResults derives the load estimate for one tier against the
// current dataset.
func (s *Service) ComputeResults(ctx context.Context, buildingType string, area float64, tier domain.Tier) (domain.Result, error) {
	var res domain.Result
	err := s.instrument(ctx, opCompute, "", "", func(context.Context) error {
		var err error
		res, err = Compute(s.catalog.Dataset(), buildingType, area, tier)
		return err
	})
	return res, err
}

// ComputeRangeResults derives all three tiers as one atomic outcome.
func (s *Service) ComputeRangeResults(ctx context.Context, buildingType string, area float64) (domain.RangeResults, error) {
	var res domain.RangeResults
	err := s.instrument(ctx, opComputeRange, "", "", func(context.Context) error {
		var err error
		res, err = ComputeRange(s.catalog.Dataset(), buildingType, area)
		return err
	})
	return res, err
}

// SaveReceipt reports what a save did. Updated is true only when an
// existing current-schema record was overwritten; overwriting a legacy
// record counts as a new logical record with a fresh creation time.
type SaveReceipt struct {
	Updated   bool
	CreatedAt string
	UpdatedAt string
}

// SaveProject upserts a project under (owner, name). The creation
// timestamp of an existing current-schema record is carried forward;
// UpdatedAt is always the save time. The stored record mirrors both
// timestamps outside the config blob for cheap listing.
func (s *Service) SaveProject(ctx context.Context, owner, name string, sel domain.Selection, results domain.RangeResults) (domain.ProjectConfig, SaveReceipt, error) {
	var (
		cfg     domain.ProjectConfig
		receipt SaveReceipt
	)
	err := s.instrument(ctx, opSaveProject, owner, name, func(ctx context.Context) error {
		if owner == "" {
			return fmt.Errorf("owner is required")
		}
		if name == "" {
			return fmt.Errorf("project name is required")
		}
		if sel.SquareFootage < 0 {
			return fmt.Errorf("square footage must be non-negative, got %d", sel.SquareFootage)
		}

		now := s.nowFn().UTC().Format(time.RFC3339Nano)
		createdAt := now
		updated := false
		if existing, ok, err := s.store.Get(ctx, owner, name); err != nil {
			return domain.StoreUnavailableError{Op: opSaveProject, Err: err}
		} else if ok && !existing.IsLegacy() {
			var prior domain.ProjectConfig
			if jsonErr := json.Unmarshal(existing.Config, &prior); jsonErr == nil && prior.CreatedAt != "" {
				createdAt = prior.CreatedAt
				updated = true
			}
		}

		cfg = domain.ProjectConfig{
			ProjectName:           name,
			SelectedBuildingTypes: append([]string(nil), sel.BuildingTypes...),
			CurrentBuildingType:   sel.Current,
			SquareFootage:         sel.SquareFootage,
			RangeResults:          results,
			CreatedAt:             createdAt,
			UpdatedAt:             now,
		}
		blob, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode project config: %w", err)
		}
		record := domain.ProjectRecord{
			Owner:     owner,
			Name:      name,
			Config:    blob,
			CreatedAt: createdAt,
			UpdatedAt: now,
		}
		if err := s.store.Put(ctx, record); err != nil {
			return domain.StoreUnavailableError{Op: opSaveProject, Err: err}
		}
		receipt = SaveReceipt{Updated: updated, CreatedAt: createdAt, UpdatedAt: now}
		return nil
	})
	if err != nil {
		return domain.ProjectConfig{}, SaveReceipt{}, err
	}
	return cfg, receipt, nil
}

// LoadProject restores a full project configuration. Legacy records are
// reported as LegacyUnsupportedError: they can be summarized but lack the
// selection state a restore needs.
func (s *Service) LoadProject(ctx context.Context, owner, name string) (domain.ProjectConfig, error) {
	var cfg domain.ProjectConfig
	err := s.instrument(ctx, opLoadProject, owner, name, func(ctx context.Context) error {
		record, ok, err := s.store.Get(ctx, owner, name)
		if err != nil {
			return domain.StoreUnavailableError{Op: opLoadProject, Err: err}
		}
		if !ok {
			return domain.NotFoundError{Owner: owner, Name: name}
		}
		if record.IsLegacy() {
			return domain.LegacyUnsupportedError{Owner: owner, Name: name}
		}
		if err := json.Unmarshal(record.Config, &cfg); err != nil {
			return fmt.Errorf("decode project config for %q: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return domain.ProjectConfig{}, err
	}
	return cfg, nil
}

// DeleteProject removes a project. Deleting an absent key reports
// NotFoundError to the caller.
func (s *Service) DeleteProject(ctx context.Context, owner, name string) error {
	return s.instrument(ctx, opDeleteProject, owner, name, func(ctx context.Context) error {
		existed, err := s.store.Delete(ctx, owner, name)
		if err != nil {
			return domain.StoreUnavailableError{Op: opDeleteProject, Err: err}
		}
		if !existed {
			return domain.NotFoundError{Owner: owner, Name: name}
		}
		return nil
	})
}

// ListProjects summarizes every stored project for an owner. Legacy
// records are flagged and reduced to their flat result figures; a record
// whose blobs fail to parse still lists with its name and timestamps.
func (s *Service) ListProjects(ctx context.Context, owner string) ([]domain.ProjectSummary, error) {
	var summaries []domain.ProjectSummary
	err := s.instrument(ctx, opListProjects, owner, "", func(ctx context.Context) error {
		records, err := s.store.List(ctx, owner)
		if err != nil {
			return domain.StoreUnavailableError{Op: opListProjects, Err: err}
		}
		summaries = make([]domain.ProjectSummary, 0, len(records))
		for _, record := range records {
			summaries = append(summaries, summarize(record))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func summarize(record domain.ProjectRecord) domain.ProjectSummary {
	summary := domain.ProjectSummary{
		Name:      record.Name,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	if record.IsLegacy() {
		summary.Legacy = true
		var flat domain.Result
		if err := json.Unmarshal(record.LegacyResults, &flat); err == nil {
			summary.Tonnage = flat.Tonnage
			summary.TotalOccupancy = flat.TotalOccupancy
			summary.ElectricalKW = flat.ElectricalKW
		}
		return summary
	}
	var cfg domain.ProjectConfig
	if err := json.Unmarshal(record.Config, &cfg); err != nil {
		return summary
	}
	summary.BuildingType = cfg.CurrentBuildingType
	summary.SquareFootage = cfg.SquareFootage
	summary.AvgTonnage = cfg.RangeResults.Avg.Tonnage
	if summary.CreatedAt == "" {
		summary.CreatedAt = cfg.CreatedAt
	}
	if summary.UpdatedAt == "" {
		summary.UpdatedAt = cfg.UpdatedAt
	}
	return summary
}
